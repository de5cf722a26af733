package domain

import (
	"github.com/contractflow/contractflow/internal/errors"
)

// Settings-specific error definitions.
var (
	// ErrSettingNotFound indicates no setting exists with the given key.
	ErrSettingNotFound = errors.Wrap(errors.ErrNotFound, "setting not found")
)
