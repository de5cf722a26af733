package domain

import (
	"github.com/contractflow/contractflow/internal/errors"
)

// Contract-specific error definitions.
var (
	// ErrContractNotFound indicates no contract exists with the given id.
	ErrContractNotFound = errors.Wrap(errors.ErrNotFound, "contract not found")

	// ErrExternalIDAlreadySet indicates an attempt to overwrite the signing
	// provider's document id, which is immutable once set.
	ErrExternalIDAlreadySet = errors.Wrap(errors.ErrConflict, "external id already set")
)
