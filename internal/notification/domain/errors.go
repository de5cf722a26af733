package domain

import (
	"github.com/contractflow/contractflow/internal/errors"
)

// Notification-specific error definitions.
var (
	// ErrNotificationNotFound indicates no notification exists with the given id.
	ErrNotificationNotFound = errors.Wrap(errors.ErrNotFound, "notification not found")

	// ErrNotificationLimitReached indicates the contract already received the
	// maximum number of notifications.
	ErrNotificationLimitReached = errors.Wrap(errors.ErrLimitReached, "notification limit reached for contract")

	// ErrContractTerminal indicates the owning contract reached a terminal
	// status and can no longer receive notifications.
	ErrContractTerminal = errors.Wrap(errors.ErrInvalidTransition, "contract is in a terminal status")

	// ErrNotificationsPaused indicates dispatch is suspended by the
	// operational pause flag.
	ErrNotificationsPaused = errors.Wrap(errors.ErrConflict, "notifications are paused")
)
