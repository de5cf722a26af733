// Package domain defines operational settings stored as key/value rows.
package domain

import "time"

// KeyNotificationsPausedUntil holds the timestamp until which outbound
// notification dispatch is suspended.
const KeyNotificationsPausedUntil = "notifications_paused_until"

// Setting represents an operational key/value setting.
type Setting struct {
	// Key is the unique setting name.
	Key string

	// Value is the serialized setting value.
	Value string

	// UpdatedAt is when the setting was last written.
	UpdatedAt time.Time
}
