// Package domain defines the notification domain model. Notification rows
// are created only by the dispatcher; delivery workers may only update the
// status fields of existing rows.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxAttempts caps how many notifications a contract may ever receive.
const MaxAttempts = 3

// Status represents the delivery status of a notification.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSent      Status = "SENT"
	StatusDelivered Status = "DELIVERED"
	StatusFailed    Status = "FAILED"
)

// IsValid reports whether s is a known notification status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSent, StatusDelivered, StatusFailed:
		return true
	}
	return false
}

// Type identifies what a notification is asking the recipient to do.
type Type string

const (
	TypeSignatureRequest  Type = "SIGNATURE_REQUEST"
	TypeSignatureReminder Type = "SIGNATURE_REMINDER"
)

// IsValid reports whether t is a known notification type.
func (t Type) IsValid() bool {
	switch t {
	case TypeSignatureRequest, TypeSignatureReminder:
		return true
	}
	return false
}

// TypeForAttempt returns the notification type for a given attempt number.
// The first send asks for a signature, later ones remind.
func TypeForAttempt(attempt int) Type {
	if attempt <= 1 {
		return TypeSignatureRequest
	}
	return TypeSignatureReminder
}

// Channel identifies the outbound messaging channel.
type Channel string

const (
	ChannelWhatsApp Channel = "WHATSAPP"
	ChannelEmail    Channel = "EMAIL"
)

// IsValid reports whether c is a known messaging channel.
func (c Channel) IsValid() bool {
	switch c {
	case ChannelWhatsApp, ChannelEmail:
		return true
	}
	return false
}

// Notification represents a single outbound message to a contract's
// counterparty.
type Notification struct {
	// ID is the unique identifier for the notification.
	ID uuid.UUID

	// ContractID is the contract this notification belongs to.
	ContractID uuid.UUID

	// SellerID is the seller that owns the contract.
	SellerID uuid.UUID

	// Recipient is the channel address the message is sent to
	// (a phone number for WhatsApp, an email address for email).
	Recipient string

	// Type is what the notification asks the recipient to do.
	Type Type

	// Channel is the outbound messaging channel.
	Channel Channel

	// Content is the rendered message body. Frozen at creation so a
	// retried send always reuses the same text.
	Content string

	// Status is the delivery status.
	Status Status

	// AttemptNumber is the 1-based position of this notification in the
	// contract's send sequence, bounded by MaxAttempts.
	AttemptNumber int

	// ExternalID is the gateway message id, set once the send succeeds.
	ExternalID *string

	// SentAt is when the gateway accepted the message.
	SentAt *time.Time

	// DeliveredAt is when the gateway confirmed delivery.
	DeliveredAt *time.Time

	// CreatedAt is when the notification row was created.
	CreatedAt time.Time
}
