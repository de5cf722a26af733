// Package domain defines the core contract domain models and the status
// transition graph. A contract is a signable document tracked through its
// lifecycle from draft to a terminal state.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle status of a contract.
type Status string

const (
	StatusDraft            Status = "DRAFT"
	StatusPendingSignature Status = "PENDING_SIGNATURE"
	StatusSigned           Status = "SIGNED"
	StatusExpired          Status = "EXPIRED"
	StatusCancelled        Status = "CANCELLED"
)

// transitions is the allowed status transition graph. Statuses without an
// entry are terminal.
var transitions = map[Status][]Status{
	StatusDraft:            {StatusPendingSignature, StatusCancelled},
	StatusPendingSignature: {StatusSigned, StatusExpired, StatusCancelled},
}

// IsValid reports whether s is a known contract status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingSignature, StatusSigned, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// CanTransitionTo reports whether the graph allows moving from s to next.
// Same-state no-ops are not allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Reason identifies why a status transition was applied.
type Reason string

const (
	ReasonCreated            Reason = "CREATED"
	ReasonSentToSignature    Reason = "SENT_TO_SIGNATURE"
	ReasonSigned             Reason = "SIGNED"
	ReasonExpired            Reason = "EXPIRED"
	ReasonCancelled          Reason = "CANCELLED"
	ReasonManualCancellation Reason = "MANUAL_CANCELLATION"
)

// IsValid reports whether r is a known transition reason.
func (r Reason) IsValid() bool {
	switch r {
	case ReasonCreated, ReasonSentToSignature, ReasonSigned,
		ReasonExpired, ReasonCancelled, ReasonManualCancellation:
		return true
	}
	return false
}

// Contract represents a signable document instance.
type Contract struct {
	// ID is the unique identifier for the contract.
	ID uuid.UUID
	// SellerID identifies the counterparty expected to sign.
	SellerID uuid.UUID
	// TemplateID references the document template the contract was rendered from.
	TemplateID uuid.UUID
	// Status is the current lifecycle status.
	Status Status
	// ExternalID is the signing provider's document id. Set exactly once when
	// the contract is sent to signature; immutable afterwards.
	ExternalID *string
	// SigningURL is the provider-hosted signing page. Immutable once set.
	SigningURL *string
	// ExpiresAt is when the signing window closes (nil if open-ended).
	ExpiresAt *time.Time
	// SignedAt is when the counterparty signed (nil until SIGNED).
	SignedAt *time.Time
	// CreatedAt is the UTC timestamp when the contract was created.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last modification.
	UpdatedAt time.Time
}

// StatusHistory is an append-only audit row recording one applied transition.
// Exactly one row exists per transition ever applied.
type StatusHistory struct {
	ID         uuid.UUID
	ContractID uuid.UUID
	FromStatus Status
	ToStatus   Status
	Reason     Reason
	// Metadata carries transition context, e.g. the provider's rejection
	// reason captured verbatim under the "reason" key.
	Metadata  map[string]any
	CreatedAt time.Time
}
