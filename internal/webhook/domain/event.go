// Package domain defines the signing provider's webhook event model and the
// fixed mapping from provider event types to contract transitions.
package domain

import (
	contractDomain "github.com/contractflow/contractflow/internal/contract/domain"
)

// Provider event types. The provider may deliver duplicates and out-of-order
// events; the processor tolerates both.
const (
	EventSignatureAccepted = "signature.accepted"
	EventSignatureRejected = "signature.rejected"
	EventDocumentFinished  = "document.finished"
)

// Event is a provider webhook event after envelope unwrapping.
type Event struct {
	// ID is the provider's event id.
	ID string

	// Type is the provider event type.
	Type string

	// DocumentID is the provider's document id, matched against the
	// contract's external id.
	DocumentID string

	// Reason is the provider's free-text reason, present on rejections.
	Reason string
}

// Transition is the contract state change a provider event maps to.
type Transition struct {
	Status contractDomain.Status
	Reason contractDomain.Reason
}

// transitionTable is the fixed provider event type → transition mapping.
var transitionTable = map[string]Transition{
	EventSignatureAccepted: {Status: contractDomain.StatusSigned, Reason: contractDomain.ReasonSigned},
	EventDocumentFinished:  {Status: contractDomain.StatusSigned, Reason: contractDomain.ReasonSigned},
	EventSignatureRejected: {Status: contractDomain.StatusCancelled, Reason: contractDomain.ReasonCancelled},
}

// TransitionFor returns the transition for a provider event type. Unknown
// types return false; the processor ignores them.
func TransitionFor(eventType string) (Transition, bool) {
	transition, ok := transitionTable[eventType]
	return transition, ok
}
