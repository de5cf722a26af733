// Package events provides a typed publish/subscribe channel for contract
// domain events. The state machine publishes; the notification dispatcher and
// other components subscribe, which keeps the components free of direct
// mutual calls.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	contractDomain "github.com/contractflow/contractflow/internal/contract/domain"
)

// EventType identifies a contract domain event.
type EventType string

const (
	EventSentToSignature EventType = "contract.sent_to_signature"
	EventSigned          EventType = "contract.signed"
	EventExpired         EventType = "contract.expired"
	EventCancelled       EventType = "contract.cancelled"
)

// ContractEvent is published after a status transition has been committed.
type ContractEvent struct {
	Type       EventType
	ContractID uuid.UUID
	SellerID   uuid.UUID
	FromStatus contractDomain.Status
	ToStatus   contractDomain.Status
	Reason     contractDomain.Reason
	Metadata   map[string]any
	OccurredAt time.Time
}

// Handler processes a published contract event. Handler errors are logged,
// never propagated to the publisher: a failing subscriber must not roll back
// a committed transition.
type Handler func(ctx context.Context, event ContractEvent) error

// Bus is a synchronous in-process event bus.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *slog.Logger
}

// NewBus creates a new event bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe registers a handler for all contract events.
func (b *Bus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Publish delivers the event to every subscriber in registration order.
// Subscriber panics are recovered so one subscriber cannot take down the
// publisher or the remaining subscribers.
func (b *Bus) Publish(ctx context.Context, event ContractEvent) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.dispatch(ctx, handler, event)
	}
}

func (b *Bus) dispatch(ctx context.Context, handler Handler, event ContractEvent) {
	defer func() {
		if r := recover(); r != nil {
			if b.logger != nil {
				b.logger.Error("event handler panic",
					slog.String("event_type", string(event.Type)),
					slog.String("contract_id", event.ContractID.String()),
					slog.Any("panic", r),
				)
			}
		}
	}()

	if err := handler(ctx, event); err != nil {
		if b.logger != nil {
			b.logger.Error("event handler failed",
				slog.String("event_type", string(event.Type)),
				slog.String("contract_id", event.ContractID.String()),
				slog.Any("error", err),
			)
		}
	}
}

// TypeForStatus maps a target status to the event type emitted when a
// contract reaches it.
func TypeForStatus(status contractDomain.Status) (EventType, bool) {
	switch status {
	case contractDomain.StatusPendingSignature:
		return EventSentToSignature, true
	case contractDomain.StatusSigned:
		return EventSigned, true
	case contractDomain.StatusExpired:
		return EventExpired, true
	case contractDomain.StatusCancelled:
		return EventCancelled, true
	}
	return "", false
}
