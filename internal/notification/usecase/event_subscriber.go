package usecase

import (
	"context"
	"log/slog"

	"github.com/contractflow/contractflow/internal/events"
	"github.com/contractflow/contractflow/internal/notification/domain"
)

// ContractEventSubscriber reacts to contract domain events. When a contract
// is sent out for signature it dispatches the initial signature request
// notification.
type ContractEventSubscriber struct {
	dispatcher UseCase
	resolver   RecipientResolver
	logger     *slog.Logger
}

// NewContractEventSubscriber creates a new ContractEventSubscriber.
func NewContractEventSubscriber(
	dispatcher UseCase,
	resolver RecipientResolver,
	logger *slog.Logger,
) *ContractEventSubscriber {
	return &ContractEventSubscriber{
		dispatcher: dispatcher,
		resolver:   resolver,
		logger:     logger,
	}
}

// HandleContractEvent dispatches the attempt-1 signature request when a
// contract moves to PENDING_SIGNATURE. Terminal-state events need no
// dispatch; the dispatcher guards make one impossible anyway.
func (s *ContractEventSubscriber) HandleContractEvent(
	ctx context.Context,
	event events.ContractEvent,
) error {
	if event.Type != events.EventSentToSignature {
		return nil
	}

	recipient, err := s.resolver.Resolve(ctx, event.SellerID)
	if err != nil {
		return err
	}

	_, err = s.dispatcher.Create(ctx, CreateNotificationInput{
		ContractID:    event.ContractID,
		SellerID:      event.SellerID,
		Recipient:     recipient.Address,
		Type:          domain.TypeSignatureRequest,
		Channel:       recipient.Channel,
		AttemptNumber: 1,
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "signature request dispatched",
		slog.String("contract_id", event.ContractID.String()),
	)
	return nil
}
