// Package usecase implements the webhook event processor. It translates
// provider signer events into contract transitions, absorbing the provider's
// duplicate and out-of-order delivery so business-rule conflicts never leak
// back as webhook failures.
package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	contractDomain "github.com/contractflow/contractflow/internal/contract/domain"
	apperrors "github.com/contractflow/contractflow/internal/errors"
	"github.com/contractflow/contractflow/internal/webhook/domain"
)

// UseCase defines the interface for webhook event processing.
type UseCase interface {
	Process(ctx context.Context, event domain.Event) error
}

// ContractStatusChanger applies contract transitions.
type ContractStatusChanger interface {
	GetByExternalID(ctx context.Context, externalID string) (*contractDomain.Contract, error)
	ChangeStatus(
		ctx context.Context,
		contractID uuid.UUID,
		newStatus contractDomain.Status,
		reason contractDomain.Reason,
		metadata map[string]any,
	) (*contractDomain.Contract, error)
}

// ProcessorUseCase handles webhook event processing business logic.
type ProcessorUseCase struct {
	contracts ContractStatusChanger
	logger    *slog.Logger
}

// NewProcessorUseCase creates a new ProcessorUseCase.
func NewProcessorUseCase(contracts ContractStatusChanger, logger *slog.Logger) *ProcessorUseCase {
	return &ProcessorUseCase{
		contracts: contracts,
		logger:    logger,
	}
}

// Process applies a provider event to the matching contract. Missing
// contracts, unknown event types and invalid transitions are logged and
// swallowed: returning an error would only trigger a provider retry storm
// for something a retry can never fix. Infrastructure errors propagate.
func (uc *ProcessorUseCase) Process(ctx context.Context, event domain.Event) error {
	transition, ok := domain.TransitionFor(event.Type)
	if !ok {
		uc.logger.InfoContext(ctx, "ignoring unrecognized webhook event type",
			slog.String("event_id", event.ID),
			slog.String("event_type", event.Type),
		)
		return nil
	}

	contract, err := uc.contracts.GetByExternalID(ctx, event.DocumentID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			uc.logger.WarnContext(ctx, "webhook event for unknown document",
				slog.String("event_id", event.ID),
				slog.String("document_id", event.DocumentID),
			)
			return nil
		}
		return err
	}

	var metadata map[string]any
	if event.Reason != "" {
		metadata = map[string]any{"reason": event.Reason}
	}

	_, err = uc.contracts.ChangeStatus(ctx, contract.ID, transition.Status, transition.Reason, metadata)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidTransition) {
			// Stale or duplicate provider event arriving after the
			// contract already moved on.
			uc.logger.InfoContext(ctx, "webhook event ignored by transition graph",
				slog.String("event_id", event.ID),
				slog.String("contract_id", contract.ID.String()),
				slog.String("current_status", string(contract.Status)),
				slog.String("target_status", string(transition.Status)),
			)
			return nil
		}
		return err
	}

	uc.logger.InfoContext(ctx, "webhook event applied",
		slog.String("event_id", event.ID),
		slog.String("contract_id", contract.ID.String()),
		slog.String("new_status", string(transition.Status)),
	)
	return nil
}
