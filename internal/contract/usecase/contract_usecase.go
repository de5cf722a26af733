// Package usecase implements the contract state machine. All status changes
// flow through ChangeStatus, which persists the new status and its audit row
// atomically and publishes a domain event after commit.
package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/contractflow/contractflow/internal/contract/domain"
	"github.com/contractflow/contractflow/internal/database"
	apperrors "github.com/contractflow/contractflow/internal/errors"
	"github.com/contractflow/contractflow/internal/events"
	appValidation "github.com/contractflow/contractflow/internal/validation"
)

// CreateContractInput contains the input data for contract creation.
type CreateContractInput struct {
	SellerID   uuid.UUID `json:"seller_id"`
	TemplateID uuid.UUID `json:"template_id"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// UseCase defines the interface for contract state machine operations.
type UseCase interface {
	Create(ctx context.Context, input CreateContractInput) (*domain.Contract, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Contract, error)
	ChangeStatus(
		ctx context.Context,
		contractID uuid.UUID,
		newStatus domain.Status,
		reason domain.Reason,
		metadata map[string]any,
	) (*domain.Contract, error)
	SendToSignature(ctx context.Context, contractID uuid.UUID, externalID, signingURL string) (*domain.Contract, error)
	ListPendingSignature(ctx context.Context) ([]*domain.Contract, error)
}

// ContractRepository defines contract persistence operations.
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Contract, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status, signedAt *time.Time) error
	SetSigningInfo(ctx context.Context, id uuid.UUID, externalID, signingURL string) error
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Contract, error)
}

// StatusHistoryRepository defines status history persistence operations.
// History is append-only: exactly one row per applied transition.
type StatusHistoryRepository interface {
	Create(ctx context.Context, history *domain.StatusHistory) error
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]*domain.StatusHistory, error)
}

// EventPublisher publishes contract domain events to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event events.ContractEvent)
}

// ContractUseCase handles contract lifecycle business logic.
type ContractUseCase struct {
	txManager    database.TxManager
	contractRepo ContractRepository
	historyRepo  StatusHistoryRepository
	publisher    EventPublisher
}

// NewContractUseCase creates a new ContractUseCase.
func NewContractUseCase(
	txManager database.TxManager,
	contractRepo ContractRepository,
	historyRepo StatusHistoryRepository,
	publisher EventPublisher,
) *ContractUseCase {
	return &ContractUseCase{
		txManager:    txManager,
		contractRepo: contractRepo,
		historyRepo:  historyRepo,
		publisher:    publisher,
	}
}

// Create creates a new contract in DRAFT status.
func (uc *ContractUseCase) Create(
	ctx context.Context,
	input CreateContractInput,
) (*domain.Contract, error) {
	if err := validation.ValidateStruct(&input,
		validation.Field(&input.SellerID, validation.Required),
		validation.Field(&input.TemplateID, validation.Required),
	); err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	now := time.Now().UTC()
	contract := &domain.Contract{
		ID:         uuid.Must(uuid.NewV7()),
		SellerID:   input.SellerID,
		TemplateID: input.TemplateID,
		Status:     domain.StatusDraft,
		ExpiresAt:  input.ExpiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// Creation is not a transition: no history row is written until the
	// contract first moves along the graph.
	if err := uc.contractRepo.Create(ctx, contract); err != nil {
		return nil, err
	}

	return contract, nil
}

// Get retrieves a contract by id.
func (uc *ContractUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	return uc.contractRepo.GetByID(ctx, id)
}

// GetByExternalID retrieves a contract by the signing provider's document id.
func (uc *ContractUseCase) GetByExternalID(
	ctx context.Context,
	externalID string,
) (*domain.Contract, error) {
	return uc.contractRepo.GetByExternalID(ctx, externalID)
}

// ChangeStatus applies a status transition. The status update and the history
// row are written atomically: both persist or neither does. On success a
// domain event is published for downstream subscribers.
//
// Returns ErrInvalidTransition when the transition graph does not allow the
// move (including same-state no-ops), ErrNotFound for unknown contracts.
func (uc *ContractUseCase) ChangeStatus(
	ctx context.Context,
	contractID uuid.UUID,
	newStatus domain.Status,
	reason domain.Reason,
	metadata map[string]any,
) (*domain.Contract, error) {
	if !newStatus.IsValid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown status %q", newStatus)
	}
	if !reason.IsValid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown reason %q", reason)
	}

	contract, err := uc.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	return uc.applyTransition(ctx, contract, newStatus, reason, metadata, nil)
}

// SendToSignature records the signing provider's document id and signing URL,
// both immutable once set, and transitions the contract to PENDING_SIGNATURE.
func (uc *ContractUseCase) SendToSignature(
	ctx context.Context,
	contractID uuid.UUID,
	externalID, signingURL string,
) (*domain.Contract, error) {
	if err := validation.Validate(externalID, validation.Required, appValidation.NotBlank); err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	contract, err := uc.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	if contract.ExternalID != nil {
		return nil, domain.ErrExternalIDAlreadySet
	}

	signingInfo := &signingInfo{externalID: externalID, signingURL: signingURL}
	return uc.applyTransition(
		ctx,
		contract,
		domain.StatusPendingSignature,
		domain.ReasonSentToSignature,
		nil,
		signingInfo,
	)
}

// ListPendingSignature lists contracts awaiting signature, oldest first.
func (uc *ContractUseCase) ListPendingSignature(ctx context.Context) ([]*domain.Contract, error) {
	return uc.contractRepo.ListByStatus(ctx, domain.StatusPendingSignature)
}

type signingInfo struct {
	externalID string
	signingURL string
}

// applyTransition validates the edge and commits the status update plus its
// history row in one transaction, then publishes the matching domain event.
func (uc *ContractUseCase) applyTransition(
	ctx context.Context,
	contract *domain.Contract,
	newStatus domain.Status,
	reason domain.Reason,
	metadata map[string]any,
	signing *signingInfo,
) (*domain.Contract, error) {
	if !contract.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.Wrapf(
			apperrors.ErrInvalidTransition,
			"%s -> %s", contract.Status, newStatus,
		)
	}

	now := time.Now().UTC()
	var signedAt *time.Time
	if newStatus == domain.StatusSigned {
		signedAt = &now
	}

	fromStatus := contract.Status

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if signing != nil {
			if err := uc.contractRepo.SetSigningInfo(
				ctx, contract.ID, signing.externalID, signing.signingURL,
			); err != nil {
				return err
			}
		}

		if err := uc.contractRepo.UpdateStatus(ctx, contract.ID, newStatus, signedAt); err != nil {
			return err
		}

		history := &domain.StatusHistory{
			ID:         uuid.Must(uuid.NewV7()),
			ContractID: contract.ID,
			FromStatus: fromStatus,
			ToStatus:   newStatus,
			Reason:     reason,
			Metadata:   metadata,
			CreatedAt:  now,
		}
		return uc.historyRepo.Create(ctx, history)
	})
	if err != nil {
		return nil, err
	}

	contract.Status = newStatus
	contract.SignedAt = signedAt
	contract.UpdatedAt = now
	if signing != nil {
		contract.ExternalID = &signing.externalID
		contract.SigningURL = &signing.signingURL
	}

	if eventType, ok := events.TypeForStatus(newStatus); ok && uc.publisher != nil {
		uc.publisher.Publish(ctx, events.ContractEvent{
			Type:       eventType,
			ContractID: contract.ID,
			SellerID:   contract.SellerID,
			FromStatus: fromStatus,
			ToStatus:   newStatus,
			Reason:     reason,
			Metadata:   metadata,
			OccurredAt: now,
		})
	}

	return contract, nil
}
