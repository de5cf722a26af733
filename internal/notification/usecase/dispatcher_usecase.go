// Package usecase implements the notification dispatcher. The dispatcher is
// the only component that creates notification rows; everything else either
// reads them or updates delivery status on existing rows.
package usecase

import (
	"context"
	"log/slog"
	"time"

	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"

	"github.com/google/uuid"

	contractDomain "github.com/contractflow/contractflow/internal/contract/domain"
	"github.com/contractflow/contractflow/internal/database"
	apperrors "github.com/contractflow/contractflow/internal/errors"
	"github.com/contractflow/contractflow/internal/notification/domain"
	appValidation "github.com/contractflow/contractflow/internal/validation"
)

// CreateNotificationInput contains the input data for notification creation.
type CreateNotificationInput struct {
	ContractID    uuid.UUID      `json:"contract_id"`
	SellerID      uuid.UUID      `json:"seller_id"`
	Recipient     string         `json:"recipient"`
	Type          domain.Type    `json:"type"`
	Channel       domain.Channel `json:"channel"`
	AttemptNumber int            `json:"attempt_number"`
}

// Validate checks if the create notification input is valid.
func (i CreateNotificationInput) Validate() error {
	recipientRule := appValidation.NotBlank
	if i.Channel == domain.ChannelEmail {
		recipientRule = is.EmailFormat
	} else if i.Channel == domain.ChannelWhatsApp {
		recipientRule = appValidation.E164Phone
	}

	return validation.ValidateStruct(&i,
		validation.Field(&i.ContractID, validation.Required),
		validation.Field(&i.SellerID, validation.Required),
		validation.Field(&i.Recipient, validation.Required, recipientRule),
		validation.Field(&i.Type, validation.By(func(any) error {
			if !i.Type.IsValid() {
				return validation.NewError("validation_type", "unknown notification type")
			}
			return nil
		})),
		validation.Field(&i.Channel, validation.By(func(any) error {
			if !i.Channel.IsValid() {
				return validation.NewError("validation_channel", "unknown notification channel")
			}
			return nil
		})),
	)
}

// UseCase defines the interface for notification dispatch operations.
type UseCase interface {
	Create(ctx context.Context, input CreateNotificationInput) (*domain.Notification, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ConfirmDelivery(ctx context.Context, externalID string) error
}

// NotificationRepository defines notification persistence operations.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	GetPendingByContract(ctx context.Context, contractID uuid.UUID) (*domain.Notification, error)
	CountByContract(ctx context.Context, contractID uuid.UUID) (int, error)
	CountByContractAndType(ctx context.Context, contractID uuid.UUID, typ domain.Type) (int, error)
	MarkSent(ctx context.Context, id uuid.UUID, externalID string, sentAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	MarkDelivered(ctx context.Context, externalID string, deliveredAt time.Time) error
}

// ContractReader provides read access to contracts.
type ContractReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*contractDomain.Contract, error)
}

// Enqueuer schedules delivery jobs. The job payload carries only the
// notification id.
type Enqueuer interface {
	Enqueue(ctx context.Context, notificationID uuid.UUID, delay time.Duration) error
}

// PauseChecker reports whether notification dispatch is suspended.
type PauseChecker interface {
	NotificationsPausedAt(ctx context.Context, now time.Time) (bool, error)
}

// DispatcherUseCase handles notification creation and delivery bookkeeping.
type DispatcherUseCase struct {
	txManager        database.TxManager
	notificationRepo NotificationRepository
	contracts        ContractReader
	queue            Enqueuer
	pause            PauseChecker
	logger           *slog.Logger
}

// NewDispatcherUseCase creates a new DispatcherUseCase.
func NewDispatcherUseCase(
	txManager database.TxManager,
	notificationRepo NotificationRepository,
	contracts ContractReader,
	queue Enqueuer,
	pause PauseChecker,
	logger *slog.Logger,
) *DispatcherUseCase {
	return &DispatcherUseCase{
		txManager:        txManager,
		notificationRepo: notificationRepo,
		contracts:        contracts,
		queue:            queue,
		pause:            pause,
		logger:           logger,
	}
}

// Create creates a notification and enqueues its delivery job. The ordered
// guards make creation idempotent under concurrent triggers: a terminal
// contract rejects, an in-flight PENDING row is returned unchanged, and the
// per-contract limit is a hard cap.
func (uc *DispatcherUseCase) Create(
	ctx context.Context,
	input CreateNotificationInput,
) (*domain.Notification, error) {
	if err := input.Validate(); err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	paused, err := uc.pause.NotificationsPausedAt(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if paused {
		return nil, domain.ErrNotificationsPaused
	}

	contract, err := uc.contracts.GetByID(ctx, input.ContractID)
	if err != nil {
		return nil, err
	}
	if contract.Status.IsTerminal() {
		return nil, domain.ErrContractTerminal
	}

	pending, err := uc.notificationRepo.GetPendingByContract(ctx, input.ContractID)
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if pending != nil {
		return pending, nil
	}

	count, err := uc.notificationRepo.CountByContract(ctx, input.ContractID)
	if err != nil {
		return nil, err
	}
	if count >= domain.MaxAttempts {
		return nil, domain.ErrNotificationLimitReached
	}

	if input.AttemptNumber < 1 || input.AttemptNumber > domain.MaxAttempts {
		return nil, apperrors.Wrapf(
			apperrors.ErrInvalidInput,
			"attempt number %d out of range", input.AttemptNumber,
		)
	}

	var signingURL string
	if contract.SigningURL != nil {
		signingURL = *contract.SigningURL
	}

	content, err := domain.RenderContent(input.Channel, input.Type, input.AttemptNumber, signingURL)
	if err != nil {
		return nil, err
	}

	notification := &domain.Notification{
		ID:            uuid.Must(uuid.NewV7()),
		ContractID:    input.ContractID,
		SellerID:      input.SellerID,
		Recipient:     input.Recipient,
		Type:          input.Type,
		Channel:       input.Channel,
		Content:       content,
		Status:        domain.StatusPending,
		AttemptNumber: input.AttemptNumber,
		CreatedAt:     time.Now().UTC(),
	}

	// Row insert and job enqueue commit together so a crash can never
	// leave a PENDING row without its delivery job, or the reverse.
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.notificationRepo.Create(ctx, notification); err != nil {
			return err
		}
		return uc.queue.Enqueue(ctx, notification.ID, 0)
	})
	if err != nil {
		// A concurrent trigger slipped past the pending check and won the
		// partial unique index race. Its row is the in-flight one.
		if apperrors.Is(err, apperrors.ErrConflict) {
			if pending, pendingErr := uc.notificationRepo.GetPendingByContract(
				ctx, input.ContractID,
			); pendingErr == nil {
				return pending, nil
			}
		}
		return nil, err
	}

	uc.logger.InfoContext(ctx, "notification created",
		slog.String("notification_id", notification.ID.String()),
		slog.String("contract_id", notification.ContractID.String()),
		slog.String("type", string(notification.Type)),
		slog.Int("attempt", notification.AttemptNumber),
	)

	return notification, nil
}

// Get retrieves a notification by id.
func (uc *DispatcherUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return uc.notificationRepo.GetByID(ctx, id)
}

// ConfirmDelivery records a gateway delivery receipt for a sent message.
func (uc *DispatcherUseCase) ConfirmDelivery(ctx context.Context, externalID string) error {
	if err := validation.Validate(externalID, validation.Required); err != nil {
		return appValidation.WrapValidationError(err)
	}
	return uc.notificationRepo.MarkDelivered(ctx, externalID, time.Now().UTC())
}
