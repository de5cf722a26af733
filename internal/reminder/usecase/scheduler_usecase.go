// Package usecase implements the reminder scheduler policy: which contracts
// waiting for signature should receive a follow-up, and which attempt it is.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	contractDomain "github.com/contractflow/contractflow/internal/contract/domain"
	notificationDomain "github.com/contractflow/contractflow/internal/notification/domain"
	notificationUseCase "github.com/contractflow/contractflow/internal/notification/usecase"
)

// Reminder thresholds: the first follow-up goes out 3 whole days after the
// contract was created, the final one after 7.
const (
	secondAttemptAfterDays = 3
	thirdAttemptAfterDays  = 7
)

// UseCase defines the interface for reminder scheduling operations.
type UseCase interface {
	ProcessAll(ctx context.Context) (int, error)
	ProcessContract(ctx context.Context, contractID uuid.UUID) (bool, error)
}

// ContractLister provides read access to contracts awaiting signature.
type ContractLister interface {
	Get(ctx context.Context, id uuid.UUID) (*contractDomain.Contract, error)
	ListPendingSignature(ctx context.Context) ([]*contractDomain.Contract, error)
}

// ReminderCounter counts a contract's reminder notifications. PENDING rows
// count too, which is what makes a second run within the same threshold
// window a no-op.
type ReminderCounter interface {
	CountByContractAndType(
		ctx context.Context,
		contractID uuid.UUID,
		typ notificationDomain.Type,
	) (int, error)
}

// PauseChecker reports whether notification dispatch is suspended.
type PauseChecker interface {
	NotificationsPausedAt(ctx context.Context, now time.Time) (bool, error)
}

// SchedulerUseCase evaluates the reminder policy over pending contracts.
type SchedulerUseCase struct {
	contracts  ContractLister
	counter    ReminderCounter
	dispatcher notificationUseCase.UseCase
	resolver   notificationUseCase.RecipientResolver
	pause      PauseChecker
	logger     *slog.Logger
	now        func() time.Time
}

// NewSchedulerUseCase creates a new SchedulerUseCase.
func NewSchedulerUseCase(
	contracts ContractLister,
	counter ReminderCounter,
	dispatcher notificationUseCase.UseCase,
	resolver notificationUseCase.RecipientResolver,
	pause PauseChecker,
	logger *slog.Logger,
) *SchedulerUseCase {
	return &SchedulerUseCase{
		contracts:  contracts,
		counter:    counter,
		dispatcher: dispatcher,
		resolver:   resolver,
		pause:      pause,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ProcessAll evaluates every contract awaiting signature and dispatches the
// reminders the policy calls for. One contract's failure is logged and
// counted, never aborting the batch. Returns the number of reminders created.
func (uc *SchedulerUseCase) ProcessAll(ctx context.Context) (int, error) {
	paused, err := uc.pause.NotificationsPausedAt(ctx, uc.now())
	if err != nil {
		return 0, err
	}
	if paused {
		uc.logger.InfoContext(ctx, "reminder run skipped, notifications paused")
		return 0, nil
	}

	contracts, err := uc.contracts.ListPendingSignature(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	failed := 0
	for _, contract := range contracts {
		dispatched, err := uc.evaluate(ctx, contract)
		if err != nil {
			failed++
			uc.logger.ErrorContext(ctx, "reminder evaluation failed",
				slog.String("contract_id", contract.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		if dispatched {
			created++
		}
	}

	uc.logger.InfoContext(ctx, "reminder run finished",
		slog.Int("evaluated", len(contracts)),
		slog.Int("created", created),
		slog.Int("failed", failed),
	)
	return created, nil
}

// ProcessContract evaluates the reminder policy for a single contract.
// Reports whether a reminder was dispatched.
func (uc *SchedulerUseCase) ProcessContract(ctx context.Context, contractID uuid.UUID) (bool, error) {
	paused, err := uc.pause.NotificationsPausedAt(ctx, uc.now())
	if err != nil {
		return false, err
	}
	if paused {
		return false, notificationDomain.ErrNotificationsPaused
	}

	contract, err := uc.contracts.Get(ctx, contractID)
	if err != nil {
		return false, err
	}

	return uc.evaluate(ctx, contract)
}

// evaluate applies the per-contract policy. The initial signature request is
// dispatched on the contract event, so zero prior reminders means the next
// send is attempt 2.
func (uc *SchedulerUseCase) evaluate(
	ctx context.Context,
	contract *contractDomain.Contract,
) (bool, error) {
	if contract.Status != contractDomain.StatusPendingSignature {
		return false, nil
	}

	reminders, err := uc.counter.CountByContractAndType(
		ctx, contract.ID, notificationDomain.TypeSignatureReminder,
	)
	if err != nil {
		return false, err
	}

	age := int(uc.now().Sub(contract.CreatedAt).Hours() / 24)

	var attempt int
	switch {
	case reminders == 0 && age >= secondAttemptAfterDays:
		attempt = 2
	case reminders == 1 && age >= thirdAttemptAfterDays:
		attempt = 3
	default:
		return false, nil
	}

	recipient, err := uc.resolver.Resolve(ctx, contract.SellerID)
	if err != nil {
		return false, err
	}

	_, err = uc.dispatcher.Create(ctx, notificationUseCase.CreateNotificationInput{
		ContractID:    contract.ID,
		SellerID:      contract.SellerID,
		Recipient:     recipient.Address,
		Type:          notificationDomain.TypeSignatureReminder,
		Channel:       recipient.Channel,
		AttemptNumber: attempt,
	})
	if err != nil {
		return false, err
	}

	uc.logger.InfoContext(ctx, "reminder dispatched",
		slog.String("contract_id", contract.ID.String()),
		slog.Int("attempt", attempt),
	)
	return true, nil
}
