// Package usecase implements the delivery worker business logic that drains
// the delivery queue and hands notifications to the messaging gateway.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	contractdomain "github.com/contractflow/contractflow/internal/contract/domain"
	"github.com/contractflow/contractflow/internal/delivery/domain"
	apperrors "github.com/contractflow/contractflow/internal/errors"
	notifdomain "github.com/contractflow/contractflow/internal/notification/domain"
	queuedomain "github.com/contractflow/contractflow/internal/queue/domain"
)

// Config holds delivery worker configuration.
type Config struct {
	Count           int
	PollInterval    time.Duration
	BatchSize       int
	MaxRedeliveries int
	RetryBaseDelay  time.Duration
	SerializeDelay  time.Duration
}

// JobQueue defines the delivery job queue operations used by the worker.
type JobQueue interface {
	Dequeue(ctx context.Context, limit int) ([]*queuedomain.Job, error)
	Release(ctx context.Context, job *queuedomain.Job, delay time.Duration, lastError string) error
	Complete(ctx context.Context, job *queuedomain.Job) error
	Bury(ctx context.Context, job *queuedomain.Job, lastError string) error
}

// NotificationStore defines the notification persistence operations used by
// the worker.
type NotificationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*notifdomain.Notification, error)
	GetPendingByContract(ctx context.Context, contractID uuid.UUID) (*notifdomain.Notification, error)
	MarkSent(ctx context.Context, id uuid.UUID, externalID string, sentAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

// ContractReader defines read access to contracts.
type ContractReader interface {
	Get(ctx context.Context, id uuid.UUID) (*contractdomain.Contract, error)
}

// Gateway defines the outbound messaging gateway.
type Gateway interface {
	Send(
		ctx context.Context,
		channel notifdomain.Channel,
		recipient string,
		content string,
	) (string, error)
}

// RateLimiter defines the per-recipient send limiter.
type RateLimiter interface {
	Allow(recipient string) bool
}

// UseCase defines the interface for delivery worker use cases.
type UseCase interface {
	Start(ctx context.Context) error
	ProcessBatch(ctx context.Context) (int, error)
	ProcessJob(ctx context.Context, job *queuedomain.Job) domain.Result
}

// WorkerUseCase claims delivery jobs and pushes their notifications through
// the gateway, releasing retryable failures back to the queue with backoff.
type WorkerUseCase struct {
	config        Config
	queue         JobQueue
	notifications NotificationStore
	contracts     ContractReader
	gateway       Gateway
	limiter       RateLimiter
	logger        *slog.Logger
}

// NewWorkerUseCase creates a new WorkerUseCase.
func NewWorkerUseCase(
	config Config,
	queue JobQueue,
	notifications NotificationStore,
	contracts ContractReader,
	gateway Gateway,
	limiter RateLimiter,
	logger *slog.Logger,
) *WorkerUseCase {
	return &WorkerUseCase{
		config:        config,
		queue:         queue,
		notifications: notifications,
		contracts:     contracts,
		gateway:       gateway,
		limiter:       limiter,
		logger:        logger,
	}
}

// Start runs the delivery poll loop until the context is cancelled.
func (uc *WorkerUseCase) Start(ctx context.Context) error {
	uc.logger.Info("starting delivery workers",
		slog.Int("workers", uc.config.Count),
		slog.Duration("poll_interval", uc.config.PollInterval),
		slog.Int("batch_size", uc.config.BatchSize),
	)

	ticker := time.NewTicker(uc.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("stopping delivery workers")
			return ctx.Err()
		case <-ticker.C:
			if _, err := uc.ProcessBatch(ctx); err != nil {
				uc.logger.Error("failed to process delivery batch", slog.Any("error", err))
			}
		}
	}
}

// ProcessBatch claims one batch of due jobs and processes them concurrently.
// It returns the number of jobs claimed.
func (uc *WorkerUseCase) ProcessBatch(ctx context.Context) (int, error) {
	jobs, err := uc.queue.Dequeue(ctx, uc.config.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(jobs) == 0 {
		return 0, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.config.Count)

	for _, job := range jobs {
		g.Go(func() error {
			result := uc.ProcessJob(gctx, job)
			if result.Err != nil {
				uc.logger.Warn("delivery job did not complete",
					slog.String("job_id", job.ID.String()),
					slog.String("outcome", string(result.Outcome)),
					slog.Any("error", result.Err),
				)
			}
			return nil
		})
	}

	return len(jobs), g.Wait()
}

// ProcessJob runs one delivery pass for a claimed job. Every path settles the
// job: complete, release with delay, or bury after redeliveries run out.
func (uc *WorkerUseCase) ProcessJob(ctx context.Context, job *queuedomain.Job) domain.Result {
	notification, err := uc.notifications.GetByID(ctx, job.NotificationID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return uc.discard(ctx, job)
		}
		return uc.retryOrFail(ctx, job, job.NotificationID, err)
	}

	contract, err := uc.contracts.Get(ctx, notification.ContractID)
	if err != nil {
		return uc.retryOrFail(ctx, job, notification.ID, err)
	}

	// A signature that landed while the job waited makes the send pointless.
	if contract.Status == contractdomain.StatusSigned {
		cause := apperrors.Wrapf(apperrors.ErrSuperseded,
			"contract %s signed before delivery", contract.ID)
		if err := uc.notifications.MarkFailed(ctx, notification.ID, cause.Error()); err != nil {
			uc.logger.Warn("failed to mark superseded notification",
				slog.String("notification_id", notification.ID.String()),
				slog.Any("error", err),
			)
		}
		if err := uc.queue.Complete(ctx, job); err != nil {
			uc.logger.Error("failed to complete delivery job",
				slog.String("job_id", job.ID.String()),
				slog.Any("error", err),
			)
		}
		return domain.Result{Outcome: domain.OutcomeSuperseded}
	}

	// Duplicate redelivery of an already settled notification.
	if notification.Status != notifdomain.StatusPending {
		return uc.discard(ctx, job)
	}

	// Attempts for one contract go out in creation order. Later attempts
	// wait until the earlier pending one has been settled.
	earliest, err := uc.notifications.GetPendingByContract(ctx, notification.ContractID)
	if err != nil {
		return uc.retryOrFail(ctx, job, notification.ID, err)
	}
	if earliest.ID != notification.ID {
		if err := uc.queue.Release(ctx, job, uc.config.SerializeDelay,
			"waiting for earlier pending notification"); err != nil {
			uc.logger.Error("failed to release delivery job",
				slog.String("job_id", job.ID.String()),
				slog.Any("error", err),
			)
		}
		return domain.Result{Outcome: domain.OutcomeRetry}
	}

	if !uc.limiter.Allow(notification.Recipient) {
		cause := apperrors.Wrapf(apperrors.ErrRateLimited,
			"recipient %s over send limit", notification.Recipient)
		return uc.retryOrFail(ctx, job, notification.ID, cause)
	}

	messageID, err := uc.gateway.Send(ctx,
		notification.Channel, notification.Recipient, notification.Content)
	if err != nil {
		return uc.retryOrFail(ctx, job, notification.ID, err)
	}

	if err := uc.notifications.MarkSent(ctx, notification.ID, messageID, time.Now()); err != nil {
		return uc.retryOrFail(ctx, job, notification.ID, err)
	}

	if err := uc.queue.Complete(ctx, job); err != nil {
		uc.logger.Error("failed to complete delivery job",
			slog.String("job_id", job.ID.String()),
			slog.Any("error", err),
		)
	}

	uc.logger.InfoContext(ctx, "notification sent",
		slog.String("notification_id", notification.ID.String()),
		slog.String("contract_id", notification.ContractID.String()),
		slog.String("channel", string(notification.Channel)),
		slog.Int("attempt", notification.AttemptNumber),
		slog.String("message_id", messageID),
	)
	return domain.Result{Outcome: domain.OutcomeSent}
}

// discard completes a job whose notification no longer needs delivering.
func (uc *WorkerUseCase) discard(ctx context.Context, job *queuedomain.Job) domain.Result {
	if err := uc.queue.Complete(ctx, job); err != nil {
		uc.logger.Error("failed to complete delivery job",
			slog.String("job_id", job.ID.String()),
			slog.Any("error", err),
		)
	}
	return domain.Result{Outcome: domain.OutcomeDiscarded}
}

// retryOrFail releases the job with exponential backoff, or buries it and
// fails the notification once redeliveries are exhausted.
func (uc *WorkerUseCase) retryOrFail(
	ctx context.Context,
	job *queuedomain.Job,
	notificationID uuid.UUID,
	cause error,
) domain.Result {
	if job.RedeliveryCount >= uc.config.MaxRedeliveries {
		if err := uc.notifications.MarkFailed(ctx, notificationID, cause.Error()); err != nil {
			uc.logger.Warn("failed to mark notification failed",
				slog.String("notification_id", notificationID.String()),
				slog.Any("error", err),
			)
		}
		if err := uc.queue.Bury(ctx, job, cause.Error()); err != nil {
			uc.logger.Error("failed to bury delivery job",
				slog.String("job_id", job.ID.String()),
				slog.Any("error", err),
			)
		}
		return domain.Result{Outcome: domain.OutcomeFailed, Err: cause}
	}

	delay := uc.config.RetryBaseDelay * (1 << job.RedeliveryCount)
	if err := uc.queue.Release(ctx, job, delay, cause.Error()); err != nil {
		uc.logger.Error("failed to release delivery job",
			slog.String("job_id", job.ID.String()),
			slog.Any("error", err),
		)
	}
	return domain.Result{Outcome: domain.OutcomeRetry, Err: cause}
}
