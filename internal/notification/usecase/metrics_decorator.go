package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/contractflow/contractflow/internal/metrics"
	"github.com/contractflow/contractflow/internal/notification/domain"
)

// dispatcherUseCaseWithMetrics decorates the dispatcher with metrics instrumentation.
type dispatcherUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewDispatcherUseCaseWithMetrics wraps a dispatcher use case with metrics recording.
func NewDispatcherUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &dispatcherUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for notification creation.
func (d *dispatcherUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateNotificationInput,
) (*domain.Notification, error) {
	start := time.Now()
	notification, err := d.next.Create(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "notification", "notification_create", status)
	d.metrics.RecordDuration(ctx, "notification", "notification_create", time.Since(start), status)

	return notification, err
}

// Get records metrics for notification retrieval.
func (d *dispatcherUseCaseWithMetrics) Get(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Notification, error) {
	start := time.Now()
	notification, err := d.next.Get(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "notification", "notification_get", status)
	d.metrics.RecordDuration(ctx, "notification", "notification_get", time.Since(start), status)

	return notification, err
}

// ConfirmDelivery records metrics for delivery receipt processing.
func (d *dispatcherUseCaseWithMetrics) ConfirmDelivery(ctx context.Context, externalID string) error {
	start := time.Now()
	err := d.next.ConfirmDelivery(ctx, externalID)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "notification", "notification_confirm_delivery", status)
	d.metrics.RecordDuration(ctx, "notification", "notification_confirm_delivery", time.Since(start), status)

	return err
}
