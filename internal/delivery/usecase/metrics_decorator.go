package usecase

import (
	"context"
	"time"

	"github.com/contractflow/contractflow/internal/delivery/domain"
	"github.com/contractflow/contractflow/internal/metrics"
	queuedomain "github.com/contractflow/contractflow/internal/queue/domain"
)

// workerUseCaseWithMetrics decorates the worker with metrics instrumentation.
type workerUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewWorkerUseCaseWithMetrics wraps a worker use case with metrics recording.
func NewWorkerUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &workerUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Start delegates to the wrapped poll loop.
func (d *workerUseCaseWithMetrics) Start(ctx context.Context) error {
	return d.next.Start(ctx)
}

// ProcessBatch records metrics for batch processing.
func (d *workerUseCaseWithMetrics) ProcessBatch(ctx context.Context) (int, error) {
	start := time.Now()
	claimed, err := d.next.ProcessBatch(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "delivery", "delivery_batch", status)
	d.metrics.RecordDuration(ctx, "delivery", "delivery_batch", time.Since(start), status)

	return claimed, err
}

// ProcessJob records metrics for single job processing, labeled by outcome.
func (d *workerUseCaseWithMetrics) ProcessJob(
	ctx context.Context,
	job *queuedomain.Job,
) domain.Result {
	start := time.Now()
	result := d.next.ProcessJob(ctx, job)

	d.metrics.RecordOperation(ctx, "delivery", "delivery_job", string(result.Outcome))
	d.metrics.RecordDuration(ctx, "delivery", "delivery_job", time.Since(start), string(result.Outcome))

	return result
}
