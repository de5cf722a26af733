// Package repository provides the PostgreSQL-backed delivery queue.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/contractflow/contractflow/internal/database"
	apperrors "github.com/contractflow/contractflow/internal/errors"
	"github.com/contractflow/contractflow/internal/queue/domain"
)

// PostgreSQLJobRepository implements a durable at-least-once delivery queue
// on a PostgreSQL table. Dequeue claims rows with FOR UPDATE SKIP LOCKED so
// concurrent workers never double-claim, and reclaims processing rows whose
// visibility deadline has passed (crashed consumers).
type PostgreSQLJobRepository struct {
	db                *sql.DB
	visibilityTimeout time.Duration
}

// NewPostgreSQLJobRepository creates a new PostgreSQLJobRepository.
func NewPostgreSQLJobRepository(db *sql.DB, visibilityTimeout time.Duration) *PostgreSQLJobRepository {
	return &PostgreSQLJobRepository{
		db:                db,
		visibilityTimeout: visibilityTimeout,
	}
}

// Enqueue inserts a new pending job, optionally delayed.
func (r *PostgreSQLJobRepository) Enqueue(
	ctx context.Context,
	notificationID uuid.UUID,
	delay time.Duration,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO delivery_jobs (id, notification_id, redelivery_count, available_at,
	          status, created_at, updated_at)
	          VALUES ($1, $2, 0, NOW() + $3 * INTERVAL '1 second', $4, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query,
		uuid.Must(uuid.NewV7()), notificationID, int(delay.Seconds()), domain.StatusPending,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to enqueue delivery job")
	}
	return nil
}

// Dequeue claims up to limit due jobs and marks them processing. Jobs stuck
// in processing past the visibility timeout are claimed again.
func (r *PostgreSQLJobRepository) Dequeue(ctx context.Context, limit int) ([]*domain.Job, error) {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE delivery_jobs
	          SET status = $1, updated_at = NOW()
	          WHERE id IN (
	              SELECT id FROM delivery_jobs
	              WHERE (status = $2 AND available_at <= NOW())
	                 OR (status = $1 AND updated_at < NOW() - $3 * INTERVAL '1 second')
	              ORDER BY available_at ASC
	              LIMIT $4
	              FOR UPDATE SKIP LOCKED
	          )
	          RETURNING id, notification_id, redelivery_count, available_at, status,
	                    last_error, created_at, updated_at`

	rows, err := querier.QueryContext(ctx, query,
		domain.StatusProcessing, domain.StatusPending,
		int(r.visibilityTimeout.Seconds()), limit,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to dequeue delivery jobs")
	}
	defer rows.Close() //nolint:errcheck

	var jobs []*domain.Job
	for rows.Next() {
		var job domain.Job
		err := rows.Scan(
			&job.ID, &job.NotificationID, &job.RedeliveryCount, &job.AvailableAt,
			&job.Status, &job.LastError, &job.CreatedAt, &job.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan delivery job")
		}
		jobs = append(jobs, &job)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate delivery jobs")
	}

	return jobs, nil
}

// Release puts a claimed job back in the queue after a delay, recording the
// failure and bumping the redelivery counter.
func (r *PostgreSQLJobRepository) Release(
	ctx context.Context,
	job *domain.Job,
	delay time.Duration,
	lastError string,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE delivery_jobs
	          SET status = $1, redelivery_count = redelivery_count + 1,
	              available_at = NOW() + $2 * INTERVAL '1 second',
	              last_error = $3, updated_at = NOW()
	          WHERE id = $4`

	_, err := querier.ExecContext(ctx, query,
		domain.StatusPending, int(delay.Seconds()), lastError, job.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to release delivery job")
	}

	job.RedeliveryCount++
	return nil
}

// Complete marks a job done.
func (r *PostgreSQLJobRepository) Complete(ctx context.Context, job *domain.Job) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE delivery_jobs SET status = $1, updated_at = NOW() WHERE id = $2`

	_, err := querier.ExecContext(ctx, query, domain.StatusDone, job.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to complete delivery job")
	}
	return nil
}

// Bury marks a job dead after its redeliveries are exhausted. Dead jobs are
// kept for operator inspection.
func (r *PostgreSQLJobRepository) Bury(ctx context.Context, job *domain.Job, lastError string) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE delivery_jobs SET status = $1, last_error = $2, updated_at = NOW() WHERE id = $3`

	_, err := querier.ExecContext(ctx, query, domain.StatusDead, lastError, job.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to bury delivery job")
	}
	return nil
}
