package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractflow/contractflow/internal/queue/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestPostgreSQLJobRepository_Enqueue(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLJobRepository(db, 10*time.Minute)

	notificationID := uuid.Must(uuid.NewV7())

	mock.ExpectExec("INSERT INTO delivery_jobs").
		WithArgs(sqlmock.AnyArg(), notificationID, 60, domain.StatusPending).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Enqueue(context.Background(), notificationID, time.Minute)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLJobRepository_Dequeue(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLJobRepository(db, 10*time.Minute)

	now := time.Now().UTC()
	first := uuid.Must(uuid.NewV7())
	second := uuid.Must(uuid.NewV7())

	rows := sqlmock.NewRows([]string{
		"id", "notification_id", "redelivery_count", "available_at", "status",
		"last_error", "created_at", "updated_at",
	}).
		AddRow(first, uuid.Must(uuid.NewV7()), 0, now, domain.StatusProcessing, nil, now, now).
		AddRow(second, uuid.Must(uuid.NewV7()), 2, now, domain.StatusProcessing, "gateway error", now, now)

	mock.ExpectQuery("UPDATE delivery_jobs").
		WithArgs(domain.StatusProcessing, domain.StatusPending, 600, 10).
		WillReturnRows(rows)

	jobs, err := repo.Dequeue(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, first, jobs[0].ID)
	assert.Equal(t, 2, jobs[1].RedeliveryCount)
	require.NotNil(t, jobs[1].LastError)
	assert.Equal(t, "gateway error", *jobs[1].LastError)
}

func TestPostgreSQLJobRepository_Dequeue_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLJobRepository(db, 10*time.Minute)

	mock.ExpectQuery("UPDATE delivery_jobs").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "notification_id", "redelivery_count", "available_at", "status",
			"last_error", "created_at", "updated_at",
		}))

	jobs, err := repo.Dequeue(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestPostgreSQLJobRepository_Release(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLJobRepository(db, 10*time.Minute)

	job := &domain.Job{ID: uuid.Must(uuid.NewV7()), RedeliveryCount: 1}

	mock.ExpectExec("UPDATE delivery_jobs").
		WithArgs(domain.StatusPending, 30, "rate limited", job.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Release(context.Background(), job, 30*time.Second, "rate limited")
	require.NoError(t, err)
	assert.Equal(t, 2, job.RedeliveryCount)
}

func TestPostgreSQLJobRepository_Complete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLJobRepository(db, 10*time.Minute)

	job := &domain.Job{ID: uuid.Must(uuid.NewV7())}

	mock.ExpectExec("UPDATE delivery_jobs").
		WithArgs(domain.StatusDone, job.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Complete(context.Background(), job)
	assert.NoError(t, err)
}

func TestPostgreSQLJobRepository_Bury(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLJobRepository(db, 10*time.Minute)

	job := &domain.Job{ID: uuid.Must(uuid.NewV7())}

	mock.ExpectExec("UPDATE delivery_jobs").
		WithArgs(domain.StatusDead, "retries exhausted", job.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Bury(context.Background(), job, "retries exhausted")
	assert.NoError(t, err)
}
