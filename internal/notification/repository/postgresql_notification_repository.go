// Package repository provides data persistence implementations for notifications.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contractflow/contractflow/internal/database"
	apperrors "github.com/contractflow/contractflow/internal/errors"
	"github.com/contractflow/contractflow/internal/notification/domain"
)

// PostgreSQLNotificationRepository handles notification persistence for PostgreSQL.
// A partial unique index on (contract_id) WHERE status = 'PENDING' backs the
// single in-flight notification invariant at the storage level.
type PostgreSQLNotificationRepository struct {
	db *sql.DB
}

// NewPostgreSQLNotificationRepository creates a new PostgreSQLNotificationRepository.
func NewPostgreSQLNotificationRepository(db *sql.DB) *PostgreSQLNotificationRepository {
	return &PostgreSQLNotificationRepository{
		db: db,
	}
}

const selectNotificationQuery = `SELECT id, contract_id, seller_id, recipient, type, channel, content,
	status, attempt_number, external_id, sent_at, delivered_at, created_at FROM notifications`

// Create inserts a new notification.
func (r *PostgreSQLNotificationRepository) Create(
	ctx context.Context,
	notification *domain.Notification,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO notifications (id, contract_id, seller_id, recipient, type, channel,
	          content, status, attempt_number, external_id, sent_at, delivered_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())`

	_, err := querier.ExecContext(ctx, query,
		notification.ID, notification.ContractID, notification.SellerID, notification.Recipient,
		notification.Type, notification.Channel, notification.Content, notification.Status,
		notification.AttemptNumber, notification.ExternalID, notification.SentAt,
		notification.DeliveredAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "contract already has an in-flight notification")
		}
		return apperrors.Wrap(err, "failed to create notification")
	}
	return nil
}

// GetByID retrieves a notification by id.
func (r *PostgreSQLNotificationRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Notification, error) {
	querier := database.GetTx(ctx, r.db)

	query := selectNotificationQuery + ` WHERE id = $1`

	return r.scanNotification(querier.QueryRowContext(ctx, query, id))
}

// GetPendingByContract retrieves the contract's in-flight notification,
// earliest first when storage-level anomalies leave more than one.
func (r *PostgreSQLNotificationRepository) GetPendingByContract(
	ctx context.Context,
	contractID uuid.UUID,
) (*domain.Notification, error) {
	querier := database.GetTx(ctx, r.db)

	query := selectNotificationQuery + ` WHERE contract_id = $1 AND status = $2
	          ORDER BY created_at ASC LIMIT 1`

	return r.scanNotification(querier.QueryRowContext(ctx, query, contractID, domain.StatusPending))
}

// CountByContract counts all notifications ever created for a contract.
func (r *PostgreSQLNotificationRepository) CountByContract(
	ctx context.Context,
	contractID uuid.UUID,
) (int, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM notifications WHERE contract_id = $1`

	var count int
	if err := querier.QueryRowContext(ctx, query, contractID).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count notifications")
	}
	return count, nil
}

// CountByContractAndType counts a contract's notifications of a given type.
func (r *PostgreSQLNotificationRepository) CountByContractAndType(
	ctx context.Context,
	contractID uuid.UUID,
	typ domain.Type,
) (int, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM notifications WHERE contract_id = $1 AND type = $2`

	var count int
	if err := querier.QueryRowContext(ctx, query, contractID, typ).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count notifications by type")
	}
	return count, nil
}

// MarkSent records a successful gateway send.
func (r *PostgreSQLNotificationRepository) MarkSent(
	ctx context.Context,
	id uuid.UUID,
	externalID string,
	sentAt time.Time,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE notifications SET status = $1, external_id = $2, sent_at = $3 WHERE id = $4`

	result, err := querier.ExecContext(ctx, query, domain.StatusSent, externalID, sentAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark notification sent")
	}
	return r.requireRow(result)
}

// MarkFailed records a terminal delivery failure. The reason is stored in
// the content-adjacent failure_reason column for operator inspection.
func (r *PostgreSQLNotificationRepository) MarkFailed(
	ctx context.Context,
	id uuid.UUID,
	reason string,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE notifications SET status = $1, failure_reason = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, domain.StatusFailed, reason, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark notification failed")
	}
	return r.requireRow(result)
}

// MarkDelivered records a gateway delivery receipt by message id.
func (r *PostgreSQLNotificationRepository) MarkDelivered(
	ctx context.Context,
	externalID string,
	deliveredAt time.Time,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE notifications SET status = $1, delivered_at = $2
	          WHERE external_id = $3 AND status = $4`

	result, err := querier.ExecContext(ctx, query,
		domain.StatusDelivered, deliveredAt, externalID, domain.StatusSent,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark notification delivered")
	}
	return r.requireRow(result)
}

// requireRow converts a zero-row update into a not found error.
func (r *PostgreSQLNotificationRepository) requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check notification update")
	}
	if rows == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// scanNotification scans a single notification row.
func (r *PostgreSQLNotificationRepository) scanNotification(row *sql.Row) (*domain.Notification, error) {
	var notification domain.Notification
	err := row.Scan(
		&notification.ID, &notification.ContractID, &notification.SellerID, &notification.Recipient,
		&notification.Type, &notification.Channel, &notification.Content, &notification.Status,
		&notification.AttemptNumber, &notification.ExternalID, &notification.SentAt,
		&notification.DeliveredAt, &notification.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get notification")
	}
	return &notification, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
