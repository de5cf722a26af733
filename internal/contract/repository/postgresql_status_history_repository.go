package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/contractflow/contractflow/internal/contract/domain"
	"github.com/contractflow/contractflow/internal/database"
	apperrors "github.com/contractflow/contractflow/internal/errors"
)

// PostgreSQLStatusHistoryRepository handles status history persistence for PostgreSQL.
// The table is append-only; rows are never updated or deleted.
type PostgreSQLStatusHistoryRepository struct {
	db *sql.DB
}

// NewPostgreSQLStatusHistoryRepository creates a new PostgreSQLStatusHistoryRepository.
func NewPostgreSQLStatusHistoryRepository(db *sql.DB) *PostgreSQLStatusHistoryRepository {
	return &PostgreSQLStatusHistoryRepository{
		db: db,
	}
}

// Create appends a status history row.
func (r *PostgreSQLStatusHistoryRepository) Create(
	ctx context.Context,
	history *domain.StatusHistory,
) error {
	querier := database.GetTx(ctx, r.db)

	var metadata []byte
	if history.Metadata != nil {
		var err error
		metadata, err = json.Marshal(history.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal history metadata")
		}
	}

	query := `INSERT INTO status_history (id, contract_id, from_status, to_status, reason, metadata, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	_, err := querier.ExecContext(ctx, query,
		history.ID, history.ContractID, history.FromStatus, history.ToStatus,
		history.Reason, metadata,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create status history")
	}
	return nil
}

// ListByContract lists the history rows for a contract in application order.
func (r *PostgreSQLStatusHistoryRepository) ListByContract(
	ctx context.Context,
	contractID uuid.UUID,
) ([]*domain.StatusHistory, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, contract_id, from_status, to_status, reason, metadata, created_at
	          FROM status_history
	          WHERE contract_id = $1
	          ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, contractID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list status history")
	}
	defer rows.Close() //nolint:errcheck

	var histories []*domain.StatusHistory
	for rows.Next() {
		var history domain.StatusHistory
		var metadata []byte

		err := rows.Scan(
			&history.ID, &history.ContractID, &history.FromStatus, &history.ToStatus,
			&history.Reason, &metadata, &history.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan status history")
		}

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &history.Metadata); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal history metadata")
			}
		}

		histories = append(histories, &history)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate status history")
	}

	return histories, nil
}
