// Package repository provides data persistence implementations for settings.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/contractflow/contractflow/internal/database"
	apperrors "github.com/contractflow/contractflow/internal/errors"
	"github.com/contractflow/contractflow/internal/settings/domain"
)

// PostgreSQLSettingsRepository handles settings persistence for PostgreSQL.
type PostgreSQLSettingsRepository struct {
	db *sql.DB
}

// NewPostgreSQLSettingsRepository creates a new PostgreSQLSettingsRepository.
func NewPostgreSQLSettingsRepository(db *sql.DB) *PostgreSQLSettingsRepository {
	return &PostgreSQLSettingsRepository{
		db: db,
	}
}

// Upsert inserts or replaces a setting.
func (r *PostgreSQLSettingsRepository) Upsert(ctx context.Context, setting *domain.Setting) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO settings (key, value, updated_at)
	          VALUES ($1, $2, NOW())
	          ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	_, err := querier.ExecContext(ctx, query, setting.Key, setting.Value)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert setting")
	}
	return nil
}

// Get retrieves a setting by key.
func (r *PostgreSQLSettingsRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT key, value, updated_at FROM settings WHERE key = $1`

	var setting domain.Setting
	err := querier.QueryRowContext(ctx, query, key).
		Scan(&setting.Key, &setting.Value, &setting.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSettingNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get setting")
	}
	return &setting, nil
}

// Delete removes a setting by key.
func (r *PostgreSQLSettingsRepository) Delete(ctx context.Context, key string) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM settings WHERE key = $1`

	result, err := querier.ExecContext(ctx, query, key)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete setting")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check setting delete")
	}
	if rows == 0 {
		return domain.ErrSettingNotFound
	}
	return nil
}
