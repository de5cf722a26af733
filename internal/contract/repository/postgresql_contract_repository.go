// Package repository provides data persistence implementations for contract entities.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contractflow/contractflow/internal/contract/domain"
	"github.com/contractflow/contractflow/internal/database"
	apperrors "github.com/contractflow/contractflow/internal/errors"
)

// PostgreSQLContractRepository handles contract persistence for PostgreSQL.
type PostgreSQLContractRepository struct {
	db *sql.DB
}

// NewPostgreSQLContractRepository creates a new PostgreSQLContractRepository.
func NewPostgreSQLContractRepository(db *sql.DB) *PostgreSQLContractRepository {
	return &PostgreSQLContractRepository{
		db: db,
	}
}

// Create inserts a new contract.
func (r *PostgreSQLContractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO contracts (id, seller_id, template_id, status, external_id, signing_url,
	          expires_at, signed_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query,
		contract.ID, contract.SellerID, contract.TemplateID, contract.Status,
		contract.ExternalID, contract.SigningURL, contract.ExpiresAt, contract.SignedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "contract already exists")
		}
		return apperrors.Wrap(err, "failed to create contract")
	}
	return nil
}

// GetByID retrieves a contract by id.
func (r *PostgreSQLContractRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Contract, error) {
	querier := database.GetTx(ctx, r.db)

	query := selectContractQuery + ` WHERE id = $1`

	return r.scanContract(querier.QueryRowContext(ctx, query, id))
}

// GetByExternalID retrieves a contract by the signing provider's document id.
func (r *PostgreSQLContractRepository) GetByExternalID(
	ctx context.Context,
	externalID string,
) (*domain.Contract, error) {
	querier := database.GetTx(ctx, r.db)

	query := selectContractQuery + ` WHERE external_id = $1`

	return r.scanContract(querier.QueryRowContext(ctx, query, externalID))
}

// UpdateStatus updates the contract status (and signed_at when provided).
func (r *PostgreSQLContractRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.Status,
	signedAt *time.Time,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE contracts
	          SET status = $1, signed_at = COALESCE($2, signed_at), updated_at = NOW()
	          WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, status, signedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update contract status")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check contract status update")
	}
	if rows == 0 {
		return domain.ErrContractNotFound
	}
	return nil
}

// SetSigningInfo records the provider document id and signing URL. The fields
// are immutable: the update only applies while external_id is still null.
func (r *PostgreSQLContractRepository) SetSigningInfo(
	ctx context.Context,
	id uuid.UUID,
	externalID, signingURL string,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE contracts
	          SET external_id = $1, signing_url = $2, updated_at = NOW()
	          WHERE id = $3 AND external_id IS NULL`

	result, err := querier.ExecContext(ctx, query, externalID, signingURL, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to set signing info")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check signing info update")
	}
	if rows == 0 {
		return domain.ErrExternalIDAlreadySet
	}
	return nil
}

// ListByStatus lists contracts with the given status, oldest first.
func (r *PostgreSQLContractRepository) ListByStatus(
	ctx context.Context,
	status domain.Status,
) ([]*domain.Contract, error) {
	querier := database.GetTx(ctx, r.db)

	query := selectContractQuery + ` WHERE status = $1 ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, status)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list contracts by status")
	}
	defer rows.Close() //nolint:errcheck

	var contracts []*domain.Contract
	for rows.Next() {
		var contract domain.Contract
		err := rows.Scan(
			&contract.ID, &contract.SellerID, &contract.TemplateID, &contract.Status,
			&contract.ExternalID, &contract.SigningURL, &contract.ExpiresAt, &contract.SignedAt,
			&contract.CreatedAt, &contract.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan contract")
		}
		contracts = append(contracts, &contract)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate contracts")
	}

	return contracts, nil
}

const selectContractQuery = `SELECT id, seller_id, template_id, status, external_id, signing_url,
	expires_at, signed_at, created_at, updated_at FROM contracts`

// scanContract scans a single contract row.
func (r *PostgreSQLContractRepository) scanContract(row *sql.Row) (*domain.Contract, error) {
	var contract domain.Contract
	err := row.Scan(
		&contract.ID, &contract.SellerID, &contract.TemplateID, &contract.Status,
		&contract.ExternalID, &contract.SigningURL, &contract.ExpiresAt, &contract.SignedAt,
		&contract.CreatedAt, &contract.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrContractNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get contract")
	}
	return &contract, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
