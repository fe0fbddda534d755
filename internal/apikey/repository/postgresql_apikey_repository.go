// Package repository implements api key persistence.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16) types. Neither stores the
// plaintext secret: only its lookup hash and the sealed ciphertext and nonce.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
	"github.com/dandi-labs/dandi/internal/database"
	apperrors "github.com/dandi-labs/dandi/internal/errors"
)

const apiKeyColumns = `id, owner_id, name, key_class, secret_hash, ciphertext, nonce,
		  usage_count, usage_limit, last_used_at, created_at`

// PostgreSQLAPIKeyRepository implements APIKey persistence for PostgreSQL.
type PostgreSQLAPIKeyRepository struct {
	db *sql.DB
}

// Create inserts a new APIKey. A duplicate secret_hash returns ErrAPIKeyAlreadyExists.
func (p *PostgreSQLAPIKeyRepository) Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO api_keys (` + apiKeyColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		apiKey.ID,
		apiKey.OwnerID,
		apiKey.Name,
		string(apiKey.Class),
		apiKey.SecretHash,
		apiKey.Ciphertext,
		apiKey.Nonce,
		apiKey.UsageCount,
		apiKey.UsageLimit,
		apiKey.LastUsedAt,
		apiKey.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apikeyDomain.ErrAPIKeyAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// Get retrieves an APIKey by id and owner.
func (p *PostgreSQLAPIKeyRepository) Get(
	ctx context.Context,
	id, ownerID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE id = $1 AND owner_id = $2`

	apiKey, err := p.scan(querier.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}
	return apiKey, nil
}

// GetBySecretHash retrieves an APIKey by the lookup hash of its secret.
func (p *PostgreSQLAPIKeyRepository) GetBySecretHash(
	ctx context.Context,
	secretHash []byte,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE secret_hash = $1`

	apiKey, err := p.scan(querier.QueryRowContext(ctx, query, secretHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key by secret hash")
	}
	return apiKey, nil
}

// ListByOwner retrieves the owner's keys ordered by created_at descending.
// A limit <= 0 disables the LIMIT clause.
func (p *PostgreSQLAPIKeyRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + apiKeyColumns + `
			  FROM api_keys
			  WHERE owner_id = $1
			  ORDER BY created_at DESC, id DESC`
	args := []any{ownerID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	} else {
		query += ` OFFSET $2`
		args = append(args, offset)
	}

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	apiKeys := make([]*apikeyDomain.APIKey, 0)
	for rows.Next() {
		apiKey, err := p.scan(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan api key row")
		}
		apiKeys = append(apiKeys, apiKey)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating api key rows")
	}

	return apiKeys, nil
}

// UpdateName changes the name of the key with id owned by ownerID.
func (p *PostgreSQLAPIKeyRepository) UpdateName(
	ctx context.Context,
	id, ownerID uuid.UUID,
	name string,
) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE api_keys SET name = $1 WHERE id = $2 AND owner_id = $3`,
		name,
		id,
		ownerID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update api key name")
	}
	return requireOneRow(result, "failed to update api key name")
}

// Delete removes the key with id owned by ownerID.
func (p *PostgreSQLAPIKeyRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM api_keys WHERE id = $1 AND owner_id = $2`,
		id,
		ownerID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete api key")
	}
	return requireOneRow(result, "failed to delete api key")
}

// IncrementUsage counts one use in a single UPDATE so concurrent calls never lose increments.
// last_used_at only moves forward.
func (p *PostgreSQLAPIKeyRepository) IncrementUsage(
	ctx context.Context,
	secretHash []byte,
	usedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE api_keys
			  SET usage_count = usage_count + 1,
				  last_used_at = GREATEST(COALESCE(last_used_at, $1), $1)
			  WHERE secret_hash = $2`

	result, err := querier.ExecContext(ctx, query, usedAt, secretHash)
	if err != nil {
		return apperrors.Wrap(err, "failed to increment api key usage")
	}
	return requireOneRow(result, "failed to increment api key usage")
}

func (p *PostgreSQLAPIKeyRepository) scan(row interface{ Scan(dest ...any) error }) (*apikeyDomain.APIKey, error) {
	var apiKey apikeyDomain.APIKey
	var class string

	err := row.Scan(
		&apiKey.ID,
		&apiKey.OwnerID,
		&apiKey.Name,
		&class,
		&apiKey.SecretHash,
		&apiKey.Ciphertext,
		&apiKey.Nonce,
		&apiKey.UsageCount,
		&apiKey.UsageLimit,
		&apiKey.LastUsedAt,
		&apiKey.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	apiKey.Class = apikeyDomain.KeyClass(class)
	return &apiKey, nil
}

// requireOneRow maps a statement that touched no rows to ErrAPIKeyNotFound.
func requireOneRow(result sql.Result, message string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, message)
	}
	if rowsAffected == 0 {
		return apikeyDomain.ErrAPIKeyNotFound
	}
	return nil
}

// NewPostgreSQLAPIKeyRepository creates a new PostgreSQL APIKey repository.
func NewPostgreSQLAPIKeyRepository(db *sql.DB) *PostgreSQLAPIKeyRepository {
	return &PostgreSQLAPIKeyRepository{db: db}
}
