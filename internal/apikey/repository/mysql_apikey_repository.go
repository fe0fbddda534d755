package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
	"github.com/dandi-labs/dandi/internal/database"
	apperrors "github.com/dandi-labs/dandi/internal/errors"
)

// mysqlNoLimit stands in for "no limit": MySQL requires LIMIT whenever OFFSET is used.
const mysqlNoLimit int64 = math.MaxInt64

// MySQLAPIKeyRepository implements APIKey persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAPIKeyRepository struct {
	db *sql.DB
}

// Create inserts a new APIKey. A duplicate secret_hash returns ErrAPIKeyAlreadyExists.
func (m *MySQLAPIKeyRepository) Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, m.db)

	id, ownerID, err := marshalIDs(apiKey.ID, apiKey.OwnerID)
	if err != nil {
		return err
	}

	query := `INSERT INTO api_keys (` + apiKeyColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		ownerID,
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
func (m *MySQLAPIKeyRepository) Get(ctx context.Context, id, ownerID uuid.UUID) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, ownerBytes, err := marshalIDs(id, ownerID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE id = ? AND owner_id = ?`

	apiKey, err := m.scan(querier.QueryRowContext(ctx, query, idBytes, ownerBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}
	return apiKey, nil
}

// GetBySecretHash retrieves an APIKey by the lookup hash of its secret.
func (m *MySQLAPIKeyRepository) GetBySecretHash(
	ctx context.Context,
	secretHash []byte,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE secret_hash = ?`

	apiKey, err := m.scan(querier.QueryRowContext(ctx, query, secretHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key by secret hash")
	}
	return apiKey, nil
}

// ListByOwner retrieves the owner's keys ordered by created_at descending.
// A limit <= 0 returns every remaining row.
func (m *MySQLAPIKeyRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	ownerBytes, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal api key owner id")
	}

	rowLimit := int64(limit)
	if limit <= 0 {
		rowLimit = mysqlNoLimit
	}

	query := `SELECT ` + apiKeyColumns + `
			  FROM api_keys
			  WHERE owner_id = ?
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, ownerBytes, rowLimit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	apiKeys := make([]*apikeyDomain.APIKey, 0)
	for rows.Next() {
		apiKey, err := m.scan(rows)
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

// UpdateName changes the name of the key with id owned by ownerID. MySQL reports
// unchanged rows as unaffected, so a zero count is confirmed with a lookup before
// returning ErrAPIKeyNotFound.
func (m *MySQLAPIKeyRepository) UpdateName(ctx context.Context, id, ownerID uuid.UUID, name string) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, ownerBytes, err := marshalIDs(id, ownerID)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(
		ctx,
		`UPDATE api_keys SET name = ? WHERE id = ? AND owner_id = ?`,
		name,
		idBytes,
		ownerBytes,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update api key name")
	}

	err = requireOneRow(result, "failed to update api key name")
	if !errors.Is(err, apikeyDomain.ErrAPIKeyNotFound) {
		return err
	}

	var exists int
	err = querier.QueryRowContext(
		ctx,
		`SELECT 1 FROM api_keys WHERE id = ? AND owner_id = ?`,
		idBytes,
		ownerBytes,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apikeyDomain.ErrAPIKeyNotFound
		}
		return apperrors.Wrap(err, "failed to update api key name")
	}
	return nil
}

// Delete removes the key with id owned by ownerID.
func (m *MySQLAPIKeyRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, ownerBytes, err := marshalIDs(id, ownerID)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM api_keys WHERE id = ? AND owner_id = ?`,
		idBytes,
		ownerBytes,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete api key")
	}
	return requireOneRow(result, "failed to delete api key")
}

// IncrementUsage counts one use in a single UPDATE. last_used_at only moves forward.
func (m *MySQLAPIKeyRepository) IncrementUsage(ctx context.Context, secretHash []byte, usedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE api_keys
			  SET usage_count = usage_count + 1,
				  last_used_at = GREATEST(COALESCE(last_used_at, ?), ?)
			  WHERE secret_hash = ?`

	result, err := querier.ExecContext(ctx, query, usedAt, usedAt, secretHash)
	if err != nil {
		return apperrors.Wrap(err, "failed to increment api key usage")
	}
	return requireOneRow(result, "failed to increment api key usage")
}

func (m *MySQLAPIKeyRepository) scan(row interface{ Scan(dest ...any) error }) (*apikeyDomain.APIKey, error) {
	var apiKey apikeyDomain.APIKey
	var idBytes, ownerBytes []byte
	var class string

	err := row.Scan(
		&idBytes,
		&ownerBytes,
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

	if err := apiKey.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal api key id")
	}
	if err := apiKey.OwnerID.UnmarshalBinary(ownerBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal api key owner id")
	}

	apiKey.Class = apikeyDomain.KeyClass(class)
	return &apiKey, nil
}

func marshalIDs(id, ownerID uuid.UUID) ([]byte, []byte, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal api key id")
	}
	ownerBytes, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal api key owner id")
	}
	return idBytes, ownerBytes, nil
}

// NewMySQLAPIKeyRepository creates a new MySQL APIKey repository.
func NewMySQLAPIKeyRepository(db *sql.DB) *MySQLAPIKeyRepository {
	return &MySQLAPIKeyRepository{db: db}
}
