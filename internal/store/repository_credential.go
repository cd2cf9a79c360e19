package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"

	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/models"
)

// credentialRepository is the SQL-backed implementation of
// [CredentialRepository] against the "passkey_credentials" table.
type credentialRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewCredentialRepository constructs a [CredentialRepository] backed by the
// provided database connection and logger.
func NewCredentialRepository(db *DB, logger *logger.Logger) CredentialRepository {
	logger.Debug().Msg("creating credential repository")
	return &credentialRepository{
		db:     db,
		logger: logger,
	}
}

func scanCredential(row interface{ Scan(...any) error }) (models.PasskeyCredential, error) {
	var c models.PasskeyCredential
	err := row.Scan(&c.ID, &c.UserID, &c.CredentialID, &c.PublicKey, &c.SignCount, &c.Transports, &c.CreatedAt, &c.LastUsedAt)
	return c, err
}

// CreateCredential persists a freshly registered WebAuthn credential.
//
// Error handling:
//   - unique violation on credential_id → [ErrCredentialAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *credentialRepository) CreateCredential(ctx context.Context, credential models.PasskeyCredential) (models.PasskeyCredential, error) {
	log := logger.FromContext(ctx)

	if credential.ID == "" {
		credential.ID = uuid.NewString()
	}

	row := r.db.QueryRowContext(ctx, createCredential,
		credential.ID, credential.UserID, credential.CredentialID, credential.PublicKey,
		credential.SignCount, credential.Transports, time.Now().UTC())

	saved, err := scanCredential(row)
	if err != nil {
		log.Err(err).Str("func", "*credentialRepository.CreateCredential").Msg("error: creating credential")

		if postgresError(err) == pgerrcode.UniqueViolation || isUniqueConstraintError(err) {
			return models.PasskeyCredential{}, ErrCredentialAlreadyExists
		}
		return models.PasskeyCredential{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return saved, nil
}

// FindCredentialByCredentialID retrieves the credential with the given raw
// WebAuthn credential ID.
//
// Returns [ErrCredentialNotFound] when no row matches.
func (r *credentialRepository) FindCredentialByCredentialID(ctx context.Context, credentialID []byte) (models.PasskeyCredential, error) {
	log := logger.FromContext(ctx)

	credential, err := scanCredential(r.db.QueryRowContext(ctx, findCredentialByCredentialID, credentialID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PasskeyCredential{}, ErrCredentialNotFound
		}
		log.Err(err).Str("func", "*credentialRepository.FindCredentialByCredentialID").Msg("error: scanning error")
		return models.PasskeyCredential{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return credential, nil
}

// FindCredentialsByUserID lists every credential registered by the user,
// oldest first.
func (r *credentialRepository) FindCredentialsByUserID(ctx context.Context, userID string) ([]models.PasskeyCredential, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, findCredentialsByUserID, userID)
	if err != nil {
		log.Err(err).Str("func", "*credentialRepository.FindCredentialsByUserID").Msg("error: executing query")
		return nil, errors.Join(ErrExecutingQuery, err)
	}
	defer rows.Close()

	var credentials []models.PasskeyCredential
	for rows.Next() {
		credential, err := scanCredential(rows)
		if err != nil {
			log.Err(err).Str("func", "*credentialRepository.FindCredentialsByUserID").Msg("error: scanning rows")
			return nil, errors.Join(ErrScanningRows, err)
		}
		credentials = append(credentials, credential)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrScanningRows, err)
	}

	return credentials, nil
}

// UpdateCredentialSignCount stores the counter observed during the latest
// assertion and stamps last_used_at.
func (r *credentialRepository) UpdateCredentialSignCount(ctx context.Context, id string, signCount uint32) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, updateCredentialSignCount, signCount, time.Now().UTC(), id)
	if err != nil {
		log.Err(err).Str("func", "*credentialRepository.UpdateCredentialSignCount").Msg("error: updating sign count")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrCredentialNotFound
	}

	return nil
}
