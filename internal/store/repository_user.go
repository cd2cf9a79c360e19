package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"

	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/models"
)

// userRepository is the SQL-backed implementation of [UserRepository].
// It handles user account creation, lookup, envelope rotation, and deletion
// against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// scanUser reads one users row in canonical column order.
func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.DisplayName, &user.EncryptionSalt, &user.EncryptedDataKey, &user.EncryptionVersion, &user.PasskeyUserHandle, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (ID, timestamps).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → returned directly.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	row := r.db.QueryRowContext(ctx, createUser,
		user.ID, user.Email, user.DisplayName, user.EncryptionSalt, user.EncryptedDataKey,
		user.EncryptionVersion, user.PasskeyUserHandle, user.IsActive, now, now)

	saved, err := scanUser(row)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: creating user")

		if postgresError(err) == pgerrcode.UniqueViolation || isUniqueConstraintError(err) {
			return models.User{}, ErrEmailAlreadyExists
		}
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return saved, nil
}

// FindUserByID retrieves the user record with the given ID.
//
// Returns [ErrNoUserWasFound] when no row matches.
func (r *userRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := scanUser(r.db.QueryRowContext(ctx, findUserByID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByID").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return user, nil
}

// FindUserByEmail retrieves the user record whose email matches. The caller
// is responsible for lower-casing the address first.
//
// Returns [ErrNoUserWasFound] when no row matches.
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := scanUser(r.db.QueryRowContext(ctx, findUserByEmail, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByEmail").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return user, nil
}

// UpdateUserEnvelope replaces the encryption salt and wrapped data key in one
// statement that also bumps encryption_version, so a rotation is atomic even
// when two clients race.
func (r *userRepository) UpdateUserEnvelope(ctx context.Context, userID string, salt, wrappedKey []byte) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, updateUserEnvelope, salt, wrappedKey, time.Now().UTC(), userID)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.UpdateUserEnvelope").Msg("error: updating envelope")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return user, nil
}

// SetPasskeyUserHandle records the WebAuthn user handle on the account.
func (r *userRepository) SetPasskeyUserHandle(ctx context.Context, userID string, handle []byte) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, setPasskeyUserHandle, handle, time.Now().UTC(), userID)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.SetPasskeyUserHandle").Msg("error: updating user handle")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

// UpdateUserProfile updates the optional profile columns that were actually
// supplied. A nil field is left untouched, so the UPDATE is built dynamically.
func (r *userRepository) UpdateUserProfile(ctx context.Context, userID string, email, displayName *string) (models.User, error) {
	log := logger.FromContext(ctx)

	builder := sq.Update(models.User{}.TableName()).
		PlaceholderFormat(sq.Dollar).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": userID}).
		Suffix("RETURNING id, email, display_name, encryption_salt, encrypted_data_key, encryption_version, passkey_user_handle, is_active, created_at, updated_at")

	if email != nil {
		builder = builder.Set("email", *email)
	}
	if displayName != nil {
		builder = builder.Set("display_name", *displayName)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUserProfile").Msg("error: building query")
		return models.User{}, errors.Join(ErrBuildingSQLQuery, err)
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		if postgresError(err) == pgerrcode.UniqueViolation || isUniqueConstraintError(err) {
			return models.User{}, ErrEmailAlreadyExists
		}
		log.Err(err).Str("func", "*userRepository.UpdateUserProfile").Msg("error: updating profile")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return user, nil
}

// DeleteUser removes the account. Credentials, challenges, workouts, and
// templates follow via ON DELETE CASCADE.
func (r *userRepository) DeleteUser(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteUser, userID)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Msg("error: deleting user")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}
