package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/models"
)

// challengeRepository is the SQL-backed implementation of
// [ChallengeRepository] against the "auth_challenges" table.
//
// Challenges are single use. Expired rows are purged lazily on every insert
// and consumption deletes the row inside the same transaction that reads it;
// PurgeExpiredChallenges additionally lets a background sweeper clean up rows
// from ceremonies that never completed.
type challengeRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewChallengeRepository constructs a [ChallengeRepository] backed by the
// provided database connection and logger.
func NewChallengeRepository(db *DB, logger *logger.Logger) ChallengeRepository {
	logger.Debug().Msg("creating challenge repository")
	return &challengeRepository{
		db:     db,
		logger: logger,
	}
}

// PersistChallenge purges every challenge older than ttl and inserts the new
// one. Both statements run in one transaction so a failed insert never loses
// the purge.
func (r *challengeRepository) PersistChallenge(ctx context.Context, challenge models.AuthChallenge, ttl time.Duration) error {
	log := logger.FromContext(ctx)

	if challenge.ID == "" {
		challenge.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*challengeRepository.PersistChallenge").Msg("error: beginning transaction")
		return errors.Join(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, purgeExpiredChallenges, now.Add(-ttl)); err != nil {
		log.Err(err).Str("func", "*challengeRepository.PersistChallenge").Msg("error: purging expired challenges")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	if _, err := tx.ExecContext(ctx, insertChallenge, challenge.ID, challenge.UserID, challenge.Challenge, challenge.Purpose, now); err != nil {
		log.Err(err).Str("func", "*challengeRepository.PersistChallenge").Msg("error: inserting challenge")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.Join(ErrCommitingTransaction, err)
	}

	return nil
}

// ConsumeChallenge loads and deletes the challenge with the given value and
// purpose in a single transaction. A non-nil userID restricts the match to
// that user's challenges. A missing or already-consumed challenge surfaces
// as [ErrChallengeNotFound], an expired one as [ErrChallengeExpired].
//
// Transient serialization failures on PostgreSQL are retried once.
func (r *challengeRepository) ConsumeChallenge(ctx context.Context, challenge, purpose string, userID *string, ttl time.Duration) (models.AuthChallenge, error) {
	consumed, err := r.consumeOnce(ctx, challenge, purpose, userID, ttl)
	if err != nil && r.db.isRetryable(err) {
		consumed, err = r.consumeOnce(ctx, challenge, purpose, userID, ttl)
	}
	return consumed, err
}

// PurgeExpiredChallenges deletes every challenge older than ttl and reports
// how many rows went away.
func (r *challengeRepository) PurgeExpiredChallenges(ctx context.Context, ttl time.Duration) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, purgeExpiredChallenges, time.Now().UTC().Add(-ttl))
	if err != nil {
		log.Err(err).Str("func", "*challengeRepository.PurgeExpiredChallenges").Msg("error: purging expired challenges")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return purged, nil
}

func (r *challengeRepository) consumeOnce(ctx context.Context, challenge, purpose string, userID *string, ttl time.Duration) (models.AuthChallenge, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*challengeRepository.ConsumeChallenge").Msg("error: beginning transaction")
		return models.AuthChallenge{}, errors.Join(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var row *sql.Row
	if userID != nil {
		row = tx.QueryRowContext(ctx, selectChallengeForUser, challenge, purpose, *userID)
	} else {
		row = tx.QueryRowContext(ctx, selectChallenge, challenge, purpose)
	}

	var found models.AuthChallenge
	if err := row.Scan(&found.ID, &found.UserID, &found.Challenge, &found.Purpose, &found.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AuthChallenge{}, ErrChallengeNotFound
		}
		log.Err(err).Str("func", "*challengeRepository.ConsumeChallenge").Msg("error: scanning challenge")
		return models.AuthChallenge{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	// Delete regardless of expiry: an expired challenge is dead either way.
	if _, err := tx.ExecContext(ctx, deleteChallengeByID, found.ID); err != nil {
		log.Err(err).Str("func", "*challengeRepository.ConsumeChallenge").Msg("error: deleting challenge")
		return models.AuthChallenge{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.AuthChallenge{}, errors.Join(ErrCommitingTransaction, err)
	}

	if time.Since(found.CreatedAt) > ttl {
		return models.AuthChallenge{}, ErrChallengeExpired
	}

	return found, nil
}
