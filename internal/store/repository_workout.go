package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/models"
)

// workoutRepository is the SQL-backed implementation of [WorkoutRepository]
// against the "workouts" table. Payloads arrive already encrypted; the only
// cleartext columns are the search mirror and timestamps.
type workoutRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewWorkoutRepository constructs a [WorkoutRepository] backed by the
// provided database connection and logger.
func NewWorkoutRepository(db *DB, logger *logger.Logger) WorkoutRepository {
	logger.Debug().Msg("creating workout repository")
	return &workoutRepository{
		db:     db,
		logger: logger,
	}
}

func scanWorkout(row interface{ Scan(...any) error }) (models.Workout, error) {
	var w models.Workout
	err := row.Scan(&w.ID, &w.UserID, &w.EncryptedPayload, &w.NotesSearch, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

// CreateWorkout persists a new encrypted workout record.
func (r *workoutRepository) CreateWorkout(ctx context.Context, workout models.Workout) (models.Workout, error) {
	log := logger.FromContext(ctx)

	if workout.ID == "" {
		workout.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	row := r.db.QueryRowContext(ctx, createWorkout,
		workout.ID, workout.UserID, workout.EncryptedPayload, workout.NotesSearch, now, now)

	saved, err := scanWorkout(row)
	if err != nil {
		log.Err(err).Str("func", "*workoutRepository.CreateWorkout").Msg("error: creating workout")
		return models.Workout{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return saved, nil
}

// FindWorkoutByID retrieves one workout scoped to its owner. A record owned
// by another user is indistinguishable from a missing one.
func (r *workoutRepository) FindWorkoutByID(ctx context.Context, userID, workoutID string) (models.Workout, error) {
	log := logger.FromContext(ctx)

	workout, err := scanWorkout(r.db.QueryRowContext(ctx, findWorkoutByID, workoutID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Workout{}, ErrWorkoutNotFound
		}
		log.Err(err).Str("func", "*workoutRepository.FindWorkoutByID").Msg("error: scanning error")
		return models.Workout{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return workout, nil
}

// ListWorkouts returns the user's workouts, newest first. The optional
// search term matches the cleartext notes mirror with a case-insensitive
// substring; limit and offset page through the result.
func (r *workoutRepository) ListWorkouts(ctx context.Context, userID string, filter WorkoutFilter) ([]models.Workout, error) {
	log := logger.FromContext(ctx)

	builder := sq.Select("id", "user_id", "encrypted_payload", "notes_search", "created_at", "updated_at").
		PlaceholderFormat(sq.Dollar).
		From(models.Workout{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	if filter.Search != nil && *filter.Search != "" {
		builder = builder.Where(sq.Like{"lower(notes_search)": "%" + strings.ToLower(*filter.Search) + "%"})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*workoutRepository.ListWorkouts").Msg("error: building query")
		return nil, errors.Join(ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*workoutRepository.ListWorkouts").Msg("error: executing query")
		return nil, errors.Join(ErrExecutingQuery, err)
	}
	defer rows.Close()

	var workouts []models.Workout
	for rows.Next() {
		workout, err := scanWorkout(rows)
		if err != nil {
			log.Err(err).Str("func", "*workoutRepository.ListWorkouts").Msg("error: scanning rows")
			return nil, errors.Join(ErrScanningRows, err)
		}
		workouts = append(workouts, workout)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrScanningRows, err)
	}

	return workouts, nil
}

// UpdateWorkout replaces the encrypted payload and search mirror of an
// existing record.
func (r *workoutRepository) UpdateWorkout(ctx context.Context, workout models.Workout) (models.Workout, error) {
	log := logger.FromContext(ctx)

	builder := sq.Update(models.Workout{}.TableName()).
		PlaceholderFormat(sq.Dollar).
		Set("encrypted_payload", workout.EncryptedPayload).
		Set("notes_search", workout.NotesSearch).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": workout.ID, "user_id": workout.UserID}).
		Suffix("RETURNING id, user_id, encrypted_payload, notes_search, created_at, updated_at")

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*workoutRepository.UpdateWorkout").Msg("error: building query")
		return models.Workout{}, errors.Join(ErrBuildingSQLQuery, err)
	}

	saved, err := scanWorkout(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Workout{}, ErrWorkoutNotFound
		}
		log.Err(err).Str("func", "*workoutRepository.UpdateWorkout").Msg("error: updating workout")
		return models.Workout{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return saved, nil
}

// DeleteWorkout removes one workout scoped to its owner.
func (r *workoutRepository) DeleteWorkout(ctx context.Context, userID, workoutID string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteWorkout, workoutID, userID)
	if err != nil {
		log.Err(err).Str("func", "*workoutRepository.DeleteWorkout").Msg("error: deleting workout")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrWorkoutNotFound
	}

	return nil
}
