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

// templateRepository is the SQL-backed implementation of
// [TemplateRepository] against the "workout_templates" table.
type templateRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTemplateRepository constructs a [TemplateRepository] backed by the
// provided database connection and logger.
func NewTemplateRepository(db *DB, logger *logger.Logger) TemplateRepository {
	logger.Debug().Msg("creating template repository")
	return &templateRepository{
		db:     db,
		logger: logger,
	}
}

func scanTemplate(row interface{ Scan(...any) error }) (models.WorkoutTemplate, error) {
	var t models.WorkoutTemplate
	err := row.Scan(&t.ID, &t.UserID, &t.EncryptedPayload, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// CreateTemplate persists a new encrypted workout template.
func (r *templateRepository) CreateTemplate(ctx context.Context, template models.WorkoutTemplate) (models.WorkoutTemplate, error) {
	log := logger.FromContext(ctx)

	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	row := r.db.QueryRowContext(ctx, createTemplate,
		template.ID, template.UserID, template.EncryptedPayload, now, now)

	saved, err := scanTemplate(row)
	if err != nil {
		log.Err(err).Str("func", "*templateRepository.CreateTemplate").Msg("error: creating template")
		return models.WorkoutTemplate{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return saved, nil
}

// FindTemplateByID retrieves one template scoped to its owner.
func (r *templateRepository) FindTemplateByID(ctx context.Context, userID, templateID string) (models.WorkoutTemplate, error) {
	log := logger.FromContext(ctx)

	template, err := scanTemplate(r.db.QueryRowContext(ctx, findTemplateByID, templateID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.WorkoutTemplate{}, ErrTemplateNotFound
		}
		log.Err(err).Str("func", "*templateRepository.FindTemplateByID").Msg("error: scanning error")
		return models.WorkoutTemplate{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return template, nil
}

// ListTemplates returns the user's templates, oldest first.
func (r *templateRepository) ListTemplates(ctx context.Context, userID string) ([]models.WorkoutTemplate, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listTemplatesByUserID, userID)
	if err != nil {
		log.Err(err).Str("func", "*templateRepository.ListTemplates").Msg("error: executing query")
		return nil, errors.Join(ErrExecutingQuery, err)
	}
	defer rows.Close()

	var templates []models.WorkoutTemplate
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			log.Err(err).Str("func", "*templateRepository.ListTemplates").Msg("error: scanning rows")
			return nil, errors.Join(ErrScanningRows, err)
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrScanningRows, err)
	}

	return templates, nil
}

// UpdateTemplate replaces the encrypted payload of an existing template.
func (r *templateRepository) UpdateTemplate(ctx context.Context, template models.WorkoutTemplate) (models.WorkoutTemplate, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, updateTemplate,
		template.EncryptedPayload, time.Now().UTC(), template.ID, template.UserID)

	saved, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.WorkoutTemplate{}, ErrTemplateNotFound
		}
		log.Err(err).Str("func", "*templateRepository.UpdateTemplate").Msg("error: updating template")
		return models.WorkoutTemplate{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return saved, nil
}

// DeleteTemplate removes one template scoped to its owner.
func (r *templateRepository) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteTemplate, templateID, userID)
	if err != nil {
		log.Err(err).Str("func", "*templateRepository.DeleteTemplate").Msg("error: deleting template")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}
