package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paullj1/workout-tracker/internal/crypto"
	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/store"
	"github.com/paullj1/workout-tracker/internal/validators"
	"github.com/paullj1/workout-tracker/models"
)

// templateService is the concrete implementation of TemplateService.
// Templates follow the same encrypt-before-store scheme as workouts.
type templateService struct {
	templateRepository store.TemplateRepository
	envelope           crypto.EnvelopeService
	validator          validators.Validator
	logger             *logger.Logger
}

// NewTemplateService constructs a TemplateService wired to the given
// repository and envelope encryption service.
func NewTemplateService(templateRepository store.TemplateRepository, envelope crypto.EnvelopeService, validator validators.Validator, logger *logger.Logger) TemplateService {
	return &templateService{
		templateRepository: templateRepository,
		envelope:           envelope,
		validator:          validator,
		logger:             logger,
	}
}

func templateResponse(record models.WorkoutTemplate, payload models.TemplatePayload) models.TemplateResponse {
	return models.TemplateResponse{
		ID:              record.ID,
		CreatedAt:       record.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       record.UpdatedAt.Format(time.RFC3339),
		TemplatePayload: payload,
	}
}

// CreateTemplate implements [TemplateService].
func (s *templateService) CreateTemplate(ctx context.Context, userID string, dataKey []byte, payload models.TemplatePayload) (models.TemplateResponse, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, payload); err != nil {
		return models.TemplateResponse{}, errors.Join(ErrInvalidDataProvided, err)
	}

	blob, err := s.envelope.EncryptPayload(dataKey, payload)
	if err != nil {
		log.Err(err).Str("func", "*templateService.CreateTemplate").Msg("encrypting payload failed")
		return models.TemplateResponse{}, fmt.Errorf("encrypting payload failed: %w", err)
	}

	saved, err := s.templateRepository.CreateTemplate(ctx, models.WorkoutTemplate{
		UserID:           userID,
		EncryptedPayload: blob,
	})
	if err != nil {
		return models.TemplateResponse{}, fmt.Errorf("storing template failed: %w", err)
	}

	return templateResponse(saved, payload), nil
}

// GetTemplate implements [TemplateService].
func (s *templateService) GetTemplate(ctx context.Context, userID string, dataKey []byte, templateID string) (models.TemplateResponse, error) {
	record, err := s.templateRepository.FindTemplateByID(ctx, userID, templateID)
	if err != nil {
		return models.TemplateResponse{}, fmt.Errorf("template lookup failed: %w", err)
	}

	payload, err := s.decryptTemplate(dataKey, record)
	if err != nil {
		return models.TemplateResponse{}, err
	}

	return templateResponse(record, payload), nil
}

// ListTemplates implements [TemplateService].
func (s *templateService) ListTemplates(ctx context.Context, userID string, dataKey []byte) ([]models.TemplateResponse, error) {
	records, err := s.templateRepository.ListTemplates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing templates failed: %w", err)
	}

	responses := make([]models.TemplateResponse, 0, len(records))
	for _, record := range records {
		payload, err := s.decryptTemplate(dataKey, record)
		if err != nil {
			return nil, err
		}
		responses = append(responses, templateResponse(record, payload))
	}

	return responses, nil
}

// UpdateTemplate implements [TemplateService].
func (s *templateService) UpdateTemplate(ctx context.Context, userID string, dataKey []byte, templateID string, payload models.TemplatePayload) (models.TemplateResponse, error) {
	if err := s.validator.Validate(ctx, payload); err != nil {
		return models.TemplateResponse{}, errors.Join(ErrInvalidDataProvided, err)
	}

	blob, err := s.envelope.EncryptPayload(dataKey, payload)
	if err != nil {
		return models.TemplateResponse{}, fmt.Errorf("encrypting payload failed: %w", err)
	}

	saved, err := s.templateRepository.UpdateTemplate(ctx, models.WorkoutTemplate{
		ID:               templateID,
		UserID:           userID,
		EncryptedPayload: blob,
	})
	if err != nil {
		return models.TemplateResponse{}, fmt.Errorf("updating template failed: %w", err)
	}

	return templateResponse(saved, payload), nil
}

// DeleteTemplate implements [TemplateService].
func (s *templateService) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	if err := s.templateRepository.DeleteTemplate(ctx, userID, templateID); err != nil {
		return fmt.Errorf("deleting template failed: %w", err)
	}
	return nil
}

func (s *templateService) decryptTemplate(dataKey []byte, record models.WorkoutTemplate) (models.TemplatePayload, error) {
	var payload models.TemplatePayload
	if err := s.envelope.DecryptPayload(dataKey, record.EncryptedPayload, &payload); err != nil {
		return models.TemplatePayload{}, fmt.Errorf("decrypting template %s failed: %w", record.ID, err)
	}
	return payload, nil
}
