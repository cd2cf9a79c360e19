package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/paullj1/workout-tracker/internal/crypto"
	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/store"
	"github.com/paullj1/workout-tracker/internal/validators"
	"github.com/paullj1/workout-tracker/models"
)

// workoutService is the concrete implementation of WorkoutService. Payloads
// are encrypted with the caller's data key before they reach the repository
// and decrypted on the way back; the service itself holds no key material.
type workoutService struct {
	workoutRepository store.WorkoutRepository
	envelope          crypto.EnvelopeService
	validator         validators.Validator
	logger            *logger.Logger
}

// NewWorkoutService constructs a WorkoutService wired to the given
// repository and envelope encryption service.
func NewWorkoutService(workoutRepository store.WorkoutRepository, envelope crypto.EnvelopeService, validator validators.Validator, logger *logger.Logger) WorkoutService {
	return &workoutService{
		workoutRepository: workoutRepository,
		envelope:          envelope,
		validator:         validator,
		logger:            logger,
	}
}

func workoutResponse(record models.Workout, payload models.WorkoutPayload) models.WorkoutResponse {
	return models.WorkoutResponse{
		ID:             record.ID,
		CreatedAt:      record.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      record.UpdatedAt.Format(time.RFC3339),
		WorkoutPayload: payload,
	}
}

// CreateWorkout implements [WorkoutService].
func (s *workoutService) CreateWorkout(ctx context.Context, userID string, dataKey []byte, payload models.WorkoutPayload) (models.WorkoutResponse, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, payload); err != nil {
		return models.WorkoutResponse{}, errors.Join(ErrInvalidDataProvided, err)
	}

	blob, err := s.envelope.EncryptPayload(dataKey, payload)
	if err != nil {
		log.Err(err).Str("func", "*workoutService.CreateWorkout").Msg("encrypting payload failed")
		return models.WorkoutResponse{}, fmt.Errorf("encrypting payload failed: %w", err)
	}

	record := models.Workout{
		UserID:           userID,
		EncryptedPayload: blob,
		NotesSearch:      payload.Notes,
	}
	saved, err := s.workoutRepository.CreateWorkout(ctx, record)
	if err != nil {
		return models.WorkoutResponse{}, fmt.Errorf("storing workout failed: %w", err)
	}

	return workoutResponse(saved, payload), nil
}

// GetWorkout implements [WorkoutService].
func (s *workoutService) GetWorkout(ctx context.Context, userID string, dataKey []byte, workoutID string) (models.WorkoutResponse, error) {
	record, err := s.workoutRepository.FindWorkoutByID(ctx, userID, workoutID)
	if err != nil {
		return models.WorkoutResponse{}, fmt.Errorf("workout lookup failed: %w", err)
	}

	payload, err := s.decryptWorkout(dataKey, record)
	if err != nil {
		return models.WorkoutResponse{}, err
	}

	return workoutResponse(record, payload), nil
}

// ListWorkouts implements [WorkoutService].
func (s *workoutService) ListWorkouts(ctx context.Context, userID string, dataKey []byte, filter store.WorkoutFilter) ([]models.WorkoutResponse, error) {
	records, err := s.workoutRepository.ListWorkouts(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing workouts failed: %w", err)
	}

	responses := make([]models.WorkoutResponse, 0, len(records))
	for _, record := range records {
		payload, err := s.decryptWorkout(dataKey, record)
		if err != nil {
			return nil, err
		}
		responses = append(responses, workoutResponse(record, payload))
	}

	return responses, nil
}

// UpdateWorkout implements [WorkoutService].
func (s *workoutService) UpdateWorkout(ctx context.Context, userID string, dataKey []byte, workoutID string, payload models.WorkoutPayload) (models.WorkoutResponse, error) {
	if err := s.validator.Validate(ctx, payload); err != nil {
		return models.WorkoutResponse{}, errors.Join(ErrInvalidDataProvided, err)
	}

	blob, err := s.envelope.EncryptPayload(dataKey, payload)
	if err != nil {
		return models.WorkoutResponse{}, fmt.Errorf("encrypting payload failed: %w", err)
	}

	record := models.Workout{
		ID:               workoutID,
		UserID:           userID,
		EncryptedPayload: blob,
		NotesSearch:      payload.Notes,
	}
	saved, err := s.workoutRepository.UpdateWorkout(ctx, record)
	if err != nil {
		return models.WorkoutResponse{}, fmt.Errorf("updating workout failed: %w", err)
	}

	return workoutResponse(saved, payload), nil
}

// DeleteWorkout implements [WorkoutService].
func (s *workoutService) DeleteWorkout(ctx context.Context, userID, workoutID string) error {
	if err := s.workoutRepository.DeleteWorkout(ctx, userID, workoutID); err != nil {
		return fmt.Errorf("deleting workout failed: %w", err)
	}
	return nil
}

// BodyTrends implements [WorkoutService]. Aggregation happens server side
// but only after decryption with the caller-supplied key, so a caller
// without the key gets nothing.
func (s *workoutService) BodyTrends(ctx context.Context, userID string, dataKey []byte) ([]models.TrendPoint, error) {
	records, err := s.workoutRepository.ListWorkouts(ctx, userID, store.WorkoutFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing workouts failed: %w", err)
	}

	type bucket struct {
		totalSets   int
		totalReps   int
		tonnage     float64
		bodyWeights []float64
	}
	buckets := make(map[string]*bucket)

	for _, record := range records {
		payload, err := s.decryptWorkout(dataKey, record)
		if err != nil {
			return nil, err
		}

		date := payload.PerformedAt.UTC().Format("2006-01-02")
		entry, ok := buckets[date]
		if !ok {
			entry = &bucket{}
			buckets[date] = entry
		}

		for _, exercise := range payload.Exercises {
			entry.totalSets += len(exercise.Sets)
			for _, set := range exercise.Sets {
				entry.totalReps += set.Reps
				if set.WeightKg != nil {
					entry.tonnage += *set.WeightKg * float64(set.Reps)
				}
			}
		}
		if payload.BodyWeightKg != nil {
			entry.bodyWeights = append(entry.bodyWeights, *payload.BodyWeightKg)
		}
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	trend := make([]models.TrendPoint, 0, len(dates))
	for _, date := range dates {
		entry := buckets[date]
		point := models.TrendPoint{
			Date:      date,
			TotalSets: entry.totalSets,
			TotalReps: entry.totalReps,
			TonnageKg: entry.tonnage,
		}
		if len(entry.bodyWeights) > 0 {
			var sum float64
			for _, weight := range entry.bodyWeights {
				sum += weight
			}
			average := sum / float64(len(entry.bodyWeights))
			point.AvgBodyWeight = &average
		}
		trend = append(trend, point)
	}

	return trend, nil
}

func (s *workoutService) decryptWorkout(dataKey []byte, record models.Workout) (models.WorkoutPayload, error) {
	var payload models.WorkoutPayload
	if err := s.envelope.DecryptPayload(dataKey, record.EncryptedPayload, &payload); err != nil {
		return models.WorkoutPayload{}, fmt.Errorf("decrypting workout %s failed: %w", record.ID, err)
	}
	return payload, nil
}
