package validators

import (
	"context"
	"fmt"

	"github.com/paullj1/workout-tracker/models"
)

const (
	FieldPerformedAt = "performed_at"
	FieldExercises   = "exercises"
	FieldBodyWeight  = "body_weight_kg"
	FieldName        = "name"
)

type PayloadValidator struct {
}

// NewPayloadValidator returns a Validator for workout and template payloads.
func NewPayloadValidator() Validator {
	return &PayloadValidator{}
}

func (v *PayloadValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.WorkoutPayload:
		return v.validateWorkoutPayload(ctx, value, fields...)
	case *models.WorkoutPayload:
		return v.validateWorkoutPayload(ctx, *value, fields...)

	case models.TemplatePayload:
		return v.validateTemplatePayload(ctx, value, fields...)
	case *models.TemplatePayload:
		return v.validateTemplatePayload(ctx, *value, fields...)

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

func (v *PayloadValidator) validateWorkoutPayload(_ context.Context, payload models.WorkoutPayload, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPerformedAt, FieldExercises, FieldBodyWeight}
	}

	for _, field := range fields {
		switch field {
		case FieldPerformedAt:
			if payload.PerformedAt.IsZero() {
				return ErrMissingPerformedAt
			}
		case FieldExercises:
			if err := validateExercises(payload.Exercises); err != nil {
				return err
			}
		case FieldBodyWeight:
			if payload.BodyWeightKg != nil && *payload.BodyWeightKg <= 0 {
				return ErrInvalidBodyWeight
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	return nil
}

func (v *PayloadValidator) validateTemplatePayload(_ context.Context, payload models.TemplatePayload, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldExercises}
	}

	for _, field := range fields {
		switch field {
		case FieldName:
			if payload.Name == "" {
				return ErrMissingTemplateName
			}
		case FieldExercises:
			if err := validateExercises(payload.Exercises); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	return nil
}

func validateExercises(exercises []models.Exercise) error {
	for _, exercise := range exercises {
		if exercise.Name == "" {
			return ErrEmptyExerciseName
		}
		if len(exercise.Sets) == 0 {
			return fmt.Errorf("%w: %s", ErrNoSetsInExercise, exercise.Name)
		}
		for _, set := range exercise.Sets {
			if set.Reps <= 0 {
				return fmt.Errorf("%w: %s", ErrInvalidReps, exercise.Name)
			}
			if set.WeightKg != nil && *set.WeightKg < 0 {
				return fmt.Errorf("%w: %s", ErrInvalidWeight, exercise.Name)
			}
			if set.RPE != nil && (*set.RPE < 1 || *set.RPE > 10) {
				return fmt.Errorf("%w: %s", ErrInvalidRPE, exercise.Name)
			}
		}
	}
	return nil
}
