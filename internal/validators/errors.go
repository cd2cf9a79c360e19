package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrMissingPerformedAt  = errors.New("performed_at is required")
	ErrMissingTemplateName = errors.New("template name is required")
	ErrEmptyExerciseName   = errors.New("exercise name is required")
	ErrNoSetsInExercise    = errors.New("exercise must contain at least one set")
	ErrInvalidReps         = errors.New("reps must be positive")
	ErrInvalidWeight       = errors.New("weight cannot be negative")
	ErrInvalidRPE          = errors.New("rpe must be between 1 and 10")
	ErrInvalidBodyWeight   = errors.New("body weight must be positive")
)
