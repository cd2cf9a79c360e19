package models

import "time"

// Workout is a stored workout record. The payload itself is envelope
// encrypted with the user's data key; the server only sees the ciphertext
// plus the cleartext notes column kept for server-side search.
type Workout struct {
	// ID is the internal row identifier (UUID string).
	ID string `json:"id"`

	// UserID references the owning user (cascade-deleted with it).
	UserID string `json:"-"`

	// EncryptedPayload is the AES-GCM blob produced by the envelope
	// encryption service from the canonical JSON of WorkoutPayload.
	EncryptedPayload []byte `json:"-"`

	// NotesSearch mirrors the payload notes in cleartext so they can be
	// searched with SQL. Optional.
	NotesSearch *string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Workout model.
func (w Workout) TableName() string {
	return "workouts"
}

// WorkoutTemplate is a reusable workout blueprint, envelope encrypted the
// same way as Workout records.
type WorkoutTemplate struct {
	ID               string    `json:"id"`
	UserID           string    `json:"-"`
	EncryptedPayload []byte    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the WorkoutTemplate model.
func (t WorkoutTemplate) TableName() string {
	return "workout_templates"
}

// ExerciseSet is a single set performed within an exercise.
type ExerciseSet struct {
	Reps     int      `json:"reps"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
	RPE      *float64 `json:"rpe,omitempty"`
}

// Exercise groups the sets performed for one movement.
type Exercise struct {
	Name string        `json:"name"`
	Sets []ExerciseSet `json:"sets"`
}

// WorkoutPayload is the decrypted body of a workout record. It never
// touches the database in cleartext.
type WorkoutPayload struct {
	Title        string     `json:"title"`
	PerformedAt  time.Time  `json:"performed_at"`
	Exercises    []Exercise `json:"exercises"`
	BodyWeightKg *float64   `json:"body_weight_kg,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// TemplatePayload is the decrypted body of a workout template.
type TemplatePayload struct {
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
	Notes     *string    `json:"notes,omitempty"`
}

// TrendPoint is one aggregated day of training volume, computed from
// decrypted workout payloads.
type TrendPoint struct {
	Date          string   `json:"date"`
	TotalSets     int      `json:"total_sets"`
	TotalReps     int      `json:"total_reps"`
	TonnageKg     float64  `json:"tonnage_kg"`
	AvgBodyWeight *float64 `json:"avg_body_weight_kg,omitempty"`
}
