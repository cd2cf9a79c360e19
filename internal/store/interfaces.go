package store

import (
	"context"
	"time"

	"github.com/paullj1/workout-tracker/models"
)

// UserRepository persists user accounts together with their encryption
// envelope columns.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, userID string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	// UpdateUserEnvelope atomically replaces the encryption salt and
	// wrapped data key and bumps the envelope version.
	UpdateUserEnvelope(ctx context.Context, userID string, salt, wrappedKey []byte) (models.User, error)
	// SetPasskeyUserHandle records the WebAuthn user handle after the
	// first successful passkey registration.
	SetPasskeyUserHandle(ctx context.Context, userID string, handle []byte) error
	UpdateUserProfile(ctx context.Context, userID string, email, displayName *string) (models.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

// CredentialRepository persists registered WebAuthn credentials.
type CredentialRepository interface {
	CreateCredential(ctx context.Context, credential models.PasskeyCredential) (models.PasskeyCredential, error)
	FindCredentialByCredentialID(ctx context.Context, credentialID []byte) (models.PasskeyCredential, error)
	FindCredentialsByUserID(ctx context.Context, userID string) ([]models.PasskeyCredential, error)
	// UpdateCredentialSignCount stores the authenticator counter observed
	// during the latest assertion and stamps last_used_at.
	UpdateCredentialSignCount(ctx context.Context, id string, signCount uint32) error
}

// ChallengeRepository persists one-time WebAuthn ceremony challenges.
type ChallengeRepository interface {
	// PersistChallenge stores a fresh challenge, first purging every
	// challenge older than ttl in the same call.
	PersistChallenge(ctx context.Context, challenge models.AuthChallenge, ttl time.Duration) error
	// ConsumeChallenge atomically loads and deletes the challenge with
	// the given value and purpose. A non-nil userID narrows the match to
	// challenges bound to that user, so one account can never consume
	// another's pending ceremony. Deletion on first use is the sole
	// replay defence, so read and delete run in one transaction. Rows
	// past their ttl are deleted and reported as expired.
	ConsumeChallenge(ctx context.Context, challenge, purpose string, userID *string, ttl time.Duration) (models.AuthChallenge, error)
	// PurgeExpiredChallenges deletes every challenge older than ttl.
	// Used by the background sweeper; inserts purge lazily anyway.
	PurgeExpiredChallenges(ctx context.Context, ttl time.Duration) (int64, error)
}

// WorkoutFilter narrows a workout listing.
type WorkoutFilter struct {
	// Search matches against the cleartext notes_search column.
	Search *string
	Limit  uint64
	Offset uint64
}

// WorkoutRepository persists encrypted workout records.
type WorkoutRepository interface {
	CreateWorkout(ctx context.Context, workout models.Workout) (models.Workout, error)
	FindWorkoutByID(ctx context.Context, userID, workoutID string) (models.Workout, error)
	ListWorkouts(ctx context.Context, userID string, filter WorkoutFilter) ([]models.Workout, error)
	UpdateWorkout(ctx context.Context, workout models.Workout) (models.Workout, error)
	DeleteWorkout(ctx context.Context, userID, workoutID string) error
}

// TemplateRepository persists encrypted workout templates.
type TemplateRepository interface {
	CreateTemplate(ctx context.Context, template models.WorkoutTemplate) (models.WorkoutTemplate, error)
	FindTemplateByID(ctx context.Context, userID, templateID string) (models.WorkoutTemplate, error)
	ListTemplates(ctx context.Context, userID string) ([]models.WorkoutTemplate, error)
	UpdateTemplate(ctx context.Context, template models.WorkoutTemplate) (models.WorkoutTemplate, error)
	DeleteTemplate(ctx context.Context, userID, templateID string) error
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
