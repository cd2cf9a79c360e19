package service

import (
	"context"

	"github.com/go-webauthn/webauthn/protocol"

	"github.com/paullj1/workout-tracker/internal/store"
	"github.com/paullj1/workout-tracker/models"
)

// SessionService signs and verifies the stateless session tokens carried in
// the session cookie.
type SessionService interface {
	// Issue signs a session token for userID. encryptionToken may be
	// empty; when present it travels inside the token so later requests
	// can unwrap the user's data key without resending it.
	Issue(userID, encryptionToken string) (string, error)

	// Resolve verifies a raw token and returns its payload, or nil when
	// the token is missing, malformed, expired, or signed with the wrong
	// key. Callers never learn which.
	Resolve(token string) *models.SessionPayload
}

// PasskeyService runs the WebAuthn registration and authentication
// ceremonies against the persistent challenge store.
type PasskeyService interface {
	// BeginRegistration issues creation options for the given user and
	// persists the ceremony challenge.
	BeginRegistration(ctx context.Context, user models.User) (*protocol.CredentialCreation, error)

	// FinishRegistration verifies an attestation response, stores the
	// new credential, creates the user's envelope from the derived
	// encryption token, and returns the updated user plus that token.
	// currentUser may be nil; the challenge then names the target user.
	FinishRegistration(ctx context.Context, currentUser *models.User, response []byte) (models.User, string, error)

	// BeginAuthentication issues assertion options. user is nil for a
	// usernameless (discoverable) ceremony.
	BeginAuthentication(ctx context.Context, user *models.User) (*protocol.CredentialAssertion, error)

	// FinishAuthentication verifies an assertion response and returns
	// the authenticated user plus the derived encryption token.
	FinishAuthentication(ctx context.Context, response []byte) (models.User, string, error)
}

// UserService owns account lifecycle and envelope rotation.
type UserService interface {
	CreateUser(ctx context.Context, request models.UserCreateRequest) (models.User, error)

	// CreateProvisionalUser inserts an empty-envelope account for an
	// anonymous passkey signup; the envelope is filled in when the
	// registration ceremony completes.
	CreateProvisionalUser(ctx context.Context) (models.User, error)

	GetUser(ctx context.Context, userID string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// UpdateProfile changes the non-sensitive account fields. Nil
	// arguments leave the corresponding column untouched.
	UpdateProfile(ctx context.Context, userID string, email, displayName *string) (models.User, error)

	DeleteUser(ctx context.Context, userID string) error

	// RotateEncryption unwraps the data key with the caller's current
	// token (taken from the request context) and rewraps it under
	// newToken.
	RotateEncryption(ctx context.Context, userID, newToken string) (models.User, error)

	// DataKey resolves the user's data key from the encryption token in
	// the request context.
	DataKey(ctx context.Context, user models.User) ([]byte, error)
}

// WorkoutService owns encrypted workout records and the volume trends
// computed from them.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, userID string, dataKey []byte, payload models.WorkoutPayload) (models.WorkoutResponse, error)
	GetWorkout(ctx context.Context, userID string, dataKey []byte, workoutID string) (models.WorkoutResponse, error)
	ListWorkouts(ctx context.Context, userID string, dataKey []byte, filter store.WorkoutFilter) ([]models.WorkoutResponse, error)
	UpdateWorkout(ctx context.Context, userID string, dataKey []byte, workoutID string, payload models.WorkoutPayload) (models.WorkoutResponse, error)
	DeleteWorkout(ctx context.Context, userID, workoutID string) error

	// BodyTrends aggregates the user's decrypted workouts into one point
	// per training day, sorted by date.
	BodyTrends(ctx context.Context, userID string, dataKey []byte) ([]models.TrendPoint, error)
}

// TemplateService owns encrypted workout templates.
type TemplateService interface {
	CreateTemplate(ctx context.Context, userID string, dataKey []byte, payload models.TemplatePayload) (models.TemplateResponse, error)
	GetTemplate(ctx context.Context, userID string, dataKey []byte, templateID string) (models.TemplateResponse, error)
	ListTemplates(ctx context.Context, userID string, dataKey []byte) ([]models.TemplateResponse, error)
	UpdateTemplate(ctx context.Context, userID string, dataKey []byte, templateID string, payload models.TemplatePayload) (models.TemplateResponse, error)
	DeleteTemplate(ctx context.Context, userID, templateID string) error
}
