package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-webauthn/webauthn/protocol"

	"github.com/paullj1/workout-tracker/internal/adapter"
	"github.com/paullj1/workout-tracker/internal/config"
	"github.com/paullj1/workout-tracker/internal/crypto"
	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/service"
	"github.com/paullj1/workout-tracker/internal/store"
	"github.com/paullj1/workout-tracker/internal/utils"
	"github.com/paullj1/workout-tracker/models"
)

// Test fixtures shared by the handler tests. Session tokens are produced by
// the real SessionService so cookie round trips go through actual signing
// and verification; everything else is faked in memory.

const (
	testUserID          = "user-1"
	testEncryptionToken = "valid-token"
)

var testAppConfig = config.App{
	Environment:   "test",
	SessionSecret: "handler-test-secret",
	SessionIssuer: "workout-tracker-test",
	SessionMaxAge: time.Hour,
	Version:       "9.9.9-test",
}

type fakeUserService struct {
	users    map[string]models.User
	sequence int
}

func newFakeUserService() *fakeUserService {
	email := "athlete@example.com"
	return &fakeUserService{
		users: map[string]models.User{
			testUserID: {ID: testUserID, Email: &email, IsActive: true},
		},
	}
}

func (f *fakeUserService) CreateUser(_ context.Context, request models.UserCreateRequest) (models.User, error) {
	if request.EncryptionToken == "" {
		return models.User{}, service.ErrMissingEncryptionToken
	}
	if request.Email != nil {
		for _, user := range f.users {
			if user.Email != nil && *user.Email == *request.Email {
				return models.User{}, store.ErrEmailAlreadyExists
			}
		}
	}
	f.sequence++
	user := models.User{
		ID:          "created-" + string(rune('0'+f.sequence)),
		Email:       request.Email,
		DisplayName: request.DisplayName,
		IsActive:    true,
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserService) CreateProvisionalUser(_ context.Context) (models.User, error) {
	f.sequence++
	user := models.User{ID: "provisional-" + string(rune('0'+f.sequence)), IsActive: true}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserService) GetUser(_ context.Context, userID string) (models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return models.User{}, store.ErrNoUserWasFound
	}
	return user, nil
}

func (f *fakeUserService) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range f.users {
		if user.Email != nil && *user.Email == email {
			return user, nil
		}
	}
	return models.User{}, store.ErrNoUserWasFound
}

func (f *fakeUserService) UpdateProfile(_ context.Context, userID string, email, displayName *string) (models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return models.User{}, store.ErrNoUserWasFound
	}
	if email != nil {
		user.Email = email
	}
	if displayName != nil {
		user.DisplayName = displayName
	}
	f.users[userID] = user
	return user, nil
}

func (f *fakeUserService) DeleteUser(_ context.Context, userID string) error {
	if _, ok := f.users[userID]; !ok {
		return store.ErrNoUserWasFound
	}
	delete(f.users, userID)
	return nil
}

func (f *fakeUserService) RotateEncryption(ctx context.Context, userID, newToken string) (models.User, error) {
	if newToken == "" {
		return models.User{}, service.ErrMissingEncryptionToken
	}
	if _, err := f.dataKeyFromContext(ctx); err != nil {
		return models.User{}, err
	}
	user, ok := f.users[userID]
	if !ok {
		return models.User{}, store.ErrNoUserWasFound
	}
	user.EncryptionVersion++
	f.users[userID] = user
	return user, nil
}

func (f *fakeUserService) DataKey(ctx context.Context, _ models.User) ([]byte, error) {
	return f.dataKeyFromContext(ctx)
}

func (f *fakeUserService) dataKeyFromContext(ctx context.Context) ([]byte, error) {
	token, ok := utils.GetEncryptionTokenFromContext(ctx)
	if !ok || token == "" {
		return nil, service.ErrMissingEncryptionToken
	}
	if token != testEncryptionToken {
		return nil, crypto.ErrEncryptionFailure
	}
	return make([]byte, 32), nil
}

type fakeWorkoutService struct {
	workouts map[string]models.WorkoutResponse
	sequence int
}

func newFakeWorkoutService() *fakeWorkoutService {
	return &fakeWorkoutService{workouts: make(map[string]models.WorkoutResponse)}
}

func (f *fakeWorkoutService) CreateWorkout(_ context.Context, _ string, _ []byte, payload models.WorkoutPayload) (models.WorkoutResponse, error) {
	f.sequence++
	response := models.WorkoutResponse{
		ID:             "workout-" + string(rune('0'+f.sequence)),
		WorkoutPayload: payload,
	}
	f.workouts[response.ID] = response
	return response, nil
}

func (f *fakeWorkoutService) GetWorkout(_ context.Context, _ string, _ []byte, workoutID string) (models.WorkoutResponse, error) {
	response, ok := f.workouts[workoutID]
	if !ok {
		return models.WorkoutResponse{}, store.ErrWorkoutNotFound
	}
	return response, nil
}

func (f *fakeWorkoutService) ListWorkouts(_ context.Context, _ string, _ []byte, _ store.WorkoutFilter) ([]models.WorkoutResponse, error) {
	responses := make([]models.WorkoutResponse, 0, len(f.workouts))
	for _, response := range f.workouts {
		responses = append(responses, response)
	}
	return responses, nil
}

func (f *fakeWorkoutService) UpdateWorkout(_ context.Context, _ string, _ []byte, workoutID string, payload models.WorkoutPayload) (models.WorkoutResponse, error) {
	response, ok := f.workouts[workoutID]
	if !ok {
		return models.WorkoutResponse{}, store.ErrWorkoutNotFound
	}
	response.WorkoutPayload = payload
	f.workouts[workoutID] = response
	return response, nil
}

func (f *fakeWorkoutService) DeleteWorkout(_ context.Context, _, workoutID string) error {
	if _, ok := f.workouts[workoutID]; !ok {
		return store.ErrWorkoutNotFound
	}
	delete(f.workouts, workoutID)
	return nil
}

func (f *fakeWorkoutService) BodyTrends(_ context.Context, _ string, _ []byte) ([]models.TrendPoint, error) {
	return []models.TrendPoint{{Date: "2026-01-01", TotalSets: 3, TotalReps: 15}}, nil
}

type fakeTemplateService struct{}

func (fakeTemplateService) CreateTemplate(_ context.Context, _ string, _ []byte, payload models.TemplatePayload) (models.TemplateResponse, error) {
	return models.TemplateResponse{ID: "template-1", TemplatePayload: payload}, nil
}

func (fakeTemplateService) GetTemplate(_ context.Context, _ string, _ []byte, _ string) (models.TemplateResponse, error) {
	return models.TemplateResponse{}, store.ErrTemplateNotFound
}

func (fakeTemplateService) ListTemplates(_ context.Context, _ string, _ []byte) ([]models.TemplateResponse, error) {
	return nil, nil
}

func (fakeTemplateService) UpdateTemplate(_ context.Context, _ string, _ []byte, _ string, _ models.TemplatePayload) (models.TemplateResponse, error) {
	return models.TemplateResponse{}, store.ErrTemplateNotFound
}

func (fakeTemplateService) DeleteTemplate(_ context.Context, _, _ string) error {
	return store.ErrTemplateNotFound
}

type fakePasskeyService struct{}

func (fakePasskeyService) BeginRegistration(_ context.Context, _ models.User) (*protocol.CredentialCreation, error) {
	return &protocol.CredentialCreation{}, nil
}

func (fakePasskeyService) FinishRegistration(_ context.Context, _ *models.User, _ []byte) (models.User, string, error) {
	return models.User{}, "", service.ErrRegistrationFailed
}

func (fakePasskeyService) BeginAuthentication(_ context.Context, _ *models.User) (*protocol.CredentialAssertion, error) {
	return &protocol.CredentialAssertion{}, nil
}

func (fakePasskeyService) FinishAuthentication(_ context.Context, _ []byte) (models.User, string, error) {
	return models.User{}, "", service.ErrAuthenticationFailed
}

type fakeAppleService struct{}

func (fakeAppleService) Configured() bool { return false }

func (fakeAppleService) ExchangeAuthorizationCode(_ context.Context, _ string) (models.AppleTokenResponse, error) {
	return models.AppleTokenResponse{}, adapter.ErrAppleNotConfigured
}

func (fakeAppleService) VerifyIdentityToken(_ context.Context, _ string) (adapter.AppleIdentity, error) {
	return adapter.AppleIdentity{}, adapter.ErrAppleTokenInvalid
}

func newTestHandler() (*Handler, *fakeUserService, *fakeWorkoutService) {
	users := newFakeUserService()
	workouts := newFakeWorkoutService()

	services := &service.Services{
		SessionService:  service.NewSessionService(testAppConfig, logger.Nop()),
		PasskeyService:  fakePasskeyService{},
		UserService:     users,
		WorkoutService:  workouts,
		TemplateService: fakeTemplateService{},
	}

	return NewHandler(services, fakeAppleService{}, testAppConfig, logger.Nop()), users, workouts
}

// sessionCookieFor signs a real session token for the given user and wraps
// it in the cookie the auth middleware expects.
func sessionCookieFor(h *Handler, userID, encryptionToken string) *http.Cookie {
	token, err := h.services.SessionService.Issue(userID, encryptionToken)
	if err != nil {
		panic(err)
	}
	return &http.Cookie{Name: sessionCookieName, Value: token}
}

func doRequest(h *Handler, r *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	h.Init().ServeHTTP(recorder, r)
	return recorder
}
