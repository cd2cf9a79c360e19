package service

import (
	"github.com/paullj1/workout-tracker/internal/config"
	"github.com/paullj1/workout-tracker/internal/crypto"
	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/store"
	"github.com/paullj1/workout-tracker/internal/validators"
)

// Services bundles every domain service behind one constructor so the
// transport layer receives a single dependency.
type Services struct {
	SessionService  SessionService
	PasskeyService  PasskeyService
	UserService     UserService
	WorkoutService  WorkoutService
	TemplateService TemplateService
}

// NewServices constructs the full service layer on top of the repositories.
// Returns an error when the WebAuthn relying-party configuration is invalid.
func NewServices(storages *store.Storages, cfg config.App, logger *logger.Logger) (*Services, error) {
	envelope := crypto.NewEnvelopeService(cfg.KDFIterations)
	payloadValidator := validators.NewPayloadValidator()

	passkeyService, err := NewPasskeyService(storages, envelope, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		SessionService:  NewSessionService(cfg, logger),
		PasskeyService:  passkeyService,
		UserService:     NewUserService(storages.UserRepository, envelope, logger),
		WorkoutService:  NewWorkoutService(storages.WorkoutRepository, envelope, payloadValidator, logger),
		TemplateService: NewTemplateService(storages.TemplateRepository, envelope, payloadValidator, logger),
	}, nil
}
