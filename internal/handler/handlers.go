package handler

import (
	"github.com/paullj1/workout-tracker/internal/adapter"
	"github.com/paullj1/workout-tracker/internal/config"
	"github.com/paullj1/workout-tracker/internal/handler/http"
	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, apple adapter.AppleService, cfg *config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, apple, cfg.App, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
