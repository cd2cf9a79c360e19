package http

import (
	"github.com/paullj1/workout-tracker/internal/adapter"
	"github.com/paullj1/workout-tracker/internal/config"
	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/service"
)

type Handler struct {
	services *service.Services
	apple    adapter.AppleService
	cfg      config.App

	logger *logger.Logger
}

func NewHandler(services *service.Services, apple adapter.AppleService, cfg config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		apple:    apple,
		cfg:      cfg,
		logger:   logger,
	}
}
