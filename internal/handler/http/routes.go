package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/version", h.getServerVersion)

		r.Post("/api/users", h.createUser)

		r.Post("/api/auth/passkey/register/begin", h.passkeyRegisterBegin)
		r.Post("/api/auth/passkey/register/complete", h.passkeyRegisterComplete)
		r.Post("/api/auth/passkey/login/begin", h.passkeyLoginBegin)
		r.Post("/api/auth/passkey/login/complete", h.passkeyLoginComplete)
		r.Post("/api/auth/apple/complete", h.appleComplete)
		r.Post("/api/auth/logout", h.logout)
	})

	// routes behind session authentication
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/auth/session", h.getSession)

		r.Get("/api/users/me", h.getCurrentUser)
		r.Patch("/api/users/me", h.updateCurrentUser)
		r.Delete("/api/users/me", h.deleteCurrentUser)
		r.Post("/api/users/encryption/rotate", h.rotateEncryption)

		r.Post("/api/workouts", h.createWorkout)
		r.Get("/api/workouts", h.listWorkouts)
		r.Get("/api/workouts/trends/body", h.bodyTrends)
		r.Get("/api/workouts/{workoutID}", h.getWorkout)
		r.Put("/api/workouts/{workoutID}", h.updateWorkout)
		r.Delete("/api/workouts/{workoutID}", h.deleteWorkout)

		r.Post("/api/templates", h.createTemplate)
		r.Get("/api/templates", h.listTemplates)
		r.Get("/api/templates/{templateID}", h.getTemplate)
		r.Put("/api/templates/{templateID}", h.updateTemplate)
		r.Delete("/api/templates/{templateID}", h.deleteTemplate)
	})

	return router
}
