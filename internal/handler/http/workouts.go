package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/store"
	"github.com/paullj1/workout-tracker/internal/utils"
	"github.com/paullj1/workout-tracker/models"
)

const defaultListLimit = 50

func (h *Handler) createWorkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.WorkoutCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	userID, dataKey, err := h.currentUserAndKey(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createWorkout").Msg("resolving data key failed")
		http.Error(w, "resolving data key failed", statusFromError(err))
		return
	}

	response, err := h.services.WorkoutService.CreateWorkout(ctx, userID, dataKey, request.WorkoutPayload)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createWorkout").Msg("workout creation failed")
		http.Error(w, "workout creation failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusCreated)
}

func (h *Handler) getWorkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, dataKey, err := h.currentUserAndKey(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getWorkout").Msg("resolving data key failed")
		http.Error(w, "resolving data key failed", statusFromError(err))
		return
	}

	response, err := h.services.WorkoutService.GetWorkout(ctx, userID, dataKey, chi.URLParam(r, "workoutID"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.getWorkout").Msg("workout lookup failed")
		http.Error(w, "workout lookup failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

// listWorkouts returns the caller's decrypted workouts, newest first.
// Supported query parameters: search, limit, offset.
func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, dataKey, err := h.currentUserAndKey(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listWorkouts").Msg("resolving data key failed")
		http.Error(w, "resolving data key failed", statusFromError(err))
		return
	}

	responses, err := h.services.WorkoutService.ListWorkouts(ctx, userID, dataKey, workoutFilterFromQuery(r))
	if err != nil {
		log.Err(err).Str("func", "*Handler.listWorkouts").Msg("listing workouts failed")
		http.Error(w, "listing workouts failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, responses, http.StatusOK)
}

func (h *Handler) updateWorkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.WorkoutCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	userID, dataKey, err := h.currentUserAndKey(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateWorkout").Msg("resolving data key failed")
		http.Error(w, "resolving data key failed", statusFromError(err))
		return
	}

	response, err := h.services.WorkoutService.UpdateWorkout(ctx, userID, dataKey, chi.URLParam(r, "workoutID"), request.WorkoutPayload)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateWorkout").Msg("workout update failed")
		http.Error(w, "workout update failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) deleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, _ := utils.GetUserIDFromContext(ctx)
	if err := h.services.WorkoutService.DeleteWorkout(ctx, userID, chi.URLParam(r, "workoutID")); err != nil {
		log.Err(err).Str("func", "*Handler.deleteWorkout").Msg("workout deletion failed")
		http.Error(w, "workout deletion failed", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) bodyTrends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, dataKey, err := h.currentUserAndKey(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.bodyTrends").Msg("resolving data key failed")
		http.Error(w, "resolving data key failed", statusFromError(err))
		return
	}

	trend, err := h.services.WorkoutService.BodyTrends(ctx, userID, dataKey)
	if err != nil {
		log.Err(err).Str("func", "*Handler.bodyTrends").Msg("trend aggregation failed")
		http.Error(w, "trend aggregation failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, trend, http.StatusOK)
}

func workoutFilterFromQuery(r *http.Request) store.WorkoutFilter {
	filter := store.WorkoutFilter{Limit: defaultListLimit}

	if search := r.URL.Query().Get("search"); search != "" {
		filter.Search = &search
	}
	if limit, err := strconv.ParseUint(r.URL.Query().Get("limit"), 10, 64); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.ParseUint(r.URL.Query().Get("offset"), 10, 64); err == nil {
		filter.Offset = offset
	}

	return filter
}
