package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/utils"
	"github.com/paullj1/workout-tracker/models"
)

func (h *Handler) createTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.TemplateCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	userID, dataKey, err := h.currentUserAndKey(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createTemplate").Msg("resolving data key failed")
		http.Error(w, "resolving data key failed", statusFromError(err))
		return
	}

	response, err := h.services.TemplateService.CreateTemplate(ctx, userID, dataKey, request.TemplatePayload)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createTemplate").Msg("template creation failed")
		http.Error(w, "template creation failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusCreated)
}

func (h *Handler) getTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, dataKey, err := h.currentUserAndKey(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getTemplate").Msg("resolving data key failed")
		http.Error(w, "resolving data key failed", statusFromError(err))
		return
	}

	response, err := h.services.TemplateService.GetTemplate(ctx, userID, dataKey, chi.URLParam(r, "templateID"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.getTemplate").Msg("template lookup failed")
		http.Error(w, "template lookup failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, dataKey, err := h.currentUserAndKey(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listTemplates").Msg("resolving data key failed")
		http.Error(w, "resolving data key failed", statusFromError(err))
		return
	}

	responses, err := h.services.TemplateService.ListTemplates(ctx, userID, dataKey)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listTemplates").Msg("listing templates failed")
		http.Error(w, "listing templates failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, responses, http.StatusOK)
}

func (h *Handler) updateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.TemplateCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	userID, dataKey, err := h.currentUserAndKey(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateTemplate").Msg("resolving data key failed")
		http.Error(w, "resolving data key failed", statusFromError(err))
		return
	}

	response, err := h.services.TemplateService.UpdateTemplate(ctx, userID, dataKey, chi.URLParam(r, "templateID"), request.TemplatePayload)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateTemplate").Msg("template update failed")
		http.Error(w, "template update failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, _ := utils.GetUserIDFromContext(ctx)
	if err := h.services.TemplateService.DeleteTemplate(ctx, userID, chi.URLParam(r, "templateID")); err != nil {
		log.Err(err).Str("func", "*Handler.deleteTemplate").Msg("template deletion failed")
		http.Error(w, "template deletion failed", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
