package http

import (
	"encoding/json"
	"net/http"

	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/utils"
	"github.com/paullj1/workout-tracker/models"
)

// userProfileUpdateRequest is the body of PATCH /api/users/me.
type userProfileUpdateRequest struct {
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
}

// createUser provisions an account from an email and a client-held
// encryption token, then signs the caller in.
func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.UserCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, err := h.services.UserService.CreateUser(ctx, request)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createUser").Msg("user creation failed")
		http.Error(w, "user creation failed", statusFromError(err))
		return
	}

	h.signIn(w, r, user, request.EncryptionToken, http.StatusCreated)
}

func (h *Handler) getCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, _ := utils.GetUserIDFromContext(ctx)
	user, err := h.services.UserService.GetUser(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getCurrentUser").Msg("user lookup failed")
		http.Error(w, "user lookup failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) updateCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request userProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	userID, _ := utils.GetUserIDFromContext(ctx)
	user, err := h.services.UserService.UpdateProfile(ctx, userID, request.Email, request.DisplayName)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateCurrentUser").Msg("profile update failed")
		http.Error(w, "profile update failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) deleteCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, _ := utils.GetUserIDFromContext(ctx)
	if err := h.services.UserService.DeleteUser(ctx, userID); err != nil {
		log.Err(err).Str("func", "*Handler.deleteCurrentUser").Msg("user deletion failed")
		http.Error(w, "user deletion failed", statusFromError(err))
		return
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// rotateEncryption rewraps the caller's data key under a new encryption
// token and re-issues the session so it carries the new token.
func (h *Handler) rotateEncryption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.EncryptionRotateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	userID, _ := utils.GetUserIDFromContext(ctx)
	user, err := h.services.UserService.RotateEncryption(ctx, userID, request.EncryptionToken)
	if err != nil {
		log.Err(err).Str("func", "*Handler.rotateEncryption").Msg("envelope rotation failed")
		http.Error(w, "envelope rotation failed", statusFromError(err))
		return
	}

	h.signIn(w, r, user, request.EncryptionToken, http.StatusOK)
}

// currentUserAndKey loads the authenticated account and unwraps its data
// key from the encryption token the middleware put on the context.
func (h *Handler) currentUserAndKey(r *http.Request) (string, []byte, error) {
	ctx := r.Context()

	userID, _ := utils.GetUserIDFromContext(ctx)
	user, err := h.services.UserService.GetUser(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	dataKey, err := h.services.UserService.DataKey(ctx, user)
	if err != nil {
		return "", nil, err
	}

	return userID, dataKey, nil
}
