package http

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/utils"
	"github.com/paullj1/workout-tracker/models"
)

// authResponse is the body returned by every ceremony-completing endpoint.
type authResponse struct {
	User            models.User `json:"user"`
	EncryptionToken string      `json:"encryption_token"`
}

// passkeyRegisterBegin starts a passkey registration ceremony. Authenticated
// callers add a credential to their existing account. Anonymous callers get
// a provisional account plus a freshly minted encryption token they must
// retain; the account becomes fully usable once the ceremony completes.
func (h *Handler) passkeyRegisterBegin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var user models.User
	var mintedToken *string

	if payload := h.sessionFromRequest(r); payload != nil {
		existing, err := h.services.UserService.GetUser(ctx, payload.UserID)
		if err != nil {
			log.Err(err).Str("func", "*Handler.passkeyRegisterBegin").Msg("session user lookup failed")
			http.Error(w, "session user lookup failed", statusFromError(err))
			return
		}
		user = existing
	} else {
		provisional, err := h.services.UserService.CreateProvisionalUser(ctx)
		if err != nil {
			log.Err(err).Str("func", "*Handler.passkeyRegisterBegin").Msg("provisional user creation failed")
			http.Error(w, "provisional user creation failed", statusFromError(err))
			return
		}
		user = provisional

		token, err := mintEncryptionToken()
		if err != nil {
			log.Err(err).Str("func", "*Handler.passkeyRegisterBegin").Msg("token minting failed")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		mintedToken = &token
	}

	options, err := h.services.PasskeyService.BeginRegistration(ctx, user)
	if err != nil {
		log.Err(err).Str("func", "*Handler.passkeyRegisterBegin").Msg("starting registration ceremony failed")
		http.Error(w, "starting registration ceremony failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.PasskeyRegisterBeginResponse{
		Options:         options,
		EncryptionToken: mintedToken,
	}, http.StatusOK)
}

// passkeyRegisterComplete verifies the authenticator's attestation response
// and signs the caller in. The encryption token in the response is derived
// from the new credential and now wraps the account's data key.
func (h *Handler) passkeyRegisterComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Err(err).Msg("reading request body failed")
		http.Error(w, "reading request body failed", http.StatusBadRequest)
		return
	}

	var currentUser *models.User
	if payload := h.sessionFromRequest(r); payload != nil {
		if existing, err := h.services.UserService.GetUser(ctx, payload.UserID); err == nil {
			currentUser = &existing
		}
	}

	user, encryptionToken, err := h.services.PasskeyService.FinishRegistration(ctx, currentUser, body)
	if err != nil {
		log.Err(err).Str("func", "*Handler.passkeyRegisterComplete").Msg("registration ceremony failed")
		http.Error(w, "registration ceremony failed", statusFromError(err))
		return
	}

	h.signIn(w, r, user, encryptionToken, http.StatusOK)
}

// passkeyLoginBegin starts an authentication ceremony. A body naming an
// email scopes the ceremony to that account's credentials; otherwise the
// ceremony is usernameless and any resident credential may answer.
func (h *Handler) passkeyLoginBegin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.PasskeyLoginBeginRequest
	if r.Body != nil {
		// An empty or absent body is a valid discoverable-login request.
		_ = json.NewDecoder(r.Body).Decode(&request)
	}

	var user *models.User
	if request.Email != nil && *request.Email != "" {
		found, err := h.services.UserService.FindUserByEmail(ctx, *request.Email)
		if err != nil {
			log.Err(err).Str("func", "*Handler.passkeyLoginBegin").Msg("user lookup failed")
			http.Error(w, "user lookup failed", statusFromError(err))
			return
		}
		user = &found
	}

	options, err := h.services.PasskeyService.BeginAuthentication(ctx, user)
	if err != nil {
		log.Err(err).Str("func", "*Handler.passkeyLoginBegin").Msg("starting authentication ceremony failed")
		http.Error(w, "starting authentication ceremony failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, options, http.StatusOK)
}

func (h *Handler) passkeyLoginComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Err(err).Msg("reading request body failed")
		http.Error(w, "reading request body failed", http.StatusBadRequest)
		return
	}

	user, encryptionToken, err := h.services.PasskeyService.FinishAuthentication(ctx, body)
	if err != nil {
		log.Err(err).Str("func", "*Handler.passkeyLoginComplete").Msg("authentication ceremony failed")
		http.Error(w, "authentication failed", statusFromError(err))
		return
	}

	h.signIn(w, r, user, encryptionToken, http.StatusOK)
}

// appleComplete exchanges a Sign in with Apple authorization code for a
// verified identity and signs the caller in, provisioning an account on
// first contact. New accounts require an encryption token in the request
// body so the envelope can be created.
func (h *Handler) appleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.AppleCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if request.AuthorizationCode == "" {
		http.Error(w, "authorization code is required", http.StatusBadRequest)
		return
	}

	tokenResponse, err := h.apple.ExchangeAuthorizationCode(ctx, request.AuthorizationCode)
	if err != nil {
		log.Err(err).Str("func", "*Handler.appleComplete").Msg("code exchange failed")
		http.Error(w, "code exchange failed", statusFromError(err))
		return
	}

	identity, err := h.apple.VerifyIdentityToken(ctx, tokenResponse.IDToken)
	if err != nil {
		log.Err(err).Str("func", "*Handler.appleComplete").Msg("identity token verification failed")
		http.Error(w, "identity token verification failed", statusFromError(err))
		return
	}
	if identity.Email == "" {
		log.Error().Msg("apple identity carries no email")
		http.Error(w, "identity carries no email", http.StatusBadRequest)
		return
	}

	var encryptionToken string
	if request.EncryptionToken != nil {
		encryptionToken = *request.EncryptionToken
	}

	user, err := h.services.UserService.FindUserByEmail(ctx, identity.Email)
	if err != nil {
		// First contact: provision an account for this identity.
		if request.EncryptionToken == nil || *request.EncryptionToken == "" {
			http.Error(w, "encryption token is required for new accounts", http.StatusBadRequest)
			return
		}

		created, createErr := h.services.UserService.CreateUser(ctx, models.UserCreateRequest{
			Email:           &identity.Email,
			DisplayName:     request.DisplayName,
			EncryptionToken: *request.EncryptionToken,
		})
		if createErr != nil {
			log.Err(createErr).Str("func", "*Handler.appleComplete").Msg("account provisioning failed")
			http.Error(w, "account provisioning failed", statusFromError(createErr))
			return
		}
		user = created
	}

	h.signIn(w, r, user, encryptionToken, http.StatusOK)
}

// getSession returns the account behind the current session cookie.
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, _ := utils.GetUserIDFromContext(ctx)
	user, err := h.services.UserService.GetUser(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getSession").Msg("session user lookup failed")
		http.Error(w, "session user lookup failed", statusFromError(err))
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// signIn issues a session token for user, sets the cookie, and writes the
// standard authentication response.
func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, user models.User, encryptionToken string, status int) {
	log := logger.FromRequest(r)

	token, err := h.services.SessionService.Issue(user.ID, encryptionToken)
	if err != nil {
		log.Err(err).Str("func", "*Handler.signIn").Msg("session token creation failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, token)
	utils.WriteJSON(w, authResponse{User: user, EncryptionToken: encryptionToken}, status)
}

// mintEncryptionToken produces a fresh random token for first-time signups.
func mintEncryptionToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
