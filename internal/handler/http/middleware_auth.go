package http

import (
	"context"
	"net/http"

	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/utils"
	"github.com/paullj1/workout-tracker/models"
)

// encryptionTokenHeader lets a client supply the encryption token on a
// per-request basis instead of keeping it inside the session cookie.
// A header value always wins over a session-embedded token.
const encryptionTokenHeader = "X-Encryption-Token"

// auth is an HTTP middleware that enforces cookie-based session
// authentication.
//
// It reads the session cookie, verifies its token via
// [service.SessionService.Resolve], and on success stores the authenticated
// user's ID under [utils.UserIDCtxKey] and the effective encryption token
// under [utils.EncryptionTokenCtxKey] before delegating to the next handler.
//
// Requests without a cookie or with a token that fails verification are
// rejected with HTTP 401 Unauthorized. Missing, expired, and tampered
// tokens produce the same response.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		payload := h.sessionFromRequest(r)
		if payload == nil {
			log.Err(ErrInvalidSession).Send()
			http.Error(w, ErrInvalidSession.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserIDCtxKey, payload.UserID)

		if token := effectiveEncryptionToken(r, payload); token != "" {
			ctx = context.WithValue(ctx, utils.EncryptionTokenCtxKey, token)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFromRequest resolves the session cookie into its payload, or nil
// when the cookie is absent or its token does not verify.
func (h *Handler) sessionFromRequest(r *http.Request) *models.SessionPayload {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return h.services.SessionService.Resolve(cookie.Value)
}

func effectiveEncryptionToken(r *http.Request, payload *models.SessionPayload) string {
	if header := r.Header.Get(encryptionTokenHeader); header != "" {
		return header
	}
	return payload.EncryptionToken
}
