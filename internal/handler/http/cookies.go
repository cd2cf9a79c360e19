package http

import "net/http"

const sessionCookieName = "session"

// setSessionCookie attaches a signed session token to the response. The
// cookie is HTTP-only and SameSite=Lax; the Secure attribute is set only in
// production so local development over plain HTTP keeps working.
func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Environment == "prod",
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Environment == "prod",
		SameSite: http.SameSiteLaxMode,
	})
}
