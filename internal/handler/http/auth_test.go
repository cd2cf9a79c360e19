package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paullj1/workout-tracker/models"
)

func TestPasskeyRegisterBegin_AnonymousMintsToken(t *testing.T) {
	h, users, _ := newTestHandler()
	before := len(users.users)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/passkey/register/begin", nil)
	recorder := doRequest(h, r)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}

	var response models.PasskeyRegisterBeginResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if response.EncryptionToken == nil || *response.EncryptionToken == "" {
		t.Error("expected a minted encryption token for anonymous signup")
	}
	if len(users.users) != before+1 {
		t.Error("expected a provisional user to be created")
	}
}

func TestPasskeyRegisterBegin_AuthenticatedAddsCredential(t *testing.T) {
	h, users, _ := newTestHandler()
	before := len(users.users)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/passkey/register/begin", nil)
	r.AddCookie(sessionCookieFor(h, testUserID, ""))
	recorder := doRequest(h, r)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}

	var response models.PasskeyRegisterBeginResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if response.EncryptionToken != nil {
		t.Error("no token should be minted for an existing account")
	}
	if len(users.users) != before {
		t.Error("no provisional user should be created for an existing account")
	}
}

func TestPasskeyLoginBegin_UnknownEmail(t *testing.T) {
	h, _, _ := newTestHandler()

	r := httptest.NewRequest(http.MethodPost, "/api/auth/passkey/login/begin", strings.NewReader(`{"email":"nobody@example.com"}`))
	recorder := doRequest(h, r)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
}

func TestPasskeyLoginBegin_Usernameless(t *testing.T) {
	h, _, _ := newTestHandler()

	r := httptest.NewRequest(http.MethodPost, "/api/auth/passkey/login/begin", nil)
	recorder := doRequest(h, r)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}
}

func TestPasskeyLoginComplete_Failure(t *testing.T) {
	h, _, _ := newTestHandler()

	r := httptest.NewRequest(http.MethodPost, "/api/auth/passkey/login/complete", strings.NewReader(`{}`))
	recorder := doRequest(h, r)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}
