package models

// UserCreateRequest is the body of POST /api/users.
type UserCreateRequest struct {
	// Email is optional; when present it must be unique.
	Email *string `json:"email,omitempty"`

	// DisplayName is optional and non-sensitive.
	DisplayName *string `json:"display_name,omitempty"`

	// EncryptionToken is the client-held secret the envelope is created
	// from. Required. The server never stores it.
	EncryptionToken string `json:"encryption_token"`
}

// EncryptionRotateRequest is the body of POST /api/users/encryption/rotate.
type EncryptionRotateRequest struct {
	// EncryptionToken is the new secret the envelope is rewrapped under.
	EncryptionToken string `json:"encryption_token"`
}

// PasskeyLoginBeginRequest optionally names the account to authenticate.
// An empty email requests a usernameless (discoverable) ceremony.
type PasskeyLoginBeginRequest struct {
	Email *string `json:"email,omitempty"`
}

// PasskeyRegisterBeginResponse carries the WebAuthn creation options plus,
// for first-time anonymous signups, the freshly minted encryption token the
// client must retain.
type PasskeyRegisterBeginResponse struct {
	Options         any     `json:"options"`
	EncryptionToken *string `json:"encryption_token,omitempty"`
}

// AppleCompleteRequest is the body of POST /api/auth/apple/complete.
type AppleCompleteRequest struct {
	AuthorizationCode string  `json:"authorization_code"`
	DisplayName       *string `json:"display_name,omitempty"`

	// EncryptionToken is required when the Apple identity has no account
	// yet: provisioning creates the envelope from it.
	EncryptionToken *string `json:"encryption_token,omitempty"`
}

// WorkoutCreateRequest is the body of workout create/update calls. The
// fields are encrypted into a single payload blob before persistence.
type WorkoutCreateRequest struct {
	WorkoutPayload
}

// TemplateCreateRequest is the body of template create/update calls.
type TemplateCreateRequest struct {
	TemplatePayload
}

// WorkoutResponse is the decrypted representation returned to the client.
type WorkoutResponse struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	WorkoutPayload
}

// TemplateResponse is the decrypted representation returned to the client.
type TemplateResponse struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	TemplatePayload
}
