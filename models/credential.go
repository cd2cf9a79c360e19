package models

import "time"

// PasskeyCredential is a WebAuthn credential registered by a user.
// A credential belongs to exactly one user; its CredentialID is globally
// unique across all users.
type PasskeyCredential struct {
	// ID is the internal row identifier (UUID string).
	ID string `json:"id"`

	// UserID references the owning user. Credentials are deleted
	// together with the user (cascade).
	UserID string `json:"-"`

	// CredentialID is the raw WebAuthn credential identifier bytes.
	CredentialID []byte `json:"-"`

	// PublicKey is the COSE-encoded verification key bytes returned by
	// the authenticator at registration.
	PublicKey []byte `json:"-"`

	// SignCount is the authenticator signature counter. Expected to be
	// monotonically non-decreasing; a regression hints at a cloned
	// credential and fails authentication.
	SignCount uint32 `json:"-"`

	// Transports is a comma-joined list of transport hints reported by
	// the client (e.g. "internal,hybrid"). Empty when unknown.
	Transports string `json:"-"`

	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// TableName returns the name of the database table
// associated with the PasskeyCredential model.
func (c PasskeyCredential) TableName() string {
	return "passkey_credentials"
}
