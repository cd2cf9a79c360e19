package models

import "time"

// User represents an account entity used for authentication and for
// anchoring the per-user encryption envelope. Sensitive fields must never
// be exposed outside trusted boundaries.
type User struct {
	// ID is the opaque unique identifier of the user (UUID string).
	ID string `json:"id"`

	// Email is the optional, globally unique address of the account.
	// Stored lower-cased. Nil for passkey-only accounts that never
	// shared an email.
	Email *string `json:"email,omitempty"`

	// DisplayName is an optional human-readable name shown in UI.
	DisplayName *string `json:"display_name,omitempty"`

	// EncryptionSalt is the random salt fed into the wrapping-key KDF.
	// Not secret, but internal to the encryption subsystem.
	EncryptionSalt []byte `json:"-"`

	// EncryptedDataKey is the envelope ciphertext wrapping the user's
	// random data key. Useless without the wrapping key.
	EncryptedDataKey []byte `json:"-"`

	// EncryptionVersion is a monotonic counter bumped on every
	// envelope rotation.
	EncryptionVersion int `json:"-"`

	// PasskeyUserHandle is the opaque WebAuthn user handle sent back by
	// authenticators during discoverable login. Nil until the first
	// passkey registration completes.
	PasskeyUserHandle []byte `json:"-"`

	// IsActive marks the account as usable. Reserved for soft
	// deactivation; always true for freshly created accounts.
	IsActive bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
