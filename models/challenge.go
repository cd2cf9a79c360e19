package models

import "time"

// Challenge purposes. A stored challenge can only be consumed for the
// purpose it was issued for.
const (
	ChallengePurposeRegister     = "register"
	ChallengePurposeAuthenticate = "authenticate"
)

// AuthChallenge is an ephemeral one-time challenge issued at the start of a
// WebAuthn ceremony. Each challenge is consumed at most once and has a
// bounded lifetime; expired rows are purged lazily on the next insert.
type AuthChallenge struct {
	// ID is the internal row identifier (UUID string).
	ID string `json:"-"`

	// UserID optionally binds the challenge to a user. Registration
	// challenges are bound to the (possibly provisional) user that
	// started the ceremony; authentication challenges are unbound
	// because the responding credential determines identity.
	UserID *string `json:"-"`

	// Challenge is the base64url-encoded random challenge bytes.
	// Unique across all pending challenges.
	Challenge string `json:"-"`

	// Purpose is one of ChallengePurposeRegister or
	// ChallengePurposeAuthenticate.
	Purpose string `json:"-"`

	CreatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the AuthChallenge model.
func (c AuthChallenge) TableName() string {
	return "auth_challenges"
}
