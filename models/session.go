package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the JWT claim set carried by a signed session token.
//
// The token is authenticated, not encrypted: besides the standard claims it
// may carry the short-lived encryption token needed to re-derive the user's
// wrapping key, but never the wrapped data key or other raw secrets.
type SessionClaims struct {
	jwt.RegisteredClaims

	// EncryptionToken is the optional client secret embedded when a
	// ceremony freshly established it. Empty otherwise.
	EncryptionToken string `json:"enc,omitempty"`
}

// SessionPayload is the resolved content of a valid session token.
type SessionPayload struct {
	// UserID is the authenticated user's identifier (the "sub" claim).
	UserID string

	// EncryptionToken is the embedded encryption secret, if any.
	EncryptionToken string
}
