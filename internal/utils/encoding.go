package utils

import "encoding/base64"

// EncodeChallenge encodes raw challenge bytes the way WebAuthn clients do:
// base64url without padding.
func EncodeChallenge(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DeriveEncryptionToken derives the deterministic per-credential encryption
// token from a raw WebAuthn credential ID. The same credential always yields
// the same token, so any device holding the passkey can unlock the user's
// envelope without extra shared state.
func DeriveEncryptionToken(credentialID []byte) string {
	return base64.RawURLEncoding.EncodeToString(credentialID)
}
