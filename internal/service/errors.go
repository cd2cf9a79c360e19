package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrRegistrationFailed covers every passkey registration failure:
	// missing or expired challenge, origin mismatch, bad attestation.
	ErrRegistrationFailed = errors.New("passkey registration failed")

	// ErrAuthenticationFailed covers every passkey assertion failure,
	// including a sign-count regression on a suspected cloned credential.
	ErrAuthenticationFailed = errors.New("passkey authentication failed")

	// ErrCredentialNotRegistered is returned when an assertion names a
	// credential no account has registered.
	ErrCredentialNotRegistered = errors.New("credential is not registered")

	// ErrMissingEncryptionToken is returned when an operation needs the
	// user's encryption token and neither the request nor the session
	// provided one.
	ErrMissingEncryptionToken = errors.New("missing encryption token")

	ErrTokenCreationFailed = errors.New("session token creation failed")
)
