package adapter

import "errors"

var (
	// ErrAppleNotConfigured is returned when the Sign in with Apple
	// credentials are missing from the configuration.
	ErrAppleNotConfigured = errors.New("apple sign in is not configured")

	// ErrAppleExchangeFailed is returned when the authorization-code
	// exchange with Apple's token endpoint does not succeed.
	ErrAppleExchangeFailed = errors.New("apple token exchange failed")

	// ErrAppleTokenInvalid is returned when an identity token fails
	// signature or claim validation.
	ErrAppleTokenInvalid = errors.New("apple identity token is invalid")

	// ErrAppleKeyNotFound is returned when the identity token names a
	// signing key Apple does not publish, even after a forced refresh of
	// the cached key set.
	ErrAppleKeyNotFound = errors.New("apple signing key not found")
)
