// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys,
// HTTP response writing, HTTP client initialization, and encoding helpers.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key used to store the authenticated user identifier in
// the context. Used together with GetUserIDFromContext for type-safe
// retrieval of the user ID from context.Context.
var UserIDCtxKey = contextKey("userID")

// EncryptionTokenCtxKey is the key used to store the caller-supplied
// encryption token in the context. The token lives only for the duration of
// the request; it is never persisted or logged.
var EncryptionTokenCtxKey = contextKey("encryptionToken")

// GetUserIDFromContext retrieves the authenticated user identifier from the
// context.
//
// Returns the user ID and an ok flag:
//   - ok == true  — value is found and has the correct string type
//   - ok == false — value is missing or has an unexpected type
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

// GetEncryptionTokenFromContext retrieves the request-scoped encryption
// token from the context. Returns ok == false when no token was supplied.
func GetEncryptionTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(EncryptionTokenCtxKey).(string)
	return token, ok
}
