// SPDX-License-Identifier: Apache-2.0

package http

import "errors"

// Sentinel errors used by the authentication middleware when resolving the
// session cookie. Callers can match against them with [errors.Is].
var (
	// ErrNoSessionCookie is returned when the incoming request carries no
	// session cookie at all.
	ErrNoSessionCookie = errors.New("no session cookie")

	// ErrInvalidSession is returned when the session cookie is present but
	// its token fails verification. Expired, tampered, and mis-signed
	// tokens are indistinguishable on purpose.
	ErrInvalidSession = errors.New("invalid or expired session")
)
