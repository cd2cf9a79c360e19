package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidRelyingPartyConfigs indicates missing WebAuthn identity
	// settings (empty relying-party ID or no allowed origins).
	ErrInvalidRelyingPartyConfigs = errors.New("invalid relying-party configuration")
	// ErrInvalidSessionConfigs indicates invalid session token settings
	// (for example, empty signing secret or non-positive max age).
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
	// ErrInvalidCryptoConfigs indicates invalid envelope-encryption or
	// challenge settings (non-positive KDF iterations or TTL).
	ErrInvalidCryptoConfigs = errors.New("invalid crypto configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
)
