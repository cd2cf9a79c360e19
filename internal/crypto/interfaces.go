package crypto

// EnvelopeService owns the per-user envelope-encryption scheme.
// It knows nothing about the network, the database, or users.
//
// Scheme:
//
//	salt, wrapped = CreateUserEnvelope(token)       (signup)
//	dataKey       = UnwrapDataKey(ctx)              (each unlock)
//	blob          = EncryptPayload(dataKey, value)  (each write)
//	value         = DecryptPayload(dataKey, blob)   (each read)
//	salt, wrapped = RotateEnvelope(dataKey, token2) (secret rotation)
//
// The wrapping key is derived from the user's secret token with a
// deliberately slow KDF; payloads are keyed by the random data key, never by
// the token directly, so rotating the token only rewraps the data key and
// leaves every payload record untouched.
type EnvelopeService interface {
	// CreateUserEnvelope generates a fresh random salt and data key and
	// returns the salt together with the data key wrapped under a key
	// derived from token and the salt.
	CreateUserEnvelope(token string) (salt, wrappedKey []byte, err error)

	// UnwrapDataKey re-derives the wrapping key from ctx.Token and
	// ctx.Salt and decrypts ctx.WrappedKey. Any authenticated-decryption
	// failure (wrong token, corrupted blob, wrong salt) is reported as
	// the same ErrEncryptionFailure so callers cannot distinguish the
	// root cause.
	UnwrapDataKey(ctx EncryptionContext) ([]byte, error)

	// EncryptPayload canonicalizes value to JSON and encrypts it with
	// dataKey. Every call uses a fresh random nonce.
	EncryptPayload(dataKey []byte, value any) ([]byte, error)

	// DecryptPayload decrypts blob with dataKey and unmarshals the
	// plaintext JSON into target (a non-nil pointer). Authentication
	// failures are reported as ErrEncryptionFailure.
	DecryptPayload(dataKey, blob []byte, target any) error

	// RotateEnvelope rewraps an already-unwrapped data key under a
	// brand-new salt and newToken. The caller must replace salt,
	// wrapped key, and version in a single atomic update.
	RotateEnvelope(dataKey []byte, newToken string) (salt, wrappedKey []byte, err error)
}

// EncryptionContext groups a caller-supplied secret token with a user's
// stored salt and wrapped key for a single unwrap operation. It is
// transient: never persisted and never logged.
type EncryptionContext struct {
	Token      string
	Salt       []byte
	WrappedKey []byte
}
