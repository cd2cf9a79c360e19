// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// ErrEncryptionFailure is returned for every authenticated-decryption
// failure. It is deliberately uninformative: distinguishing "wrong secret"
// from "corrupted record" would hand an oracle to whoever is guessing
// tokens.
var ErrEncryptionFailure = errors.New("encryption failure")

const (
	// saltBytes is the length of the random KDF salt.
	saltBytes = 16

	// dataKeyBytes is the length of the random data-encryption key
	// (256-bit AES).
	dataKeyBytes = 32

	// wrappingKeyBytes is the length of the PBKDF2-derived wrapping key.
	wrappingKeyBytes = 32

	// blobVersion tags every ciphertext blob so the format can evolve.
	blobVersion = 0x01
)

// envelopeService is the private implementation of [EnvelopeService].
type envelopeService struct {
	// iterations is the PBKDF2-HMAC-SHA256 iteration count. Stored in
	// the struct so deployments (and tests) can tune the work factor.
	iterations int
}

// NewEnvelopeService constructs an [EnvelopeService] with the given PBKDF2
// iteration count. Non-positive values fall back to the 390,000-iteration
// default, the OWASP-recommended floor for PBKDF2-HMAC-SHA256.
func NewEnvelopeService(iterations int) EnvelopeService {
	if iterations <= 0 {
		iterations = 390_000
	}
	return &envelopeService{iterations: iterations}
}

// deriveWrappingKey stretches the low-entropy token into a 256-bit wrapping
// key using PBKDF2-HMAC-SHA256 over the per-user salt.
func (e *envelopeService) deriveWrappingKey(token string, salt []byte) []byte {
	return pbkdf2.Key([]byte(token), salt, e.iterations, wrappingKeyBytes, sha256.New)
}

// CreateUserEnvelope implements [EnvelopeService]. It reads the salt and
// data key from the OS CSPRNG and wraps the data key under the derived
// wrapping key. Returns an error if a random read or the wrap fails.
func (e *envelopeService) CreateUserEnvelope(token string) ([]byte, []byte, error) {
	salt := make([]byte, saltBytes)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w", err)
	}

	dataKey := make([]byte, dataKeyBytes)
	if _, err := io.ReadFull(rand.Reader, dataKey); err != nil {
		return nil, nil, fmt.Errorf("generate data key: %w", err)
	}

	wrapped, err := seal(e.deriveWrappingKey(token, salt), dataKey)
	if err != nil {
		return nil, nil, fmt.Errorf("wrap data key: %w", err)
	}

	return salt, wrapped, nil
}

// UnwrapDataKey implements [EnvelopeService]. Every decryption failure is
// collapsed into [ErrEncryptionFailure].
func (e *envelopeService) UnwrapDataKey(ctx EncryptionContext) ([]byte, error) {
	dataKey, err := open(e.deriveWrappingKey(ctx.Token, ctx.Salt), ctx.WrappedKey)
	if err != nil {
		return nil, ErrEncryptionFailure
	}
	return dataKey, nil
}

// EncryptPayload implements [EnvelopeService]. The value is serialized to
// its canonical JSON byte encoding before encryption, so equal values
// always produce equal plaintext (but never equal ciphertext: the nonce is
// fresh per call).
func (e *envelopeService) EncryptPayload(dataKey []byte, value any) ([]byte, error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	blob, err := seal(dataKey, plaintext)
	if err != nil {
		return nil, fmt.Errorf("encrypt payload: %w", err)
	}

	return blob, nil
}

// DecryptPayload implements [EnvelopeService]. target must be a non-nil
// pointer, identical to the requirement of [encoding/json.Unmarshal].
func (e *envelopeService) DecryptPayload(dataKey, blob []byte, target any) error {
	plaintext, err := open(dataKey, blob)
	if err != nil {
		return ErrEncryptionFailure
	}

	if err := json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	return nil
}

// RotateEnvelope implements [EnvelopeService]. The data key itself is
// unchanged; only its wrapping is replaced, so existing payload records
// stay valid.
func (e *envelopeService) RotateEnvelope(dataKey []byte, newToken string) ([]byte, []byte, error) {
	salt := make([]byte, saltBytes)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w", err)
	}

	wrapped, err := seal(e.deriveWrappingKey(newToken, salt), dataKey)
	if err != nil {
		return nil, nil, fmt.Errorf("rewrap data key: %w", err)
	}

	return salt, wrapped, nil
}

// seal encrypts plaintext with key using AES-256-GCM. The output blob is
// version ‖ nonce ‖ ciphertext so that open can locate each part.
func seal(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	blob := make([]byte, 0, 1+len(nonce)+len(plaintext)+gcm.Overhead())
	blob = append(blob, blobVersion)
	blob = append(blob, nonce...)
	return gcm.Seal(blob, nonce, plaintext, nil), nil
}

// open reverses seal. The blob must carry a known version byte and be at
// least as long as the GCM nonce.
func open(key, blob []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(blob) < 1+nonceSize || blob[0] != blobVersion {
		return nil, errors.New("malformed ciphertext")
	}

	nonce, ciphertext := blob[1:1+nonceSize], blob[1+nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
