// SPDX-License-Identifier: Apache-2.0

package config

import (
	"strings"
	"time"
)

// StructuredConfig is the top-level configuration container for the
// workout-tracker backend. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings: relying-party identity,
	// crypto parameters, session signing, and the Apple Sign In
	// credentials.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the relational database.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP
	// server.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control the
// relying-party identity, envelope-encryption parameters, session tokens,
// and the Apple Sign In integration.
type App struct {
	// Environment is the deployment environment: "dev", "prod" or "test".
	// Controls cookie security attributes.
	// Env: APP_ENVIRONMENT
	Environment string `env:"ENVIRONMENT"`

	// RPID is the WebAuthn relying-party identifier, normally the bare
	// domain passkeys are scoped to.
	// Env: APP_RP_ID
	RPID string `env:"RP_ID"`

	// RPName is the human-readable relying-party name shown by
	// authenticator UIs.
	// Env: APP_RP_NAME
	RPName string `env:"RP_NAME"`

	// AllowedOrigins lists every front-end origin a ceremony response may
	// come from (e.g. the web app and a native wrapper). Verification
	// tries each origin in order and succeeds on the first match.
	// Env: APP_ALLOWED_ORIGINS (comma-separated)
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// KDFIterations is the PBKDF2-HMAC-SHA256 iteration count used when
	// deriving wrapping keys from user encryption tokens. Deliberately
	// slow; lower it only in tests.
	// Env: APP_KDF_ITERATIONS
	KDFIterations int `env:"KDF_ITERATIONS"`

	// ChallengeTTL bounds the lifetime of a pending ceremony challenge.
	// Env: APP_CHALLENGE_TTL
	ChallengeTTL time.Duration `env:"CHALLENGE_TTL"`

	// SessionSecret is the HMAC secret used to sign and verify session
	// tokens. Must be kept confidential.
	// Env: APP_SESSION_SECRET
	SessionSecret string `env:"SESSION_SECRET"`

	// SessionIssuer is the "iss" claim embedded in every issued session
	// token and validated on every authenticated request.
	// Env: APP_SESSION_ISSUER
	SessionIssuer string `env:"SESSION_ISSUER"`

	// SessionMaxAge specifies how long a session token remains valid
	// after issuance.
	// Env: APP_SESSION_MAX_AGE
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE"`

	// Apple holds the Sign in with Apple service credentials. All four
	// values are required before the code-exchange path is usable.
	Apple Apple `envPrefix:"APPLE_"`

	// Version is the semantic version string of the running application
	// (e.g. "1.2.3"). Exposed via the /api/version endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Apple holds the Sign in with Apple service configuration.
type Apple struct {
	// TeamID is the Apple developer team identifier ("iss" of the client
	// secret).
	// Env: APP_APPLE_TEAM_ID
	TeamID string `env:"TEAM_ID"`

	// ClientID is the service identifier the identity token audience is
	// checked against ("sub" of the client secret).
	// Env: APP_APPLE_CLIENT_ID
	ClientID string `env:"CLIENT_ID"`

	// KeyID is the identifier of the private key registered with Apple,
	// sent as the "kid" header of the client secret.
	// Env: APP_APPLE_KEY_ID
	KeyID string `env:"KEY_ID"`

	// PrivateKey is the PEM-encoded ES256 private key. Literal "\n"
	// sequences are normalised to newlines before parsing so the value
	// can be supplied through a single-line environment variable.
	// Env: APP_APPLE_PRIVATE_KEY
	PrivateKey string `env:"PRIVATE_KEY"`
}

// Storage groups the configuration for the persistence backend.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the database connection string. A "postgres://" DSN selects
	// the pgx driver; anything else is treated as a SQLite file path
	// (the development default, matching a single-binary deployment).
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// IsPostgres reports whether the DSN selects the PostgreSQL driver.
func (db DB) IsPostgres() bool {
	return strings.HasPrefix(db.DSN, "postgres://") || strings.HasPrefix(db.DSN, "postgresql://")
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Development defaults for anything still unset
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
