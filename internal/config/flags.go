package config

import (
	"flag"
	"strings"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-rp-id WebAuthn relying-party identifier
//	-origins comma-separated allowed ceremony origins
//	-session-secret session signing secret
//	-kdf-iterations PBKDF2 iteration count
//	-challenge-ttl pending challenge lifetime (e.g., "5m")
//	-request-timeout request timeout (e.g., "30s", "1m")
func ParseFlags() *StructuredConfig {
	var serverAddress string
	var databaseDSN string
	var jsonConfigPath string
	var rpID string
	var origins string
	var sessionSecret string
	var kdfIterations int
	var challengeTTL time.Duration
	var requestTimeout time.Duration

	flag.StringVar(&serverAddress, "a", "", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&rpID, "rp-id", "", "WebAuthn relying-party ID")
	flag.StringVar(&origins, "origins", "", "Comma-separated allowed origins")
	flag.StringVar(&sessionSecret, "session-secret", "", "Session signing secret")
	flag.IntVar(&kdfIterations, "kdf-iterations", 0, "PBKDF2 iteration count")
	flag.DurationVar(&challengeTTL, "challenge-ttl", 0, "Challenge lifetime (e.g., 5m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	flag.Parse()

	var allowedOrigins []string
	if origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}

	return &StructuredConfig{
		App: App{
			RPID:           rpID,
			AllowedOrigins: allowedOrigins,
			SessionSecret:  sessionSecret,
			KDFIterations:  kdfIterations,
			ChallengeTTL:   challengeTTL,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress,
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}
}
