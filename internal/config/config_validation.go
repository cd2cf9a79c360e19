// SPDX-License-Identifier: Apache-2.0

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.RPID == "" || len(cfg.App.AllowedOrigins) == 0 {
		return ErrInvalidRelyingPartyConfigs
	}

	if cfg.App.SessionSecret == "" || cfg.App.SessionMaxAge <= 0 {
		return ErrInvalidSessionConfigs
	}

	if cfg.App.KDFIterations <= 0 || cfg.App.ChallengeTTL <= 0 {
		return ErrInvalidCryptoConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	return nil
}
