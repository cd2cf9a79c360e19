// SPDX-License-Identifier: Apache-2.0

// Package adapter contains clients for external identity providers.
package adapter

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/paullj1/workout-tracker/internal/config"
	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/utils"
	"github.com/paullj1/workout-tracker/models"
)

const (
	appleBaseURL       = "https://appleid.apple.com"
	appleIssuer        = "https://appleid.apple.com"
	appleKeysCacheTTL  = time.Hour
	appleClientTimeout = 10 * time.Second
	clientSecretTTL    = 5 * time.Minute
)

// AppleIdentity is the verified subject of an Apple identity token.
type AppleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
}

// AppleService verifies Sign in with Apple identity tokens and exchanges
// authorization codes for token sets.
type AppleService interface {
	// Configured reports whether all four Apple credentials are present.
	Configured() bool

	// ExchangeAuthorizationCode trades a one-time authorization code for
	// Apple's token response. The embedded identity token is NOT verified
	// here; pass it to VerifyIdentityToken.
	ExchangeAuthorizationCode(ctx context.Context, code string) (models.AppleTokenResponse, error)

	// VerifyIdentityToken validates the token's RS256 signature against
	// Apple's published keys and checks the issuer and audience claims.
	VerifyIdentityToken(ctx context.Context, idToken string) (AppleIdentity, error)
}

// appleService talks to Apple's auth endpoints. Published signing keys are
// cached for an hour under a mutex; everything else is stateless.
type appleService struct {
	cfg     config.Apple
	client  *utils.HTTPClient
	baseURL string
	logger  *logger.Logger

	mu          sync.Mutex
	cachedKeys  []models.AppleJWK
	keysExpires time.Time
}

// NewAppleService constructs an AppleService from the Apple credentials in
// the application configuration.
func NewAppleService(cfg config.Apple, logger *logger.Logger) AppleService {
	return &appleService{
		cfg:     cfg,
		client:  utils.NewHTTPClient(appleClientTimeout),
		baseURL: appleBaseURL,
		logger:  logger,
	}
}

// Configured implements [AppleService].
func (s *appleService) Configured() bool {
	return s.cfg.TeamID != "" && s.cfg.ClientID != "" && s.cfg.KeyID != "" && s.cfg.PrivateKey != ""
}

// ExchangeAuthorizationCode implements [AppleService].
func (s *appleService) ExchangeAuthorizationCode(ctx context.Context, code string) (models.AppleTokenResponse, error) {
	log := logger.FromContext(ctx)

	if !s.Configured() {
		return models.AppleTokenResponse{}, ErrAppleNotConfigured
	}

	clientSecret, err := s.generateClientSecret()
	if err != nil {
		log.Err(err).Str("func", "*appleService.ExchangeAuthorizationCode").Msg("client secret generation failed")
		return models.AppleTokenResponse{}, fmt.Errorf("generating client secret failed: %w", err)
	}

	var tokenResponse models.AppleTokenResponse
	response, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     s.cfg.ClientID,
			"client_secret": clientSecret,
			"code":          code,
			"grant_type":    "authorization_code",
		}).
		SetResult(&tokenResponse).
		Post(s.baseURL + "/auth/token")
	if err != nil {
		log.Err(err).Str("func", "*appleService.ExchangeAuthorizationCode").Msg("token endpoint request failed")
		return models.AppleTokenResponse{}, fmt.Errorf("%w: %v", ErrAppleExchangeFailed, err)
	}
	if response.IsError() {
		log.Error().Int("status", response.StatusCode()).Msg("token endpoint returned error status")
		return models.AppleTokenResponse{}, fmt.Errorf("%w: status %d", ErrAppleExchangeFailed, response.StatusCode())
	}
	if tokenResponse.IDToken == "" {
		return models.AppleTokenResponse{}, fmt.Errorf("%w: response carries no identity token", ErrAppleExchangeFailed)
	}

	return tokenResponse, nil
}

// VerifyIdentityToken implements [AppleService].
func (s *appleService) VerifyIdentityToken(ctx context.Context, idToken string) (AppleIdentity, error) {
	log := logger.FromContext(ctx)

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		kid, _ := token.Header["kid"].(string)
		return s.signingKey(ctx, kid)
	},
		jwt.WithIssuer(appleIssuer),
		jwt.WithAudience(s.cfg.ClientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		log.Err(err).Str("func", "*appleService.VerifyIdentityToken").Msg("identity token validation failed")
		if errors.Is(err, ErrAppleKeyNotFound) {
			return AppleIdentity{}, ErrAppleKeyNotFound
		}
		return AppleIdentity{}, ErrAppleTokenInvalid
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return AppleIdentity{}, ErrAppleTokenInvalid
	}

	identity := AppleIdentity{Subject: subject}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	switch verified := claims["email_verified"].(type) {
	case bool:
		identity.EmailVerified = verified
	case string:
		// Apple sometimes serialises the claim as the string "true".
		identity.EmailVerified = verified == "true"
	}

	return identity, nil
}

// generateClientSecret builds the ES256-signed JWT Apple requires in place
// of a static client secret. Valid for five minutes.
func (s *appleService) generateClientSecret() (string, error) {
	pem := strings.ReplaceAll(s.cfg.PrivateKey, `\n`, "\n")
	privateKey, err := jwt.ParseECPrivateKeyFromPEM([]byte(pem))
	if err != nil {
		return "", fmt.Errorf("parsing private key failed: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.RegisteredClaims{
		Issuer:    s.cfg.TeamID,
		Subject:   s.cfg.ClientID,
		Audience:  jwt.ClaimStrings{appleIssuer},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(clientSecretTTL)),
	})
	token.Header["kid"] = s.cfg.KeyID

	return token.SignedString(privateKey)
}

// signingKey resolves a key ID against Apple's JWKS, refreshing the cache
// when it is stale or the ID is unknown.
func (s *appleService) signingKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	keys, err := s.publishedKeys(ctx, false)
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if key.Kid == kid {
			return rsaPublicKey(key)
		}
	}

	// Unknown kid may mean Apple rotated keys since the last fetch.
	keys, err = s.publishedKeys(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if key.Kid == kid {
			return rsaPublicKey(key)
		}
	}

	return nil, fmt.Errorf("%w: kid %q", ErrAppleKeyNotFound, kid)
}

func (s *appleService) publishedKeys(ctx context.Context, forceRefresh bool) ([]models.AppleJWK, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !forceRefresh && time.Now().Before(s.keysExpires) && len(s.cachedKeys) > 0 {
		return s.cachedKeys, nil
	}

	// Force JSON decoding: the endpoint has been seen answering without a
	// Content-Type header, which would otherwise skip unmarshalling.
	var keySet models.AppleJWKSet
	response, err := s.client.R().
		SetContext(ctx).
		SetResult(&keySet).
		ForceContentType("application/json").
		Get(s.baseURL + "/auth/keys")
	if err != nil {
		return nil, fmt.Errorf("fetching published keys failed: %w", err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("fetching published keys failed: status %d", response.StatusCode())
	}

	s.cachedKeys = keySet.Keys
	s.keysExpires = time.Now().Add(appleKeysCacheTTL)
	return s.cachedKeys, nil
}

// rsaPublicKey converts a JWK's base64url modulus and exponent into an
// *rsa.PublicKey.
func rsaPublicKey(key models.AppleJWK) (*rsa.PublicKey, error) {
	modulus, err := base64.RawURLEncoding.DecodeString(key.N)
	if err != nil {
		return nil, fmt.Errorf("decoding key modulus failed: %w", err)
	}
	exponent, err := base64.RawURLEncoding.DecodeString(key.E)
	if err != nil {
		return nil, fmt.Errorf("decoding key exponent failed: %w", err)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(modulus),
		E: int(new(big.Int).SetBytes(exponent).Int64()),
	}, nil
}
