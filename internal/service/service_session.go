package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/paullj1/workout-tracker/internal/config"
	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/models"
)

// sessionService is the concrete implementation of SessionService.
// Tokens are HMAC-SHA256 signed JWTs; there is no server-side session state,
// so a token is valid until it expires or the signing secret rotates.
type sessionService struct {
	// signKey is the HMAC secret used to sign and verify session tokens.
	signKey string

	// issuer is the "iss" claim embedded in every issued token. Tokens
	// whose issuer does not match are rejected during parsing.
	issuer string

	// maxAge controls how long a newly issued token remains valid.
	maxAge time.Duration

	// logger is the structured logger used for diagnostic output.
	logger *logger.Logger
}

// NewSessionService constructs a SessionService with the signing parameters
// from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewSessionService(cfg config.App, logger *logger.Logger) SessionService {
	return &sessionService{
		signKey: cfg.SessionSecret,
		issuer:  cfg.SessionIssuer,
		maxAge:  cfg.SessionMaxAge,
		logger:  logger,
	}
}

// Issue implements [SessionService].
func (s *sessionService) Issue(userID, encryptionToken string) (string, error) {
	if userID == "" {
		return "", ErrInvalidDataProvided
	}

	now := time.Now()
	claims := &models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.maxAge)),
		},
		EncryptionToken: encryptionToken,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.signKey))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return signed, nil
}

// Resolve implements [SessionService]. Every verification failure collapses
// to nil: an invalid session and an absent session look identical.
func (s *sessionService) Resolve(tokenString string) *models.SessionPayload {
	if tokenString == "" {
		return nil
	}

	claims := &models.SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.signKey), nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		s.logger.Debug().Err(err).Msg("session token rejected")
		return nil
	}

	if claims.Subject == "" {
		return nil
	}

	return &models.SessionPayload{
		UserID:          claims.Subject,
		EncryptionToken: claims.EncryptionToken,
	}
}
