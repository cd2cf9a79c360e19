package http

import (
	"errors"
	"net/http"

	"github.com/paullj1/workout-tracker/internal/adapter"
	"github.com/paullj1/workout-tracker/internal/crypto"
	"github.com/paullj1/workout-tracker/internal/service"
	"github.com/paullj1/workout-tracker/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrMissingEncryptionToken:  http.StatusBadRequest,
	service.ErrRegistrationFailed:      http.StatusBadRequest,
	service.ErrAuthenticationFailed:    http.StatusUnauthorized,
	service.ErrCredentialNotRegistered: http.StatusUnauthorized,
	service.ErrTokenCreationFailed:     http.StatusInternalServerError,

	crypto.ErrEncryptionFailure: http.StatusBadRequest,

	adapter.ErrAppleNotConfigured:  http.StatusServiceUnavailable,
	adapter.ErrAppleExchangeFailed: http.StatusBadGateway,
	adapter.ErrAppleTokenInvalid:   http.StatusUnauthorized,
	adapter.ErrAppleKeyNotFound:    http.StatusUnauthorized,

	store.ErrEmailAlreadyExists:      http.StatusConflict,
	store.ErrNoUserWasFound:          http.StatusNotFound,
	store.ErrCredentialAlreadyExists: http.StatusConflict,
	store.ErrCredentialNotFound:      http.StatusUnauthorized,
	store.ErrChallengeNotFound:       http.StatusBadRequest,
	store.ErrChallengeExpired:        http.StatusBadRequest,
	store.ErrWorkoutNotFound:         http.StatusNotFound,
	store.ErrTemplateNotFound:        http.StatusNotFound,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
