package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/paullj1/workout-tracker/internal/crypto"
	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/store"
	"github.com/paullj1/workout-tracker/internal/utils"
	"github.com/paullj1/workout-tracker/models"
)

// userService is the concrete implementation of UserService.
type userService struct {
	userRepository store.UserRepository
	envelope       crypto.EnvelopeService
	logger         *logger.Logger
}

// NewUserService constructs a UserService wired to the given repository and
// envelope encryption service.
func NewUserService(userRepository store.UserRepository, envelope crypto.EnvelopeService, logger *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		envelope:       envelope,
		logger:         logger,
	}
}

// CreateUser implements [UserService]. The encryption token is mandatory:
// the account's envelope is created from it before the row is inserted, so
// no user ever exists without a wrapped data key.
func (s *userService) CreateUser(ctx context.Context, request models.UserCreateRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if request.EncryptionToken == "" {
		log.Error().Msg("user creation without encryption token")
		return models.User{}, ErrMissingEncryptionToken
	}

	salt, wrapped, err := s.envelope.CreateUserEnvelope(request.EncryptionToken)
	if err != nil {
		return models.User{}, fmt.Errorf("creating envelope failed: %w", err)
	}

	user := models.User{
		Email:             normalizeEmail(request.Email),
		DisplayName:       request.DisplayName,
		EncryptionSalt:    salt,
		EncryptedDataKey:  wrapped,
		EncryptionVersion: 1,
		IsActive:          true,
	}

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("func", "*userService.CreateUser").Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return created, nil
}

// CreateProvisionalUser implements [UserService]. The row carries an empty
// envelope; FinishRegistration fills it in once the passkey ceremony
// completes.
func (s *userService) CreateProvisionalUser(ctx context.Context) (models.User, error) {
	log := logger.FromContext(ctx)

	user := models.User{
		EncryptionSalt:    []byte{},
		EncryptedDataKey:  []byte{},
		EncryptionVersion: 1,
		IsActive:          true,
	}

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("func", "*userService.CreateProvisionalUser").Msg("provisional user creation ended with error")
		return models.User{}, fmt.Errorf("provisional user creation ended with error: %w", err)
	}

	return created, nil
}

// GetUser implements [UserService].
func (s *userService) GetUser(ctx context.Context, userID string) (models.User, error) {
	user, err := s.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}
	return user, nil
}

// FindUserByEmail implements [UserService]. The address is lower-cased
// before lookup to match the storage normalization.
func (s *userService) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := s.userRepository.FindUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}
	return user, nil
}

// UpdateProfile implements [UserService].
func (s *userService) UpdateProfile(ctx context.Context, userID string, email, displayName *string) (models.User, error) {
	updated, err := s.userRepository.UpdateUserProfile(ctx, userID, normalizeEmail(email), displayName)
	if err != nil {
		return models.User{}, fmt.Errorf("profile update failed: %w", err)
	}
	return updated, nil
}

// DeleteUser implements [UserService]. All of the user's credentials,
// challenges, workouts, and templates go with the row via cascade.
func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepository.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("user deletion failed: %w", err)
	}
	return nil
}

// RotateEncryption implements [UserService]. The data key never changes;
// only its wrapping does, so stored payloads remain readable afterwards.
func (s *userService) RotateEncryption(ctx context.Context, userID, newToken string) (models.User, error) {
	log := logger.FromContext(ctx)

	if newToken == "" {
		return models.User{}, ErrMissingEncryptionToken
	}

	user, err := s.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}

	dataKey, err := s.DataKey(ctx, user)
	if err != nil {
		return models.User{}, err
	}

	salt, wrapped, err := s.envelope.RotateEnvelope(dataKey, newToken)
	if err != nil {
		return models.User{}, fmt.Errorf("rotating envelope failed: %w", err)
	}

	updated, err := s.userRepository.UpdateUserEnvelope(ctx, userID, salt, wrapped)
	if err != nil {
		log.Err(err).Str("func", "*userService.RotateEncryption").Msg("storing rotated envelope failed")
		return models.User{}, fmt.Errorf("storing rotated envelope failed: %w", err)
	}

	return updated, nil
}

// DataKey implements [UserService]. The encryption token comes from the
// request context, where the transport layer placed either the
// X-Encryption-Token header value or the token embedded in the session.
func (s *userService) DataKey(ctx context.Context, user models.User) ([]byte, error) {
	token, ok := utils.GetEncryptionTokenFromContext(ctx)
	if !ok || token == "" {
		return nil, ErrMissingEncryptionToken
	}

	dataKey, err := s.envelope.UnwrapDataKey(crypto.EncryptionContext{
		Token:      token,
		Salt:       user.EncryptionSalt,
		WrappedKey: user.EncryptedDataKey,
	})
	if err != nil {
		return nil, err
	}

	return dataKey, nil
}

// normalizeEmail lower-cases a non-nil address.
func normalizeEmail(email *string) *string {
	if email == nil || *email == "" {
		return nil
	}
	normalized := strings.ToLower(*email)
	return &normalized
}
