package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"

	"github.com/paullj1/workout-tracker/internal/config"
	"github.com/paullj1/workout-tracker/internal/crypto"
	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/store"
	"github.com/paullj1/workout-tracker/internal/utils"
	"github.com/paullj1/workout-tracker/models"
)

// ceremonyVerifier is the slice of *webauthn.WebAuthn the service calls.
// Production always wires the real library, one verifier per allowed origin;
// tests substitute fakes to drive the finish paths.
type ceremonyVerifier interface {
	BeginRegistration(user webauthn.User, opts ...webauthn.RegistrationOption) (*protocol.CredentialCreation, *webauthn.SessionData, error)
	CreateCredential(user webauthn.User, session webauthn.SessionData, response *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error)
	BeginLogin(user webauthn.User, opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error)
	BeginDiscoverableLogin(opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error)
	ValidateLogin(user webauthn.User, session webauthn.SessionData, response *protocol.ParsedCredentialAssertionData) (*webauthn.Credential, error)
}

// ceremonyParser decodes the wire form of authenticator responses.
type ceremonyParser interface {
	ParseCredentialCreationResponseBytes(body []byte) (*protocol.ParsedCredentialCreationData, error)
	ParseCredentialRequestResponseBytes(body []byte) (*protocol.ParsedCredentialAssertionData, error)
}

// wireParser parses responses with the protocol package.
type wireParser struct{}

func (wireParser) ParseCredentialCreationResponseBytes(body []byte) (*protocol.ParsedCredentialCreationData, error) {
	return protocol.ParseCredentialCreationResponseBody(bytes.NewReader(body))
}

func (wireParser) ParseCredentialRequestResponseBytes(body []byte) (*protocol.ParsedCredentialAssertionData, error) {
	return protocol.ParseCredentialRequestResponseBody(bytes.NewReader(body))
}

// passkeyService is the concrete implementation of PasskeyService.
//
// Ceremony state lives in the challenge store, not in server memory: the
// begin step persists only the challenge string, and the finish step
// reconstructs the WebAuthn session from the challenge echoed inside the
// client data. Consuming the challenge deletes it, which is the sole replay
// defence.
//
// One verifier is built per allowed origin. Verification walks them in
// configuration order and accepts the first success, so a response from any
// configured front end (web app, native wrapper) validates.
type passkeyService struct {
	verifiers []ceremonyVerifier
	parser    ceremonyParser

	userRepository       store.UserRepository
	credentialRepository store.CredentialRepository
	challengeRepository  store.ChallengeRepository

	envelope     crypto.EnvelopeService
	challengeTTL time.Duration
	logger       *logger.Logger
}

// NewPasskeyService constructs a PasskeyService with one WebAuthn verifier
// per allowed origin from cfg. Returns an error if the relying-party
// configuration is rejected by the WebAuthn library.
func NewPasskeyService(storages *store.Storages, envelope crypto.EnvelopeService, cfg config.App, logger *logger.Logger) (PasskeyService, error) {
	verifiers := make([]ceremonyVerifier, 0, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		verifier, err := webauthn.New(&webauthn.Config{
			RPID:          cfg.RPID,
			RPDisplayName: cfg.RPName,
			RPOrigins:     []string{origin},
		})
		if err != nil {
			return nil, fmt.Errorf("configuring webauthn for origin %s: %w", origin, err)
		}
		verifiers = append(verifiers, verifier)
	}
	if len(verifiers) == 0 {
		return nil, fmt.Errorf("no allowed origins configured")
	}

	return &passkeyService{
		verifiers:            verifiers,
		parser:               wireParser{},
		userRepository:       storages.UserRepository,
		credentialRepository: storages.CredentialRepository,
		challengeRepository:  storages.ChallengeRepository,
		envelope:             envelope,
		challengeTTL:         cfg.ChallengeTTL,
		logger:               logger,
	}, nil
}

// passkeyUser adapts a models.User plus its stored credentials to the
// webauthn.User interface. The WebAuthn user ID is the account UUID bytes,
// so the user handle returned by discoverable credentials maps straight back
// to the account.
type passkeyUser struct {
	user        models.User
	credentials []webauthn.Credential
}

func (u *passkeyUser) WebAuthnID() []byte {
	return []byte(u.user.ID)
}

func (u *passkeyUser) WebAuthnName() string {
	if u.user.Email != nil && *u.user.Email != "" {
		return *u.user.Email
	}
	return u.user.ID
}

func (u *passkeyUser) WebAuthnDisplayName() string {
	if u.user.DisplayName != nil && *u.user.DisplayName != "" {
		return *u.user.DisplayName
	}
	if u.user.Email != nil && *u.user.Email != "" {
		return *u.user.Email
	}
	return "Athlete"
}

func (u *passkeyUser) WebAuthnIcon() string {
	return ""
}

func (u *passkeyUser) WebAuthnCredentials() []webauthn.Credential {
	return u.credentials
}

// loadPasskeyUser assembles the webauthn.User adapter from the account and
// its stored credential rows.
func (s *passkeyService) loadPasskeyUser(ctx context.Context, user models.User) (*passkeyUser, error) {
	records, err := s.credentialRepository.FindCredentialsByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	credentials := make([]webauthn.Credential, 0, len(records))
	for _, record := range records {
		credentials = append(credentials, storedCredential(record))
	}

	return &passkeyUser{user: user, credentials: credentials}, nil
}

// storedCredential rebuilds a webauthn.Credential from its persisted columns.
func storedCredential(record models.PasskeyCredential) webauthn.Credential {
	return webauthn.Credential{
		ID:        record.CredentialID,
		PublicKey: record.PublicKey,
		Authenticator: webauthn.Authenticator{
			SignCount: record.SignCount,
		},
	}
}

// ceremonySession rebuilds the WebAuthn session data that the begin step
// never stored. The challenge is the consumed row's value; user verification
// was requested as required in the options, so it is required here too.
func ceremonySession(challenge string, userID []byte) webauthn.SessionData {
	return webauthn.SessionData{
		Challenge:        challenge,
		UserID:           userID,
		UserVerification: protocol.VerificationRequired,
	}
}

// BeginRegistration implements [PasskeyService].
func (s *passkeyService) BeginRegistration(ctx context.Context, user models.User) (*protocol.CredentialCreation, error) {
	log := logger.FromContext(ctx)

	passkeyUser, err := s.loadPasskeyUser(ctx, user)
	if err != nil {
		log.Err(err).Str("func", "*passkeyService.BeginRegistration").Msg("loading user credentials failed")
		return nil, fmt.Errorf("loading user credentials failed: %w", err)
	}

	options := []webauthn.RegistrationOption{
		webauthn.WithResidentKeyRequirement(protocol.ResidentKeyRequirementRequired),
		webauthn.WithAuthenticatorSelection(protocol.AuthenticatorSelection{
			ResidentKey:      protocol.ResidentKeyRequirementRequired,
			UserVerification: protocol.VerificationRequired,
		}),
	}
	if len(passkeyUser.credentials) > 0 {
		options = append(options, webauthn.WithExclusions(webauthn.Credentials(passkeyUser.credentials).CredentialDescriptors()))
	}

	creation, session, err := s.verifiers[0].BeginRegistration(passkeyUser, options...)
	if err != nil {
		log.Err(err).Str("func", "*passkeyService.BeginRegistration").Msg("generating registration options failed")
		return nil, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	record := models.AuthChallenge{
		UserID:    &user.ID,
		Challenge: session.Challenge,
		Purpose:   models.ChallengePurposeRegister,
	}
	if err := s.challengeRepository.PersistChallenge(ctx, record, s.challengeTTL); err != nil {
		log.Err(err).Str("func", "*passkeyService.BeginRegistration").Msg("persisting challenge failed")
		return nil, fmt.Errorf("persisting challenge failed: %w", err)
	}

	return creation, nil
}

// FinishRegistration implements [PasskeyService].
func (s *passkeyService) FinishRegistration(ctx context.Context, currentUser *models.User, response []byte) (models.User, string, error) {
	log := logger.FromContext(ctx)

	parsed, err := s.parser.ParseCredentialCreationResponseBytes(response)
	if err != nil {
		log.Err(err).Str("func", "*passkeyService.FinishRegistration").Msg("parsing attestation response failed")
		return models.User{}, "", fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	// A logged-in caller may only complete a ceremony started for their
	// own account; the scope keeps them from consuming someone else's
	// pending challenge.
	var scope *string
	if currentUser != nil {
		scope = &currentUser.ID
	}

	consumed, err := s.challengeRepository.ConsumeChallenge(ctx, parsed.Response.CollectedClientData.Challenge, models.ChallengePurposeRegister, scope, s.challengeTTL)
	if err != nil {
		log.Err(err).Str("func", "*passkeyService.FinishRegistration").Msg("consuming challenge failed")
		return models.User{}, "", fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	user, err := s.registrationTarget(ctx, currentUser, consumed)
	if err != nil {
		return models.User{}, "", err
	}

	passkeyUser, err := s.loadPasskeyUser(ctx, user)
	if err != nil {
		return models.User{}, "", fmt.Errorf("loading user credentials failed: %w", err)
	}

	session := ceremonySession(consumed.Challenge, []byte(user.ID))

	var credential *webauthn.Credential
	var lastErr error
	for _, verifier := range s.verifiers {
		credential, lastErr = verifier.CreateCredential(passkeyUser, session, parsed)
		if lastErr == nil {
			break
		}
	}
	if credential == nil {
		log.Err(lastErr).Str("func", "*passkeyService.FinishRegistration").Msg("attestation verification failed for all origins")
		return models.User{}, "", fmt.Errorf("%w: %w", ErrRegistrationFailed, lastErr)
	}

	record := models.PasskeyCredential{
		UserID:       user.ID,
		CredentialID: credential.ID,
		PublicKey:    credential.PublicKey,
		SignCount:    credential.Authenticator.SignCount,
		Transports:   joinTransports(credential.Transport),
	}
	if _, err := s.credentialRepository.CreateCredential(ctx, record); err != nil {
		log.Err(err).Str("func", "*passkeyService.FinishRegistration").Msg("storing credential failed")
		return models.User{}, "", fmt.Errorf("storing credential failed: %w", err)
	}

	if err := s.userRepository.SetPasskeyUserHandle(ctx, user.ID, []byte(user.ID)); err != nil {
		return models.User{}, "", fmt.Errorf("storing user handle failed: %w", err)
	}

	// The envelope is (re)keyed by the credential-derived token so any
	// device holding this passkey can unlock it.
	token := utils.DeriveEncryptionToken(credential.ID)
	salt, wrapped, err := s.envelope.CreateUserEnvelope(token)
	if err != nil {
		return models.User{}, "", fmt.Errorf("creating envelope failed: %w", err)
	}

	updated, err := s.userRepository.UpdateUserEnvelope(ctx, user.ID, salt, wrapped)
	if err != nil {
		return models.User{}, "", fmt.Errorf("storing envelope failed: %w", err)
	}

	return updated, token, nil
}

// registrationTarget resolves which account the finished ceremony belongs
// to: the logged-in user when present, otherwise the user the challenge was
// bound to at the begin step.
func (s *passkeyService) registrationTarget(ctx context.Context, currentUser *models.User, consumed models.AuthChallenge) (models.User, error) {
	if currentUser != nil {
		return *currentUser, nil
	}
	if consumed.UserID == nil {
		return models.User{}, fmt.Errorf("%w: registration context missing user", ErrRegistrationFailed)
	}

	user, err := s.userRepository.FindUserByID(ctx, *consumed.UserID)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}
	return user, nil
}

// BeginAuthentication implements [PasskeyService].
func (s *passkeyService) BeginAuthentication(ctx context.Context, user *models.User) (*protocol.CredentialAssertion, error) {
	log := logger.FromContext(ctx)

	var (
		assertion *protocol.CredentialAssertion
		session   *webauthn.SessionData
		err       error
	)

	loginOptions := []webauthn.LoginOption{
		webauthn.WithUserVerification(protocol.VerificationRequired),
	}

	var knownUser *passkeyUser
	if user != nil {
		knownUser, err = s.loadPasskeyUser(ctx, *user)
		if err != nil {
			log.Err(err).Str("func", "*passkeyService.BeginAuthentication").Msg("loading user credentials failed")
			return nil, fmt.Errorf("loading user credentials failed: %w", err)
		}
	}

	if knownUser != nil && len(knownUser.credentials) > 0 {
		assertion, session, err = s.verifiers[0].BeginLogin(knownUser, loginOptions...)
	} else {
		// A known user without registered credentials still gets a
		// ceremony: any resident credential may answer, exactly as in the
		// usernameless case.
		assertion, session, err = s.verifiers[0].BeginDiscoverableLogin(loginOptions...)
	}
	if err != nil {
		log.Err(err).Str("func", "*passkeyService.BeginAuthentication").Msg("generating assertion options failed")
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	record := models.AuthChallenge{
		Challenge: session.Challenge,
		Purpose:   models.ChallengePurposeAuthenticate,
	}
	if user != nil {
		record.UserID = &user.ID
	}
	if err := s.challengeRepository.PersistChallenge(ctx, record, s.challengeTTL); err != nil {
		log.Err(err).Str("func", "*passkeyService.BeginAuthentication").Msg("persisting challenge failed")
		return nil, fmt.Errorf("persisting challenge failed: %w", err)
	}

	return assertion, nil
}

// FinishAuthentication implements [PasskeyService].
func (s *passkeyService) FinishAuthentication(ctx context.Context, response []byte) (models.User, string, error) {
	log := logger.FromContext(ctx)

	parsed, err := s.parser.ParseCredentialRequestResponseBytes(response)
	if err != nil {
		log.Err(err).Str("func", "*passkeyService.FinishAuthentication").Msg("parsing assertion response failed")
		return models.User{}, "", fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	if _, err := s.challengeRepository.ConsumeChallenge(ctx, parsed.Response.CollectedClientData.Challenge, models.ChallengePurposeAuthenticate, nil, s.challengeTTL); err != nil {
		log.Err(err).Str("func", "*passkeyService.FinishAuthentication").Msg("consuming challenge failed")
		return models.User{}, "", fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	// Identity comes from the credential, not the user handle: the
	// responding credential ID names exactly one account.
	record, err := s.credentialRepository.FindCredentialByCredentialID(ctx, parsed.RawID)
	if err != nil {
		log.Err(err).Str("func", "*passkeyService.FinishAuthentication").Msg("credential lookup failed")
		return models.User{}, "", fmt.Errorf("%w: %w", ErrCredentialNotRegistered, err)
	}

	user, err := s.userRepository.FindUserByID(ctx, record.UserID)
	if err != nil {
		return models.User{}, "", fmt.Errorf("%w: %w", ErrCredentialNotRegistered, err)
	}

	passkeyUser := &passkeyUser{user: user, credentials: []webauthn.Credential{storedCredential(record)}}
	session := ceremonySession(parsed.Response.CollectedClientData.Challenge, []byte(user.ID))

	var validated *webauthn.Credential
	var lastErr error
	for _, verifier := range s.verifiers {
		validated, lastErr = verifier.ValidateLogin(passkeyUser, session, parsed)
		if lastErr == nil {
			break
		}
	}
	if validated == nil {
		log.Err(lastErr).Str("func", "*passkeyService.FinishAuthentication").Msg("assertion verification failed for all origins")
		return models.User{}, "", fmt.Errorf("%w: %w", ErrAuthenticationFailed, lastErr)
	}

	// A counter regression means a second authenticator is signing with
	// the same credential. Reject the login outright.
	if validated.Authenticator.CloneWarning {
		log.Error().Str("func", "*passkeyService.FinishAuthentication").Msg("sign count regression detected")
		return models.User{}, "", ErrAuthenticationFailed
	}

	if err := s.credentialRepository.UpdateCredentialSignCount(ctx, record.ID, validated.Authenticator.SignCount); err != nil {
		return models.User{}, "", fmt.Errorf("updating sign count failed: %w", err)
	}

	return user, utils.DeriveEncryptionToken(parsed.RawID), nil
}

func joinTransports(transports []protocol.AuthenticatorTransport) string {
	if len(transports) == 0 {
		return ""
	}
	values := make([]string, 0, len(transports))
	for _, transport := range transports {
		values = append(values, string(transport))
	}
	return strings.Join(values, ",")
}
