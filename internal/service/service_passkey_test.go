package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
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

// fakeCredentialRepository is an in-memory store.CredentialRepository.
type fakeCredentialRepository struct {
	credentials map[string]models.PasskeyCredential
}

func newFakeCredentialRepository() *fakeCredentialRepository {
	return &fakeCredentialRepository{credentials: make(map[string]models.PasskeyCredential)}
}

func (f *fakeCredentialRepository) CreateCredential(_ context.Context, credential models.PasskeyCredential) (models.PasskeyCredential, error) {
	key := string(credential.CredentialID)
	if _, ok := f.credentials[key]; ok {
		return models.PasskeyCredential{}, store.ErrCredentialAlreadyExists
	}
	credential.ID = "cred-" + key
	credential.CreatedAt = time.Now().UTC()
	f.credentials[key] = credential
	return credential, nil
}

func (f *fakeCredentialRepository) FindCredentialByCredentialID(_ context.Context, credentialID []byte) (models.PasskeyCredential, error) {
	credential, ok := f.credentials[string(credentialID)]
	if !ok {
		return models.PasskeyCredential{}, store.ErrCredentialNotFound
	}
	return credential, nil
}

func (f *fakeCredentialRepository) FindCredentialsByUserID(_ context.Context, userID string) ([]models.PasskeyCredential, error) {
	var records []models.PasskeyCredential
	for _, credential := range f.credentials {
		if credential.UserID == userID {
			records = append(records, credential)
		}
	}
	return records, nil
}

func (f *fakeCredentialRepository) UpdateCredentialSignCount(_ context.Context, id string, signCount uint32) error {
	for key, credential := range f.credentials {
		if credential.ID == id {
			credential.SignCount = signCount
			f.credentials[key] = credential
			return nil
		}
	}
	return store.ErrCredentialNotFound
}

// fakeChallengeRepository is an in-memory store.ChallengeRepository with
// delete-on-consume semantics.
type fakeChallengeRepository struct {
	challenges map[string]models.AuthChallenge
}

func newFakeChallengeRepository() *fakeChallengeRepository {
	return &fakeChallengeRepository{challenges: make(map[string]models.AuthChallenge)}
}

func (f *fakeChallengeRepository) PersistChallenge(_ context.Context, challenge models.AuthChallenge, _ time.Duration) error {
	challenge.CreatedAt = time.Now().UTC()
	f.challenges[challenge.Challenge] = challenge
	return nil
}

func (f *fakeChallengeRepository) ConsumeChallenge(_ context.Context, challenge, purpose string, userID *string, _ time.Duration) (models.AuthChallenge, error) {
	record, ok := f.challenges[challenge]
	if !ok || record.Purpose != purpose {
		return models.AuthChallenge{}, store.ErrChallengeNotFound
	}
	if userID != nil && (record.UserID == nil || *record.UserID != *userID) {
		return models.AuthChallenge{}, store.ErrChallengeNotFound
	}
	delete(f.challenges, challenge)
	return record, nil
}

func (f *fakeChallengeRepository) PurgeExpiredChallenges(_ context.Context, _ time.Duration) (int64, error) {
	return 0, nil
}

// fakeCeremonyVerifier scripts the verification outcome of one origin.
type fakeCeremonyVerifier struct {
	credential *webauthn.Credential
	err        error
}

func (f *fakeCeremonyVerifier) BeginRegistration(webauthn.User, ...webauthn.RegistrationOption) (*protocol.CredentialCreation, *webauthn.SessionData, error) {
	return nil, nil, errors.New("begin registration not scripted")
}

func (f *fakeCeremonyVerifier) CreateCredential(webauthn.User, webauthn.SessionData, *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.credential, nil
}

func (f *fakeCeremonyVerifier) BeginLogin(webauthn.User, ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error) {
	return nil, nil, errors.New("begin login not scripted")
}

func (f *fakeCeremonyVerifier) BeginDiscoverableLogin(...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error) {
	return nil, nil, errors.New("begin discoverable login not scripted")
}

func (f *fakeCeremonyVerifier) ValidateLogin(webauthn.User, webauthn.SessionData, *protocol.ParsedCredentialAssertionData) (*webauthn.Credential, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.credential, nil
}

// fakeCeremonyParser hands back pre-built parsed responses.
type fakeCeremonyParser struct {
	creation  *protocol.ParsedCredentialCreationData
	assertion *protocol.ParsedCredentialAssertionData
}

func (f *fakeCeremonyParser) ParseCredentialCreationResponseBytes([]byte) (*protocol.ParsedCredentialCreationData, error) {
	if f.creation == nil {
		return nil, protocol.ErrBadRequest
	}
	return f.creation, nil
}

func (f *fakeCeremonyParser) ParseCredentialRequestResponseBytes([]byte) (*protocol.ParsedCredentialAssertionData, error) {
	if f.assertion == nil {
		return nil, protocol.ErrBadRequest
	}
	return f.assertion, nil
}

func parsedCreation(challenge string) *protocol.ParsedCredentialCreationData {
	parsed := &protocol.ParsedCredentialCreationData{}
	parsed.Response.CollectedClientData.Challenge = challenge
	return parsed
}

func parsedAssertion(challenge string, rawID []byte) *protocol.ParsedCredentialAssertionData {
	parsed := &protocol.ParsedCredentialAssertionData{}
	parsed.RawID = protocol.URLEncodedBase64(rawID)
	parsed.Response.CollectedClientData.Challenge = challenge
	return parsed
}

func testPasskeyConfig() config.App {
	return config.App{
		RPID:           "localhost",
		RPName:         "Workout Tracker",
		AllowedOrigins: []string{"http://localhost:8080", "http://localhost:3000"},
		KDFIterations:  1_000,
		ChallengeTTL:   5 * time.Minute,
	}
}

func newTestPasskeyService(t *testing.T) (PasskeyService, *store.Storages) {
	t.Helper()

	storages := &store.Storages{
		UserRepository:       newFakeUserRepository(),
		CredentialRepository: newFakeCredentialRepository(),
		ChallengeRepository:  newFakeChallengeRepository(),
	}

	svc, err := NewPasskeyService(storages, crypto.NewEnvelopeService(1_000), testPasskeyConfig(), logger.Nop())
	if err != nil {
		t.Fatalf("NewPasskeyService() error = %v", err)
	}
	return svc, storages
}

func TestNewPasskeyService_NoOrigins(t *testing.T) {
	cfg := testPasskeyConfig()
	cfg.AllowedOrigins = nil

	_, err := NewPasskeyService(&store.Storages{}, crypto.NewEnvelopeService(1_000), cfg, logger.Nop())
	if err == nil {
		t.Fatal("expected error for empty origin list")
	}
}

func TestBeginRegistration_PersistsChallenge(t *testing.T) {
	svc, storages := newTestPasskeyService(t)
	repo := storages.ChallengeRepository.(*fakeChallengeRepository)

	user, err := storages.UserRepository.CreateUser(context.Background(), models.User{IsActive: true})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	creation, err := svc.BeginRegistration(context.Background(), user)
	if err != nil {
		t.Fatalf("BeginRegistration() error = %v", err)
	}

	record, ok := repo.challenges[creation.Response.Challenge.String()]
	if !ok {
		t.Fatal("expected challenge row keyed by the issued challenge")
	}
	if record.Purpose != models.ChallengePurposeRegister {
		t.Errorf("purpose = %q, want %q", record.Purpose, models.ChallengePurposeRegister)
	}
	if record.UserID == nil || *record.UserID != user.ID {
		t.Errorf("expected challenge bound to %s, got %v", user.ID, record.UserID)
	}

	selection := creation.Response.AuthenticatorSelection
	if selection.UserVerification != protocol.VerificationRequired {
		t.Errorf("user verification = %q, want required", selection.UserVerification)
	}
	if selection.ResidentKey != protocol.ResidentKeyRequirementRequired {
		t.Errorf("resident key = %q, want required", selection.ResidentKey)
	}
}

func TestBeginRegistration_ExcludesExistingCredentials(t *testing.T) {
	svc, storages := newTestPasskeyService(t)

	user, err := storages.UserRepository.CreateUser(context.Background(), models.User{IsActive: true})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := storages.CredentialRepository.CreateCredential(context.Background(), models.PasskeyCredential{
		UserID:       user.ID,
		CredentialID: []byte("existing-credential"),
		PublicKey:    []byte("key"),
	}); err != nil {
		t.Fatalf("CreateCredential() error = %v", err)
	}

	creation, err := svc.BeginRegistration(context.Background(), user)
	if err != nil {
		t.Fatalf("BeginRegistration() error = %v", err)
	}
	if len(creation.Response.CredentialExcludeList) != 1 {
		t.Fatalf("exclude list length = %d, want 1", len(creation.Response.CredentialExcludeList))
	}
	if !bytes.Equal(creation.Response.CredentialExcludeList[0].CredentialID, []byte("existing-credential")) {
		t.Error("exclude list does not name the stored credential")
	}
}

func TestBeginAuthentication_WithUser(t *testing.T) {
	svc, storages := newTestPasskeyService(t)
	repo := storages.ChallengeRepository.(*fakeChallengeRepository)

	user, err := storages.UserRepository.CreateUser(context.Background(), models.User{IsActive: true})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := storages.CredentialRepository.CreateCredential(context.Background(), models.PasskeyCredential{
		UserID:       user.ID,
		CredentialID: []byte("cred"),
		PublicKey:    []byte("key"),
	}); err != nil {
		t.Fatalf("CreateCredential() error = %v", err)
	}

	assertion, err := svc.BeginAuthentication(context.Background(), &user)
	if err != nil {
		t.Fatalf("BeginAuthentication() error = %v", err)
	}
	if len(assertion.Response.AllowedCredentials) != 1 {
		t.Fatalf("allowed credentials length = %d, want 1", len(assertion.Response.AllowedCredentials))
	}

	record, ok := repo.challenges[assertion.Response.Challenge.String()]
	if !ok {
		t.Fatal("expected challenge row keyed by the issued challenge")
	}
	if record.Purpose != models.ChallengePurposeAuthenticate {
		t.Errorf("purpose = %q, want %q", record.Purpose, models.ChallengePurposeAuthenticate)
	}
	if record.UserID == nil || *record.UserID != user.ID {
		t.Errorf("expected challenge bound to %s, got %v", user.ID, record.UserID)
	}
}

func TestBeginAuthentication_Usernameless(t *testing.T) {
	svc, storages := newTestPasskeyService(t)
	repo := storages.ChallengeRepository.(*fakeChallengeRepository)

	assertion, err := svc.BeginAuthentication(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginAuthentication() error = %v", err)
	}
	if len(assertion.Response.AllowedCredentials) != 0 {
		t.Error("discoverable login must not constrain credentials")
	}

	record, ok := repo.challenges[assertion.Response.Challenge.String()]
	if !ok {
		t.Fatal("expected challenge row keyed by the issued challenge")
	}
	if record.UserID != nil {
		t.Errorf("expected unbound challenge, got user %v", *record.UserID)
	}
}

func TestFinishRegistration_MalformedResponse(t *testing.T) {
	svc, _ := newTestPasskeyService(t)

	_, _, err := svc.FinishRegistration(context.Background(), nil, []byte("not-json"))
	if !errors.Is(err, ErrRegistrationFailed) {
		t.Fatalf("expected ErrRegistrationFailed, got %v", err)
	}
}

func TestFinishAuthentication_MalformedResponse(t *testing.T) {
	svc, _ := newTestPasskeyService(t)

	_, _, err := svc.FinishAuthentication(context.Background(), []byte("not-json"))
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestFinishRegistration_StoresCredentialAndEnvelope(t *testing.T) {
	svc, storages := newTestPasskeyService(t)
	concrete := svc.(*passkeyService)
	challenges := storages.ChallengeRepository.(*fakeChallengeRepository)
	credentials := storages.CredentialRepository.(*fakeCredentialRepository)

	user, err := storages.UserRepository.CreateUser(context.Background(), models.User{IsActive: true})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if err := challenges.PersistChallenge(context.Background(), models.AuthChallenge{
		UserID:    &user.ID,
		Challenge: "reg-challenge-1",
		Purpose:   models.ChallengePurposeRegister,
	}, time.Minute); err != nil {
		t.Fatalf("PersistChallenge() error = %v", err)
	}

	credentialID := []byte("fresh-credential")
	concrete.parser = &fakeCeremonyParser{creation: parsedCreation("reg-challenge-1")}
	concrete.verifiers = []ceremonyVerifier{&fakeCeremonyVerifier{credential: &webauthn.Credential{
		ID:            credentialID,
		PublicKey:     []byte("public-key"),
		Transport:     []protocol.AuthenticatorTransport{protocol.Internal},
		Authenticator: webauthn.Authenticator{SignCount: 7},
	}}}

	updated, token, err := svc.FinishRegistration(context.Background(), &user, []byte(`{}`))
	if err != nil {
		t.Fatalf("FinishRegistration() error = %v", err)
	}

	if want := utils.DeriveEncryptionToken(credentialID); token != want {
		t.Errorf("token = %q, want the credential-derived value", token)
	}

	stored, ok := credentials.credentials[string(credentialID)]
	if !ok {
		t.Fatal("expected the credential to be persisted")
	}
	if stored.UserID != user.ID || stored.SignCount != 7 || stored.Transports != "internal" {
		t.Errorf("unexpected stored credential: %+v", stored)
	}

	if len(updated.EncryptionSalt) == 0 || len(updated.EncryptedDataKey) == 0 {
		t.Error("expected a populated encryption envelope")
	}
	if updated.EncryptionVersion != 1 {
		t.Errorf("envelope version = %d, want 1", updated.EncryptionVersion)
	}
	if !bytes.Equal(updated.PasskeyUserHandle, []byte(user.ID)) {
		t.Error("expected the user handle to be the account id")
	}
	if len(challenges.challenges) != 0 {
		t.Error("expected the challenge to be consumed")
	}
}

func TestFinishRegistration_OtherUsersChallenge(t *testing.T) {
	svc, storages := newTestPasskeyService(t)
	concrete := svc.(*passkeyService)
	challenges := storages.ChallengeRepository.(*fakeChallengeRepository)

	owner, err := storages.UserRepository.CreateUser(context.Background(), models.User{IsActive: true})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	intruder, err := storages.UserRepository.CreateUser(context.Background(), models.User{IsActive: true})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if err := challenges.PersistChallenge(context.Background(), models.AuthChallenge{
		UserID:    &owner.ID,
		Challenge: "owners-challenge",
		Purpose:   models.ChallengePurposeRegister,
	}, time.Minute); err != nil {
		t.Fatalf("PersistChallenge() error = %v", err)
	}

	concrete.parser = &fakeCeremonyParser{creation: parsedCreation("owners-challenge")}
	concrete.verifiers = []ceremonyVerifier{&fakeCeremonyVerifier{credential: &webauthn.Credential{ID: []byte("cred")}}}

	_, _, err = svc.FinishRegistration(context.Background(), &intruder, []byte(`{}`))
	if !errors.Is(err, ErrRegistrationFailed) {
		t.Fatalf("expected ErrRegistrationFailed, got %v", err)
	}
	if _, ok := challenges.challenges["owners-challenge"]; !ok {
		t.Error("another account's challenge must survive the attempt")
	}
}

func TestFinishAuthentication_UpdatesSignCount(t *testing.T) {
	svc, storages := newTestPasskeyService(t)
	concrete := svc.(*passkeyService)
	challenges := storages.ChallengeRepository.(*fakeChallengeRepository)
	credentials := storages.CredentialRepository.(*fakeCredentialRepository)

	user, err := storages.UserRepository.CreateUser(context.Background(), models.User{IsActive: true})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	credentialID := []byte("login-credential")
	if _, err := credentials.CreateCredential(context.Background(), models.PasskeyCredential{
		UserID:       user.ID,
		CredentialID: credentialID,
		PublicKey:    []byte("public-key"),
		SignCount:    3,
	}); err != nil {
		t.Fatalf("CreateCredential() error = %v", err)
	}
	if err := challenges.PersistChallenge(context.Background(), models.AuthChallenge{
		Challenge: "auth-challenge-1",
		Purpose:   models.ChallengePurposeAuthenticate,
	}, time.Minute); err != nil {
		t.Fatalf("PersistChallenge() error = %v", err)
	}

	concrete.parser = &fakeCeremonyParser{assertion: parsedAssertion("auth-challenge-1", credentialID)}
	concrete.verifiers = []ceremonyVerifier{&fakeCeremonyVerifier{credential: &webauthn.Credential{
		ID:            credentialID,
		Authenticator: webauthn.Authenticator{SignCount: 9},
	}}}

	authenticated, token, err := svc.FinishAuthentication(context.Background(), []byte(`{}`))
	if err != nil {
		t.Fatalf("FinishAuthentication() error = %v", err)
	}
	if authenticated.ID != user.ID {
		t.Errorf("authenticated user = %s, want %s", authenticated.ID, user.ID)
	}
	if want := utils.DeriveEncryptionToken(credentialID); token != want {
		t.Errorf("token = %q, want the credential-derived value", token)
	}
	if got := credentials.credentials[string(credentialID)].SignCount; got != 9 {
		t.Errorf("stored sign count = %d, want 9", got)
	}
	if len(challenges.challenges) != 0 {
		t.Error("expected the challenge to be consumed")
	}
}

func TestFinishAuthentication_SecondOriginValidates(t *testing.T) {
	svc, storages := newTestPasskeyService(t)
	concrete := svc.(*passkeyService)
	challenges := storages.ChallengeRepository.(*fakeChallengeRepository)
	credentials := storages.CredentialRepository.(*fakeCredentialRepository)

	user, err := storages.UserRepository.CreateUser(context.Background(), models.User{IsActive: true})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	credentialID := []byte("second-origin-credential")
	if _, err := credentials.CreateCredential(context.Background(), models.PasskeyCredential{
		UserID:       user.ID,
		CredentialID: credentialID,
		PublicKey:    []byte("public-key"),
	}); err != nil {
		t.Fatalf("CreateCredential() error = %v", err)
	}
	if err := challenges.PersistChallenge(context.Background(), models.AuthChallenge{
		Challenge: "auth-challenge-2",
		Purpose:   models.ChallengePurposeAuthenticate,
	}, time.Minute); err != nil {
		t.Fatalf("PersistChallenge() error = %v", err)
	}

	// A response minted against the second configured origin fails the
	// first verifier and must still be accepted.
	concrete.parser = &fakeCeremonyParser{assertion: parsedAssertion("auth-challenge-2", credentialID)}
	concrete.verifiers = []ceremonyVerifier{
		&fakeCeremonyVerifier{err: errors.New("origin mismatch")},
		&fakeCeremonyVerifier{credential: &webauthn.Credential{ID: credentialID}},
	}

	authenticated, _, err := svc.FinishAuthentication(context.Background(), []byte(`{}`))
	if err != nil {
		t.Fatalf("FinishAuthentication() error = %v", err)
	}
	if authenticated.ID != user.ID {
		t.Errorf("authenticated user = %s, want %s", authenticated.ID, user.ID)
	}
}

func TestFinishAuthentication_CloneWarning(t *testing.T) {
	svc, storages := newTestPasskeyService(t)
	concrete := svc.(*passkeyService)
	challenges := storages.ChallengeRepository.(*fakeChallengeRepository)
	credentials := storages.CredentialRepository.(*fakeCredentialRepository)

	user, err := storages.UserRepository.CreateUser(context.Background(), models.User{IsActive: true})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	credentialID := []byte("cloned-credential")
	if _, err := credentials.CreateCredential(context.Background(), models.PasskeyCredential{
		UserID:       user.ID,
		CredentialID: credentialID,
		PublicKey:    []byte("public-key"),
		SignCount:    10,
	}); err != nil {
		t.Fatalf("CreateCredential() error = %v", err)
	}
	if err := challenges.PersistChallenge(context.Background(), models.AuthChallenge{
		Challenge: "auth-challenge-3",
		Purpose:   models.ChallengePurposeAuthenticate,
	}, time.Minute); err != nil {
		t.Fatalf("PersistChallenge() error = %v", err)
	}

	concrete.parser = &fakeCeremonyParser{assertion: parsedAssertion("auth-challenge-3", credentialID)}
	concrete.verifiers = []ceremonyVerifier{&fakeCeremonyVerifier{credential: &webauthn.Credential{
		ID:            credentialID,
		Authenticator: webauthn.Authenticator{SignCount: 2, CloneWarning: true},
	}}}

	if _, _, err := svc.FinishAuthentication(context.Background(), []byte(`{}`)); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestBeginAuthentication_KnownUserWithoutCredentials(t *testing.T) {
	svc, storages := newTestPasskeyService(t)
	repo := storages.ChallengeRepository.(*fakeChallengeRepository)

	user, err := storages.UserRepository.CreateUser(context.Background(), models.User{IsActive: true})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	assertion, err := svc.BeginAuthentication(context.Background(), &user)
	if err != nil {
		t.Fatalf("BeginAuthentication() error = %v", err)
	}
	if len(assertion.Response.AllowedCredentials) != 0 {
		t.Error("a user without passkeys must get an unconstrained ceremony")
	}

	record, ok := repo.challenges[assertion.Response.Challenge.String()]
	if !ok {
		t.Fatal("expected challenge row keyed by the issued challenge")
	}
	if record.UserID == nil || *record.UserID != user.ID {
		t.Errorf("expected challenge bound to %s, got %v", user.ID, record.UserID)
	}
}

func TestRegistrationTarget_MissingUser(t *testing.T) {
	svc, _ := newTestPasskeyService(t)
	concrete := svc.(*passkeyService)

	_, err := concrete.registrationTarget(context.Background(), nil, models.AuthChallenge{})
	if !errors.Is(err, ErrRegistrationFailed) {
		t.Fatalf("expected ErrRegistrationFailed, got %v", err)
	}
}

func TestRegistrationTarget_ChallengeUser(t *testing.T) {
	svc, storages := newTestPasskeyService(t)
	concrete := svc.(*passkeyService)

	user, err := storages.UserRepository.CreateUser(context.Background(), models.User{IsActive: true})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	resolved, err := concrete.registrationTarget(context.Background(), nil, models.AuthChallenge{UserID: &user.ID})
	if err != nil {
		t.Fatalf("registrationTarget() error = %v", err)
	}
	if resolved.ID != user.ID {
		t.Errorf("resolved user = %s, want %s", resolved.ID, user.ID)
	}
}

func TestPasskeyUser_Methods(t *testing.T) {
	email := "jane@example.com"
	name := "Jane"
	credential := webauthn.Credential{ID: []byte("cred-1")}

	user := passkeyUser{
		user:        models.User{ID: "user-1", Email: &email, DisplayName: &name},
		credentials: []webauthn.Credential{credential},
	}
	if string(user.WebAuthnID()) != "user-1" {
		t.Errorf("WebAuthnID() = %q, want user-1", user.WebAuthnID())
	}
	if user.WebAuthnName() != email {
		t.Errorf("WebAuthnName() = %q, want %q", user.WebAuthnName(), email)
	}
	if user.WebAuthnDisplayName() != name {
		t.Errorf("WebAuthnDisplayName() = %q, want %q", user.WebAuthnDisplayName(), name)
	}
	if len(user.WebAuthnCredentials()) != 1 {
		t.Error("expected one credential")
	}

	anonymous := passkeyUser{user: models.User{ID: "user-2"}}
	if anonymous.WebAuthnName() != "user-2" {
		t.Errorf("WebAuthnName() fallback = %q, want user id", anonymous.WebAuthnName())
	}
	if anonymous.WebAuthnDisplayName() != "Athlete" {
		t.Errorf("WebAuthnDisplayName() fallback = %q, want Athlete", anonymous.WebAuthnDisplayName())
	}
}

func TestJoinTransports(t *testing.T) {
	if got := joinTransports(nil); got != "" {
		t.Errorf("joinTransports(nil) = %q, want empty", got)
	}
	transports := []protocol.AuthenticatorTransport{protocol.Internal, protocol.Hybrid}
	if got := joinTransports(transports); got != "internal,hybrid" {
		t.Errorf("joinTransports() = %q, want internal,hybrid", got)
	}
}
