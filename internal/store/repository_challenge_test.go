package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/models"
)

func newTestChallengeRepo(t *testing.T) (*challengeRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &challengeRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func TestPersistChallenge_PurgesThenInserts(t *testing.T) {
	repo, mock, db := newTestChallengeRepo(t)
	defer db.Close()

	ctx := context.Background()
	challenge := models.AuthChallenge{
		Challenge: "abc123",
		Purpose:   models.ChallengePurposeRegister,
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM auth_challenges").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO auth_challenges").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.PersistChallenge(ctx, challenge, 5*time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPersistChallenge_InsertErrorRollsBack(t *testing.T) {
	repo, mock, db := newTestChallengeRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM auth_challenges").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO auth_challenges").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.PersistChallenge(ctx, models.AuthChallenge{Challenge: "x", Purpose: models.ChallengePurposeAuthenticate}, time.Minute)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestConsumeChallenge_DeletesInSameTransaction(t *testing.T) {
	repo, mock, db := newTestChallengeRepo(t)
	defer db.Close()

	ctx := context.Background()
	rows := sqlmock.
		NewRows([]string{"id", "user_id", "challenge", "purpose", "created_at"}).
		AddRow("ch-1", nil, "abc123", models.ChallengePurposeAuthenticate, time.Now().UTC())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM auth_challenges").
		WithArgs("abc123", models.ChallengePurposeAuthenticate).
		WillReturnRows(rows)
	mock.ExpectExec("DELETE FROM auth_challenges").
		WithArgs("ch-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	consumed, err := repo.ConsumeChallenge(ctx, "abc123", models.ChallengePurposeAuthenticate, nil, 5*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consumed.ID != "ch-1" {
		t.Errorf("expected challenge ch-1, got %s", consumed.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestConsumeChallenge_NotFound(t *testing.T) {
	repo, mock, db := newTestChallengeRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM auth_challenges").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.ConsumeChallenge(ctx, "missing", models.ChallengePurposeRegister, nil, time.Minute)
	if !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}

func TestConsumeChallenge_ExpiredStillDeleted(t *testing.T) {
	repo, mock, db := newTestChallengeRepo(t)
	defer db.Close()

	ctx := context.Background()
	stale := time.Now().UTC().Add(-time.Hour)
	rows := sqlmock.
		NewRows([]string{"id", "user_id", "challenge", "purpose", "created_at"}).
		AddRow("ch-old", nil, "old", models.ChallengePurposeRegister, stale)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM auth_challenges").
		WillReturnRows(rows)
	mock.ExpectExec("DELETE FROM auth_challenges").
		WithArgs("ch-old").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := repo.ConsumeChallenge(ctx, "old", models.ChallengePurposeRegister, nil, 5*time.Minute)
	if !errors.Is(err, ErrChallengeExpired) {
		t.Fatalf("expected ErrChallengeExpired for expired challenge, got %v", err)
	}
	// The row must be gone even though the challenge was rejected.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestConsumeChallenge_WrongPurpose(t *testing.T) {
	repo, mock, db := newTestChallengeRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM auth_challenges").
		WithArgs("abc123", models.ChallengePurposeRegister).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.ConsumeChallenge(ctx, "abc123", models.ChallengePurposeRegister, nil, time.Minute)
	if !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}

func TestConsumeChallenge_ScopedToUser(t *testing.T) {
	repo, mock, db := newTestChallengeRepo(t)
	defer db.Close()

	ctx := context.Background()
	userID := "user-1"
	rows := sqlmock.
		NewRows([]string{"id", "user_id", "challenge", "purpose", "created_at"}).
		AddRow("ch-2", userID, "abc123", models.ChallengePurposeRegister, time.Now().UTC())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM auth_challenges WHERE (.+) user_id").
		WithArgs("abc123", models.ChallengePurposeRegister, "user-1").
		WillReturnRows(rows)
	mock.ExpectExec("DELETE FROM auth_challenges").
		WithArgs("ch-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	consumed, err := repo.ConsumeChallenge(ctx, "abc123", models.ChallengePurposeRegister, &userID, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consumed.UserID == nil || *consumed.UserID != "user-1" {
		t.Errorf("expected challenge bound to user-1, got %v", consumed.UserID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestConsumeChallenge_ScopedToOtherUser(t *testing.T) {
	repo, mock, db := newTestChallengeRepo(t)
	defer db.Close()

	ctx := context.Background()
	userID := "user-2"

	// The challenge exists but belongs to another account, so the scoped
	// query matches nothing.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM auth_challenges WHERE (.+) user_id").
		WithArgs("abc123", models.ChallengePurposeRegister, "user-2").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.ConsumeChallenge(ctx, "abc123", models.ChallengePurposeRegister, &userID, time.Minute)
	if !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}
