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

func newTestWorkoutRepo(t *testing.T) (*workoutRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &workoutRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

var workoutColumns = []string{"id", "user_id", "encrypted_payload", "notes_search", "created_at", "updated_at"}

func TestCreateWorkout_Success(t *testing.T) {
	repo, mock, db := newTestWorkoutRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(workoutColumns).
		AddRow("w-1", "u-1", []byte("blob"), nil, now, now)

	mock.ExpectQuery("INSERT INTO workouts").
		WillReturnRows(rows)

	created, err := repo.CreateWorkout(ctx, models.Workout{UserID: "u-1", EncryptedPayload: []byte("blob")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "w-1" {
		t.Errorf("expected ID w-1, got %s", created.ID)
	}
}

func TestListWorkouts_WithSearchFilter(t *testing.T) {
	repo, mock, db := newTestWorkoutRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	notes := "leg day"
	search := "Leg"

	rows := sqlmock.NewRows(workoutColumns).
		AddRow("w-1", "u-1", []byte("blob"), &notes, now, now)

	mock.ExpectQuery("SELECT (.+) FROM workouts").
		WithArgs("u-1", "%leg%").
		WillReturnRows(rows)

	workouts, err := repo.ListWorkouts(ctx, "u-1", WorkoutFilter{Search: &search})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(workouts) != 1 {
		t.Fatalf("expected 1 workout, got %d", len(workouts))
	}
}

func TestListWorkouts_ScopedToUser(t *testing.T) {
	repo, mock, db := newTestWorkoutRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM workouts").
		WithArgs("u-2").
		WillReturnRows(sqlmock.NewRows(workoutColumns))

	workouts, err := repo.ListWorkouts(ctx, "u-2", WorkoutFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(workouts) != 0 {
		t.Errorf("expected empty list, got %d workouts", len(workouts))
	}
}

func TestFindWorkoutByID_NotFound(t *testing.T) {
	repo, mock, db := newTestWorkoutRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM workouts").
		WithArgs("w-missing", "u-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindWorkoutByID(ctx, "u-1", "w-missing")
	if !errors.Is(err, ErrWorkoutNotFound) {
		t.Fatalf("expected ErrWorkoutNotFound, got %v", err)
	}
}

func TestUpdateWorkout_NotFound(t *testing.T) {
	repo, mock, db := newTestWorkoutRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("UPDATE workouts").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateWorkout(ctx, models.Workout{ID: "w-missing", UserID: "u-1"})
	if !errors.Is(err, ErrWorkoutNotFound) {
		t.Fatalf("expected ErrWorkoutNotFound, got %v", err)
	}
}

func TestDeleteWorkout_OtherUsersRecord(t *testing.T) {
	repo, mock, db := newTestWorkoutRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("DELETE FROM workouts").
		WithArgs("w-1", "u-intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteWorkout(ctx, "u-intruder", "w-1"); !errors.Is(err, ErrWorkoutNotFound) {
		t.Fatalf("expected ErrWorkoutNotFound, got %v", err)
	}
}
