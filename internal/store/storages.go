package store

import "github.com/paullj1/workout-tracker/internal/logger"

// Storages bundles every repository behind one constructor so the service
// layer receives a single dependency.
type Storages struct {
	UserRepository       UserRepository
	CredentialRepository CredentialRepository
	ChallengeRepository  ChallengeRepository
	WorkoutRepository    WorkoutRepository
	TemplateRepository   TemplateRepository
}

// NewStorages constructs every repository on top of the shared database
// connection.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:       NewUserRepository(db, log),
		CredentialRepository: NewCredentialRepository(db, log),
		ChallengeRepository:  NewChallengeRepository(db, log),
		WorkoutRepository:    NewWorkoutRepository(db, log),
		TemplateRepository:   NewTemplateRepository(db, log),
	}
}
