package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an attempt to create or update a
	// user fails because another account already claimed the same email.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNoUserWasFound is returned when a query expected to match exactly one
	// user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrCredentialAlreadyExists is returned when registering a WebAuthn
	// credential whose credential ID is already present in the database.
	ErrCredentialAlreadyExists = errors.New("credential already exists")

	// ErrCredentialNotFound is returned when no registered credential matches
	// the requested credential ID.
	ErrCredentialNotFound = errors.New("credential was not found")

	// ErrChallengeNotFound is returned when a ceremony challenge is absent
	// or already consumed. The two cases are deliberately indistinguishable
	// to the caller.
	ErrChallengeNotFound = errors.New("challenge was not found")

	// ErrChallengeExpired is returned when a challenge outlived its TTL
	// before being consumed. The row is deleted either way.
	ErrChallengeExpired = errors.New("challenge has expired")

	// ErrWorkoutNotFound is returned when a workout lookup or update targets a
	// record that does not exist or belongs to another user.
	ErrWorkoutNotFound = errors.New("workout was not found")

	// ErrTemplateNotFound is returned when a template lookup or update targets
	// a record that does not exist or belongs to another user.
	ErrTemplateNotFound = errors.New("workout template was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
