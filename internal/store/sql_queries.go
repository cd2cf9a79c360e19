package store

// Column lists are spelled out in every statement so Scan destinations stay
// aligned with the schema by inspection.
const (
	createUser = `INSERT INTO users (id, email, display_name, encryption_salt, encrypted_data_key, encryption_version, passkey_user_handle, is_active, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    RETURNING id, email, display_name, encryption_salt, encrypted_data_key, encryption_version, passkey_user_handle, is_active, created_at, updated_at;`

	findUserByID = `SELECT id, email, display_name, encryption_salt, encrypted_data_key, encryption_version, passkey_user_handle, is_active, created_at, updated_at
    FROM users
    WHERE id = $1;`

	findUserByEmail = `SELECT id, email, display_name, encryption_salt, encrypted_data_key, encryption_version, passkey_user_handle, is_active, created_at, updated_at
    FROM users
    WHERE email = $1;`

	updateUserEnvelope = `UPDATE users
    SET encryption_salt = $1, encrypted_data_key = $2, encryption_version = encryption_version + 1, updated_at = $3
    WHERE id = $4
    RETURNING id, email, display_name, encryption_salt, encrypted_data_key, encryption_version, passkey_user_handle, is_active, created_at, updated_at;`

	setPasskeyUserHandle = `UPDATE users
    SET passkey_user_handle = $1, updated_at = $2
    WHERE id = $3;`

	deleteUser = `DELETE FROM users
    WHERE id = $1;`

	createCredential = `INSERT INTO passkey_credentials (id, user_id, credential_id, public_key, sign_count, transports, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING id, user_id, credential_id, public_key, sign_count, transports, created_at, last_used_at;`

	findCredentialByCredentialID = `SELECT id, user_id, credential_id, public_key, sign_count, transports, created_at, last_used_at
    FROM passkey_credentials
    WHERE credential_id = $1;`

	findCredentialsByUserID = `SELECT id, user_id, credential_id, public_key, sign_count, transports, created_at, last_used_at
    FROM passkey_credentials
    WHERE user_id = $1
    ORDER BY created_at;`

	updateCredentialSignCount = `UPDATE passkey_credentials
    SET sign_count = $1, last_used_at = $2
    WHERE id = $3;`

	insertChallenge = `INSERT INTO auth_challenges (id, user_id, challenge, purpose, created_at)
    VALUES ($1, $2, $3, $4, $5);`

	purgeExpiredChallenges = `DELETE FROM auth_challenges
    WHERE created_at < $1;`

	selectChallenge = `SELECT id, user_id, challenge, purpose, created_at
    FROM auth_challenges
    WHERE challenge = $1 AND purpose = $2;`

	selectChallengeForUser = `SELECT id, user_id, challenge, purpose, created_at
    FROM auth_challenges
    WHERE challenge = $1 AND purpose = $2 AND user_id = $3;`

	deleteChallengeByID = `DELETE FROM auth_challenges
    WHERE id = $1;`

	createWorkout = `INSERT INTO workouts (id, user_id, encrypted_payload, notes_search, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id, user_id, encrypted_payload, notes_search, created_at, updated_at;`

	findWorkoutByID = `SELECT id, user_id, encrypted_payload, notes_search, created_at, updated_at
    FROM workouts
    WHERE id = $1 AND user_id = $2;`

	deleteWorkout = `DELETE FROM workouts
    WHERE id = $1 AND user_id = $2;`

	createTemplate = `INSERT INTO workout_templates (id, user_id, encrypted_payload, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, user_id, encrypted_payload, created_at, updated_at;`

	findTemplateByID = `SELECT id, user_id, encrypted_payload, created_at, updated_at
    FROM workout_templates
    WHERE id = $1 AND user_id = $2;`

	listTemplatesByUserID = `SELECT id, user_id, encrypted_payload, created_at, updated_at
    FROM workout_templates
    WHERE user_id = $1
    ORDER BY created_at;`

	updateTemplate = `UPDATE workout_templates
    SET encrypted_payload = $1, updated_at = $2
    WHERE id = $3 AND user_id = $4
    RETURNING id, user_id, encrypted_payload, created_at, updated_at;`

	deleteTemplate = `DELETE FROM workout_templates
    WHERE id = $1 AND user_id = $2;`
)
