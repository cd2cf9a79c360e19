package config

import "time"

// defaultConfig returns the development defaults merged in last, so any
// value supplied through the environment, flags, or the JSON file wins.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Environment:    "dev",
			RPID:           "localhost",
			RPName:         "Workout Tracker",
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8000"},
			KDFIterations:  390_000,
			ChallengeTTL:   5 * time.Minute,
			SessionSecret:  "dev-change-me",
			SessionIssuer:  "workout-tracker",
			SessionMaxAge:  7 * 24 * time.Hour,
		},
		Storage: Storage{
			DB: DB{
				DSN: "var/workout.sqlite3",
			},
		},
		Server: Server{
			HTTPAddress:    ":8000",
			RequestTimeout: 30 * time.Second,
		},
	}
}
