// Package config loads and validates the application configuration.
//
// Configuration values are collected from environment variables,
// command-line flags, and an optional JSON file, merged in that order with
// development defaults filling any remaining gaps. The merged result is
// validated before use.
package config
