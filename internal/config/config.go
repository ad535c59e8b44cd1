// Package config resolves runtime settings from flags, environment
// variables, and .env files via viper.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// Default values.
const (
	// DefaultDBPath is where the canonical store lives when no flag or
	// environment variable overrides it.
	DefaultDBPath = "unify.db"
)

// Environment keys.
const (
	// EnvDBPath overrides the canonical store path.
	EnvDBPath = "UNIFY_DB"
)

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// DBPath resolves the canonical store path: the db flag when set,
// otherwise the environment, otherwise the default.
func DBPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if path := GetString(EnvDBPath); path != "" {
		return path
	}
	return DefaultDBPath
}
