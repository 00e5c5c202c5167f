// Package config resolves the database connection descriptor from the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vvka-141/retailload/pkg/retailload"
)

// Environment variables forming the connection contract. All five are required.
const (
	EnvHost     = "DB_HOST"
	EnvUser     = "DB_USER"
	EnvPassword = "DB_PASSWORD"
	EnvPort     = "DB_PORT"
	EnvName     = "DB_NAME"
)

// DefaultEnvFile is loaded best-effort when no env file is given explicitly.
const DefaultEnvFile = ".env"

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadEnvFiles loads .env files into the process environment.
// Variables already present in the environment are never overridden.
// With no paths, DefaultEnvFile is loaded if it exists.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %v: %w", DefaultEnvFile, err, retailload.ErrInvalidConfig)
		}
		return nil
	}

	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("failed to load env file: %v: %w", err, retailload.ErrInvalidConfig)
	}
	return nil
}

// FromEnvironment builds the connection descriptor from the DB_* variables.
// Every variable must be present; host, user and database name must also be
// non-empty, and DB_PORT must be an integer in 1..65535.
// The error lists every missing variable at once.
func FromEnvironment(lookup LookupFunc) (*retailload.ConnectionConfig, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var missing []string
	get := func(key string, allowEmpty bool) string {
		v, ok := lookup(key)
		if !ok || (!allowEmpty && strings.TrimSpace(v) == "") {
			missing = append(missing, key)
		}
		return v
	}

	host := get(EnvHost, false)
	user := get(EnvUser, false)
	password := get(EnvPassword, true)
	rawPort := get(EnvPort, false)
	database := get(EnvName, false)

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s: %w",
			strings.Join(missing, ", "), retailload.ErrInvalidConfig)
	}

	port, err := ParsePort(rawPort)
	if err != nil {
		return nil, err
	}

	return &retailload.ConnectionConfig{
		Host:     strings.TrimSpace(host),
		Port:     port,
		Username: user,
		Password: password,
		Database: database,
		AppName:  retailload.DefaultAppName,
	}, nil
}

// ParsePort parses a DB_PORT value.
func ParsePort(raw string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q: %w", EnvPort, raw, retailload.ErrInvalidConfig)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("%s out of range (1-65535): %d: %w", EnvPort, port, retailload.ErrInvalidConfig)
	}
	return port, nil
}
