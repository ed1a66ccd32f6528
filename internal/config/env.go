package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables consulted by HostFromEnv.
const (
	EnvSSHAddr     = "SNAKE_SSH_ADDR"
	EnvWebAddr     = "SNAKE_WEB_ADDR"
	EnvDBPath      = "SNAKE_DB"
	EnvLogLevel    = "SNAKE_LOG_LEVEL"
	EnvIdleTimeout = "SNAKE_IDLE_TIMEOUT"
)

// HostSettings holds the listener, storage and logging settings shared by
// the host commands. CLI flags use these as their defaults.
type HostSettings struct {
	SSHAddr     string
	WebAddr     string
	DBPath      string
	LogLevel    string
	IdleTimeout time.Duration
}

// DefaultHostSettings returns the settings used when nothing is configured.
func DefaultHostSettings() HostSettings {
	return HostSettings{
		SSHAddr:     ":23234",
		WebAddr:     ":8080",
		DBPath:      "~/.snake/runs.db",
		LogLevel:    "info",
		IdleTimeout: 30 * time.Minute,
	}
}

// LoadEnv reads the given dotenv files (".env" when none are given) into the
// process environment. Missing files are not an error and variables already
// set win over file values.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load env: %w", err)
	}
	return nil
}

// HostFromEnv returns DefaultHostSettings overridden by SNAKE_* variables.
func HostFromEnv() (HostSettings, error) {
	h := DefaultHostSettings()
	if v := os.Getenv(EnvSSHAddr); v != "" {
		h.SSHAddr = v
	}
	if v := os.Getenv(EnvWebAddr); v != "" {
		h.WebAddr = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		h.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		h.LogLevel = v
	}
	if v := os.Getenv(EnvIdleTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return h, fmt.Errorf("%w: %s=%q", ErrInvalid, EnvIdleTimeout, v)
		}
		h.IdleTimeout = d
	}
	return h, nil
}
