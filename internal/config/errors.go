package config

import (
	"errors"
	"strings"
)

var (
	// ErrMissingConfiguration is matched by *MissingConfigurationError.
	ErrMissingConfiguration = errors.New("config: missing required configuration")

	// ErrInvalidConfiguration is returned for values that are present but unusable.
	ErrInvalidConfiguration = errors.New("config: invalid configuration")

	// ErrEnvFile is returned when an env file exists but cannot be read.
	ErrEnvFile = errors.New("config: failed to read env file")
)

// MissingConfigurationError names every required key that had no value.
type MissingConfigurationError struct {
	Keys []string
}

func (e *MissingConfigurationError) Error() string {
	return ErrMissingConfiguration.Error() + ": " + strings.Join(e.Keys, ", ")
}

func (e *MissingConfigurationError) Unwrap() error { return ErrMissingConfiguration }
