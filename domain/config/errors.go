package config

import "errors"

var (
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidFormat indicates the configuration could not be parsed.
	ErrInvalidFormat = errors.New("invalid configuration format")

	// ErrUnsupportedFormat indicates an unsupported file format.
	ErrUnsupportedFormat = errors.New("unsupported configuration format")

	// ErrValidationFailed indicates the configuration is semantically invalid.
	ErrValidationFailed = errors.New("configuration validation failed")

	// ErrMissingEnvVar indicates a referenced environment variable is unset.
	ErrMissingEnvVar = errors.New("missing environment variable")
)
