package config

import (
	"fmt"
	"strings"
)

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects all validation failures.
type ValidationErrors []ValidationError

// HasErrors reports whether any validation failed.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

var validProviders = map[string]bool{
	"openai":   true,
	"gemini":   true,
	"scripted": true,
}

var validBackends = map[string]bool{
	"":           true, // defaults to memory
	"memory":     true,
	"filesystem": true,
	"sqlite":     true,
	"postgres":   true,
	"redis":      true,
}

// Validator validates a configuration.
type Validator struct{}

// NewValidator creates a configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the configuration for semantic errors.
func (v *Validator) Validate(cfg *Config) ValidationErrors {
	var errs ValidationErrors

	if cfg.Engine.Provider == "" {
		errs = append(errs, ValidationError{"engine.provider", "is required"})
	} else if !validProviders[cfg.Engine.Provider] {
		errs = append(errs, ValidationError{"engine.provider", fmt.Sprintf("unknown provider %q", cfg.Engine.Provider)})
	}

	switch cfg.Engine.Provider {
	case "openai", "gemini":
		if cfg.Engine.Model == "" {
			errs = append(errs, ValidationError{"engine.model", "is required for " + cfg.Engine.Provider})
		}
		if cfg.Engine.APIKey == "" {
			errs = append(errs, ValidationError{"engine.api_key", "is required for " + cfg.Engine.Provider})
		}
	}

	if cfg.Loop.MaxIterations < 0 {
		errs = append(errs, ValidationError{"loop.max_iterations", "must not be negative"})
	}
	if cfg.Loop.AnswerIterations < 0 {
		errs = append(errs, ValidationError{"loop.answer_iterations", "must not be negative"})
	}
	if cfg.Loop.RecentWindow < 0 {
		errs = append(errs, ValidationError{"loop.recent_window", "must not be negative"})
	}

	if !validBackends[cfg.Storage.Backend] {
		errs = append(errs, ValidationError{"storage.backend", fmt.Sprintf("unknown backend %q", cfg.Storage.Backend)})
	}
	switch cfg.Storage.Backend {
	case "filesystem", "sqlite":
		if cfg.Storage.Path == "" {
			errs = append(errs, ValidationError{"storage.path", "is required for " + cfg.Storage.Backend})
		}
	case "postgres":
		if cfg.Storage.DSN == "" {
			errs = append(errs, ValidationError{"storage.dsn", "is required for postgres"})
		}
	case "redis":
		if cfg.Storage.Addr == "" {
			errs = append(errs, ValidationError{"storage.addr", "is required for redis"})
		}
	}

	return errs
}
