// Package config provides the configuration model for the task loop.
package config

import "time"

// Config is the complete loop configuration.
type Config struct {
	// Name is a human-readable name for this configuration.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Version is the configuration schema version.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Engine configures the reasoning backend.
	Engine EngineConfig `json:"engine" yaml:"engine"`
	// Loop configures iteration budgets and conversation memory.
	Loop LoopConfig `json:"loop,omitempty" yaml:"loop,omitempty"`
	// Logging configures structured logging.
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	// Storage configures trace persistence.
	Storage StorageConfig `json:"storage,omitempty" yaml:"storage,omitempty"`
	// Telemetry configures metrics and tracing export.
	Telemetry TelemetryConfig `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
	// Resilience configures tool execution protection.
	Resilience ResilienceConfig `json:"resilience,omitempty" yaml:"resilience,omitempty"`
}

// EngineConfig configures the reasoning engine.
type EngineConfig struct {
	// Provider selects the backend (openai, gemini, scripted).
	Provider string `json:"provider" yaml:"provider"`
	// Model is the model identifier, e.g. "gpt-4o".
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
	// APIKey authenticates against the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	// BaseURL overrides the provider endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// Temperature is the sampling temperature.
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	// MaxTokens bounds the completion length.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	// TimeoutSeconds bounds one completion request.
	TimeoutSeconds int `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	// MaxRetries is the number of attempts for transient backend faults.
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
	// SystemPrompt overrides the default system prompt.
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
}

// LoopConfig configures task loop behavior.
type LoopConfig struct {
	// MaxIterations is the default iteration budget for Do.
	MaxIterations int `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`
	// AnswerIterations is the default budget for Tell and Check.
	AnswerIterations int `json:"answer_iterations,omitempty" yaml:"answer_iterations,omitempty"`
	// RecentWindow is how many recent turns stay verbatim when the
	// transcript is compacted for the engine. Zero disables compaction.
	RecentWindow int `json:"recent_window,omitempty" yaml:"recent_window,omitempty"`
	// ObserveEveryIteration refreshes the observation before each
	// reasoning call instead of only at seeding.
	ObserveEveryIteration *bool `json:"observe_every_iteration,omitempty" yaml:"observe_every_iteration,omitempty"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is the output format (json or console).
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// StorageConfig configures trace persistence.
type StorageConfig struct {
	// Backend selects the store (memory, filesystem, sqlite, postgres, redis).
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`
	// Path is the directory for the filesystem backend or the database
	// file for sqlite.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// DSN is the connection string for the postgres backend.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	// Addr is the host:port for the redis backend.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
	// Password authenticates against redis.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	// DB selects the redis database.
	DB int `json:"db,omitempty" yaml:"db,omitempty"`
	// TTL expires stored traces in redis. Zero keeps them forever.
	TTL time.Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// TelemetryConfig configures metrics and tracing.
type TelemetryConfig struct {
	// Enabled turns telemetry export on.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// ServiceName identifies the service in exported telemetry.
	ServiceName string `json:"service_name,omitempty" yaml:"service_name,omitempty"`
}

// ResilienceConfig configures tool execution protection.
type ResilienceConfig struct {
	// MaxConcurrent limits concurrent tool executions.
	MaxConcurrent int `json:"max_concurrent,omitempty" yaml:"max_concurrent,omitempty"`
	// ToolTimeoutSeconds bounds one tool execution.
	ToolTimeoutSeconds int `json:"tool_timeout_seconds,omitempty" yaml:"tool_timeout_seconds,omitempty"`
	// RetryMaxAttempts is the attempt budget for retryable tools.
	RetryMaxAttempts int `json:"retry_max_attempts,omitempty" yaml:"retry_max_attempts,omitempty"`
}

// Default returns a configuration with working defaults and a scripted
// engine, suitable as a starting point.
func Default() *Config {
	return &Config{
		Version: "1",
		Engine: EngineConfig{
			Provider: "scripted",
		},
		Loop: LoopConfig{
			MaxIterations:    20,
			AnswerIterations: 10,
			RecentWindow:     0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			Backend: "memory",
		},
	}
}
