package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/agentloop/application"
	domaincfg "github.com/felixgeelhaar/agentloop/domain/config"
	"github.com/felixgeelhaar/agentloop/domain/trace"
	"github.com/felixgeelhaar/agentloop/infrastructure/config"
	"github.com/felixgeelhaar/agentloop/infrastructure/engine"
	"github.com/felixgeelhaar/agentloop/infrastructure/logging"
	"github.com/felixgeelhaar/agentloop/infrastructure/resilience"
	"github.com/felixgeelhaar/agentloop/infrastructure/storage/filesystem"
	"github.com/felixgeelhaar/agentloop/infrastructure/storage/memory"
	"github.com/felixgeelhaar/agentloop/infrastructure/storage/postgres"
	"github.com/felixgeelhaar/agentloop/infrastructure/storage/redis"
	"github.com/felixgeelhaar/agentloop/infrastructure/storage/sqlite"
	"github.com/felixgeelhaar/agentloop/infrastructure/telemetry"
)

// runtime bundles everything a command needs for one invocation.
type runtime struct {
	agent    *application.Agent
	traces   trace.Store
	shutdown func(context.Context)
}

// loadConfig reads and validates the configuration file, falling back to
// defaults when no path is given.
func loadConfig(path string) (*domaincfg.Config, error) {
	if path == "" {
		return domaincfg.Default(), nil
	}
	loader := config.NewLoader()
	cfg, err := loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// buildRuntime wires an agent from configuration.
func (a *App) buildRuntime(cfg *domaincfg.Config) (*runtime, error) {
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: a.stderr,
	})

	eng, err := buildEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := buildTraceStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	var metrics telemetry.Metrics = &telemetry.NoopMetricsProvider{}
	var provider *telemetry.Provider
	if cfg.Telemetry.Enabled {
		tcfg := telemetry.DefaultConfig()
		tcfg.Enabled = true
		tcfg.ServiceVersion = Version
		if cfg.Telemetry.ServiceName != "" {
			tcfg.ServiceName = cfg.Telemetry.ServiceName
		}
		tcfg.Output = a.stderr
		provider, err = telemetry.New(tcfg)
		if err != nil {
			closeStore()
			return nil, fmt.Errorf("set up telemetry: %w", err)
		}
		mp := telemetry.NewMetricsProvider(telemetry.DefaultMetricsConfig())
		if mp.Error() != nil {
			closeStore()
			return nil, fmt.Errorf("set up metrics: %w", mp.Error())
		}
		metrics = mp
	}

	agent, err := application.New(application.Config{
		Engine:                eng,
		Executor:              buildExecutor(cfg.Resilience),
		Metrics:               metrics,
		Traces:                store,
		MaxIterations:         cfg.Loop.MaxIterations,
		AnswerIterations:      cfg.Loop.AnswerIterations,
		RecentWindow:          cfg.Loop.RecentWindow,
		SystemPrompt:          cfg.Engine.SystemPrompt,
		ObserveEveryIteration: cfg.Loop.ObserveEveryIteration,
		EngineRetries:         buildEngineRetries(cfg.Engine),
	})
	if err != nil {
		closeStore()
		return nil, err
	}

	return &runtime{
		agent:  agent,
		traces: store,
		shutdown: func(ctx context.Context) {
			if provider != nil {
				_ = provider.Shutdown(ctx)
			}
			closeStore()
		},
	}, nil
}

// buildEngine constructs the reasoning engine for the configured
// provider.
func buildEngine(cfg domaincfg.EngineConfig) (engine.Engine, error) {
	switch cfg.Provider {
	case "openai":
		return engine.NewLLMEngine(engine.LLMConfig{
			Provider: engine.NewOpenAIProvider(engine.OpenAIConfig{
				APIKey:  cfg.APIKey,
				BaseURL: cfg.BaseURL,
				Model:   cfg.Model,
				Timeout: cfg.TimeoutSeconds,
			}),
			Model:        cfg.Model,
			Temperature:  cfg.Temperature,
			MaxTokens:    cfg.MaxTokens,
			SystemPrompt: cfg.SystemPrompt,
		}), nil
	case "gemini":
		return engine.NewLLMEngine(engine.LLMConfig{
			Provider: engine.NewGeminiProvider(engine.GeminiConfig{
				APIKey:  cfg.APIKey,
				BaseURL: cfg.BaseURL,
				Model:   cfg.Model,
				Timeout: cfg.TimeoutSeconds,
			}),
			Model:        cfg.Model,
			Temperature:  cfg.Temperature,
			MaxTokens:    cfg.MaxTokens,
			SystemPrompt: cfg.SystemPrompt,
		}), nil
	case "scripted", "":
		return engine.NewScriptedEngine(), nil
	default:
		return nil, fmt.Errorf("%w: unknown engine provider %q", domaincfg.ErrValidationFailed, cfg.Provider)
	}
}

// buildTraceStore constructs the configured trace store. The returned
// closer is a no-op for stores without connections.
func buildTraceStore(cfg domaincfg.StorageConfig) (trace.Store, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case "memory", "":
		return memory.NewTraceStore(), noop, nil
	case "filesystem":
		store, err := filesystem.NewTraceStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	case "sqlite":
		store, err := sqlite.NewTraceStore(sqlite.Config{
			DSN:         cfg.Path,
			AutoMigrate: true,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := postgres.Connect(ctx, cfg.DSN, "")
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case "redis":
		rcfg := redis.DefaultConfig()
		if cfg.Addr != "" {
			rcfg.Address = cfg.Addr
		}
		rcfg.Password = cfg.Password
		rcfg.DB = cfg.DB
		rcfg.TTL = cfg.TTL
		store, err := redis.NewTraceStore(rcfg)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown storage backend %q", domaincfg.ErrValidationFailed, cfg.Backend)
	}
}

// buildExecutor constructs the tool executor, overriding defaults with
// configured values.
func buildExecutor(cfg domaincfg.ResilienceConfig) *resilience.Executor {
	ecfg := resilience.DefaultExecutorConfig()
	if cfg.MaxConcurrent > 0 {
		ecfg.MaxConcurrent = cfg.MaxConcurrent
	}
	if cfg.ToolTimeoutSeconds > 0 {
		ecfg.DefaultTimeout = time.Duration(cfg.ToolTimeoutSeconds) * time.Second
	}
	if cfg.RetryMaxAttempts > 0 {
		ecfg.RetryMaxAttempts = cfg.RetryMaxAttempts
	}
	return resilience.NewExecutor(ecfg)
}

// buildEngineRetries maps the engine retry budget onto the loop's retry
// policy. Nil keeps the default policy.
func buildEngineRetries(cfg domaincfg.EngineConfig) *resilience.RetryEngineConfig {
	if cfg.MaxRetries <= 0 {
		return nil
	}
	rcfg := resilience.DefaultRetryEngineConfig()
	rcfg.MaxAttempts = cfg.MaxRetries
	return &rcfg
}
