package di

import (
	"context"
	"fmt"
	"time"

	"world-entity-demo/backend/ai"
	"world-entity-demo/backend/internal/service"
	"world-entity-demo/backend/pkg/config"
	"world-entity-demo/backend/pkg/health"
	"world-entity-demo/backend/pkg/logger"
	"world-entity-demo/backend/pkg/secrets"
)

// healthCheckPeriod is how often background health checks run
const healthCheckPeriod = 30 * time.Second

// Container holds all the dependencies for the application
type Container struct {
	Config   *config.Config
	Logger   *logger.Logger
	Prompts  config.Prompts
	Secrets  secrets.Manager
	Upstream *ai.GroqClient
	Images   *ai.ImageURLBuilder
	Relay    *service.RelayService
	Health   *health.Checker
}

// NewLogger builds the application logger from config
func NewLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Config{
		Level: cfg.Logging.Level,
		JSON:  cfg.Logging.Format != "text",
		File:  cfg.Logging.File,
	})
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if cfg == nil {
		cfg = config.Get()
	}
	if log == nil {
		log = NewLogger(cfg)
	}

	prompts, err := config.LoadPrompts(cfg.PromptsFile)
	if err != nil {
		return nil, err
	}

	secretsManager, err := secrets.NewVaultManager(log, secrets.VaultConfigFromEnv())
	if err != nil {
		return nil, fmt.Errorf("failed to create secrets manager: %w", err)
	}

	apiKey := secrets.ResolveAPIKey(ctx, secretsManager, cfg.Upstream.APIKey)
	if apiKey == "" {
		log.Warn("No upstream API key configured; relay requests will be rejected upstream")
	}

	upstream, err := ai.NewGroqClient(ai.GroqConfig{
		APIKey:  apiKey,
		BaseURL: cfg.Upstream.BaseURL,
		Model:   cfg.Upstream.Model,
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream client: %w", err)
	}

	images := ai.NewImageURLBuilder(cfg.Image.BaseURL, prompts.Image)
	relay := service.NewRelayService(upstream, images, prompts, cfg.Upstream.HistoryLimit)

	checker := health.NewChecker(log, healthCheckPeriod)
	checker.RegisterCredentialsCheck(func() string { return apiKey })

	log.Info("Container initialized",
		"model", upstream.Model(),
		"upstream", cfg.Upstream.BaseURL,
		"history_limit", cfg.Upstream.HistoryLimit,
		"vault", secretsManager.Enabled(),
	)

	return &Container{
		Config:   cfg,
		Logger:   log,
		Prompts:  prompts,
		Secrets:  secretsManager,
		Upstream: upstream,
		Images:   images,
		Relay:    relay,
		Health:   checker,
	}, nil
}
