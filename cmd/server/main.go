package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"world-entity-demo/backend/pkg/config"
	"world-entity-demo/backend/pkg/di"
	"world-entity-demo/backend/pkg/logger"
	"world-entity-demo/backend/pkg/observability"
	"world-entity-demo/backend/pkg/router"
)

func main() {
	// Loads .env if present
	cfg := config.New()

	log := di.NewLogger(cfg)
	logger.SetGlobal(log)

	log.Info("Starting application",
		"version", cfg.Server.Version,
		"env", cfg.Server.Env,
	)

	telemetry, err := observability.Setup(observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Server.Version,
		MetricsEnabled: cfg.Observability.MetricsEnabled,
		TracingEnabled: cfg.Observability.TracingEnabled,
	})
	if err != nil {
		log.LogError(err, "Failed to initialize observability")
		os.Exit(1)
	}

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	container, err := di.New(ctx, cfg, log)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}
	container.Health.Start(ctx)

	r := router.New(container, telemetry.MetricsHandler())
	r.SetupRoutes()
	defer r.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		log.LogError(err, "Failed to flush telemetry")
	}

	log.Info("Server exited gracefully")
}
