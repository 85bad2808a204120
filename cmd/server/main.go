// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	_ "github.com/tomtom215/movierec/docs" // Import generated swagger docs
	"github.com/tomtom215/movierec/internal/api"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/recommend"
	"github.com/tomtom215/movierec/internal/supervisor"
	"github.com/tomtom215/movierec/internal/supervisor/services"
	ws "github.com/tomtom215/movierec/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("artifacts", cfg.Artifacts.Root).
		Str("embedding_provider", cfg.Embedding.Provider).
		Msg("Starting MovieRec with supervisor tree")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	watchConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   supervisor.DefaultTreeConfig().FailureBackoff,
		// Must cover the HTTP server's own graceful shutdown.
		ShutdownTimeout: cfg.Server.ShutdownTimeout + supervisor.DefaultTreeConfig().ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	wsHub := ws.NewHub()

	rec, err := initRecommend(cfg, wsHub, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}
	defer func() {
		if err := rec.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing embedder")
		}
	}()

	loadInitialModel(ctx, rec.Engine)

	handler := api.NewHandler(rec.Engine, api.HandlerConfig{
		Hub:         wsHub,
		CORSOrigins: cfg.Security.CORSOrigins,
		BaseContext: ctx,
	})

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled
	mwConfig.TrainRateLimitRequests = cfg.Security.TrainRateLimitReqs

	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig))

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	tree.AddTrainingService(services.NewRetrainService(rec.Engine, services.RetrainConfig{
		OnStartup: cfg.Training.OnStartup,
		Interval:  cfg.Training.Interval,
	}, logging.Logger()))
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout, logging.Logger()))

	logging.Info().
		Str("addr", addr).
		Bool("train_on_startup", cfg.Training.OnStartup).
		Dur("train_interval", cfg.Training.Interval).
		Msg("Services added to supervisor tree")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// loadInitialModel loads existing artifacts so the API can serve before any
// retrain. Missing artifacts are expected on first start.
func loadInitialModel(ctx context.Context, engine *recommend.Engine) {
	if err := engine.Reload(ctx); err != nil {
		var loadErr *recommend.LoadError
		if errors.As(err, &loadErr) && loadErr.Reason == recommend.ReasonMissingFile {
			logging.Warn().Err(err).Msg("No trained model found; call /train or enable TRAIN_ON_STARTUP")
			return
		}
		logging.Error().Err(err).Msg("Failed to load trained model")
		return
	}
	status := engine.Status()
	logging.Info().
		Int("movies", status.MovieCount).
		Int("dimension", status.Dimension).
		Msg("Trained model loaded")
}

// watchConfig applies log level changes from the config file without a
// restart. Other settings need a restart.
func watchConfig() {
	path := config.FindConfigFile()
	if path == "" {
		return
	}

	err := config.WatchConfigFile(path, func() {
		lc, err := config.ReloadLogging(path)
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		logging.SetLevel(lc.Level)
		logging.Info().Str("level", lc.Level).Msg("Log level reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watching disabled")
	}
}
