package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DukeRupert/kyrisk/internal"
	"github.com/DukeRupert/kyrisk/internal/ai"
	"github.com/DukeRupert/kyrisk/internal/ai/anthropic"
	"github.com/DukeRupert/kyrisk/internal/ai/mock"
	"github.com/DukeRupert/kyrisk/internal/handler"
	"github.com/DukeRupert/kyrisk/internal/metrics"
	"github.com/DukeRupert/kyrisk/internal/middleware"
	"github.com/DukeRupert/kyrisk/internal/photo"
	"github.com/DukeRupert/kyrisk/internal/ruleset"
	"github.com/DukeRupert/kyrisk/internal/service"
)

func run() error {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Load ruleset
	rules, err := ruleset.NewStore(cfg.RulesetPath, logger)
	if err != nil {
		return fmt.Errorf("ruleset load failed: %w", err)
	}
	snap := rules.Current()
	logger.Info("Ruleset ready", "version", snap.Ruleset.Version, "hash", snap.Hash)

	if cfg.RulesetPath != "" && cfg.RulesetWatch {
		watcher, err := ruleset.NewWatcher(rules, logger)
		if err != nil {
			return fmt.Errorf("ruleset watcher failed: %w", err)
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("Ruleset watcher stopped", "error", err)
			}
		}()
	}

	// Initialize collaborators
	generator, err := newGenerator(cfg, logger)
	if err != nil {
		return err
	}
	scorer, err := newPhotoScorer(cfg, logger)
	if err != nil {
		return err
	}

	// Initialize services
	riskService := service.NewRiskService(rules, scorer, logger)
	kyService := service.NewKYService(rules, generator, logger)

	// Initialize middleware
	isSecure := cfg.Env != "development"
	generateLimiter := middleware.NewRateLimiter(cfg.RateLimitGenerate, cfg.RateLimitWindow, logger)
	defer generateLimiter.Close()
	rateLimitMw := middleware.NewRateLimitMiddleware(generateLimiter, logger)
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	if !metricsAuth.Enabled() {
		logger.Warn("Metrics endpoint is unprotected; set METRICS_USERNAME and METRICS_PASSWORD")
	}

	// Initialize handlers
	riskHandler := handler.NewRiskHandler(riskService, logger)
	kyHandler := handler.NewKYHandler(kyService, logger)
	rulesetHandler := handler.NewRulesetHandler(rules, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	riskHandler.RegisterRoutes(mux)
	kyHandler.RegisterRoutes(mux, rateLimitMw.Limit)
	rulesetHandler.RegisterRoutes(mux)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handler.NotFoundResponse(w, r, logger)
	})

	stack := middleware.Stack(
		middleware.RequestID,
		middleware.NewRequestLoggingMiddleware(logger).Handler,
		middleware.NewSecurityHeadersMiddleware(isSecure).Handler,
		metrics.Middleware,
	)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           stack(mux),
		ReadHeaderTimeout: 10 * time.Second,
		// Generation waits on the AI provider, including its retries.
		WriteTimeout: cfg.AIRequestTimeout*time.Duration(cfg.AIMaxRetries+1) + 10*time.Second,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal
	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, initiating graceful shutdown...")
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	}
	stop()

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func newGenerator(cfg *internal.Config, logger *slog.Logger) (ai.Generator, error) {
	if cfg.AIProvider != "anthropic" {
		logger.Info("Using mock AI provider")
		return mock.New(logger), nil
	}
	p, err := anthropic.New(anthropic.Config{
		APIKey: cfg.AnthropicAPIKey,
		Model:  cfg.AnthropicModel,
		ProviderConfig: ai.ProviderConfig{
			MaxRetries:     cfg.AIMaxRetries,
			RetryBaseDelay: cfg.AIRetryBaseDelay,
			RequestTimeout: cfg.AIRequestTimeout,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("AI provider initialization failed: %w", err)
	}
	logger.Info("Using Anthropic AI provider", "model", cfg.AnthropicModel)
	return p, nil
}

// newPhotoScorer returns nil when photo scoring is disabled.
func newPhotoScorer(cfg *internal.Config, logger *slog.Logger) (service.PhotoScorer, error) {
	var (
		src photo.Source
		err error
	)
	switch cfg.PhotoProvider {
	case photo.ProviderLocal:
		src, err = photo.NewLocalSource(photo.LocalConfig{BasePath: cfg.PhotoLocalPath}, logger)
	case photo.ProviderR2:
		src, err = photo.NewR2Source(photo.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
		}, logger)
	default:
		logger.Info("Photo scoring disabled")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("photo source initialization failed: %w", err)
	}
	logger.Info("Photo scoring enabled", "provider", cfg.PhotoProvider)
	return photo.NewScorer(src, logger), nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
