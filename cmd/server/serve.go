package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	httpDelivery "github.com/vitalens/backend/internal/delivery/http"
	"github.com/vitalens/backend/internal/domain"
	"github.com/vitalens/backend/internal/infrastructure/limiter"
)

const (
	limiterIdleTTL  = 10 * time.Minute
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"ciqual":      cfg.Ciqual.IndexURL(),
		"model":       cfg.Gemini.Model,
	}).Info("Starting VitaLens Backend v1.0.0")

	// Initialize usecase layer
	lookupService, err := newLookupService(cfg, logger)
	if err != nil {
		return err
	}

	var analysis httpDelivery.Analyser
	analysisService, closeModel, err := newAnalysisService(ctx, cfg, lookupService, logger)
	switch {
	case errors.Is(err, domain.ErrMissingAPIKey):
		logger.Warn("Gemini API key NOT CONFIGURED - /api/analyse will answer 503")
	case err != nil:
		return err
	default:
		defer closeModel()
		analysis = analysisService
	}

	var rateLimiter httpDelivery.RateLimiter
	if cfg.RateLimit.PerIP > 0 {
		store := limiter.NewStore(cfg.RateLimit.PerIP, cfg.RateLimit.Burst, limiterIdleTTL)
		defer store.Close()
		rateLimiter = store
		logger.Infof("Rate limit: %d req/min per IP (burst %d)", cfg.RateLimit.PerIP, cfg.RateLimit.Burst)
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(analysis, lookupService, logger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, logger, rateLimiter)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
