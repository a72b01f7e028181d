package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/vitalens/backend/config"
	"github.com/vitalens/backend/internal/infrastructure/ciqual"
	"github.com/vitalens/backend/internal/infrastructure/gemini"
	"github.com/vitalens/backend/internal/usecase"
)

// newLogger builds the process logger from config
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if cfg.Log.Format == "json" || cfg.Server.Environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// loadRuntime loads config and builds the logger every command starts from
func loadRuntime() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, newLogger(cfg), nil
}

// newLookupService wires the CIQUAL scraper into the lookup use case
func newLookupService(cfg *config.Config, logger logrus.FieldLogger) (*usecase.LookupService, error) {
	client := ciqual.NewClient(ciqual.ClientConfig{
		UserAgent:    cfg.Ciqual.UserAgent,
		Timeout:      cfg.Ciqual.Timeout,
		MaxBodyBytes: cfg.Ciqual.MaxBodyBytes,
	}, logger)

	// Enable debug mode in development environment
	debug := cfg.Ciqual.Debug || cfg.Server.Environment == "development"
	client.SetDebug(debug)

	return usecase.NewLookupService(client, usecase.LookupServiceConfig{
		IndexURL:           cfg.Ciqual.IndexURL(),
		NutrientLabel:      cfg.Ciqual.NutrientLabel,
		EnableDebugLogging: debug,
	}, logger)
}

// newAnalysisService wires Gemini and the lookup service into the analysis pipeline.
// The returned close function releases the Gemini client.
func newAnalysisService(
	ctx context.Context,
	cfg *config.Config,
	lookup *usecase.LookupService,
	logger logrus.FieldLogger,
) (*usecase.AnalysisService, func(), error) {
	model, err := gemini.NewClient(ctx, gemini.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.Timeout,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := model.Close(); err != nil {
			logger.WithError(err).Warn("closing gemini client")
		}
	}

	identifier := usecase.NewIdentifierService(model, logger)
	return usecase.NewAnalysisService(identifier, lookup, logger), closeFn, nil
}
