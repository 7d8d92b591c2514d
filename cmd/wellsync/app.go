// ABOUTME: Assembles the store, cache, model, and insight engine from config.
// ABOUTME: Shared by every command that touches wellness data.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/harperreed/wellsync/internal/cache"
	"github.com/harperreed/wellsync/internal/config"
	"github.com/harperreed/wellsync/internal/correlation"
	"github.com/harperreed/wellsync/internal/insights"
	"github.com/harperreed/wellsync/internal/logging"
	"github.com/harperreed/wellsync/internal/readiness"
	"github.com/harperreed/wellsync/internal/storage"
	"github.com/harperreed/wellsync/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

type app struct {
	cfg      *config.Config
	userID   string
	repo     storage.Repository
	cache    cache.Cache
	svc      *insights.Service
	logger   zerolog.Logger
	metrics  *telemetry.Metrics
	registry *prometheus.Registry
}

// newApp opens every dependency described by cfg. Close releases them.
func newApp(cfg *config.Config, userID string) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.GetLogLevel(), cfg.GetLogFormat())
	if err != nil {
		return nil, err
	}
	if userID == "" {
		userID = cfg.GetUserID()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(registry)

	a := &app{
		cfg:      cfg,
		userID:   userID,
		logger:   logger,
		metrics:  metrics,
		registry: registry,
	}

	a.repo, err = cfg.OpenStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a.cache, err = cfg.OpenCache(logger)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	a.svc, err = a.buildService()
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	logger.Debug().
		Str("data_dir", cfg.GetDataDir()).
		Str("cache", cfg.GetCacheBackend()).
		Str("model", cfg.GetModelBackend()).
		Str("user", userID).
		Msg("wellsync ready")

	return a, nil
}

func (a *app) buildService() (*insights.Service, error) {
	scorer, err := readiness.NewScorer(a.cfg.GetWeights())
	if err != nil {
		return nil, err
	}

	opts := []readiness.RecommenderOption{
		readiness.WithLogger(a.logger),
		readiness.WithMetrics(a.metrics),
	}
	predictor, err := a.cfg.OpenModel()
	if err != nil {
		return nil, fmt.Errorf("failed to configure model: %w", err)
	}
	if predictor != nil {
		opts = append(opts, readiness.WithModel(predictor, a.cfg.GetModelTimeout()))
	}
	rec, err := readiness.NewRecommender(a.cfg.GetThresholds(), opts...)
	if err != nil {
		return nil, err
	}

	analyzer, err := correlation.NewAnalyzer(a.cfg.GetPairs(), a.cfg.GetMinSamples())
	if err != nil {
		return nil, err
	}

	engine, err := insights.New(insights.Options{
		Store:       a.repo,
		Scorer:      scorer,
		Recommender: rec,
		Analyzer:    analyzer,
		Cache:       a.cache,
		WindowDays:  a.cfg.GetWindowDays(),
		Logger:      a.logger,
		Metrics:     a.metrics,
	})
	if err != nil {
		return nil, err
	}
	return insights.NewService(engine, a.repo), nil
}

// Close releases the cache and the store.
func (a *app) Close() error {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.repo != nil {
		errs = append(errs, a.repo.Close())
	}
	return errors.Join(errs...)
}
