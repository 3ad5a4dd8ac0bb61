// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ik5/audshout/internal/analyze"
	"github.com/ik5/audshout/internal/config"
	"github.com/ik5/audshout/internal/fetch"
	"github.com/ik5/audshout/internal/observe"
	"github.com/ik5/audshout/internal/server"
	"github.com/ik5/audshout/shout"
)

// ServeCmd runs the HTTP API.
type ServeCmd struct {
	Config string `short:"c" type:"path" help:"Path to the YAML config file. Built-in defaults are used when empty."`
	Listen string `help:"Override the listen address from the config."`
}

// load reads the configuration and applies environment overrides.
func (c *ServeCmd) load() (*config.Config, error) {
	cfg := config.Default()
	if c.Config != "" {
		var err error
		if cfg, err = config.Load(c.Config); err != nil {
			return nil, err
		}
	}

	config.ApplyEnv(cfg, os.Getenv)
	if c.Listen != "" {
		cfg.Server.ListenAddr = c.Listen
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *ServeCmd) Run(e *env) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	logger := observe.NewLogger(e.stderr, cfg.Server.LogLevel.Level(), cfg.Server.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: version})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			slog.Warn("telemetry shutdown error", "error", err)
		}
	}()

	metrics := observe.DefaultMetrics()

	det, err := shout.New(cfg.Detector, shout.WithLogger(logger))
	if err != nil {
		return err
	}

	router := fetch.Router{
		HTTP: fetch.NewHTTPFetcher(cfg.Fetch.Timeout, cfg.Fetch.MaxBytes, cfg.Fetch.UserAgent),
	}
	if cfg.S3.IsConfigured() {
		router.S3 = fetch.NewS3Fetcher(fetch.NewS3Client(cfg.S3), cfg.S3.Bucket, cfg.Fetch.MaxBytes)
	}

	svc := analyze.New(router, det,
		analyze.WithMetrics(metrics),
		analyze.WithTimeout(cfg.Server.AnalyzeTimeout),
	)

	slog.Info("audshout starting",
		"version", version,
		"listen_addr", cfg.Server.ListenAddr,
		"policy", cfg.Detector.Policy,
		"threshold_dbfs", cfg.Detector.ThresholdDBFS,
		"s3", cfg.S3.IsConfigured(),
	)

	srv := server.New(server.Config{
		ListenAddr:      cfg.Server.ListenAddr,
		MaxUploadBytes:  cfg.Server.MaxUploadBytes,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, svc, metrics)

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	slog.Info("shutdown complete")
	return nil
}
