// SPDX-License-Identifier: EPL-2.0

// Package server exposes shout detection over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ik5/audshout/internal/observe"
	"github.com/ik5/audshout/shout"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "audshout"

// Analyzer runs shout detection. *analyze.Service implements it.
type Analyzer interface {
	Ready() bool
	DetectFromURL(ctx context.Context, location string) (shout.Result, error)
	DetectBytes(ctx context.Context, data []byte, format string) (shout.Result, error)
}

// Config holds the HTTP server settings.
type Config struct {
	ListenAddr      string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// Server is the audshout HTTP API.
type Server struct {
	cfg      Config
	analyzer Analyzer
	metrics  *observe.Metrics
	validate *validator.Validate
}

// New returns a Server. A nil metrics uses observe.DefaultMetrics.
func New(cfg Config, a Analyzer, m *observe.Metrics) *Server {
	if m == nil {
		m = observe.DefaultMetrics()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Server{
		cfg:      cfg,
		analyzer: a,
		metrics:  m,
		validate: v,
	}
}

// Handler returns the routed and instrumented API handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /analyze/", s.handleAnalyze)
	mux.HandleFunc("POST /detect", s.handleDetect)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return observe.Middleware(s.metrics)(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}

	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener. The listener is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
