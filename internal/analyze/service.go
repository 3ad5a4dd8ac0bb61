// SPDX-License-Identifier: EPL-2.0

// Package analyze runs shout detection over recordings fetched by URL or
// uploaded directly, under a per-request time budget.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ik5/audshout"
	"github.com/ik5/audshout/internal/fetch"
	"github.com/ik5/audshout/internal/observe"
	"github.com/ik5/audshout/shout"
)

// ErrUnavailable is returned by a Service built without a fetcher or detector.
var ErrUnavailable = errors.New("analyze service unavailable")

// Service fetches, decodes and analyses recordings.
// It is safe for concurrent use.
type Service struct {
	fetcher  fetch.Fetcher
	detector *shout.Detector
	metrics  *observe.Metrics
	timeout  time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records detections, decode failures and fetches on m.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTimeout bounds each analysis. Zero or negative disables the budget.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// New returns a Service. A nil fetcher still allows DetectBytes.
func New(f fetch.Fetcher, det *shout.Detector, opts ...Option) *Service {
	s := &Service{
		fetcher:  f,
		detector: det,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}

	return s
}

// Ready reports whether the service can analyse URLs.
func (s *Service) Ready() bool {
	return s != nil && s.fetcher != nil && s.detector != nil
}

// DetectFromURL downloads location and runs shout detection over it.
//
// Caller errors (empty or unsupported URL) wrap fetch.ErrEmptyURL or
// fetch.ErrUnsupportedScheme, download failures wrap fetch.ErrFetch and
// undecodable audio wraps audshout.ErrDecode. When the time budget runs out
// the error is context.DeadlineExceeded.
func (s *Service) DetectFromURL(ctx context.Context, location string) (shout.Result, error) {
	if !s.Ready() {
		return shout.Absent(), ErrUnavailable
	}

	ctx, cancel := s.budget(ctx)
	defer cancel()

	ctx, span := observe.StartSpan(ctx, "analyze.DetectFromURL",
		trace.WithAttributes(attribute.String("audio.url", location)),
	)
	defer span.End()

	log := observe.Logger(ctx)
	log.Info("fetching audio for shout detection", "url", location)

	data, err := s.fetch(ctx, location)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return shout.Absent(), err
	}

	return s.detect(ctx, span, data, "")
}

// DetectBytes runs shout detection over an in-memory recording. format may
// be empty to sniff the container.
func (s *Service) DetectBytes(ctx context.Context, data []byte, format string) (shout.Result, error) {
	if s == nil || s.detector == nil {
		return shout.Absent(), ErrUnavailable
	}

	ctx, cancel := s.budget(ctx)
	defer cancel()

	ctx, span := observe.StartSpan(ctx, "analyze.DetectBytes",
		trace.WithAttributes(
			attribute.Int("audio.bytes", len(data)),
			attribute.String("audio.format", format),
		),
	)
	defer span.End()

	return s.detect(ctx, span, data, format)
}

func (s *Service) budget(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) fetch(ctx context.Context, location string) ([]byte, error) {
	start := time.Now()
	data, err := s.fetcher.Fetch(ctx, location)
	if errors.Is(err, fetch.ErrEmptyURL) || errors.Is(err, fetch.ErrUnsupportedScheme) {
		return nil, err
	}

	s.metrics.RecordFetch(ctx, scheme(location), time.Since(start).Seconds(), err == nil)
	if err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("fetch %s: %w", location, ctx.Err())
	}

	return data, err
}

type outcome struct {
	res shout.Result
	err error
}

// detect decodes and analyses data off the calling goroutine so the budget
// can be enforced. The detector cannot be interrupted; on timeout its
// goroutine finishes in the background and the result is dropped.
func (s *Service) detect(ctx context.Context, span trace.Span, data []byte, format string) (shout.Result, error) {
	log := observe.Logger(ctx)
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "time budget exceeded")
		log.Warn("shout detection skipped", "error", err)
		return shout.Absent(), err
	}

	start := time.Now()
	done := make(chan outcome, 1)

	go func() {
		res, err := audshout.Detect(data, format, s.detector)
		done <- outcome{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		err := ctx.Err()
		span.RecordError(err)
		span.SetStatus(codes.Error, "time budget exceeded")
		log.Warn("shout detection abandoned", "error", err, "elapsed", time.Since(start))
		return shout.Absent(), err

	case o := <-done:
		if o.err != nil {
			var de *audshout.DecodeError
			f := format
			if errors.As(o.err, &de) {
				f = de.Format
			}
			s.metrics.RecordDecodeError(ctx, f)
			span.RecordError(o.err)
			span.SetStatus(codes.Error, "decode failed")
			log.Warn("audio decode failed", "format", f, "error", o.err)
			return shout.Absent(), o.err
		}

		s.metrics.RecordDetection(ctx, o.res.Present, time.Since(start).Seconds())
		span.SetAttributes(attribute.Bool("shout.present", o.res.Present))
		log.Info("shout detection result", slog.Any("result", o.res))
		return o.res, nil
	}
}

func scheme(location string) string {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" {
		return "unknown"
	}

	return u.Scheme
}
