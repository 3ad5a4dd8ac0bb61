// SPDX-License-Identifier: EPL-2.0

// Package observe wires structured logging, OpenTelemetry metrics and tracing
// for the audshout service.
//
// Instruments are created through the OpenTelemetry Metrics API; InitProvider
// bridges them to a Prometheus registry scraped on /metrics. Tests should build
// their own Metrics with NewMetrics and a ManualReader backed provider.
package observe

import (
	"context"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ik5/audshout"

// Metrics holds every instrument the service records.
type Metrics struct {
	// Detections counts finished detections, attribute "present".
	Detections metric.Int64Counter
	// DecodeErrors counts undecodable recordings, attribute "format".
	DecodeErrors metric.Int64Counter
	// FetchErrors counts failed downloads, attribute "scheme".
	FetchErrors metric.Int64Counter

	DetectDuration      metric.Float64Histogram
	FetchDuration       metric.Float64Histogram
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets are in seconds; analysis of long recordings can take a while.
var latencyBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates the instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Detections, err = m.Int64Counter("audshout.detections",
		metric.WithDescription("Completed shout detections by outcome."),
	); err != nil {
		return nil, err
	}
	if met.DecodeErrors, err = m.Int64Counter("audshout.decode_errors",
		metric.WithDescription("Recordings that could not be decoded, by format."),
	); err != nil {
		return nil, err
	}
	if met.FetchErrors, err = m.Int64Counter("audshout.fetch_errors",
		metric.WithDescription("Failed audio downloads by url scheme."),
	); err != nil {
		return nil, err
	}

	if met.DetectDuration, err = m.Float64Histogram("audshout.detect.duration",
		metric.WithDescription("Time spent decoding and analysing one recording."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.FetchDuration, err = m.Float64Histogram("audshout.fetch.duration",
		metric.WithDescription("Time spent downloading one recording."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("audshout.http.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a process wide Metrics on the global meter provider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordDetection counts one detection.
func (m *Metrics) RecordDetection(ctx context.Context, present bool, seconds float64) {
	attrs := metric.WithAttributes(attribute.String("present", strconv.FormatBool(present)))
	m.Detections.Add(ctx, 1, attrs)
	m.DetectDuration.Record(ctx, seconds, attrs)
}

// RecordDecodeError counts one undecodable recording.
func (m *Metrics) RecordDecodeError(ctx context.Context, format string) {
	if format == "" {
		format = "unknown"
	}
	m.DecodeErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

// RecordFetch records a download attempt and counts it as failed when ok is false.
func (m *Metrics) RecordFetch(ctx context.Context, scheme string, seconds float64, ok bool) {
	attrs := metric.WithAttributes(attribute.String("scheme", scheme))
	m.FetchDuration.Record(ctx, seconds, attrs)
	if !ok {
		m.FetchErrors.Add(ctx, 1, attrs)
	}
}
