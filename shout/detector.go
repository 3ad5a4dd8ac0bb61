// SPDX-License-Identifier: EPL-2.0

package shout

import (
	"fmt"
	"log/slog"
)

// Detector finds the first sustained loud run in a signal.
// It holds only configuration and is safe for concurrent use.
type Detector struct {
	cfg    Config
	policy ThresholdPolicy
	scorer Scorer
	logger *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithPolicy overrides the threshold policy selected by Config.Policy.
func WithPolicy(p ThresholdPolicy) Option {
	return func(d *Detector) {
		if p != nil {
			d.policy = p
		}
	}
}

// WithScorer overrides the constant Config.Confidence score.
func WithScorer(s Scorer) Option {
	return func(d *Detector) {
		if s != nil {
			d.scorer = s
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// New validates cfg and builds a Detector.
func New(cfg Config, opts ...Option) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	policy, err := PolicyByName(cfg.Policy, cfg.AdaptiveOffsetDB)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	d := &Detector{
		cfg:    cfg,
		policy: policy,
		scorer: ConstantScore(cfg.Confidence),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// Config returns the tunables the detector was built with.
func (d *Detector) Config() Config { return d.cfg }

// Policy returns the active threshold policy.
func (d *Detector) Policy() ThresholdPolicy { return d.policy }

// Analysis is the full trace of one detection.
type Analysis struct {
	Result     Result
	SampleRate int
	Frames     []FrameMetrics
	Threshold  ThresholdState
	// Run is valid only when Result.Present is true.
	Run Run
}

// Detect returns the first qualifying run in sig, or an absent result.
func (d *Detector) Detect(sig Signal) Result {
	return d.Analyze(sig).Result
}

// Analyze runs the detection and keeps the intermediate measurements.
func (d *Detector) Analyze(sig Signal) Analysis {
	rate := sig.SampleRate
	if rate <= 0 {
		rate = d.cfg.SampleRate
	}

	winLen := SamplesFor(rate, d.cfg.WindowMs)
	hop := SamplesFor(rate, d.cfg.HopMs)

	frames := FrameSignal(sig.Samples, winLen, hop)
	metrics := make([]FrameMetrics, len(frames))
	for i, fr := range frames {
		metrics[i] = Measure(fr)
	}

	threshold := d.policy.Prepare(d.cfg.ThresholdDBFS, metrics)

	d.logger.Debug("analyzing audio signal",
		"samples", len(sig.Samples),
		"sample_rate", rate,
		"frames", len(frames),
		"policy", d.policy.Name(),
		"threshold_dbfs", threshold.Effective(),
	)

	a := Analysis{
		Result:     Absent(),
		SampleRate: rate,
		Frames:     metrics,
		Threshold:  threshold,
	}

	if len(metrics) == 0 {
		d.logger.Info("no frames available for shout detection", "samples", len(sig.Samples))
		return a
	}

	rd := newRunDetector(rate, winLen, d.cfg.MinRunMs)
	for _, m := range metrics {
		qualifies := threshold.Loud(m.DBFS) && m.CrestDB < d.cfg.MaxCrestDB
		if run, ok := rd.step(m, qualifies); ok {
			return d.found(a, run, "shout detected mid-stream")
		}
	}

	if run, ok := rd.finish(); ok {
		return d.found(a, run, "shout detected at stream end")
	}

	d.logger.Info("shout not detected")

	return a
}

func (d *Detector) found(a Analysis, run Run, msg string) Analysis {
	a.Run = run
	a.Result = newResult(run, a.SampleRate, d.scorer(run, a.Frames, a.Threshold))

	d.logger.Info(msg,
		"start_ms", *a.Result.StartMs,
		"end_ms", *a.Result.EndMs,
		"peak_dbfs", *a.Result.PeakDBFS,
	)

	return a
}
