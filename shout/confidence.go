// SPDX-License-Identifier: EPL-2.0

package shout

// Scorer assigns a confidence in [0,1] to a detected run.
type Scorer func(run Run, metrics []FrameMetrics, threshold ThresholdState) float64

// ConstantScore ignores its input and always returns v.
func ConstantScore(v float64) Scorer {
	return func(Run, []FrameMetrics, ThresholdState) float64 {
		return v
	}
}

// MarginScore grows with how far the run's peak clears the effective floor:
// base at the floor, rising linearly to 1 at spanDB above it.
func MarginScore(base, spanDB float64) Scorer {
	return func(run Run, _ []FrameMetrics, threshold ThresholdState) float64 {
		if spanDB <= 0 {
			return base
		}

		margin := run.PeakDBFS - threshold.Effective()
		score := base + (1-base)*margin/spanDB

		return min(1, max(base, score))
	}
}
