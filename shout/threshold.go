// SPDX-License-Identifier: EPL-2.0

package shout

import (
	"fmt"
	"slices"
)

// Policy names accepted by PolicyByName and Config.Policy.
const (
	PolicyFixed    = "fixed"
	PolicyAdaptive = "adaptive"
)

// ThresholdState is the loudness floor in effect for one analysis.
type ThresholdState struct {
	BaseDBFS float64
	// DynamicDBFS is set by the adaptive policy; it never exceeds BaseDBFS.
	DynamicDBFS float64
	Adaptive    bool
}

// Effective returns the floor frames are compared against.
func (s ThresholdState) Effective() float64 {
	if s.Adaptive {
		return s.DynamicDBFS
	}

	return s.BaseDBFS
}

// Loud reports whether a frame level reaches the floor.
func (s ThresholdState) Loud(dbfs float64) bool {
	return dbfs >= s.Effective()
}

// ThresholdPolicy derives the loudness floor for a clip from its frame levels.
type ThresholdPolicy interface {
	Name() string
	Prepare(baseDBFS float64, metrics []FrameMetrics) ThresholdState
}

// FixedThreshold uses the base threshold unchanged.
type FixedThreshold struct{}

func (FixedThreshold) Name() string { return PolicyFixed }

func (FixedThreshold) Prepare(baseDBFS float64, _ []FrameMetrics) ThresholdState {
	return ThresholdState{BaseDBFS: baseDBFS}
}

// AdaptiveThreshold lowers the floor for quiet recordings to
// min(base, median frame dBFS + OffsetDB).
type AdaptiveThreshold struct {
	OffsetDB float64
}

func (AdaptiveThreshold) Name() string { return PolicyAdaptive }

func (a AdaptiveThreshold) Prepare(baseDBFS float64, metrics []FrameMetrics) ThresholdState {
	st := ThresholdState{BaseDBFS: baseDBFS, DynamicDBFS: baseDBFS, Adaptive: true}
	if len(metrics) == 0 {
		return st
	}

	levels := make([]float64, len(metrics))
	for i, m := range metrics {
		levels[i] = m.DBFS
	}

	st.DynamicDBFS = min(baseDBFS, Median(levels)+a.OffsetDB)

	return st
}

// PolicyByName returns the policy registered under name. adaptiveOffsetDB is
// used only by the adaptive policy.
func PolicyByName(name string, adaptiveOffsetDB float64) (ThresholdPolicy, error) {
	switch name {
	case PolicyFixed, "":
		return FixedThreshold{}, nil
	case PolicyAdaptive:
		return AdaptiveThreshold{OffsetDB: adaptiveOffsetDB}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Median of values; the mean of the two middle elements for even lengths.
// values is not modified. Median of nothing is 0.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}

	return (sorted[n/2-1] + sorted[n/2]) / 2
}
