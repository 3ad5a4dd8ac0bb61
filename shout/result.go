// SPDX-License-Identifier: EPL-2.0

package shout

import (
	"fmt"
	"math"
)

// Result is the outcome of one detection. When Present is false every other
// field is nil and serialises as JSON null.
type Result struct {
	Present         bool     `json:"present"`
	StartMs         *int64   `json:"start_ms"`
	EndMs           *int64   `json:"end_ms"`
	PeakDBFS        *float64 `json:"peak_dbfs"`
	DurationSeconds *float64 `json:"duration_seconds"`
	Confidence      *float64 `json:"confidence"`
}

// Absent is the result for clips without a qualifying run.
func Absent() Result {
	return Result{}
}

func newResult(run Run, rate int, confidence float64) Result {
	start := toMs(run.Start, rate)
	end := toMs(run.End, rate)
	peak := round2(run.PeakDBFS)
	dur := round2(run.DurationMs(rate) / 1000)

	return Result{
		Present:         true,
		StartMs:         &start,
		EndMs:           &end,
		PeakDBFS:        &peak,
		DurationSeconds: &dur,
		Confidence:      &confidence,
	}
}

func toMs(offset, rate int) int64 {
	return int64(math.Round(float64(offset) * 1000 / float64(rate)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (r Result) String() string {
	if !r.Present {
		return "no shout"
	}

	return fmt.Sprintf("shout %d-%dms (%.2fs) peak %.2f dBFS confidence %.2f",
		deref(r.StartMs), deref(r.EndMs), deref(r.DurationSeconds), deref(r.PeakDBFS), deref(r.Confidence))
}

func deref[T int64 | float64](p *T) T {
	if p == nil {
		return 0
	}

	return *p
}
