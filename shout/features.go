// SPDX-License-Identifier: EPL-2.0

package shout

import "math"

// FullScale is the amplitude of a 0 dBFS sample.
const FullScale = 32768.0

const (
	rmsFloor    = 1e-9
	dbfsFloor   = 1e-9
	crestFloor  = 1e-9
	crestOffset = 1e-12
)

// FrameMetrics are the measurements of one frame.
type FrameMetrics struct {
	Offset  int
	RMS     float64
	DBFS    float64
	CrestDB float64
}

// RMS is the root mean square of f plus a small floor so it is never zero.
func RMS(f []float64) float64 {
	if len(f) == 0 {
		return rmsFloor
	}

	var sum float64
	for _, v := range f {
		sum += v * v
	}

	return math.Sqrt(sum/float64(len(f))) + rmsFloor
}

// DBFS converts an RMS value to decibels relative to FullScale.
// Silence bottoms out at -180 dBFS.
func DBFS(rms float64) float64 {
	return 20 * math.Log10(max(rms/FullScale, dbfsFloor))
}

// CrestDB is the ratio of the absolute peak of f to rms, in decibels.
func CrestDB(f []float64, rms float64) float64 {
	var peak float64
	for _, v := range f {
		peak = max(peak, math.Abs(v))
	}

	return 20 * math.Log10((peak+crestFloor)/rms+crestOffset)
}

// Measure computes all metrics for one frame.
func Measure(fr Frame) FrameMetrics {
	r := RMS(fr.Samples)

	return FrameMetrics{
		Offset:  fr.Offset,
		RMS:     r,
		DBFS:    DBFS(r),
		CrestDB: CrestDB(fr.Samples, r),
	}
}
