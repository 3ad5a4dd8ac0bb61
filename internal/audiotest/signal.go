// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"math"
	"time"
)

// Kind selects the waveform of a Segment.
type Kind int

const (
	KindSilence Kind = iota
	KindTone
	KindClick
)

// clickTau is the decay constant of a click, in samples.
const clickTau = 16.0

// Segment is one contiguous piece of a synthetic test signal.
type Segment struct {
	Kind     Kind
	Duration time.Duration
	// Level is the RMS level of a tone or the peak level of a click, in dBFS.
	Level float64
	// Freq is the tone frequency in Hz.
	Freq float64
}

// Silence is a run of zero samples.
func Silence(d time.Duration) Segment {
	return Segment{Kind: KindSilence, Duration: d}
}

// Tone is a sine whose RMS sits at levelDBFS. The sine starts at phase zero
// at the beginning of the segment. RMS levels above -3.01 dBFS would clip.
func Tone(d time.Duration, levelDBFS, freq float64) Segment {
	return Segment{Kind: KindTone, Duration: d, Level: levelDBFS, Freq: freq}
}

// Click is an exponentially decaying impulse peaking at peakDBFS.
func Click(d time.Duration, peakDBFS float64) Segment {
	return Segment{Kind: KindClick, Duration: d, Level: peakDBFS}
}

// Amplitude returns the linear peak amplitude of a sine with the given RMS level.
func Amplitude(rmsDBFS float64) float64 {
	return math.Pow(10, rmsDBFS/20) * math.Sqrt2
}

// Samples converts a duration to a sample count at rate.
func Samples(rate int, d time.Duration) int {
	return int(int64(rate) * int64(d) / int64(time.Second))
}

// Render produces mono samples in [-1,1] for the given segments.
func Render(rate int, segments ...Segment) []float32 {
	total := 0
	for _, s := range segments {
		total += Samples(rate, s.Duration)
	}

	out := make([]float32, 0, total)
	for _, s := range segments {
		n := Samples(rate, s.Duration)

		switch s.Kind {
		case KindTone:
			amp := Amplitude(s.Level)
			for i := range n {
				out = append(out, float32(amp*math.Sin(2*math.Pi*s.Freq*float64(i)/float64(rate))))
			}
		case KindClick:
			amp := math.Pow(10, s.Level/20)
			for i := range n {
				out = append(out, float32(amp*math.Exp(-float64(i)/clickTau)))
			}
		default:
			out = append(out, make([]float32, n)...)
		}
	}

	return out
}

// Scaled renders the segments in the ±32768 full-scale domain.
func Scaled(rate int, segments ...Segment) []float64 {
	unit := Render(rate, segments...)
	out := make([]float64, len(unit))
	for i, s := range unit {
		out[i] = float64(s) * 32768.0
	}

	return out
}
