// SPDX-License-Identifier: EPL-2.0

package shout

// Frame is a window of the signal starting at sample Offset.
// Samples aliases the signal's backing array.
type Frame struct {
	Offset  int
	Samples []float64
}

// SamplesFor converts a millisecond span to a sample count at rate, truncating.
func SamplesFor(rate, ms int) int {
	return rate * ms / 1000
}

// FrameSignal cuts samples into windows of winLen advancing by hop. Only
// complete windows are returned; a signal shorter than one window yields none.
func FrameSignal(samples []float64, winLen, hop int) []Frame {
	if winLen <= 0 || hop <= 0 || len(samples) < winLen {
		return nil
	}

	frames := make([]Frame, 0, (len(samples)-winLen)/hop+1)
	for offset := 0; offset+winLen <= len(samples); offset += hop {
		frames = append(frames, Frame{
			Offset:  offset,
			Samples: samples[offset : offset+winLen : offset+winLen],
		})
	}

	return frames
}
