// SPDX-License-Identifier: EPL-2.0

package shout

import "time"

// Signal is a mono clip in the ±32768 amplitude domain.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// Duration of the clip. Zero when the rate is unknown.
func (s Signal) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}

	return time.Duration(len(s.Samples)) * time.Second / time.Duration(s.SampleRate)
}
