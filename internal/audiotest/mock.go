// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
	"math"
)

// ErrInjected is returned by sources built with NewFailingSource.
var ErrInjected = errors.New("audiotest: injected read failure")

// MockSource is a test helper that generates audio data for testing.
// It implements the audio.Source interface (without importing it to avoid cycles).
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // per channel
	generated    int // per channel
	waveform     func(sample int, channel int) float32
	failAfter    int // frames before ReadSamples fails; negative disables
	closed       bool
}

// NewMockSource creates a new mock audio source.
// totalSamples is the total number of samples per channel to generate.
func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
		failAfter:    -1,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalSamples, 0)
}

// NewSineSource creates a mock source that generates a full-scale sine wave.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 {
		return value
	})
}

// NewSegmentSource plays the rendered segments on every channel.
func NewSegmentSource(sampleRate, channels int, segments ...Segment) *MockSource {
	mono := Render(sampleRate, segments...)
	return NewMockSource(sampleRate, channels, len(mono), func(sample int, _ int) float32 {
		return mono[sample]
	})
}

// NewFailingSource behaves like src until afterFrames frames were produced
// and then returns ErrInjected.
func NewFailingSource(src *MockSource, afterFrames int) *MockSource {
	src.failAfter = afterFrames
	return src
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset resets the generated sample counter to allow re-reading
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.failAfter >= 0 && m.generated >= m.failAfter {
		return 0, ErrInjected
	}

	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	framesToWrite := min(len(dst)/m.channels, m.totalSamples-m.generated)
	if m.failAfter >= 0 {
		framesToWrite = min(framesToWrite, m.failAfter-m.generated)
	}

	for frame := range framesToWrite {
		sampleIndex := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(sampleIndex, ch)
		}
	}

	m.generated += framesToWrite
	written := framesToWrite * m.channels

	if m.generated >= m.totalSamples {
		return written, io.EOF
	}

	return written, nil
}
