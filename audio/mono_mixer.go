// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MonoMixer downmixes interleaved multi-channel audio to mono by taking the
// arithmetic mean of each frame. Mono sources pass through untouched.
type MonoMixer struct {
	src Source
	tmp []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{
		src: src,
		tmp: make([]float32, 8192),
	}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("close mono source: %w", err)
	}

	return nil
}

// ReadSamples fills dst with up to len(dst) mono frames.
func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	switch {
	case channels < 1:
		return 0, ErrNoChannels
	case channels == 1:
		return m.src.ReadSamples(dst)
	}

	samplesNeeded := len(dst) * channels
	if cap(m.tmp) < samplesNeeded {
		m.tmp = make([]float32, samplesNeeded)
	}
	m.tmp = m.tmp[:samplesNeeded]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}

	frames := n / channels
	if channels == 2 {
		for f := range frames {
			dst[f] = (m.tmp[2*f] + m.tmp[2*f+1]) * 0.5
		}

		return frames, err
	}

	inv := 1.0 / float64(channels)
	for f := range frames {
		var sum float64
		for _, s := range m.tmp[f*channels : (f+1)*channels] {
			sum += float64(s)
		}
		dst[f] = float32(sum * inv)
	}

	return frames, err
}
