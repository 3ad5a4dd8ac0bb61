// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/gopxl/beep"
	beepflac "github.com/gopxl/beep/flac"

	"github.com/ik5/audshout/audio"
)

// streamer is the part of beep.StreamSeekCloser the source needs.
type streamer interface {
	Stream(samples [][2]float64) (n int, ok bool)
	Err() error
	Close() error
}

// source adapts a beep streamer, which always yields stereo pairs, to
// audio.Source. Mono files report one channel and only the left value is used.
type source struct {
	stream     streamer
	sampleRate int
	channels   int
	frames     [][2]float64
	done       bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }

func (s *source) Close() error {
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("close flac stream: %w", err)
	}

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.done {
		return 0, io.EOF
	}

	want := len(dst) / s.channels
	if want == 0 {
		return 0, nil
	}

	if cap(s.frames) < want {
		s.frames = make([][2]float64, want)
	}
	s.frames = s.frames[:want]

	n, ok := s.stream.Stream(s.frames)
	if !ok || n < want {
		if err := s.stream.Err(); err != nil {
			return 0, fmt.Errorf("read flac: %w", err)
		}
		s.done = true
	}

	for i, f := range s.frames[:n] {
		if s.channels == 1 {
			dst[i] = float32(f[0])
			continue
		}
		dst[2*i] = float32(f[0])
		dst[2*i+1] = float32(f[1])
	}

	if s.done {
		return n * s.channels, io.EOF
	}

	return n * s.channels, nil
}

// Decoder decodes FLAC files through beep, which wraps mewkiz/flac.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, format, err := beepflac.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	return newSource(stream, format), nil
}

func newSource(stream streamer, format beep.Format) *source {
	channels := 2
	if format.NumChannels == 1 {
		channels = 1
	}

	return &source{
		stream:     stream,
		sampleRate: int(format.SampleRate),
		channels:   channels,
	}
}
