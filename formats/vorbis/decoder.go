// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audshout/audio"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
	bufSize    int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return s.bufSize }

func (s *source) ReadSamples(dst []float32) (int, error) {
	// Whole frames only; oggvorbis truncates the same way.
	dst = dst[:len(dst)-len(dst)%s.channels]
	if len(dst) == 0 {
		return 0, nil
	}

	// oggvorbis.Reader.Read returns the number of interleaved values, not frames.
	n, err := s.dec.Read(dst)
	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, io.EOF):
		return n, io.EOF
	default:
		return n, fmt.Errorf("read vorbis: %w", err)
	}
}

// Decoder decodes Ogg Vorbis streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisStream, err)
	}
	if dec.Channels() < 1 {
		return nil, ErrNotVorbisStream
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
		bufSize:    4096,
	}, nil
}
