// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audshout/audio"
	"github.com/ik5/audshout/utils"
)

// go-mp3 always produces 16-bit little-endian stereo.
const (
	channels       = 2
	bytesPerSample = 2
	bytesPerFrame  = channels * bytesPerSample
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	pending    []byte // bytes of a frame split across reads
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / bytesPerSample } // return sample capacity, not bytes

// ReadSamples only ever returns whole stereo frames.
func (s *source) ReadSamples(dst []float32) (int, error) {
	want := (len(dst) / channels) * bytesPerFrame
	if want == 0 {
		return 0, nil
	}

	if cap(s.buf) < want {
		s.buf = make([]byte, want)
	}
	s.buf = s.buf[:want]

	have := copy(s.buf, s.pending)
	s.pending = s.pending[:0]

	var err error
	for have < bytesPerFrame && err == nil {
		var n int
		n, err = s.dec.Read(s.buf[have:])
		if n == 0 && err == nil {
			break
		}
		have += n
	}

	whole := have - have%bytesPerFrame
	s.pending = append(s.pending, s.buf[whole:have]...)

	samples := whole / bytesPerSample
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(s.buf[2*i:]))
		dst[i] = utils.IntToFloat32(int(v), 16)
	}

	switch {
	case err == nil:
		return samples, nil
	case errors.Is(err, io.EOF):
		return samples, io.EOF
	default:
		return samples, fmt.Errorf("read mp3: %w", err)
	}
}

// Decoder decodes MPEG-1/2 Layer III streams. Output is always stereo;
// mono files are duplicated into both channels by go-mp3.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
		pending:    make([]byte, 0, bytesPerFrame),
	}, nil
}
