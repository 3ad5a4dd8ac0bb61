// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audshout/audio"
	"github.com/ik5/audshout/utils"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// pcmReader is an interface for gowav.Decoder to allow testing
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer
	done       bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.done {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{Data: make([]int, len(dst))}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil {
		return 0, fmt.Errorf("read wav pcm: %w", err)
	}

	// A trailing partial frame is dropped.
	n -= n % s.channels

	for i := range n {
		v := s.intBuf.Data[i]
		if s.bitDepth == 8 {
			// 8-bit WAV is unsigned.
			v -= 128
		}
		dst[i] = utils.IntToFloat32(v, s.bitDepth)
	}

	// go-audio reports the end of the data chunk as a short read without error.
	if n < len(dst)-len(dst)%s.channels {
		s.done = true
		return n, io.EOF
	}

	return n, nil
}

// Decoder decodes RIFF/WAVE files holding integer PCM at 8, 16, 24 or 32 bits.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	var header [12]byte
	if _, err := io.ReadFull(rs, header[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	if !bytes.Equal(header[0:4], []byte("RIFF")) || !bytes.Equal(header[8:12], []byte("WAVE")) {
		return nil, ErrNotWavFile
	}
	if _, err := rs.Seek(-int64(len(header)), io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("rewind wav header: %w", err)
	}

	dec := gowav.NewDecoder(rs)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}

	switch {
	case dec.NumChans < 1 || dec.SampleRate == 0:
		return nil, ErrUnsupportedWavLayout
	case dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible:
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedEncoding, dec.WavAudioFormat)
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	// go-audio flattens chunk read errors, so any failure here means no data chunk.
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingData, err)
	}
	if dec.PCMChunk == nil {
		return nil, ErrMissingData
	}

	return &source{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   int(dec.BitDepth),
	}, nil
}
