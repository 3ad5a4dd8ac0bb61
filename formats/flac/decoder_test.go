// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/gopxl/beep"

	"github.com/ik5/audshout/audio"
)

type mockStreamer struct {
	frames [][2]float64
	pos    int
	err    error
	closed bool
}

func (m *mockStreamer) Stream(samples [][2]float64) (int, bool) {
	if m.err != nil {
		return 0, false
	}
	if m.pos >= len(m.frames) {
		return 0, false
	}

	n := copy(samples, m.frames[m.pos:])
	m.pos += n

	return n, true
}

func (m *mockStreamer) Err() error { return m.err }

func (m *mockStreamer) Close() error {
	m.closed = true
	return nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"text":  []byte("This is not FLAC data"),
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(data))
			if !errors.Is(err, ErrNotFlacFile) {
				t.Errorf("Decode() error = %v, want ErrNotFlacFile", err)
			}
		})
	}
}

func TestSource_Channels(t *testing.T) {
	t.Parallel()

	frames := make([][2]float64, 1000)
	for i := range frames {
		frames[i] = [2]float64{float64(i) / 1000, -float64(i) / 1000}
	}

	tests := []struct {
		name        string
		numChannels int
		wantCh      int
	}{
		{"mono", 1, 1},
		{"stereo", 2, 2},
		{"surround", 6, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stream := &mockStreamer{frames: frames}
			src := newSource(stream, beep.Format{SampleRate: 96000, NumChannels: tt.numChannels, Precision: 3})

			if src.Channels() != tt.wantCh || src.SampleRate() != 96000 {
				t.Fatalf("format = %d Hz / %d ch", src.SampleRate(), src.Channels())
			}

			got, err := audio.ReadAll(src, 300)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}

			if len(got) != len(frames)*tt.wantCh {
				t.Fatalf("len = %d, want %d", len(got), len(frames)*tt.wantCh)
			}

			last := len(frames) - 1
			if got[last*tt.wantCh] != float32(frames[last][0]) {
				t.Errorf("last left sample = %v", got[last*tt.wantCh])
			}
			if tt.wantCh == 2 && got[2*last+1] != float32(frames[last][1]) {
				t.Errorf("last right sample = %v", got[2*last+1])
			}

			if err := src.Close(); err != nil || !stream.closed {
				t.Errorf("Close() = %v, closed = %v", err, stream.closed)
			}
		})
	}
}

func TestSource_StreamError(t *testing.T) {
	t.Parallel()

	src := newSource(&mockStreamer{err: io.ErrUnexpectedEOF}, beep.Format{SampleRate: 44100, NumChannels: 2})

	if _, err := src.ReadSamples(make([]float32, 8)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestSource_EOFIsSticky(t *testing.T) {
	t.Parallel()

	src := newSource(&mockStreamer{frames: make([][2]float64, 3)}, beep.Format{SampleRate: 8000, NumChannels: 1})
	dst := make([]float32, 10)

	n, err := src.ReadSamples(dst)
	if n != 3 || !errors.Is(err, io.EOF) {
		t.Errorf("first read = (%d, %v), want (3, EOF)", n, err)
	}

	n, err = src.ReadSamples(dst)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("second read = (%d, %v), want (0, EOF)", n, err)
	}
}
