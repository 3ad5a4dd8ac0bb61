// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audshout/audio"
)

// mockMP3Reader simulates the gomp3.Decoder for testing
type mockMP3Reader struct {
	sampleRate   int
	data         []byte
	offset       int
	chunk        int // maximum bytes per Read; 0 means unlimited
	returnErrors bool
}

func newMockReader(rate int, samples []int16, chunk int) *mockMP3Reader {
	data := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(s))
	}

	return &mockMP3Reader{sampleRate: rate, data: data, chunk: chunk}
}

func (m *mockMP3Reader) SampleRate() int {
	return m.sampleRate
}

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}

	if m.offset >= len(m.data) {
		return 0, io.EOF
	}

	if m.chunk > 0 && len(buf) > m.chunk {
		buf = buf[:m.chunk]
	}

	n := copy(buf, m.data[m.offset:])
	m.offset += n

	return n, nil
}

func newSource(dec mp3Reader) *source {
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
		pending:    make([]byte, 0, bytesPerFrame),
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"text":  []byte("This is not MP3 data"),
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(data))
			if !errors.Is(err, ErrNotMP3File) {
				t.Errorf("Decode() error = %v, want ErrNotMP3File", err)
			}
		})
	}
}

func TestSource_ConversionAccuracy(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, -32768, 32767, 1}
	src := newSource(newMockReader(44100, samples, 0))

	got, err := audio.ReadAll(src, 0)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if len(got) != len(samples) {
		t.Fatalf("len = %d, want %d", len(got), len(samples))
	}
	for i, s := range samples {
		if want := float32(s) / 32768; got[i] != want {
			t.Errorf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestSource_SplitFrames(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 1000)
	for i := range samples {
		samples[i] = int16(i)
	}

	// 3 and 5 byte reads split samples and frames at every boundary.
	for _, chunk := range []int{1, 3, 5, 7} {
		src := newSource(newMockReader(22050, samples, chunk))
		dst := make([]float32, 64)

		var got []float32
		for {
			n, err := src.ReadSamples(dst)
			if n%channels != 0 {
				t.Fatalf("chunk %d: read returned %d samples, not whole frames", chunk, n)
			}
			got = append(got, dst[:n]...)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					t.Fatalf("chunk %d: error = %v", chunk, err)
				}
				break
			}
		}

		if len(got) != len(samples) {
			t.Fatalf("chunk %d: len = %d, want %d", chunk, len(got), len(samples))
		}
		for i := range samples {
			if got[i] != float32(i)/32768 {
				t.Fatalf("chunk %d: sample %d = %v", chunk, i, got[i])
			}
		}
	}
}

func TestSource_Errors(t *testing.T) {
	t.Parallel()

	m := newMockReader(44100, []int16{1, 2}, 0)
	m.returnErrors = true
	src := newSource(m)

	if _, err := src.ReadSamples(make([]float32, 8)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}

	if n, err := src.ReadSamples(make([]float32, 1)); n != 0 || err != nil {
		t.Errorf("ReadSamples(len 1) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newSource(newMockReader(48000, nil, 0))

	if src.SampleRate() != 48000 || src.Channels() != 2 {
		t.Errorf("format = %d Hz / %d ch, want 48000 / 2", src.SampleRate(), src.Channels())
	}
	if src.BufSize() != 4096 {
		t.Errorf("BufSize() = %d, want 4096", src.BufSize())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func BenchmarkSource_FullRead(b *testing.B) {
	samples := make([]int16, 88200)
	dst := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		src := newSource(newMockReader(44100, samples, 0))
		for {
			if _, err := src.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
