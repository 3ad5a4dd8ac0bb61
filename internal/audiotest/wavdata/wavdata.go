// SPDX-License-Identifier: EPL-2.0

// Package wavdata builds in-memory WAV recordings for tests.
package wavdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audshout/formats/wav"
)

// Bytes encodes mono pcm, copied to every channel, as a 16-bit WAV file.
func Bytes(tb testing.TB, rate, channels int, pcm []float32) []byte {
	tb.Helper()

	interleaved := make([]float32, 0, len(pcm)*channels)
	for _, x := range pcm {
		for range channels {
			interleaved = append(interleaved, x)
		}
	}

	path := filepath.Join(tb.TempDir(), "clip.wav")
	f, err := os.Create(path)
	if err != nil {
		tb.Fatal(err)
	}

	if err := wav.Encode(f, rate, channels, interleaved); err != nil {
		f.Close()
		tb.Fatalf("wav.Encode() error = %v", err)
	}
	if err := f.Close(); err != nil {
		tb.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatal(err)
	}

	return data
}
