// SPDX-License-Identifier: EPL-2.0

package audshout

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audshout/audio"
	"github.com/ik5/audshout/internal/audiotest"
)

func TestNormalize_Basic(t *testing.T) {
	t.Parallel()

	// 1 second of stereo audio at 44.1kHz
	src := audiotest.NewSineSource(44100, 2, 44100, 440.0)

	sig, err := Normalize(src, CanonicalRate, 4096)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if sig.SampleRate != CanonicalRate {
		t.Errorf("Normalize() rate = %d, want %d", sig.SampleRate, CanonicalRate)
	}
	if len(sig.Samples) != 16000 {
		t.Errorf("Normalize() got %d samples, want 16000", len(sig.Samples))
	}

	for i, s := range sig.Samples {
		if s < -32768 || s > 32768 {
			t.Fatalf("Samples[%d] = %v, outside the ±32768 domain", i, s)
		}
	}

	if src.Closed() {
		t.Error("Normalize() closed its source")
	}
}

func TestNormalize_AlreadyCanonical(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(16000, 1, 1000, 0.5)

	sig, err := Normalize(src, CanonicalRate, 4096)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if len(sig.Samples) != 1000 {
		t.Fatalf("Normalize() got %d samples, want 1000", len(sig.Samples))
	}
	for i, s := range sig.Samples {
		if s != 16384 {
			t.Fatalf("Samples[%d] = %v, want 16384", i, s)
		}
	}
}

func TestNormalize_Downmix(t *testing.T) {
	t.Parallel()

	// Left and right cancel out.
	src := audiotest.NewMockSource(16000, 2, 800, func(_ int, ch int) float32 {
		if ch == 0 {
			return 0.5
		}
		return -0.5
	})

	sig, err := Normalize(src, CanonicalRate, 0)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	for i, s := range sig.Samples {
		if s != 0 {
			t.Fatalf("Samples[%d] = %v, want 0", i, s)
		}
	}
}

func TestNormalize_Clipping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value float32
		want  float64
	}{
		{1.5, 32768},
		{-2, -32768},
		{1, 32768},
		{0.25, 8192},
	}

	for _, tt := range tests {
		src := audiotest.NewConstantSource(16000, 1, 100, tt.value)

		sig, err := Normalize(src, CanonicalRate, 64)
		if err != nil {
			t.Fatalf("Normalize(%v) error = %v", tt.value, err)
		}
		if sig.Samples[0] != tt.want || sig.Samples[99] != tt.want {
			t.Errorf("Normalize(%v) = %v, want %v", tt.value, sig.Samples[0], tt.want)
		}
	}
}

func TestNormalize_EmptySource(t *testing.T) {
	t.Parallel()

	sig, err := Normalize(audiotest.NewSilentSource(44100, 2, 0), CanonicalRate, 4096)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(sig.Samples) != 0 {
		t.Errorf("Normalize() got %d samples, want 0", len(sig.Samples))
	}
}

func TestNormalize_VariousRates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sourceRate int
		channels   int
	}{
		{"8kHz mono", 8000, 1},
		{"11.025kHz mono", 11025, 1},
		{"22.05kHz stereo", 22050, 2},
		{"44.1kHz stereo", 44100, 2},
		{"48kHz stereo", 48000, 2},
		{"96kHz mono", 96000, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// half a second of a quiet tone
			src := audiotest.NewSegmentSource(tt.sourceRate, tt.channels, audiotest.Tone(500*ms, -20, 300))

			sig, err := Normalize(src, CanonicalRate, 4096)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}

			if len(sig.Samples) != 8000 {
				t.Errorf("got %d samples, want 8000", len(sig.Samples))
			}

			// RMS over the middle, away from the filter edges
			var sum float64
			mid := sig.Samples[2000:6000]
			for _, s := range mid {
				sum += s * s
			}
			level := 20 * math.Log10(math.Sqrt(sum/float64(len(mid)))/32768)
			if math.Abs(level+20) > 0.1 {
				t.Errorf("level = %.3f dBFS, want -20", level)
			}
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	t.Parallel()

	src := audiotest.NewFailingSource(audiotest.NewSineSource(44100, 2, 44100, 440), 1000)
	if _, err := Normalize(src, CanonicalRate, 4096); !errors.Is(err, audiotest.ErrInjected) {
		t.Errorf("Normalize() error = %v, want ErrInjected", err)
	}

	if _, err := Normalize(audiotest.NewSilentSource(44100, 1, 10), 0, 4096); !errors.Is(err, audio.ErrInvalidRate) {
		t.Errorf("Normalize(rate 0) error = %v, want ErrInvalidRate", err)
	}

	if _, err := Normalize(audiotest.NewSilentSource(0, 1, 10), CanonicalRate, 4096); !errors.Is(err, audio.ErrInvalidRate) {
		t.Errorf("Normalize(source rate 0) error = %v, want ErrInvalidRate", err)
	}
}

func BenchmarkNormalize(b *testing.B) {
	for b.Loop() {
		src := audiotest.NewSineSource(44100, 2, 44100, 440)
		if _, err := Normalize(src, CanonicalRate, 4096); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNormalize_Upsample(b *testing.B) {
	for b.Loop() {
		src := audiotest.NewSineSource(8000, 1, 8000, 440)
		if _, err := Normalize(src, CanonicalRate, 4096); err != nil {
			b.Fatal(err)
		}
	}
}
