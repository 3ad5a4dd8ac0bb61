// SPDX-License-Identifier: EPL-2.0

package audshout_test

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ik5/audshout"
	"github.com/ik5/audshout/formats/wav"
	"github.com/ik5/audshout/internal/audiotest"
	"github.com/ik5/audshout/shout"
)

// Example_detect runs the detector over a WAV recording held in memory.
func Example_detect() {
	f, err := os.CreateTemp("", "audshout-*.wav")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.Remove(f.Name())

	pcm := audiotest.Render(16000,
		audiotest.Silence(500*time.Millisecond),
		audiotest.Tone(time.Second, -5, 440),
		audiotest.Silence(500*time.Millisecond),
	)
	if err := wav.Encode(f, 16000, 1, pcm); err != nil {
		fmt.Println(err)
		return
	}
	f.Close()

	data, _ := os.ReadFile(f.Name())

	det, _ := shout.New(shout.DefaultConfig(), shout.WithLogger(slog.New(slog.DiscardHandler)))

	res, err := audshout.Detect(data, "", det)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(res)
	// Output: shout 400-1600ms (1.20s) peak -5.00 dBFS confidence 0.60
}

// Example_decodeError shows how undecodable input is reported.
func Example_decodeError() {
	det, _ := shout.New(shout.DefaultConfig(), shout.WithLogger(slog.New(slog.DiscardHandler)))

	_, err := audshout.Detect([]byte("not an audio file"), "", det)

	fmt.Println(errors.Is(err, audshout.ErrDecode))
	fmt.Println(errors.Is(err, audshout.ErrUnknownFormat))
	fmt.Println(err)
	// Output:
	// true
	// true
	// audio decode failed: unknown audio format
}

// Example_normalize decodes and normalises without running the detector.
func Example_normalize() {
	src := audiotest.NewSineSource(44100, 2, 44100, 440)

	sig, err := audshout.Normalize(src, audshout.CanonicalRate, 4096)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%d samples at %d Hz (%v)\n", len(sig.Samples), sig.SampleRate, sig.Duration())
	// Output: 16000 samples at 16000 Hz (1s)
}
