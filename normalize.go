// SPDX-License-Identifier: EPL-2.0

package audshout

import (
	"fmt"

	"github.com/ik5/audshout/audio"
	"github.com/ik5/audshout/shout"
	"github.com/ik5/audshout/utils"
)

// CanonicalRate is the sample rate the detector analyses at.
const CanonicalRate = shout.DefaultSampleRate

// Normalize turns src into the detector's input: channels are averaged to
// mono, the result is resampled to targetRate and every sample is clipped to
// [-1,1] and scaled by 32768.
//
// This creates the processing pipeline:
//  1. Mixes the source down to mono by averaging channels
//  2. Resamples with the polyphase filter (skipped when rates match)
//  3. Reads all samples from the pipeline
//  4. Clips and rescales to the ±32768 amplitude domain
//
// bufferSize is the per-read request size; values <= 0 use src.BufSize().
// src is not closed.
func Normalize(src audio.Source, targetRate int, bufferSize int) (shout.Signal, error) {
	if targetRate <= 0 {
		return shout.Signal{}, fmt.Errorf("normalize to %d Hz: %w", targetRate, audio.ErrInvalidRate)
	}

	mono := audio.NewMonoMixer(src)
	resampled := audio.NewResampler(mono, targetRate)

	pcm, err := audio.ReadAll(resampled, bufferSize)
	if err != nil {
		return shout.Signal{}, fmt.Errorf("normalize: %w", err)
	}

	samples := make([]float64, len(pcm))
	for i, x := range pcm {
		samples[i] = utils.ClipScale(x)
	}

	return shout.Signal{Samples: samples, SampleRate: targetRate}, nil
}
