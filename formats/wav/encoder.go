// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audshout/utils"
)

// Encode writes interleaved [-1,1] samples as a 16-bit PCM WAV file.
// Out of range samples are clipped. The writer is not closed.
func Encode(w io.WriteSeeker, sampleRate, channels int, samples []float32) error {
	if channels < 1 {
		return ErrInvalidChannels
	}

	data := make([]int, len(samples)-len(samples)%channels)
	for i := range data {
		data[i] = int(utils.Float32ToInt16(samples[i]))
	}

	enc := gowav.NewEncoder(w, sampleRate, 16, channels, formatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav pcm: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}

	return nil
}
