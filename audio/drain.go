// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// ReadAll drains src and returns every interleaved sample it produced.
// bufferSize is the per-read request size; values <= 0 fall back to src.BufSize().
// The request size is rounded down to a whole number of frames.
func ReadAll(src Source, bufferSize int) ([]float32, error) {
	channels := src.Channels()
	if channels < 1 {
		return nil, ErrNoChannels
	}

	if bufferSize <= 0 {
		bufferSize = src.BufSize()
	}
	if bufferSize < channels {
		bufferSize = 4096
	}
	bufferSize -= bufferSize % channels

	buf := make([]float32, bufferSize)
	out := make([]float32, 0, bufferSize*4)

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read samples: %w", err)
		}

		if n == 0 {
			// A source that makes no progress without reporting EOF is treated as finished.
			break
		}
	}

	return out, nil
}
