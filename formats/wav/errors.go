// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrUnsupportedEncoding  = errors.New("only integer PCM WAV is supported")
	ErrUnsupportedBitDepth  = errors.New("unsupported WAV bit depth")
	ErrMissingData          = errors.New("WAV data chunk not found")
	ErrInvalidChannels      = errors.New("channel count must be positive")
)
