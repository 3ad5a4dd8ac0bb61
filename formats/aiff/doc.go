// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode uncompressed AIFF
// files with 8, 16, 24 or 32-bit signed samples, any channel count and any
// sample rate. Input that is not an io.ReadSeeker is buffered in memory.
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // errors.Is(err, aiff.ErrNotAiffFile) for foreign input
//	}
package aiff
