// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3, which always emits 16-bit
// stereo PCM: mono files come out with both channels equal. The source only
// returns whole stereo frames even when the decoder splits a frame across
// reads.
//
//	src, err := mp3.Decoder{}.Decode(file)
//	if errors.Is(err, mp3.ErrNotMP3File) {
//	    // not an MP3 stream
//	}
package mp3
