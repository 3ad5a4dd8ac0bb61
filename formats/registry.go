// SPDX-License-Identifier: EPL-2.0

// Package formats wires the individual codec packages into an audio.Registry
// and identifies containers from their leading bytes.
package formats

import (
	"bytes"
	"strings"

	"github.com/ik5/audshout/audio"
	"github.com/ik5/audshout/formats/aiff"
	"github.com/ik5/audshout/formats/flac"
	"github.com/ik5/audshout/formats/mp3"
	"github.com/ik5/audshout/formats/vorbis"
	"github.com/ik5/audshout/formats/wav"
)

// Canonical format keys.
const (
	WAV  = "wav"
	AIFF = "aiff"
	MP3  = "mp3"
	OGG  = "ogg"
	FLAC = "flac"
)

// SniffLen is the number of leading bytes Sniff looks at.
const SniffLen = 12

var aliases = map[string]string{
	"wav":    WAV,
	"wave":   WAV,
	"x-wav":  WAV,
	"aiff":   AIFF,
	"aif":    AIFF,
	"aifc":   AIFF,
	"mp3":    MP3,
	"mpeg":   MP3,
	"ogg":    OGG,
	"oga":    OGG,
	"vorbis": OGG,
	"flac":   FLAC,
}

// NewRegistry returns a registry holding every decoder the module ships.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register(WAV, wav.Decoder{})
	r.Register(AIFF, aiff.Decoder{})
	r.Register(MP3, mp3.Decoder{})
	r.Register(OGG, vorbis.Decoder{})
	r.Register(FLAC, flac.Decoder{})

	return r
}

// Canonical maps a user supplied format name, extension or MIME subtype to a
// registry key. Leading dots and "audio/" prefixes are ignored.
func Canonical(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimPrefix(key, "audio/")
	key = strings.TrimPrefix(key, ".")

	c, ok := aliases[key]
	return c, ok
}

// Sniff identifies the container from its magic bytes.
func Sniff(header []byte) (string, bool) {
	switch {
	case len(header) >= 12 && bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return WAV, true
	case len(header) >= 12 && bytes.Equal(header[0:4], []byte("FORM")) &&
		(bytes.Equal(header[8:12], []byte("AIFF")) || bytes.Equal(header[8:12], []byte("AIFC"))):
		return AIFF, true
	case bytes.HasPrefix(header, []byte("OggS")):
		return OGG, true
	case bytes.HasPrefix(header, []byte("fLaC")):
		return FLAC, true
	case bytes.HasPrefix(header, []byte("ID3")):
		return MP3, true
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		// MPEG audio frame sync.
		return MP3, true
	}

	return "", false
}
