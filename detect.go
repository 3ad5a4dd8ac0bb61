// SPDX-License-Identifier: EPL-2.0

package audshout

import (
	"bytes"

	"github.com/ik5/audshout/audio"
	"github.com/ik5/audshout/formats"
	"github.com/ik5/audshout/shout"
)

var registry = formats.NewRegistry()

// ResolveFormat picks the registry key for data. A non-empty declared name
// wins; otherwise the container is sniffed from the leading bytes.
func ResolveFormat(data []byte, declared string) (string, error) {
	if declared != "" {
		f, ok := formats.Canonical(declared)
		if !ok {
			return "", decodeError(declared, ErrUnknownFormat)
		}

		return f, nil
	}

	if len(data) == 0 {
		return "", decodeError("", ErrEmptyAudio)
	}

	f, ok := formats.Sniff(data[:min(len(data), formats.SniffLen)])
	if !ok {
		return "", decodeError("", ErrUnknownFormat)
	}

	return f, nil
}

// DecodeBytes opens data with the decoder for its format and returns the
// source together with the canonical format name. The caller closes the source.
func DecodeBytes(data []byte, declared string) (audio.Source, string, error) {
	format, err := ResolveFormat(data, declared)
	if err != nil {
		return nil, "", err
	}

	dec, ok := registry.Get(format)
	if !ok {
		return nil, format, decodeError(format, ErrUnknownFormat)
	}

	src, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, decodeError(format, err)
	}

	return src, format, nil
}

// DecodeSignal decodes data and normalises it to CanonicalRate mono.
// Read failures part way through the stream are reported as decode errors.
func DecodeSignal(data []byte, declared string) (shout.Signal, error) {
	src, format, err := DecodeBytes(data, declared)
	if err != nil {
		return shout.Signal{}, err
	}
	defer src.Close()

	sig, err := Normalize(src, CanonicalRate, src.BufSize())
	if err != nil {
		return shout.Signal{}, decodeError(format, err)
	}

	return sig, nil
}

// Detect decodes a complete recording and runs det over it. A recording that
// decodes to no samples yields an absent result, not an error.
func Detect(data []byte, declared string, det *shout.Detector) (shout.Result, error) {
	sig, err := DecodeSignal(data, declared)
	if err != nil {
		return shout.Absent(), err
	}

	return det.Detect(sig), nil
}
