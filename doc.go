// SPDX-License-Identifier: EPL-2.0

// Package audshout finds sustained loud segments ("shouts") in recorded audio.
//
// The package glues the codec packages under formats/ to the detector in
// shout/. A call takes the raw bytes of a complete recording, decodes them,
// mixes them down to mono, resamples to 16kHz with a rational polyphase
// filter and hands the result to a shout.Detector.
//
// # Supported Formats
//
//   - WAV (PCM 8/16/24/32-bit) via formats/wav
//   - AIFF (PCM 8/16/24/32-bit) via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - FLAC via formats/flac
//
// The container is taken from the declared format name ("wav", "audio/mpeg",
// ".ogg", ...) or, when none is declared, from the leading magic bytes.
//
// # Quick Start
//
//	det, err := shout.New(shout.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//
//	data, _ := os.ReadFile("call.wav")
//	res, err := audshout.Detect(data, "", det)
//	if errors.Is(err, audshout.ErrDecode) {
//	    // not audio, or a container we cannot read
//	}
//
//	if res.Present {
//	    fmt.Printf("shout at %dms\n", *res.StartMs)
//	}
//
// # Processing Pipeline
//
// Detect is DecodeBytes, Normalize and Detector.Detect in sequence. The steps
// are exported for callers that need the intermediate signal:
//
//	src, format, err := audshout.DecodeBytes(data, "mp3")
//	sig, err := audshout.Normalize(src, audshout.CanonicalRate, 4096)
//	res := det.Detect(sig)
//
// Every decode failure is returned as a *DecodeError, which matches ErrDecode
// with errors.Is.
package audshout
