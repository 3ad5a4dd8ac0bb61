// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Decoding is built on github.com/go-audio/wav and accepts integer PCM
// (format tag 1 or WAVE_FORMAT_EXTENSIBLE) at 8, 16, 24 and 32 bits with any
// channel count and sample rate. Chunks other than "fmt " and "data" are
// skipped. IEEE float and compressed encodings are rejected with
// ErrUnsupportedEncoding.
//
//	src, err := wav.Decoder{}.Decode(file)
//	samples, err := audio.ReadAll(src, 0)
//
// Encode writes 16-bit PCM and needs an io.WriteSeeker so the RIFF sizes can
// be patched once all samples are written:
//
//	f, _ := os.Create("out.wav")
//	err := wav.Encode(f, 16000, 1, samples)
package wav
