// SPDX-License-Identifier: EPL-2.0

// Package audio provides low-level audio processing primitives.
//
// This package contains the building blocks used to bring arbitrary decoded
// audio into the canonical analysis form:
//   - Source interface for audio input
//   - Resampler for rational polyphase sample rate conversion
//   - MonoMixer for channel mixing
//   - ReadAll for draining a source into memory
//   - Format registry for decoder registration
//
// # Source Interface
//
// The Source interface is the foundation of audio processing:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// All audio decoders and processors implement this interface, allowing
// them to be chained together in processing pipelines.
//
// # Resampling
//
// The Resampler reduces the source and target rates to an up/down pair and
// applies a Kaiser windowed sinc low-pass filter in polyphase form:
//
//	resampler := audio.NewResampler(source, 16000)
//	samples, err := audio.ReadAll(resampler, 0)
//
// For a clip of n frames the output holds ceil(n*up/down) frames. The whole
// clip is read on the first call, which suits complete recordings.
//
// # Channel Mixing
//
// The MonoMixer converts multi-channel audio to mono by averaging:
//
//	mono := audio.NewMonoMixer(source)
//
// # Pipeline
//
// Mixing before resampling keeps the filter work to a single channel:
//
//	src, _ := decoder.Decode(r)
//	mono := audio.NewMonoMixer(src)
//	pcm, err := audio.ReadAll(audio.NewResampler(mono, 16000), 0)
package audio
