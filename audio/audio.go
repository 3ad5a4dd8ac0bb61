// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"slices"
	"sync"
)

// Source is a pull-based stream of interleaved float32 PCM.
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	// BufSize is the read size, in samples, the source prefers.
	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps format keys (e.g., "wav", "mp3", "ogg") to decoders.
// It is safe for concurrent use.
type Registry struct {
	codecs map[string]Decoder

	mtx sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	d, ok := r.codecs[format]
	return d, ok
}

// Formats returns the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	keys := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}
