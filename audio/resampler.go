// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Resampler converts src to a target sample rate with rational polyphase
// filtering (see ResamplePoly). Channel count is preserved.
//
// The first ReadSamples call drains src completely: the filter needs the
// whole clip, so Resampler is meant for complete, in-memory audio rather
// than live streams.
type Resampler struct {
	src      Source
	dstRate  int
	channels int

	out    []float32
	pos    int
	filled bool
	err    error
}

func NewResampler(src Source, dstRate int) *Resampler {
	return &Resampler{
		src:      src,
		dstRate:  dstRate,
		channels: src.Channels(),
	}
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("close resampled source: %w", err)
	}

	return nil
}

// Factors reports the reduced up/down pair used for the conversion.
func (r *Resampler) Factors() (up, down int, err error) {
	return RationalFactors(r.src.SampleRate(), r.dstRate)
}

func (r *Resampler) fill() error {
	up, down, err := r.Factors()
	if err != nil {
		return err
	}
	if r.channels < 1 {
		return ErrNoChannels
	}

	in, err := ReadAll(r.src, r.src.BufSize())
	if err != nil {
		return err
	}

	if up == down {
		r.out = in
		return nil
	}

	frames := len(in) / r.channels
	channel := make([]float64, frames)
	var outFrames int

	for c := range r.channels {
		for f := range frames {
			channel[f] = float64(in[f*r.channels+c])
		}

		y := ResamplePoly(channel, up, down)
		if r.out == nil {
			outFrames = len(y)
			r.out = make([]float32, outFrames*r.channels)
		}

		for f := range outFrames {
			r.out[f*r.channels+c] = float32(y[f])
		}
	}

	return nil
}

// ReadSamples produces interleaved samples at the target rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if r.channels > 0 && len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.filled {
		r.filled = true
		r.err = r.fill()
	}
	if r.err != nil {
		return 0, r.err
	}

	n := copy(dst, r.out[r.pos:])
	r.pos += n

	if r.pos >= len(r.out) {
		return n, io.EOF
	}

	return n, nil
}
