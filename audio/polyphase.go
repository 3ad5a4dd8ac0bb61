// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/audshout/utils"
)

// kaiserBeta is the Kaiser window shape used for the anti-aliasing filter.
const kaiserBeta = 5.0

// halfLenPerRate sets the filter half length as a multiple of max(up, down).
const halfLenPerRate = 10

// RationalFactors reduces srcRate/dstRate to the smallest integer up/down pair
// such that dstRate = srcRate * up / down.
func RationalFactors(srcRate, dstRate int) (up, down int, err error) {
	if srcRate <= 0 || dstRate <= 0 {
		return 0, 0, ErrInvalidRate
	}

	g := utils.GCD(srcRate, dstRate)

	return dstRate / g, srcRate / g, nil
}

// ResamplePoly changes the rate of x by up/down using polyphase filtering:
// conceptually x is zero-stuffed by up, low-pass filtered with a Kaiser
// windowed sinc, and decimated by down. The output has ceil(len(x)*up/down)
// samples and output sample m is aligned with input time m*down/up.
// Samples outside x are treated as zero.
func ResamplePoly(x []float64, up, down int) []float64 {
	if up <= 0 || down <= 0 {
		return nil
	}

	if g := utils.GCD(up, down); g > 1 {
		up /= g
		down /= g
	}

	if up == 1 && down == 1 {
		return append([]float64(nil), x...)
	}

	n := len(x)
	if n == 0 {
		return []float64{}
	}

	h, halfLen := designFilter(up, down)
	taps := len(h)

	nOut := (n*up + down - 1) / down
	out := make([]float64, nOut)

	for m := range out {
		// t indexes the upsampled, filtered stream; the filter is centred on it.
		t := m*down + halfLen

		kMax := t / up
		if kMax > n-1 {
			kMax = n - 1
		}

		kMin := 0
		if lo := t - (taps - 1); lo > 0 {
			kMin = (lo + up - 1) / up
		}

		var acc float64
		for k := kMin; k <= kMax; k++ {
			acc += x[k] * h[t-k*up]
		}
		out[m] = acc
	}

	return out
}

// designFilter builds the low-pass prototype for an up/down conversion.
// The cutoff sits at the lower of the two Nyquist frequencies, the DC gain is
// normalised to 1 and then scaled by up to compensate for zero stuffing.
func designFilter(up, down int) ([]float64, int) {
	maxRate := max(up, down)
	cutoff := 1.0 / float64(maxRate)
	halfLen := halfLenPerRate * maxRate
	taps := 2*halfLen + 1

	h := make([]float64, taps)
	var sum float64

	denom := besselI0(kaiserBeta)
	for i := range h {
		m := float64(i - halfLen)
		ratio := 2*float64(i)/float64(taps-1) - 1
		w := besselI0(kaiserBeta*math.Sqrt(max(0, 1-ratio*ratio))) / denom

		h[i] = cutoff * sinc(cutoff*m) * w
		sum += h[i]
	}

	gain := float64(up) / sum
	for i := range h {
		h[i] *= gain
	}

	return h, halfLen
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}

	px := math.Pi * x
	return math.Sin(px) / px
}

// besselI0 evaluates the zeroth order modified Bessel function of the first
// kind by its power series.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	half := x / 2

	for k := 1; k < 500; k++ {
		f := half / float64(k)
		term *= f * f
		sum += term
		if term < sum*1e-16 {
			break
		}
	}

	return sum
}
