// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// FullScale is the amplitude that maps to 0 dBFS in the integer-like sample domain.
const FullScale = 32768.0

// Float32ToInt16 converts a [-1,1] sample to 16-bit PCM, clamping out of range input.
func Float32ToInt16(x float32) int16 {
	v := float64(clamp(x)) * FullScale
	if v > math.MaxInt16 {
		return math.MaxInt16
	}

	return int16(v)
}

// ClipScale clips x to [-1,1] and scales it to the FullScale reference.
func ClipScale(x float32) float64 {
	return float64(clamp(x)) * FullScale
}

func clamp(x float32) float32 {
	if x > 1 {
		return 1
	} else if x < -1 {
		return -1
	}

	return x
}
