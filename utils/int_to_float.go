// SPDX-License-Identifier: EPL-2.0

package utils

// IntToFloat32 maps a signed integer PCM sample of the given bit depth to [-1,1).
// Unknown depths are treated as 16-bit.
func IntToFloat32(v int, bitDepth int) float32 {
	var scale float64
	switch bitDepth {
	case 8:
		scale = 128.0
	case 24:
		scale = 8388608.0
	case 32:
		scale = 2147483648.0
	default:
		scale = 32768.0
	}

	return float32(float64(v) / scale)
}
