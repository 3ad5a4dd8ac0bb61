// SPDX-License-Identifier: EPL-2.0

package utils

import "testing"

func TestIntToFloat32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		v        int
		bitDepth int
		want     float32
	}{
		{name: "8-bit min", v: -128, bitDepth: 8, want: -1},
		{name: "8-bit half", v: 64, bitDepth: 8, want: 0.5},
		{name: "16-bit min", v: -32768, bitDepth: 16, want: -1},
		{name: "16-bit half", v: 16384, bitDepth: 16, want: 0.5},
		{name: "24-bit quarter", v: -2097152, bitDepth: 24, want: -0.25},
		{name: "32-bit half", v: 1 << 30, bitDepth: 32, want: 0.5},
		{name: "unknown depth as 16-bit", v: 8192, bitDepth: 12, want: 0.25},
		{name: "zero", v: 0, bitDepth: 24, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IntToFloat32(tt.v, tt.bitDepth); got != tt.want {
				t.Errorf("IntToFloat32(%d, %d) = %v, want %v", tt.v, tt.bitDepth, got, tt.want)
			}
		})
	}
}
