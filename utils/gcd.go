// SPDX-License-Identifier: EPL-2.0

package utils

// GCD returns the greatest common divisor of a and b. GCD(0, 0) is 0.
func GCD(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}

	return a
}
