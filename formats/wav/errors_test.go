// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors(t *testing.T) {
	t.Parallel()

	all := []error{
		ErrNotWavFile,
		ErrUnsupportedWavLayout,
		ErrUnsupportedEncoding,
		ErrUnsupportedBitDepth,
		ErrMissingData,
		ErrInvalidChannels,
	}

	for i, err := range all {
		wrapped := fmt.Errorf("decode: %w", err)
		if !errors.Is(wrapped, err) {
			t.Errorf("%v: errors.Is() failed for wrapped error", err)
		}

		for j, other := range all {
			if i != j && errors.Is(err, other) {
				t.Errorf("%v must not match %v", err, other)
			}
		}
	}
}
