// SPDX-License-Identifier: EPL-2.0

package audshout

import (
	"errors"
	"fmt"
)

var (
	ErrDecode        = errors.New("audio decode failed")
	ErrUnknownFormat = errors.New("unknown audio format")
	ErrEmptyAudio    = errors.New("no audio data")
)

// DecodeError reports a recording that could not be turned into samples.
// Format is the container that was tried, or the declared name when it was
// not recognised.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("%s: %v", ErrDecode, e.Err)
	}

	return fmt.Sprintf("%s (%s): %v", ErrDecode, e.Format, e.Err)
}

// Unwrap exposes both ErrDecode and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

func decodeError(format string, err error) error {
	return &DecodeError{Format: format, Err: err}
}
