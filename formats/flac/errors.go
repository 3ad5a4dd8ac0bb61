// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

// ErrNotFlacFile is returned when the input cannot be parsed as FLAC.
var ErrNotFlacFile = errors.New("not a FLAC file")
