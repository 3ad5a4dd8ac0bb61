// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

// ErrNotVorbisStream is returned when the input is not an Ogg Vorbis stream.
var ErrNotVorbisStream = errors.New("not an Ogg Vorbis stream")
