// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis decoding on top of
// github.com/jfreymuth/oggvorbis.
//
// The decoder keeps the stream's native channel layout and rate. Samples are
// produced as interleaved float32 values already in [-1,1].
package vorbis
