// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC files using github.com/gopxl/beep/flac.
//
// beep streams stereo pairs for every file. Mono files are exposed as one
// channel; files with more than two channels are reduced to the first two by
// the underlying decoder.
package flac
