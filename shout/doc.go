// SPDX-License-Identifier: EPL-2.0

// Package shout detects sustained, non-impulsive loud segments ("shouts") in
// a mono signal.
//
// The signal is cut into overlapping windows (200 ms window, 100 ms hop by
// default). Each window is measured for RMS level in dBFS and crest factor.
// A window qualifies when it is at least as loud as the threshold and its
// crest factor stays below the configured maximum, which rejects clicks and
// other impulsive noise. Consecutive qualifying windows form a run; the first
// run lasting at least MinRunMs is reported.
//
// Levels are measured against a full scale of 32768, so samples are expected
// in the ±32768 domain produced by audshout.Normalize.
//
//	det, err := shout.New(shout.DefaultConfig())
//	res := det.Detect(shout.Signal{Samples: pcm, SampleRate: 16000})
//	if res.Present {
//	    fmt.Println(*res.StartMs, *res.PeakDBFS)
//	}
//
// A Detector holds no mutable state and can be shared between goroutines.
package shout
