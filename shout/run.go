// SPDX-License-Identifier: EPL-2.0

package shout

// Run is a half-open span [Start, End) of samples covered by consecutive
// qualifying frames.
type Run struct {
	Start    int
	End      int
	PeakDBFS float64
}

// DurationMs is the run length in milliseconds at rate.
func (r Run) DurationMs(rate int) float64 {
	return float64(r.End-r.Start) * 1000 / float64(rate)
}

// runDetector is the Idle/Accumulating state machine over frame metrics.
type runDetector struct {
	rate     int
	winLen   int
	minRunMs float64

	active bool
	run    Run
}

func newRunDetector(rate, winLen, minRunMs int) *runDetector {
	return &runDetector{rate: rate, winLen: winLen, minRunMs: float64(minRunMs)}
}

// step feeds one frame. It returns a run as soon as a run long enough closes.
func (d *runDetector) step(m FrameMetrics, qualifies bool) (Run, bool) {
	if qualifies {
		if !d.active {
			d.active = true
			d.run = Run{Start: m.Offset, End: m.Offset + d.winLen, PeakDBFS: m.DBFS}
			return Run{}, false
		}

		d.run.End = m.Offset + d.winLen
		d.run.PeakDBFS = max(d.run.PeakDBFS, m.DBFS)

		return Run{}, false
	}

	return d.close()
}

// finish evaluates a run still open at the end of input.
func (d *runDetector) finish() (Run, bool) {
	return d.close()
}

func (d *runDetector) close() (Run, bool) {
	if !d.active {
		return Run{}, false
	}

	d.active = false
	if d.run.DurationMs(d.rate) >= d.minRunMs {
		return d.run, true
	}

	return Run{}, false
}
