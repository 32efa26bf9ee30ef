package audio

import (
	"sync/atomic"

	"github.com/icco/groovebox"
)

// Analyser taps the mixed output and keeps the most recent complete frame.
// The audio goroutine is the only writer; it accumulates samples into a
// scratch frame and publishes finished frames with an atomic pointer swap,
// so Read never blocks the render path and readers at worst see a frame one
// publish behind.
type Analyser struct {
	current atomic.Pointer[groovebox.AnalyserFrame]
	scratch groovebox.AnalyserFrame
	n       int
}

func newAnalyser() *Analyser {
	return &Analyser{}
}

// push appends one mono sample; called from the render loop.
func (a *Analyser) push(sample float32) {
	a.scratch[a.n] = sample
	a.n++
	if a.n == groovebox.AnalyserFrameSize {
		frame := a.scratch
		a.current.Store(&frame)
		a.n = 0
	}
}

// Read returns the most recent published frame. Before any audio has ever
// been rendered it returns a frame of zeros.
func (a *Analyser) Read() groovebox.AnalyserFrame {
	if f := a.current.Load(); f != nil {
		return *f
	}
	return groovebox.AnalyserFrame{}
}
