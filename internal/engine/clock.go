// Package engine is the playback core: it turns read-only track snapshots
// into triggers on a shared transport clock and drives the per-track voice
// groups through the InstrumentRegistry. The synthesis primitive is opaque
// behind the Synthesizer and VoiceGroup interfaces.
package engine

import (
	"sync"

	"github.com/icco/groovebox"
)

type trigger struct {
	at   float64 // musical position in beats
	fire func()
}

// Clock is the shared transport clock. Musical time advances from the audio
// callback via Advance; everything else is called from the control thread.
// Trigger positions are kept in beats, so a tempo change reinterprets every
// pending onset at the new rate. Durations captured inside the fire closures
// were converted to seconds at schedule time and do not rescale.
type Clock struct {
	mu       sync.Mutex
	running  bool
	bpm      float64
	pos      float64 // position in beats
	triggers []trigger
}

// NewClock returns a stopped clock at the given tempo.
func NewClock(bpm float64) *Clock {
	return &Clock{bpm: bpm}
}

// Schedule registers a trigger at a musical position. Triggers survive until
// they fire or the clock stops.
func (c *Clock) Schedule(atBeats float64, fire func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if atBeats < 0 {
		atBeats = 0
	}
	c.triggers = append(c.triggers, trigger{at: atBeats, fire: fire})
}

// Start begins advancing musical time from position zero. All registered
// triggers become live.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = 0
	c.running = true
}

// Stop halts the clock, cancels every pending trigger, and resets the
// position for the next Start. Nothing fires after Stop returns.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.pos = 0
	c.triggers = nil
}

// SetTempo updates the rate of musical-time advancement. While stopped it
// just records the tempo for the next Start.
func (c *Clock) SetTempo(bpm float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bpm = bpm
}

// Tempo returns the current tempo in BPM.
func (c *Clock) Tempo() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bpm
}

// Running reports whether the clock is advancing.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Position returns the current musical position as transport notation.
func (c *Clock) Position() groovebox.TransportTime {
	c.mu.Lock()
	defer c.mu.Unlock()
	return groovebox.TransportPosition(c.pos)
}

// Advance moves musical time forward by a wall-clock interval and fires the
// triggers whose positions were crossed. Firing happens under the clock
// lock, so Stop cannot interleave with it: once Stop returns, nothing fires.
// Fire functions may drive voice groups but must not call back into the
// clock.
func (c *Clock) Advance(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	next := c.pos + seconds*c.bpm/60

	kept := c.triggers[:0]
	for _, t := range c.triggers {
		if t.at >= c.pos && t.at < next {
			t.fire()
		} else {
			kept = append(kept, t)
		}
	}
	c.triggers = kept
	c.pos = next
}
