package engine

import (
	"fmt"
	"sync"

	"github.com/icco/groovebox"
)

// VoiceGroup is the per-track synthesis handle the core drives. The concrete
// implementation lives in internal/audio.
type VoiceGroup interface {
	// TriggerAttackRelease sounds a note at freq Hz for durSeconds of
	// wall-clock time at the given velocity (0-1).
	TriggerAttackRelease(freq, durSeconds, velocity float64)
	// SetGain sets the group's linear volume multiplier (0-1).
	SetGain(gain float64)
	// ReleaseAll immediately releases every sounding note.
	ReleaseAll()
	// Dispose frees the group's resources.
	Dispose()
}

// Synthesizer creates voice groups. Unknown instrument kinds must fall back
// to a default preset rather than fail.
type Synthesizer interface {
	NewVoiceGroup(kind groovebox.InstrumentKind) (VoiceGroup, error)
}

// Registry owns exactly one live voice group per track id. Replacing a
// track's instrument disposes the previous group first, so doubled or ghost
// sound from two coexisting groups cannot happen.
type Registry struct {
	mu     sync.Mutex
	synth  Synthesizer
	groups map[string]VoiceGroup
}

// NewRegistry returns an empty registry backed by the given synthesizer.
func NewRegistry(synth Synthesizer) *Registry {
	return &Registry{
		synth:  synth,
		groups: make(map[string]VoiceGroup),
	}
}

// EnsureInstrument replaces any existing voice group for the track with a
// freshly configured one and returns it. Construction failure is recoverable
// and scoped to this track; the registry ends up holding no group for it.
func (r *Registry) EnsureInstrument(trackID string, kind groovebox.InstrumentKind) (VoiceGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.groups[trackID]; ok {
		old.Dispose()
		delete(r.groups, trackID)
	}
	g, err := r.synth.NewVoiceGroup(kind)
	if err != nil {
		return nil, fmt.Errorf("creating %s voice group for track %s: %w", kind, trackID, err)
	}
	r.groups[trackID] = g
	return g, nil
}

// SetVolume applies a linear 0-1 gain to the track's voice group. No-op if
// the track has none.
func (r *Registry) SetVolume(trackID string, volume float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.groups[trackID]; ok {
		g.SetGain(volume)
	}
}

// ReleaseAll silences every sounding note on every registered group.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.groups {
		g.ReleaseAll()
	}
}

// DisposeAll frees every voice group; the registry becomes empty.
func (r *Registry) DisposeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, g := range r.groups {
		g.Dispose()
		delete(r.groups, id)
	}
}

// Len reports the number of live voice groups.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.groups)
}
