package engine

import (
	"errors"
	"sync"

	"github.com/icco/groovebox"
)

type fakeTrigger struct {
	freq       float64
	durSeconds float64
	velocity   float64
}

type fakeGroup struct {
	mu       sync.Mutex
	kind     groovebox.InstrumentKind
	gain     float64
	triggers []fakeTrigger
	releases int
	disposed bool
}

func (g *fakeGroup) TriggerAttackRelease(freq, durSeconds, velocity float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.triggers = append(g.triggers, fakeTrigger{freq, durSeconds, velocity})
}

func (g *fakeGroup) SetGain(gain float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gain = gain
}

func (g *fakeGroup) ReleaseAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.releases++
}

func (g *fakeGroup) Dispose() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.disposed = true
}

func (g *fakeGroup) triggerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.triggers)
}

var errNoVoices = errors.New("no voices left")

type fakeSynth struct {
	mu        sync.Mutex
	created   []*fakeGroup
	failKinds map[groovebox.InstrumentKind]bool
}

func (s *fakeSynth) NewVoiceGroup(kind groovebox.InstrumentKind) (VoiceGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failKinds[kind] {
		return nil, errNoVoices
	}
	g := &fakeGroup{kind: kind, gain: 1}
	s.created = append(s.created, g)
	return g, nil
}

func (s *fakeSynth) liveGroups() []*fakeGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	var live []*fakeGroup
	for _, g := range s.created {
		g.mu.Lock()
		if !g.disposed {
			live = append(live, g)
		}
		g.mu.Unlock()
	}
	return live
}
