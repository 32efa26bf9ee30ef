package engine

import (
	"errors"
	"sync"

	"github.com/icco/groovebox"
)

// AnalyserTap exposes the most recent audio frame for visualization.
type AnalyserTap interface {
	Read() groovebox.AnalyserFrame
}

// Session is the playback orchestrator. One session is active at a time;
// playing while already running first tears the old pass down completely.
type Session struct {
	mu        sync.Mutex // serializes control-thread operations
	clock     *Clock
	registry  *Registry
	scheduler *Scheduler
	tap       AnalyserTap
}

// NewSession builds a session over the given synthesizer and analyser tap.
// The tap may be nil, in which case Read returns zero frames.
func NewSession(synth Synthesizer, tap AnalyserTap) *Session {
	clock := NewClock(120)
	registry := NewRegistry(synth)
	return &Session{
		clock:     clock,
		registry:  registry,
		scheduler: NewScheduler(clock, registry),
		tap:       tap,
	}
}

// Clock returns the session's transport clock, for wiring into the audio
// callback.
func (s *Session) Clock() *Clock {
	return s.clock
}

// Play schedules every audible track from the snapshot and starts the clock.
// A running session is stopped first, so there are never two overlapping
// passes. An empty snapshot is a no-op. A track whose voice group cannot be
// built degrades to silence for that track only; its error is reported but
// the rest of the snapshot still plays.
func (s *Session) Play(tracks []groovebox.Track, tempo float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clock.Running() {
		s.stopLocked()
	}
	s.clock.SetTempo(groovebox.ClampTempo(tempo))

	if len(tracks) == 0 {
		return nil
	}

	var errs []error
	for _, track := range tracks {
		if _, err := s.scheduler.ScheduleTrack(track, tracks, s.clock.Tempo()); err != nil {
			errs = append(errs, err)
		}
	}
	s.clock.Start()
	return errors.Join(errs...)
}

// Stop halts the clock, cancels every pending trigger, and releases all
// sounding voices. Stopping an already-stopped session changes nothing.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Session) stopLocked() {
	s.clock.Stop()
	s.registry.ReleaseAll()
}

// SetTempo records a new tempo, clamped to the allowed range. While playing
// it takes effect on pending note onsets immediately; durations already
// scheduled keep their original length.
func (s *Session) SetTempo(bpm float64) {
	s.clock.SetTempo(groovebox.ClampTempo(bpm))
}

// Tempo returns the session tempo in BPM.
func (s *Session) Tempo() float64 {
	return s.clock.Tempo()
}

// SetTrackVolume re-applies a linear volume to a track's live voice group,
// for volume changes mid-playback. Mute and solo changes still take effect
// on the next Play pass.
func (s *Session) SetTrackVolume(trackID string, volume float64) {
	s.registry.SetVolume(trackID, volume)
}

// IsPlaying reflects the transport clock state.
func (s *Session) IsPlaying() bool {
	return s.clock.Running()
}

// Position returns the current transport position.
func (s *Session) Position() groovebox.TransportTime {
	return s.clock.Position()
}

// Read returns the most recent analyser frame; all zeros before any audio
// has played.
func (s *Session) Read() groovebox.AnalyserFrame {
	if s.tap == nil {
		return groovebox.AnalyserFrame{}
	}
	return s.tap.Read()
}

// Close tears the session down and frees every voice group.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.registry.DisposeAll()
}
