package engine

import "github.com/icco/groovebox"

// Scheduler walks a track's notes and registers each one as a trigger on the
// shared transport clock.
type Scheduler struct {
	clock    *Clock
	registry *Registry
}

// NewScheduler wires a scheduler to a clock and registry.
func NewScheduler(clock *Clock, registry *Registry) *Scheduler {
	return &Scheduler{clock: clock, registry: registry}
}

// ScheduleTrack prepares a track for playback at the given tempo: it builds
// the track's instrument, applies its effective gain, and registers one
// trigger per note. Note onsets are registered in beats, so they follow
// later tempo changes; note durations are converted to seconds here, at
// schedule time, and stay fixed afterwards. Returns the number of triggers
// registered.
func (s *Scheduler) ScheduleTrack(track groovebox.Track, all []groovebox.Track, bpm float64) (int, error) {
	gain := EffectiveGain(track, all)
	if gain == 0 {
		return 0, nil
	}

	group, err := s.registry.EnsureInstrument(track.ID, track.Instrument)
	if err != nil {
		return 0, err
	}
	group.SetGain(gain)

	for _, note := range track.Notes {
		freq := note.Frequency()
		durSeconds := groovebox.DurationSeconds(note.Duration, bpm)
		velocity := note.Velocity
		s.clock.Schedule(note.Position, func() {
			group.TriggerAttackRelease(freq, durSeconds, velocity)
		})
	}
	return len(track.Notes), nil
}
