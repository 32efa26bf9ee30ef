// Package groovebox holds the domain types for a multi-track beat sequencer:
// tracks, notes, instrument kinds, and the conversions between musical time
// and wall-clock time. Everything here is plain data; playback lives in
// internal/engine and synthesis in internal/audio.
package groovebox

import (
	"fmt"
	"math"
)

// InstrumentKind selects the synthesis preset for a track.
type InstrumentKind int

const (
	KindDrums InstrumentKind = iota
	KindBass
	KindSynth
	KindPiano
	KindGuitar
	KindPad
)

var kindNames = [...]string{"drums", "bass", "synth", "piano", "guitar", "pad"}

func (k InstrumentKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseInstrumentKind maps a name to its kind. Unknown names report ok=false;
// callers fall back to a default preset rather than failing.
func ParseInstrumentKind(name string) (InstrumentKind, bool) {
	for i, n := range kindNames {
		if n == name {
			return InstrumentKind(i), true
		}
	}
	return KindSynth, false
}

// PitchClass is one of the twelve chromatic pitch classes, C = 0.
type PitchClass int

const (
	C PitchClass = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var pitchNames = [...]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (p PitchClass) String() string {
	if p < 0 || int(p) >= len(pitchNames) {
		return "?"
	}
	return pitchNames[p]
}

// MIDINote returns the MIDI note number for this pitch class in the given
// octave, so C in octave 4 is 60.
func (p PitchClass) MIDINote(octave int) int {
	return (octave+1)*12 + int(p)
}

// Frequency returns the equal-temperament frequency in Hz, with A4 = 440 Hz.
func (p PitchClass) Frequency(octave int) float64 {
	return 440.0 * math.Pow(2.0, (float64(p.MIDINote(octave))-69.0)/12.0)
}

// PitchFromMIDI is the inverse of MIDINote.
func PitchFromMIDI(note int) (PitchClass, int) {
	return PitchClass(note % 12), note/12 - 1
}

// DurationClass is a symbolic note length.
type DurationClass int

const (
	Whole DurationClass = iota
	Half
	Quarter
	Eighth
	Sixteenth
)

var durationBeats = [...]float64{4, 2, 1, 0.5, 0.25}

// Beats returns the length of the duration in quarter-note beats.
func (d DurationClass) Beats() float64 {
	if d < 0 || int(d) >= len(durationBeats) {
		return 1
	}
	return durationBeats[d]
}

// NearestDuration picks the duration class closest to a length in beats.
func NearestDuration(beats float64) DurationClass {
	best, bestDiff := Quarter, math.Inf(1)
	for i, b := range durationBeats {
		if diff := math.Abs(beats - b); diff < bestDiff {
			best, bestDiff = DurationClass(i), diff
		}
	}
	return best
}

// Note is one scheduled sound on a track. Position is a fractional beat
// offset from the start of the track, never negative. Velocity is 0-1.
type Note struct {
	Pitch    PitchClass
	Octave   int
	Duration DurationClass
	Position float64
	Velocity float64
}

// Frequency returns the note's pitch frequency in Hz.
func (n Note) Frequency() float64 {
	return n.Pitch.Frequency(n.Octave)
}

func (n Note) String() string {
	return fmt.Sprintf("%s%d@%g", n.Pitch, n.Octave, n.Position)
}

// Track is a read-only snapshot of one sequencer track. The playback core
// never mutates it; the project state owns the live copy.
type Track struct {
	ID            string
	Instrument    InstrumentKind
	TimeSignature [2]int
	Volume        float64
	Muted         bool
	Solo          bool
	Notes         []Note
}

// AnalyserFrameSize is the number of samples in an analyser frame.
const AnalyserFrameSize = 1024

// AnalyserFrame is a snapshot of the most recent mixed output, mono samples
// in the range -1..1. A zero frame means nothing has been audible yet.
type AnalyserFrame [AnalyserFrameSize]float32
