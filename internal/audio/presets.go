package audio

import "github.com/icco/groovebox"

// WaveType represents different oscillator wave shapes.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSawtooth
	WaveTriangle
)

// Preset is the fixed synthesis configuration for one instrument kind:
// an oscillator shape and an ADSR envelope, times in seconds.
type Preset struct {
	Wave    WaveType
	Attack  float64
	Decay   float64
	Sustain float64 // level 0-1, not a time
	Release float64
}

var presets = map[groovebox.InstrumentKind]Preset{
	groovebox.KindDrums:  {Wave: WaveSquare, Attack: 0.001, Decay: 0.06, Sustain: 0, Release: 0.05},
	groovebox.KindBass:   {Wave: WaveSquare, Attack: 0.01, Decay: 0.1, Sustain: 0.8, Release: 0.1},
	groovebox.KindSynth:  {Wave: WaveSawtooth, Attack: 0.005, Decay: 0.1, Sustain: 0.7, Release: 0.15},
	groovebox.KindPiano:  {Wave: WaveSine, Attack: 0.002, Decay: 0.3, Sustain: 0.5, Release: 0.2},
	groovebox.KindGuitar: {Wave: WaveTriangle, Attack: 0.005, Decay: 0.2, Sustain: 0.6, Release: 0.2},
	groovebox.KindPad:    {Wave: WaveSine, Attack: 0.3, Decay: 0.3, Sustain: 0.8, Release: 0.5},
}

// defaultPreset is used for instrument kinds without a preset of their own.
// A malformed track should still make a sound rather than fail.
var defaultPreset = presets[groovebox.KindSynth]

// PresetFor returns the preset for a kind, falling back to the default.
func PresetFor(kind groovebox.InstrumentKind) Preset {
	if p, ok := presets[kind]; ok {
		return p
	}
	return defaultPreset
}
