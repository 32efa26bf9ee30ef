package groovebox

import (
	"fmt"
	"math"
)

// Tempo bounds enforced at the session boundary. The transport clock itself
// never sees a value outside this range.
const (
	MinTempo = 60
	MaxTempo = 200
)

// ClampTempo pins a BPM value into the allowed range. NaN becomes MinTempo.
func ClampTempo(bpm float64) float64 {
	if math.IsNaN(bpm) || bpm < MinTempo {
		return MinTempo
	}
	if bpm > MaxTempo {
		return MaxTempo
	}
	return bpm
}

// DurationSeconds converts a symbolic duration to wall-clock seconds at the
// given tempo: (60/bpm) * beats.
func DurationSeconds(d DurationClass, bpm float64) float64 {
	return 60.0 / bpm * d.Beats()
}

// TransportTime is a position in musical time, bar:beat:sixteenth. Bars are
// four beats long and one beat holds four sixteenth ticks; the sixteenth
// field keeps any fractional remainder.
type TransportTime struct {
	Bar       int
	Beat      int
	Sixteenth float64
}

// TransportPosition encodes a beat offset as transport notation. Positions
// are clamped at zero; any non-negative finite value is valid.
func TransportPosition(beats float64) TransportTime {
	if beats < 0 || math.IsNaN(beats) {
		beats = 0
	}
	bar := int(beats / 4)
	rem := beats - float64(bar)*4
	beat := int(rem)
	return TransportTime{
		Bar:       bar,
		Beat:      beat,
		Sixteenth: (rem - float64(beat)) * 4,
	}
}

// Beats is the inverse of TransportPosition.
func (t TransportTime) Beats() float64 {
	return float64(t.Bar)*4 + float64(t.Beat) + t.Sixteenth/4
}

func (t TransportTime) String() string {
	if t.Sixteenth == math.Trunc(t.Sixteenth) {
		return fmt.Sprintf("%d:%d:%d", t.Bar, t.Beat, int(t.Sixteenth))
	}
	return fmt.Sprintf("%d:%d:%.3f", t.Bar, t.Beat, t.Sixteenth)
}
