package engine

import (
	"testing"

	"github.com/icco/groovebox"
)

func TestEffectiveGain(t *testing.T) {
	mk := func(volume float64, muted, solo bool) groovebox.Track {
		return groovebox.Track{Volume: volume, Muted: muted, Solo: solo}
	}

	tests := []struct {
		name  string
		track groovebox.Track
		all   []groovebox.Track
		want  float64
	}{
		{
			name:  "plain track uses its volume",
			track: mk(0.7, false, false),
			all:   []groovebox.Track{mk(0.7, false, false)},
			want:  0.7,
		},
		{
			name:  "muted track is silent",
			track: mk(0.7, true, false),
			all:   []groovebox.Track{mk(0.7, true, false)},
			want:  0,
		},
		{
			name:  "muted wins even when soloed",
			track: mk(0.7, true, true),
			all:   []groovebox.Track{mk(0.7, true, true)},
			want:  0,
		},
		{
			name:  "non-solo track silenced by another solo",
			track: mk(0.7, false, false),
			all:   []groovebox.Track{mk(0.7, false, false), mk(0.5, false, true)},
			want:  0,
		},
		{
			name:  "solo track keeps its own volume",
			track: mk(0.5, false, true),
			all:   []groovebox.Track{mk(0.7, false, false), mk(0.5, false, true)},
			want:  0.5,
		},
		{
			name:  "no solo engaged leaves everyone audible",
			track: mk(0.3, false, false),
			all:   []groovebox.Track{mk(0.3, false, false), mk(0.9, false, false)},
			want:  0.3,
		},
	}

	for _, tt := range tests {
		if got := EffectiveGain(tt.track, tt.all); got != tt.want {
			t.Errorf("%s: EffectiveGain = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEffectiveGainMutedRegardlessOfVolume(t *testing.T) {
	for _, vol := range []float64{0, 0.3, 1} {
		for _, solo := range []bool{false, true} {
			track := groovebox.Track{Volume: vol, Muted: true, Solo: solo}
			if got := EffectiveGain(track, []groovebox.Track{track}); got != 0 {
				t.Errorf("muted track with volume %v solo %v: gain %v, want 0", vol, solo, got)
			}
		}
	}
}
