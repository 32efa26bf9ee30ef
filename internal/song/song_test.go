package song

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/icco/groovebox"
)

// quantized velocities survive the round trip only to MIDI's 7-bit precision.
const velTolerance = 1.0 / 127

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pattern.mid")

	tracks := []groovebox.Track{
		{
			ID:            "drums",
			Instrument:    groovebox.KindDrums,
			TimeSignature: [2]int{4, 4},
			Volume:        1,
			Notes: []groovebox.Note{
				{Pitch: groovebox.C, Octave: 2, Duration: groovebox.Sixteenth, Position: 0, Velocity: 1},
				{Pitch: groovebox.C, Octave: 2, Duration: groovebox.Sixteenth, Position: 1, Velocity: 0.6},
			},
		},
		{
			ID:            "keys",
			Instrument:    groovebox.KindPiano,
			TimeSignature: [2]int{4, 4},
			Volume:        0.7,
			Notes: []groovebox.Note{
				{Pitch: groovebox.E, Octave: 4, Duration: groovebox.Quarter, Position: 0.5, Velocity: 0.8},
				{Pitch: groovebox.G, Octave: 4, Duration: groovebox.Half, Position: 2, Velocity: 0.8},
			},
		},
	}

	if err := Save(path, tracks, 140); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, bpm, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if math.Abs(bpm-140) > 0.01 {
		t.Errorf("bpm = %v, want 140", bpm)
	}
	if len(loaded) != len(tracks) {
		t.Fatalf("loaded %d tracks, want %d", len(loaded), len(tracks))
	}

	for i, want := range tracks {
		got := loaded[i]
		if got.ID != want.ID {
			t.Errorf("track %d: id = %q, want %q", i, got.ID, want.ID)
		}
		if got.Instrument != want.Instrument {
			t.Errorf("track %d: instrument = %s, want %s", i, got.Instrument, want.Instrument)
		}
		if math.Abs(got.Volume-want.Volume) > velTolerance {
			t.Errorf("track %d: volume = %v, want %v", i, got.Volume, want.Volume)
		}
		if len(got.Notes) != len(want.Notes) {
			t.Fatalf("track %d: %d notes, want %d", i, len(got.Notes), len(want.Notes))
		}
		for j, wn := range want.Notes {
			gn := got.Notes[j]
			if gn.Pitch != wn.Pitch || gn.Octave != wn.Octave {
				t.Errorf("track %d note %d: pitch = %s%d, want %s%d", i, j, gn.Pitch, gn.Octave, wn.Pitch, wn.Octave)
			}
			if gn.Duration != wn.Duration {
				t.Errorf("track %d note %d: duration = %v, want %v", i, j, gn.Duration, wn.Duration)
			}
			if gn.Position != wn.Position {
				t.Errorf("track %d note %d: position = %v, want %v", i, j, gn.Position, wn.Position)
			}
			if math.Abs(gn.Velocity-wn.Velocity) > velTolerance {
				t.Errorf("track %d note %d: velocity = %v, want %v", i, j, gn.Velocity, wn.Velocity)
			}
		}
	}
}

func TestSaveLoadEmptyTrack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.mid")

	tracks := []groovebox.Track{
		{ID: "pad", Instrument: groovebox.KindPad, TimeSignature: [2]int{4, 4}, Volume: 0.5},
	}
	if err := Save(path, tracks, 90); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded %d tracks, want 1", len(loaded))
	}
	if loaded[0].ID != "pad" || loaded[0].Instrument != groovebox.KindPad {
		t.Errorf("metadata lost: %q %s", loaded[0].ID, loaded[0].Instrument)
	}
	if len(loaded[0].Notes) != 0 {
		t.Errorf("empty track came back with %d notes", len(loaded[0].Notes))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.mid")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestVelocityByte(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-0.5, 0},
		{0, 0},
		{1, 127},
		{2, 127},
	}
	for _, tt := range tests {
		if got := velocityByte(tt.in); got != tt.want {
			t.Errorf("velocityByte(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
