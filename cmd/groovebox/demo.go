package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/icco/groovebox"
	"github.com/icco/groovebox/internal/audio"
	"github.com/icco/groovebox/internal/engine"
)

var (
	demoTempo float64
	demoBars  int
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Play a built-in demo pattern",
	Long: `Play a built-in four-track demo pattern through the system audio output,
without the interactive player.

Example:
  groovebox demo --tempo 100 --bars 8
`,
	Run: runDemo,
}

func init() {
	demoCmd.Flags().Float64VarP(&demoTempo, "tempo", "t", 120, "Tempo in BPM")
	demoCmd.Flags().IntVarP(&demoBars, "bars", "b", 4, "Number of bars to play")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) {
	eng, err := audio.NewEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	session := engine.NewAudioSession(eng)
	defer session.Close()

	tempo := groovebox.ClampTempo(demoTempo)
	tracks := demoPattern()

	fmt.Printf("Playing %d bars at %.0f BPM...\n", demoBars, tempo)
	if err := session.Play(tracks, tempo); err != nil {
		fmt.Fprintf(os.Stderr, "Playback degraded: %v\n", err)
	}

	barSeconds := 4 * 60 / tempo
	time.Sleep(time.Duration(float64(demoBars) * barSeconds * float64(time.Second)))
	session.Stop()
}

// demoPattern is a one-bar four-track loop: kick pattern, bassline, chord
// stabs, and a pad.
func demoPattern() []groovebox.Track {
	drums := groovebox.Track{
		ID:            "drums",
		Instrument:    groovebox.KindDrums,
		TimeSignature: [2]int{4, 4},
		Volume:        0.9,
	}
	for beat := 0.0; beat < 4; beat++ {
		drums.Notes = append(drums.Notes, groovebox.Note{
			Pitch: groovebox.C, Octave: 2, Duration: groovebox.Sixteenth,
			Position: beat, Velocity: 1,
		})
	}

	bass := groovebox.Track{
		ID:            "bass",
		Instrument:    groovebox.KindBass,
		TimeSignature: [2]int{4, 4},
		Volume:        0.8,
		Notes: []groovebox.Note{
			{Pitch: groovebox.A, Octave: 1, Duration: groovebox.Eighth, Position: 0, Velocity: 0.9},
			{Pitch: groovebox.A, Octave: 1, Duration: groovebox.Eighth, Position: 1.5, Velocity: 0.7},
			{Pitch: groovebox.C, Octave: 2, Duration: groovebox.Eighth, Position: 2, Velocity: 0.9},
			{Pitch: groovebox.G, Octave: 1, Duration: groovebox.Eighth, Position: 3.5, Velocity: 0.7},
		},
	}

	stabs := groovebox.Track{
		ID:            "stabs",
		Instrument:    groovebox.KindSynth,
		TimeSignature: [2]int{4, 4},
		Volume:        0.6,
		Notes: []groovebox.Note{
			{Pitch: groovebox.A, Octave: 3, Duration: groovebox.Sixteenth, Position: 0.5, Velocity: 0.8},
			{Pitch: groovebox.C, Octave: 4, Duration: groovebox.Sixteenth, Position: 0.5, Velocity: 0.8},
			{Pitch: groovebox.E, Octave: 4, Duration: groovebox.Sixteenth, Position: 2.5, Velocity: 0.8},
		},
	}

	pad := groovebox.Track{
		ID:            "pad",
		Instrument:    groovebox.KindPad,
		TimeSignature: [2]int{4, 4},
		Volume:        0.5,
		Notes: []groovebox.Note{
			{Pitch: groovebox.A, Octave: 2, Duration: groovebox.Whole, Position: 0, Velocity: 0.6},
			{Pitch: groovebox.E, Octave: 3, Duration: groovebox.Whole, Position: 0, Velocity: 0.5},
		},
	}

	return []groovebox.Track{drums, bass, stabs, pad}
}
