package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/icco/groovebox"
	"github.com/icco/groovebox/internal/audio"
	"github.com/icco/groovebox/internal/engine"
	"github.com/icco/groovebox/internal/song"
	"github.com/icco/groovebox/internal/tui"
)

var playTempo float64

var playCmd = &cobra.Command{
	Use:   "play <pattern.mid>",
	Short: "Open a pattern in the interactive player",
	Long: `Open a MIDI pattern file in the interactive player.

The player shows one row per track with mute, solo, and volume control, a
transport clock, and a live waveform view of the mixed output.

Example:
  groovebox play beat.mid --tempo 128
`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().Float64VarP(&playTempo, "tempo", "t", 0, "Override the pattern tempo (BPM)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) {
	path := args[0]

	tracks, tempo, err := song.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading pattern: %v\n", err)
		os.Exit(1)
	}
	if playTempo != 0 {
		tempo = playTempo
	}
	tempo = groovebox.ClampTempo(tempo)

	eng, err := audio.NewEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	session := engine.NewAudioSession(eng)
	defer session.Close()

	save := func(tracks []groovebox.Track, tempo float64) error {
		return song.Save(path, tracks, tempo)
	}

	m := tui.NewModel(session, tracks, tempo, path, save)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
