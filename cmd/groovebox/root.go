package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "groovebox",
	Short: "A multi-track beat sequencer playback engine",
	Long: `groovebox is the playback core of a multi-track beat sequencer: it turns
beat-positioned note patterns into sound through a built-in synthesizer and
exposes a live signal feed for visualization.

Patterns are stored as standard MIDI files with per-track instrument and
volume metadata.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
