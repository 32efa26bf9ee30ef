// Command groovebox is the sequencer playback engine CLI.
package main

func main() {
	Execute()
}
