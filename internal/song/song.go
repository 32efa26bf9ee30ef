// Package song persists sequencer patterns as standard MIDI files. It sits
// outside the playback core: it produces the read-only track snapshots the
// core consumes and never touches the transport.
package song

import (
	"fmt"
	"sort"

	"github.com/icco/groovebox"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const ticksPerQuarterNote = 960 // Standard MIDI resolution

const (
	ccVolume      = 7
	defaultVolume = 0.8
	defaultTempo  = 120
)

type event struct {
	tick uint32
	msg  midi.Message
}

// Save writes the tracks as a type-1 SMF: track 0 carries meter and tempo,
// every sequencer track becomes one MIDI track on its own channel with its
// id, instrument kind, and volume stored as track metadata.
func Save(path string, tracks []groovebox.Track, bpm float64) error {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ticksPerQuarterNote)

	var track0 smf.Track
	track0.Add(0, smf.MetaMeter(4, 4))
	track0.Add(0, smf.MetaTempo(bpm))
	track0.Close(0)
	if err := sm.Add(track0); err != nil {
		return fmt.Errorf("error adding tempo track: %w", err)
	}

	for i, t := range tracks {
		ch := uint8(i % 16)

		var events []event
		for _, n := range t.Notes {
			on := uint32(n.Position * ticksPerQuarterNote)
			off := uint32((n.Position + n.Duration.Beats()) * ticksPerQuarterNote)
			if off <= on {
				off = on + 1
			}
			key := uint8(n.Pitch.MIDINote(n.Octave))
			events = append(events,
				event{tick: on, msg: midi.NoteOn(ch, key, velocityByte(n.Velocity))},
				event{tick: off, msg: midi.NoteOff(ch, key)},
			)
		}
		// Stable keeps a note-off before a simultaneous note-on of the same
		// key, since the off was appended first only within one note.
		sort.SliceStable(events, func(a, b int) bool { return events[a].tick < events[b].tick })

		var track smf.Track
		track.Add(0, smf.MetaTrackSequenceName(t.ID))
		track.Add(0, smf.MetaInstrument(t.Instrument.String()))
		track.Add(0, midi.ControlChange(ch, ccVolume, velocityByte(t.Volume)))

		var lastTick uint32
		for _, ev := range events {
			track.Add(ev.tick-lastTick, ev.msg)
			lastTick = ev.tick
		}
		track.Close(0)
		if err := sm.Add(track); err != nil {
			return fmt.Errorf("error adding track %d: %w", i, err)
		}
	}

	if err := sm.WriteFile(path); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}

// Load reads a pattern back from an SMF file, returning the track snapshots
// and the file tempo. Tracks without metadata get generated ids and the
// default instrument preset.
func Load(path string) ([]groovebox.Track, float64, error) {
	rd, err := smf.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading MIDI file: %w", err)
	}

	bpm := float64(defaultTempo)
	if tempoChanges := rd.TempoChanges(); len(tempoChanges) > 0 {
		bpm = tempoChanges[0].BPM
	}

	quarter := float64(ticksPerQuarterNote)
	if mt, ok := rd.TimeFormat.(smf.MetricTicks); ok {
		quarter = float64(mt.Resolution())
	}

	var tracks []groovebox.Track
	// Track 0 is the tempo track.
	for trackIdx := 1; trackIdx < len(rd.Tracks); trackIdx++ {
		t := groovebox.Track{
			ID:            fmt.Sprintf("track-%d", trackIdx),
			Instrument:    groovebox.KindSynth,
			TimeSignature: [2]int{4, 4},
			Volume:        defaultVolume,
		}

		type pending struct {
			tick     uint32
			velocity uint8
		}
		open := make(map[uint8]pending)

		var currentTick uint32
		for _, msg := range rd.Tracks[trackIdx] {
			currentTick += msg.Delta

			var (
				channel, key, velocity uint8
				cc, ccVal              uint8
				text                   string
			)
			switch {
			case msg.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				open[key] = pending{tick: currentTick, velocity: velocity}
			case msg.Message.GetNoteOff(&channel, &key, &velocity),
				msg.Message.GetNoteOn(&channel, &key, &velocity): // note-on with velocity 0
				start, ok := open[key]
				if !ok {
					continue
				}
				delete(open, key)
				pitch, octave := groovebox.PitchFromMIDI(int(key))
				t.Notes = append(t.Notes, groovebox.Note{
					Pitch:    pitch,
					Octave:   octave,
					Duration: groovebox.NearestDuration(float64(currentTick-start.tick) / quarter),
					Position: float64(start.tick) / quarter,
					Velocity: float64(start.velocity) / 127,
				})
			case msg.Message.GetMetaTrackName(&text):
				if text != "" {
					t.ID = text
				}
			case msg.Message.GetMetaInstrument(&text):
				if kind, ok := groovebox.ParseInstrumentKind(text); ok {
					t.Instrument = kind
				}
			case msg.Message.GetControlChange(&channel, &cc, &ccVal):
				if cc == ccVolume {
					t.Volume = float64(ccVal) / 127
				}
			}
		}

		sort.SliceStable(t.Notes, func(a, b int) bool { return t.Notes[a].Position < t.Notes[b].Position })
		tracks = append(tracks, t)
	}

	return tracks, bpm, nil
}

func velocityByte(v float64) uint8 {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(v * 127)
}
