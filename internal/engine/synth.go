package engine

import (
	"github.com/icco/groovebox"
	"github.com/icco/groovebox/internal/audio"
)

// NewAudioSession builds a session on top of a live audio engine and wires
// the transport clock into the audio callback.
func NewAudioSession(e *audio.Engine) *Session {
	s := NewSession(audioSynth{eng: e}, e.Analyser())
	e.SetTransport(s.Clock())
	return s
}

// audioSynth adapts the audio engine to the Synthesizer interface.
type audioSynth struct {
	eng *audio.Engine
}

func (a audioSynth) NewVoiceGroup(kind groovebox.InstrumentKind) (VoiceGroup, error) {
	g, err := a.eng.NewVoiceGroup(kind)
	if err != nil {
		return nil, err
	}
	return g, nil
}
