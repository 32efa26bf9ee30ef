// Package audio provides the synthesis capability behind the sequencer: an
// oto-backed output stream, per-track polyphonic voice groups configured by
// instrument preset, and the analyser tap exposing the mixed output.
package audio

import (
	"errors"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/icco/groovebox"
)

const (
	sampleRate   = 44100
	channelCount = 2 // stereo
	bitDepth     = 2 // 16-bit

	// chunkFrames bounds how far trigger firing can drift from its exact
	// sample position: the transport advances once per chunk.
	chunkFrames = 64

	maxGroups         = 64
	maxVoicesPerGroup = 32
)

// ErrTooManyGroups is returned when no further voice group can be allocated.
// The affected track degrades to silence; other tracks are unaffected.
var ErrTooManyGroups = errors.New("audio: voice group limit reached")

// Advancer receives musical-time advancement from the audio callback. The
// transport clock implements it.
type Advancer interface {
	Advance(seconds float64)
}

// Engine mixes all live voice groups into one output stream. All voice and
// group state is guarded by mu; the audio goroutine takes it per rendered
// chunk and per fired trigger, always after the clock's own lock.
type Engine struct {
	mu           sync.Mutex
	otoCtx       *oto.Context
	player       *oto.Player
	groups       map[*VoiceGroup]struct{}
	masterVolume float64
	transport    Advancer
	analyser     *Analyser
}

// newEngine builds an engine without opening an audio device. Rendering is
// driven by whoever calls the reader, which is what the tests do.
func newEngine() *Engine {
	return &Engine{
		groups:       make(map[*VoiceGroup]struct{}),
		masterVolume: 0.3,
		analyser:     newAnalyser(),
	}
}

// NewEngine opens the system audio output and starts streaming.
func NewEngine() (*Engine, error) {
	e := newEngine()

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	}
	otoCtx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	e.otoCtx = otoCtx
	e.player = otoCtx.NewPlayer(&engineReader{engine: e})
	e.player.Play()
	return e, nil
}

// Analyser returns the tap on the mixed output.
func (e *Engine) Analyser() *Analyser {
	return e.analyser
}

// SetTransport installs the clock advanced by the audio callback.
func (e *Engine) SetTransport(a Advancer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transport = a
}

// SetMasterVolume sets the output volume (0.0 - 1.0).
func (e *Engine) SetMasterVolume(vol float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if vol < 0 {
		vol = 0
	} else if vol > 1 {
		vol = 1
	}
	e.masterVolume = vol
}

// NewVoiceGroup allocates a voice group configured with the preset for the
// given instrument kind. Unknown kinds get the default preset.
func (e *Engine) NewVoiceGroup(kind groovebox.InstrumentKind) (*VoiceGroup, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.groups) >= maxGroups {
		return nil, ErrTooManyGroups
	}
	g := &VoiceGroup{engine: e, preset: PresetFor(kind), gain: 1}
	e.groups[g] = struct{}{}
	return g, nil
}

// Close shuts the engine down.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for g := range e.groups {
		g.releaseAllLocked()
	}
	// As of oto v3.4, player.Close() is deprecated; the player is cleaned up
	// when garbage collected.
	return nil
}

func (e *Engine) currentTransport() Advancer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transport
}

// engineReader implements io.Reader for continuous audio generation.
type engineReader struct {
	engine *Engine
}

func (r *engineReader) Read(buf []byte) (int, error) {
	e := r.engine
	frames := len(buf) / (channelCount * bitDepth)

	done := 0
	for done < frames {
		n := frames - done
		if n > chunkFrames {
			n = chunkFrames
		}
		// Advance musical time first, without holding mu: due triggers call
		// back into voice groups, which take the lock themselves.
		if t := e.currentTransport(); t != nil {
			t.Advance(float64(n) / sampleRate)
		}
		e.renderChunk(buf[done*channelCount*bitDepth:], n)
		done += n
	}
	return frames * channelCount * bitDepth, nil
}

func (e *Engine) renderChunk(buf []byte, frames int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := 0; i < frames; i++ {
		var sample float64
		for g := range e.groups {
			sample += g.nextSample()
		}
		sample *= e.masterVolume
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}

		e.analyser.push(float32(sample))

		sampleInt := int16(sample * 32767)
		idx := i * channelCount * bitDepth
		buf[idx] = byte(sampleInt)
		buf[idx+1] = byte(sampleInt >> 8)
		buf[idx+2] = byte(sampleInt)
		buf[idx+3] = byte(sampleInt >> 8)
	}
}
