package audio

import (
	"math"
	"testing"

	"github.com/icco/groovebox"
)

// renderFrames pulls the given number of stereo frames through the engine
// reader and returns the left-channel samples.
func renderFrames(t *testing.T, e *Engine, frames int) []int16 {
	t.Helper()
	buf := make([]byte, frames*channelCount*bitDepth)
	r := &engineReader{engine: e}
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("Read returned %d bytes, want %d", n, len(buf))
	}
	out := make([]int16, frames)
	for i := range out {
		idx := i * channelCount * bitDepth
		out[i] = int16(buf[idx]) | int16(buf[idx+1])<<8
	}
	return out
}

func peak(samples []int16) int16 {
	var p int16
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > p {
			p = s
		}
	}
	return p
}

func TestEngineSilentWithoutVoices(t *testing.T) {
	e := newEngine()
	for _, s := range renderFrames(t, e, 256) {
		if s != 0 {
			t.Fatalf("sample = %d, want silence", s)
		}
	}
}

func TestTriggerProducesAudio(t *testing.T) {
	e := newEngine()
	g, err := e.NewVoiceGroup(groovebox.KindSynth)
	if err != nil {
		t.Fatalf("NewVoiceGroup: %v", err)
	}

	g.TriggerAttackRelease(440, 0.5, 1)
	if p := peak(renderFrames(t, e, 2048)); p == 0 {
		t.Error("triggered voice produced no output")
	}
}

func TestDisposedGroupIsRemovedFromMix(t *testing.T) {
	e := newEngine()
	g, err := e.NewVoiceGroup(groovebox.KindSynth)
	if err != nil {
		t.Fatal(err)
	}

	g.TriggerAttackRelease(440, 1, 1)
	renderFrames(t, e, 512)
	g.Dispose()

	for _, s := range renderFrames(t, e, 512) {
		if s != 0 {
			t.Fatalf("sample = %d after Dispose, want silence", s)
		}
	}
	// Triggering a disposed group is a no-op.
	g.TriggerAttackRelease(440, 1, 1)
	if p := peak(renderFrames(t, e, 512)); p != 0 {
		t.Errorf("disposed group still sounds, peak = %d", p)
	}
}

func TestReleaseAllDecaysToSilence(t *testing.T) {
	e := newEngine()
	g, err := e.NewVoiceGroup(groovebox.KindBass)
	if err != nil {
		t.Fatal(err)
	}

	// A long note held well past its attack, then released early.
	g.TriggerAttackRelease(220, 10, 1)
	renderFrames(t, e, 4096)
	g.ReleaseAll()

	// The bass release is 0.1s; after half a second the voice must be done.
	renderFrames(t, e, sampleRate/2)
	for _, s := range renderFrames(t, e, 512) {
		if s != 0 {
			t.Fatalf("sample = %d after release tail, want silence", s)
		}
	}
}

func TestZeroGainGroupIsSilent(t *testing.T) {
	e := newEngine()
	g, err := e.NewVoiceGroup(groovebox.KindPiano)
	if err != nil {
		t.Fatal(err)
	}

	g.SetGain(0)
	g.TriggerAttackRelease(440, 1, 1)
	if p := peak(renderFrames(t, e, 1024)); p != 0 {
		t.Errorf("zero-gain group leaked audio, peak = %d", p)
	}
}

func TestVoiceGroupLimit(t *testing.T) {
	e := newEngine()
	for i := 0; i < maxGroups; i++ {
		if _, err := e.NewVoiceGroup(groovebox.KindSynth); err != nil {
			t.Fatalf("group %d: %v", i, err)
		}
	}
	if _, err := e.NewVoiceGroup(groovebox.KindSynth); err != ErrTooManyGroups {
		t.Errorf("error = %v, want ErrTooManyGroups", err)
	}
}

func TestVoiceStealingCapsPolyphony(t *testing.T) {
	e := newEngine()
	g, err := e.NewVoiceGroup(groovebox.KindPad)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < maxVoicesPerGroup+8; i++ {
		g.TriggerAttackRelease(220+float64(i), 10, 1)
	}

	e.mu.Lock()
	n := len(g.voices)
	e.mu.Unlock()
	if n != maxVoicesPerGroup {
		t.Errorf("voices = %d, want capped at %d", n, maxVoicesPerGroup)
	}
}

func TestReaderAdvancesTransportByChunk(t *testing.T) {
	e := newEngine()
	var total float64
	e.SetTransport(advanceFunc(func(seconds float64) { total += seconds }))

	frames := 1000
	renderFrames(t, e, frames)

	want := float64(frames) / sampleRate
	if math.Abs(total-want) > 1e-9 {
		t.Errorf("transport advanced %v s, want %v", total, want)
	}
}

type advanceFunc func(seconds float64)

func (f advanceFunc) Advance(seconds float64) { f(seconds) }

func TestWaveSampleStaysInRange(t *testing.T) {
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSawtooth, WaveTriangle} {
		for phase := 0.0; phase < 1.0; phase += 0.01 {
			s := waveSample(wave, phase)
			if s < -1 || s > 1 {
				t.Fatalf("wave %d at phase %v: sample %v out of range", wave, phase, s)
			}
		}
	}
}
