package audio

// VoiceGroup is the per-track polyphonic synthesis resource. All methods are
// safe to call from the control thread while the audio goroutine renders.
type VoiceGroup struct {
	engine   *Engine
	preset   Preset
	gain     float64
	voices   []*voice
	disposed bool
}

// TriggerAttackRelease starts a note at the given frequency and velocity,
// scheduled to release after durSeconds of wall-clock time.
func (g *VoiceGroup) TriggerAttackRelease(freq, durSeconds, velocity float64) {
	g.engine.mu.Lock()
	defer g.engine.mu.Unlock()
	if g.disposed {
		return
	}

	// Reuse an idle voice, or steal the oldest when the group is full.
	var v *voice
	for _, cand := range g.voices {
		if !cand.active {
			v = cand
			break
		}
	}
	if v == nil {
		if len(g.voices) < maxVoicesPerGroup {
			v = &voice{}
			g.voices = append(g.voices, v)
		} else {
			v = g.voices[0]
			for _, cand := range g.voices[1:] {
				if cand.age > v.age {
					v = cand
				}
			}
		}
	}
	v.start(g.preset, freq, durSeconds, velocity)
}

// SetGain sets the group's linear volume multiplier (0.0 - 1.0).
func (g *VoiceGroup) SetGain(gain float64) {
	g.engine.mu.Lock()
	defer g.engine.mu.Unlock()
	if gain < 0 {
		gain = 0
	} else if gain > 1 {
		gain = 1
	}
	g.gain = gain
}

// ReleaseAll pushes every sounding voice into its release phase.
func (g *VoiceGroup) ReleaseAll() {
	g.engine.mu.Lock()
	defer g.engine.mu.Unlock()
	g.releaseAllLocked()
}

func (g *VoiceGroup) releaseAllLocked() {
	for _, v := range g.voices {
		v.release()
	}
}

// Dispose silences the group and removes it from the engine mix. The group
// must not be used afterwards.
func (g *VoiceGroup) Dispose() {
	g.engine.mu.Lock()
	defer g.engine.mu.Unlock()
	if g.disposed {
		return
	}
	g.disposed = true
	g.voices = nil
	delete(g.engine.groups, g)
}

// nextSample mixes one sample from all sounding voices. Caller holds the
// engine lock.
func (g *VoiceGroup) nextSample() float64 {
	if g.gain == 0 || len(g.voices) == 0 {
		return 0
	}
	var sum float64
	for _, v := range g.voices {
		sum += v.next(g.preset.Wave) * 0.2
	}
	return sum * g.gain
}
