package audio

import "math"

type envStage int

const (
	stageAttack envStage = iota
	stageDecay
	stageSustain
	stageRelease
)

// voice is a single sounding note inside a VoiceGroup.
type voice struct {
	frequency   float64
	velocity    float64
	phase       float64
	env         float64
	stage       envStage
	age         int // samples since trigger
	releaseAt   int // age at which the scheduled release begins
	attackStep  float64
	decayStep   float64
	sustain     float64
	releaseCoef float64
	active      bool
}

// start configures the voice for a new attack-release cycle. durSeconds was
// computed at schedule time and is frozen here as a sample count.
func (v *voice) start(p Preset, freq, durSeconds, velocity float64) {
	v.frequency = freq
	v.velocity = velocity
	v.phase = 0
	v.env = 0
	v.stage = stageAttack
	v.age = 0
	v.releaseAt = int(durSeconds * sampleRate)
	if v.releaseAt < 1 {
		v.releaseAt = 1
	}
	v.attackStep = 1 / math.Max(p.Attack*sampleRate, 1)
	v.decayStep = (1 - p.Sustain) / math.Max(p.Decay*sampleRate, 1)
	v.sustain = p.Sustain
	// 60 dB of decay spread over the release time.
	v.releaseCoef = math.Pow(0.001, 1/math.Max(p.Release*sampleRate, 1))
	v.active = true
}

func (v *voice) release() {
	if v.active && v.stage != stageRelease {
		v.stage = stageRelease
	}
}

// next renders one sample and advances the oscillator and envelope.
func (v *voice) next(wave WaveType) float64 {
	if !v.active {
		return 0
	}

	sample := waveSample(wave, v.phase) * v.velocity * v.env

	v.phase += v.frequency / sampleRate
	if v.phase >= 1.0 {
		v.phase -= 1.0
	}

	switch v.stage {
	case stageAttack:
		v.env += v.attackStep
		if v.env >= 1 {
			v.env = 1
			v.stage = stageDecay
		}
	case stageDecay:
		v.env -= v.decayStep
		if v.env <= v.sustain {
			v.env = v.sustain
			v.stage = stageSustain
		}
	case stageRelease:
		v.env *= v.releaseCoef
		if v.env < 0.0005 {
			v.env = 0
			v.active = false
		}
	}

	v.age++
	if v.stage != stageRelease && v.age >= v.releaseAt {
		v.stage = stageRelease
	}
	return sample
}

func waveSample(waveType WaveType, phase float64) float64 {
	switch waveType {
	case WaveSine:
		return math.Sin(2 * math.Pi * phase)
	case WaveSquare:
		if phase < 0.5 {
			return 0.8
		}
		return -0.8
	case WaveSawtooth:
		return 2*phase - 1
	case WaveTriangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}
