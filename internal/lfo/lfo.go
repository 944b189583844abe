// Package lfo implements the DX7's low-frequency modulator: six waveforms,
// a sample-and-hold random source, and an onset delay ramp feeding separate
// pitch and amplitude modulation depths.
package lfo

import (
	"math/rand"

	"github.com/sixop/dx7voice/internal/osc"
	"github.com/sixop/dx7voice/internal/tables"
)

// Waveform selects one of the LFO's six shapes.
type Waveform int

const (
	Triangle Waveform = iota
	RampDown
	RampUp
	Square
	Sine
	SampleAndHold
)

// Source supplies uniform [0,1) randomness for sample-and-hold; *rand.Rand
// satisfies it. Stubbing it (e.g. to always return 0) makes LFO output
// deterministic for tests.
type Source interface {
	Float64() float64
}

// LFO is the per-voice runtime state for the modulator: each voice owns its
// own LFO instance with its own delay-phase and random state, so two voices
// gated at different times never share phase.
type LFO struct {
	phase       float64
	frequency   float64
	delayPhase  float64
	delayInc0   float64
	delayInc1   float64
	randVal     float64
	value       float64
	ampDepth    float64
	pitchDepth  float64
	waveform    Waveform
	resetPhase  bool
	sampleCount int64
	rng         Source
}

// New constructs an LFO using rng for its sample-and-hold source. A nil rng
// defaults to a new math/rand source seeded with 1.
func New(rng Source) *LFO {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &LFO{rng: rng}
}

// Configure sets the LFO's parameters from patch bytes: rate/delay (0..99),
// amp-mod/pitch-mod depth (0..99), pitch-mod sensitivity (0..7), waveform
// (0..5), and the reset-phase flag, given the sample rate.
func (l *LFO) Configure(rate, delay, ampModDepth, pitchModDepth, pitchModSens int, waveform Waveform, resetPhase bool, sampleRate float64) {
	l.frequency = tables.LFOFrequency(rate) / sampleRate
	inc0, inc1 := tables.LFODelay(delay)
	l.delayInc0 = inc0 / sampleRate
	l.delayInc1 = inc1 / sampleRate
	l.ampDepth = float64(ampModDepth) * 0.01
	l.pitchDepth = float64(pitchModDepth) * 0.01 * tables.LUTPitchModSensitivity[pitchModSens&7]
	l.waveform = waveform
	l.resetPhase = resetPhase
}

// ResetPhase reports whether Configure's patch set the reset-phase flag.
func (l *LFO) ResetPhase() bool { return l.resetPhase }

// Reset zeros phase, delay phase, and the sample counter, as at a rising
// gate edge when the patch's LFO reset-phase flag is set.
func (l *LFO) Reset() {
	l.phase = 0
	l.delayPhase = 0
	l.sampleCount = 0
}

// Step advances the LFO by scale samples (scale is normally the block size)
// and recomputes its cached waveform value and delay phase.
func (l *LFO) Step(scale float64) {
	l.phase += scale * l.frequency
	if l.phase >= 1 {
		l.phase -= 1
		l.randVal = l.rng.Float64()
	}
	l.value = l.waveValue()

	inc := l.delayInc0
	if l.delayPhase >= 0.5 {
		inc = l.delayInc1
	}
	l.delayPhase += scale * inc
	if l.delayPhase > 1 {
		l.delayPhase = 1
	}
	l.sampleCount += int64(scale)
}

// Scrub deterministically evaluates the LFO at an absolute sample index,
// independent of Step's streaming state, for preview rendering.
func (l *LFO) Scrub(sample float64) {
	cycles := sample * l.frequency
	wholeBefore := int64(float64(l.sampleCount) * l.frequency)
	wholeNow := int64(cycles)
	if wholeNow != wholeBefore || l.sampleCount == 0 {
		l.randVal = l.rng.Float64()
	}
	l.phase = cycles - float64(wholeNow)
	l.value = l.waveValue()

	if sample*l.delayInc0 <= 0.5 {
		l.delayPhase = sample * l.delayInc0
	} else {
		l.delayPhase = 0.5 + (sample-0.5/l.delayInc0)*l.delayInc1
	}
	if l.delayPhase > 1 {
		l.delayPhase = 1
	}
	l.sampleCount = int64(sample)
}

func (l *LFO) waveValue() float64 {
	switch l.waveform {
	case Triangle:
		if l.phase < 0.5 {
			return 2 * (0.5 - l.phase)
		}
		return 2 * (l.phase - 0.5)
	case RampDown:
		return 1 - l.phase
	case RampUp:
		return l.phase
	case Square:
		if l.phase < 0.5 {
			return 0
		}
		return 1
	case Sine:
		return 0.5 + 0.5*osc.Sine(l.phase+0.5)
	default: // SampleAndHold
		return l.randVal
	}
}

// delayRamp returns the 0..1 ramp derived from delay phase: 0 throughout
// onset, rising linearly to 1 over the second half of the delay period.
func (l *LFO) delayRamp() float64 {
	if l.delayPhase < 0.5 {
		return 0
	}
	return (l.delayPhase - 0.5) * 2
}

// PitchMod returns the current pitch-modulation output in octaves (scaled
// by the configured pitch-mod depth and sensitivity).
func (l *LFO) PitchMod() float64 {
	return (l.value - 0.5) * l.delayRamp() * l.pitchDepth
}

// AmpMod returns the current amplitude-modulation output, a value intended
// to reduce level (1-value grows as the waveform dips).
func (l *LFO) AmpMod() float64 {
	return (1 - l.value) * l.delayRamp() * l.ampDepth
}
