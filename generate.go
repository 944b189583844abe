package dx7voice

import (
	"math/rand"

	"github.com/sixop/dx7voice/internal/lfo"
	"github.com/sixop/dx7voice/internal/patch"
)

const silenceThreshold = 1e-4

// GenerateSamples renders patch p at midiNote: it builds a Voice and LFO,
// renders gate-held blocks for durationMs, then releases the gate and
// continues rendering until 100ms of near-silence, truncating the trailing
// silence back to exactly that threshold. Total output length is capped at
// 10 seconds of audio regardless of how long the envelope takes to decay.
func GenerateSamples(p *patch.Patch, midiNote float64, sampleRate int, durationMs float64) []float32 {
	cfg := Config{SampleRate: sampleRate, BlockSize: 24}
	v := New(cfg)
	v.Bind(p)

	l := lfo.New(rand.New(rand.NewSource(1)))
	l.Configure(p.LFORate, p.LFODelay, p.LFOAmpModDepth, p.LFOPitchModDepth, p.LFOPitchModSensitivity, lfo.Waveform(p.LFOWaveform), p.LFOResetPhase, float64(sampleRate))
	if p.LFOResetPhase {
		l.Reset()
	}

	maxSamples := 10 * sampleRate
	silenceNeeded := int(0.1 * float64(sampleRate))
	gateSamples := int(durationMs * float64(sampleRate) / 1000)

	out := make([]float32, 0, gateSamples+silenceNeeded)
	block := make([]float64, cfg.BlockSize)

	silentRun := 0
	rendered := 0

	for rendered < maxSamples {
		gate := rendered < gateSamples
		n := cfg.BlockSize
		if rendered+n > maxSamples {
			n = maxSamples - rendered
		}

		in := RenderInput{
			Gate:            gate,
			Note:            midiNote,
			Velocity:        1.0,
			Brightness:      0.5,
			EnvelopeControl: 0.5,
			PitchMod:        l.PitchMod(),
			AmpMod:          l.AmpMod(),
		}
		v.Render(in, block[:n])

		for i := 0; i < n; i++ {
			s := block[i]
			out = append(out, float32(s))
			if absf(s) < silenceThreshold {
				silentRun++
			} else {
				silentRun = 0
			}
		}
		rendered += n
		l.Step(float64(n))

		if !gate && silentRun >= silenceNeeded {
			break
		}
	}

	if len(out) > silenceNeeded {
		trailingSilent := 0
		for i := len(out) - 1; i >= 0 && absf(float64(out[i])) < silenceThreshold; i-- {
			trailingSilent++
		}
		if trailingSilent > silenceNeeded {
			out = out[:len(out)-(trailingSilent-silenceNeeded)]
		}
	}

	return out
}
