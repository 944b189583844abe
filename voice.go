// Package dx7voice implements the DX7 six-operator FM voice engine: patch
// decoding (internal/patch), fixed-point operator chains and the 32
// algorithm routings (internal/operator, internal/algorithm), DX7 envelopes
// (internal/envelope), and the LFO (internal/lfo), driven per-block by the
// Voice type in this file.
package dx7voice

import (
	"github.com/sixop/dx7voice/internal/algorithm"
	"github.com/sixop/dx7voice/internal/envelope"
	"github.com/sixop/dx7voice/internal/operator"
	"github.com/sixop/dx7voice/internal/patch"
	"github.com/sixop/dx7voice/internal/tables"
)

// Config holds the structural parameters that size a Voice's buffers: they
// change rarely (never mid-stream, in practice), unlike the per-block
// RenderInput fields, so they're set once at construction rather than
// passed to every Render call.
type Config struct {
	SampleRate int
	BlockSize  int
}

// DefaultConfig returns a 44.1kHz sample rate and a 24-sample block size, a
// reasonable default for most hosts.
func DefaultConfig() Config {
	return Config{SampleRate: 44100, BlockSize: 24}
}

// RenderInput carries every per-block input to Voice.Render. Every field
// changes block to block, so, unlike Config, these are passed explicitly on
// each call rather than cached as Voice state.
type RenderInput struct {
	Gate    bool
	Sustain bool // true selects deterministic Scrub-based envelope evaluation instead of streaming Render

	Note       float64 // MIDI note number
	Velocity   float64 // normalized [0,1]; renormalized on a rising gate edge
	Brightness float64 // [0,1]

	// EnvelopeControl adjusts attack/decay and release speed independently;
	// 0.5 is neutral for attack/decay, 0.3 is neutral for release.
	EnvelopeControl float64

	// PitchMod and AmpMod are external modulation inputs (typically the
	// LFO's PitchMod()/AmpMod() outputs, stepped and supplied by the
	// caller between blocks).
	PitchMod float64
	AmpMod   float64

	// ScrubTime and ScrubGate drive envelope.Scrub when Sustain is true,
	// in units of elapsed blocks (matching envelopeRate=B's block-sized
	// real-time step) rather than raw samples.
	ScrubTime float64
	ScrubGate float64
}

// Voice is the top-level per-block DX7 voice driver: it owns six
// operator states, six operator envelopes, one pitch envelope, the single
// feedback delay line an algorithm's self-feedback loop reads and writes,
// and the cached quantities derived from a bound Patch.
type Voice struct {
	cfg   Config
	patch *patch.Patch
	dirty bool

	ops [6]operator.Operator

	opEnv    [6]envelope.State
	opEnvCfg [6]*envelope.Config

	pitchEnv    envelope.State
	pitchEnvCfg *envelope.Config

	ratios        [6]float64
	levelHeadroom [6]int
	latestLevel   [6]float64
	history       operator.History
	calls         []algorithm.Call
	alg           *algorithm.Algorithm

	gateHeld    bool
	latchedNote float64
	latchedVel  float64

	scratch [3][]float64
}

// New constructs a Voice using cfg's sample rate and block size, in its
// reset state. Call Bind before the first Render.
func New(cfg Config) *Voice {
	v := &Voice{cfg: cfg}
	v.Reset()
	return v
}

// Bind attaches p to the voice, marking it dirty so the next Render
// re-derives every cached quantity.
func (v *Voice) Bind(p *patch.Patch) {
	v.patch = p
	v.dirty = true
}

// setup re-derives every patch-dependent cached quantity. It is idempotent:
// calling it again without an intervening Bind is a no-op.
func (v *Voice) setup() {
	if !v.dirty {
		return
	}
	p := v.patch
	scale := 44100.0 / float64(v.cfg.SampleRate)

	v.pitchEnvCfg = envelope.ConfigurePitch(p.PitchRate, p.PitchLevel)
	for i := range v.pitchEnvCfg.Increment {
		v.pitchEnvCfg.Increment[i] *= scale
	}

	for i := 0; i < 6; i++ {
		op := &p.Operators[i]
		v.opEnvCfg[i] = envelope.ConfigureOperator(op.Rate, op.Level, op.OutputLevel, scale)
		v.levelHeadroom[i] = 127 - tables.OperatorLevel(op.OutputLevel)
		sign := 1.0
		if op.Mode == tables.ModeFixed {
			sign = -1.0
		}
		v.ratios[i] = sign * tables.FrequencyRatio(op.Mode, op.Coarse, op.Fine, op.Detune)
	}

	v.alg = algorithm.Get(p.Algorithm)
	v.calls = algorithm.Compile(v.alg)

	if v.scratch[0] == nil || len(v.scratch[0]) != v.cfg.BlockSize {
		for i := range v.scratch {
			v.scratch[i] = make([]float64, v.cfg.BlockSize)
		}
	}

	v.dirty = false
}

// Reset returns every operator, envelope, and the feedback delay line to
// their resting states, as at power-on or voice reallocation.
func (v *Voice) Reset() {
	for i := range v.ops {
		v.ops[i].Reset()
		v.opEnv[i].Reset()
	}
	v.pitchEnv.Reset()
	v.history = operator.History{}
	v.gateHeld = false
}

// Render produces exactly len(out) samples into out, one block of the
// voice's output.
func (v *Voice) Render(in RenderInput, out []float64) {
	v.setup()
	p := v.patch
	b := float64(len(out))

	adScale := tables.SafePow2((0.5 - in.EnvelopeControl) * 8)
	releaseScale := tables.SafePow2(-absf(in.EnvelopeControl-0.3) * 8)
	envelopeRate := b

	var pitchMod float64
	if in.Sustain {
		pitchMod = envelope.Scrub(v.pitchEnvCfg, in.ScrubTime*envelopeRate, in.ScrubGate*envelopeRate)
	} else {
		pitchMod = v.pitchEnv.Render(v.pitchEnvCfg, in.Gate, envelopeRate, adScale, releaseScale)
	}
	pitchMod += in.PitchMod

	risingEdge := (in.Gate && !v.gateHeld) || in.Sustain
	if risingEdge {
		v.latchedVel = tables.NormalizeVelocity(in.Velocity)
		v.latchedNote = in.Note
		if p.ResetPhase {
			for i := range v.ops {
				v.ops[i].Phase = 0
			}
		}
	}
	v.gateHeld = in.Gate

	note := v.latchedNote
	inputNote := note - 24 + float64(p.Transpose)
	f0 := (55.0 / float64(v.cfg.SampleRate)) * 0.25 * tables.SafePow2((inputNote-9+12*pitchMod)/12)

	var freq, amp [6]float64
	for i := 0; i < 6; i++ {
		op := &p.Operators[i]
		ratio := v.ratios[i]
		if ratio < 0 {
			freq[i] = ratio * (1.0 / float64(v.cfg.SampleRate))
		} else {
			freq[i] = ratio * f0
		}
		if freq[i] > 0.5 {
			freq[i] = 0.5
		} else if freq[i] < -0.5 {
			freq[i] = -0.5
		}

		rate := envelopeRate * tables.RateScaling(note, op.RateScaling)
		var level float64
		if in.Sustain {
			level = envelope.Scrub(v.opEnvCfg[i], in.ScrubTime*rate, in.ScrubGate*rate)
		} else {
			level = v.opEnv[i].Render(v.opEnvCfg[i], in.Gate, rate, adScale, releaseScale)
		}

		kb := tables.KeyboardScaling(note, op.KBBreakPoint, op.KBLeftDepth, op.KBRightDepth, op.KBLeftCurve, op.KBRightCurve)
		vs := v.latchedVel * float64(op.VelocitySensitivity)
		var br float64
		if v.alg.IsModulator(i) {
			br = (in.Brightness - 0.5) * 32
		}
		correction := kb + vs + br
		if headroom := float64(v.levelHeadroom[i]); correction > headroom {
			correction = headroom
		}
		levelPrime := level + 0.125*correction
		v.latestLevel[i] = levelPrime

		logMod := tables.LUTAmpModSensitivity[op.AmpModSensitivity]*in.AmpMod - 1
		levelMod := 1 - tables.SafePow2(6.4*logMod)
		a := tables.SafePow2(-14 + levelPrime*levelMod)
		if a > 4.0 {
			a = 4.0
		}
		amp[i] = a
	}

	for i := range out {
		out[i] = 0
	}

	for _, call := range v.calls {
		ops := v.ops[call.OpStart : call.OpStart+call.OpLen]
		f := freq[call.OpStart : call.OpStart+call.OpLen]
		a := amp[call.OpStart : call.OpStart+call.OpLen]

		var dst []float64
		if call.Dest == algorithm.Output {
			dst = out
		} else {
			dst = v.scratch[call.Dest-1][:len(out)]
		}

		var external []float64
		if call.Source.Kind == operator.SourceExternal {
			external = v.scratch[call.SourceBuffer-1][:len(out)]
		}

		operator.Render(ops, f, a, &v.history, p.Feedback, call.Source, external, dst, call.Additive)
	}
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
