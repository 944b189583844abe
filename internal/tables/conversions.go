package tables

import "math"

// OperatorLevel maps a DX7 output-level byte (0..99) to the 0..127 range
// used internally by envelope level decoding. The breakpoints and the
// integer divide below 15 reproduce the DX7's non-linear level table.
func OperatorLevel(l int) int {
	switch {
	case l < 15:
		return (l * (36 - l)) / 8
	case l < 20:
		return l + 27
	default:
		return l + 28
	}
}

// PitchEnvelopeLevel maps a pitch-envelope level byte (0..99) to a signed
// pitch offset in octaves with the DX7's characteristic outward curve near
// the extremes of the range.
func PitchEnvelopeLevel(l int) float64 {
	x := (float64(l) - 50) / 32
	tail := math.Abs(x) + 0.02 - 1
	if tail < 0 {
		tail = 0
	}
	return x * (1 + tail*tail*5.3056)
}

// OperatorEnvelopeIncrement converts an envelope rate byte (0..99) to a
// per-sample phase increment using the DX7's mantissa/exponent rate table.
func OperatorEnvelopeIncrement(r int) float64 {
	rr := (r * 41) / 64
	mantissa := 4 + (rr & 3)
	exponent := 2 + (rr >> 2)
	return float64(mantissa<<uint(exponent)) / (1 << 24)
}

// PitchEnvelopeIncrement converts a pitch-envelope rate byte (0..99) to a
// per-sample phase increment.
func PitchEnvelopeIncrement(r int) float64 {
	x := float64(r) / 100
	return (1 + 192*x*(x*x*x*x+1.0/3)) / (21.3 * 44100)
}

// LFOFrequency converts an LFO rate byte (0..99) to a frequency in
// cycles/sample once divided by the sample rate by the caller.
func LFOFrequency(r int) float64 {
	var s float64
	if r == 0 {
		s = 1
	} else {
		s = float64(r*165) / 64
	}
	if s < 160 {
		s *= 11
	} else {
		s *= 11 + (s-160)/16
	}
	return s * MinLFOFrequency
}

// LFODelay converts an LFO delay byte (0..99) to the two onset/ramp
// increments used by the LFO's delay ramp.
func LFODelay(d int) (inc0, inc1 float64) {
	if d == 0 {
		return 1e5, 1e5
	}
	dd := 99 - d
	scaled := float64((16 + (dd & 15)) << uint(1+(dd>>4)))
	inc0 = scaled * MinLFOFrequency
	masked := dd & 0xFF80
	if masked < 0x80 {
		masked = 0x80
	}
	inc1 = float64(masked) * MinLFOFrequency
	return inc0, inc1
}

// RateScaling returns the envelope rate multiplier for a MIDI note and a
// 0..7 rate-scaling depth.
func RateScaling(note float64, rs int) float64 {
	return Pow2Fast(float64(rs)*(note/3-7)/32, 3)
}

// KeyboardScaling returns the level offset (in DX7 level units, pre-0.125
// scale) contributed by keyboard-level scaling for a note relative to a
// patch's break point/depth/curve configuration.
//
// curve: 0=-LIN, 1=-EXP, 2=+EXP, 3=+LIN (the DX7's 4 curve shapes).
func KeyboardScaling(note float64, breakPoint int, leftDepth, rightDepth, leftCurve, rightCurve int) float64 {
	x := note - float64(breakPoint) - 15
	depth := leftDepth
	curve := leftCurve
	if x > 0 {
		depth = rightDepth
		curve = rightCurve
	}
	t := math.Abs(x)
	if curve == 1 || curve == 2 {
		c := t * 0.010467
		if c > 1 {
			c = 1
		}
		t = c * c * c * 96
	}
	if curve < 2 {
		t = -t
	}
	return t * float64(depth) * 0.02677
}

// OperatorMode selects whether an operator's frequency tracks the keyboard
// (Ratio) as a coarse/fine multiplier of the fundamental, or is pinned to a
// fixed Hz value (Fixed).
type OperatorMode int

const (
	ModeRatio OperatorMode = iota
	ModeFixed
)

// FrequencyRatio returns an operator's frequency ratio (Ratio mode, relative
// to the voice fundamental) or its fixed frequency in Hz (Fixed mode),
// before the caller applies sign/units appropriate to the mode.
func FrequencyRatio(mode OperatorMode, coarse, fine, detune int) float64 {
	var base float64
	var det float64 = 1
	if mode == ModeRatio {
		base = LUTCoarse[coarse&0x1F]
		if fine != 0 {
			det = 1 + 0.01*float64(fine)
		}
	} else {
		base = (float64(coarse&3)*100 + float64(fine)) * 0.39864
	}
	base += float64(detune-7) * 0.015
	return SafePow2(base/12) * det
}

// SafePow2 computes 2^x using math.Exp2, guarding extreme exponents by
// folding 120-semitone (10-octave) chunks out of the exponent so the
// remaining fractional evaluation stays well inside double-precision range.
// Exported so callers outside this package needing the same NaN/Inf
// guarding (the Voice driver's fundamental-frequency and amplitude
// modulation exponentials) can reuse it instead of calling math.Exp2
// directly.
func SafePow2(x float64) float64 {
	const chunk = 10.0 // 120 semitones / 12 = 10 octaves
	if x > chunk || x < -chunk {
		whole := math.Floor(x / chunk)
		return math.Exp2(whole*chunk) * math.Exp2(x-whole*chunk)
	}
	return math.Exp2(x)
}

// NormalizeVelocity converts a normalized velocity (0..1) to the DX7's
// internal velocity-sensitivity unit via linear interpolation over its
// 17-point cube-root LUT.
func NormalizeVelocity(v float64) float64 {
	pos := v * 16
	if pos < 0 {
		pos = 0
	}
	if pos > 16 {
		pos = 16
	}
	lo := int(pos)
	hi := lo + 1
	if hi > 16 {
		hi = 16
	}
	frac := pos - float64(lo)
	cr := LUTCubeRoot[lo]*(1-frac) + LUTCubeRoot[hi]*frac
	return 16 * (cr - 0.918)
}

// Pow2Fast returns 2^x with polynomial order 1, 2, or 3 accuracy.
//
// Order 1 falls back to math.Exp2 directly: a degree-1 polynomial
// approximation of 2^x is no cheaper than the library implementation and
// only loses accuracy, so there is nothing to gain from a bit-trick at that
// order. Orders 2 and 3 split integer and fractional parts and evaluate a
// polynomial approximation over the fractional part for speed.
func Pow2Fast(x float64, order int) float64 {
	if order <= 1 {
		return math.Exp2(x)
	}
	whole := math.Floor(x)
	frac := x - whole
	var p float64
	switch order {
	case 2:
		p = 1 + frac*(0.6565+0.3435*frac)
	default:
		p = 1 + frac*(0.6958+frac*(0.2251+0.0791*frac))
	}
	return p * math.Exp2(whole)
}
