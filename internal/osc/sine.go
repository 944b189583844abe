// Package osc provides the DX7's fixed-point sine lookup with
// phase-modulation input, the numerically sensitive heart of the operator
// chain renderer.
package osc

import "github.com/sixop/dx7voice/internal/tables"

const (
	phaseBits    = 32
	tableBits    = 9 // top 9 bits of the 32-bit phase select the table entry
	fracBits     = phaseBits - tableBits
	fracScale    = 1.0 / (1 << fracBits)
	pmWrapPeriod = 64.0 // sine_pm's modulation index wraps with period 64
)

// Sine looks up sin(2*pi*phase) via linear interpolation in the 512-entry
// table, wrapping phase into [0,1).
func Sine(phase float64) float64 {
	phase -= float64(int64(phase))
	if phase < 0 {
		phase++
	}
	pos := phase * 512
	idx := int(pos)
	frac := pos - float64(idx)
	return tables.SineTable[idx]*(1-frac) + tables.SineTable[idx+1]*frac
}

// SinePM evaluates the sine table at a 32-bit unsigned fixed-point phase
// modulated by a floating-point phase-modulation index (maximum
// representable index is 32, wrapping with period 64). phase and pm combine
// by unsigned addition, matching the DX7's fixed-point modulation math bit
// for bit: pm is scaled to a signed fixed-point offset via a truncating
// int64 conversion, then reinterpreted as the low 32 bits, so pm=0 is
// exactly a zero offset (sine_pm(phase, 0) == Sine(phase/2^32), the
// required identity) and pm and pm+64 land on the same offset modulo 2^32.
func SinePM(phase uint32, pm float64) float64 {
	offset := uint32(int64(pm * (4294967296.0 / pmWrapPeriod)))
	p := phase + offset
	idx := p >> fracBits
	frac := float64(p&((1<<fracBits)-1)) * fracScale
	return tables.SineTable[idx]*(1-frac) + tables.SineTable[idx+1]*frac
}
