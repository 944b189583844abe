// Package operator implements the DX7 operator's runtime state (a 32-bit
// phase accumulator and a smoothed amplitude) and the block-rate chain
// renderer that drives N consecutive operators through a chosen modulation
// source.
package operator

// Operator is the runtime state of one sine oscillator: a 32-bit phase
// accumulator, which wraps natively via uint32 arithmetic, and its current
// linear amplitude, smoothed per block.
type Operator struct {
	Phase     uint32
	Amplitude float64
}

// Reset returns the operator to phase 0, amplitude 0.
func (o *Operator) Reset() {
	o.Phase = 0
	o.Amplitude = 0
}

// History is the two-sample feedback delay line for one feedback-tapped
// operator in a chain: History[0] is the most recent sample, History[1] the
// one before it. Averaging both on playback mirrors DX7 hardware averaging
// and damps feedback self-oscillation divergence.
type History [2]float64
