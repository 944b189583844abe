package operator

import "github.com/sixop/dx7voice/internal/osc"

// SourceKind identifies where a chain's phase-modulation seed comes from.
type SourceKind int

const (
	// SourceNone means the chain's first operator receives no incoming
	// modulation (pm seed 0 each sample).
	SourceNone SourceKind = iota
	// SourceExternal feeds the pm seed from a caller-supplied buffer, one
	// sample per output sample (e.g. a preceding algorithm chain's output).
	SourceExternal
	// SourceFeedback feeds the pm seed from the two-sample average of a
	// designated operator's own recent output, scaled by the feedback
	// amount.
	SourceFeedback
)

// ModSource selects a chain's phase-modulation seed. Index is the
// in-chain operator index that taps/produces feedback when Kind is
// SourceFeedback; it is ignored otherwise.
type ModSource struct {
	Kind  SourceKind
	Index int
}

// Render runs the operator-chain renderer over ops[0:N], writing (or
// adding, if additive) B samples to out, where B = len(out).
//
//   - freq and amp are target values for this block, one per operator,
//     already clamped by the caller to freq<=0.5 cycles/sample and
//     amp<=4.0.
//   - history is the two-sample feedback delay line, read and (if src is
//     SourceFeedback) rewritten in place.
//   - feedbackAmount is the 0..7 DX7 feedback depth; only meaningful when
//     src.Kind is SourceFeedback.
//   - external supplies the pm seed samples when src.Kind is
//     SourceExternal; it is ignored otherwise and may be nil.
//   - additive selects whether samples are added to out or overwrite it.
func Render(ops []Operator, freq, amp []float64, history *History, feedbackAmount int, src ModSource, external []float64, out []float64, additive bool) {
	n := len(ops)
	b := len(out)

	// Chain length is bounded to 3 by the algorithm compiler's fused
	// feedback loops; fixed-size backing arrays keep this allocation-free
	// once the caller's slices are constructed.
	var incrementBuf, phaseBuf [3]uint32
	var slopeBuf, curAmpBuf [3]float64
	increment := incrementBuf[:n]
	slope := slopeBuf[:n]
	phase := phaseBuf[:n]
	curAmp := curAmpBuf[:n]
	for k := 0; k < n; k++ {
		increment[k] = uint32(freq[k] * 4294967296.0)
		phase[k] = ops[k].Phase
		curAmp[k] = ops[k].Amplitude
		slope[k] = (amp[k] - curAmp[k]) / float64(b)
	}

	var fbScale float64
	if feedbackAmount != 0 {
		fbScale = float64(int(1)<<uint(feedbackAmount)) / 512
	}

	h0, h1 := history[0], history[1]

	for i := 0; i < b; i++ {
		var pm float64
		switch src.Kind {
		case SourceFeedback:
			pm = (h0 + h1) * fbScale
		case SourceExternal:
			pm = external[i]
		}

		for k := 0; k < n; k++ {
			phase[k] += increment[k]
			pm = osc.SinePM(phase[k], pm) * curAmp[k]
			curAmp[k] += slope[k]
			if src.Kind == SourceFeedback && k == src.Index {
				h1 = h0
				h0 = pm
			}
		}

		if additive {
			out[i] += pm
		} else {
			out[i] = pm
		}
	}

	for k := 0; k < n; k++ {
		ops[k].Phase = phase[k]
		ops[k].Amplitude = curAmp[k]
	}
	if src.Kind == SourceFeedback {
		history[0], history[1] = h0, h1
	}
}
