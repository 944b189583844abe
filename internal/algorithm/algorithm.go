// Package algorithm implements the DX7's 32 fixed operator-interconnection
// topologies: a compile-time routing table plus a small compiler that turns
// one algorithm's per-operator routing into a sequence of chain-render
// calls.
package algorithm

import "github.com/sixop/dx7voice/internal/operator"

// Buffer names the four slots a call plan can read from or write to: three
// voice-owned scratch buffers and the caller's primary output buffer.
type Buffer int

const (
	Output Buffer = iota
	BufA
	BufB
	BufC
)

// OpRoute is one operator's routing within an algorithm: which buffer its
// rendered output lands in (Dest), whether that write is additive, and
// which scratch buffer (if any) supplies its incoming phase modulation.
// Source is -1 for "no incoming modulation".
type OpRoute struct {
	Dest     Buffer
	Additive bool
	Source   int // -1, or a Buffer value cast to int (BufA/BufB/BufC only)
}

// NoSource marks an OpRoute with no incoming modulation.
const NoSource = -1

// Algorithm is one of the 32 DX7 routings: six operator routes in the order
// they are rendered (index 0 = the topmost/first-evaluated operator, index
// 5 = the last), plus the location of the algorithm's single self-feedback
// loop. FeedbackLen is 1 for ordinary single-operator self-feedback, or 2/3
// for a feedback loop spanning multiple consecutive operators (the DX7
// permits both, and the operator-chain renderer supports loop lengths up
// to 3).
type Algorithm struct {
	Ops           [6]OpRoute
	FeedbackStart int
	FeedbackLen   int
}

// IsModulator reports whether operator op writes to a modulation buffer
// (not OUTPUT) under this algorithm. Used by the brightness control to
// raise modulator levels.
func (a *Algorithm) IsModulator(op int) bool {
	return a.Ops[op].Dest != Output
}

// Call is one chain-render invocation in a compiled algorithm's dispatch
// plan: render operators [OpStart, OpStart+OpLen) with the given
// modulation source, writing (additively or not) to Dest. SourceBuffer
// names the scratch buffer to read when Source.Kind is operator.SourceExternal.
type Call struct {
	OpStart      int
	OpLen        int
	Source       operator.ModSource
	SourceBuffer Buffer
	Dest         Buffer
	Additive     bool
}

// Compile builds the ordered call plan for algorithm a. Every non-loop
// operator becomes its own single-operator call; the one exception is the
// algorithm's feedback loop, which is rendered as a single fused call of
// length FeedbackLen because a multi-operator feedback loop has a genuine
// per-sample dependency a block boundary cannot split.
func Compile(a *Algorithm) []Call {
	calls := make([]Call, 0, 6)
	for i := 0; i < 6; {
		if i == a.FeedbackStart && a.FeedbackLen > 0 {
			n := a.FeedbackLen
			last := a.Ops[i+n-1]
			calls = append(calls, Call{
				OpStart:  i,
				OpLen:    n,
				Source:   operator.ModSource{Kind: operator.SourceFeedback, Index: n - 1},
				Dest:     last.Dest,
				Additive: last.Additive,
			})
			i += n
			continue
		}
		op := a.Ops[i]
		src := operator.ModSource{Kind: operator.SourceNone}
		var buf Buffer
		if op.Source != NoSource {
			src = operator.ModSource{Kind: operator.SourceExternal}
			buf = Buffer(op.Source)
		}
		calls = append(calls, Call{
			OpStart:      i,
			OpLen:        1,
			Source:       src,
			SourceBuffer: buf,
			Dest:         op.Dest,
			Additive:     op.Additive,
		})
		i++
	}
	return calls
}

// TerminatesAtOutput reports whether the compiled call plan writes OUTPUT
// additively at least once. True for every valid algorithm, since every
// DX7 patch must produce audible carrier output.
func TerminatesAtOutput(calls []Call) bool {
	for _, c := range calls {
		if c.Dest == Output && c.Additive {
			return true
		}
	}
	return false
}
