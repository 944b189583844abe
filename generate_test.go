package dx7voice

import (
	"math"
	"testing"

	"github.com/sixop/dx7voice/internal/patch"
	"github.com/sixop/dx7voice/internal/tables"
)

func testPatch() *patch.Patch {
	p := &patch.Patch{Algorithm: 31, Transpose: 24}
	p.PitchLevel = [4]int{50, 50, 50, 50}
	p.PitchRate = [4]int{99, 99, 99, 99}
	for i := range p.Operators {
		op := &p.Operators[i]
		op.Rate = [4]int{99, 99, 99, 80}
		op.Level = [4]int{99, 90, 80, 0}
		op.OutputLevel = 90
		op.Mode = tables.ModeRatio
		op.Coarse = 1
		op.Detune = 7
	}
	return p
}

func TestGenerateSamplesProducesAudibleThenSilentStream(t *testing.T) {
	p := testPatch()
	out := GenerateSamples(p, 60, 44100, 100)

	if len(out) == 0 {
		t.Fatal("expected non-empty output")
	}

	gateSamples := 100 * 44100 / 1000
	if len(out) < gateSamples {
		t.Fatalf("output shorter than gate duration: %d < %d", len(out), gateSamples)
	}

	var peakDuringGate float32
	for _, s := range out[:gateSamples] {
		if a := float32(math.Abs(float64(s))); a > peakDuringGate {
			peakDuringGate = a
		}
	}
	if peakDuringGate < 1e-3 {
		t.Errorf("expected audible output during gate, peak = %v", peakDuringGate)
	}

	tail := out[len(out)-100:]
	var tailPeak float32
	for _, s := range tail {
		if a := float32(math.Abs(float64(s))); a > tailPeak {
			tailPeak = a
		}
	}
	if tailPeak >= silenceThreshold {
		t.Errorf("expected near-silent tail, peak = %v", tailPeak)
	}
}

func TestGenerateSamplesRespectsTenSecondCap(t *testing.T) {
	p := testPatch()
	for i := range p.Operators {
		p.Operators[i].Rate = [4]int{0, 0, 0, 0} // never decays
		p.Operators[i].Level = [4]int{99, 99, 99, 99}
	}
	out := GenerateSamples(p, 60, 44100, 2000)
	if len(out) > 10*44100 {
		t.Errorf("output length %d exceeds 10-second cap", len(out))
	}
}
