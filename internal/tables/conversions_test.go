package tables

import (
	"math"
	"testing"
)

// TestOperatorLevelBoundaries checks known input/output pairs for the
// operator-level lookup curve.
func TestOperatorLevelBoundaries(t *testing.T) {
	cases := []struct {
		l, want int
	}{
		{0, 0},
		{20, 48},
		{50, 78},
		{99, 127},
	}
	for _, c := range cases {
		if got := OperatorLevel(c.l); got != c.want {
			t.Errorf("OperatorLevel(%d) = %d, want %d", c.l, got, c.want)
		}
	}
}

// TestPitchEnvelopeLevelBoundaries checks known input/output pairs for the
// pitch-envelope level conversion.
func TestPitchEnvelopeLevelBoundaries(t *testing.T) {
	if got := PitchEnvelopeLevel(50); math.Abs(got) > 1e-9 {
		t.Errorf("PitchEnvelopeLevel(50) = %v, want 0", got)
	}
	if got := PitchEnvelopeLevel(0); math.Abs(got-(-4.375)) > 1e-3 {
		t.Errorf("PitchEnvelopeLevel(0) = %v, want ~-4.375", got)
	}
	if got := PitchEnvelopeLevel(99); math.Abs(got-4) > 0.1 {
		t.Errorf("PitchEnvelopeLevel(99) = %v, want ~+4", got)
	}
}

// TestNormalizeVelocityBoundaries checks known input/output pairs at the
// ends of the velocity-normalization curve.
func TestNormalizeVelocityBoundaries(t *testing.T) {
	if got := NormalizeVelocity(0); math.Abs(got-(-14.688)) > 1e-6 {
		t.Errorf("NormalizeVelocity(0) = %v, want -14.688", got)
	}
	if got := NormalizeVelocity(1); math.Abs(got-1.312) > 1e-6 {
		t.Errorf("NormalizeVelocity(1) = %v, want 1.312", got)
	}
}

// TestLFOFrequencyAndDelayZero checks the LFO frequency/delay conversions
// at their zero-byte boundary.
func TestLFOFrequencyAndDelayZero(t *testing.T) {
	got := LFOFrequency(0) / MinLFOFrequency / 11
	if math.Abs(got-1) > 1e-9 {
		t.Errorf("LFOFrequency(0)/MIN/11 = %v, want 1", got)
	}
	inc0, inc1 := LFODelay(0)
	if inc0 != 1e5 || inc1 != 1e5 {
		t.Errorf("LFODelay(0) = (%v, %v), want (1e5, 1e5)", inc0, inc1)
	}
}

func TestLFOFrequencyWindow(t *testing.T) {
	// lfo_frequency(99)/44100 should land in a small, sane window.
	got := LFOFrequency(99) / 44100
	if got <= 0 || got > 1 {
		t.Errorf("LFOFrequency(99)/44100 = %v, out of expected window", got)
	}
}

func TestPow2FastAccuracy(t *testing.T) {
	for _, x := range []float64{-3.7, -0.25, 0, 0.33, 2.8, 5.1} {
		want := math.Exp2(x)
		if got := Pow2Fast(x, 1); math.Abs(got-want)/want > 0.01 {
			t.Errorf("Pow2Fast(%v, 1) = %v, want ~%v within 1%%", x, got, want)
		}
		if got := Pow2Fast(x, 2); math.Abs(got-want)/want > 0.001 {
			t.Errorf("Pow2Fast(%v, 2) = %v, want ~%v within 0.1%%", x, got, want)
		}
		if got := Pow2Fast(x, 3); math.Abs(got-want)/want > 0.001 {
			t.Errorf("Pow2Fast(%v, 3) = %v, want ~%v within 0.1%%", x, got, want)
		}
	}
}

func TestKeyboardScalingSymmetry(t *testing.T) {
	// Break point byte 45 puts the split at note 60 (KeyboardScaling offsets
	// it by 15); symmetric linear-down curves both sides should both
	// attenuate away from the break point.
	left := KeyboardScaling(50, 45, 50, 50, 0, 0)
	right := KeyboardScaling(70, 45, 50, 50, 0, 0)
	if left >= 0 || right >= 0 {
		t.Errorf("expected negative (attenuating) scaling away from break point, got left=%v right=%v", left, right)
	}
}

func TestFrequencyRatioModes(t *testing.T) {
	r := FrequencyRatio(ModeRatio, 1, 0, 7)
	if math.Abs(r-1) > 1e-6 {
		t.Errorf("FrequencyRatio(ratio, coarse=1, fine=0, detune=7) = %v, want ~1.0", r)
	}
	fixed := FrequencyRatio(ModeFixed, 0, 0, 7)
	if fixed <= 0 {
		t.Errorf("FrequencyRatio(fixed) should be a positive Hz value, got %v", fixed)
	}
}
