// Package tables holds the DX7's lookup tables and the pure scalar
// conversions from its 0..99 parameter space into DSP quantities.
package tables

import "math"

// MinLFOFrequency is the unit LFOFrequency multiplies its scaled rate by;
// rate zero yields 11 times this value. See LFOFrequency.
const MinLFOFrequency = 0.005865

// sineTableSize is the number of samples in one full cycle of the sine LUT;
// SineTable holds one wrap-duplicate entry on top of this.
const sineTableSize = 512

// SineTable is 512 samples of one sine cycle plus a duplicate of sample 0 at
// index 512 so linear interpolation never needs to wrap its second tap.
var SineTable [sineTableSize + 1]float64

// LUTCoarse maps a DX7 "coarse" byte (0..31) to a semitone offset. Coarse 0
// is treated as one octave below coarse 1 per the DX7's ratio-mode
// convention (0 and 1 both map to a ratio of 1x/0.5x territory).
var LUTCoarse [32]float64

// LUTAmpModSensitivity maps the 2-bit amp-mod-sensitivity field to a gain
// coefficient used by the LFO amplitude-modulation path.
var LUTAmpModSensitivity = [4]float64{0, 0.5, 1, 2}

// LUTPitchModSensitivity maps the 3-bit pitch-mod-sensitivity field to a
// depth multiplier for LFO pitch modulation.
var LUTPitchModSensitivity = [8]float64{0, 0.078, 0.156, 0.313, 0.625, 1.25, 2.5, 5}

// LUTCubeRoot covers cube roots of velocity/127 sampled at 17 points
// (0, 1/16, 2/16 ... 16/16) for NormalizeVelocity's interpolated lookup.
var LUTCubeRoot [17]float64

func init() {
	for i := 0; i <= sineTableSize; i++ {
		SineTable[i] = math.Sin(2 * math.Pi * float64(i%sineTableSize) / float64(sineTableSize))
	}
	for i := range LUTCoarse {
		if i == 0 {
			// Ratio mode coarse=0 behaves as a 0.5x multiplier.
			LUTCoarse[i] = -12
			continue
		}
		// Coarse c (c>=1) is a c-times multiplier of the base frequency;
		// expressed in semitones so FrequencyRatio's 2^(base/12) recovers c.
		LUTCoarse[i] = 12 * math.Log2(float64(i))
	}
	for i := range LUTCubeRoot {
		LUTCubeRoot[i] = math.Cbrt(float64(i) / 16)
	}
}
