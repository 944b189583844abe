package envelope

import "github.com/sixop/dx7voice/internal/tables"

// OperatorRates/OperatorLevels are patch-decoded raw byte inputs for one
// operator's four-stage envelope, as stored in Patch.
type OperatorRates = [4]int
type OperatorLevels = [4]int

// ConfigureOperator builds an operator envelope Config from patch rate/level
// bytes (0..99), the operator's output level byte (0..99), and a sample-rate
// scale factor (44100/sampleRate), reproducing the DX7's plateau-slowdown,
// fast-attack-plateau, and ascending-degenerate quirks.
func ConfigureOperator(rates, levels OperatorRates, outputLevel int, scale float64) *Config {
	globalLevel := tables.OperatorLevel(outputLevel)
	cfg := &Config{ReshapeAscend: true}
	var decoded [4]float64
	for i := 0; i < 4; i++ {
		decoded[i] = decodeOperatorLevel(levels[i], globalLevel)
	}
	cfg.Level = decoded
	for i := 0; i < 4; i++ {
		from := decoded[(i-1+4)%4]
		to := decoded[i]
		base := tables.OperatorEnvelopeIncrement(rates[i])
		var incr float64
		switch {
		case from == to:
			incr = base * 0.6
			if i == 0 && levels[0] == 0 {
				incr *= 20
			}
		case from < to:
			fc, tc := from, to
			if fc < 6.7 {
				fc = 6.7
			}
			if tc < 6.7 {
				tc = 6.7
			}
			if fc == tc {
				incr = 1.0
			} else {
				incr = base * 7.2 / (tc - fc)
			}
		default:
			incr = base / (from - to)
		}
		cfg.Increment[i] = incr * scale
	}
	return cfg
}

// decodeOperatorLevel converts a per-stage level byte plus the operator's
// global output level into the stored envelope level:
// raw = operator_level(level); raw = (raw & ~1) + globalLevel - 133;
// stored = 0.125 * (raw < 1 ? 0.5 : raw).
func decodeOperatorLevel(level, globalLevel int) float64 {
	raw := tables.OperatorLevel(level)
	raw = (raw &^ 1) + globalLevel - 133
	if raw < 1 {
		return 0.125 * 0.5
	}
	return 0.125 * float64(raw)
}
