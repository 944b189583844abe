package envelope

import "github.com/sixop/dx7voice/internal/tables"

// PitchRates/PitchLevels are the patch-decoded pitch envelope bytes (0..99).
type PitchRates = [4]int
type PitchLevels = [4]int

// ConfigurePitch builds the pitch envelope Config from patch rate/level
// bytes. Unlike the operator envelope, the pitch envelope never reshapes
// ascending segments and uses a simpler, fixed non-release plateau rate.
func ConfigurePitch(rates PitchRates, levels PitchLevels) *Config {
	cfg := &Config{}
	for i := 0; i < 4; i++ {
		cfg.Level[i] = tables.PitchEnvelopeLevel(levels[i])
	}
	for i := 0; i < 4; i++ {
		from := cfg.Level[(i-1+4)%4]
		to := cfg.Level[i]
		base := tables.PitchEnvelopeIncrement(rates[i])
		switch {
		case from != to:
			cfg.Increment[i] = base / absf(from-to)
		case i != 3:
			cfg.Increment[i] = 0.2
		default:
			cfg.Increment[i] = base
		}
	}
	return cfg
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
