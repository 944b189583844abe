// Package envelope implements the DX7's four-stage piecewise-linear
// envelope generator, shared by the six operator envelopes and the pitch
// envelope, including its ascending-segment reshaping quirk and its
// deterministic "scrub" query mode for previews.
package envelope

import "math"

const numStages = 4

// levelSentinel marks "use the previous stage's level" as the start-of-stage
// snapshot, used both by real-time rendering on a stage transition and by
// Scrub, which never has a live running value to snapshot.
const levelSentinel = -1e300

// Config holds the per-stage increments and target levels derived once from
// patch data; Render/Scrub never mutate it.
type Config struct {
	Increment     [numStages]float64
	Level         [numStages]float64
	ReshapeAscend bool // operator envelopes reshape ascending segments; pitch envelope does not
}

// State is the per-voice runtime state for one envelope.
type State struct {
	Stage int
	Phase float64
	start float64 // levelSentinel if unset
}

// Reset returns the envelope to its resting (pre-note) state: stage 0,
// phase 0, with no snapshot in flight.
func (s *State) Reset() {
	s.Stage = 0
	s.Phase = 0
	s.start = levelSentinel
}

// Render advances the envelope by one sample and returns its current value.
// gate selects attack-through-sustain (true) or release (false). rate,
// adScale, and releaseScale are multiplicative on the per-step phase
// advance: rate typically combines the block's real-time step with
// keyboard rate scaling, while adScale/releaseScale come from the
// envelope-control input.
func (s *State) Render(cfg *Config, gate bool, rate, adScale, releaseScale float64) float64 {
	const releaseStage = numStages - 1
	if gate && s.Stage == releaseStage {
		s.start = s.value(cfg)
		s.Stage = 0
		s.Phase = 0
	} else if !gate && s.Stage != releaseStage {
		s.start = s.value(cfg)
		s.Stage = releaseStage
		s.Phase = 0
	}

	scale := adScale
	if s.Stage == releaseStage {
		scale = releaseScale
	}
	s.Phase += cfg.Increment[s.Stage] * rate * scale

	if s.Phase >= 1 {
		if s.Stage >= numStages-2 {
			s.Phase = 1
		} else {
			s.Stage++
			s.Phase = 0
			s.start = levelSentinel
		}
	}
	return s.value(cfg)
}

// value computes the interpolated level for the current stage/phase/start,
// applying the ascending-segment reshape when configured.
func (s *State) value(cfg *Config) float64 {
	from := s.start
	if from == levelSentinel {
		from = cfg.Level[(s.Stage-1+numStages)%numStages]
	}
	to := cfg.Level[s.Stage]
	phase := s.Phase
	if cfg.ReshapeAscend && from < to {
		const floor = 6.7
		if from < floor {
			from = floor
		}
		if to < floor {
			to = floor
		}
		phase = phase * (2.5 - phase) * 2 / 3
	}
	return from + phase*(to-from)
}

// Scrub deterministically evaluates the envelope at sample time t given a
// hypothetical gate-held duration of g samples, with no dependency on
// streaming state. Used for preview rendering where arbitrary time offsets
// must be queryable without replaying the envelope sample by sample.
func Scrub(cfg *Config, t, g float64) float64 {
	if g < 0 {
		g = 0
	}
	if t > g {
		sustain := Scrub(cfg, g, g)
		releasePhase := (t - g) * cfg.Increment[numStages-1]
		if releasePhase >= 1 {
			return valueAt(cfg, numStages-1, 1, sustain)
		}
		return valueAt(cfg, numStages-1, releasePhase, sustain)
	}
	remaining := t
	for stage := 0; stage < numStages-1; stage++ {
		inc := cfg.Increment[stage]
		var duration float64
		if inc > 0 {
			duration = 1 / inc
		} else {
			duration = math.MaxFloat64
		}
		if remaining < duration {
			phase := remaining * inc
			return valueAt(cfg, stage, phase, levelSentinel)
		}
		remaining -= duration
	}
	return valueAt(cfg, numStages-2, 1, levelSentinel)
}

// valueAt mirrors State.value for a given (stage, phase, start) triple
// without requiring a *State, used by Scrub's recursive evaluation.
func valueAt(cfg *Config, stage int, phase, start float64) float64 {
	s := State{Stage: stage, Phase: phase, start: start}
	return s.value(cfg)
}
