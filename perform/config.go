package perform

import (
	"fmt"

	"steplift/stepgraph"
)

// StepTightening bounds how fast and how far a single foot may move
// between two consecutive actions.
type StepTightening struct {
	TravelSpeedMinSeconds float64
	TravelSpeedMaxSeconds float64
	TravelDistanceMin     float64
	TravelDistanceMax     float64
	StretchDistanceMin    float64
	StretchDistanceMax    float64
}

// LateralTightening bounds sustained one-directional lateral movement
// during dense passages.
type LateralTightening struct {
	PatternLength int
	RelativeNPS   float64
	AbsoluteNPS   float64
	Speed         float64
}

// Facing caps the share of steps that leave the body crossed or
// inverted.
type Facing struct {
	MaxInwardPercentage  float64
	MaxOutwardPercentage float64
}

// Config is the closed set of recognized Performer options.
type Config struct {
	// DesiredWeights maps a target pad name to its per-lane target
	// distribution; normalized internally.
	DesiredWeights map[string][]float64

	StepTightening    StepTightening
	LateralTightening LateralTightening
	Facing            Facing

	// StepTypeReplacements overrides the default identity-plus-mirror
	// substitution table. Nil uses DefaultStepTypeReplacements.
	StepTypeReplacements map[stepgraph.StepKind][]stepgraph.StepKind
}

// ErrConfigInvalid reports a nonsensical threshold combination,
// detected at conversion entry.
type ErrConfigInvalid struct {
	Reason string
}

func (e *ErrConfigInvalid) Error() string {
	return fmt.Sprintf("invalid performance config: %s", e.Reason)
}

// Validate checks the closed set of threshold invariants the search
// relies on, and that the step-kind replacement table names only known
// StepKinds.
func (c Config) Validate() error {
	for src, targets := range c.StepTypeReplacements {
		if src < 0 || src >= stepgraph.NumStepKinds {
			return &ErrConfigInvalid{fmt.Sprintf("step_type_replacements: unknown step kind %d", int(src))}
		}
		for _, tk := range targets {
			if tk < 0 || tk >= stepgraph.NumStepKinds {
				return &ErrConfigInvalid{fmt.Sprintf("step_type_replacements: unknown step kind %d", int(tk))}
			}
		}
	}
	st := c.StepTightening
	if st.TravelSpeedMinSeconds > st.TravelSpeedMaxSeconds {
		return &ErrConfigInvalid{"travel_speed_min_seconds > travel_speed_max_seconds"}
	}
	if st.TravelDistanceMin > st.TravelDistanceMax {
		return &ErrConfigInvalid{"travel_distance_min > travel_distance_max"}
	}
	if st.StretchDistanceMin > st.StretchDistanceMax {
		return &ErrConfigInvalid{"stretch_distance_min > stretch_distance_max"}
	}
	f := c.Facing
	if f.MaxInwardPercentage < 0 || f.MaxInwardPercentage > 1 {
		return &ErrConfigInvalid{"max_inward_percentage out of [0,1]"}
	}
	if f.MaxOutwardPercentage < 0 || f.MaxOutwardPercentage > 1 {
		return &ErrConfigInvalid{"max_outward_percentage out of [0,1]"}
	}
	if c.LateralTightening.PatternLength < 0 {
		return &ErrConfigInvalid{"lateral_tightening.pattern_length negative"}
	}
	return nil
}

// DefaultConfig returns generous, rarely-binding thresholds.
func DefaultConfig() Config {
	return Config{
		StepTightening: StepTightening{
			TravelSpeedMinSeconds: 0.08,
			TravelSpeedMaxSeconds: 0.4,
			TravelDistanceMin:     1.0,
			TravelDistanceMax:     2.5,
			StretchDistanceMin:    2.0,
			StretchDistanceMax:    3.5,
		},
		LateralTightening: LateralTightening{
			PatternLength: 4,
			RelativeNPS:   1.5,
			AbsoluteNPS:   6,
			Speed:         4,
		},
		Facing: Facing{
			MaxInwardPercentage:  0.35,
			MaxOutwardPercentage: 0.35,
		},
	}
}

// DefaultStepTypeReplacements builds the identity-extended-with-mirror
// substitution table: every StepKind maps to itself and,
// for brackets, to its heel/toe mirror.
func DefaultStepTypeReplacements() map[stepgraph.StepKind][]stepgraph.StepKind {
	out := make(map[stepgraph.StepKind][]stepgraph.StepKind)
	for k := stepgraph.StepKind(0); k < stepgraph.NumStepKinds; k++ {
		mirror := mirrorKind(k)
		if mirror == k {
			out[k] = []stepgraph.StepKind{k}
		} else {
			out[k] = []stepgraph.StepKind{k, mirror}
		}
	}
	return out
}

// mirrorKind returns the heel/toe mirror of a bracket StepKind, or k
// itself for kinds with no heel/toe distinction.
func mirrorKind(k stepgraph.StepKind) stepgraph.StepKind {
	switch k {
	case stepgraph.BracketHeelNewToeSame:
		return stepgraph.BracketHeelSameToeNew
	case stepgraph.BracketHeelSameToeNew:
		return stepgraph.BracketHeelNewToeSame
	case stepgraph.BracketHeelNewToeSwap:
		return stepgraph.BracketHeelSwapToeNew
	case stepgraph.BracketHeelSwapToeNew:
		return stepgraph.BracketHeelNewToeSwap
	case stepgraph.BracketHeelSameToeSwap:
		return stepgraph.BracketHeelSwapToeSame
	case stepgraph.BracketHeelSwapToeSame:
		return stepgraph.BracketHeelSameToeSwap
	case stepgraph.BracketOneArrowHeelNew:
		return stepgraph.BracketOneArrowToeNew
	case stepgraph.BracketOneArrowToeNew:
		return stepgraph.BracketOneArrowHeelNew
	case stepgraph.BracketOneArrowHeelSame:
		return stepgraph.BracketOneArrowToeSame
	case stepgraph.BracketOneArrowToeSame:
		return stepgraph.BracketOneArrowHeelSame
	default:
		return k
	}
}

// replacementSet returns the configured table of allowed target kinds
// per source kind, or the default table when none is configured. A
// configured table is returned as given; newSubstitutionTable adds each
// kind to its own set.
func (c Config) replacementSet() map[stepgraph.StepKind][]stepgraph.StepKind {
	if c.StepTypeReplacements != nil {
		return c.StepTypeReplacements
	}
	return DefaultStepTypeReplacements()
}
