package express

// BracketParsingMethod selects how aggressively the Expressor prefers
// bracket (single-foot, two-lane) interpretations over jumps when both
// are feasible for a group.
type BracketParsingMethod int

const (
	Aggressive BracketParsingMethod = iota
	Balanced
	NoBrackets
)

// Determination selects between always using Config's default method or
// measuring the chart and choosing dynamically.
type Determination int

const (
	UseDefault Determination = iota
	ChooseDynamically
)

// Config is the closed set of recognized Expressor options.
type Config struct {
	DefaultBracketParsingMethod                 BracketParsingMethod
	BracketParsingDetermination                 Determination
	MinLevelForBrackets                         int
	UseAggressiveWhenSimultaneousExceedsTwoFeet bool
	BalancedBracketsPerMinuteForAggressive      float64
	BalancedBracketsPerMinuteForNoBrackets      float64

	// ChartLevel is the authored difficulty rating used against
	// MinLevelForBrackets; supplied by the caller, since chart metadata
	// parsing lives outside the core.
	ChartLevel int
}

// DefaultConfig mirrors a conservative, broadly-applicable default.
func DefaultConfig() Config {
	return Config{
		DefaultBracketParsingMethod:                 Balanced,
		BracketParsingDetermination:                 UseDefault,
		MinLevelForBrackets:                         0,
		UseAggressiveWhenSimultaneousExceedsTwoFeet: false,
		BalancedBracketsPerMinuteForAggressive:      25,
		BalancedBracketsPerMinuteForNoBrackets:      2,
	}
}

// staticMethod picks the method used for a first pass: either the
// configured default, or Balanced when the chart will be re-measured
// and re-run under ChooseDynamically.
func (c Config) staticMethod() BracketParsingMethod {
	if c.ChartLevel < c.MinLevelForBrackets {
		return NoBrackets
	}
	if c.BracketParsingDetermination == UseDefault {
		return c.DefaultBracketParsingMethod
	}
	return Balanced
}

// dynamicMethod chooses the re-run method from a first Balanced pass's
// measured brackets-per-minute.
func (c Config) dynamicMethod(bracketsPerMinute float64) BracketParsingMethod {
	if bracketsPerMinute >= c.BalancedBracketsPerMinuteForAggressive {
		return Aggressive
	}
	if bracketsPerMinute <= c.BalancedBracketsPerMinuteForNoBrackets {
		return NoBrackets
	}
	return Balanced
}
