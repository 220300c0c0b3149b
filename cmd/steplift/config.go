package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"steplift/express"
	"steplift/perform"
)

// Seed modes for charts when no explicit seed is configured: a
// filename-derived seed reproduces each chart's output across batch
// runs; a fresh uuid-derived seed varies it per run.
const (
	seedModeFilename = "filename"
	seedModeUUID     = "uuid"
)

// batchConfig is the closed set of options a batch run reads from a
// TOML config file, mirroring ExpressionConfig and PerformanceConfig
// plus the batch driver's own input/output wiring.
type batchConfig struct {
	SourcePad string `toml:"source_pad"`
	TargetPad string `toml:"target_pad"`
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
	Seed      uint64 `toml:"seed"`
	SeedMode  string `toml:"seed_mode"`
	CachePath string `toml:"cache_path"`

	Expression struct {
		DefaultBracketParsingMethod                 string  `toml:"default_bracket_parsing_method"`
		BracketParsingDetermination                 string  `toml:"bracket_parsing_determination"`
		MinLevelForBrackets                         int     `toml:"min_level_for_brackets"`
		UseAggressiveWhenSimultaneousExceedsTwoFeet bool    `toml:"use_aggressive_when_simultaneous_exceeds_two_feet"`
		BalancedBracketsPerMinuteForAggressive      float64 `toml:"balanced_brackets_per_minute_for_aggressive"`
		BalancedBracketsPerMinuteForNoBrackets      float64 `toml:"balanced_brackets_per_minute_for_no_brackets"`
	} `toml:"expression"`

	Performance struct {
		StepTightening struct {
			TravelSpeedMinSeconds float64 `toml:"travel_speed_min_seconds"`
			TravelSpeedMaxSeconds float64 `toml:"travel_speed_max_seconds"`
			TravelDistanceMin     float64 `toml:"travel_distance_min"`
			TravelDistanceMax     float64 `toml:"travel_distance_max"`
			StretchDistanceMin    float64 `toml:"stretch_distance_min"`
			StretchDistanceMax    float64 `toml:"stretch_distance_max"`
		} `toml:"step_tightening"`
		LateralTightening struct {
			PatternLength int     `toml:"pattern_length"`
			RelativeNPS   float64 `toml:"relative_nps"`
			AbsoluteNPS   float64 `toml:"absolute_nps"`
			Speed         float64 `toml:"speed"`
		} `toml:"lateral_tightening"`
		Facing struct {
			MaxInwardPercentage  float64 `toml:"max_inward_percentage"`
			MaxOutwardPercentage float64 `toml:"max_outward_percentage"`
		} `toml:"facing"`
		DesiredWeights map[string][]float64 `toml:"desired_weights"`
	} `toml:"performance"`
}

func loadBatchConfig(path string) (batchConfig, error) {
	cfg := defaultBatchConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return batchConfig{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	switch cfg.SeedMode {
	case seedModeFilename, seedModeUUID:
	default:
		return batchConfig{}, fmt.Errorf("unknown seed_mode %q (want %q or %q)", cfg.SeedMode, seedModeFilename, seedModeUUID)
	}
	return cfg, nil
}

func defaultBatchConfig() batchConfig {
	var cfg batchConfig
	cfg.SourcePad = "dance-single"
	cfg.TargetPad = "pump-single"
	cfg.InputDir = "charts/in"
	cfg.OutputDir = "charts/out"
	cfg.SeedMode = seedModeFilename
	cfg.CachePath = "graphcache.sqlite"

	dc := express.DefaultConfig()
	cfg.Expression.DefaultBracketParsingMethod = "Balanced"
	cfg.Expression.BracketParsingDetermination = "UseDefault"
	cfg.Expression.MinLevelForBrackets = dc.MinLevelForBrackets
	cfg.Expression.UseAggressiveWhenSimultaneousExceedsTwoFeet = dc.UseAggressiveWhenSimultaneousExceedsTwoFeet
	cfg.Expression.BalancedBracketsPerMinuteForAggressive = dc.BalancedBracketsPerMinuteForAggressive
	cfg.Expression.BalancedBracketsPerMinuteForNoBrackets = dc.BalancedBracketsPerMinuteForNoBrackets

	pc := perform.DefaultConfig()
	cfg.Performance.StepTightening.TravelSpeedMinSeconds = pc.StepTightening.TravelSpeedMinSeconds
	cfg.Performance.StepTightening.TravelSpeedMaxSeconds = pc.StepTightening.TravelSpeedMaxSeconds
	cfg.Performance.StepTightening.TravelDistanceMin = pc.StepTightening.TravelDistanceMin
	cfg.Performance.StepTightening.TravelDistanceMax = pc.StepTightening.TravelDistanceMax
	cfg.Performance.StepTightening.StretchDistanceMin = pc.StepTightening.StretchDistanceMin
	cfg.Performance.StepTightening.StretchDistanceMax = pc.StepTightening.StretchDistanceMax
	cfg.Performance.LateralTightening.PatternLength = pc.LateralTightening.PatternLength
	cfg.Performance.LateralTightening.RelativeNPS = pc.LateralTightening.RelativeNPS
	cfg.Performance.LateralTightening.AbsoluteNPS = pc.LateralTightening.AbsoluteNPS
	cfg.Performance.LateralTightening.Speed = pc.LateralTightening.Speed
	cfg.Performance.Facing.MaxInwardPercentage = pc.Facing.MaxInwardPercentage
	cfg.Performance.Facing.MaxOutwardPercentage = pc.Facing.MaxOutwardPercentage
	return cfg
}

func (c batchConfig) expressionConfig() (express.Config, error) {
	method, err := parseBracketMethod(c.Expression.DefaultBracketParsingMethod)
	if err != nil {
		return express.Config{}, err
	}
	determination, err := parseDetermination(c.Expression.BracketParsingDetermination)
	if err != nil {
		return express.Config{}, err
	}
	return express.Config{
		DefaultBracketParsingMethod:                 method,
		BracketParsingDetermination:                 determination,
		MinLevelForBrackets:                         c.Expression.MinLevelForBrackets,
		UseAggressiveWhenSimultaneousExceedsTwoFeet: c.Expression.UseAggressiveWhenSimultaneousExceedsTwoFeet,
		BalancedBracketsPerMinuteForAggressive:      c.Expression.BalancedBracketsPerMinuteForAggressive,
		BalancedBracketsPerMinuteForNoBrackets:      c.Expression.BalancedBracketsPerMinuteForNoBrackets,
	}, nil
}

func (c batchConfig) performanceConfig() perform.Config {
	pc := perform.Config{
		DesiredWeights: c.Performance.DesiredWeights,
	}
	pc.StepTightening = perform.StepTightening{
		TravelSpeedMinSeconds: c.Performance.StepTightening.TravelSpeedMinSeconds,
		TravelSpeedMaxSeconds: c.Performance.StepTightening.TravelSpeedMaxSeconds,
		TravelDistanceMin:     c.Performance.StepTightening.TravelDistanceMin,
		TravelDistanceMax:     c.Performance.StepTightening.TravelDistanceMax,
		StretchDistanceMin:    c.Performance.StepTightening.StretchDistanceMin,
		StretchDistanceMax:    c.Performance.StepTightening.StretchDistanceMax,
	}
	pc.LateralTightening = perform.LateralTightening{
		PatternLength: c.Performance.LateralTightening.PatternLength,
		RelativeNPS:   c.Performance.LateralTightening.RelativeNPS,
		AbsoluteNPS:   c.Performance.LateralTightening.AbsoluteNPS,
		Speed:         c.Performance.LateralTightening.Speed,
	}
	pc.Facing = perform.Facing{
		MaxInwardPercentage:  c.Performance.Facing.MaxInwardPercentage,
		MaxOutwardPercentage: c.Performance.Facing.MaxOutwardPercentage,
	}
	return pc
}

func parseBracketMethod(s string) (express.BracketParsingMethod, error) {
	switch s {
	case "", "Balanced":
		return express.Balanced, nil
	case "Aggressive":
		return express.Aggressive, nil
	case "NoBrackets":
		return express.NoBrackets, nil
	default:
		return 0, fmt.Errorf("unknown default_bracket_parsing_method %q", s)
	}
}

func parseDetermination(s string) (express.Determination, error) {
	switch s {
	case "", "UseDefault":
		return express.UseDefault, nil
	case "ChooseDynamically":
		return express.ChooseDynamically, nil
	default:
		return 0, fmt.Errorf("unknown bracket_parsing_determination %q", s)
	}
}
