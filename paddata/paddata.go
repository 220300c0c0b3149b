// Package paddata supplies built-in pad.Definitions for the batch
// driver. The core treats pad-layout loading as an external interface;
// a real deployment would load these from the host's pad-layout data
// files instead.
package paddata

import "steplift/pad"

// Lane indices for every built-in layout: Left=0, Down=1, Up=2, Right=3.
const (
	Left = iota
	Down
	Up
	Right
)

// DanceSingle returns the classic 4-panel "dance-single" layout.
func DanceSingle() pad.Definition {
	lanes := []pad.Lane{
		{X: 0, Y: 1}, // Left
		{X: 1, Y: 0}, // Down
		{X: 1, Y: 2}, // Up
		{X: 2, Y: 1}, // Right
	}
	n := len(lanes)

	validNext := square(n, true)

	bracketHeel := perFoot(n, func(foot pad.Foot, this, other int) bool {
		return this != other
	})
	bracketToe := bracketHeel

	plain := perFoot(n, func(foot pad.Foot, this, other int) bool {
		return isPlainPairing(foot, lanes[this], lanes[other])
	})
	crossFront := perFoot(n, func(foot pad.Foot, this, other int) bool {
		return !isPlainPairing(foot, lanes[this], lanes[other]) && isFrontCrossover(lanes[this], lanes[other])
	})
	crossBehind := perFoot(n, func(foot pad.Foot, this, other int) bool {
		return !isPlainPairing(foot, lanes[this], lanes[other]) && !isFrontCrossover(lanes[this], lanes[other])
	})
	inverted := perFoot(n, func(foot pad.Foot, this, other int) bool { return false })

	return pad.Definition{
		Name:                             "dance-single",
		Lanes:                            lanes,
		ValidNextArrow:                   validNext,
		BracketableOtherHeel:             bracketHeel,
		BracketableOtherToe:              bracketToe,
		OtherFootPairings:                plain,
		OtherFootPairingsCrossoverFront:  crossFront,
		OtherFootPairingsCrossoverBehind: crossBehind,
		OtherFootPairingsInverted:        inverted,
		StartTiers: []pad.StartTier{
			{Positions: []pad.StartPosition{{LeftLane: Left, RightLane: Right}}},
			{Positions: []pad.StartPosition{{LeftLane: Down, RightLane: Up}}},
		},
		YTravelDistanceCompensation: 0.5,
	}
}

// PumpSingle returns a 5-panel "pump-single" style layout: four corner
// panels plus a center panel, used to exercise cross-pad conversion
// (different lane counts, an odd-length lane set).
func PumpSingle() pad.Definition {
	lanes := []pad.Lane{
		{X: 0, Y: 2}, // DownLeft
		{X: 0, Y: 0}, // UpLeft
		{X: 1, Y: 1}, // Center
		{X: 2, Y: 0}, // UpRight
		{X: 2, Y: 2}, // DownRight
	}
	n := len(lanes)

	validNext := square(n, true)

	bracketHeel := perFoot(n, func(foot pad.Foot, this, other int) bool {
		return this != other
	})
	bracketToe := bracketHeel

	plain := perFoot(n, func(foot pad.Foot, this, other int) bool {
		return isPlainPairing(foot, lanes[this], lanes[other])
	})
	crossFront := perFoot(n, func(foot pad.Foot, this, other int) bool {
		return !isPlainPairing(foot, lanes[this], lanes[other]) && isFrontCrossover(lanes[this], lanes[other])
	})
	crossBehind := perFoot(n, func(foot pad.Foot, this, other int) bool {
		return !isPlainPairing(foot, lanes[this], lanes[other]) && !isFrontCrossover(lanes[this], lanes[other])
	})
	inverted := perFoot(n, func(foot pad.Foot, this, other int) bool { return false })

	const (
		downLeft = iota
		upLeft
		center
		upRight
		downRight
	)

	return pad.Definition{
		Name:                             "pump-single",
		Lanes:                            lanes,
		ValidNextArrow:                   validNext,
		BracketableOtherHeel:             bracketHeel,
		BracketableOtherToe:              bracketToe,
		OtherFootPairings:                plain,
		OtherFootPairingsCrossoverFront:  crossFront,
		OtherFootPairingsCrossoverBehind: crossBehind,
		OtherFootPairingsInverted:        inverted,
		StartTiers: []pad.StartTier{
			{Positions: []pad.StartPosition{{LeftLane: downLeft, RightLane: downRight}}},
			{Positions: []pad.StartPosition{{LeftLane: upLeft, RightLane: upRight}}},
		},
		YTravelDistanceCompensation: 0.6,
	}
}

// Load returns the built-in Definition for a layout name. The core
// never calls this directly; only the CLI batch driver does.
func Load(name string) (pad.Definition, bool) {
	switch name {
	case "dance-single":
		return DanceSingle(), true
	case "pump-single":
		return PumpSingle(), true
	default:
		return pad.Definition{}, false
	}
}

// isPlainPairing reports whether, given `foot` rests at `thisLane`, the
// other foot may occupy `otherLane` without crossing: a Left-side
// reference foot keeps the other foot at or to its right; a Right-side
// reference foot keeps the other foot at or to its left.
func isPlainPairing(foot pad.Foot, thisLane, otherLane pad.Lane) bool {
	if foot == pad.Left {
		return otherLane.X >= thisLane.X
	}
	return otherLane.X <= thisLane.X
}

// isFrontCrossover is an arbitrary but deterministic convention
// distinguishing a crossing step that passes in front of the body from
// one that passes behind it, keyed on relative Y.
func isFrontCrossover(thisLane, otherLane pad.Lane) bool {
	return otherLane.Y < thisLane.Y
}

func square(n int, fill bool) [][]bool {
	m := make([][]bool, n)
	for i := range m {
		m[i] = make([]bool, n)
		for j := range m[i] {
			m[i][j] = fill
		}
	}
	return m
}

func perFoot(n int, f func(foot pad.Foot, this, other int) bool) [][][]bool {
	out := make([][][]bool, 2)
	for foot := 0; foot < 2; foot++ {
		out[foot] = make([][]bool, n)
		for this := 0; this < n; this++ {
			out[foot][this] = make([]bool, n)
			for other := 0; other < n; other++ {
				out[foot][this][other] = f(pad.Foot(foot), this, other)
			}
		}
	}
	return out
}
