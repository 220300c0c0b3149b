// Package stepgraph builds, for a single pad layout, every reachable
// full-body position and every legal labelled transition between
// positions. The graph is built once per pad and shared read-only by
// concurrent chart conversions.
package stepgraph

import "steplift/pad"

// StepKind is the closed set of labelled movements the graph
// recognizes. A table-driven legality/construction function backs each
// kind rather than a per-kind type hierarchy; the kinds differ only in
// legality checks and successor-node construction.
type StepKind int

const (
	SameArrow StepKind = iota
	NewArrow
	CrossoverFront
	CrossoverBehind
	InvertFront
	InvertBehind
	FootSwap

	BracketHeelNewToeNew
	BracketHeelNewToeSame
	BracketHeelNewToeSwap
	BracketHeelSameToeNew
	BracketHeelSameToeSwap
	BracketHeelSwapToeNew
	BracketHeelSwapToeSame
	BracketHeelSwapToeSwap

	BracketOneArrowHeelNew
	BracketOneArrowHeelSame
	BracketOneArrowToeNew
	BracketOneArrowToeSame

	numStepKinds
)

// NumStepKinds is the count of recognized StepKind values, for callers
// that need to enumerate the closed set (e.g. building a default
// step-kind substitution table).
const NumStepKinds = numStepKinds

var stepKindNames = [numStepKinds]string{
	"SameArrow", "NewArrow", "CrossoverFront", "CrossoverBehind",
	"InvertFront", "InvertBehind", "FootSwap",
	"BracketHeelNewToeNew", "BracketHeelNewToeSame", "BracketHeelNewToeSwap",
	"BracketHeelSameToeNew", "BracketHeelSameToeSwap",
	"BracketHeelSwapToeNew", "BracketHeelSwapToeSame", "BracketHeelSwapToeSwap",
	"BracketOneArrowHeelNew", "BracketOneArrowHeelSame",
	"BracketOneArrowToeNew", "BracketOneArrowToeSame",
}

func (k StepKind) String() string {
	if k < 0 || k >= numStepKinds {
		return "StepKind(?)"
	}
	return stepKindNames[k]
}

// IsBracket reports whether a StepKind moves both portions of one foot.
func (k StepKind) IsBracket() bool {
	return k >= BracketHeelNewToeNew && k <= BracketHeelSwapToeSwap
}

// IsBracketOneArrow reports whether a StepKind moves a single portion of
// a foot whose other portion is already holding/rolling.
func (k StepKind) IsBracketOneArrow() bool {
	return k >= BracketOneArrowHeelNew
}

// IsCrossoverOrInvert reports whether a StepKind is a crossover or invert, i.e.
// it twists the body.
func (k StepKind) IsCrossoverOrInvert() bool {
	switch k {
	case CrossoverFront, CrossoverBehind, InvertFront, InvertBehind:
		return true
	}
	return false
}

// FootAction is attached to each moving portion.
type FootAction int

const (
	Tap FootAction = iota
	Hold
	Release
)

func (a FootAction) String() string {
	switch a {
	case Tap:
		return "Tap"
	case Hold:
		return "Hold"
	default:
		return "Release"
	}
}

// OccKind is the occupancy state of an occupied portion.
type OccKind int

const (
	Resting OccKind = iota
	Held
	Rolling
)

// Portion indexes the two portions tracked per foot in a GraphNode: the
// heel slot doubles as "Default" (an un-bracketed foot occupies heel
// only, leaving toe at lane -1).
type Portion int

const (
	Heel Portion = iota
	Toe
	numPortions
)

// PortionState is one portion's occupancy.
type PortionState struct {
	Lane int // -1 if unoccupied
	Occ  OccKind
}

// Node is a full-body position: for each foot, for each portion, a
// (lane, occupancy). Nodes are hash-consed by the Graph's arena and
// compared by structural equality, so Node must stay a plain comparable
// value (no slices/maps).
type Node struct {
	Feet    [2][2]PortionState // [pad.Foot][Portion]
	Twisted bool               // persists across crossover/invert steps until untwisted
}

// NodeID indexes into a Graph's arena.
type NodeID int

// Action describes what one portion of one foot does on a step, absent
// its roll bit (roll bits vary per occurrence in a chart; link identity
// does not).
type Action struct {
	Acting bool
	Kind   StepKind
	Act    FootAction
	Lane   int // lane this portion occupies (Tap/Hold) or vacates (Release)
}

// Link is a labelled edge: for each foot, for each portion, either "not
// acting" (Action{Acting:false}) or a populated Action. Link is
// comparable and used directly as a map key by callers that cache over
// link identity.
type Link struct {
	Actions [2][2]Action // [pad.Foot][Portion]
}

// Instance is a Link plus the roll bit of each acting portion.
type Instance struct {
	Link Link
	Roll [2][2]bool
}

// ActiveFeet returns the feet with at least one acting portion in order.
func (l Link) ActiveFeet() []pad.Foot {
	var feet []pad.Foot
	for f := 0; f < 2; f++ {
		if l.Actions[f][Heel].Acting || l.Actions[f][Toe].Acting {
			feet = append(feet, pad.Foot(f))
		}
	}
	return feet
}

// Edge is one outgoing transition from a node.
type Edge struct {
	Link Link
	To   NodeID
}
