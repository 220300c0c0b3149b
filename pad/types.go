// Package pad holds the static, per-layout geometry and legality tables a
// pad (the physical grid of panels under a player's feet) is described by.
// A PadModel is built once per layout and shared read-only afterward.
package pad

// Foot identifies which of the player's two feet a portion belongs to.
type Foot int

const (
	Left Foot = iota
	Right
	numFeet
)

func (f Foot) String() string {
	if f == Left {
		return "Left"
	}
	return "Right"
}

// Other returns the opposite foot.
func (f Foot) Other() Foot {
	if f == Left {
		return Right
	}
	return Left
}

// Portion describes which part of a foot is under consideration. A foot
// has two portions; when both are used simultaneously on distinct lanes
// the foot is bracketing.
type Portion int

const (
	Default Portion = iota
	Heel
	Toe
)

// Lane is a panel's coordinate in abstract panel units.
type Lane struct {
	X, Y int
}

// StartTier is one tier of preferred starting positions: a set of
// (left lane, right lane) pairs a conversion may start from. Tier 0 is
// tried first; later tiers are fallbacks.
type StartTier struct {
	Positions []StartPosition
}

// StartPosition is one admissible starting placement of both feet.
type StartPosition struct {
	LeftLane, RightLane int
}

// Definition is the raw, unvalidated data a PadModel is built from. All
// slices are dense and square/cubic in the number of lanes; out-of-range
// or mismatched dimensions are rejected by Build.
type Definition struct {
	Name  string
	Lanes []Lane

	// ValidNextArrow[from][to] reports whether a foot may move to lane
	// to at all, from a position where it currently occupies from.
	ValidNextArrow [][]bool

	// BracketableOtherHeel[foot][thisLane][otherLane] and
	// BracketableOtherToe[...] report whether, for the named foot
	// resting on thisLane, the other portion of the SAME foot may
	// simultaneously occupy otherLane (a bracket).
	BracketableOtherHeel [][][]bool
	BracketableOtherToe  [][][]bool

	// OtherFootPairings[foot][thisLane][otherLane] reports whether,
	// given the named foot is on thisLane, the OTHER foot may occupy
	// otherLane without crossing over or inverting.
	OtherFootPairings               [][][]bool
	OtherFootPairingsCrossoverFront [][][]bool
	OtherFootPairingsCrossoverBehind [][][]bool
	OtherFootPairingsInverted       [][][]bool

	StartTiers []StartTier

	// YTravelDistanceCompensation scales the Y component of a
	// weighted-Euclidean travel distance; feet are long but narrow, so
	// equal Y movement is perceived as cheaper than equal X movement.
	YTravelDistanceCompensation float64
}

// Model is an immutable, validated pad layout. Constructed once via Build
// and shared read-only for the lifetime of the process.
type Model struct {
	def Definition
	n   int
}

// NumLanes returns the number of lanes on the pad.
func (m *Model) NumLanes() int { return m.n }

// Name returns the pad's layout name, e.g. "dance-single".
func (m *Model) Name() string { return m.def.Name }

// RawDefinition returns the Definition a Model was built from, for
// callers that need to fingerprint or re-derive it (e.g. a graph
// cache's content hash).
func (m *Model) RawDefinition() Definition { return m.def }

// LaneCoord returns the abstract panel coordinate of a lane.
func (m *Model) LaneCoord(lane int) Lane { return m.def.Lanes[lane] }

// YCompensation returns the Y-travel-distance compensation scalar.
func (m *Model) YCompensation() float64 { return m.def.YTravelDistanceCompensation }

// StartTiers returns the pad's ordered tiers of preferred starting
// positions. Tier 0 is tried first by the Performer.
func (m *Model) StartTiers() []StartTier { return m.def.StartTiers }

// ValidNextArrow reports whether a foot may step from lane `from` to
// lane `to` at all, independent of which foot or what the other foot is
// doing.
func (m *Model) ValidNextArrow(from, to int) bool {
	return m.def.ValidNextArrow[from][to]
}

// Bracketable reports whether, for the given foot resting on thisLane,
// the named portion of the SAME foot may simultaneously occupy
// otherLane.
func (m *Model) Bracketable(foot Foot, portion Portion, thisLane, otherLane int) bool {
	switch portion {
	case Heel:
		return m.def.BracketableOtherHeel[foot][thisLane][otherLane]
	case Toe:
		return m.def.BracketableOtherToe[foot][thisLane][otherLane]
	default:
		return m.def.BracketableOtherHeel[foot][thisLane][otherLane] ||
			m.def.BracketableOtherToe[foot][thisLane][otherLane]
	}
}

// Orientation describes the body twist a pairing of feet requires.
type Orientation int

const (
	Plain Orientation = iota
	CrossoverFront
	CrossoverBehind
	Inverted
)

// OtherFootPairing reports whether, given foot is on thisLane, the other
// foot may occupy otherLane under the named orientation.
func (m *Model) OtherFootPairing(foot Foot, thisLane, otherLane int, o Orientation) bool {
	switch o {
	case CrossoverFront:
		return m.def.OtherFootPairingsCrossoverFront[foot][thisLane][otherLane]
	case CrossoverBehind:
		return m.def.OtherFootPairingsCrossoverBehind[foot][thisLane][otherLane]
	case Inverted:
		return m.def.OtherFootPairingsInverted[foot][thisLane][otherLane]
	default:
		return m.def.OtherFootPairings[foot][thisLane][otherLane]
	}
}
