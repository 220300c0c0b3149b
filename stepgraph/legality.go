package stepgraph

import "steplift/pad"

// legalOutgoing enumerates every legal edge out of a node: single-foot
// simple steps, single-foot brackets, single-foot bracket-one-arrow
// steps, composite two-foot jumps built from pairs of single-foot
// simple steps, and bracket jumps (one foot's bracket with the other
// foot's tap, or two brackets at once).
//
// Jumps are composed from independently-legal single-foot moves rather
// than re-deriving pairing legality against the other foot's post-move
// lane: checking each foot's move against the other's PRE-move position
// is a simplification that keeps the construction tractable while still
// covering every StepKind the Expressor and Performer need.
func legalOutgoing(p *pad.Model, n Node) []linkEdge {
	var edges []linkEdge

	leftMoves := simpleMovesForFoot(p, n, pad.Left)
	rightMoves := simpleMovesForFoot(p, n, pad.Right)

	leftBrackets := bracketMovesForFoot(p, n, pad.Left)
	rightBrackets := bracketMovesForFoot(p, n, pad.Right)

	edges = append(edges, leftMoves...)
	edges = append(edges, rightMoves...)
	edges = append(edges, leftBrackets...)
	edges = append(edges, rightBrackets...)
	edges = append(edges, bracketOneArrowMovesForFoot(p, n, pad.Left)...)
	edges = append(edges, bracketOneArrowMovesForFoot(p, n, pad.Right)...)

	for _, l := range leftMoves {
		for _, r := range rightMoves {
			if !tapActionsCompatible(l, r) {
				continue
			}
			edges = append(edges, combineJump(n, l, r))
		}
	}

	// Bracket jumps: one foot brackets while the other taps, or both
	// feet bracket at once, covering three or four simultaneous lanes.
	// Non-bracketable simultaneous groups beyond two lanes stay
	// unreachable (hands are out of scope), but bracketable ones are
	// legal body positions and the Expressor needs them.
	for _, lb := range leftBrackets {
		for _, r := range rightMoves {
			if e, ok := combineBracketJump(n, lb, r, pad.Right); ok {
				edges = append(edges, e)
			}
		}
		for _, rb := range rightBrackets {
			if e, ok := combineDoubleBracket(n, lb, rb); ok {
				edges = append(edges, e)
			}
		}
	}
	for _, rb := range rightBrackets {
		for _, l := range leftMoves {
			if e, ok := combineBracketJump(n, rb, l, pad.Left); ok {
				edges = append(edges, e)
			}
		}
	}

	return edges
}

func tapActionsCompatible(l, r linkEdge) bool {
	ll := l.link.Actions[pad.Left][Heel]
	rl := r.link.Actions[pad.Right][Heel]
	if !ll.Acting || !rl.Acting {
		return false
	}
	if ll.Lane == rl.Lane {
		return false
	}
	// FootSwap already moves the other foot; combining two independently
	// computed foot-swaps into one "jump" would double-count the other
	// foot's state, so jumps are restricted to non-swap single steps.
	if ll.Kind == FootSwap || rl.Kind == FootSwap {
		return false
	}
	return true
}

func combineJump(n Node, l, r linkEdge) linkEdge {
	link := Link{}
	link.Actions[pad.Left][Heel] = l.link.Actions[pad.Left][Heel]
	link.Actions[pad.Right][Heel] = r.link.Actions[pad.Right][Heel]

	to := n
	to.Feet[pad.Left] = l.to.Feet[pad.Left]
	to.Feet[pad.Right] = r.to.Feet[pad.Right]
	to.Twisted = l.to.Twisted || r.to.Twisted
	return linkEdge{link: link, to: to}
}

func lanesOf(e linkEdge) []int {
	var lanes []int
	for f := 0; f < 2; f++ {
		for p := 0; p < 2; p++ {
			if e.link.Actions[f][p].Acting {
				lanes = append(lanes, e.link.Actions[f][p].Lane)
			}
		}
	}
	return lanes
}

func lanesDisjoint(a, b linkEdge) bool {
	for _, la := range lanesOf(a) {
		for _, lb := range lanesOf(b) {
			if la == lb {
				return false
			}
		}
	}
	return true
}

// combineBracketJump merges one foot's bracket with the other foot's
// simple tap into a three-lane jump. Swap components are excluded for
// the same double-counting reason as in tapActionsCompatible.
func combineBracketJump(n Node, bracket, simple linkEdge, simpleFoot pad.Foot) (linkEdge, bool) {
	sa := simple.link.Actions[simpleFoot][Heel]
	if !sa.Acting || sa.Act != Tap || sa.Kind == FootSwap {
		return linkEdge{}, false
	}
	for _, ba := range []Action{
		bracket.link.Actions[simpleFoot.Other()][Heel],
		bracket.link.Actions[simpleFoot.Other()][Toe],
	} {
		if bracketKindSwaps(ba.Kind) {
			return linkEdge{}, false
		}
	}
	if !lanesDisjoint(bracket, simple) {
		return linkEdge{}, false
	}

	bFoot := simpleFoot.Other()
	link := Link{}
	link.Actions[bFoot][Heel] = bracket.link.Actions[bFoot][Heel]
	link.Actions[bFoot][Toe] = bracket.link.Actions[bFoot][Toe]
	link.Actions[simpleFoot][Heel] = sa

	to := n
	to.Feet[bFoot] = bracket.to.Feet[bFoot]
	to.Feet[simpleFoot] = simple.to.Feet[simpleFoot]
	to.Twisted = false
	return linkEdge{link: link, to: to}, true
}

// combineDoubleBracket merges both feet bracketing at once into a
// four-lane jump.
func combineDoubleBracket(n Node, lb, rb linkEdge) (linkEdge, bool) {
	for f := 0; f < 2; f++ {
		src := lb
		if pad.Foot(f) == pad.Right {
			src = rb
		}
		for p := 0; p < 2; p++ {
			if bracketKindSwaps(src.link.Actions[f][p].Kind) {
				return linkEdge{}, false
			}
		}
	}
	if !lanesDisjoint(lb, rb) {
		return linkEdge{}, false
	}

	link := Link{}
	link.Actions[pad.Left] = lb.link.Actions[pad.Left]
	link.Actions[pad.Right] = rb.link.Actions[pad.Right]

	to := n
	to.Feet[pad.Left] = lb.to.Feet[pad.Left]
	to.Feet[pad.Right] = rb.to.Feet[pad.Right]
	to.Twisted = false
	return linkEdge{link: link, to: to}, true
}

// bracketKindSwaps reports whether a bracket StepKind displaces the
// other foot via either portion.
func bracketKindSwaps(k StepKind) bool {
	switch k {
	case BracketHeelNewToeSwap, BracketHeelSameToeSwap, BracketHeelSwapToeNew,
		BracketHeelSwapToeSame, BracketHeelSwapToeSwap:
		return true
	}
	return false
}

// footHolding reports whether any portion of foot is Held or Rolling.
func footHolding(n Node, foot pad.Foot) bool {
	for p := 0; p < 2; p++ {
		if n.Feet[foot][p].Lane != -1 && (n.Feet[foot][p].Occ == Held || n.Feet[foot][p].Occ == Rolling) {
			return true
		}
	}
	return false
}

// singleLane returns the foot's lane and whether it is bracketing
// (occupying two distinct lanes at once).
func singleLane(n Node, foot pad.Foot) (lane int, bracketing bool) {
	heel := n.Feet[foot][Heel]
	toe := n.Feet[foot][Toe]
	if toe.Lane != -1 {
		return -1, true
	}
	return heel.Lane, false
}

func simpleMovesForFoot(p *pad.Model, n Node, foot pad.Foot) []linkEdge {
	other := foot.Other()
	heel, toe := n.Feet[foot][Heel], n.Feet[foot][Toe]

	// Held or rolling portions can only release; no other simple move is
	// available to the foot until every held portion lets go.
	var releases []linkEdge
	if heel.Lane != -1 && (heel.Occ == Held || heel.Occ == Rolling) {
		releases = append(releases, releaseEdge(n, foot, Heel, heel.Lane))
	}
	if toe.Lane != -1 && (toe.Occ == Held || toe.Occ == Rolling) {
		releases = append(releases, releaseEdge(n, foot, Toe, toe.Lane))
	}
	if len(releases) > 0 {
		return releases
	}

	// A fully-resting bracketed foot collapses back to a single-lane
	// stance on its next simple step, with the heel lane as its
	// reference position.
	curLane := heel.Lane
	otherLane, otherBracketing := singleLane(n, other)
	otherHolds := footHolding(n, other)

	var edges []linkEdge
	if curLane != -1 {
		edges = append(edges, simpleEdge(n, foot, SameArrow, Tap, curLane))
		edges = append(edges, simpleEdge(n, foot, SameArrow, Hold, curLane))
	}

	for lane := 0; lane < p.NumLanes(); lane++ {
		if lane == curLane {
			continue
		}
		// A foot displaced off the pad by a footswap has no source lane
		// to gate reachability on, so it skips this check; the pairing
		// checks below still apply.
		if curLane != -1 && !p.ValidNextArrow(curLane, lane) {
			continue
		}
		if !otherBracketing && lane == otherLane {
			if !otherHolds {
				edges = append(edges, swapEdge(n, foot, lane))
			}
			// A lane the other foot is still holding cannot be stepped
			// on at all.
			continue
		}
		if otherBracketing || otherLane == -1 {
			// The pairing tables are keyed by the other foot's single
			// lane; with the other foot bracketing or off the pad there
			// is no single reference lane, so allow a plain step only
			// (documented simplification).
			if lane == n.Feet[other][Heel].Lane || lane == n.Feet[other][Toe].Lane {
				continue
			}
			edges = append(edges, simpleEdge(n, foot, NewArrow, Tap, lane))
			edges = append(edges, simpleEdge(n, foot, NewArrow, Hold, lane))
			continue
		}
		if p.OtherFootPairing(other, otherLane, lane, pad.Plain) {
			edges = append(edges, simpleEdge(n, foot, NewArrow, Tap, lane))
			edges = append(edges, simpleEdge(n, foot, NewArrow, Hold, lane))
		}
		if otherHolds {
			continue // a twist would tear the other foot's hold
		}
		if p.OtherFootPairing(other, otherLane, lane, pad.CrossoverFront) {
			edges = append(edges, simpleEdge(n, foot, CrossoverFront, Tap, lane))
		}
		if p.OtherFootPairing(other, otherLane, lane, pad.CrossoverBehind) {
			edges = append(edges, simpleEdge(n, foot, CrossoverBehind, Tap, lane))
		}
		if p.OtherFootPairing(other, otherLane, lane, pad.Inverted) {
			k := InvertFront
			if foot == pad.Right {
				k = InvertBehind
			}
			edges = append(edges, simpleEdge(n, foot, k, Tap, lane))
		}
	}
	return edges
}

func simpleEdge(n Node, foot pad.Foot, kind StepKind, act FootAction, lane int) linkEdge {
	link := Link{}
	occ := Resting
	if act == Hold {
		occ = Held
	}
	link.Actions[foot][Heel] = Action{Acting: true, Kind: kind, Act: act, Lane: lane}
	to := n
	to.Feet[foot][Heel] = PortionState{Lane: lane, Occ: occ}
	to.Feet[foot][Toe] = PortionState{Lane: -1, Occ: Resting}
	if kind.IsCrossoverOrInvert() {
		to.Twisted = true
	} else {
		to.Twisted = false
	}
	return linkEdge{link: link, to: to}
}

func releaseEdge(n Node, foot pad.Foot, portion Portion, lane int) linkEdge {
	link := Link{}
	link.Actions[foot][portion] = Action{Acting: true, Kind: SameArrow, Act: Release, Lane: lane}
	to := n
	to.Feet[foot][portion] = PortionState{Lane: lane, Occ: Resting}
	return linkEdge{link: link, to: to}
}

func swapEdge(n Node, foot pad.Foot, lane int) linkEdge {
	other := foot.Other()
	link := Link{}
	link.Actions[foot][Heel] = Action{Acting: true, Kind: FootSwap, Act: Tap, Lane: lane}
	to := n
	to.Feet[foot][Heel] = PortionState{Lane: lane, Occ: Resting}
	to.Feet[foot][Toe] = PortionState{Lane: -1, Occ: Resting}
	to.Feet[other][Heel] = PortionState{Lane: -1, Occ: Resting}
	to.Feet[other][Toe] = PortionState{Lane: -1, Occ: Resting}
	return linkEdge{link: link, to: to}
}

// bracketMovesForFoot enumerates the eight Bracket* variants: both
// portions of one foot finish on two distinct lanes that the
// bracketable tables mark mutually compatible for that foot.
func bracketMovesForFoot(p *pad.Model, n Node, foot pad.Foot) []linkEdge {
	curHeel, bracketing := n.Feet[foot][Heel], false
	if n.Feet[foot][Toe].Lane != -1 {
		bracketing = true
	}
	if bracketing {
		return nil // already bracketing; only bracketOneArrow applies
	}
	if curHeel.Lane == -1 {
		return nil // displaced off the pad; must re-enter with a simple step first
	}
	if curHeel.Occ == Held || curHeel.Occ == Rolling {
		return nil
	}
	other := foot.Other()
	otherLane, otherHeld := -1, footHolding(n, other)
	if l, brk := singleLane(n, other); !brk {
		otherLane = l
	}

	var edges []linkEdge
	refLane := curHeel.Lane
	for h := 0; h < p.NumLanes(); h++ {
		for t := 0; t < p.NumLanes(); t++ {
			if h == t {
				continue
			}
			if !p.Bracketable(foot, pad.Heel, refLane, h) {
				continue
			}
			if !p.Bracketable(foot, pad.Toe, refLane, t) {
				continue
			}
			heelKind, heelOK := bracketPortionKind(n, foot, other, h, otherLane, otherHeld)
			toeKind, toeOK := bracketPortionKind(n, foot, other, t, otherLane, otherHeld)
			if !heelOK || !toeOK {
				continue
			}
			kind, ok := combineBracketKind(heelKind, toeKind)
			if !ok {
				continue
			}
			edges = append(edges, bracketEdge(n, foot, kind, h, t))
		}
	}
	return edges
}

type bracketSlotKind int

const (
	slotNew bracketSlotKind = iota
	slotSame
	slotSwap
)

func bracketPortionKind(n Node, foot, other pad.Foot, lane, otherLane int, otherHeld bool) (bracketSlotKind, bool) {
	curLane, _ := singleLane(n, foot)
	if lane == curLane {
		return slotSame, true
	}
	if lane == otherLane && !otherHeld {
		return slotSwap, true
	}
	if lane == otherLane {
		return 0, false // can't land where the other foot is still holding
	}
	return slotNew, true
}

func combineBracketKind(heel, toe bracketSlotKind) (StepKind, bool) {
	switch {
	case heel == slotSame && toe == slotSame:
		return 0, false // not actually a move
	case heel == slotNew && toe == slotNew:
		return BracketHeelNewToeNew, true
	case heel == slotNew && toe == slotSame:
		return BracketHeelNewToeSame, true
	case heel == slotNew && toe == slotSwap:
		return BracketHeelNewToeSwap, true
	case heel == slotSame && toe == slotNew:
		return BracketHeelSameToeNew, true
	case heel == slotSame && toe == slotSwap:
		return BracketHeelSameToeSwap, true
	case heel == slotSwap && toe == slotNew:
		return BracketHeelSwapToeNew, true
	case heel == slotSwap && toe == slotSame:
		return BracketHeelSwapToeSame, true
	case heel == slotSwap && toe == slotSwap:
		return BracketHeelSwapToeSwap, true
	}
	return 0, false
}

func bracketEdge(n Node, foot pad.Foot, kind StepKind, heelLane, toeLane int) linkEdge {
	other := foot.Other()
	link := Link{}
	link.Actions[foot][Heel] = Action{Acting: true, Kind: kind, Act: Tap, Lane: heelLane}
	link.Actions[foot][Toe] = Action{Acting: true, Kind: kind, Act: Tap, Lane: toeLane}
	to := n
	to.Feet[foot][Heel] = PortionState{Lane: heelLane, Occ: Resting}
	to.Feet[foot][Toe] = PortionState{Lane: toeLane, Occ: Resting}
	if kind == BracketHeelSwapToeNew || kind == BracketHeelSwapToeSame || kind == BracketHeelSwapToeSwap {
		if n.Feet[other][Heel].Lane == heelLane {
			to.Feet[other][Heel] = PortionState{Lane: -1, Occ: Resting}
		}
	}
	if kind == BracketHeelNewToeSwap || kind == BracketHeelSameToeSwap || kind == BracketHeelSwapToeSwap {
		if n.Feet[other][Heel].Lane == toeLane {
			to.Feet[other][Heel] = PortionState{Lane: -1, Occ: Resting}
		}
	}
	return linkEdge{link: link, to: to}
}

// bracketOneArrowMovesForFoot handles the case where one portion of the
// foot is presently holding/rolling a lane and the other portion acts
// solo, tapping a new lane (forming a bracket around the hold) or
// re-tapping a lane that portion already occupies.
func bracketOneArrowMovesForFoot(p *pad.Model, n Node, foot pad.Foot) []linkEdge {
	heel, toe := n.Feet[foot][Heel], n.Feet[foot][Toe]

	var edges []linkEdge
	if heel.Lane != -1 && (heel.Occ == Held || heel.Occ == Rolling) && toe.Occ == Resting {
		edges = append(edges, oneArrowEdges(p, n, foot, Toe, heel.Lane, toe.Lane)...)
	}
	if toe.Lane != -1 && (toe.Occ == Held || toe.Occ == Rolling) && heel.Occ == Resting {
		edges = append(edges, oneArrowEdges(p, n, foot, Heel, toe.Lane, heel.Lane)...)
	}
	return edges
}

func oneArrowEdges(p *pad.Model, n Node, foot pad.Foot, acting Portion, heldLane, curLane int) []linkEdge {
	var edges []linkEdge
	kindNew, kindSame := BracketOneArrowToeNew, BracketOneArrowToeSame
	if acting == Heel {
		kindNew, kindSame = BracketOneArrowHeelNew, BracketOneArrowHeelSame
	}

	if curLane != -1 {
		edges = append(edges, oneArrowEdge(n, foot, acting, kindSame, curLane, heldLane))
	}
	other := foot.Other()
	for lane := 0; lane < p.NumLanes(); lane++ {
		if lane == curLane || lane == heldLane {
			continue
		}
		if lane == n.Feet[other][Heel].Lane || lane == n.Feet[other][Toe].Lane {
			continue
		}
		if curLane != -1 && !p.ValidNextArrow(curLane, lane) {
			continue
		}
		padPortion := pad.Heel
		if acting == Toe {
			padPortion = pad.Toe
		}
		if !p.Bracketable(foot, padPortion, heldLane, lane) {
			continue
		}
		edges = append(edges, oneArrowEdge(n, foot, acting, kindNew, lane, heldLane))
	}
	return edges
}

func oneArrowEdge(n Node, foot pad.Foot, acting Portion, kind StepKind, lane, heldLane int) linkEdge {
	link := Link{}
	link.Actions[foot][acting] = Action{Acting: true, Kind: kind, Act: Tap, Lane: lane}
	to := n
	to.Feet[foot][acting] = PortionState{Lane: lane, Occ: Resting}
	return linkEdge{link: link, to: to}
}
