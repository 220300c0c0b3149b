package express

import "steplift/stepgraph"

// Cost tier indices, lexicographically compared. Infeasibility is
// handled by matchLink filtering rather than a cost tier.
const (
	tierBracket = iota
	tierDoubleStep
	tierFootswapJack
	tierCrossover
	tierContinuity
	tierAmbiguity
)

const (
	doubleStepPenalty = 50.0
	footswapPenalty   = 10.0
	crossoverPenalty  = 20.0
	// continuityPenalty is fixed at half of crossoverPenalty: the
	// orientation-continuity tier sits one tier below crossover
	// avoidance in priority, and is weighted as half its unit cost.
	continuityPenalty = crossoverPenalty / 2
)

func transitionCost(g *stepgraph.Graph, st *searchNode, link stepgraph.Link, to stepgraph.NodeID, method BracketParsingMethod) [6]float64 {
	var c [6]float64

	isBracket, isFootSwap, isCrossover := false, false, false
	for f := 0; f < 2; f++ {
		for p := 0; p < 2; p++ {
			a := link.Actions[f][p]
			if !a.Acting {
				continue
			}
			if a.Kind.IsBracket() || a.Kind.IsBracketOneArrow() {
				isBracket = true
			}
			if a.Kind == stepgraph.FootSwap {
				isFootSwap = true
			}
			if a.Kind.IsCrossoverOrInvert() {
				isCrossover = true
			}
		}
	}

	c[tierBracket] = bracketCost(method, isBracket, len(link.ActiveFeet()) == 2)

	feet := link.ActiveFeet()
	if len(feet) == 1 {
		foot := feet[0]
		// A one-arrow bracket may act with its Toe slot alone, so read
		// whichever portion is acting rather than assuming Heel.
		acting := link.Actions[foot][0]
		if !acting.Acting {
			acting = link.Actions[foot][1]
		}
		otherHolding := footHoldingInNode(g.Node(st.id), int(foot.Other()))
		if st.hasLastFoot && st.lastFoot == foot && kindMovesToNewLane(acting.Kind) && !otherHolding {
			c[tierDoubleStep] = doubleStepPenalty
		}
	}

	if isFootSwap {
		c[tierFootswapJack] = footswapPenalty
	}

	if isCrossover {
		c[tierCrossover] = crossoverPenalty
	}

	if g.Node(to).Twisted && g.Node(st.id).Twisted {
		c[tierContinuity] = continuityPenalty
	}

	// Ambiguity tiebreak: a small, fixed, foot-ordinal bias keeps ties
	// deterministic without a full count of alternate interpretations
	// (see DESIGN.md).
	if len(feet) == 1 && feet[0] == 1 {
		c[tierAmbiguity] = 0.001
	}

	return c
}

// kindMovesToNewLane reports whether a kind lands the acting portion on
// a lane the foot did not already occupy; re-steps and swaps are not
// double-steps.
func kindMovesToNewLane(k stepgraph.StepKind) bool {
	switch k {
	case stepgraph.SameArrow, stepgraph.FootSwap,
		stepgraph.BracketOneArrowHeelSame, stepgraph.BracketOneArrowToeSame:
		return false
	}
	return true
}

func bracketCost(method BracketParsingMethod, isBracket, isJump bool) float64 {
	switch method {
	case NoBrackets:
		if isBracket {
			return 1000
		}
		return 0
	case Aggressive:
		if isBracket {
			return 0
		}
		if isJump {
			return 5
		}
		return 0
	default: // Balanced
		if isBracket {
			return 2
		}
		return 0
	}
}

func footHoldingInNode(n stepgraph.Node, foot int) bool {
	for p := 0; p < 2; p++ {
		ps := n.Feet[foot][p]
		if ps.Lane != -1 && (ps.Occ == stepgraph.Held || ps.Occ == stepgraph.Rolling) {
			return true
		}
	}
	return false
}
