package express

import (
	"context"

	"steplift/pad"
	"steplift/stepgraph"
)

// applyJumpSignals re-scores the jump-to-step disambiguation policy:
// when a jump lands on two feet that are both still free to move, the
// cost search alone has nothing to prefer one foot over the other for
// the very next single-lane step, and a hazard
// placed against one of the jump's lanes before that step is the
// signal meant to decide it. A held/rolling jump portion already
// structurally forbids that foot from acting again, so it never
// reaches this ambiguous state; only the mine signal needs a lookahead
// pass here.
func applyJumpSignals(ctx context.Context, path []pathEntry, notes []NoteEvent, graph *stepgraph.Graph, groups []group, method BracketParsingMethod) []pathEntry {
	for i := 0; i+1 < len(path); i++ {
		jump := path[i]
		tap := path[i+1]
		if !isSimpleJump(jump.instance.Link) || !isSimpleTap(tap.instance.Link) {
			continue
		}

		mineLane, ok := mineSignalLane(jump, tap, notes)
		if !ok {
			continue
		}
		mineFoot, ok := footForLane(jump.instance.Link, mineLane)
		if !ok {
			continue
		}
		desired := mineFoot.Other()
		feet := tap.instance.Link.ActiveFeet()
		if len(feet) != 1 || feet[0] == desired {
			continue // already resolves to the foot the hazard demands
		}

		// The jump's own assignment stays put; only the following tap
		// moves to the other foot, stepping out of the same jump node.
		swappedTap := swapLinkFeet(tap.instance.Link)
		tapTo, ok := findEdgeTo(graph, jump.id, swappedTap)
		if !ok {
			continue // the other foot can't legally take this lane; leave it
		}

		remaining := groups[tap.groupIdx+1:]
		tail, ok := continueFrom(ctx, graph, tapTo, remaining, method)
		if !ok {
			continue // flipping would strand the rest of the chart
		}

		path[i+1].instance = stepgraph.Instance{Link: swappedTap, Roll: swapRoll(tap.instance.Roll)}
		path[i+1].id = tapTo
		path = append(path[:i+2], tail...)
	}
	return path
}

// isSimpleAction restricts the disambiguation pass to actions whose
// identity doesn't depend on which foot performs them: a crossover or
// invert's Front/Behind label is chosen by foot, so swapping feet there
// would silently relabel the step rather than just reassign it.
func isSimpleAction(a stepgraph.Action) bool {
	if !a.Acting {
		return false
	}
	if a.Kind != stepgraph.SameArrow && a.Kind != stepgraph.NewArrow {
		return false
	}
	return a.Act == stepgraph.Tap || a.Act == stepgraph.Hold
}

func isSimpleJump(l stepgraph.Link) bool {
	feet := l.ActiveFeet()
	if len(feet) != 2 {
		return false
	}
	for _, f := range feet {
		acted := 0
		for p := 0; p < 2; p++ {
			a := l.Actions[f][p]
			if a.Acting {
				acted++
				if !isSimpleAction(a) {
					return false
				}
			}
		}
		if acted != 1 {
			return false // a bracketed portion isn't a simple jump foot
		}
	}
	return true
}

func isSimpleTap(l stepgraph.Link) bool {
	feet := l.ActiveFeet()
	if len(feet) != 1 {
		return false
	}
	f := feet[0]
	acted := 0
	for p := 0; p < 2; p++ {
		a := l.Actions[f][p]
		if a.Acting {
			acted++
			if !isSimpleAction(a) {
				return false
			}
		}
	}
	return acted == 1
}

func jumpLanes(l stepgraph.Link) []int {
	var lanes []int
	for f := 0; f < 2; f++ {
		for p := 0; p < 2; p++ {
			a := l.Actions[f][p]
			if a.Acting {
				lanes = append(lanes, a.Lane)
			}
		}
	}
	return lanes
}

// mineSignalLane reports the lane of a hazard strictly between a jump
// and the following step, when that hazard sits on one of the jump's
// own lanes.
func mineSignalLane(jump, tap pathEntry, notes []NoteEvent) (int, bool) {
	lanes := jumpLanes(jump.instance.Link)
	for _, n := range notes {
		if n.Kind != MineNote {
			continue
		}
		if n.Time.Row <= jump.time.Row || n.Time.Row >= tap.time.Row {
			continue
		}
		for _, lane := range lanes {
			if n.Lane == lane {
				return lane, true
			}
		}
	}
	return 0, false
}

func footForLane(l stepgraph.Link, lane int) (pad.Foot, bool) {
	for f := 0; f < 2; f++ {
		for p := 0; p < 2; p++ {
			a := l.Actions[f][p]
			if a.Acting && a.Lane == lane {
				return pad.Foot(f), true
			}
		}
	}
	return 0, false
}

// swapLinkFeet exchanges a Link's two feet, leaving lanes and kinds in
// place. Valid only for simple (non-crossover, non-bracket) actions,
// whose identity doesn't depend on foot.
func swapLinkFeet(l stepgraph.Link) stepgraph.Link {
	return stepgraph.Link{Actions: [2][2]stepgraph.Action{l.Actions[1], l.Actions[0]}}
}

func swapRoll(r [2][2]bool) [2][2]bool {
	return [2][2]bool{r[1], r[0]}
}

func findEdgeTo(graph *stepgraph.Graph, from stepgraph.NodeID, link stepgraph.Link) (stepgraph.NodeID, bool) {
	for _, e := range graph.Outgoing(from) {
		if e.Link == link {
			return e.To, true
		}
	}
	return 0, false
}
