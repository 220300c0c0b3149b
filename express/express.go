package express

import (
	"context"
	"sort"

	"steplift/pad"
	"steplift/stepgraph"
)

// Express lifts a time-sorted note stream into a body-motion stream by
// searching over the source pad's StepGraph. The context is checked
// once per note group so long charts cancel in bounded time.
func Express(ctx context.Context, notes []NoteEvent, graph *stepgraph.Graph, cfg Config) (*Chart, error) {
	if err := checkInputShape(notes); err != nil {
		return nil, err
	}

	method := cfg.staticMethod()
	if cfg.UseAggressiveWhenSimultaneousExceedsTwoFeet && hasOverTwoLaneGroup(notes) {
		method = Aggressive
	}
	path, err := runSearch(ctx, notes, graph, method)
	if err != nil {
		return nil, err
	}

	if cfg.BracketParsingDetermination == ChooseDynamically {
		bpm := bracketsPerMinute(path, notes)
		if redo := cfg.dynamicMethod(bpm); redo != method {
			path, err = runSearch(ctx, notes, graph, redo)
			if err != nil {
				return nil, err
			}
		}
	}

	events := assembleEvents(path, notes)
	return &Chart{Events: events}, nil
}

// hasOverTwoLaneGroup reports whether any simultaneous group needs more
// lanes covered than two un-bracketed feet provide.
func hasOverTwoLaneGroup(notes []NoteEvent) bool {
	for _, g := range groupByRow(notes) {
		if len(stepRequirements(g)) > 2 {
			return true
		}
	}
	return false
}

func checkInputShape(notes []NoteEvent) error {
	held := make(map[int]NoteKind)
	var lastRow int64
	first := true
	for _, n := range notes {
		if !first && n.Time.Row < lastRow {
			return &ErrInputShape{Reason: "non-monotonic note times"}
		}
		first = false
		lastRow = n.Time.Row

		switch n.Kind {
		case HoldStart:
			held[n.Lane] = HoldStart
		case RollStart:
			held[n.Lane] = RollStart
		case HoldEnd:
			if held[n.Lane] != HoldStart {
				return &ErrInputShape{Reason: "HoldEnd without matching HoldStart"}
			}
			delete(held, n.Lane)
		case RollEnd:
			if held[n.Lane] != RollStart {
				return &ErrInputShape{Reason: "RollEnd without matching RollStart"}
			}
			delete(held, n.Lane)
		}
	}
	return nil
}

type requirement struct {
	lane int
	kind NoteKind
}

type group struct {
	time  Time
	index int
	notes []NoteEvent
}

func groupByRow(notes []NoteEvent) []group {
	var groups []group
	for _, n := range notes {
		if len(groups) > 0 && groups[len(groups)-1].time.Row == n.Time.Row {
			g := &groups[len(groups)-1]
			g.notes = append(g.notes, n)
			continue
		}
		groups = append(groups, group{time: n.Time, index: len(groups), notes: []NoteEvent{n}})
	}
	return groups
}

func stepRequirements(g group) []requirement {
	var reqs []requirement
	for _, n := range g.notes {
		switch n.Kind {
		case TapNote, HoldStart, HoldEnd, RollStart, RollEnd:
			reqs = append(reqs, requirement{lane: n.Lane, kind: n.Kind})
		}
	}
	return reqs
}

// searchNode is one frontier entry: a reached graph node, its
// lexicographic cost vector so far, and enough foot-history to score
// the next transition plus a back-pointer to reconstruct the chosen
// path.
type searchNode struct {
	id          stepgraph.NodeID
	cost        [6]float64
	lastFoot    pad.Foot
	hasLastFoot bool
	prev        *searchNode
	instance    stepgraph.Instance
	groupIdx    int
	hasStep     bool
}

type pathEntry struct {
	groupIdx int
	time     Time
	instance stepgraph.Instance
	id       stepgraph.NodeID // node reached after this step
}

// expandFrontier advances a frontier through every note group in
// sequence, keeping only the lowest-cost searchNode reached per node
// (dominance pruning over the lexicographic cost vector).
func expandFrontier(ctx context.Context, graph *stepgraph.Graph, frontier map[stepgraph.NodeID]*searchNode, groups []group, method BracketParsingMethod) (map[stepgraph.NodeID]*searchNode, error) {
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reqs := stepRequirements(g)
		if len(reqs) == 0 {
			continue
		}
		if len(reqs) > 4 {
			return nil, &ErrCannotExpress{Time: g.time, GroupIdx: g.index, Reason: "more simultaneous step lanes than two bracketing feet can cover"}
		}

		next := make(map[stepgraph.NodeID]*searchNode)
		for _, id := range sortedIDs(frontier) {
			st := frontier[id]
			for _, e := range graph.Outgoing(st.id) {
				inst, ok := matchLink(e.Link, reqs)
				if !ok {
					continue
				}
				cost := addCost(st.cost, transitionCost(graph, st, e.Link, e.To, method))
				lastFoot, hasLastFoot := nextLastFoot(e.Link, st)
				cand := &searchNode{
					id: e.To, cost: cost, lastFoot: lastFoot, hasLastFoot: hasLastFoot,
					prev: st, instance: inst, groupIdx: g.index, hasStep: true,
				}
				if existing, ok := next[e.To]; !ok || less(cand.cost, existing.cost) {
					next[e.To] = cand
				}
			}
		}
		if len(next) == 0 {
			return nil, &ErrCannotExpress{Time: g.time, GroupIdx: g.index, Reason: "no graph node covers this group of simultaneous notes (a pattern requiring impossible bracketing)"}
		}
		frontier = next
	}
	return frontier, nil
}

// backtrackPath walks a final frontier node's prev chain back to the
// start and reassembles it in chart order.
func backtrackPath(best *searchNode, groups []group) []pathEntry {
	var path []pathEntry
	for n := best; n != nil && n.hasStep; n = n.prev {
		path = append(path, pathEntry{groupIdx: n.groupIdx, instance: n.instance, id: n.id})
	}
	sort.Slice(path, func(i, j int) bool { return path[i].groupIdx < path[j].groupIdx })
	for i := range path {
		// groups may be a suffix of the chart's groups; groupIdx is the
		// index into the full list.
		path[i].time = groups[path[i].groupIdx-groups[0].index].time
	}
	return path
}

// continueFrom re-runs the search for a suffix of note groups starting
// from a single given node, used by applyJumpSignals to confirm (and
// rebuild) the rest of a chart after flipping a jump's foot assignment.
func continueFrom(ctx context.Context, graph *stepgraph.Graph, start stepgraph.NodeID, groups []group, method BracketParsingMethod) ([]pathEntry, bool) {
	frontier := map[stepgraph.NodeID]*searchNode{start: {id: start}}
	frontier, err := expandFrontier(ctx, graph, frontier, groups, method)
	if err != nil {
		return nil, false
	}
	best := bestNode(frontier)
	if best == nil {
		return nil, len(groups) == 0
	}
	return backtrackPath(best, groups), true
}

// sortedIDs fixes the frontier's iteration order so equal-cost ties
// always resolve the same way run to run; determinism is part of the
// conversion contract.
func sortedIDs(frontier map[stepgraph.NodeID]*searchNode) []stepgraph.NodeID {
	ids := make([]stepgraph.NodeID, 0, len(frontier))
	for id := range frontier {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func bestNode(frontier map[stepgraph.NodeID]*searchNode) *searchNode {
	var best *searchNode
	for _, id := range sortedIDs(frontier) {
		st := frontier[id]
		if best == nil || less(st.cost, best.cost) {
			best = st
		}
	}
	return best
}

func runSearch(ctx context.Context, notes []NoteEvent, graph *stepgraph.Graph, method BracketParsingMethod) ([]pathEntry, error) {
	groups := groupByRow(notes)

	frontier := map[stepgraph.NodeID]*searchNode{
		graph.StartNode(): {id: graph.StartNode()},
	}
	frontier, err := expandFrontier(ctx, graph, frontier, groups, method)
	if err != nil {
		return nil, err
	}

	best := bestNode(frontier)
	path := backtrackPath(best, groups)
	path = applyJumpSignals(ctx, path, notes, graph, groups, method)
	return path, nil
}

func assembleEvents(path []pathEntry, notes []NoteEvent) []Event {
	var stepEvents []Event
	for _, p := range path {
		stepEvents = append(stepEvents, Event{Step: &StepEvent{Time: p.time, Instance: p.instance}})
	}

	mines := classifyMines(stepEvents, notes)
	all := append(stepEvents, mines...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Time().Row < all[j].Time().Row })
	return all
}

func bracketsPerMinute(path []pathEntry, notes []NoteEvent) float64 {
	if len(path) == 0 {
		return 0
	}
	brackets := 0
	for _, p := range path {
		for f := 0; f < 2; f++ {
			for pr := 0; pr < 2; pr++ {
				if p.instance.Link.Actions[f][pr].Kind.IsBracket() {
					brackets++
					break
				}
			}
		}
	}
	minSeconds := notes[0].Time.Seconds
	maxSeconds := notes[len(notes)-1].Time.Seconds
	minutes := (maxSeconds - minSeconds) / 60
	if minutes <= 0 {
		return 0
	}
	return float64(brackets) / minutes
}

func matchLink(link stepgraph.Link, reqs []requirement) (stepgraph.Instance, bool) {
	type active struct {
		foot, portion int
		action        stepgraph.Action
	}
	var actives []active
	for f := 0; f < 2; f++ {
		for p := 0; p < 2; p++ {
			a := link.Actions[f][p]
			if a.Acting {
				actives = append(actives, active{f, p, a})
			}
		}
	}
	if len(actives) != len(reqs) {
		return stepgraph.Instance{}, false
	}

	used := make([]bool, len(actives))
	inst := stepgraph.Instance{Link: link}
	for _, r := range reqs {
		found := -1
		for i, a := range actives {
			if used[i] {
				continue
			}
			if a.action.Lane == r.lane && actionMatchesKind(a.action.Act, r.kind) {
				found = i
				break
			}
		}
		if found == -1 {
			return stepgraph.Instance{}, false
		}
		used[found] = true
		if r.kind == RollStart {
			inst.Roll[actives[found].foot][actives[found].portion] = true
		}
	}
	return inst, true
}

func actionMatchesKind(act stepgraph.FootAction, kind NoteKind) bool {
	switch kind {
	case TapNote:
		return act == stepgraph.Tap
	case HoldStart, RollStart:
		return act == stepgraph.Hold
	case HoldEnd, RollEnd:
		return act == stepgraph.Release
	}
	return false
}

func nextLastFoot(link stepgraph.Link, st *searchNode) (pad.Foot, bool) {
	feet := link.ActiveFeet()
	if len(feet) == 1 {
		return feet[0], true
	}
	return 0, false
}

func less(a, b [6]float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func addCost(a, b [6]float64) [6]float64 {
	var out [6]float64
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}
