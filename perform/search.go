package perform

import (
	"context"
	"sort"

	"steplift/express"
	"steplift/pad"
	"steplift/stepgraph"
)

type searchNode struct {
	id    stepgraph.NodeID
	cost  [6]float64
	state perfState
	prev  *searchNode
	link  stepgraph.Link
}

// Perform searches the target StepGraph for a sequence of GraphLinks
// that realizes an ExpressedChart's body-motion stream under the
// substitution table and cost model, trying each of the target pad's
// starting tiers in order until one yields a complete cover. The
// context is checked once per expressed event.
func Perform(ctx context.Context, expressed *express.Chart, targetPad *pad.Model, targetGraph *stepgraph.Graph, cfg Config, seed uint64) (*PerformedChart, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var steps []express.StepEvent
	for _, e := range expressed.Events {
		if e.Step != nil {
			steps = append(steps, *e.Step)
		}
	}

	table := newSubstitutionTable(cfg)
	avgNPS := chartAverageNPS(steps)

	for tier := 0; tier < targetGraph.NumStartingTiers(); tier++ {
		starts := targetGraph.NodesForStartingTier(tier)
		if len(starts) == 0 {
			continue
		}
		path, ok, err := runSearchFromTier(ctx, steps, targetPad, targetGraph, table, cfg, seed, avgNPS, starts)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		events := make([]PerformedEvent, len(path))
		for i, link := range path {
			events[i] = PerformedEvent{Time: steps[i].Time, Instance: stepgraph.Instance{Link: link, Roll: steps[i].Instance.Roll}}
		}
		return &PerformedChart{Events: events}, nil
	}

	return nil, &ErrNoPathFound{Reason: "no starting tier of the target pad admits a complete cover"}
}

// chartAverageNPS is the whole-chart notes-per-second baseline the
// lateral-tightening tier scales its RelativeNPS threshold by.
func chartAverageNPS(steps []express.StepEvent) float64 {
	if len(steps) < 2 {
		return 0
	}
	span := steps[len(steps)-1].Time.Seconds - steps[0].Time.Seconds
	if span <= 0 {
		return 0
	}
	return float64(len(steps)) / span
}

func runSearchFromTier(ctx context.Context, steps []express.StepEvent, p *pad.Model, g *stepgraph.Graph, table *substitutionTable, cfg Config, seed uint64, avgNPS float64, starts []stepgraph.NodeID) ([]stepgraph.Link, bool, error) {
	frontier := make(map[stepgraph.NodeID]*searchNode, len(starts))
	for _, id := range starts {
		frontier[id] = &searchNode{id: id, state: newPerfState(p.NumLanes())}
	}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		next := make(map[stepgraph.NodeID]*searchNode)
		for _, id := range sortedIDs(frontier) {
			st := frontier[id]
			for _, e := range g.Outgoing(st.id) {
				if !table.matches(step.Instance.Link, e.Link) {
					continue
				}
				cost, newState, ok := evaluateTransition(g, st.id, p, st.state, e.Link, step.Time.Seconds, seed, i, e.To, cfg, avgNPS, p.Name())
				if !ok {
					continue
				}
				cand := &searchNode{
					id:    e.To,
					cost:  addCost(st.cost, cost),
					state: newState,
					prev:  st,
					link:  e.Link,
				}
				if existing, ok := next[e.To]; !ok || less(cand.cost, existing.cost) {
					next[e.To] = cand
				}
			}
		}
		if len(next) == 0 {
			return nil, false, nil
		}
		frontier = next
	}

	if len(steps) == 0 {
		return nil, true, nil
	}

	var best *searchNode
	for _, id := range sortedIDs(frontier) {
		st := frontier[id]
		if best == nil || less(st.cost, best.cost) {
			best = st
		}
	}

	path := make([]stepgraph.Link, len(steps))
	n := best
	for i := len(steps) - 1; i >= 0; i-- {
		path[i] = n.link
		n = n.prev
	}
	return path, true, nil
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
