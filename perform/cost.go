package perform

import (
	"math"
	"sort"

	"steplift/pad"
	"steplift/stepgraph"
)

// Cost tier indices, lexicographically compared.
const (
	tierAmbiguity        = iota // misleading target placements, see ambiguityCost
	tierStepTightening
	tierLateralTightening
	tierFacing
	tierDistribution
	tierDeterminism
)

const infeasibleCost = math.MaxFloat64 / 2

// perfState is the mutable search history a cost evaluation both reads
// and advances: one foot's last move, a sliding window of recent
// lateral moves, running facing counts, and running per-lane step
// counts.
type perfState struct {
	lastMoveTime  [2]float64
	hasLastMove   [2]bool
	lastLanes     [2][2]int // [foot][portion], -1 if unoccupied
	recentDX      []float64
	recentTimes   []float64
	facingTotal   int
	facingInward  int
	facingOutward int
	laneCounts    []int
}

func newPerfState(numLanes int) perfState {
	s := perfState{laneCounts: make([]int, numLanes)}
	for f := range s.lastLanes {
		s.lastLanes[f] = [2]int{-1, -1}
	}
	return s
}

func (s perfState) clone() perfState {
	out := s
	out.recentDX = append([]float64(nil), s.recentDX...)
	out.recentTimes = append([]float64(nil), s.recentTimes...)
	out.laneCounts = append([]int(nil), s.laneCounts...)
	return out
}

func footPosition(p *pad.Model, lanes [2]int) (pad.Lane, bool) {
	var sum pad.Lane
	n := 0
	for _, l := range lanes {
		if l < 0 {
			continue
		}
		c := p.LaneCoord(l)
		sum.X += c.X
		sum.Y += c.Y
		n++
	}
	if n == 0 {
		return pad.Lane{}, false
	}
	return pad.Lane{X: sum.X / n, Y: sum.Y / n}, true
}

func weightedDistance(p *pad.Model, a, b pad.Lane) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y-a.Y) * p.YCompensation()
	return math.Sqrt(dx*dx + dy*dy)
}

// actionShape is a Link's acting portion stripped of which foot
// performs it, so two Links that place the same lanes/kinds onto
// different feet compare equal.
type actionShape struct {
	Lane int
	Kind stepgraph.StepKind
	Act  stepgraph.FootAction
}

// linkShapeKey is the sorted, fixed-size set of a Link's actionShapes:
// a plain comparable value so two shapes can be compared with ==.
type linkShapeKey struct {
	shapes [4]actionShape
	n      int
}

func linkShape(link stepgraph.Link) linkShapeKey {
	var shapes []actionShape
	for f := 0; f < 2; f++ {
		for p := 0; p < 2; p++ {
			a := link.Actions[f][p]
			if a.Acting {
				shapes = append(shapes, actionShape{Lane: a.Lane, Kind: a.Kind, Act: a.Act})
			}
		}
	}
	sort.Slice(shapes, func(i, j int) bool {
		if shapes[i].Lane != shapes[j].Lane {
			return shapes[i].Lane < shapes[j].Lane
		}
		if shapes[i].Kind != shapes[j].Kind {
			return shapes[i].Kind < shapes[j].Kind
		}
		return shapes[i].Act < shapes[j].Act
	})
	var key linkShapeKey
	key.n = len(shapes)
	copy(key.shapes[:], shapes)
	return key
}

// ambiguityCost penalizes a target placement when the same node admits
// another outgoing Link with an identical lane/kind shape but a
// different foot assignment landing on a different body position: the
// target stream alone cannot tell a reader which foot moved, so the
// placement is misleading regardless of how cheap it is on every other
// tier.
func ambiguityCost(g *stepgraph.Graph, from stepgraph.NodeID, chosen stepgraph.Link, to stepgraph.NodeID) float64 {
	shape := linkShape(chosen)
	for _, e := range g.Outgoing(from) {
		if e.Link == chosen || e.To == to {
			continue
		}
		if linkShape(e.Link) == shape {
			return infeasibleCost
		}
	}
	return 0
}

// evaluateTransition scores one candidate target Link against the
// running perfState, returning the lexicographic cost vector, the
// advanced state, and whether the transition is feasible at all (a
// stretch beyond StretchDistanceMax is an outright rejection, not a
// cost).
func evaluateTransition(g *stepgraph.Graph, from stepgraph.NodeID, p *pad.Model, st perfState, link stepgraph.Link, now float64, seed uint64, stepIdx int, to stepgraph.NodeID, cfg Config, avgNPS float64, padName string) ([6]float64, perfState, bool) {
	next := st.clone()
	var c [6]float64

	c[tierAmbiguity] = ambiguityCost(g, from, link, to)

	for f := 0; f < 2; f++ {
		oldLanes := st.lastLanes[f]
		newLanes := oldLanes
		moved := false
		for p2 := 0; p2 < 2; p2++ {
			a := link.Actions[f][p2]
			if !a.Acting {
				continue
			}
			switch a.Act {
			case stepgraph.Release:
				newLanes[p2] = -1
			default:
				newLanes[p2] = a.Lane
				if a.Kind != stepgraph.SameArrow {
					moved = true
				}
			}
		}
		next.lastLanes[f] = newLanes

		if !moved {
			continue
		}

		oldPos, hadOld := footPosition(p, oldLanes)
		newPos, hasNew := footPosition(p, newLanes)
		if !hasNew {
			continue
		}
		dist := 0.0
		if hadOld {
			dist = weightedDistance(p, oldPos, newPos)
		}

		if dist > cfg.StepTightening.StretchDistanceMax {
			return c, st, false
		}

		if st.hasLastMove[f] {
			dt := now - st.lastMoveTime[f]
			if dt > 0 {
				c[tierStepTightening] += speedCost(cfg.StepTightening, dist, dt)
			}
		}
		c[tierStepTightening] += distanceCost(cfg.StepTightening, dist)

		next.hasLastMove[f] = true
		next.lastMoveTime[f] = now

		if hadOld {
			dx := float64(newPos.X - oldPos.X)
			next.recentDX = append(next.recentDX, dx)
			next.recentTimes = append(next.recentTimes, now)
			if cfg.LateralTightening.PatternLength > 0 && len(next.recentDX) > cfg.LateralTightening.PatternLength {
				drop := len(next.recentDX) - cfg.LateralTightening.PatternLength
				next.recentDX = next.recentDX[drop:]
				next.recentTimes = next.recentTimes[drop:]
			}
		}
	}

	// Stretch gating: once both feet have acted, a pairing spreading
	// them beyond StretchDistanceMax is rejected outright; spreads past
	// StretchDistanceMin ramp up a cost.
	if lpos, lok := footPosition(p, next.lastLanes[0]); lok {
		if rpos, rok := footPosition(p, next.lastLanes[1]); rok {
			spread := weightedDistance(p, lpos, rpos)
			if spread > cfg.StepTightening.StretchDistanceMax {
				return c, st, false
			}
			if span := cfg.StepTightening.StretchDistanceMax - cfg.StepTightening.StretchDistanceMin; span > 0 && spread > cfg.StepTightening.StretchDistanceMin {
				const maxStretchCost = 25.0
				c[tierStepTightening] += maxStretchCost * (spread - cfg.StepTightening.StretchDistanceMin) / span
			}
		}
	}

	c[tierLateralTightening] = lateralCost(cfg.LateralTightening, next, avgNPS)

	inward, outward := facingDelta(link)
	next.facingTotal++
	next.facingInward += inward
	next.facingOutward += outward
	c[tierFacing] = facingCost(cfg.Facing, next)

	for f := 0; f < 2; f++ {
		for p2 := 0; p2 < 2; p2++ {
			a := link.Actions[f][p2]
			if a.Acting && a.Act != stepgraph.Release && a.Lane >= 0 && a.Lane < len(next.laneCounts) {
				next.laneCounts[a.Lane]++
			}
		}
	}
	c[tierDistribution] = distributionCost(cfg, padName, next.laneCounts)

	c[tierDeterminism] = tieBreakBias(seed, stepIdx, to)

	return c, next, true
}

// speedCost ramps with the effective speed of a single foot's move:
// zero at TravelSpeedMaxSeconds, maximum at TravelSpeedMinSeconds and
// flat below it, scaled by the move's weighted distance.
func speedCost(st StepTightening, dist, dt float64) float64 {
	if dist <= 0 || dt >= st.TravelSpeedMaxSeconds {
		return 0
	}
	const maxCost = 100.0
	span := st.TravelSpeedMaxSeconds - st.TravelSpeedMinSeconds
	if span <= 0 || dt <= st.TravelSpeedMinSeconds {
		return maxCost * dist
	}
	frac := (st.TravelSpeedMaxSeconds - dt) / span
	return maxCost * frac * dist
}

func distanceCost(st StepTightening, dist float64) float64 {
	if dist <= st.TravelDistanceMin {
		return 0
	}
	span := st.TravelDistanceMax - st.TravelDistanceMin
	if span <= 0 {
		return 0
	}
	const maxCost = 50.0
	frac := (dist - st.TravelDistanceMin) / span
	if frac > 1 {
		frac = 1
	}
	return maxCost * frac
}

func lateralCost(lt LateralTightening, st perfState, avgNPS float64) float64 {
	if len(st.recentDX) < 2 {
		return 0
	}
	sign := 0
	for _, dx := range st.recentDX {
		s := 0
		if dx > 0 {
			s = 1
		} else if dx < 0 {
			s = -1
		}
		if s == 0 {
			continue
		}
		if sign == 0 {
			sign = s
		} else if sign != s {
			return 0 // direction not uniform
		}
	}
	if sign == 0 {
		return 0
	}

	span := st.recentTimes[len(st.recentTimes)-1] - st.recentTimes[0]
	if span <= 0 {
		return 0
	}
	total := 0.0
	for _, dx := range st.recentDX {
		total += math.Abs(dx)
	}
	lateralSpeed := total / span
	nps := float64(len(st.recentDX)) / span

	if lateralSpeed <= lt.Speed {
		return 0
	}
	if nps < lt.AbsoluteNPS {
		return 0
	}
	if avgNPS > 0 && nps < lt.RelativeNPS*avgNPS {
		return 0
	}
	return lateralSpeed * 2
}

// facingDelta reports whether a link's crossing/inverting portions
// face the body outward (front-oriented) or inward (behind-oriented).
func facingDelta(link stepgraph.Link) (inward, outward int) {
	for f := 0; f < 2; f++ {
		for p := 0; p < 2; p++ {
			switch link.Actions[f][p].Kind {
			case stepgraph.CrossoverFront, stepgraph.InvertFront:
				outward = 1
			case stepgraph.CrossoverBehind, stepgraph.InvertBehind:
				inward = 1
			}
		}
	}
	return
}

func facingCost(f Facing, st perfState) float64 {
	if st.facingTotal == 0 {
		return 0
	}
	inFrac := float64(st.facingInward) / float64(st.facingTotal)
	outFrac := float64(st.facingOutward) / float64(st.facingTotal)
	cost := 0.0
	if f.MaxInwardPercentage > 0 && inFrac > f.MaxInwardPercentage {
		cost += (inFrac - f.MaxInwardPercentage) * 100
	}
	if f.MaxOutwardPercentage > 0 && outFrac > f.MaxOutwardPercentage {
		cost += (outFrac - f.MaxOutwardPercentage) * 100
	}
	return cost
}

func distributionCost(cfg Config, padName string, laneCounts []int) float64 {
	weights := cfg.DesiredWeights[padName]
	if len(weights) != len(laneCounts) {
		return 0
	}
	total := 0
	for _, n := range laneCounts {
		total += n
	}
	if total == 0 {
		return 0
	}
	wsum := 0.0
	for _, w := range weights {
		wsum += w
	}
	if wsum <= 0 {
		return 0
	}
	div := 0.0
	for i, n := range laneCounts {
		got := float64(n) / float64(total)
		want := weights[i] / wsum
		div += math.Abs(got - want)
	}
	return div
}

// tieBreakBias is a pure, deterministic pseudo-random value derived
// from the conversion's seed plus the candidate's position in the
// search, so equal-cost candidates resolve the same way on every run
// with the same seed.
func tieBreakBias(seed uint64, stepIdx int, to stepgraph.NodeID) float64 {
	h := seed + 1
	h ^= uint64(stepIdx+1) * 0x9E3779B97F4A7C15
	h ^= uint64(to+1) * 0xBF58476D1CE4E5B9
	h = (h ^ (h >> 30)) * 0xBF58476D1CE4E5B9
	h = (h ^ (h >> 27)) * 0x94D049BB133111EB
	h ^= h >> 31
	return float64(h%1009) / 1009.0 * 0.01
}
