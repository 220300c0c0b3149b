package express

import (
	"sort"

	"steplift/pad"
	"steplift/stepgraph"
)

// laneTap is one already-decided step's occupation of a lane, tracked
// per hazard lane to find the closest past/future tap.
type laneTap struct {
	time Time
	foot pad.Foot
}

// classifyMines implements the MineAssigner pass: for every hazard,
// find the closest past and future taps in the same lane among the
// already-decided step sequence, classify, and attribute a foot from
// whichever step placed the keyed tap.
func classifyMines(stepEvents []Event, notes []NoteEvent) []Event {
	taps := make(map[int][]laneTap)
	for _, e := range stepEvents {
		for f := 0; f < 2; f++ {
			for p := 0; p < 2; p++ {
				a := e.Step.Instance.Link.Actions[f][p]
				if a.Acting && a.Act != stepgraph.Release {
					taps[a.Lane] = append(taps[a.Lane], laneTap{time: e.Step.Time, foot: pad.Foot(f)})
				}
			}
		}
	}

	var mines []Event
	for _, n := range notes {
		if n.Kind != MineNote {
			continue
		}
		lane := taps[n.Lane]
		var closestPast, closestFuture *laneTap
		for i := range lane {
			t := lane[i]
			if t.time.Row < n.Time.Row {
				if closestPast == nil || t.time.Row > closestPast.time.Row {
					closestPast = &lane[i]
				}
			} else if t.time.Row > n.Time.Row {
				if closestFuture == nil || t.time.Row < closestFuture.time.Row {
					closestFuture = &lane[i]
				}
			}
		}

		me := MineEvent{Time: n.Time, Lane: n.Lane}
		switch {
		case closestPast == nil && closestFuture == nil:
			me.Type = NoArrow
		case closestPast != nil && (closestFuture == nil || (n.Time.Row-closestPast.time.Row) <= (closestFuture.time.Row-n.Time.Row)):
			me.Type = AfterArrow
			me.Foot = closestPast.foot
			me.HasFoot = true
			me.NthClosest = nthClosest(lane, n.Time.Row, true, closestPast.time.Row)
		default:
			me.Type = BeforeArrow
			me.Foot = closestFuture.foot
			me.HasFoot = true
			me.NthClosest = nthClosest(lane, n.Time.Row, false, closestFuture.time.Row)
		}
		mines = append(mines, Event{Mine: &me})
	}
	return mines
}

// nthClosest dense-ranks a chosen tap's row-distance from the mine
// among every same-lane tap on the same side (past or future), so that
// two taps equidistant from the mine share the same ordinal.
func nthClosest(lane []laneTap, mineRow int64, past bool, chosenRow int64) int {
	var dists []int64
	var target int64
	if past {
		target = mineRow - chosenRow
	} else {
		target = chosenRow - mineRow
	}
	for _, t := range lane {
		if past && t.time.Row < mineRow {
			dists = append(dists, mineRow-t.time.Row)
		} else if !past && t.time.Row > mineRow {
			dists = append(dists, t.time.Row-mineRow)
		}
	}
	sort.Slice(dists, func(i, j int) bool { return dists[i] < dists[j] })
	rank := 0
	for i, d := range dists {
		if i > 0 && d != dists[i-1] {
			rank++
		}
		if d == target {
			return rank
		}
	}
	return 0
}
