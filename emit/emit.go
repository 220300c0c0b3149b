// Package emit reassembles a Performer's GraphLinkInstance stream,
// together with the Expressor's mine annotations and the original
// timing, into a lane-event stream on the target pad.
package emit

import (
	"sort"

	"steplift/express"
	"steplift/pad"
	"steplift/perform"
	"steplift/stepgraph"
)

// portionKey identifies one tracked (foot, portion) slot across the
// performed stream, to pair a Hold/RollStart with its Release.
type portionKey struct {
	foot    int
	portion int
}

// Emit converts a PerformedChart into a time-sorted output note
// stream. Every HoldEnd/RollEnd is preceded by exactly one matching
// HoldStart/RollStart on the same lane, and simultaneous output events
// never share a lane, because each is read directly off a single
// GraphLink's acting portions.
func Emit(expressed *express.Chart, performed *perform.PerformedChart) []express.NoteEvent {
	var out []express.NoteEvent
	open := make(map[portionKey]express.NoteKind)

	for _, pe := range performed.Events {
		for f := 0; f < 2; f++ {
			for p := 0; p < 2; p++ {
				a := pe.Instance.Link.Actions[f][p]
				if !a.Acting {
					continue
				}
				key := portionKey{f, p}
				switch a.Act {
				case stepgraph.Tap:
					out = append(out, express.NoteEvent{Time: pe.Time, Lane: a.Lane, Kind: express.TapNote})
				case stepgraph.Hold:
					kind := express.HoldStart
					if pe.Instance.Roll[f][p] {
						kind = express.RollStart
					}
					open[key] = kind
					out = append(out, express.NoteEvent{Time: pe.Time, Lane: a.Lane, Kind: kind})
				case stepgraph.Release:
					endKind := express.HoldEnd
					if open[key] == express.RollStart {
						endKind = express.RollEnd
					}
					delete(open, key)
					out = append(out, express.NoteEvent{Time: pe.Time, Lane: a.Lane, Kind: endKind})
				}
			}
		}
	}

	for _, e := range expressed.Events {
		if e.Mine == nil || !e.Mine.HasFoot {
			continue
		}
		lane, ok := laneForFootAt(performed, e.Mine.Time, e.Mine.Foot)
		if !ok {
			// The keyed foot never taps or holds anywhere in the
			// performed stream; there is no lane-consistent place to
			// remap the mine onto the target pad. (NoArrow mines carry
			// no foot and are skipped above.)
			continue
		}
		out = append(out, express.NoteEvent{Time: e.Mine.Time, Lane: lane, Kind: express.MineNote})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Less(out[j].Time) })
	return out
}

// laneForFootAt finds the target-pad lane the given foot occupied
// closest in time to t: the most recent non-release action at or
// before t, falling back to the nearest one after.
func laneForFootAt(performed *perform.PerformedChart, t express.Time, foot pad.Foot) (int, bool) {
	var pastLane, futureLane int
	var pastRow, futureRow int64
	havePast, haveFuture := false, false

	for _, pe := range performed.Events {
		lane, acted := footLane(pe, foot)
		if !acted {
			continue
		}
		if pe.Time.Row <= t.Row {
			if !havePast || pe.Time.Row > pastRow {
				pastLane, pastRow, havePast = lane, pe.Time.Row, true
			}
		} else {
			if !haveFuture || pe.Time.Row < futureRow {
				futureLane, futureRow, haveFuture = lane, pe.Time.Row, true
			}
		}
	}
	if havePast {
		return pastLane, true
	}
	if haveFuture {
		return futureLane, true
	}
	return 0, false
}

func footLane(pe perform.PerformedEvent, foot pad.Foot) (int, bool) {
	for p := 0; p < 2; p++ {
		a := pe.Instance.Link.Actions[foot][p]
		if a.Acting && a.Act != stepgraph.Release {
			return a.Lane, true
		}
	}
	return 0, false
}
