package emit

import (
	"testing"

	"steplift/express"
	"steplift/pad"
	"steplift/perform"
	"steplift/stepgraph"
)

func tapEvent(row int64, foot pad.Foot, lane int) perform.PerformedEvent {
	var pe perform.PerformedEvent
	pe.Time = express.Time{Row: row}
	pe.Instance.Link.Actions[foot][stepgraph.Heel] = stepgraph.Action{Acting: true, Kind: stepgraph.NewArrow, Act: stepgraph.Tap, Lane: lane}
	return pe
}

func TestEmitTap(t *testing.T) {
	performed := &perform.PerformedChart{Events: []perform.PerformedEvent{tapEvent(0, pad.Left, 1)}}
	out := Emit(&express.Chart{}, performed)
	if len(out) != 1 || out[0].Kind != express.TapNote || out[0].Lane != 1 {
		t.Fatalf("got %+v, want a single TapNote on lane 1", out)
	}
}

func TestEmitHoldPairsWithRelease(t *testing.T) {
	var start, end perform.PerformedEvent
	start.Time = express.Time{Row: 0}
	start.Instance.Link.Actions[pad.Left][stepgraph.Heel] = stepgraph.Action{Acting: true, Kind: stepgraph.SameArrow, Act: stepgraph.Hold, Lane: 1}
	end.Time = express.Time{Row: 8}
	end.Instance.Link.Actions[pad.Left][stepgraph.Heel] = stepgraph.Action{Acting: true, Kind: stepgraph.SameArrow, Act: stepgraph.Release, Lane: 1}

	performed := &perform.PerformedChart{Events: []perform.PerformedEvent{start, end}}
	out := Emit(&express.Chart{}, performed)
	if len(out) != 2 {
		t.Fatalf("got %d events, want 2", len(out))
	}
	if out[0].Kind != express.HoldStart || out[1].Kind != express.HoldEnd {
		t.Fatalf("got kinds %v, %v, want HoldStart, HoldEnd", out[0].Kind, out[1].Kind)
	}
}

func TestEmitRollPairsWithRollEnd(t *testing.T) {
	var start, end perform.PerformedEvent
	start.Time = express.Time{Row: 0}
	start.Instance.Link.Actions[pad.Right][stepgraph.Heel] = stepgraph.Action{Acting: true, Kind: stepgraph.SameArrow, Act: stepgraph.Hold, Lane: 2}
	start.Instance.Roll[pad.Right][stepgraph.Heel] = true
	end.Time = express.Time{Row: 8}
	end.Instance.Link.Actions[pad.Right][stepgraph.Heel] = stepgraph.Action{Acting: true, Kind: stepgraph.SameArrow, Act: stepgraph.Release, Lane: 2}

	performed := &perform.PerformedChart{Events: []perform.PerformedEvent{start, end}}
	out := Emit(&express.Chart{}, performed)
	if len(out) != 2 || out[0].Kind != express.RollStart || out[1].Kind != express.RollEnd {
		t.Fatalf("got %+v, want RollStart then RollEnd", out)
	}
}

func TestEmitRemapsMineOntoClosestPastFootAction(t *testing.T) {
	performed := &perform.PerformedChart{Events: []perform.PerformedEvent{
		tapEvent(0, pad.Left, 1),
		tapEvent(20, pad.Right, 3),
	}}
	expressed := &express.Chart{Events: []express.Event{
		{Mine: &express.MineEvent{Time: express.Time{Row: 4}, Lane: 9, Type: express.AfterArrow, Foot: pad.Left, HasFoot: true}},
	}}
	out := Emit(expressed, performed)
	var mines []express.NoteEvent
	for _, e := range out {
		if e.Kind == express.MineNote {
			mines = append(mines, e)
		}
	}
	if len(mines) != 1 || mines[0].Lane != 1 {
		t.Fatalf("got mines %+v, want one mine remapped to lane 1 (Left foot's last action)", mines)
	}
}

func TestEmitDropsUnattributedMine(t *testing.T) {
	performed := &perform.PerformedChart{Events: []perform.PerformedEvent{tapEvent(0, pad.Left, 1)}}
	expressed := &express.Chart{Events: []express.Event{
		{Mine: &express.MineEvent{Time: express.Time{Row: 4}, Lane: 9, Type: express.NoArrow, HasFoot: false}},
	}}
	out := Emit(expressed, performed)
	for _, e := range out {
		if e.Kind == express.MineNote {
			t.Fatalf("got mine event %+v, want NoArrow mines dropped", e)
		}
	}
}

func TestEmitOutputIsTimeSorted(t *testing.T) {
	performed := &perform.PerformedChart{Events: []perform.PerformedEvent{
		tapEvent(8, pad.Left, 1),
		tapEvent(0, pad.Right, 3),
	}}
	out := Emit(&express.Chart{}, performed)
	for i := 1; i < len(out); i++ {
		if out[i].Time.Row < out[i-1].Time.Row {
			t.Fatalf("output not sorted by time: %+v", out)
		}
	}
}
