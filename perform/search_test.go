package perform

import (
	"context"
	"testing"

	"steplift/express"
	"steplift/pad"
	"steplift/stepgraph"
)

func fourLaneModel(t *testing.T) *pad.Model {
	t.Helper()
	n := 4
	sq := func(fill bool) [][]bool {
		m := make([][]bool, n)
		for i := range m {
			m[i] = make([]bool, n)
			for j := range m[i] {
				m[i][j] = fill
			}
		}
		return m
	}
	perFoot := func(fill bool) [][][]bool {
		return [][][]bool{sq(fill), sq(fill)}
	}
	def := pad.Definition{
		Name:                             "test-dance",
		Lanes:                            []pad.Lane{{X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 2}, {X: 2, Y: 1}},
		ValidNextArrow:                   sq(true),
		BracketableOtherHeel:             perFoot(true),
		BracketableOtherToe:              perFoot(true),
		OtherFootPairings:                perFoot(true),
		OtherFootPairingsCrossoverFront:  perFoot(false),
		OtherFootPairingsCrossoverBehind: perFoot(false),
		OtherFootPairingsInverted:        perFoot(false),
		StartTiers: []pad.StartTier{
			{Positions: []pad.StartPosition{{LeftLane: 0, RightLane: 3}}},
		},
		YTravelDistanceCompensation: 0.5,
	}
	m, err := pad.Build(def)
	if err != nil {
		t.Fatalf("pad.Build: %v", err)
	}
	return m
}

// firstEdgeMatching returns the first edge out of a node whose heel
// action for the given foot has Kind == want.
func firstEdgeMatching(g *stepgraph.Graph, from stepgraph.NodeID, foot int, want stepgraph.StepKind) (stepgraph.Edge, bool) {
	for _, e := range g.Outgoing(from) {
		a := e.Link.Actions[foot][stepgraph.Heel]
		if a.Acting && a.Kind == want {
			return e, true
		}
	}
	return stepgraph.Edge{}, false
}

func TestPerformConservesActingShape(t *testing.T) {
	p := fourLaneModel(t)
	g, err := stepgraph.Build(p)
	if err != nil {
		t.Fatalf("stepgraph.Build: %v", err)
	}

	e1, ok := firstEdgeMatching(g, g.StartNode(), 0, stepgraph.NewArrow)
	if !ok {
		t.Fatal("fixture graph has no NewArrow edge out of its start node")
	}

	expressed := &express.Chart{Events: []express.Event{
		{Step: &express.StepEvent{Time: express.Time{Row: 0, Seconds: 0}, Instance: stepgraph.Instance{Link: e1.Link}}},
	}}

	performed, err := Perform(context.Background(), expressed, p, g, DefaultConfig(), 42)
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if len(performed.Events) != 1 {
		t.Fatalf("got %d performed events, want 1", len(performed.Events))
	}
	got := performed.Events[0].Instance.Link.Actions[0][stepgraph.Heel]
	want := e1.Link.Actions[0][stepgraph.Heel]
	if !got.Acting || got.Kind != want.Kind || got.Act != want.Act {
		t.Errorf("performed link's left heel = %+v, want acting %v %v (the lane may differ, the step shape may not)", got, want.Kind, want.Act)
	}
	for f := 0; f < 2; f++ {
		for portion := 0; portion < 2; portion++ {
			if performed.Events[0].Instance.Link.Actions[f][portion].Acting != e1.Link.Actions[f][portion].Acting {
				t.Errorf("acting mask changed for foot %d portion %d", f, portion)
			}
		}
	}
}

func TestPerformDeterministicAcrossRuns(t *testing.T) {
	p := fourLaneModel(t)
	g, err := stepgraph.Build(p)
	if err != nil {
		t.Fatalf("stepgraph.Build: %v", err)
	}
	e1, ok := firstEdgeMatching(g, g.StartNode(), 0, stepgraph.NewArrow)
	if !ok {
		t.Fatal("fixture graph has no NewArrow edge out of its start node")
	}
	expressed := &express.Chart{Events: []express.Event{
		{Step: &express.StepEvent{Time: express.Time{Row: 0, Seconds: 0}, Instance: stepgraph.Instance{Link: e1.Link}}},
	}}

	first, err := Perform(context.Background(), expressed, p, g, DefaultConfig(), 7)
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	second, err := Perform(context.Background(), expressed, p, g, DefaultConfig(), 7)
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if first.Events[0].Instance.Link != second.Events[0].Instance.Link {
		t.Fatal("Perform produced different links for identical input and seed across two runs")
	}
}

func TestPerformRejectsInvalidConfig(t *testing.T) {
	p := fourLaneModel(t)
	g, err := stepgraph.Build(p)
	if err != nil {
		t.Fatalf("stepgraph.Build: %v", err)
	}
	cfg := DefaultConfig()
	cfg.StepTightening.TravelSpeedMinSeconds = 10
	cfg.StepTightening.TravelSpeedMaxSeconds = 1
	_, err = Perform(context.Background(), &express.Chart{}, p, g, cfg, 0)
	if _, ok := err.(*ErrConfigInvalid); !ok {
		t.Fatalf("Perform: got %v (%T), want *ErrConfigInvalid", err, err)
	}
}

// Seed scenario (alternating same-arrow) run end to end: Express a
// repeated single-lane tap stream, then Perform it against the
// identity pad, and confirm the jack survives unchanged — the
// Performer's cost model has no reason to move a step that already
// satisfies every tier on the source foot.
func TestPerformPreservesRepeatedLaneJackOnIdentityPad(t *testing.T) {
	p := fourLaneModel(t)
	g, err := stepgraph.Build(p)
	if err != nil {
		t.Fatalf("stepgraph.Build: %v", err)
	}

	notes := []express.NoteEvent{
		{Time: express.Time{Row: 0}, Lane: 0, Kind: express.TapNote},
		{Time: express.Time{Row: 4}, Lane: 0, Kind: express.TapNote},
		{Time: express.Time{Row: 8}, Lane: 0, Kind: express.TapNote},
	}
	expressed, err := express.Express(context.Background(), notes, g, express.DefaultConfig())
	if err != nil {
		t.Fatalf("Express: %v", err)
	}

	performed, err := Perform(context.Background(), expressed, p, g, DefaultConfig(), 1)
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}

	var steps []stepgraph.Link
	for _, e := range performed.Events {
		steps = append(steps, e.Instance.Link)
	}
	if len(steps) != len(notes) {
		t.Fatalf("got %d performed step events, want %d", len(steps), len(notes))
	}
	for i, l := range steps {
		feet := l.ActiveFeet()
		if len(feet) != 1 || feet[0] != pad.Left {
			t.Errorf("event %d: got active feet %v, want just Left", i, feet)
		}
		if l.Actions[pad.Left][stepgraph.Heel].Kind != stepgraph.SameArrow {
			t.Errorf("event %d: got kind %v, want SameArrow", i, l.Actions[pad.Left][stepgraph.Heel].Kind)
		}
	}
}

func TestPerformCancelledContext(t *testing.T) {
	p := fourLaneModel(t)
	g, err := stepgraph.Build(p)
	if err != nil {
		t.Fatalf("stepgraph.Build: %v", err)
	}
	e1, ok := firstEdgeMatching(g, g.StartNode(), 0, stepgraph.NewArrow)
	if !ok {
		t.Fatal("fixture graph has no NewArrow edge out of its start node")
	}
	expressed := &express.Chart{Events: []express.Event{
		{Step: &express.StepEvent{Time: express.Time{Row: 0, Seconds: 0}, Instance: stepgraph.Instance{Link: e1.Link}}},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Perform(ctx, expressed, p, g, DefaultConfig(), 0); err != context.Canceled {
		t.Fatalf("Perform: got %v, want context.Canceled", err)
	}
}

func TestPerformReturnsNoPathFoundWhenStretchIsUnreachable(t *testing.T) {
	p := fourLaneModel(t)
	g, err := stepgraph.Build(p)
	if err != nil {
		t.Fatalf("stepgraph.Build: %v", err)
	}
	e1, ok := firstEdgeMatching(g, g.StartNode(), 0, stepgraph.NewArrow)
	if !ok {
		t.Fatal("fixture graph has no NewArrow edge out of its start node")
	}
	e2, ok := firstEdgeMatching(g, e1.To, 0, stepgraph.NewArrow)
	if !ok {
		t.Fatal("fixture graph has no second-hop NewArrow edge")
	}

	expressed := &express.Chart{Events: []express.Event{
		{Step: &express.StepEvent{Time: express.Time{Row: 0, Seconds: 0}, Instance: stepgraph.Instance{Link: e1.Link}}},
		{Step: &express.StepEvent{Time: express.Time{Row: 1, Seconds: 1}, Instance: stepgraph.Instance{Link: e2.Link}}},
	}}

	cfg := DefaultConfig()
	// The first move always has no recorded prior position (perfState
	// starts empty) so it is never stretch-checked; zeroing both stretch
	// bounds (Validate rejects a minimum above the maximum) forces the
	// second move's real foot-travel distance to exceed the maximum.
	cfg.StepTightening.StretchDistanceMin = 0
	cfg.StepTightening.StretchDistanceMax = 0
	_, err = Perform(context.Background(), expressed, p, g, cfg, 0)
	if _, ok := err.(*ErrNoPathFound); !ok {
		t.Fatalf("Perform: got %v (%T), want *ErrNoPathFound", err, err)
	}
}
