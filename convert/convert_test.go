package convert

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"steplift/express"
	"steplift/pad"
	"steplift/perform"
	"steplift/stepgraph"
)

func fourLaneModel(t *testing.T) (*pad.Model, *stepgraph.Graph) {
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
		BracketableOtherHeel:             perFoot(false),
		BracketableOtherToe:              perFoot(false),
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
	g, err := stepgraph.Build(m)
	if err != nil {
		t.Fatalf("stepgraph.Build: %v", err)
	}
	return m, g
}

func TestConvertIdentityRoundTrip(t *testing.T) {
	p, g := fourLaneModel(t)
	notes := []express.NoteEvent{
		{Time: express.Time{Row: 0, Seconds: 0}, Lane: 1, Kind: express.TapNote},
		{Time: express.Time{Row: 4, Seconds: 0.1}, Lane: 2, Kind: express.TapNote},
	}
	out, err := Convert(context.Background(), notes, p, g, p, g, express.DefaultConfig(), perform.DefaultConfig(), 1)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(out) != len(notes) {
		t.Fatalf("got %d output notes, want %d", len(out), len(notes))
	}
}

func TestConvertWrapsConfigInvalid(t *testing.T) {
	p, g := fourLaneModel(t)
	cfg := perform.DefaultConfig()
	cfg.StepTightening.TravelSpeedMinSeconds = 10
	cfg.StepTightening.TravelSpeedMaxSeconds = 1
	_, err := Convert(context.Background(), nil, p, g, p, g, express.DefaultConfig(), cfg, 0)
	var target *ErrConfigInvalid
	if !errors.As(err, &target) {
		t.Fatalf("Convert: got %v, want *ErrConfigInvalid", err)
	}
}

func TestConvertWrapsShapeError(t *testing.T) {
	p, g := fourLaneModel(t)
	notes := []express.NoteEvent{
		{Time: express.Time{Row: 0}, Lane: 1, Kind: express.HoldEnd},
	}
	_, err := Convert(context.Background(), notes, p, g, p, g, express.DefaultConfig(), perform.DefaultConfig(), 0)
	var target *ErrShape
	if !errors.As(err, &target) {
		t.Fatalf("Convert: got %v, want *ErrShape", err)
	}
}

// Seed scenario (footswap preference over jack) run through the full
// pipeline on the identity pad: the jack in the Expressor's output is
// a same-foot SameArrow chain, so the two outer notes must land on one
// shared lane in the performed chart no matter how the middle note's
// lane tie resolves.
func TestConvertRoundTripsFootswapVsJackScenario(t *testing.T) {
	p, g := fourLaneModel(t)
	notes := []express.NoteEvent{
		{Time: express.Time{Row: 0, Seconds: 0}, Lane: 0, Kind: express.TapNote},
		{Time: express.Time{Row: 4, Seconds: 0.1}, Lane: 1, Kind: express.TapNote},
		{Time: express.Time{Row: 8, Seconds: 0.2}, Lane: 0, Kind: express.TapNote},
	}
	out, err := Convert(context.Background(), notes, p, g, p, g, express.DefaultConfig(), perform.DefaultConfig(), 1)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(out) != len(notes) {
		t.Fatalf("got %d output notes, want %d", len(out), len(notes))
	}
	for i, n := range out {
		if n.Kind != express.TapNote {
			t.Errorf("note %d: got kind=%v, want TapNote", i, n.Kind)
		}
	}
	if out[0].Lane != out[2].Lane {
		t.Errorf("jack split across lanes %d and %d, want both notes on one lane", out[0].Lane, out[2].Lane)
	}
	if out[1].Lane == out[0].Lane {
		t.Errorf("middle note shares lane %d with the jack, want a distinct lane", out[1].Lane)
	}
}

func TestConvertDeterministicForSameSeed(t *testing.T) {
	p, g := fourLaneModel(t)
	notes := []express.NoteEvent{
		{Time: express.Time{Row: 0, Seconds: 0}, Lane: 1, Kind: express.TapNote},
		{Time: express.Time{Row: 4, Seconds: 0.1}, Lane: 2, Kind: express.TapNote},
		{Time: express.Time{Row: 8, Seconds: 0.2}, Lane: 0, Kind: express.TapNote},
		{Time: express.Time{Row: 12, Seconds: 0.3}, Lane: 3, Kind: express.TapNote},
	}
	first, err := Convert(context.Background(), notes, p, g, p, g, express.DefaultConfig(), perform.DefaultConfig(), 99)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	second, err := Convert(context.Background(), notes, p, g, p, g, express.DefaultConfig(), perform.DefaultConfig(), 99)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("Convert produced different outputs for identical inputs and seed")
	}
}

func TestConvertWrapsInfeasibleFromExpress(t *testing.T) {
	p, g := fourLaneModel(t)
	notes := []express.NoteEvent{
		{Time: express.Time{Row: 0}, Lane: 0, Kind: express.TapNote},
		{Time: express.Time{Row: 0}, Lane: 1, Kind: express.TapNote},
		{Time: express.Time{Row: 0}, Lane: 2, Kind: express.TapNote},
	}
	_, err := Convert(context.Background(), notes, p, g, p, g, express.DefaultConfig(), perform.DefaultConfig(), 0)
	var target *ErrInfeasible
	if !errors.As(err, &target) {
		t.Fatalf("Convert: got %v, want *ErrInfeasible", err)
	}
	if target.Stage != "express" {
		t.Errorf("ErrInfeasible.Stage = %q, want %q", target.Stage, "express")
	}
}
