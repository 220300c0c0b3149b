package graphcache

import (
	"path/filepath"
	"testing"

	"steplift/pad"
	"steplift/stepgraph"
)

func testPadModel(t *testing.T) *pad.Model {
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
		Name:                             "test-cache",
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
	return m
}

func TestBuildOrLoadRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	p := testPadModel(t)
	built, err := store.BuildOrLoad(p)
	if err != nil {
		t.Fatalf("BuildOrLoad (miss): %v", err)
	}

	loaded, err := store.BuildOrLoad(p)
	if err != nil {
		t.Fatalf("BuildOrLoad (hit): %v", err)
	}
	if loaded.NumNodes() != built.NumNodes() {
		t.Fatalf("cached graph has %d nodes, want %d", loaded.NumNodes(), built.NumNodes())
	}
	if loaded.StartNode() != built.StartNode() {
		t.Errorf("cached graph start node = %d, want %d", loaded.StartNode(), built.StartNode())
	}
	if loaded.NumStartingTiers() != built.NumStartingTiers() {
		t.Errorf("cached graph has %d starting tiers, want %d", loaded.NumStartingTiers(), built.NumStartingTiers())
	}
	for id := 0; id < built.NumNodes(); id++ {
		if len(loaded.Outgoing(stepgraph.NodeID(id))) != len(built.Outgoing(stepgraph.NodeID(id))) {
			t.Fatalf("node %d edge count differs after cache round-trip", id)
		}
	}
}

func TestDefinitionHashChangesWithLayout(t *testing.T) {
	p := testPadModel(t)
	def := p.RawDefinition()
	h1 := DefinitionHash(def)

	def.Lanes = append([]pad.Lane(nil), def.Lanes...)
	def.Lanes[0] = pad.Lane{X: 9, Y: 9}
	h2 := DefinitionHash(def)

	if h1 == h2 {
		t.Fatal("DefinitionHash: moving a lane did not change the hash")
	}
}

func TestGetMissReturnsNotOK(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	p := testPadModel(t)
	_, ok, err := store.Get(p, "no-such-hash")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("Get: expected a miss for an unknown content hash")
	}
}
