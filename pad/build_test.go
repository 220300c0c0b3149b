package pad

import "testing"

// fourLaneDef returns a minimal, internally-consistent 4-lane
// ("dance-single"-shaped) definition for tests: Left=0, Down=1, Up=2,
// Right=3.
func fourLaneDef() Definition {
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

	return Definition{
		Name:                 "test-4",
		Lanes:                []Lane{{0, 1}, {1, 0}, {1, 2}, {2, 1}},
		ValidNextArrow:       sq(true),
		BracketableOtherHeel: perFoot(false),
		BracketableOtherToe:  perFoot(false),
		OtherFootPairings:    perFoot(true),
		OtherFootPairingsCrossoverFront:  perFoot(false),
		OtherFootPairingsCrossoverBehind: perFoot(false),
		OtherFootPairingsInverted:        perFoot(false),
		StartTiers: []StartTier{
			{Positions: []StartPosition{{LeftLane: 0, RightLane: 3}}},
		},
		YTravelDistanceCompensation: 0.5,
	}
}

func TestBuildValid(t *testing.T) {
	m, err := Build(fourLaneDef())
	if err != nil {
		t.Fatalf("Build: unexpected error: %v", err)
	}
	if m.NumLanes() != 4 {
		t.Errorf("NumLanes() = %d, want 4", m.NumLanes())
	}
	if !m.ValidNextArrow(0, 3) {
		t.Errorf("ValidNextArrow(0,3) = false, want true")
	}
}

func TestBuildRejectsRaggedTable(t *testing.T) {
	def := fourLaneDef()
	def.ValidNextArrow = def.ValidNextArrow[:3]
	if _, err := Build(def); err == nil {
		t.Fatal("Build: expected error for ragged valid_next_arrows, got nil")
	}
}

func TestBuildRejectsOutOfRangeStart(t *testing.T) {
	def := fourLaneDef()
	def.StartTiers = []StartTier{
		{Positions: []StartPosition{{LeftLane: 9, RightLane: 3}}},
	}
	if _, err := Build(def); err == nil {
		t.Fatal("Build: expected error for out-of-range starting lane, got nil")
	}
}

func TestBuildRejectsNoTiers(t *testing.T) {
	def := fourLaneDef()
	def.StartTiers = nil
	if _, err := Build(def); err == nil {
		t.Fatal("Build: expected error for no starting tiers, got nil")
	}
}
