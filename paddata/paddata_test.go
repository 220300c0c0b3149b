package paddata

import (
	"testing"

	"steplift/pad"
)

func TestDanceSingleBuilds(t *testing.T) {
	m, err := pad.Build(DanceSingle())
	if err != nil {
		t.Fatalf("pad.Build(DanceSingle()): %v", err)
	}
	if m.NumLanes() != 4 {
		t.Errorf("NumLanes() = %d, want 4", m.NumLanes())
	}
}

func TestPumpSingleBuilds(t *testing.T) {
	m, err := pad.Build(PumpSingle())
	if err != nil {
		t.Fatalf("pad.Build(PumpSingle()): %v", err)
	}
	if m.NumLanes() != 5 {
		t.Errorf("NumLanes() = %d, want 5", m.NumLanes())
	}
}

func TestLoadKnownNames(t *testing.T) {
	for _, name := range []string{"dance-single", "pump-single"} {
		if _, ok := Load(name); !ok {
			t.Errorf("Load(%q) = (_, false), want true", name)
		}
	}
}

func TestLoadUnknownName(t *testing.T) {
	if _, ok := Load("not-a-real-pad"); ok {
		t.Error("Load(\"not-a-real-pad\") = (_, true), want false")
	}
}

func TestIsPlainPairingConvention(t *testing.T) {
	left := pad.Left
	this := pad.Lane{X: 1, Y: 0}
	if !isPlainPairing(left, this, pad.Lane{X: 2, Y: 0}) {
		t.Error("isPlainPairing: Left foot should accept an other-foot lane to its right")
	}
	if isPlainPairing(left, this, pad.Lane{X: 0, Y: 0}) {
		t.Error("isPlainPairing: Left foot should reject an other-foot lane to its left (that's a crossover)")
	}
}
