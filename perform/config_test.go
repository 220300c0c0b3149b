package perform

import "testing"

func TestValidateRejectsInvertedSpeedBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepTightening.TravelSpeedMinSeconds = 1
	cfg.StepTightening.TravelSpeedMaxSeconds = 0.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate: expected error for min > max travel speed, got nil")
	}
}

func TestValidateRejectsOutOfRangeFacing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Facing.MaxInwardPercentage = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate: expected error for out-of-range facing percentage, got nil")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate: unexpected error on defaults: %v", err)
	}
}

func TestDefaultStepTypeReplacementsIncludesIdentity(t *testing.T) {
	table := DefaultStepTypeReplacements()
	for k, targets := range table {
		found := false
		for _, tk := range targets {
			if tk == k {
				found = true
			}
		}
		if !found {
			t.Errorf("StepKind %v has no identity entry in its own replacement set", k)
		}
	}
}

func TestMirrorKindIsInvolution(t *testing.T) {
	table := DefaultStepTypeReplacements()
	for k := range table {
		m := mirrorKind(k)
		if mirrorKind(m) != k {
			t.Errorf("mirrorKind(mirrorKind(%v)) = %v, want %v", k, mirrorKind(m), k)
		}
	}
}
