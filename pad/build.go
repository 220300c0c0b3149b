package pad

import "fmt"

// ErrInconsistent is returned by Build when a Definition's tables have
// mismatched dimensions, reference an out-of-range lane, or name no
// reachable starting position.
type ErrInconsistent struct {
	Pad    string
	Reason string
}

func (e *ErrInconsistent) Error() string {
	return fmt.Sprintf("pad %q: inconsistent pad data: %s", e.Pad, e.Reason)
}

// Build validates a Definition and returns an immutable Model. It fails
// if the capability tables have inconsistent dimensions, reference lanes
// out of range, or if no starting position names a valid lane pair.
func Build(def Definition) (*Model, error) {
	n := len(def.Lanes)
	if n == 0 {
		return nil, &ErrInconsistent{def.Name, "no lanes defined"}
	}

	if err := checkSquare(def.Name, "valid_next_arrows", def.ValidNextArrow, n); err != nil {
		return nil, err
	}
	for _, t := range []struct {
		name string
		tbl  [][][]bool
	}{
		{"bracketable_other_heel", def.BracketableOtherHeel},
		{"bracketable_other_toe", def.BracketableOtherToe},
		{"other_foot_pairings", def.OtherFootPairings},
		{"other_foot_pairings_crossover_front", def.OtherFootPairingsCrossoverFront},
		{"other_foot_pairings_crossover_behind", def.OtherFootPairingsCrossoverBehind},
		{"other_foot_pairings_inverted", def.OtherFootPairingsInverted},
	} {
		if err := checkPerFootSquare(def.Name, t.name, t.tbl, n); err != nil {
			return nil, err
		}
	}

	if len(def.StartTiers) == 0 {
		return nil, &ErrInconsistent{def.Name, "no starting position tiers defined"}
	}
	reachable := false
	for ti, tier := range def.StartTiers {
		if len(tier.Positions) == 0 {
			return nil, &ErrInconsistent{def.Name, fmt.Sprintf("starting tier %d has no positions", ti)}
		}
		for _, p := range tier.Positions {
			if p.LeftLane < 0 || p.LeftLane >= n || p.RightLane < 0 || p.RightLane >= n {
				return nil, &ErrInconsistent{def.Name, fmt.Sprintf("starting tier %d references out-of-range lane (left=%d right=%d, n=%d)", ti, p.LeftLane, p.RightLane, n)}
			}
			reachable = true
		}
	}
	if !reachable {
		return nil, &ErrInconsistent{def.Name, "no starting node is reachable"}
	}

	return &Model{def: def, n: n}, nil
}

func checkSquare(padName, tableName string, tbl [][]bool, n int) error {
	if len(tbl) != n {
		return &ErrInconsistent{padName, fmt.Sprintf("%s has %d rows, want %d", tableName, len(tbl), n)}
	}
	for i, row := range tbl {
		if len(row) != n {
			return &ErrInconsistent{padName, fmt.Sprintf("%s row %d has %d entries, want %d", tableName, i, len(row), n)}
		}
	}
	return nil
}

func checkPerFootSquare(padName, tableName string, tbl [][][]bool, n int) error {
	if len(tbl) != int(numFeet) {
		return &ErrInconsistent{padName, fmt.Sprintf("%s has %d foot slots, want %d", tableName, len(tbl), numFeet)}
	}
	for f, perLane := range tbl {
		if err := checkSquare(padName, fmt.Sprintf("%s[%d]", tableName, f), perLane, n); err != nil {
			return err
		}
	}
	return nil
}
