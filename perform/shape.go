package perform

import "steplift/stepgraph"

// linkShapeProfile is a GraphLink's identity stripped of lane numbers: which
// portions act, with what StepKind and FootAction. Two links on
// different pads can be compared for substitution compatibility by
// shape alone, since lane assignment is exactly what the Performer is
// searching for.
type linkShapeProfile struct {
	acting [2][2]bool
	kind   [2][2]stepgraph.StepKind
	act    [2][2]stepgraph.FootAction
}

func shapeOf(l stepgraph.Link) linkShapeProfile {
	var s linkShapeProfile
	for f := 0; f < 2; f++ {
		for p := 0; p < 2; p++ {
			a := l.Actions[f][p]
			s.acting[f][p] = a.Acting
			s.kind[f][p] = a.Kind
			s.act[f][p] = a.Act
		}
	}
	return s
}

// substitutionTable is the precomputed, read-only mapping the Performer
// consults at every search node: for a source StepKind,
// the set of target StepKinds allowed to replace it.
type substitutionTable struct {
	allowed map[stepgraph.StepKind]map[stepgraph.StepKind]bool
}

func newSubstitutionTable(cfg Config) *substitutionTable {
	raw := cfg.replacementSet()
	t := &substitutionTable{allowed: make(map[stepgraph.StepKind]map[stepgraph.StepKind]bool, len(raw))}
	for src, targets := range raw {
		set := make(map[stepgraph.StepKind]bool, len(targets)+1)
		set[src] = true
		for _, tk := range targets {
			set[tk] = true
		}
		t.allowed[src] = set
	}
	return t
}

func (t *substitutionTable) permits(source, target stepgraph.StepKind) bool {
	set, ok := t.allowed[source]
	if !ok {
		return source == target
	}
	return set[target]
}

// matches reports whether targetLink can realize sourceLink: identical
// acting/FootAction shape per portion, with each acting portion's
// target StepKind in the source StepKind's allowed replacement set.
func (t *substitutionTable) matches(source, target stepgraph.Link) bool {
	ss, ts := shapeOf(source), shapeOf(target)
	for f := 0; f < 2; f++ {
		for p := 0; p < 2; p++ {
			if ss.acting[f][p] != ts.acting[f][p] {
				return false
			}
			if !ss.acting[f][p] {
				continue
			}
			if ss.act[f][p] != ts.act[f][p] {
				return false
			}
			if !t.permits(ss.kind[f][p], ts.kind[f][p]) {
				return false
			}
		}
	}
	return true
}
