// Package chartfile reads and writes a concrete JSON note-stream
// format so the CLI batch driver has something real to parse and emit.
// The core itself never imports this package; chart-format parsing
// stays outside it.
package chartfile

import (
	"encoding/json"
	"fmt"
	"sort"

	"steplift/express"
)

const (
	kindTap       = "Tap"
	kindHoldStart = "HoldStart"
	kindHoldEnd   = "HoldEnd"
	kindRollStart = "RollStart"
	kindRollEnd   = "RollEnd"
	kindMine      = "Mine"
	kindFake      = "Fake"
	kindLift      = "Lift"
)

type noteJSON struct {
	Row     int64   `json:"row"`
	Seconds float64 `json:"seconds"`
	Lane    int     `json:"lane"`
	Kind    string  `json:"kind"`
}

type tempoPointJSON struct {
	Row int64   `json:"row"`
	BPM float64 `json:"bpm"`
}

type timeSigPointJSON struct {
	Row         int64 `json:"row"`
	Numerator   int   `json:"numerator"`
	Denominator int   `json:"denominator"`
}

type chartJSON struct {
	Notes            []noteJSON         `json:"notes"`
	TempoMap         []tempoPointJSON   `json:"tempo_map,omitempty"`
	TimeSignatureMap []timeSigPointJSON `json:"time_signature_map,omitempty"`
}

// TempoPoint is one tempo-map entry.
type TempoPoint struct {
	Row int64
	BPM float64
}

// TimeSignaturePoint is one time-signature-map entry.
type TimeSignaturePoint struct {
	Row                    int64
	Numerator, Denominator int
}

// Metadata is the song-level data parse_chart returns alongside the
// note stream; the core does not interpret it, but a conversion is
// expected to carry it through unchanged to emit_chart.
type Metadata struct {
	TempoMap         []TempoPoint
	TimeSignatureMap []TimeSignaturePoint
}

// Parse reads a *.chart.json file's bytes into a time-sorted note
// stream plus metadata.
func Parse(data []byte) ([]express.NoteEvent, Metadata, error) {
	var cj chartJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return nil, Metadata{}, fmt.Errorf("parse chart: %w", err)
	}

	notes := make([]express.NoteEvent, 0, len(cj.Notes))
	for _, n := range cj.Notes {
		kind, err := parseKind(n.Kind)
		if err != nil {
			return nil, Metadata{}, fmt.Errorf("parse chart: row %d: %w", n.Row, err)
		}
		notes = append(notes, express.NoteEvent{
			Time: express.Time{Row: n.Row, Seconds: n.Seconds},
			Lane: n.Lane,
			Kind: kind,
		})
	}
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].Time.Less(notes[j].Time) })

	var meta Metadata
	for _, t := range cj.TempoMap {
		meta.TempoMap = append(meta.TempoMap, TempoPoint{Row: t.Row, BPM: t.BPM})
	}
	for _, t := range cj.TimeSignatureMap {
		meta.TimeSignatureMap = append(meta.TimeSignatureMap, TimeSignaturePoint{Row: t.Row, Numerator: t.Numerator, Denominator: t.Denominator})
	}
	return notes, meta, nil
}

// Write serializes a note stream and its metadata back to chart JSON,
// standing in for emit_chart.
func Write(notes []express.NoteEvent, meta Metadata) ([]byte, error) {
	var cj chartJSON
	for _, n := range notes {
		cj.Notes = append(cj.Notes, noteJSON{Row: n.Time.Row, Seconds: n.Time.Seconds, Lane: n.Lane, Kind: kindString(n.Kind)})
	}
	for _, t := range meta.TempoMap {
		cj.TempoMap = append(cj.TempoMap, tempoPointJSON{Row: t.Row, BPM: t.BPM})
	}
	for _, t := range meta.TimeSignatureMap {
		cj.TimeSignatureMap = append(cj.TimeSignatureMap, timeSigPointJSON{Row: t.Row, Numerator: t.Numerator, Denominator: t.Denominator})
	}
	return json.MarshalIndent(cj, "", "  ")
}

func parseKind(s string) (express.NoteKind, error) {
	switch s {
	case kindTap:
		return express.TapNote, nil
	case kindHoldStart:
		return express.HoldStart, nil
	case kindHoldEnd:
		return express.HoldEnd, nil
	case kindRollStart:
		return express.RollStart, nil
	case kindRollEnd:
		return express.RollEnd, nil
	case kindMine:
		return express.MineNote, nil
	case kindFake:
		return express.FakeNote, nil
	case kindLift:
		return express.LiftNote, nil
	default:
		return 0, fmt.Errorf("unknown note kind %q", s)
	}
}

func kindString(k express.NoteKind) string {
	switch k {
	case express.TapNote:
		return kindTap
	case express.HoldStart:
		return kindHoldStart
	case express.HoldEnd:
		return kindHoldEnd
	case express.RollStart:
		return kindRollStart
	case express.RollEnd:
		return kindRollEnd
	case express.MineNote:
		return kindMine
	case express.FakeNote:
		return kindFake
	case express.LiftNote:
		return kindLift
	default:
		return kindTap
	}
}
