// Package graphcache persists built StepGraphs keyed by pad name and a
// content hash of the pad's Definition, so a batch run that converts
// many charts against the same pad pair only pays the BFS construction
// cost once, and subsequent runs load the graph from SQLite instead of
// rebuilding it.
package graphcache

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/gob"
	"fmt"

	_ "modernc.org/sqlite"

	"steplift/pad"
	"steplift/stepgraph"
)

// Store is a SQLite-backed cache of built StepGraphs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open graph cache: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate graph cache: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS step_graphs (
		pad_name TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		data BLOB NOT NULL,
		PRIMARY KEY (pad_name, content_hash)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// DefinitionHash hashes a pad Definition's identity-relevant fields so
// a changed layout invalidates the cache automatically.
func DefinitionHash(def pad.Definition) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d", def.Name, len(def.Lanes))
	for _, l := range def.Lanes {
		fmt.Fprintf(h, "|%d,%d", l.X, l.Y)
	}
	for _, tier := range def.StartTiers {
		for _, p := range tier.Positions {
			fmt.Fprintf(h, "|s%d,%d", p.LeftLane, p.RightLane)
		}
	}
	fmt.Fprintf(h, "|%v", def.ValidNextArrow)
	for _, tbl := range [][][][]bool{
		def.BracketableOtherHeel, def.BracketableOtherToe,
		def.OtherFootPairings, def.OtherFootPairingsCrossoverFront,
		def.OtherFootPairingsCrossoverBehind, def.OtherFootPairingsInverted,
	} {
		fmt.Fprintf(h, "|%v", tbl)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// storedGraph is the gob-serializable shape of a Graph's arena; Graph
// itself carries a *pad.Model and unexported index/tier fields rebuilt
// on load rather than serialized.
type storedGraph struct {
	Nodes []stepgraph.Node
	Out   [][]stepgraph.Edge
	Start stepgraph.NodeID
}

// Get returns a previously-cached graph for (pad name, content hash),
// rehydrated against the live pad.Model, or ok=false on a miss.
func (s *Store) Get(p *pad.Model, contentHash string) (*stepgraph.Graph, bool, error) {
	var data []byte
	err := s.db.QueryRow(
		`SELECT data FROM step_graphs WHERE pad_name = ? AND content_hash = ?`,
		p.Name(), contentHash,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query graph cache: %w", err)
	}

	var sg storedGraph
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&sg); err != nil {
		return nil, false, fmt.Errorf("decode cached graph: %w", err)
	}

	g := stepgraph.Rehydrate(p, sg.Nodes, sg.Out, sg.Start)
	return g, true, nil
}

// Put stores a built graph under (pad name, content hash), overwriting
// any prior entry.
func (s *Store) Put(p *pad.Model, contentHash string, g *stepgraph.Graph) error {
	sg := storedGraph{
		Nodes: g.Nodes(),
		Out:   g.AllOut(),
		Start: g.StartNode(),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(sg); err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO step_graphs (pad_name, content_hash, data) VALUES (?, ?, ?)`,
		p.Name(), contentHash, buf.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("store graph: %w", err)
	}
	return nil
}

// BuildOrLoad returns the cached graph for p if present, else builds
// it, stores it, and returns the freshly built graph.
func (s *Store) BuildOrLoad(p *pad.Model) (*stepgraph.Graph, error) {
	hash := DefinitionHash(p.RawDefinition())
	if g, ok, err := s.Get(p, hash); err != nil {
		return nil, err
	} else if ok {
		return g, nil
	}

	g, err := stepgraph.Build(p)
	if err != nil {
		return nil, err
	}
	if err := s.Put(p, hash, g); err != nil {
		return nil, err
	}
	return g, nil
}
