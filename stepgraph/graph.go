package stepgraph

import "steplift/pad"

// Graph is the set of every GraphNode reachable from a pad's primary
// starting position, and every legal outgoing GraphLink for each node.
// Exclusively owned by the subsystem that built it and shared read-only
// afterward.
type Graph struct {
	Pad   *pad.Model
	nodes []Node
	index map[Node]NodeID
	out   [][]Edge

	start     NodeID
	tierNodes [][]NodeID
}

// StartNode returns the designated start node's id.
func (g *Graph) StartNode() NodeID { return g.start }

// Node returns the full-body position a NodeID refers to.
func (g *Graph) Node(id NodeID) Node { return g.nodes[id] }

// NumNodes returns how many nodes the graph contains.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// Outgoing returns every legal (Link, NodeID) transition out of a node.
func (g *Graph) Outgoing(id NodeID) []Edge { return g.out[id] }

// NodesForStartingTier returns the node ids exactly matching one of a
// starting tier's (left, right) lane pairs, both feet resting,
// untwisted. The Performer falls back through tiers in order.
func (g *Graph) NodesForStartingTier(k int) []NodeID {
	if k < 0 || k >= len(g.tierNodes) {
		return nil
	}
	return g.tierNodes[k]
}

// NumStartingTiers reports how many starting-position tiers the pad
// defines.
func (g *Graph) NumStartingTiers() int { return len(g.tierNodes) }

// AllLinks returns every distinct Link appearing anywhere in the graph,
// for the Performer's substitution-table precomputation.
func (g *Graph) AllLinks() []Link {
	seen := make(map[Link]bool)
	var links []Link
	for _, edges := range g.out {
		for _, e := range edges {
			if !seen[e.Link] {
				seen[e.Link] = true
				links = append(links, e.Link)
			}
		}
	}
	return links
}

func emptyNode() Node {
	n := Node{}
	for f := 0; f < 2; f++ {
		for p := 0; p < 2; p++ {
			n.Feet[f][p] = PortionState{Lane: -1, Occ: Resting}
		}
	}
	return n
}

func startingNode(pos pad.StartPosition) Node {
	n := emptyNode()
	n.Feet[pad.Left][Heel] = PortionState{Lane: pos.LeftLane, Occ: Resting}
	n.Feet[pad.Right][Heel] = PortionState{Lane: pos.RightLane, Occ: Resting}
	return n
}

// Build performs a breadth-first construction from the pad's primary
// (tier 0, position 0) starting node, enumerating every legal outgoing
// edge of every node reached.
func Build(p *pad.Model) (*Graph, error) {
	tiers := p.StartTiers()
	if len(tiers) == 0 || len(tiers[0].Positions) == 0 {
		return nil, &pad.ErrInconsistent{Pad: p.Name(), Reason: "no primary starting position"}
	}

	g := &Graph{
		Pad:   p,
		index: make(map[Node]NodeID),
	}

	start := startingNode(tiers[0].Positions[0])
	g.start = g.intern(start)

	queue := []NodeID{g.start}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if g.out[id] != nil {
			continue
		}
		edges := legalOutgoing(p, g.nodes[id])
		resolved := make([]Edge, 0, len(edges))
		for _, le := range edges {
			toID := g.intern(le.to)
			resolved = append(resolved, Edge{Link: le.link, To: toID})
			if int(toID) >= len(g.out) {
				g.growOut()
			}
			if g.out[toID] == nil && !contains(queue, toID) && toID != id {
				queue = append(queue, toID)
			}
		}
		g.out[id] = resolved
	}
	for i := range g.out {
		if g.out[i] == nil {
			g.out[i] = []Edge{}
		}
	}

	g.tierNodes = tierNodesFromIndex(g.index, tiers)

	return g, nil
}

func tierNodesFromIndex(index map[Node]NodeID, tiers []pad.StartTier) [][]NodeID {
	out := make([][]NodeID, len(tiers))
	for ti, tier := range tiers {
		for _, pos := range tier.Positions {
			want := startingNode(pos)
			if id, ok := index[want]; ok {
				out[ti] = append(out[ti], id)
			}
		}
	}
	return out
}

// Nodes returns the graph's node arena in index order, for callers that
// need to serialize it (e.g. a build-once cache keyed by pad identity).
func (g *Graph) Nodes() []Node { return g.nodes }

// AllOut returns every node's outgoing edge list in index order.
func (g *Graph) AllOut() [][]Edge { return g.out }

// Rehydrate reconstructs a Graph from a previously-serialized arena and
// edge list against a live pad.Model, recomputing the derived index and
// starting-tier lookup rather than serializing them.
func Rehydrate(p *pad.Model, nodes []Node, out [][]Edge, start NodeID) *Graph {
	index := make(map[Node]NodeID, len(nodes))
	for id, n := range nodes {
		index[n] = NodeID(id)
	}
	return &Graph{
		Pad:       p,
		nodes:     nodes,
		index:     index,
		out:       out,
		start:     start,
		tierNodes: tierNodesFromIndex(index, p.StartTiers()),
	}
}

func (g *Graph) growOut() {
	for len(g.out) < len(g.nodes) {
		g.out = append(g.out, nil)
	}
}

func contains(s []NodeID, v NodeID) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func (g *Graph) intern(n Node) NodeID {
	if id, ok := g.index[n]; ok {
		return id
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.index[n] = id
	g.growOut()
	return id
}

type linkEdge struct {
	link Link
	to   Node
}
