// Package graph implements the audio graph: nodes under stable generational
// keys, per-node incoming/outgoing edge sets, and a cached topological
// order invalidated on structural change.
package graph

import (
	"fmt"

	"github.com/legato-dsp/legato/internal/genkey"
	"github.com/legato-dsp/legato/internal/node"
)

// Rate tags a port's signal rate. Edge endpoints must match rates.
type Rate int

const (
	Audio Rate = iota
	Control
)

// Endpoint names one port on one node.
type Endpoint struct {
	Node node.Key
	Port int
	Rate Rate
}

// Edge connects a source port to a sink port. Multiple edges may target the
// same sink port; the executor sums their contributions.
type Edge struct {
	Source Endpoint
	Sink   Endpoint
}

// ErrCycle is returned by AddEdge (if the new edge would create a cycle)
// and by TopoOrder (if the graph already contains one).
var ErrCycle = fmt.Errorf("graph: cycle detected")

// Graph stores nodes under generational keys plus their edges, with a
// topological order cached until the next structural change.
type Graph struct {
	nodes    *genkey.Arena[node.Node]
	incoming map[node.Key][]Edge
	outgoing map[node.Key][]Edge

	topoValid bool
	topoOrder []node.Key
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    genkey.NewArena[node.Node](),
		incoming: make(map[node.Key][]Edge),
		outgoing: make(map[node.Key][]Edge),
	}
}

// AddNode inserts n and returns its stable key.
func (g *Graph) AddNode(n node.Node) node.Key {
	k := g.nodes.Insert(n)
	g.incoming[k] = nil
	g.outgoing[k] = nil
	g.invalidate()
	return k
}

// RemoveNode evicts the node at k along with every edge touching it.
func (g *Graph) RemoveNode(k node.Key) error {
	if !g.nodes.Contains(k) {
		return fmt.Errorf("graph: unknown node key %v", k)
	}
	for _, e := range append([]Edge(nil), g.incoming[k]...) {
		g.removeEdgeUnchecked(e)
	}
	for _, e := range append([]Edge(nil), g.outgoing[k]...) {
		g.removeEdgeUnchecked(e)
	}
	delete(g.incoming, k)
	delete(g.outgoing, k)
	g.nodes.Remove(k)
	g.invalidate()
	return nil
}

// Node returns the node stored at k.
func (g *Graph) Node(k node.Key) (node.Node, bool) {
	v, ok := g.nodes.Get(k)
	if !ok {
		return nil, false
	}
	return *v, true
}

// NumNodes returns the number of live nodes.
func (g *Graph) NumNodes() int { return g.nodes.Len() }

// TotalAudioOutPorts sums audio_out arity over all nodes: total_ports()
// equals the sum of audio_out over all nodes.
func (g *Graph) TotalAudioOutPorts() int {
	total := 0
	g.nodes.Each(func(_ genkey.Key, n *node.Node) {
		total += len((*n).Ports().AudioOut)
	})
	return total
}

// AddEdge inserts e, rejecting unknown endpoints, an already-present
// identical edge (duplicate), or an edge that would create a cycle.
func (g *Graph) AddEdge(e Edge) error {
	if !g.nodes.Contains(e.Source.Node) {
		return fmt.Errorf("graph: unknown source node %v", e.Source.Node)
	}
	if !g.nodes.Contains(e.Sink.Node) {
		return fmt.Errorf("graph: unknown sink node %v", e.Sink.Node)
	}
	if e.Source.Rate != e.Sink.Rate {
		return fmt.Errorf("graph: rate mismatch on edge %+v", e)
	}
	for _, existing := range g.outgoing[e.Source.Node] {
		if existing == e {
			return fmt.Errorf("graph: duplicate edge %+v", e)
		}
	}
	if e.Source.Node == e.Sink.Node || g.reaches(e.Sink.Node, e.Source.Node) {
		return ErrCycle
	}
	g.outgoing[e.Source.Node] = append(g.outgoing[e.Source.Node], e)
	g.incoming[e.Sink.Node] = append(g.incoming[e.Sink.Node], e)
	g.invalidate()
	return nil
}

// RemoveEdge deletes e if present.
func (g *Graph) RemoveEdge(e Edge) error {
	if !g.removeEdgeUnchecked(e) {
		return fmt.Errorf("graph: edge not found %+v", e)
	}
	g.invalidate()
	return nil
}

func (g *Graph) removeEdgeUnchecked(e Edge) bool {
	found := false
	out := g.outgoing[e.Source.Node]
	for i, existing := range out {
		if existing == e {
			g.outgoing[e.Source.Node] = append(out[:i], out[i+1:]...)
			found = true
			break
		}
	}
	in := g.incoming[e.Sink.Node]
	for i, existing := range in {
		if existing == e {
			g.incoming[e.Sink.Node] = append(in[:i], in[i+1:]...)
			break
		}
	}
	return found
}

// Incoming returns the edges whose sink is k.
func (g *Graph) Incoming(k node.Key) []Edge { return g.incoming[k] }

// Outgoing returns the edges whose source is k.
func (g *Graph) Outgoing(k node.Key) []Edge { return g.outgoing[k] }

// reaches reports whether a path from->to exists via current edges. Used
// only at AddEdge time (non-RT construction), so a plain DFS is fine.
func (g *Graph) reaches(from, to node.Key) bool {
	visited := make(map[node.Key]bool)
	var dfs func(node.Key) bool
	dfs = func(cur node.Key) bool {
		if cur == to {
			return true
		}
		if visited[cur] {
			return false
		}
		visited[cur] = true
		for _, e := range g.outgoing[cur] {
			if dfs(e.Sink.Node) {
				return true
			}
		}
		return false
	}
	return dfs(from)
}

func (g *Graph) invalidate() {
	g.topoValid = false
	g.topoOrder = nil
}

// TopoOrder returns a linear arrangement of node keys respecting every
// edge, computed via Kahn's algorithm. The result is cached until the next
// structural change. Returns ErrCycle if the graph contains one.
func (g *Graph) TopoOrder() ([]node.Key, error) {
	if g.topoValid {
		return g.topoOrder, nil
	}

	inDegree := make(map[node.Key]int, g.nodes.Len())
	g.nodes.Each(func(k genkey.Key, _ *node.Node) {
		inDegree[k] = len(g.incoming[k])
	})

	// Kahn's algorithm with ties broken by arena slot order rather than map
	// order, so the emitted ordering is deterministic and nodes with no path
	// between them run in insertion order. That is what serialises a
	// delay-write ahead of the delay-read sharing its line when no edge
	// joins them. The quadratic ready-node scan only runs at prepare time,
	// never on the block path.
	order := make([]node.Key, 0, len(inDegree))
	emitted := make(map[node.Key]bool, len(inDegree))
	for len(order) < len(inDegree) {
		var pick node.Key
		found := false
		g.nodes.Each(func(k genkey.Key, _ *node.Node) {
			if !found && !emitted[k] && inDegree[k] == 0 {
				pick = k
				found = true
			}
		})
		if !found {
			return nil, ErrCycle
		}
		emitted[pick] = true
		order = append(order, pick)
		for _, e := range g.outgoing[pick] {
			inDegree[e.Sink.Node]--
		}
	}

	g.topoOrder = order
	g.topoValid = true
	return order, nil
}
