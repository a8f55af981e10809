// Package visualization turns complete story event sequences into a dialogue graph.
//
// Action nodes are connected by edges keyed by the user intent that preceded them.
// Nodes that play the same role in the conversation are merged, so the graph shows the
// flow of all stories at once instead of one chain per story.
package visualization

import (
	"cmp"
	"slices"

	"github.com/aretw0/storyviz/pkg/domain"
)

// Fixed IDs of the auxiliary nodes.
const (
	StartNodeID = 0
	EndNodeID   = -1
)

// NodeKind classifies nodes for rendering.
type NodeKind string

const (
	KindStart  NodeKind = "start"
	KindEnd    NodeKind = "end"
	KindAction NodeKind = "action"
	KindIntent NodeKind = "intent"
)

// Node is a vertex of the dialogue graph.
type Node struct {
	ID    int      `json:"id"`
	Label string   `json:"label"`
	Kind  NodeKind `json:"kind"`
}

// Edge is a directed, keyed edge. An empty Key marks an unlabelled edge.
type Edge struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Key   string `json:"key,omitempty"`
	Label string `json:"label,omitempty"`

	// Entities of the user message the edge stands for, used to pick NLU examples.
	Entities []domain.Entity `json:"entities,omitempty"`
}

type edgeID struct {
	from, to int
	key      string
}

// Graph is a directed multigraph: several edges may connect the same pair of nodes
// as long as their keys differ.
type Graph struct {
	nodes map[int]*Node
	edges map[edgeID]*Edge
}

// NewGraph returns a graph holding only the START and END nodes.
func NewGraph() *Graph {
	g := &Graph{
		nodes: make(map[int]*Node),
		edges: make(map[edgeID]*Edge),
	}
	g.AddNode(StartNodeID, "START", KindStart)
	g.AddNode(EndNodeID, "END", KindEnd)
	return g
}

// AddNode inserts or replaces a node.
func (g *Graph) AddNode(id int, label string, kind NodeKind) {
	g.nodes[id] = &Node{ID: id, Label: label, Kind: kind}
}

// Node returns the node with the given ID.
func (g *Graph) Node(id int) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

// RemoveNode deletes a node and every edge touching it.
func (g *Graph) RemoveNode(id int) {
	delete(g.nodes, id)
	for k := range g.edges {
		if k.from == id || k.to == id {
			delete(g.edges, k)
		}
	}
}

// AddEdge connects u to v under key. An unlabelled edge between u and v absorbs
// every later edge between them, so the pair keeps a single plain arrow.
func (g *Graph) AddEdge(u, v int, key, label string, entities []domain.Entity) {
	if key == "" {
		label = ""
		entities = nil
	}
	if _, ok := g.edges[edgeID{u, v, ""}]; ok {
		return
	}
	g.edges[edgeID{u, v, key}] = &Edge{From: u, To: v, Key: key, Label: label, Entities: entities}
}

// RemoveEdge deletes a single keyed edge.
func (g *Graph) RemoveEdge(u, v int, key string) {
	delete(g.edges, edgeID{u, v, key})
}

// HasEdge reports whether the keyed edge exists.
func (g *Graph) HasEdge(u, v int, key string) bool {
	_, ok := g.edges[edgeID{u, v, key}]
	return ok
}

// Nodes returns all nodes ordered by ID, START first and END last.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, *n)
	}
	slices.SortFunc(out, func(a, b Node) int {
		return cmp.Compare(nodeOrder(a.ID), nodeOrder(b.ID))
	})
	return out
}

// nodeOrder puts END after every regular node.
func nodeOrder(id int) int {
	if id == EndNodeID {
		return int(^uint(0) >> 1)
	}
	return id
}

// Edges returns all edges in a stable order.
func (g *Graph) Edges() []Edge {
	return g.collect(func(edgeID) bool { return true })
}

// OutEdges returns the edges leaving the node.
func (g *Graph) OutEdges(id int) []Edge {
	return g.collect(func(k edgeID) bool { return k.from == id })
}

// InEdges returns the edges entering the node.
func (g *Graph) InEdges(id int) []Edge {
	return g.collect(func(k edgeID) bool { return k.to == id })
}

// Successors returns the distinct targets of the node's outgoing edges.
func (g *Graph) Successors(id int) []int {
	var out []int
	for _, e := range g.OutEdges(id) {
		if !slices.Contains(out, e.To) {
			out = append(out, e.To)
		}
	}
	return out
}

// Predecessors returns the distinct sources of the node's incoming edges.
func (g *Graph) Predecessors(id int) []int {
	var out []int
	for _, e := range g.InEdges(id) {
		if !slices.Contains(out, e.From) {
			out = append(out, e.From)
		}
	}
	return out
}

// ActionLabels returns the distinct action labels in node order.
func (g *Graph) ActionLabels() []string {
	var out []string
	for _, n := range g.Nodes() {
		if n.Kind == KindAction && !slices.Contains(out, n.Label) {
			out = append(out, n.Label)
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

func (g *Graph) collect(match func(edgeID) bool) []Edge {
	var out []Edge
	for k, e := range g.edges {
		if match(k) {
			out = append(out, *e)
		}
	}
	slices.SortFunc(out, func(a, b Edge) int {
		if c := cmp.Compare(nodeOrder(a.From), nodeOrder(b.From)); c != 0 {
			return c
		}
		if c := cmp.Compare(nodeOrder(a.To), nodeOrder(b.To)); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}
