package visualization

import (
	"maps"
	"strings"

	"github.com/aretw0/storyviz/pkg/domain"
)

// Builder assembles a Graph and hands out node IDs.
type Builder struct {
	graph  *Graph
	nextID int
}

// NewBuilder starts an empty graph.
func NewBuilder() *Builder {
	return &Builder{graph: NewGraph(), nextID: StartNodeID}
}

// Graph returns the graph built so far.
func (b *Builder) Graph() *Graph {
	return b.graph
}

func (b *Builder) newNode(label string, kind NodeKind) int {
	b.nextID++
	b.graph.AddNode(b.nextID, label, kind)
	return b.nextID
}

// AddStory appends one complete conversation as a chain from START to END.
// Each bot action becomes a node; the user message preceding it labels the edge.
func (b *Builder) AddStory(story domain.Story) {
	if len(story.Events) == 0 {
		return
	}

	current := StartNodeID
	var message *domain.Event
	for i := range story.Events {
		ev := story.Events[i]
		switch ev.Type {
		case domain.EventUser:
			message = &ev
		case domain.EventAction:
			if ev.Name == domain.ActionListen {
				continue
			}
			next := b.newNode(ev.Name, KindAction)
			b.addMessageEdge(current, next, message)
			current = next
			message = nil
		}
	}
	b.addMessageEdge(current, EndNodeID, message)
}

func (b *Builder) addMessageEdge(from, to int, message *domain.Event) {
	if message == nil {
		b.graph.AddEdge(from, to, "", "", nil)
		return
	}
	b.graph.AddEdge(from, to, message.Name, message.Text, message.Entities)
}

// Merge collapses equivalent action nodes until nothing changes.
//
// Two nodes are equivalent when their labels match and either their outgoing edges are
// similar, their incoming edges are identical, or the label paths reachable within
// maxHistory steps are identical. The surviving node takes over every edge of the
// removed one.
func (b *Builder) Merge(maxHistory int) {
	g := b.graph
	changed := true
	for changed {
		changed = false
		var remaining []int
		for _, n := range g.Nodes() {
			if n.ID > 0 {
				remaining = append(remaining, n.ID)
			}
		}
		for idx, i := range remaining {
			if !g.HasNode(i) {
				continue
			}
			for _, j := range remaining[idx+1:] {
				if !g.HasNode(j) || !nodesAreEquivalent(g, i, j, maxHistory) {
					continue
				}
				changed = true
				mergeInto(g, i, j)
			}
		}
	}
}

func mergeInto(g *Graph, keep, drop int) {
	for _, e := range g.OutEdges(drop) {
		g.AddEdge(keep, e.To, e.Key, e.Label, e.Entities)
		g.RemoveEdge(drop, e.To, e.Key)
	}
	for _, e := range g.InEdges(drop) {
		g.AddEdge(e.From, keep, e.Key, e.Label, e.Entities)
		g.RemoveEdge(e.From, drop, e.Key)
	}
	g.RemoveNode(drop)
}

func nodesAreEquivalent(g *Graph, a, b, maxHistory int) bool {
	na, _ := g.Node(a)
	nb, _ := g.Node(b)
	if na.Label != nb.Label {
		return false
	}
	return outgoingEdgesAreSimilar(g, a, b) ||
		maps.Equal(incomingEdges(g, a), incomingEdges(g, b)) ||
		maps.Equal(fingerprint(g, a, maxHistory), fingerprint(g, b, maxHistory))
}

type neighbour struct {
	node int
	key  string
}

func incomingEdges(g *Graph, id int) map[neighbour]struct{} {
	set := make(map[neighbour]struct{})
	for _, e := range g.InEdges(id) {
		set[neighbour{e.From, e.Key}] = struct{}{}
	}
	return set
}

// outgoingEdgesAreSimilar ignores edges between the two candidates and treats a node
// without outgoing edges as compatible with anything.
func outgoingEdgesAreSimilar(g *Graph, a, b int) bool {
	collect := func(id int) map[neighbour]struct{} {
		set := make(map[neighbour]struct{})
		for _, e := range g.OutEdges(id) {
			if e.To == a || e.To == b {
				continue
			}
			set[neighbour{e.To, e.Key}] = struct{}{}
		}
		return set
	}
	ea, eb := collect(a), collect(b)
	return len(ea) == 0 || len(eb) == 0 || maps.Equal(ea, eb)
}

// fingerprint returns the label paths starting at the node, each cut at maxHistory
// nodes or at a node without successors. Paths never exceed maxHistory nodes, so
// cycles introduced by earlier merges terminate.
func fingerprint(g *Graph, id, maxHistory int) map[string]struct{} {
	result := make(map[string]struct{})
	candidates := [][]int{{id}}
	for len(candidates) > 0 {
		candidate := candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]

		succ := g.Successors(candidate[len(candidate)-1])
		if len(succ) == 0 || len(candidate) >= maxHistory {
			result[pathLabel(g, candidate)] = struct{}{}
			continue
		}
		for _, s := range succ {
			next := append(append([]int(nil), candidate...), s)
			if len(next) >= maxHistory {
				result[pathLabel(g, next)] = struct{}{}
			} else {
				candidates = append(candidates, next)
			}
		}
	}
	return result
}

func pathLabel(g *Graph, path []int) string {
	labels := make([]string, 0, len(path))
	for _, id := range path {
		n, _ := g.Node(id)
		labels = append(labels, n.Label)
	}
	return strings.Join(labels, " - ")
}

// ReplaceEdgeLabels turns every keyed edge into an intent node between its endpoints.
// With NLU data loaded the node shows a training example for the intent; otherwise,
// or when no example fits, it keeps the story text ("/intent{...}").
func (b *Builder) ReplaceEdgeLabels(nlu domain.NLUDataRef) {
	g := b.graph
	data, hasNLU := nlu.Get()
	for _, e := range g.Edges() {
		if e.Key == "" {
			continue
		}
		label := e.Label
		if label == "" {
			label = e.Key
		}
		if hasNLU {
			if ex, ok := data.ExampleFor(e.Key, e.Entities); ok {
				label = ex.Text
			}
		}
		g.RemoveEdge(e.From, e.To, e.Key)
		id := b.newNode(label, KindIntent)
		g.AddEdge(e.From, id, "", "", nil)
		g.AddEdge(id, e.To, "", "", nil)
	}
}

// RemoveAuxiliary drops the END node when no story reaches it.
func (b *Builder) RemoveAuxiliary() {
	if len(b.graph.Predecessors(EndNodeID)) == 0 {
		b.graph.RemoveNode(EndNodeID)
	}
}

// Options configures Build.
type Options struct {
	MaxHistory int
	// SkipMerge keeps one chain per story.
	SkipMerge bool
	NLU       domain.NLUDataRef
}

// Build runs the whole pipeline: one chain per story, merge, intent nodes, cleanup.
func Build(stories []domain.Story, opts Options) *Graph {
	b := NewBuilder()
	for _, s := range stories {
		b.AddStory(s)
	}
	if !opts.SkipMerge {
		b.Merge(opts.MaxHistory)
	}
	b.ReplaceEdgeLabels(opts.NLU)
	b.RemoveAuxiliary()
	return b.Graph()
}
