// Package graph mirrors the drawn part of a scene as a gonum directed graph
// so graph algorithms can run on it.
package graph

import (
	"github.com/ritzau/diagram-canvas/pkg/scene"
	"gonum.org/v1/gonum/graph/simple"
)

// SceneGraph is the directed graph of scene nodes and their resolved edges.
// Parallel edges collapse into one and self-loops are tracked separately.
type SceneGraph struct {
	graph     *simple.DirectedGraph
	ids       map[string]int64 // node id -> graph id
	names     map[int64]string // graph id -> node id
	order     []string         // node ids in scene order
	selfLoops []string
	nextID    int64
}

// NewSceneGraph creates an empty graph.
func NewSceneGraph() *SceneGraph {
	return &SceneGraph{
		graph: simple.NewDirectedGraph(),
		ids:   make(map[string]int64),
		names: make(map[int64]string),
		order: make([]string, 0),
	}
}

// AddNode adds a node by scene id. Adding the same id twice is a no-op.
func (sg *SceneGraph) AddNode(id string) {
	if _, exists := sg.ids[id]; exists {
		return
	}

	sg.ids[id] = sg.nextID
	sg.names[sg.nextID] = id
	sg.order = append(sg.order, id)
	sg.graph.AddNode(simple.Node(sg.nextID))
	sg.nextID++
}

// AddEdge adds a directed edge, creating either endpoint if needed.
func (sg *SceneGraph) AddEdge(from, to string) {
	sg.AddNode(from)
	sg.AddNode(to)

	if from == to {
		for _, id := range sg.selfLoops {
			if id == from {
				return
			}
		}
		sg.selfLoops = append(sg.selfLoops, from)
		return
	}

	fromID, toID := sg.ids[from], sg.ids[to]
	if !sg.graph.HasEdgeFromTo(fromID, toID) {
		sg.graph.SetEdge(sg.graph.NewEdge(sg.graph.Node(fromID), sg.graph.Node(toID)))
	}
}

// Name returns the scene id for a graph id.
func (sg *SceneGraph) Name(id int64) (string, bool) {
	name, ok := sg.names[id]
	return name, ok
}

// ID returns the graph id for a scene id.
func (sg *SceneGraph) ID(name string) (int64, bool) {
	id, ok := sg.ids[name]
	return id, ok
}

// Graph returns the underlying directed graph.
func (sg *SceneGraph) Graph() *simple.DirectedGraph {
	return sg.graph
}

// Nodes returns all node ids in scene order.
func (sg *SceneGraph) Nodes() []string {
	return append([]string(nil), sg.order...)
}

// SelfLoops returns the ids of nodes with an edge to themselves.
func (sg *SceneGraph) SelfLoops() []string {
	return append([]string(nil), sg.selfLoops...)
}

// Edges returns all edges as [from, to] pairs, ordered by source then
// target in scene order.
func (sg *SceneGraph) Edges() [][2]string {
	var edges [][2]string
	for _, from := range sg.order {
		for _, to := range sg.Successors(from) {
			edges = append(edges, [2]string{from, to})
		}
	}
	return edges
}

// Successors returns the nodes the given node has edges to, in scene order.
func (sg *SceneGraph) Successors(name string) []string {
	id, exists := sg.ids[name]
	if !exists {
		return nil
	}

	var out []string
	for _, other := range sg.order {
		if sg.graph.HasEdgeFromTo(id, sg.ids[other]) {
			out = append(out, other)
		}
	}
	return out
}

// BuildSceneGraph builds the graph of everything the renderer would draw:
// every node, and every edge whose endpoints both exist.
func BuildSceneGraph(m *scene.Model) *SceneGraph {
	sg := NewSceneGraph()

	for _, n := range m.Nodes() {
		sg.AddNode(n.ID)
	}
	for _, e := range m.Edges() {
		if _, _, ok := m.Resolve(e); !ok {
			continue
		}
		sg.AddEdge(e.From, e.To)
	}

	return sg
}
