package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/diagram-canvas/pkg/geometry"
)

func nodeIDs(nodes []Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func edgeIDs(edges []Edge) []string {
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.ID
	}
	return ids
}

func TestAddNodeGeneratesIDs(t *testing.T) {
	m := NewModel()

	id := m.AddNode(NodeConfig{X: 0, Y: 0, Size: 20, Color: "red"})
	assert.Equal(t, "node-1", id)

	id = m.AddNode(NodeConfig{X: 100, Y: 100, Size: 20})
	assert.Equal(t, "node-2", id)

	n, ok := m.Node("node-1")
	require.True(t, ok)
	assert.Equal(t, ShapeSquare, n.Shape, "shape should default to square")
	assert.Equal(t, "red", n.Color)
}

func TestCounterAdvancesForCallerIDs(t *testing.T) {
	m := NewModel()

	assert.Equal(t, "custom", m.AddNode(NodeConfig{ID: "custom"}))
	assert.Equal(t, "node-2", m.AddNode(NodeConfig{}))

	assert.Equal(t, "mine", m.AddEdge(EdgeConfig{ID: "mine", From: "a", To: "b"}))
	assert.Equal(t, "edge-2", m.AddEdge(EdgeConfig{From: "a", To: "b"}))
}

func TestCounterSurvivesRemoval(t *testing.T) {
	m := NewModel()
	m.AddNode(NodeConfig{})
	m.AddNode(NodeConfig{})
	m.RemoveNode("node-2")
	m.RemoveNode("node-1")

	assert.Equal(t, "node-3", m.AddNode(NodeConfig{}))
}

func TestAddNodeDuplicateIDReplacesInPlace(t *testing.T) {
	m := NewModel()
	m.AddNode(NodeConfig{ID: "a", Color: "red"})
	m.AddNode(NodeConfig{ID: "b"})
	m.AddNode(NodeConfig{ID: "a", Color: "blue"})

	assert.Equal(t, []string{"a", "b"}, nodeIDs(m.Nodes()))
	n, _ := m.Node("a")
	assert.Equal(t, "blue", n.Color)
}

func TestRemoveNodePreservesOrder(t *testing.T) {
	m := NewModel()
	for i := 0; i < 5; i++ {
		m.AddNode(NodeConfig{})
	}

	m.RemoveNode("node-3")

	assert.Equal(t, []string{"node-1", "node-2", "node-4", "node-5"}, nodeIDs(m.Nodes()))
	_, ok := m.Node("node-3")
	assert.False(t, ok)
}

func TestRemoveNodeCascadesEdges(t *testing.T) {
	m := NewModel()
	a := m.AddNode(NodeConfig{})
	b := m.AddNode(NodeConfig{})
	c := m.AddNode(NodeConfig{})

	ab := m.AddEdge(EdgeConfig{From: a, To: b})
	bc := m.AddEdge(EdgeConfig{From: b, To: c})
	ca := m.AddEdge(EdgeConfig{From: c, To: a})

	removed := m.RemoveNode(b)

	assert.ElementsMatch(t, []string{ab, bc}, removed)
	assert.Equal(t, []string{ca}, edgeIDs(m.Edges()))
}

func TestRemoveUnknownNodeSweepsDanglingEdges(t *testing.T) {
	m := NewModel()
	m.AddNode(NodeConfig{ID: "a"})
	m.AddEdge(EdgeConfig{From: "a", To: "ghost"})

	removed := m.RemoveNode("ghost")

	assert.Len(t, removed, 1)
	assert.Equal(t, 1, m.NodeCount())
	assert.Equal(t, 0, m.EdgeCount())
}

func TestRemoveEdgeRemovesAllMatches(t *testing.T) {
	m := NewModel()
	m.AddEdge(EdgeConfig{From: "a", To: "b"})
	m.AddEdge(EdgeConfig{From: "a", To: "b"})
	m.AddEdge(EdgeConfig{From: "b", To: "a"})

	removed := m.RemoveEdge("a", "b")

	assert.Equal(t, []string{"edge-1", "edge-2"}, removed)
	assert.Equal(t, []string{"edge-3"}, edgeIDs(m.Edges()))
}

func TestPatchNode(t *testing.T) {
	m := NewModel()
	id := m.AddNode(NodeConfig{X: 1, Y: 2, Size: 20, Color: "red", Label: "a"})

	color := "green"
	shape := ShapeCircle
	ok := m.PatchNode(id, NodePatch{Color: &color, Shape: &shape})
	require.True(t, ok)

	n, _ := m.Node(id)
	assert.Equal(t, "green", n.Color)
	assert.Equal(t, ShapeCircle, n.Shape)
	assert.Equal(t, "a", n.Label, "unpatched fields are kept")
	assert.Equal(t, 1.0, n.X)
}

func TestPatchMissingTargetsAreNoOps(t *testing.T) {
	m := NewModel()
	m.AddNode(NodeConfig{Color: "red"})
	m.AddEdge(EdgeConfig{From: "node-1", To: "node-1", Color: "black"})

	before := m.Nodes()
	beforeEdges := m.Edges()

	color := "blue"
	assert.False(t, m.PatchNode("missing", NodePatch{Color: &color}))
	assert.False(t, m.PatchEdge("x", "y", EdgePatch{Color: &color}))

	assert.Equal(t, before, m.Nodes())
	assert.Equal(t, beforeEdges, m.Edges())
}

func TestPatchEdgeFirstMatchOnly(t *testing.T) {
	m := NewModel()
	m.AddEdge(EdgeConfig{From: "a", To: "b", Width: 1})
	m.AddEdge(EdgeConfig{From: "a", To: "b", Width: 1})

	w := 4.0
	require.True(t, m.PatchEdge("a", "b", EdgePatch{Width: &w}))

	edges := m.Edges()
	assert.Equal(t, 4.0, edges[0].Width)
	assert.Equal(t, 1.0, edges[1].Width)
}

func TestQueriesReturnCopies(t *testing.T) {
	m := NewModel()
	id := m.AddNode(NodeConfig{Color: "red"})

	nodes := m.Nodes()
	nodes[0].Color = "blue"

	n, _ := m.Node(id)
	assert.Equal(t, "red", n.Color)
}

func TestMoveNode(t *testing.T) {
	m := NewModel()
	id := m.AddNode(NodeConfig{Size: 10})

	assert.True(t, m.MoveNode(id, geometry.Point{X: 5, Y: 7}))
	assert.False(t, m.MoveNode("missing", geometry.Point{}))

	n, _ := m.Node(id)
	assert.Equal(t, geometry.Point{X: 5, Y: 7}, n.Position())
	assert.Equal(t, geometry.Point{X: 10, Y: 12}, n.Center())
}

func TestResolve(t *testing.T) {
	m := NewModel()
	a := m.AddNode(NodeConfig{})
	id := m.AddEdge(EdgeConfig{From: a, To: "later"})

	e, _ := m.Edge(id)
	_, _, ok := m.Resolve(e)
	assert.False(t, ok, "dangling edge should not resolve")

	m.AddNode(NodeConfig{ID: "later"})
	from, to, ok := m.Resolve(e)
	require.True(t, ok)
	assert.Equal(t, a, from.ID)
	assert.Equal(t, "later", to.ID)
}
