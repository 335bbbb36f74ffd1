package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/diagram-canvas/pkg/geometry"
	"github.com/ritzau/diagram-canvas/pkg/render"
	"github.com/ritzau/diagram-canvas/pkg/scene"
)

func pt(x, y float64) geometry.Point { return geometry.Point{X: x, Y: y} }

// Two 20px nodes with centers (10,10) and (110,110) joined by edge-1.
func newTestController() (*Controller, *scene.Model) {
	m := scene.NewModel()
	m.AddNode(scene.NodeConfig{X: 0, Y: 0, Size: 20})
	m.AddNode(scene.NodeConfig{X: 100, Y: 100, Size: 20})
	m.AddEdge(scene.EdgeConfig{From: "node-1", To: "node-2", Width: 1})
	return NewController(m), m
}

func TestStartsIdle(t *testing.T) {
	c, _ := newTestController()
	assert.Equal(t, Idle{}, c.State())
	assert.Equal(t, render.Selection{}, c.Selection())
}

func TestDownOnNodeStartsDrag(t *testing.T) {
	c, _ := newTestController()

	redraw := c.Handle(PointerDown, pt(5, 5))

	assert.True(t, redraw)
	assert.Equal(t, Dragging{ID: "node-1", Offset: pt(5, 5)}, c.State())
	assert.Equal(t, render.Selection{NodeID: "node-1"}, c.Selection())
}

func TestDragKeepsOffset(t *testing.T) {
	c, m := newTestController()

	c.Handle(PointerDown, pt(5, 5))
	assert.True(t, c.Handle(PointerMove, pt(50, 40)))

	n, ok := m.Node("node-1")
	require.True(t, ok)
	assert.Equal(t, pt(45, 35), n.Position())

	assert.False(t, c.Handle(PointerUp, pt(50, 40)))
	assert.Equal(t, NodeSelected{ID: "node-1"}, c.State())
}

func TestMoveWithoutDragIsIgnored(t *testing.T) {
	c, m := newTestController()

	assert.False(t, c.Handle(PointerMove, pt(5, 5)))
	n, _ := m.Node("node-1")
	assert.Equal(t, pt(0, 0), n.Position())

	c.Handle(PointerDown, pt(5, 5))
	c.Handle(PointerUp, pt(5, 5))
	assert.False(t, c.Handle(PointerMove, pt(60, 60)), "moves after release do not drag")
	n, _ = m.Node("node-1")
	assert.Equal(t, pt(0, 0), n.Position())
}

func TestCancelEndsDrag(t *testing.T) {
	c, _ := newTestController()

	c.Handle(PointerDown, pt(5, 5))
	assert.False(t, c.Handle(PointerCancel, pt(5, 5)))
	assert.Equal(t, NodeSelected{ID: "node-1"}, c.State())
}

func TestDownOnEmptySpaceDeselects(t *testing.T) {
	c, _ := newTestController()

	c.Handle(PointerDown, pt(5, 5))
	c.Handle(PointerUp, pt(5, 5))
	// (200, 10) is far from both nodes and from the line y = x.
	assert.True(t, c.Handle(PointerDown, pt(200, 10)))
	assert.Equal(t, Idle{}, c.State())
}

func TestDownOnSelectedNodeKeepsIt(t *testing.T) {
	c, _ := newTestController()

	c.Handle(PointerDown, pt(5, 5))
	c.Handle(PointerUp, pt(5, 5))
	c.Handle(PointerDown, pt(15, 12))

	assert.Equal(t, Dragging{ID: "node-1", Offset: pt(15, 12)}, c.State())
}

func TestNodeSelectionMovesToOtherNode(t *testing.T) {
	c, _ := newTestController()

	c.Handle(PointerDown, pt(5, 5))
	c.Handle(PointerUp, pt(5, 5))
	c.Handle(PointerDown, pt(110, 110))

	assert.Equal(t, Dragging{ID: "node-2", Offset: pt(10, 10)}, c.State())
}

func TestEdgeToggle(t *testing.T) {
	c, _ := newTestController()

	c.Handle(PointerDown, pt(60, 62))
	assert.Equal(t, EdgeSelected{ID: "edge-1"}, c.State())
	assert.Equal(t, render.Selection{EdgeID: "edge-1"}, c.Selection())

	c.Handle(PointerUp, pt(60, 62))
	assert.Equal(t, EdgeSelected{ID: "edge-1"}, c.State(), "release does not affect edge selection")

	c.Handle(PointerDown, pt(60, 62))
	assert.Equal(t, Idle{}, c.State())
}

func TestEdgeHitUsesInfiniteLine(t *testing.T) {
	c, _ := newTestController()

	// Beyond node-2 on the extension of y = x.
	c.Handle(PointerDown, pt(300, 301))
	assert.Equal(t, EdgeSelected{ID: "edge-1"}, c.State())
}

func TestEdgeThresholdIsStrict(t *testing.T) {
	m := scene.NewModel()
	m.AddNode(scene.NodeConfig{X: 0, Y: 0, Size: 20})
	m.AddNode(scene.NodeConfig{X: 100, Y: 0, Size: 20})
	m.AddEdge(scene.EdgeConfig{From: "node-1", To: "node-2"})
	c := NewController(m)

	// The line is y = 10. Distance 5 is not a hit, 4.9 is.
	c.Handle(PointerDown, pt(50, 15))
	assert.Equal(t, Idle{}, c.State())
	c.Handle(PointerDown, pt(50, 14.9))
	assert.Equal(t, EdgeSelected{ID: "edge-1"}, c.State())
}

func TestNodeBeatsEdge(t *testing.T) {
	c, _ := newTestController()

	// (10,10) is both inside node-1 and on the edge line.
	c.Handle(PointerDown, pt(10, 10))
	assert.Equal(t, Dragging{ID: "node-1", Offset: pt(10, 10)}, c.State())
}

func TestSelectingNodeClearsEdge(t *testing.T) {
	c, _ := newTestController()

	c.Handle(PointerDown, pt(60, 62))
	require.Equal(t, EdgeSelected{ID: "edge-1"}, c.State())

	c.Handle(PointerDown, pt(105, 105))
	assert.Equal(t, render.Selection{NodeID: "node-2"}, c.Selection())
}

func TestFirstInsertedNodeWinsOnOverlap(t *testing.T) {
	m := scene.NewModel()
	m.AddNode(scene.NodeConfig{X: 0, Y: 0, Size: 40})
	m.AddNode(scene.NodeConfig{X: 10, Y: 10, Size: 40})
	c := NewController(m)

	c.Handle(PointerDown, pt(20, 20))
	id, ok := SelectedNode(c.State())
	require.True(t, ok)
	assert.Equal(t, "node-1", id)
}

func TestBoundsAreInclusive(t *testing.T) {
	c, _ := newTestController()

	c.Handle(PointerDown, pt(20, 20))
	id, ok := SelectedNode(c.State())
	require.True(t, ok)
	assert.Equal(t, "node-1", id)
}

func TestDanglingEdgeNotHit(t *testing.T) {
	m := scene.NewModel()
	m.AddNode(scene.NodeConfig{X: 0, Y: 0, Size: 20})
	m.AddEdge(scene.EdgeConfig{From: "node-1", To: "ghost"})
	c := NewController(m)

	c.Handle(PointerDown, pt(200, 200))
	assert.Equal(t, Idle{}, c.State())
}

func TestForget(t *testing.T) {
	c, m := newTestController()

	c.Handle(PointerDown, pt(5, 5))
	c.Handle(PointerUp, pt(5, 5))
	c.Forget("node-2")
	assert.Equal(t, NodeSelected{ID: "node-1"}, c.State())

	removed := m.RemoveNode("node-1")
	c.Forget(append(removed, "node-1")...)
	assert.Equal(t, Idle{}, c.State())
}

func TestForgetEdge(t *testing.T) {
	c, m := newTestController()

	c.Handle(PointerDown, pt(60, 62))
	c.Forget(m.RemoveEdge("node-1", "node-2")...)
	assert.Equal(t, Idle{}, c.State())
}

func TestDragOfRemovedNodeReturnsToIdle(t *testing.T) {
	c, m := newTestController()

	c.Handle(PointerDown, pt(5, 5))
	m.RemoveNode("node-1")

	assert.False(t, c.Handle(PointerMove, pt(30, 30)))
	assert.Equal(t, Idle{}, c.State())
}

func TestStateNames(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Idle{}, "idle"},
		{NodeSelected{ID: "a"}, "node_selected"},
		{EdgeSelected{ID: "e"}, "edge_selected"},
		{Dragging{ID: "a"}, "dragging"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.Name())
	}
}
