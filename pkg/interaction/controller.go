package interaction

import (
	"slices"

	"github.com/ritzau/diagram-canvas/pkg/geometry"
	"github.com/ritzau/diagram-canvas/pkg/render"
	"github.com/ritzau/diagram-canvas/pkg/scene"
)

// PointerKind is the phase of a pointer event.
type PointerKind string

const (
	PointerDown   PointerKind = "down"
	PointerMove   PointerKind = "move"
	PointerUp     PointerKind = "up"
	PointerCancel PointerKind = "cancel"
)

// PointerEvent is a pointer event in surface-local coordinates.
type PointerEvent struct {
	Kind PointerKind `json:"type" validate:"required,oneof=down move up cancel"`
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
}

// Point returns the event position.
func (e PointerEvent) Point() geometry.Point {
	return geometry.Point{X: e.X, Y: e.Y}
}

// Controller owns the selection/drag state for one scene. It holds ids
// only; the scene owns the records.
type Controller struct {
	model     *scene.Model
	state     State
	threshold float64
}

// NewController creates a controller in the Idle state.
func NewController(m *scene.Model) *Controller {
	return &Controller{
		model:     m,
		state:     Idle{},
		threshold: EdgeHitThreshold,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Selection returns the current selection in the form the renderer uses.
func (c *Controller) Selection() render.Selection {
	var sel render.Selection
	sel.NodeID, _ = SelectedNode(c.state)
	sel.EdgeID, _ = SelectedEdge(c.state)
	return sel
}

// Handle dispatches an event whose position is already in model space. It
// reports whether the scene needs to be redrawn.
func (c *Controller) Handle(kind PointerKind, p geometry.Point) bool {
	switch kind {
	case PointerDown:
		c.Down(p)
		return true
	case PointerMove:
		return c.Move(p)
	case PointerUp, PointerCancel:
		c.Release()
	}
	return false
}

// Down runs the pointer-down hit-test sequence: drop a selected node the
// pointer is outside of, then try nodes, then edges, then fall back to Idle.
func (c *Controller) Down(p geometry.Point) {
	if id, ok := SelectedNode(c.state); ok {
		n, exists := c.model.Node(id)
		if !exists || !n.Bounds().Contains(p) {
			c.state = Idle{}
		}
	}

	if n, ok := HitNode(c.model, p); ok {
		c.state = Dragging{ID: n.ID, Offset: p.Sub(n.Position())}
		return
	}

	if e, ok := HitEdge(c.model, p, c.threshold); ok {
		if id, selected := SelectedEdge(c.state); selected && id == e.ID {
			c.state = Idle{}
		} else {
			c.state = EdgeSelected{ID: e.ID}
		}
		return
	}

	c.state = Idle{}
}

// Move drags the selected node so that the drag offset is preserved. It
// has no effect unless a drag is in progress.
func (c *Controller) Move(p geometry.Point) bool {
	d, ok := c.state.(Dragging)
	if !ok {
		return false
	}
	if !c.model.MoveNode(d.ID, p.Sub(d.Offset)) {
		c.state = Idle{}
		return false
	}
	return true
}

// Release ends a drag. The node stays selected. Up and cancel are handled
// the same way.
func (c *Controller) Release() {
	if d, ok := c.state.(Dragging); ok {
		c.state = NodeSelected{ID: d.ID}
	}
}

// Forget drops any selection that refers to one of the given ids. Call it
// before or right after removing records from the scene.
func (c *Controller) Forget(ids ...string) {
	if id, ok := SelectedNode(c.state); ok && slices.Contains(ids, id) {
		c.state = Idle{}
	}
	if id, ok := SelectedEdge(c.state); ok && slices.Contains(ids, id) {
		c.state = Idle{}
	}
}
