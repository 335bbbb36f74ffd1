// Package interaction turns pointer events into selection and drag changes
// on a scene. Selection lives in a single tagged State value, so a node and
// an edge can never be selected at the same time.
package interaction

import (
	"github.com/ritzau/diagram-canvas/pkg/geometry"
)

// State is one of Idle, NodeSelected, EdgeSelected or Dragging.
type State interface {
	isState()
	// Name is a short label for logs and JSON.
	Name() string
}

// Idle means nothing is selected.
type Idle struct{}

// NodeSelected holds the id of the selected node.
type NodeSelected struct {
	ID string
}

// EdgeSelected holds the id of the selected edge.
type EdgeSelected struct {
	ID string
}

// Dragging is a selected node that follows the pointer. Offset is the
// pointer-down position relative to the node's top-left corner.
type Dragging struct {
	ID     string
	Offset geometry.Point
}

func (Idle) isState()         {}
func (NodeSelected) isState() {}
func (EdgeSelected) isState() {}
func (Dragging) isState()     {}

func (Idle) Name() string         { return "idle" }
func (NodeSelected) Name() string { return "node_selected" }
func (EdgeSelected) Name() string { return "edge_selected" }
func (Dragging) Name() string     { return "dragging" }

// SelectedNode returns the id of the selected node, if any. A node being
// dragged counts as selected.
func SelectedNode(s State) (string, bool) {
	switch st := s.(type) {
	case NodeSelected:
		return st.ID, true
	case Dragging:
		return st.ID, true
	}
	return "", false
}

// SelectedEdge returns the id of the selected edge, if any.
func SelectedEdge(s State) (string, bool) {
	if st, ok := s.(EdgeSelected); ok {
		return st.ID, true
	}
	return "", false
}
