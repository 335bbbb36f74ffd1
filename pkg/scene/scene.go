// Package scene holds the authoritative collection of diagram nodes and
// edges. Insertion order is preserved and doubles as draw order and
// hit-test order.
package scene

import (
	"fmt"

	"github.com/ritzau/diagram-canvas/pkg/geometry"
)

// Shape selects how a node is drawn. Hit-testing always uses the bounding
// square regardless of shape.
type Shape string

const (
	ShapeSquare Shape = "square"
	ShapeCircle Shape = "circle"
	ShapeStar   Shape = "star"
)

// Node is a square-bounded diagram element anchored at its top-left corner.
type Node struct {
	ID          string  `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Size        float64 `json:"size"`
	Color       string  `json:"color"`
	BorderColor string  `json:"borderColor"`
	BorderWidth float64 `json:"borderWidth"`
	Shape       Shape   `json:"shape"`
	Label       string  `json:"label,omitempty"`
	LabelColor  string  `json:"labelColor,omitempty"`
	Active      bool    `json:"active"`
}

// Position returns the top-left anchor.
func (n Node) Position() geometry.Point {
	return geometry.Point{X: n.X, Y: n.Y}
}

// Bounds returns the square used for hit-testing.
func (n Node) Bounds() geometry.Square {
	return geometry.Square{Origin: n.Position(), Side: n.Size}
}

// Center returns the anchor point edges attach to.
func (n Node) Center() geometry.Point {
	return n.Bounds().Center()
}

// Edge is a directed connection between two node ids. Either end may name a
// node that does not exist (yet); such edges are kept but not drawn.
type Edge struct {
	ID    string  `json:"id"`
	From  string  `json:"from"`
	To    string  `json:"to"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Label string  `json:"label,omitempty"`
}

// NodeConfig describes a node to add. ID is optional.
type NodeConfig struct {
	ID          string  `json:"id,omitempty" validate:"omitempty,max=128"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Size        float64 `json:"size" validate:"gte=0"`
	Color       string  `json:"color"`
	BorderColor string  `json:"borderColor"`
	BorderWidth float64 `json:"borderWidth" validate:"gte=0"`
	Shape       Shape   `json:"shape,omitempty" validate:"omitempty,oneof=square circle star"`
	Label       string  `json:"label,omitempty"`
	LabelColor  string  `json:"labelColor,omitempty"`
	Active      bool    `json:"active,omitempty"`
}

// EdgeConfig describes an edge to add. ID is optional.
type EdgeConfig struct {
	ID    string  `json:"id,omitempty" validate:"omitempty,max=128"`
	From  string  `json:"from" validate:"required"`
	To    string  `json:"to" validate:"required"`
	Color string  `json:"color"`
	Width float64 `json:"width" validate:"gte=0"`
	Label string  `json:"label,omitempty"`
}

// NodePatch is a partial node update. Nil fields are left untouched.
type NodePatch struct {
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
	Size        *float64 `json:"size,omitempty" validate:"omitempty,gte=0"`
	Color       *string  `json:"color,omitempty"`
	BorderColor *string  `json:"borderColor,omitempty"`
	BorderWidth *float64 `json:"borderWidth,omitempty" validate:"omitempty,gte=0"`
	Shape       *Shape   `json:"shape,omitempty" validate:"omitempty,oneof=square circle star"`
	Label       *string  `json:"label,omitempty"`
	LabelColor  *string  `json:"labelColor,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

// EdgePatch is a partial edge update. Nil fields are left untouched.
type EdgePatch struct {
	Color *string  `json:"color,omitempty"`
	Width *float64 `json:"width,omitempty" validate:"omitempty,gte=0"`
	Label *string  `json:"label,omitempty"`
}

// Model owns every node and edge record. Callers only ever see copies.
type Model struct {
	nodes     []*Node
	nodeIndex map[string]*Node
	edges     []*Edge
	edgeIndex map[string]*Edge

	// Counters only grow, so generated ids are never reused.
	nodeSeq int
	edgeSeq int
}

// NewModel creates an empty scene.
func NewModel() *Model {
	return &Model{
		nodes:     make([]*Node, 0),
		nodeIndex: make(map[string]*Node),
		edges:     make([]*Edge, 0),
		edgeIndex: make(map[string]*Edge),
	}
}

// AddNode stores a node and returns its id. The counter advances on every
// call, even when the caller supplies an id. Adding an id that already
// exists replaces that record in place, keeping its position in the order.
func (m *Model) AddNode(cfg NodeConfig) string {
	m.nodeSeq++
	id := cfg.ID
	if id == "" {
		id = fmt.Sprintf("node-%d", m.nodeSeq)
	}

	shape := cfg.Shape
	if shape == "" {
		shape = ShapeSquare
	}

	node := Node{
		ID:          id,
		X:           cfg.X,
		Y:           cfg.Y,
		Size:        cfg.Size,
		Color:       cfg.Color,
		BorderColor: cfg.BorderColor,
		BorderWidth: cfg.BorderWidth,
		Shape:       shape,
		Label:       cfg.Label,
		LabelColor:  cfg.LabelColor,
		Active:      cfg.Active,
	}

	if existing, ok := m.nodeIndex[id]; ok {
		*existing = node
		return id
	}

	rec := &node
	m.nodes = append(m.nodes, rec)
	m.nodeIndex[id] = rec
	return id
}

// AddEdge stores an edge and returns its id. Endpoints are not checked.
func (m *Model) AddEdge(cfg EdgeConfig) string {
	m.edgeSeq++
	id := cfg.ID
	if id == "" {
		id = fmt.Sprintf("edge-%d", m.edgeSeq)
	}

	edge := Edge{
		ID:    id,
		From:  cfg.From,
		To:    cfg.To,
		Color: cfg.Color,
		Width: cfg.Width,
		Label: cfg.Label,
	}

	if existing, ok := m.edgeIndex[id]; ok {
		*existing = edge
		return id
	}

	rec := &edge
	m.edges = append(m.edges, rec)
	m.edgeIndex[id] = rec
	return id
}

// RemoveNode deletes a node and every edge that starts or ends at it. It
// returns the ids of the removed edges. Unknown ids are ignored, but edges
// naming the id are still swept.
func (m *Model) RemoveNode(id string) []string {
	if _, ok := m.nodeIndex[id]; ok {
		kept := m.nodes[:0]
		for _, n := range m.nodes {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		clear(m.nodes[len(kept):])
		m.nodes = kept
		delete(m.nodeIndex, id)
	}

	return m.removeEdgesWhere(func(e *Edge) bool {
		return e.From == id || e.To == id
	})
}

// RemoveEdge deletes every edge with exactly this ordered pair of
// endpoints and returns their ids.
func (m *Model) RemoveEdge(from, to string) []string {
	return m.removeEdgesWhere(func(e *Edge) bool {
		return e.From == from && e.To == to
	})
}

func (m *Model) removeEdgesWhere(match func(*Edge) bool) []string {
	var removed []string
	kept := m.edges[:0]
	for _, e := range m.edges {
		if match(e) {
			removed = append(removed, e.ID)
			delete(m.edgeIndex, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	clear(m.edges[len(kept):])
	m.edges = kept
	return removed
}

// PatchNode applies a partial update. It reports whether the node existed.
func (m *Model) PatchNode(id string, p NodePatch) bool {
	n, ok := m.nodeIndex[id]
	if !ok {
		return false
	}
	if p.X != nil {
		n.X = *p.X
	}
	if p.Y != nil {
		n.Y = *p.Y
	}
	if p.Size != nil {
		n.Size = *p.Size
	}
	if p.Color != nil {
		n.Color = *p.Color
	}
	if p.BorderColor != nil {
		n.BorderColor = *p.BorderColor
	}
	if p.BorderWidth != nil {
		n.BorderWidth = *p.BorderWidth
	}
	if p.Shape != nil {
		n.Shape = *p.Shape
	}
	if p.Label != nil {
		n.Label = *p.Label
	}
	if p.LabelColor != nil {
		n.LabelColor = *p.LabelColor
	}
	if p.Active != nil {
		n.Active = *p.Active
	}
	return true
}

// PatchEdge applies a partial update to the first edge, in insertion order,
// with this ordered pair of endpoints.
func (m *Model) PatchEdge(from, to string, p EdgePatch) bool {
	for _, e := range m.edges {
		if e.From != from || e.To != to {
			continue
		}
		if p.Color != nil {
			e.Color = *p.Color
		}
		if p.Width != nil {
			e.Width = *p.Width
		}
		if p.Label != nil {
			e.Label = *p.Label
		}
		return true
	}
	return false
}

// MoveNode sets a node's top-left anchor.
func (m *Model) MoveNode(id string, pos geometry.Point) bool {
	n, ok := m.nodeIndex[id]
	if !ok {
		return false
	}
	n.X, n.Y = pos.X, pos.Y
	return true
}

// Node returns a copy of the node with this id.
func (m *Model) Node(id string) (Node, bool) {
	n, ok := m.nodeIndex[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Edge returns a copy of the edge with this id.
func (m *Model) Edge(id string) (Edge, bool) {
	e, ok := m.edgeIndex[id]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// Nodes returns copies of all nodes in insertion order.
func (m *Model) Nodes() []Node {
	out := make([]Node, len(m.nodes))
	for i, n := range m.nodes {
		out[i] = *n
	}
	return out
}

// Edges returns copies of all edges in insertion order.
func (m *Model) Edges() []Edge {
	out := make([]Edge, len(m.edges))
	for i, e := range m.edges {
		out[i] = *e
	}
	return out
}

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int {
	return len(m.nodes)
}

// EdgeCount returns the number of edges.
func (m *Model) EdgeCount() int {
	return len(m.edges)
}

// Resolve looks up both endpoints of an edge. ok is false when either is
// missing.
func (m *Model) Resolve(e Edge) (from, to Node, ok bool) {
	f, okFrom := m.nodeIndex[e.From]
	t, okTo := m.nodeIndex[e.To]
	if !okFrom || !okTo {
		return Node{}, Node{}, false
	}
	return *f, *t, true
}
