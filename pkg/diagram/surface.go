// Package diagram is the embeddable diagram surface. It ties a scene, an
// interaction controller and a renderer to one host canvas and redraws the
// scene after every change.
//
// A Surface is not safe for concurrent use. Hosts that receive calls on
// several goroutines must serialize them.
package diagram

import (
	"time"

	"github.com/ritzau/diagram-canvas/pkg/canvas"
	"github.com/ritzau/diagram-canvas/pkg/geometry"
	"github.com/ritzau/diagram-canvas/pkg/interaction"
	"github.com/ritzau/diagram-canvas/pkg/render"
	"github.com/ritzau/diagram-canvas/pkg/scene"
	"github.com/ritzau/diagram-canvas/pkg/viewport"
)

// Surface is an interactive diagram bound to one canvas.
type Surface struct {
	canvas   canvas.Canvas
	model    *scene.Model
	ctrl     *interaction.Controller
	renderer *render.Renderer
	view     viewport.Viewport

	width  int
	height int

	rawPointer bool
	observers  []Observer
	renders    uint64
}

// NodeView is a node as reported to callers, with its derived selection flag.
type NodeView struct {
	scene.Node
	Selected bool `json:"selected"`
}

// EdgeView is an edge as reported to callers, with its derived selection flag.
type EdgeView struct {
	scene.Edge
	Selected bool `json:"selected"`
}

// New creates a surface of the given size on host. It fails with an
// *InitializationError if the host has no drawing context. The empty scene
// is drawn once before New returns.
func New(host Host, width, height int, opts ...Option) (*Surface, error) {
	if host == nil {
		return nil, &InitializationError{Width: width, Height: height}
	}
	c, err := host.Context(width, height)
	if err != nil || c == nil {
		return nil, &InitializationError{Width: width, Height: height, Err: err}
	}

	model := scene.NewModel()
	s := &Surface{
		canvas:   c,
		model:    model,
		ctrl:     interaction.NewController(model),
		renderer: render.New(render.DefaultTheme()),
		view:     viewport.New(),
		width:    width,
		height:   height,
	}
	for _, opt := range opts {
		opt(s)
	}

	if src, ok := host.(PointerSource); ok {
		src.SubscribePointer(s.HandlePointer)
	}

	s.canvas.SetViewTransform(s.transform())
	s.render()
	return s, nil
}

// AddNode adds a node and returns its id.
func (s *Surface) AddNode(cfg scene.NodeConfig) string {
	id := s.model.AddNode(cfg)
	s.render()
	return id
}

// AddEdge adds an edge and returns its id. The endpoints do not need to
// exist yet.
func (s *Surface) AddEdge(cfg scene.EdgeConfig) string {
	id := s.model.AddEdge(cfg)
	s.render()
	return id
}

// RemoveNode removes a node together with every edge attached to it.
func (s *Surface) RemoveNode(id string) {
	removed := s.model.RemoveNode(id)
	s.ctrl.Forget(append(removed, id)...)
	s.render()
}

// RemoveEdge removes every edge from one node to another.
func (s *Surface) RemoveEdge(from, to string) {
	s.ctrl.Forget(s.model.RemoveEdge(from, to)...)
	s.render()
}

// ModifyNodeStyle applies a partial update to a node. Unknown ids are
// ignored.
func (s *Surface) ModifyNodeStyle(id string, patch scene.NodePatch) {
	s.model.PatchNode(id, patch)
	s.render()
}

// ModifyEdgeStyle applies a partial update to the first edge from one node
// to another. Unknown pairs are ignored.
func (s *Surface) ModifyEdgeStyle(from, to string, patch scene.EdgePatch) {
	s.model.PatchEdge(from, to, patch)
	s.render()
}

// Resize changes the surface dimensions and redraws.
func (s *Surface) Resize(width, height int) {
	s.width, s.height = width, height
	s.canvas.Resize(width, height)
	s.canvas.SetViewTransform(s.transform())
	s.render()
}

// ZoomIn scales the view up by viewport.ZoomFactor.
func (s *Surface) ZoomIn() {
	s.view.ZoomIn()
	s.applyViewport()
}

// ZoomOut scales the view down by viewport.ZoomFactor.
func (s *Surface) ZoomOut() {
	s.view.ZoomOut()
	s.applyViewport()
}

// Pan shifts the view by a screen-space offset.
func (s *Surface) Pan(dx, dy float64) {
	s.view.Pan(dx, dy)
	s.applyViewport()
}

// HandlePointer feeds one pointer event, in surface-local coordinates, to
// the interaction controller.
func (s *Surface) HandlePointer(ev interaction.PointerEvent) {
	p := ev.Point()
	if !s.rawPointer {
		p = s.view.ToModel(p)
	}
	if s.ctrl.Handle(ev.Kind, p) {
		s.render()
	}
	for _, o := range s.observers {
		o.Pointer(ev.Kind, s.ctrl.State())
	}
}

// SetTheme replaces the rendering theme and redraws.
func (s *Surface) SetTheme(theme render.Theme) {
	s.renderer.SetTheme(theme)
	s.render()
}

// Theme returns the active rendering theme.
func (s *Surface) Theme() render.Theme {
	return s.renderer.Theme()
}

// Nodes returns every node in draw order.
func (s *Surface) Nodes() []NodeView {
	sel := s.ctrl.Selection()
	nodes := s.model.Nodes()
	out := make([]NodeView, len(nodes))
	for i, n := range nodes {
		out[i] = NodeView{Node: n, Selected: n.ID == sel.NodeID}
	}
	return out
}

// Edges returns every edge in draw order, including unresolved ones.
func (s *Surface) Edges() []EdgeView {
	sel := s.ctrl.Selection()
	edges := s.model.Edges()
	out := make([]EdgeView, len(edges))
	for i, e := range edges {
		out[i] = EdgeView{Edge: e, Selected: e.ID == sel.EdgeID}
	}
	return out
}

// Node looks up a single node.
func (s *Surface) Node(id string) (NodeView, bool) {
	n, ok := s.model.Node(id)
	if !ok {
		return NodeView{}, false
	}
	return NodeView{Node: n, Selected: n.ID == s.ctrl.Selection().NodeID}, true
}

// Selection returns the selected node or edge id.
func (s *Surface) Selection() render.Selection {
	return s.ctrl.Selection()
}

// State returns the interaction state.
func (s *Surface) State() interaction.State {
	return s.ctrl.State()
}

// Viewport returns the current view transform.
func (s *Surface) Viewport() viewport.Viewport {
	return s.view
}

// Size returns the surface dimensions.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// RenderCount returns the number of completed render passes.
func (s *Surface) RenderCount() uint64 {
	return s.renders
}

// Scene exposes the model for read-only analysis. Mutating it directly
// bypasses rendering.
func (s *Surface) Scene() *scene.Model {
	return s.model
}

// ScreenToModel maps a surface-local point into model space.
func (s *Surface) ScreenToModel(p geometry.Point) geometry.Point {
	return s.view.ToModel(p)
}

func (s *Surface) transform() canvas.Transform {
	return canvas.Transform{
		Scale:      s.view.Scale,
		TranslateX: s.view.TranslateX,
		TranslateY: s.view.TranslateY,
	}
}

func (s *Surface) applyViewport() {
	s.canvas.SetViewTransform(s.transform())
	for _, o := range s.observers {
		o.ViewportChanged(s.view)
	}
}

func (s *Surface) render() {
	start := time.Now()
	s.renderer.Render(s.canvas, s.model, s.ctrl.Selection())
	s.renders++

	stats := RenderStats{
		Seq:      s.renders,
		Duration: time.Since(start),
		Nodes:    s.model.NodeCount(),
		Edges:    s.model.EdgeCount(),
	}
	for _, o := range s.observers {
		o.Rendered(stats)
	}
}
