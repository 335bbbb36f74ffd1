// Package render draws a scene onto a canvas. Every pass redraws the whole
// scene: clear, then edges, then nodes, each in insertion order.
package render

import (
	"math"

	"github.com/ritzau/diagram-canvas/pkg/canvas"
	"github.com/ritzau/diagram-canvas/pkg/geometry"
	"github.com/ritzau/diagram-canvas/pkg/scene"
)

// Selection names the currently selected entities by id. At most one of
// the fields is set.
type Selection struct {
	NodeID string
	EdgeID string
}

// Renderer draws scenes with a fixed theme.
type Renderer struct {
	theme Theme
}

// New creates a renderer.
func New(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Theme returns the active theme.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// SetTheme replaces the theme used by later passes.
func (r *Renderer) SetTheme(theme Theme) {
	r.theme = theme
}

// Render performs one full draw pass.
func (r *Renderer) Render(c canvas.Canvas, m *scene.Model, sel Selection) {
	c.Clear()

	for _, e := range m.Edges() {
		from, to, ok := m.Resolve(e)
		if !ok {
			continue
		}
		r.drawEdge(c, e, from.Center(), to.Center(), e.ID == sel.EdgeID)
	}

	for _, n := range m.Nodes() {
		r.drawNode(c, n, n.ID == sel.NodeID)
	}
}

func (r *Renderer) drawEdge(c canvas.Canvas, e scene.Edge, start, end geometry.Point, selected bool) {
	width := e.Width
	if selected {
		width += r.theme.HighlightDelta
	}

	c.SetStrokeColor(e.Color)
	c.SetLineWidth(width)
	c.BeginPath()
	c.MoveTo(start.X, start.Y)
	c.LineTo(end.X, end.Y)
	c.Stroke()

	tri := geometry.Arrowhead(start, end, r.theme.ArrowOffset, r.theme.ArrowSize, ArrowHalfAngle)
	c.BeginPath()
	c.MoveTo(tri[0].X, tri[0].Y)
	c.LineTo(tri[1].X, tri[1].Y)
	c.LineTo(tri[2].X, tri[2].Y)
	c.ClosePath()
	c.SetFillColor(e.Color)
	c.Fill()

	if e.Label != "" {
		mid := geometry.Midpoint(start, end)
		c.SetFillColor(r.theme.LabelColor)
		c.SetFont(r.theme.Font)
		c.SetTextAlign(canvas.AlignLeft)
		c.SetTextBaseline(canvas.BaselineAlphabetic)
		c.FillText(e.Label, mid.X, mid.Y)
	}
}

// EffectiveShape is the shape a node is drawn with. Selection always
// shows as a star.
func EffectiveShape(n scene.Node, selected bool) scene.Shape {
	if selected {
		return scene.ShapeStar
	}
	if n.Shape == "" {
		return scene.ShapeSquare
	}
	return n.Shape
}

func (r *Renderer) drawNode(c canvas.Canvas, n scene.Node, selected bool) {
	fill := n.Color
	if selected {
		fill = r.theme.HighlightColor
	}
	c.SetFillColor(fill)

	center := n.Center()
	stroked := n.BorderWidth > 0
	if stroked {
		c.SetStrokeColor(n.BorderColor)
		c.SetLineWidth(n.BorderWidth)
	}

	switch EffectiveShape(n, selected) {
	case scene.ShapeCircle:
		c.BeginPath()
		c.Arc(center.X, center.Y, n.Size/2, 0, 2*math.Pi)
		c.Fill()
		if stroked {
			c.Stroke()
		}
	case scene.ShapeStar:
		outer := n.Size / 2
		pts := geometry.Star(center, r.theme.StarSpikes, outer, outer/2)
		c.BeginPath()
		c.MoveTo(pts[0].X, pts[0].Y)
		for _, p := range pts[1:] {
			c.LineTo(p.X, p.Y)
		}
		c.ClosePath()
		c.Fill()
		if stroked {
			c.Stroke()
		}
	default:
		c.FillRect(n.X, n.Y, n.Size, n.Size)
		if stroked {
			c.StrokeRect(n.X, n.Y, n.Size, n.Size)
		}
	}

	if n.Label != "" {
		labelColor := n.LabelColor
		if labelColor == "" {
			labelColor = r.theme.LabelColor
		}
		c.SetFillColor(labelColor)
		c.SetFont(r.theme.Font)
		c.SetTextAlign(canvas.AlignCenter)
		c.SetTextBaseline(canvas.BaselineMiddle)
		c.FillText(n.Label, center.X, center.Y)
	}
}
