// Package viewport implements the pan/zoom transform applied to the whole
// scene at presentation time. Stored node coordinates are never touched.
package viewport

import "github.com/ritzau/diagram-canvas/pkg/geometry"

// ZoomFactor is the multiplier used by ZoomIn and ZoomOut.
const ZoomFactor = 1.1

// Viewport maps model space to screen space as
// screen = translate + scale*model. Scale and translate are unbounded.
type Viewport struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
}

// New returns the identity viewport.
func New() Viewport {
	return Viewport{Scale: 1}
}

// ZoomIn multiplies the scale by ZoomFactor.
func (v *Viewport) ZoomIn() {
	v.Scale *= ZoomFactor
}

// ZoomOut divides the scale by ZoomFactor.
func (v *Viewport) ZoomOut() {
	v.Scale /= ZoomFactor
}

// Pan shifts the translation. The offset is in screen units and is not
// compensated for the current scale.
func (v *Viewport) Pan(dx, dy float64) {
	v.TranslateX += dx
	v.TranslateY += dy
}

// Identity reports whether the viewport leaves coordinates unchanged.
func (v Viewport) Identity() bool {
	return v.Scale == 1 && v.TranslateX == 0 && v.TranslateY == 0
}

// ToScreen maps a model-space point to screen space.
func (v Viewport) ToScreen(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: v.TranslateX + v.Scale*p.X,
		Y: v.TranslateY + v.Scale*p.Y,
	}
}

// ToModel maps a screen-space point back to model space. A zero scale has
// no inverse and returns p unchanged.
func (v Viewport) ToModel(p geometry.Point) geometry.Point {
	if v.Scale == 0 {
		return p
	}
	return geometry.Point{
		X: (p.X - v.TranslateX) / v.Scale,
		Y: (p.Y - v.TranslateY) / v.Scale,
	}
}
