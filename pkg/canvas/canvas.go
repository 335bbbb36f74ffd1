// Package canvas defines the drawing context the diagram renders onto. It
// mirrors a 2D canvas API: stateful fill/stroke styles, paths, rectangles,
// arcs and text. Backends live in the record, raster and vector
// subpackages.
package canvas

// TextAlign controls horizontal text placement relative to the anchor.
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
)

// TextBaseline controls vertical text placement relative to the anchor.
type TextBaseline string

const (
	BaselineAlphabetic TextBaseline = "alphabetic"
	BaselineMiddle     TextBaseline = "middle"
)

// Transform is a presentation-level scale followed by a translation. It is
// applied by the backend when the surface is shown, not to drawing calls.
type Transform struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
}

// IdentityTransform leaves the surface untouched.
var IdentityTransform = Transform{Scale: 1}

// Canvas is a 2D drawing context.
type Canvas interface {
	Size() (width, height int)
	Resize(width, height int)
	SetViewTransform(t Transform)

	Clear()
	SetFillColor(color string)
	SetStrokeColor(color string)
	SetLineWidth(width float64)
	SetFont(font string)
	SetTextAlign(align TextAlign)
	SetTextBaseline(baseline TextBaseline)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(x, y, radius, startAngle, endAngle float64)
	ClosePath()
	Fill()
	Stroke()

	FillRect(x, y, width, height float64)
	StrokeRect(x, y, width, height float64)
	FillText(text string, x, y float64)
}
