package render

import "math"

// Theme holds the fixed drawing constants.
type Theme struct {
	// HighlightColor fills the selected node.
	HighlightColor string `koanf:"highlight_color" json:"highlightColor" validate:"required"`
	// HighlightDelta is added to the stroke width of the selected edge.
	HighlightDelta float64 `koanf:"highlight_delta" json:"highlightDelta" validate:"gte=0"`
	// ArrowSize is the length of the arrowhead barbs.
	ArrowSize float64 `koanf:"arrow_size" json:"arrowSize" validate:"gte=0"`
	// ArrowOffset pulls the arrow tip back from the destination center.
	ArrowOffset float64 `koanf:"arrow_offset" json:"arrowOffset" validate:"gte=0"`
	Font        string  `koanf:"font" json:"font" validate:"required"`
	// LabelColor is used for edge labels and for node labels without their
	// own color.
	LabelColor string `koanf:"label_color" json:"labelColor" validate:"required"`
	StarSpikes int    `koanf:"star_spikes" json:"starSpikes" validate:"gte=2,lte=64"`
	// Background is what hosts paint behind a cleared surface. The render
	// pass itself only clears.
	Background string `koanf:"background" json:"background"`
}

// ArrowHalfAngle is the spread of each barb from the edge line.
const ArrowHalfAngle = math.Pi / 6

// DefaultTheme returns the stock look: yellow selection, +2 edge
// highlight, 12px labels in black, five-point stars.
func DefaultTheme() Theme {
	return Theme{
		HighlightColor: "yellow",
		HighlightDelta: 2,
		ArrowSize:      10,
		ArrowOffset:    10,
		Font:           "12px Arial",
		LabelColor:     "black",
		StarSpikes:     5,
		Background:     "white",
	}
}
