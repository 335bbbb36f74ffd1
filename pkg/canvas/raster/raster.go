// Package raster is a Canvas backed by an in-memory RGBA image, drawn with
// fogleman/gg. The presentation transform is part of the gg matrix, so
// commands drawn after SetViewTransform land where the page would show them.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ritzau/diagram-canvas/pkg/canvas"
)

const defaultFontSize = 12

// Option configures a Canvas.
type Option func(*Canvas)

// WithBackground sets the color Clear paints with. Defaults to transparent.
func WithBackground(c color.Color) Option {
	return func(cv *Canvas) { cv.background = c }
}

// Canvas implements canvas.Canvas on top of a gg.Context.
type Canvas struct {
	dc         *gg.Context
	width      int
	height     int
	transform  canvas.Transform
	background color.Color
	lineWidth  float64

	fill     color.Color
	stroke   color.Color
	align    canvas.TextAlign
	baseline canvas.TextBaseline

	font     *truetype.Font
	fontSize float64
	faces    map[float64]font.Face
}

// New creates a raster canvas. It fails only if the bundled font cannot be
// parsed.
func New(width, height int, opts ...Option) (*Canvas, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	c := &Canvas{
		width:      width,
		height:     height,
		transform:  canvas.IdentityTransform,
		background: color.Transparent,
		lineWidth:  1,
		fill:       color.Black,
		stroke:     color.Black,
		align:      canvas.AlignLeft,
		baseline:   canvas.BaselineAlphabetic,
		font:       f,
		fontSize:   defaultFontSize,
		faces:      make(map[float64]font.Face),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.reset()
	return c, nil
}

func (c *Canvas) reset() {
	c.dc = gg.NewContext(max(c.width, 1), max(c.height, 1))
	c.dc.SetFontFace(c.face(c.fontSize))
	c.applyTransform()
}

// applyTransform loads the presentation transform into the gg matrix.
// Line widths are scaled by hand because gg strokes in device pixels.
func (c *Canvas) applyTransform() {
	t := c.transform
	c.dc.Identity()
	c.dc.Translate(t.TranslateX, t.TranslateY)
	c.dc.Scale(t.Scale, t.Scale)
	c.dc.SetLineWidth(c.lineWidth * t.Scale)
}

func (c *Canvas) face(size float64) font.Face {
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(c.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	c.faces[size] = f
	return f
}

func (c *Canvas) Size() (int, int) { return c.width, c.height }

// Resize discards the current image, like resizing an HTML canvas.
func (c *Canvas) Resize(width, height int) {
	c.width, c.height = width, height
	c.reset()
}

// SetViewTransform affects commands drawn after it. Pixels already on the
// image stay where they are.
func (c *Canvas) SetViewTransform(t canvas.Transform) {
	c.transform = t
	c.applyTransform()
}

// Clear paints the whole image, not only the transformed model area.
func (c *Canvas) Clear() {
	c.dc.ClearPath()
	c.dc.SetColor(c.background)
	c.dc.Clear()
}

func (c *Canvas) SetFillColor(s string) {
	c.fill = canvas.ColorOr(s, color.RGBA{A: 0xff})
}

func (c *Canvas) SetStrokeColor(s string) {
	c.stroke = canvas.ColorOr(s, color.RGBA{A: 0xff})
}

func (c *Canvas) SetLineWidth(w float64) {
	c.lineWidth = w
	c.dc.SetLineWidth(w * c.transform.Scale)
}

func (c *Canvas) SetFont(f string) {
	c.fontSize = canvas.FontSize(f, defaultFontSize)
	c.dc.SetFontFace(c.face(c.fontSize))
}

func (c *Canvas) SetTextAlign(a canvas.TextAlign)       { c.align = a }
func (c *Canvas) SetTextBaseline(b canvas.TextBaseline) { c.baseline = b }

func (c *Canvas) BeginPath()          { c.dc.ClearPath() }
func (c *Canvas) MoveTo(x, y float64) { c.dc.MoveTo(x, y) }
func (c *Canvas) LineTo(x, y float64) { c.dc.LineTo(x, y) }

func (c *Canvas) Arc(x, y, r, start, end float64) {
	c.dc.DrawArc(x, y, r, start, end)
}

func (c *Canvas) ClosePath() { c.dc.ClosePath() }

// Fill and Stroke keep the current path so both can follow one BeginPath.
func (c *Canvas) Fill() {
	c.dc.SetColor(c.fill)
	c.dc.FillPreserve()
}

func (c *Canvas) Stroke() {
	c.dc.SetColor(c.stroke)
	c.dc.StrokePreserve()
}

// FillRect and StrokeRect clear the current path.
func (c *Canvas) FillRect(x, y, w, h float64) {
	c.dc.ClearPath()
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.SetColor(c.fill)
	c.dc.Fill()
}

func (c *Canvas) StrokeRect(x, y, w, h float64) {
	c.dc.ClearPath()
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.SetColor(c.stroke)
	c.dc.Stroke()
}

func (c *Canvas) FillText(text string, x, y float64) {
	ax, ay := 0.0, 0.0
	if c.align == canvas.AlignCenter {
		ax = 0.5
	}
	if c.baseline == canvas.BaselineMiddle {
		ay = 0.5
	}
	c.dc.SetColor(c.fill)
	c.dc.DrawStringAnchored(text, x, y, ax, ay)
}

// Image returns the surface as drawn.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the presented surface as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, c.Image()); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
