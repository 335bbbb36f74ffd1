// Package vector is a Canvas that produces SVG through ajstarks/svgo. The
// drawing of the current frame is buffered; Encode wraps it in a group
// carrying the presentation transform.
package vector

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/ritzau/diagram-canvas/pkg/canvas"
)

const defaultFontSize = 12

// Canvas implements canvas.Canvas by emitting SVG elements.
type Canvas struct {
	width     int
	height    int
	transform canvas.Transform

	body *bytes.Buffer
	svg  *svg.SVG

	fill      string
	stroke    string
	lineWidth float64
	fontSize  float64
	align     canvas.TextAlign
	baseline  canvas.TextBaseline

	path     strings.Builder
	hasPoint bool
}

// New creates an SVG canvas of the given size.
func New(width, height int) *Canvas {
	body := &bytes.Buffer{}
	return &Canvas{
		width:     width,
		height:    height,
		transform: canvas.IdentityTransform,
		body:      body,
		svg:       svg.New(body),
		fill:      "rgb(0,0,0)",
		stroke:    "rgb(0,0,0)",
		lineWidth: 1,
		fontSize:  defaultFontSize,
		align:     canvas.AlignLeft,
		baseline:  canvas.BaselineAlphabetic,
	}
}

func cssColor(s string) string {
	c := canvas.ColorOr(s, color.RGBA{A: 0xff})
	if c.A == 0 {
		return "none"
	}
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func (c *Canvas) Size() (int, int) { return c.width, c.height }

func (c *Canvas) Resize(width, height int) {
	c.width, c.height = width, height
	c.body.Reset()
}

func (c *Canvas) SetViewTransform(t canvas.Transform) { c.transform = t }

func (c *Canvas) Clear() {
	c.body.Reset()
	c.BeginPath()
}

func (c *Canvas) SetFillColor(s string)   { c.fill = cssColor(s) }
func (c *Canvas) SetStrokeColor(s string) { c.stroke = cssColor(s) }
func (c *Canvas) SetLineWidth(w float64)  { c.lineWidth = w }

func (c *Canvas) SetFont(f string) {
	c.fontSize = canvas.FontSize(f, defaultFontSize)
}

func (c *Canvas) SetTextAlign(a canvas.TextAlign)       { c.align = a }
func (c *Canvas) SetTextBaseline(b canvas.TextBaseline) { c.baseline = b }

func (c *Canvas) BeginPath() {
	c.path.Reset()
	c.hasPoint = false
}

func (c *Canvas) MoveTo(x, y float64) {
	fmt.Fprintf(&c.path, "M%s %s ", num(x), num(y))
	c.hasPoint = true
}

func (c *Canvas) LineTo(x, y float64) {
	if !c.hasPoint {
		c.MoveTo(x, y)
		return
	}
	fmt.Fprintf(&c.path, "L%s %s ", num(x), num(y))
}

// Arc appends a clockwise arc, joined to the current point by a line.
// Sweeps of a full turn or more are split in two halves since a single SVG
// arc cannot close on itself.
func (c *Canvas) Arc(x, y, r, start, end float64) {
	sweep := end - start
	if sweep >= 2*math.Pi {
		c.Arc(x, y, r, start, start+math.Pi)
		c.arcTo(x, y, r, start+math.Pi, start+2*math.Pi)
		return
	}

	sx, sy := x+r*math.Cos(start), y+r*math.Sin(start)
	if c.hasPoint {
		c.LineTo(sx, sy)
	} else {
		c.MoveTo(sx, sy)
	}
	c.arcTo(x, y, r, start, end)
}

func (c *Canvas) arcTo(x, y, r, start, end float64) {
	ex, ey := x+r*math.Cos(end), y+r*math.Sin(end)
	large := 0
	if end-start > math.Pi {
		large = 1
	}
	fmt.Fprintf(&c.path, "A%s %s 0 %d 1 %s %s ", num(r), num(r), large, num(ex), num(ey))
}

func (c *Canvas) ClosePath() {
	if c.hasPoint {
		c.path.WriteString("Z ")
	}
}

func (c *Canvas) Fill() {
	if c.path.Len() == 0 {
		return
	}
	c.svg.Path(strings.TrimSpace(c.path.String()), "fill:"+c.fill+";stroke:none")
}

func (c *Canvas) Stroke() {
	if c.path.Len() == 0 {
		return
	}
	c.svg.Path(strings.TrimSpace(c.path.String()),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s", c.stroke, num(c.lineWidth)))
}

func rectPath(x, y, w, h float64) string {
	return fmt.Sprintf("M%s %s H%s V%s H%s Z", num(x), num(y), num(x+w), num(y+h), num(x))
}

func (c *Canvas) FillRect(x, y, w, h float64) {
	c.svg.Path(rectPath(x, y, w, h), "fill:"+c.fill+";stroke:none")
}

func (c *Canvas) StrokeRect(x, y, w, h float64) {
	c.svg.Path(rectPath(x, y, w, h),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s", c.stroke, num(c.lineWidth)))
}

func (c *Canvas) FillText(text string, x, y float64) {
	anchor := "start"
	if c.align == canvas.AlignCenter {
		anchor = "middle"
	}
	baseline := "alphabetic"
	if c.baseline == canvas.BaselineMiddle {
		baseline = "middle"
	}
	c.svg.Text(int(math.Round(x)), int(math.Round(y)), text,
		fmt.Sprintf("fill:%s;font-size:%spx;font-family:sans-serif;text-anchor:%s;dominant-baseline:%s",
			c.fill, num(c.fontSize), anchor, baseline))
}

// Encode writes a complete SVG document for the current frame.
func (c *Canvas) Encode(w io.Writer) error {
	doc := svg.New(w)
	doc.Start(c.width, c.height)

	t := c.transform
	doc.Gtransform(fmt.Sprintf("translate(%s,%s) scale(%s)", num(t.TranslateX), num(t.TranslateY), num(t.Scale)))
	if _, err := doc.Writer.Write(c.body.Bytes()); err != nil {
		return fmt.Errorf("failed to write svg body: %w", err)
	}
	doc.Gend()
	doc.End()
	return nil
}
