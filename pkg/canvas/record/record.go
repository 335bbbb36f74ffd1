// Package record provides a Canvas that keeps the drawing calls of the
// current frame as data. Frames can be inspected, sent to a browser for
// replay, or replayed onto another Canvas.
package record

import (
	"github.com/ritzau/diagram-canvas/pkg/canvas"
)

// Op names a drawing call.
type Op string

const (
	OpClear        Op = "clear"
	OpFillStyle    Op = "fillStyle"
	OpStrokeStyle  Op = "strokeStyle"
	OpLineWidth    Op = "lineWidth"
	OpFont         Op = "font"
	OpTextAlign    Op = "textAlign"
	OpTextBaseline Op = "textBaseline"
	OpBeginPath    Op = "beginPath"
	OpMoveTo       Op = "moveTo"
	OpLineTo       Op = "lineTo"
	OpArc          Op = "arc"
	OpClosePath    Op = "closePath"
	OpFill         Op = "fill"
	OpStroke       Op = "stroke"
	OpFillRect     Op = "fillRect"
	OpStrokeRect   Op = "strokeRect"
	OpFillText     Op = "fillText"
)

// Command is one recorded drawing call. Style ops carry their value in
// Text; geometric ops carry coordinates in Args.
type Command struct {
	Op   Op        `json:"op"`
	Args []float64 `json:"args,omitempty"`
	Text string    `json:"text,omitempty"`
}

// Frame is everything needed to reproduce the surface.
type Frame struct {
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Transform canvas.Transform `json:"transform"`
	Commands  []Command        `json:"commands"`
}

// Recorder is an in-memory Canvas. Clear starts a new frame.
type Recorder struct {
	width     int
	height    int
	transform canvas.Transform
	commands  []Command
}

// New creates a recorder of the given size.
func New(width, height int) *Recorder {
	return &Recorder{
		width:     width,
		height:    height,
		transform: canvas.IdentityTransform,
		commands:  make([]Command, 0, 64),
	}
}

// Frame returns a copy of the current frame.
func (r *Recorder) Frame() Frame {
	cmds := make([]Command, len(r.commands))
	copy(cmds, r.commands)
	return Frame{
		Width:     r.width,
		Height:    r.height,
		Transform: r.transform,
		Commands:  cmds,
	}
}

// Commands returns the calls recorded since the last Clear.
func (r *Recorder) Commands() []Command {
	return r.Frame().Commands
}

func (r *Recorder) add(op Op, args ...float64) {
	r.commands = append(r.commands, Command{Op: op, Args: args})
}

func (r *Recorder) addText(op Op, text string, args ...float64) {
	r.commands = append(r.commands, Command{Op: op, Text: text, Args: args})
}

func (r *Recorder) Size() (int, int) { return r.width, r.height }

func (r *Recorder) Resize(width, height int) {
	r.width, r.height = width, height
}

func (r *Recorder) SetViewTransform(t canvas.Transform) { r.transform = t }

// Clear drops the previous frame's commands.
func (r *Recorder) Clear() {
	r.commands = r.commands[:0]
	r.add(OpClear, 0, 0, float64(r.width), float64(r.height))
}

func (r *Recorder) SetFillColor(c string)   { r.addText(OpFillStyle, c) }
func (r *Recorder) SetStrokeColor(c string) { r.addText(OpStrokeStyle, c) }
func (r *Recorder) SetLineWidth(w float64)  { r.add(OpLineWidth, w) }
func (r *Recorder) SetFont(f string)        { r.addText(OpFont, f) }

func (r *Recorder) SetTextAlign(a canvas.TextAlign) { r.addText(OpTextAlign, string(a)) }

func (r *Recorder) SetTextBaseline(b canvas.TextBaseline) { r.addText(OpTextBaseline, string(b)) }

func (r *Recorder) BeginPath()          { r.add(OpBeginPath) }
func (r *Recorder) MoveTo(x, y float64) { r.add(OpMoveTo, x, y) }
func (r *Recorder) LineTo(x, y float64) { r.add(OpLineTo, x, y) }

func (r *Recorder) Arc(x, y, radius, start, end float64) {
	r.add(OpArc, x, y, radius, start, end)
}

func (r *Recorder) ClosePath() { r.add(OpClosePath) }
func (r *Recorder) Fill()      { r.add(OpFill) }
func (r *Recorder) Stroke()    { r.add(OpStroke) }

func (r *Recorder) FillRect(x, y, w, h float64)   { r.add(OpFillRect, x, y, w, h) }
func (r *Recorder) StrokeRect(x, y, w, h float64) { r.add(OpStrokeRect, x, y, w, h) }

func (r *Recorder) FillText(text string, x, y float64) { r.addText(OpFillText, text, x, y) }

// Replay issues the frame's commands onto dst, resizing it and passing
// the presentation transform along. Commands with too few arguments are
// skipped.
func Replay(f Frame, dst canvas.Canvas) {
	if w, h := dst.Size(); w != f.Width || h != f.Height {
		dst.Resize(f.Width, f.Height)
	}
	dst.SetViewTransform(f.Transform)

	for _, c := range f.Commands {
		a := c.Args
		switch c.Op {
		case OpClear:
			dst.Clear()
		case OpFillStyle:
			dst.SetFillColor(c.Text)
		case OpStrokeStyle:
			dst.SetStrokeColor(c.Text)
		case OpLineWidth:
			if len(a) >= 1 {
				dst.SetLineWidth(a[0])
			}
		case OpFont:
			dst.SetFont(c.Text)
		case OpTextAlign:
			dst.SetTextAlign(canvas.TextAlign(c.Text))
		case OpTextBaseline:
			dst.SetTextBaseline(canvas.TextBaseline(c.Text))
		case OpBeginPath:
			dst.BeginPath()
		case OpMoveTo:
			if len(a) >= 2 {
				dst.MoveTo(a[0], a[1])
			}
		case OpLineTo:
			if len(a) >= 2 {
				dst.LineTo(a[0], a[1])
			}
		case OpArc:
			if len(a) >= 5 {
				dst.Arc(a[0], a[1], a[2], a[3], a[4])
			}
		case OpClosePath:
			dst.ClosePath()
		case OpFill:
			dst.Fill()
		case OpStroke:
			dst.Stroke()
		case OpFillRect:
			if len(a) >= 4 {
				dst.FillRect(a[0], a[1], a[2], a[3])
			}
		case OpStrokeRect:
			if len(a) >= 4 {
				dst.StrokeRect(a[0], a[1], a[2], a[3])
			}
		case OpFillText:
			if len(a) >= 2 {
				dst.FillText(c.Text, a[0], a[1])
			}
		}
	}
}
