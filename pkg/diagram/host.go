package diagram

import (
	"time"

	"github.com/ritzau/diagram-canvas/pkg/canvas"
	"github.com/ritzau/diagram-canvas/pkg/interaction"
	"github.com/ritzau/diagram-canvas/pkg/viewport"
)

// Host provides the drawing context a surface renders onto.
type Host interface {
	// Context returns a canvas of the given size, or nil/error if none is
	// available.
	Context(width, height int) (canvas.Canvas, error)
}

// PointerSource is implemented by hosts that deliver pointer events. The
// surface registers its handler once, at construction.
type PointerSource interface {
	SubscribePointer(handler func(interaction.PointerEvent))
}

// HostFunc adapts a function to the Host interface.
type HostFunc func(width, height int) (canvas.Canvas, error)

func (f HostFunc) Context(width, height int) (canvas.Canvas, error) {
	return f(width, height)
}

// CanvasHost is a Host that always hands out the same canvas, resized to
// the requested dimensions.
type CanvasHost struct {
	Canvas canvas.Canvas
}

func (h CanvasHost) Context(width, height int) (canvas.Canvas, error) {
	if h.Canvas == nil {
		return nil, nil
	}
	h.Canvas.Resize(width, height)
	return h.Canvas, nil
}

// RenderStats describes one completed render pass.
type RenderStats struct {
	Seq      uint64
	Duration time.Duration
	Nodes    int
	Edges    int
}

// Observer receives notifications after the surface changes. Callbacks run
// synchronously on the caller's goroutine, after the change is complete.
type Observer interface {
	Rendered(stats RenderStats)
	Pointer(kind interaction.PointerKind, state interaction.State)
	ViewportChanged(v viewport.Viewport)
}
