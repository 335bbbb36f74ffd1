package web

import (
	"github.com/ritzau/diagram-canvas/pkg/canvas"
	"github.com/ritzau/diagram-canvas/pkg/canvas/record"
	"github.com/ritzau/diagram-canvas/pkg/diagram"
	"github.com/ritzau/diagram-canvas/pkg/interaction"
	"github.com/ritzau/diagram-canvas/pkg/lens"
	"github.com/ritzau/diagram-canvas/pkg/logging"
	"github.com/ritzau/diagram-canvas/pkg/pubsub"
	"github.com/ritzau/diagram-canvas/pkg/scene"
	"github.com/ritzau/diagram-canvas/pkg/viewport"
)

// browserHost is the surface's host when the drawing happens in a browser.
// The surface draws into a recorder whose frames are pushed to the page,
// and pointer events posted by the page are fed back through the handler
// the surface subscribed.
type browserHost struct {
	recorder *record.Recorder
	pointer  func(interaction.PointerEvent)
}

func (h *browserHost) Context(width, height int) (canvas.Canvas, error) {
	h.recorder.Resize(width, height)
	return h.recorder, nil
}

func (h *browserHost) SubscribePointer(handler func(interaction.PointerEvent)) {
	h.pointer = handler
}

// deliver forwards a pointer event to the surface. It reports false if the
// surface never subscribed.
func (h *browserHost) deliver(ev interaction.PointerEvent) bool {
	if h.pointer == nil {
		return false
	}
	h.pointer(ev)
	return true
}

// publishingObserver pushes surface changes to SSE subscribers. It runs
// with the server lock held.
type publishingObserver struct {
	recorder  *record.Recorder
	publisher pubsub.Publisher

	// model is nil until the surface exists.
	model    *scene.Model
	snapshot *lens.Snapshot
}

// attach starts diffing against m from its current state.
func (o *publishingObserver) attach(m *scene.Model) {
	o.model = m
	o.snapshot = lens.CreateSnapshot(m)
}

func (o *publishingObserver) Rendered(stats diagram.RenderStats) {
	o.publish(pubsub.TopicFrame, "rendered", o.recorder.Frame())

	if o.model == nil {
		return
	}
	if diff := lens.ComputeDiff(o.snapshot, o.model); !diff.Empty() {
		o.snapshot = lens.CreateSnapshot(o.model)
		o.publish(pubsub.TopicScene, "diff", diff)
	}
}

func (o *publishingObserver) Pointer(kind interaction.PointerKind, state interaction.State) {
	o.publish(pubsub.TopicSelection, string(kind), selectionData(state))
}

func (o *publishingObserver) ViewportChanged(v viewport.Viewport) {
	o.publish(pubsub.TopicViewport, "changed", v)
	// The recorded frame carries the transform, so pages that only follow
	// frames still see pan and zoom.
	o.publish(pubsub.TopicFrame, "transformed", o.recorder.Frame())
}

func (o *publishingObserver) publish(topic, eventType string, data any) {
	if err := o.publisher.Publish(topic, eventType, data); err != nil {
		logging.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

func selectionData(state interaction.State) pubsub.SelectionData {
	data := pubsub.SelectionData{State: state.Name()}
	if id, ok := interaction.SelectedNode(state); ok {
		data.NodeID = id
	}
	if id, ok := interaction.SelectedEdge(state); ok {
		data.EdgeID = id
	}
	return data
}
