package web

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/diagram-canvas/pkg/analysis"
	"github.com/ritzau/diagram-canvas/pkg/canvas/record"
	"github.com/ritzau/diagram-canvas/pkg/diagram"
	"github.com/ritzau/diagram-canvas/pkg/pubsub"
	"github.com/ritzau/diagram-canvas/pkg/render"
	"github.com/ritzau/diagram-canvas/pkg/viewport"
)

func newTestServer(t *testing.T, mutate ...func(*Options)) *Server {
	t.Helper()
	opts := Options{Width: 200, Height: 150, Theme: render.DefaultTheme()}
	for _, m := range mutate {
		m(&opts)
	}
	s, err := NewServer(opts)
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestSceneCRUD(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, "POST", "/api/nodes", `{"x":10,"y":10,"size":40,"color":"red"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "node-1", decode[CreatedResponse](t, rec).ID)

	rec = do(t, s, "POST", "/api/nodes", `{"id":"b","x":100,"y":10,"size":40}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "b", decode[CreatedResponse](t, rec).ID)

	rec = do(t, s, "POST", "/api/edges", `{"from":"node-1","to":"b","label":"next"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "edge-1", decode[CreatedResponse](t, rec).ID)

	rec = do(t, s, "PATCH", "/api/nodes/b", `{"color":"blue","shape":"circle"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	node := decode[diagram.NodeView](t, rec)
	assert.Equal(t, "blue", node.Color)
	assert.EqualValues(t, "circle", node.Shape)

	rec = do(t, s, "PATCH", "/api/edges/node-1/b", `{"width":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3.0, decode[diagram.EdgeView](t, rec).Width)

	scene := decode[SceneResponse](t, do(t, s, "GET", "/api/scene", ""))
	assert.Equal(t, 200, scene.Width)
	assert.Len(t, scene.Nodes, 2)
	assert.Len(t, scene.Edges, 1)
	assert.Equal(t, "idle", scene.Selection.State)
	// Initial render plus five mutations.
	assert.EqualValues(t, 6, scene.Renders)

	rec = do(t, s, "DELETE", "/api/nodes/b", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	scene = decode[SceneResponse](t, do(t, s, "GET", "/api/scene", ""))
	assert.Len(t, scene.Nodes, 1)
	assert.Empty(t, scene.Edges, "edges touching a removed node go with it")
}

func TestSceneErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed json", "POST", "/api/nodes", `{`, http.StatusBadRequest},
		{"negative size", "POST", "/api/nodes", `{"size":-1}`, http.StatusBadRequest},
		{"unknown shape", "POST", "/api/nodes", `{"shape":"hexagon"}`, http.StatusBadRequest},
		{"edge without from", "POST", "/api/edges", `{"to":"a"}`, http.StatusBadRequest},
		{"patch missing node", "PATCH", "/api/nodes/nope", `{"color":"red"}`, http.StatusNotFound},
		{"delete missing node", "DELETE", "/api/nodes/nope", "", http.StatusNotFound},
		{"patch missing edge", "PATCH", "/api/edges/a/b", `{"width":1}`, http.StatusNotFound},
		{"delete missing edge", "DELETE", "/api/edges/a/b", "", http.StatusNotFound},
		{"bad pointer kind", "POST", "/api/pointer", `{"type":"hover","x":1,"y":1}`, http.StatusBadRequest},
		{"unknown viewport action", "POST", "/api/viewport/rotate", "", http.StatusNotFound},
		{"zero resize", "POST", "/api/resize", `{"width":0,"height":10}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestEdgeLabelSelectionOverHTTP(t *testing.T) {
	s := newTestServer(t)
	do(t, s, "POST", "/api/nodes", `{"x":0,"y":0,"size":20}`)
	do(t, s, "POST", "/api/nodes", `{"x":100,"y":100,"size":20}`)
	do(t, s, "POST", "/api/edges", `{"from":"node-1","to":"node-2","label":"link"}`)

	rec := do(t, s, "POST", "/api/pointer", `{"type":"down","x":61,"y":60}`)
	require.Equal(t, http.StatusOK, rec.Code)
	sel := decode[pubsub.SelectionData](t, rec)
	assert.Equal(t, "edge_selected", sel.State)
	assert.Equal(t, "edge-1", sel.EdgeID)
}

func TestDragOverHTTP(t *testing.T) {
	s := newTestServer(t)
	do(t, s, "POST", "/api/nodes", `{"x":10,"y":10,"size":20}`)

	sel := decode[pubsub.SelectionData](t, do(t, s, "POST", "/api/pointer", `{"type":"down","x":15,"y":15}`))
	assert.Equal(t, "dragging", sel.State)
	assert.Equal(t, "node-1", sel.NodeID)

	do(t, s, "POST", "/api/pointer", `{"type":"move","x":55,"y":35}`)
	sel = decode[pubsub.SelectionData](t, do(t, s, "POST", "/api/pointer", `{"type":"up","x":55,"y":35}`))
	assert.Equal(t, "node_selected", sel.State)

	scene := decode[SceneResponse](t, do(t, s, "GET", "/api/scene", ""))
	require.Len(t, scene.Nodes, 1)
	assert.Equal(t, 50.0, scene.Nodes[0].X)
	assert.Equal(t, 30.0, scene.Nodes[0].Y)
	assert.True(t, scene.Nodes[0].Selected)
}

func TestPointerRateLimit(t *testing.T) {
	s := newTestServer(t, func(o *Options) {
		o.PointerRate = 0.001
		o.PointerBurst = 1
	})

	rec := do(t, s, "POST", "/api/pointer", `{"type":"down","x":1,"y":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, "POST", "/api/pointer", `{"type":"move","x":2,"y":2}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	metrics := do(t, s, "GET", "/metrics", "").Body.String()
	assert.Contains(t, metrics, "diagram_http_rate_limited_total 1")
}

func TestPointerReleaseBypassesRateLimit(t *testing.T) {
	s := newTestServer(t, func(o *Options) {
		o.PointerRate = 0.001
		o.PointerBurst = 1
	})
	do(t, s, "POST", "/api/nodes", `{"id":"a","x":10,"y":10,"size":40}`)

	rec := do(t, s, "POST", "/api/pointer", `{"type":"down","x":20,"y":20}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dragging", decode[pubsub.SelectionData](t, rec).State)

	rec = do(t, s, "POST", "/api/pointer", `{"type":"move","x":30,"y":30}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = do(t, s, "POST", "/api/pointer", `{"type":"up","x":30,"y":30}`)
	require.Equal(t, http.StatusOK, rec.Code)
	sel := decode[pubsub.SelectionData](t, rec)
	assert.Equal(t, "node_selected", sel.State)
	assert.Equal(t, "a", sel.NodeID)

	rec = do(t, s, "POST", "/api/pointer", `{"type":"down","x":20,"y":20}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	rec = do(t, s, "POST", "/api/pointer", `{"type":"cancel","x":20,"y":20}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestViewportDoesNotRender(t *testing.T) {
	s := newTestServer(t)
	do(t, s, "POST", "/api/nodes", `{"size":20}`)
	before := decode[SceneResponse](t, do(t, s, "GET", "/api/scene", "")).Renders

	rec := do(t, s, "POST", "/api/viewport/zoom-in", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, viewport.ZoomFactor, decode[viewport.Viewport](t, rec).Scale, 1e-9)

	rec = do(t, s, "POST", "/api/viewport/pan", `{"dx":5,"dy":-3}`)
	v := decode[viewport.Viewport](t, rec)
	assert.Equal(t, 5.0, v.TranslateX)
	assert.Equal(t, -3.0, v.TranslateY)

	after := decode[SceneResponse](t, do(t, s, "GET", "/api/scene", "")).Renders
	assert.Equal(t, before, after)

	frame := decode[record.Frame](t, do(t, s, "GET", "/api/frame", ""))
	assert.InDelta(t, viewport.ZoomFactor, frame.Transform.Scale, 1e-9)
	assert.Equal(t, 5.0, frame.Transform.TranslateX)
}

func TestResize(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, "POST", "/api/resize", `{"width":320,"height":240}`)
	require.Equal(t, http.StatusOK, rec.Code)

	frame := decode[record.Frame](t, do(t, s, "GET", "/api/frame", ""))
	assert.Equal(t, 320, frame.Width)
	assert.Equal(t, 240, frame.Height)
	require.NotEmpty(t, frame.Commands)
	assert.Equal(t, record.OpClear, frame.Commands[0].Op)
}

func TestFrameExports(t *testing.T) {
	s := newTestServer(t)
	do(t, s, "POST", "/api/nodes", `{"x":10,"y":10,"size":30,"color":"red","label":"a"}`)

	rec := do(t, s, "GET", "/api/frame.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = do(t, s, "GET", "/api/frame.svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
}

func TestPNGExportFollowsViewport(t *testing.T) {
	s := newTestServer(t)
	do(t, s, "POST", "/api/nodes", `{"x":-40,"y":30,"size":20,"color":"red"}`)
	rec := do(t, s, "POST", "/api/viewport/pan", `{"dx":100,"dy":0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, "GET", "/api/frame.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)

	r, g, b, _ := img.At(70, 40).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0, 0}, [3]uint32{r, g, b}, "node panned into view")
	r, g, b, a := img.At(10, 40).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0xffff, 0xffff, 0xffff}, [4]uint32{r, g, b, a}, "background behind empty model space")
}

func TestAnalysisEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s, "POST", "/api/nodes", `{"id":"a","size":10}`)
	do(t, s, "POST", "/api/nodes", `{"id":"b","size":10}`)
	do(t, s, "POST", "/api/edges", `{"from":"a","to":"b"}`)
	do(t, s, "POST", "/api/edges", `{"from":"b","to":"a"}`)
	do(t, s, "POST", "/api/edges", `{"from":"a","to":"ghost"}`)

	report := decode[analysis.Report](t, do(t, s, "GET", "/api/analysis", ""))
	assert.False(t, report.Acyclic())
	assert.Equal(t, []string{"edge-3"}, report.Dangling)
}

func TestSetTheme(t *testing.T) {
	s := newTestServer(t)
	theme := render.DefaultTheme()
	theme.HighlightColor = "orange"

	s.SetTheme(theme)

	scene := decode[SceneResponse](t, do(t, s, "GET", "/api/scene", ""))
	assert.Equal(t, "orange", scene.Theme.HighlightColor)
	assert.EqualValues(t, 2, scene.Renders)
}

func TestMetricsUseRouteTemplates(t *testing.T) {
	s := newTestServer(t)
	do(t, s, "DELETE", "/api/nodes/first", "")
	do(t, s, "DELETE", "/api/nodes/second", "")

	body := do(t, s, "GET", "/metrics", "").Body.String()
	assert.Contains(t, body, `diagram_http_requests_total{method="DELETE",route="/api/nodes/{id}",status="404"} 2`)
	assert.Contains(t, body, "diagram_renders_total 1")
}

func TestStaticFiles(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, "GET", "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<canvas id="surface"`)

	rec = do(t, s, "GET", "/app.js", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubscribeFramesReplaysLatest(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", ts.URL+"/api/subscribe/frames", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	var data string
	for data == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if after, ok := strings.CutPrefix(line, "data: "); ok {
			data = after
		}
	}

	var event pubsub.Event
	require.NoError(t, json.Unmarshal([]byte(data), &event))
	assert.Equal(t, pubsub.TopicFrame, event.Topic)
	assert.Equal(t, "rendered", event.Type)

	var frame record.Frame
	require.NoError(t, json.Unmarshal(event.Data, &frame))
	assert.Equal(t, 200, frame.Width)
}

func TestNeighborhoodEndpoint(t *testing.T) {
	s := newTestServer(t)
	for _, id := range []string{"a", "b", "c", "d"} {
		do(t, s, "POST", "/api/nodes", `{"id":"`+id+`","size":10}`)
	}
	do(t, s, "POST", "/api/edges", `{"from":"a","to":"b"}`)
	do(t, s, "POST", "/api/edges", `{"from":"b","to":"c"}`)

	rec := do(t, s, "GET", "/api/neighborhood/a?depth=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[NeighborhoodResponse](t, rec)
	assert.Equal(t, []string{"a", "b"}, resp.Nodes)
	assert.Equal(t, map[string]int{"a": 0, "b": 1}, resp.Distances)

	resp = decode[NeighborhoodResponse](t, do(t, s, "GET", "/api/neighborhood/c?depth=5", ""))
	assert.Equal(t, []string{"a", "b", "c"}, resp.Nodes)

	assert.Equal(t, http.StatusNotFound, do(t, s, "GET", "/api/neighborhood/zzz", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, "GET", "/api/neighborhood/a?depth=-1", "").Code)
}

func TestSceneDiffsArePublished(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := s.publisher.Subscribe(ctx, pubsub.TopicScene)
	require.NoError(t, err)

	do(t, s, "POST", "/api/nodes", `{"id":"a","size":10}`)

	select {
	case event := <-sub.Events():
		assert.Equal(t, "diff", event.Type)
		var diff struct {
			AddedNodes []struct {
				ID string `json:"id"`
			} `json:"addedNodes"`
		}
		require.NoError(t, json.Unmarshal(event.Data, &diff))
		require.Len(t, diff.AddedNodes, 1)
		assert.Equal(t, "a", diff.AddedNodes[0].ID)
	case <-time.After(time.Second):
		t.Fatal("no scene diff published")
	}

	// Selecting changes no record, so no diff follows.
	do(t, s, "POST", "/api/pointer", `{"type":"down","x":200,"y":200}`)
	select {
	case event := <-sub.Events():
		t.Errorf("unexpected diff %s", event.Data)
	case <-time.After(50 * time.Millisecond):
	}
}
