package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ritzau/diagram-canvas/pkg/analysis"
	"github.com/ritzau/diagram-canvas/pkg/canvas"
	"github.com/ritzau/diagram-canvas/pkg/canvas/raster"
	"github.com/ritzau/diagram-canvas/pkg/canvas/record"
	"github.com/ritzau/diagram-canvas/pkg/canvas/vector"
	"github.com/ritzau/diagram-canvas/pkg/diagram"
	"github.com/ritzau/diagram-canvas/pkg/interaction"
	"github.com/ritzau/diagram-canvas/pkg/lens"
	"github.com/ritzau/diagram-canvas/pkg/logging"
	"github.com/ritzau/diagram-canvas/pkg/pubsub"
	"github.com/ritzau/diagram-canvas/pkg/render"
	"github.com/ritzau/diagram-canvas/pkg/scene"
	"github.com/ritzau/diagram-canvas/pkg/validation"
	"github.com/ritzau/diagram-canvas/pkg/viewport"
)

// SceneResponse is the full state of the hosted diagram.
type SceneResponse struct {
	Width     int                  `json:"width"`
	Height    int                  `json:"height"`
	Nodes     []diagram.NodeView   `json:"nodes"`
	Edges     []diagram.EdgeView   `json:"edges"`
	Selection pubsub.SelectionData `json:"selection"`
	Viewport  viewport.Viewport    `json:"viewport"`
	Theme     render.Theme         `json:"theme"`
	Renders   uint64               `json:"renders"`
}

// CreatedResponse carries the id of a new node or edge.
type CreatedResponse struct {
	ID string `json:"id"`
}

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type resizeRequest struct {
	Width  int `json:"width" validate:"gt=0,lte=8192"`
	Height int `json:"height" validate:"gt=0,lte=8192"`
}

// NeighborhoodResponse lists the nodes near one node.
type NeighborhoodResponse struct {
	ID        string         `json:"id"`
	Depth     int            `json:"depth"`
	Nodes     []string       `json:"nodes"`
	Distances map[string]int `json:"distances"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeRequest reads a JSON body into v and checks its validate tags.
func decodeRequest(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return validation.Struct(v)
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	var resp SceneResponse
	s.Do(func(d *diagram.Surface) {
		resp.Width, resp.Height = d.Size()
		resp.Nodes = d.Nodes()
		resp.Edges = d.Edges()
		resp.Selection = selectionData(d.State())
		resp.Viewport = d.Viewport()
		resp.Theme = d.Theme()
		resp.Renders = d.RenderCount()
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var cfg scene.NodeConfig
	if err := decodeRequest(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var id string
	s.Do(func(d *diagram.Surface) { id = d.AddNode(cfg) })

	logging.DebugContext(r.Context(), "node added", "id", id)
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (s *Server) handlePatchNode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch scene.NodePatch
	if err := decodeRequest(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var (
		view  diagram.NodeView
		found bool
	)
	s.Do(func(d *diagram.Surface) {
		if _, found = d.Node(id); !found {
			return
		}
		d.ModifyNodeStyle(id, patch)
		view, _ = d.Node(id)
	})
	if !found {
		writeError(w, http.StatusNotFound, fmt.Errorf("node not found: %s", id))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var found bool
	s.Do(func(d *diagram.Surface) {
		if _, found = d.Node(id); found {
			d.RemoveNode(id)
		}
	})
	if !found {
		writeError(w, http.StatusNotFound, fmt.Errorf("node not found: %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	var cfg scene.EdgeConfig
	if err := decodeRequest(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var id string
	s.Do(func(d *diagram.Surface) { id = d.AddEdge(cfg) })

	logging.DebugContext(r.Context(), "edge added", "id", id, "from", cfg.From, "to", cfg.To)
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

// findEdge returns the first edge from -> to, the one style changes apply to.
func findEdge(d *diagram.Surface, from, to string) (diagram.EdgeView, bool) {
	for _, e := range d.Edges() {
		if e.From == from && e.To == to {
			return e, true
		}
	}
	return diagram.EdgeView{}, false
}

func (s *Server) handlePatchEdge(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	from, to := vars["from"], vars["to"]

	var patch scene.EdgePatch
	if err := decodeRequest(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var (
		view  diagram.EdgeView
		found bool
	)
	s.Do(func(d *diagram.Surface) {
		if _, found = findEdge(d, from, to); !found {
			return
		}
		d.ModifyEdgeStyle(from, to, patch)
		view, _ = findEdge(d, from, to)
	})
	if !found {
		writeError(w, http.StatusNotFound, fmt.Errorf("edge not found: %s -> %s", from, to))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRemoveEdge(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	from, to := vars["from"], vars["to"]

	var found bool
	s.Do(func(d *diagram.Surface) {
		if _, found = findEdge(d, from, to); found {
			d.RemoveEdge(from, to)
		}
	})
	if !found {
		writeError(w, http.StatusNotFound, fmt.Errorf("edge not found: %s -> %s", from, to))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var ev interaction.PointerEvent
	if err := decodeRequest(r, &ev); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !s.allowPointer(ev) {
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
		return
	}

	var (
		delivered bool
		sel       pubsub.SelectionData
	)
	s.Do(func(d *diagram.Surface) {
		delivered = s.host.deliver(ev)
		sel = selectionData(d.State())
	})
	if !delivered {
		writeError(w, http.StatusInternalServerError, errors.New("surface is not listening for pointer events"))
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	action := mux.Vars(r)["action"]

	var pan panRequest
	switch action {
	case "zoom-in", "zoom-out":
	case "pan":
		if err := decodeRequest(r, &pan); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	default:
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown viewport action: %s", action))
		return
	}

	var v viewport.Viewport
	s.Do(func(d *diagram.Surface) {
		switch action {
		case "zoom-in":
			d.ZoomIn()
		case "zoom-out":
			d.ZoomOut()
		case "pan":
			d.Pan(pan.DX, pan.DY)
		}
		v = d.Viewport()
	})
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.Do(func(d *diagram.Surface) { d.Resize(req.Width, req.Height) })
	writeJSON(w, http.StatusOK, req)
}

// frame snapshots the last render pass together with the background the
// page paints behind it.
func (s *Server) frame() (record.Frame, string) {
	var (
		f  record.Frame
		bg string
	)
	s.Do(func(d *diagram.Surface) {
		f = s.recorder.Frame()
		bg = d.Theme().Background
	})
	return f, bg
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	f, _ := s.frame()
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleFramePNG(w http.ResponseWriter, r *http.Request) {
	f, bg := s.frame()

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	c, err := raster.New(f.Width, f.Height, raster.WithBackground(canvas.ColorOr(bg, white)))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	record.Replay(f, c)

	w.Header().Set("Content-Type", "image/png")
	if err := c.EncodePNG(w); err != nil {
		logging.WarnContext(r.Context(), "failed to write png frame", "error", err)
	}
}

func (s *Server) handleFrameSVG(w http.ResponseWriter, r *http.Request) {
	f, _ := s.frame()

	c := vector.New(f.Width, f.Height)
	record.Replay(f, c)

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := c.Encode(w); err != nil {
		logging.WarnContext(r.Context(), "failed to write svg frame", "error", err)
	}
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var report analysis.Report
	s.Do(func(d *diagram.Surface) { report = analysis.Analyze(d.Scene()) })
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleNeighborhood(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	depth := 1
	if raw := r.URL.Query().Get("depth"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid depth: %q", raw))
			return
		}
		depth = d
	}

	var (
		resp  = NeighborhoodResponse{ID: id, Depth: depth}
		found bool
	)
	s.Do(func(d *diagram.Surface) {
		if _, found = d.Node(id); !found {
			return
		}
		m := d.Scene()
		resp.Nodes = lens.Neighborhood(m, id, depth)
		resp.Distances = make(map[string]int, len(resp.Nodes))
		for node, dist := range lens.ComputeDistances(m, id) {
			if dist <= depth {
				resp.Distances[node] = dist
			}
		}
	})
	if !found {
		writeError(w, http.StatusNotFound, fmt.Errorf("node not found: %s", id))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
