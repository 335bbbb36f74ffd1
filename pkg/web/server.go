package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/ritzau/diagram-canvas/pkg/canvas/record"
	"github.com/ritzau/diagram-canvas/pkg/diagram"
	"github.com/ritzau/diagram-canvas/pkg/interaction"
	"github.com/ritzau/diagram-canvas/pkg/logging"
	"github.com/ritzau/diagram-canvas/pkg/metrics"
	"github.com/ritzau/diagram-canvas/pkg/pubsub"
	"github.com/ritzau/diagram-canvas/pkg/render"
)

//go:embed static/*
var staticFiles embed.FS

// Options configures a Server.
type Options struct {
	Width  int
	Height int
	Theme  render.Theme
	// RawPointer disables mapping pointer coordinates through the viewport.
	RawPointer bool
	// PointerRate and PointerBurst bound POST /api/pointer. A zero rate
	// disables the limit.
	PointerRate  float64
	PointerBurst int
}

// Server hosts one diagram surface and exposes it over HTTP. Every request
// that touches the surface holds mu; the surface itself is single-threaded.
type Server struct {
	router    *mux.Router
	publisher *pubsub.SSEPublisher
	metrics   *metrics.Registry
	limiter   *rate.Limiter

	mu       sync.Mutex
	host     *browserHost
	recorder *record.Recorder
	surface  *diagram.Surface
}

// NewServer creates a server with an empty diagram of the configured size.
func NewServer(opts Options) (*Server, error) {
	publisher := pubsub.NewSSEPublisher()

	// Frames, selection and viewport are whole states; a new page only needs
	// the latest one. Diffs only make sense on top of GET /api/scene.
	publisher.ConfigureTopic(pubsub.TopicFrame, pubsub.Snapshot)
	publisher.ConfigureTopic(pubsub.TopicSelection, pubsub.Snapshot)
	publisher.ConfigureTopic(pubsub.TopicViewport, pubsub.Snapshot)
	publisher.ConfigureTopic(pubsub.TopicScene, pubsub.Stream)

	s := &Server{
		router:    mux.NewRouter(),
		publisher: publisher,
		metrics:   metrics.NewRegistry(),
		recorder:  record.New(opts.Width, opts.Height),
	}
	s.host = &browserHost{recorder: s.recorder}

	if opts.PointerRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.PointerRate), max(opts.PointerBurst, 1))
	}

	observer := &publishingObserver{recorder: s.recorder, publisher: publisher}
	surfaceOpts := []diagram.Option{
		diagram.WithTheme(opts.Theme),
		diagram.WithObserver(s.metrics),
		diagram.WithObserver(observer),
	}
	if opts.RawPointer {
		surfaceOpts = append(surfaceOpts, diagram.WithRawPointerCoordinates())
	}

	surface, err := diagram.New(s.host, opts.Width, opts.Height, surfaceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create diagram surface: %w", err)
	}
	s.surface = surface
	observer.attach(surface.Scene())

	s.setupRoutes()
	return s, nil
}

// Do runs fn with exclusive access to the surface.
func (s *Server) Do(fn func(*diagram.Surface)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.surface)
}

// SetTheme swaps the rendering theme, for config hot reload.
func (s *Server) SetTheme(theme render.Theme) {
	s.Do(func(d *diagram.Surface) { d.SetTheme(theme) })
}

// Metrics returns the server's metric registry.
func (s *Server) Metrics() *metrics.Registry {
	return s.metrics
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(logging.RequestIDMiddleware, s.metricsMiddleware)

	api := s.router.PathPrefix("/api").Subrouter()

	// Scene
	api.HandleFunc("/scene", s.handleScene).Methods("GET")
	api.HandleFunc("/nodes", s.handleAddNode).Methods("POST")
	api.HandleFunc("/nodes/{id}", s.handlePatchNode).Methods("PATCH")
	api.HandleFunc("/nodes/{id}", s.handleRemoveNode).Methods("DELETE")
	api.HandleFunc("/edges", s.handleAddEdge).Methods("POST")
	api.HandleFunc("/edges/{from}/{to}", s.handlePatchEdge).Methods("PATCH")
	api.HandleFunc("/edges/{from}/{to}", s.handleRemoveEdge).Methods("DELETE")

	// Interaction
	api.HandleFunc("/pointer", s.handlePointer).Methods("POST")
	api.HandleFunc("/viewport/{action}", s.handleViewport).Methods("POST")
	api.HandleFunc("/resize", s.handleResize).Methods("POST")

	// Output
	api.HandleFunc("/frame", s.handleFrame).Methods("GET")
	api.HandleFunc("/frame.png", s.handleFramePNG).Methods("GET")
	api.HandleFunc("/frame.svg", s.handleFrameSVG).Methods("GET")
	api.HandleFunc("/analysis", s.handleAnalysis).Methods("GET")
	api.HandleFunc("/neighborhood/{id}", s.handleNeighborhood).Methods("GET")

	// Subscriptions
	api.HandleFunc("/subscribe/frames", s.handleSubscribe(pubsub.TopicFrame)).Methods("GET")
	api.HandleFunc("/subscribe/selection", s.handleSubscribe(pubsub.TopicSelection)).Methods("GET")
	api.HandleFunc("/subscribe/viewport", s.handleSubscribe(pubsub.TopicViewport)).Methods("GET")
	api.HandleFunc("/subscribe/scene", s.handleSubscribe(pubsub.TopicScene)).Methods("GET")

	s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	// Serve static files from embedded filesystem
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logging.Error("failed to load embedded static files", "error", err)
		return
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
}

// handleSubscribe streams one pubsub topic as server-sent events.
func (s *Server) handleSubscribe(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Set SSE headers
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		sub, err := s.publisher.Subscribe(r.Context(), topic)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer sub.Close()

		s.metrics.SSEClients.Inc()
		defer s.metrics.SSEClients.Dec()

		// Send initial connection message
		fmt.Fprintf(w, ": connected\n\n")
		flusher.Flush()

		logging.DebugContext(r.Context(), "SSE client subscribed", "topic", topic)

		for {
			select {
			case <-r.Context().Done():
				return
			case event, ok := <-sub.Events():
				if !ok {
					return
				}
				if err := pubsub.WriteSSE(w, event); err != nil {
					logging.WarnContext(r.Context(), "failed to write SSE event", "topic", topic, "error", err)
					return
				}
				flusher.Flush()
			}
		}
	}
}

// allowPointer reports whether a pointer event fits the rate limit, which is
// shared by all clients. Up and cancel always pass so a drag can end.
func (s *Server) allowPointer(ev interaction.PointerEvent) bool {
	if s.limiter == nil {
		return true
	}
	switch ev.Kind {
	case interaction.PointerUp, interaction.PointerCancel:
		return true
	}
	if s.limiter.Allow() {
		return true
	}
	s.metrics.RateLimitedTotal.Inc()
	return false
}

// metricsMiddleware records request counts and latency by route template so
// that ids in paths do not blow up label cardinality.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.RecordHTTPRequest(r.Method, route, strconv.Itoa(rec.status), time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Start serves on port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("starting web server", "url", fmt.Sprintf("http://localhost:%d", port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down web server")
	// Open SSE streams end with their request contexts.
	if err := s.publisher.Close(); err != nil {
		logging.Warn("failed to close publisher", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
