// Package metrics exposes Prometheus metrics for a diagram surface and the
// HTTP host around it.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ritzau/diagram-canvas/pkg/diagram"
	"github.com/ritzau/diagram-canvas/pkg/interaction"
	"github.com/ritzau/diagram-canvas/pkg/viewport"
)

// Registry holds all metrics for one server.
type Registry struct {
	// Render metrics
	RendersTotal   prometheus.Counter
	RenderDuration prometheus.Histogram
	SceneNodes     prometheus.Gauge
	SceneEdges     prometheus.Gauge

	// Interaction metrics
	PointerEventsTotal *prometheus.CounterVec
	ViewportScale      prometheus.Gauge
	ViewportChanges    prometheus.Counter

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RateLimitedTotal    prometheus.Counter
	SSEClients          prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with all metrics initialized.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.initRenderMetrics()
	r.initInteractionMetrics()
	r.initHTTPMetrics()
	return r
}

func (r *Registry) initRenderMetrics() {
	r.RendersTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "diagram_renders_total",
			Help: "Total number of completed render passes",
		},
	)

	r.RenderDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diagram_render_duration_seconds",
			Help:    "Render pass duration in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
	)

	r.SceneNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "diagram_scene_nodes",
			Help: "Number of nodes in the scene",
		},
	)

	r.SceneEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "diagram_scene_edges",
			Help: "Number of edges in the scene, including unresolved ones",
		},
	)
}

func (r *Registry) initInteractionMetrics() {
	r.PointerEventsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagram_pointer_events_total",
			Help: "Pointer events by kind and resulting interaction state",
		},
		[]string{"kind", "state"},
	)

	r.ViewportScale = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "diagram_viewport_scale",
			Help: "Current viewport scale",
		},
	)
	r.ViewportScale.Set(1)

	r.ViewportChanges = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "diagram_viewport_changes_total",
			Help: "Total number of pan and zoom operations",
		},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagram_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diagram_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	r.RateLimitedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "diagram_http_rate_limited_total",
			Help: "Requests rejected by the pointer rate limiter",
		},
	)

	r.SSEClients = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "diagram_sse_clients",
			Help: "Currently connected frame subscribers",
		},
	)
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request with its duration.
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Rendered implements diagram.Observer.
func (r *Registry) Rendered(stats diagram.RenderStats) {
	r.RendersTotal.Inc()
	r.RenderDuration.Observe(stats.Duration.Seconds())
	r.SceneNodes.Set(float64(stats.Nodes))
	r.SceneEdges.Set(float64(stats.Edges))
}

// Pointer implements diagram.Observer.
func (r *Registry) Pointer(kind interaction.PointerKind, state interaction.State) {
	r.PointerEventsTotal.WithLabelValues(string(kind), state.Name()).Inc()
}

// ViewportChanged implements diagram.Observer.
func (r *Registry) ViewportChanged(v viewport.Viewport) {
	r.ViewportChanges.Inc()
	r.ViewportScale.Set(v.Scale)
}

var _ diagram.Observer = (*Registry)(nil)
