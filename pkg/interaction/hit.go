package interaction

import (
	"github.com/ritzau/diagram-canvas/pkg/geometry"
	"github.com/ritzau/diagram-canvas/pkg/scene"
)

// EdgeHitThreshold is how close, in pixels, a point must be to an edge's
// line to count as a hit.
const EdgeHitThreshold = 5.0

// HitNode returns the first node in insertion order whose bounding square
// contains p. Nodes are drawn in the same order, so when nodes overlap the
// one drawn underneath wins.
func HitNode(m *scene.Model, p geometry.Point) (scene.Node, bool) {
	for _, n := range m.Nodes() {
		if n.Bounds().Contains(p) {
			return n, true
		}
	}
	return scene.Node{}, false
}

// HitEdge returns the first resolvable edge in insertion order whose line
// passes within threshold of p. The test is against the infinite line
// through both node centers, so points past either end can still hit.
func HitEdge(m *scene.Model, p geometry.Point, threshold float64) (scene.Edge, bool) {
	for _, e := range m.Edges() {
		from, to, ok := m.Resolve(e)
		if !ok {
			continue
		}
		if geometry.DistanceToLine(p, from.Center(), to.Center()) < threshold {
			return e, true
		}
	}
	return scene.Edge{}, false
}
