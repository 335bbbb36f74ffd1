// Package analysis summarizes the structure of a scene: cycles, connected
// components, a topological order when one exists, and edges that are not
// drawn because an endpoint is missing.
package analysis

import (
	"slices"

	"github.com/ritzau/diagram-canvas/pkg/cycles"
	"github.com/ritzau/diagram-canvas/pkg/graph"
	"github.com/ritzau/diagram-canvas/pkg/scene"
	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Report is the structural summary of one scene.
type Report struct {
	Nodes      int            `json:"nodes"`
	Edges      int            `json:"edges"`
	Cycles     []cycles.Cycle `json:"cycles"`
	Components [][]string     `json:"components"`
	// Order is a topological order of the nodes, empty when the graph has
	// a cycle.
	Order    []string `json:"order"`
	Roots    []string `json:"roots"`
	Leaves   []string `json:"leaves"`
	Dangling []string `json:"dangling"`
}

// Acyclic reports whether the drawn graph has no cycles.
func (r Report) Acyclic() bool {
	return len(r.Cycles) == 0
}

// Analyze builds a report for the scene.
func Analyze(m *scene.Model) Report {
	sg := graph.BuildSceneGraph(m)

	report := Report{
		Nodes:      m.NodeCount(),
		Edges:      m.EdgeCount(),
		Cycles:     cycles.FindCycles(sg),
		Components: components(sg),
		Order:      []string{},
		Roots:      []string{},
		Leaves:     []string{},
		Dangling:   []string{},
	}

	for _, e := range m.Edges() {
		if _, _, ok := m.Resolve(e); !ok {
			report.Dangling = append(report.Dangling, e.ID)
		}
	}

	g := sg.Graph()
	for _, name := range sg.Nodes() {
		id, _ := sg.ID(name)
		if g.To(id).Len() == 0 {
			report.Roots = append(report.Roots, name)
		}
		if g.From(id).Len() == 0 {
			report.Leaves = append(report.Leaves, name)
		}
	}

	if report.Acyclic() {
		report.Order = topoOrder(sg)
	}

	return report
}

// components returns the weakly connected components, each in scene order,
// ordered by their first node.
func components(sg *graph.SceneGraph) [][]string {
	ug := simple.NewUndirectedGraph()
	nodes := sg.Graph().Nodes()
	for nodes.Next() {
		ug.AddNode(nodes.Node())
	}
	edges := sg.Graph().Edges()
	for edges.Next() {
		e := edges.Edge()
		if !ug.HasEdgeBetween(e.From().ID(), e.To().ID()) {
			ug.SetEdge(ug.NewEdge(e.From(), e.To()))
		}
	}

	var out [][]string
	for _, cc := range topo.ConnectedComponents(ug) {
		slices.SortFunc(cc, func(a, b gonumgraph.Node) int {
			return int(a.ID() - b.ID())
		})
		out = append(out, names(sg, cc))
	}
	slices.SortFunc(out, func(a, b []string) int {
		ai, _ := sg.ID(a[0])
		bi, _ := sg.ID(b[0])
		return int(ai - bi)
	})
	if out == nil {
		out = [][]string{}
	}
	return out
}

// topoOrder returns a topological order, breaking ties by scene order.
func topoOrder(sg *graph.SceneGraph) []string {
	sorted, err := topo.SortStabilized(sg.Graph(), func(nodes []gonumgraph.Node) {
		slices.SortFunc(nodes, func(a, b gonumgraph.Node) int {
			return int(a.ID() - b.ID())
		})
	})
	if err != nil {
		return []string{}
	}
	return names(sg, sorted)
}

// names maps graph nodes to scene ids, keeping their order.
func names(sg *graph.SceneGraph, nodes []gonumgraph.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if name, ok := sg.Name(n.ID()); ok {
			out = append(out, name)
		}
	}
	return out
}
