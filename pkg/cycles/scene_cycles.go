// Package cycles finds circular paths in the drawn graph.
package cycles

import (
	"slices"

	"github.com/ritzau/diagram-canvas/pkg/graph"
)

// Cycle is a set of nodes that can all reach each other along edges.
type Cycle struct {
	Nodes []string `json:"nodes"` // node ids in scene order
}

// FindCycles returns every cycle in the graph. Self-loops count as cycles of
// one node. Cycles are ordered by their first node in scene order.
func FindCycles(sg *graph.SceneGraph) []Cycle {
	tarjan := NewTarjanSCC(sg.Graph())
	sccs := tarjan.FindSCCs()

	cycles := make([]Cycle, 0, len(sccs))
	for _, scc := range sccs {
		nodes := make([]string, 0, len(scc))
		for _, id := range scc {
			if name, ok := sg.Name(id); ok {
				nodes = append(nodes, name)
			}
		}
		cycles = append(cycles, Cycle{Nodes: nodes})
	}

	for _, id := range sg.SelfLoops() {
		cycles = append(cycles, Cycle{Nodes: []string{id}})
	}

	// Graph ids follow scene order, so the first graph id ranks the cycle.
	slices.SortStableFunc(cycles, func(a, b Cycle) int {
		ai, _ := sg.ID(a.Nodes[0])
		bi, _ := sg.ID(b.Nodes[0])
		return int(ai - bi)
	})

	return cycles
}
