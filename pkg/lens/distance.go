// Package lens computes views on a scene that help a client focus: how far
// each node is from a selection, and what changed between two states.
package lens

import (
	"github.com/ritzau/diagram-canvas/pkg/scene"
)

// distanceQueueNode represents a node in the BFS queue
type distanceQueueNode struct {
	nodeID   string
	distance int
}

// ComputeDistances returns the number of drawn edges between each node and
// the nearest of the given nodes, ignoring edge direction. Unreachable
// nodes are absent from the result. Ids that name no node are ignored.
func ComputeDistances(m *scene.Model, selected ...string) map[string]int {
	distances := make(map[string]int)
	adjacency := buildAdjacencyList(m)

	// Initialize BFS queue with selected nodes at distance 0
	queue := []distanceQueueNode{}
	for _, id := range selected {
		if _, ok := m.Node(id); !ok {
			continue
		}
		if _, seen := distances[id]; seen {
			continue
		}
		distances[id] = 0
		queue = append(queue, distanceQueueNode{nodeID: id, distance: 0})
	}

	// BFS traversal
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, neighbor := range adjacency[current.nodeID] {
			if _, exists := distances[neighbor]; !exists {
				newDistance := current.distance + 1
				distances[neighbor] = newDistance
				queue = append(queue, distanceQueueNode{nodeID: neighbor, distance: newDistance})
			}
		}
	}

	return distances
}

// Neighborhood returns the nodes within depth edges of id, in scene order.
// It is empty when id names no node.
func Neighborhood(m *scene.Model, id string, depth int) []string {
	distances := ComputeDistances(m, id)

	result := make([]string, 0, len(distances))
	for _, n := range m.Nodes() {
		if d, ok := distances[n.ID]; ok && d <= depth {
			result = append(result, n.ID)
		}
	}
	return result
}

// buildAdjacencyList creates an undirected adjacency list from the edges
// that are drawn, that is, whose endpoints both exist.
func buildAdjacencyList(m *scene.Model) map[string][]string {
	adjacency := make(map[string][]string)

	for _, edge := range m.Edges() {
		if _, _, ok := m.Resolve(edge); !ok {
			continue
		}
		// Add both directions (undirected for distance computation)
		adjacency[edge.From] = append(adjacency[edge.From], edge.To)
		adjacency[edge.To] = append(adjacency[edge.To], edge.From)
	}

	return adjacency
}
