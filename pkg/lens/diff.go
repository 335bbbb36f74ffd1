package lens

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/ritzau/diagram-canvas/pkg/scene"
)

// SceneDiff represents the difference between two scene states
type SceneDiff struct {
	AddedNodes    []scene.Node `json:"addedNodes"`
	RemovedNodes  []string     `json:"removedNodes"`  // Node IDs
	ModifiedNodes []scene.Node `json:"modifiedNodes"` // Moved or restyled nodes
	AddedEdges    []scene.Edge `json:"addedEdges"`
	RemovedEdges  []string     `json:"removedEdges"` // Edge IDs
	ModifiedEdges []scene.Edge `json:"modifiedEdges"`
	FullScene     bool         `json:"fullScene"` // True if this is the whole scene, not a diff
}

// Empty reports whether the diff carries no change.
func (d *SceneDiff) Empty() bool {
	return !d.FullScene &&
		len(d.AddedNodes) == 0 && len(d.RemovedNodes) == 0 && len(d.ModifiedNodes) == 0 &&
		len(d.AddedEdges) == 0 && len(d.RemovedEdges) == 0 && len(d.ModifiedEdges) == 0
}

// Snapshot is a captured scene state for diffing.
type Snapshot struct {
	Hash  string
	Nodes map[string]scene.Node // nodeID -> node
	Edges map[string]scene.Edge // edgeID -> edge
}

// CreateSnapshot captures the current records of m.
func CreateSnapshot(m *scene.Model) *Snapshot {
	nodes := m.Nodes()
	edges := m.Edges()

	snapshot := &Snapshot{
		Nodes: make(map[string]scene.Node, len(nodes)),
		Edges: make(map[string]scene.Edge, len(edges)),
	}
	for _, n := range nodes {
		snapshot.Nodes[n.ID] = n
	}
	for _, e := range edges {
		snapshot.Edges[e.ID] = e
	}

	// Compute hash of the scene in insertion order
	jsonData, _ := json.Marshal(struct {
		Nodes []scene.Node
		Edges []scene.Edge
	}{nodes, edges})
	hash := sha256.Sum256(jsonData)
	snapshot.Hash = fmt.Sprintf("%x", hash)

	return snapshot
}

// ComputeDiff lists what changed in m since old was taken. Added and
// modified records come in scene order, removed ids sorted.
func ComputeDiff(old *Snapshot, m *scene.Model) *SceneDiff {
	// If no old snapshot, return the whole scene
	if old == nil {
		return &SceneDiff{
			AddedNodes: m.Nodes(),
			AddedEdges: m.Edges(),
			FullScene:  true,
		}
	}

	diff := &SceneDiff{
		AddedNodes:    make([]scene.Node, 0),
		RemovedNodes:  make([]string, 0),
		ModifiedNodes: make([]scene.Node, 0),
		AddedEdges:    make([]scene.Edge, 0),
		RemovedEdges:  make([]string, 0),
		ModifiedEdges: make([]scene.Edge, 0),
	}

	current := CreateSnapshot(m)
	if current.Hash == old.Hash {
		return diff
	}

	// Find added and modified nodes
	for _, n := range m.Nodes() {
		if prev, exists := old.Nodes[n.ID]; !exists {
			diff.AddedNodes = append(diff.AddedNodes, n)
		} else if prev != n {
			diff.ModifiedNodes = append(diff.ModifiedNodes, n)
		}
	}

	// Find removed nodes
	for id := range old.Nodes {
		if _, exists := current.Nodes[id]; !exists {
			diff.RemovedNodes = append(diff.RemovedNodes, id)
		}
	}
	slices.Sort(diff.RemovedNodes)

	// Find added and modified edges
	for _, e := range m.Edges() {
		if prev, exists := old.Edges[e.ID]; !exists {
			diff.AddedEdges = append(diff.AddedEdges, e)
		} else if prev != e {
			diff.ModifiedEdges = append(diff.ModifiedEdges, e)
		}
	}

	// Find removed edges
	for id := range old.Edges {
		if _, exists := current.Edges[id]; !exists {
			diff.RemovedEdges = append(diff.RemovedEdges, id)
		}
	}
	slices.Sort(diff.RemovedEdges)

	return diff
}
