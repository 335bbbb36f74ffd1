package graph

import (
	"testing"

	"github.com/ritzau/diagram-canvas/pkg/scene"
)

func TestNewSceneGraph(t *testing.T) {
	sg := NewSceneGraph()
	if sg == nil {
		t.Fatal("NewSceneGraph() returned nil")
	}

	if len(sg.Nodes()) != 0 {
		t.Errorf("New graph should have 0 nodes, got %d", len(sg.Nodes()))
	}
}

func TestAddNode(t *testing.T) {
	sg := NewSceneGraph()

	sg.AddNode("node-1")
	sg.AddNode("node-1")

	if len(sg.Nodes()) != 1 {
		t.Errorf("Expected 1 node, got %d", len(sg.Nodes()))
	}

	id, ok := sg.ID("node-1")
	if !ok {
		t.Fatal("node-1 not found in graph")
	}
	if name, _ := sg.Name(id); name != "node-1" {
		t.Errorf("Expected name node-1, got %s", name)
	}
}

func TestAddEdge(t *testing.T) {
	sg := NewSceneGraph()

	sg.AddEdge("a", "b")
	sg.AddEdge("a", "b")

	edges := sg.Edges()
	if len(edges) != 1 {
		t.Fatalf("Expected 1 edge, got %d", len(edges))
	}
	if edges[0] != [2]string{"a", "b"} {
		t.Errorf("Expected edge a->b, got %v", edges[0])
	}
}

func TestSelfLoop(t *testing.T) {
	sg := NewSceneGraph()

	sg.AddEdge("a", "a")
	sg.AddEdge("a", "a")

	if len(sg.Edges()) != 0 {
		t.Errorf("Self-loops should not be graph edges, got %v", sg.Edges())
	}
	if loops := sg.SelfLoops(); len(loops) != 1 || loops[0] != "a" {
		t.Errorf("Expected self-loop on a, got %v", loops)
	}
}

func TestSuccessorsInSceneOrder(t *testing.T) {
	sg := NewSceneGraph()
	sg.AddNode("a")
	sg.AddNode("c")
	sg.AddNode("b")
	sg.AddEdge("a", "b")
	sg.AddEdge("a", "c")

	got := sg.Successors("a")
	if len(got) != 2 || got[0] != "c" || got[1] != "b" {
		t.Errorf("Expected [c b], got %v", got)
	}
	if sg.Successors("missing") != nil {
		t.Error("Expected nil successors for a missing node")
	}
}

func TestBuildSceneGraph(t *testing.T) {
	m := scene.NewModel()
	m.AddNode(scene.NodeConfig{Size: 10})
	m.AddNode(scene.NodeConfig{Size: 10})
	m.AddEdge(scene.EdgeConfig{From: "node-1", To: "node-2"})
	m.AddEdge(scene.EdgeConfig{From: "node-2", To: "ghost"})

	sg := BuildSceneGraph(m)

	if len(sg.Nodes()) != 2 {
		t.Errorf("Expected 2 nodes, got %v", sg.Nodes())
	}
	edges := sg.Edges()
	if len(edges) != 1 || edges[0] != [2]string{"node-1", "node-2"} {
		t.Errorf("Expected only the resolved edge, got %v", edges)
	}
	if _, ok := sg.ID("ghost"); ok {
		t.Error("Unresolved endpoint should not become a node")
	}
}
