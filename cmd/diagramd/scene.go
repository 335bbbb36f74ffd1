package main

import (
	"github.com/ritzau/diagram-canvas/pkg/config"
	"github.com/ritzau/diagram-canvas/pkg/scene"
)

// sceneBuilder is the part of a diagram surface that populates it.
type sceneBuilder interface {
	AddNode(cfg scene.NodeConfig) string
	AddEdge(cfg scene.EdgeConfig) string
}

// loadScene returns the scene named by path, or the built-in sample when
// path is empty.
func loadScene(path string) (*config.SceneFile, error) {
	if path == "" {
		return sampleScene(), nil
	}
	return config.LoadScene(path)
}

func populate(b sceneBuilder, sf *config.SceneFile) {
	for _, n := range sf.Nodes {
		b.AddNode(n)
	}
	for _, e := range sf.Edges {
		b.AddEdge(e)
	}
}

func sampleScene() *config.SceneFile {
	return &config.SceneFile{
		Nodes: []scene.NodeConfig{
			{ID: "source", X: 60, Y: 60, Size: 60, Color: "lightblue", BorderColor: "navy", BorderWidth: 2, Label: "source"},
			{ID: "router", X: 260, Y: 60, Size: 60, Color: "lightgreen", BorderColor: "darkgreen", BorderWidth: 2, Shape: scene.ShapeCircle, Label: "router"},
			{ID: "sink", X: 460, Y: 60, Size: 60, Color: "salmon", BorderColor: "darkred", BorderWidth: 2, Shape: scene.ShapeStar, Label: "sink"},
			{ID: "audit", X: 260, Y: 260, Size: 60, Color: "khaki", BorderColor: "olive", BorderWidth: 2, Label: "audit", Active: true},
		},
		Edges: []scene.EdgeConfig{
			{From: "source", To: "router", Color: "gray", Width: 2, Label: "events"},
			{From: "router", To: "sink", Color: "gray", Width: 2, Label: "filtered"},
			{From: "router", To: "audit", Color: "purple", Width: 1, Label: "copy"},
		},
	}
}
