package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ritzau/diagram-canvas/pkg/scene"
	"github.com/ritzau/diagram-canvas/pkg/validation"
)

// SceneFile is a diagram described as data. Nodes are added before edges,
// each in file order.
type SceneFile struct {
	Nodes []scene.NodeConfig `json:"nodes" validate:"dive"`
	Edges []scene.EdgeConfig `json:"edges" validate:"dive"`
}

// LoadScene reads a scene file. Files ending in .toml are parsed as TOML;
// anything else as YAML, which also accepts JSON.
func LoadScene(path string) (*SceneFile, error) {
	var parser koanf.Parser = yaml.Parser()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		parser = toml.Parser()
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load scene file %s: %w", path, err)
	}

	var sf SceneFile
	if err := k.UnmarshalWithConf("", &sf, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("failed to decode scene file %s: %w", path, err)
	}
	if err := validation.Struct(&sf); err != nil {
		return nil, fmt.Errorf("invalid scene file %s: %w", path, err)
	}
	return &sf, nil
}
