package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/ritzau/diagram-canvas/pkg/render"
	"github.com/ritzau/diagram-canvas/pkg/validation"
)

// DefaultFile is read from the working directory when no config path is
// given. It is optional.
const DefaultFile = "diagramd.toml"

// EnvPrefix prefixes every environment override. Nested keys use a double
// underscore: DIAGRAMD_THEME__HIGHLIGHT_COLOR=orange.
const EnvPrefix = "DIAGRAMD_"

// Config holds all configuration for the application
type Config struct {
	Port        int    `koanf:"port" validate:"gte=0,lte=65535"`
	Width       int    `koanf:"width" validate:"gt=0"`
	Height      int    `koanf:"height" validate:"gt=0"`
	OpenBrowser bool   `koanf:"open"`
	Watch       bool   `koanf:"watch"`
	File        string `koanf:"config"`
	// Scene names a scene file to load at startup.
	Scene string `koanf:"scene"`

	Verbosity  string `koanf:"verbosity" validate:"omitempty,oneof=trace debug info warn warning error"`
	VerboseCnt int    `koanf:"verbose" validate:"gte=0"`
	JSONLogs   bool   `koanf:"json_logs"`

	RawPointer   bool    `koanf:"raw_pointer"`
	PointerRate  float64 `koanf:"pointer_rate" validate:"gt=0"`
	PointerBurst int     `koanf:"pointer_burst" validate:"gt=0"`

	Format  string `koanf:"format" validate:"oneof=png svg"`
	Out     string `koanf:"out"`
	Summary bool   `koanf:"summary"`

	Theme render.Theme `koanf:"theme"`
}

func defaults() map[string]interface{} {
	theme := render.DefaultTheme()
	return map[string]interface{}{
		"port":          8080,
		"width":         800,
		"height":        600,
		"open":          false,
		"watch":         false,
		"config":        "",
		"scene":         "",
		"verbosity":     "",
		"verbose":       0,
		"json_logs":     false,
		"raw_pointer":   false,
		"pointer_rate":  120.0,
		"pointer_burst": 240,
		"format":        "png",
		"out":           "",
		"summary":       false,
		"theme": map[string]interface{}{
			"highlight_color": theme.HighlightColor,
			"highlight_delta": theme.HighlightDelta,
			"arrow_size":      theme.ArrowSize,
			"arrow_offset":    theme.ArrowOffset,
			"font":            theme.Font,
			"label_color":     theme.LabelColor,
			"star_spikes":     theme.StarSpikes,
			"background":      theme.Background,
		},
	}
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(makeMapProvider(defaults()), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional unless named explicitly)
	path, explicit := filePath(f)
	if err := loadFile(k, path, explicit); err != nil {
		return nil, err
	}

	// 3. Environment Variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.ProviderWithFlag(f, ".", k, flagKey(f)), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.File == "" && explicit {
		cfg.File = path
	}

	if err := validation.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// flagKey maps --pointer-rate to pointer_rate.
func flagKey(f *pflag.FlagSet) func(*pflag.Flag) (string, interface{}) {
	return func(fl *pflag.Flag) (string, interface{}) {
		return strings.ReplaceAll(fl.Name, "-", "_"), posflag.FlagVal(f, fl)
	}
}

// envKey maps DIAGRAMD_THEME__FONT to theme.font and DIAGRAMD_JSON_LOGS to
// json_logs.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// filePath decides which config file to read: --config, then
// DIAGRAMD_CONFIG, then DefaultFile. explicit is false for the default.
func filePath(f *pflag.FlagSet) (string, bool) {
	if f != nil {
		if fl := f.Lookup("config"); fl != nil && fl.Changed && fl.Value.String() != "" {
			return fl.Value.String(), true
		}
	}
	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		return p, true
	}
	return DefaultFile, false
}

func loadFile(k *koanf.Koanf, path string, explicit bool) error {
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}

	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
