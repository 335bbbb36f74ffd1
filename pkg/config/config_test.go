package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/diagram-canvas/pkg/render"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	RegisterServeFlags(fs)
	RegisterRenderFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

// inTempDir runs the test from an empty directory so a stray diagramd.toml
// cannot leak in.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	inTempDir(t)

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
	assert.Equal(t, "png", cfg.Format)
	assert.Equal(t, 120.0, cfg.PointerRate)
	assert.Equal(t, 240, cfg.PointerBurst)
	assert.False(t, cfg.RawPointer)
	assert.Equal(t, render.DefaultTheme(), cfg.Theme)
}

func TestLoadNilFlags(t *testing.T) {
	inTempDir(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoadTOMLFile(t *testing.T) {
	dir := inTempDir(t)
	content := `
port = 9090
width = 1024

[theme]
highlight_color = "orange"
star_spikes = 6
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte(content), 0o644))

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
	assert.Equal(t, "orange", cfg.Theme.HighlightColor)
	assert.Equal(t, 6, cfg.Theme.StarSpikes)
	assert.Equal(t, "black", cfg.Theme.LabelColor, "unset theme keys keep defaults")
}

func TestLoadYAMLFile(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "custom.yaml")
	content := "height: 300\ntheme:\n  font: 14px Arial\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(newFlags(t, "--config", path))
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.Height)
	assert.Equal(t, "14px Arial", cfg.Theme.Font)
	assert.Equal(t, path, cfg.File)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	inTempDir(t)

	_, err := Load(newFlags(t, "--config", "nope.toml"))
	assert.Error(t, err)
}

func TestPriority(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("port = 9000\nwidth = 500\n"), 0o644))
	t.Setenv("DIAGRAMD_PORT", "9100")
	t.Setenv("DIAGRAMD_THEME__LABEL_COLOR", "navy")
	t.Setenv("DIAGRAMD_JSON_LOGS", "true")

	cfg, err := Load(newFlags(t, "--port", "9200", "--pointer-rate", "5"))
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Port, "flag beats env and file")
	assert.Equal(t, 500, cfg.Width, "file beats defaults")
	assert.Equal(t, "navy", cfg.Theme.LabelColor, "nested env key")
	assert.True(t, cfg.JSONLogs)
	assert.Equal(t, 5.0, cfg.PointerRate)
}

func TestVerboseCount(t *testing.T) {
	inTempDir(t)

	cfg, err := Load(newFlags(t, "-vv"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.VerboseCnt)
}

func TestValidation(t *testing.T) {
	inTempDir(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"--format", "gif"}},
		{"negative width", []string{"--width=-1"}},
		{"bad verbosity", []string{"--verbosity", "chatty"}},
		{"port out of range", []string{"--port", "70000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newFlags(t, tt.args...))
			assert.Error(t, err)
		})
	}
}
