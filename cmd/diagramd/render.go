package main

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ritzau/diagram-canvas/pkg/analysis"
	"github.com/ritzau/diagram-canvas/pkg/canvas"
	"github.com/ritzau/diagram-canvas/pkg/canvas/raster"
	"github.com/ritzau/diagram-canvas/pkg/canvas/vector"
	"github.com/ritzau/diagram-canvas/pkg/config"
	"github.com/ritzau/diagram-canvas/pkg/diagram"
	"github.com/ritzau/diagram-canvas/pkg/logging"
	"github.com/ritzau/diagram-canvas/pkg/output"
)

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a diagram to PNG or SVG",
		Long: "Draws the scene from --scene (or a built-in sample) once and writes\n" +
			"the image to --out or stdout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runRender(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	config.RegisterRenderFlags(cmd.Flags())
	return cmd
}

// exportCanvas is a canvas that can write its surface as an image.
type exportCanvas struct {
	canvas.Canvas
	encode func(io.Writer) error
}

func newExportCanvas(cfg *config.Config) (*exportCanvas, error) {
	switch cfg.Format {
	case "svg":
		c := vector.New(cfg.Width, cfg.Height)
		return &exportCanvas{Canvas: c, encode: c.Encode}, nil
	case "png":
		white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
		c, err := raster.New(cfg.Width, cfg.Height, raster.WithBackground(canvas.ColorOr(cfg.Theme.Background, white)))
		if err != nil {
			return nil, err
		}
		return &exportCanvas{Canvas: c, encode: c.EncodePNG}, nil
	}
	return nil, fmt.Errorf("unsupported format %q", cfg.Format)
}

func runRender(cfg *config.Config, stdout, stderr io.Writer) (err error) {
	sf, err := loadScene(cfg.Scene)
	if err != nil {
		return err
	}

	ec, err := newExportCanvas(cfg)
	if err != nil {
		return err
	}

	surface, err := diagram.New(diagram.CanvasHost{Canvas: ec}, cfg.Width, cfg.Height, diagram.WithTheme(cfg.Theme))
	if err != nil {
		return err
	}
	populate(surface, sf)

	out := stdout
	if cfg.Out != "" {
		f, err := os.Create(cfg.Out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cerr)
			}
		}()
		out = f
	}

	if err := ec.encode(out); err != nil {
		return err
	}
	logging.Debug("diagram rendered", "format", cfg.Format, "out", cfg.Out, "renders", surface.RenderCount())

	if cfg.Summary {
		output.PrintSceneSummary(stderr, surface, analysis.Analyze(surface.Scene()))
	}
	return nil
}
