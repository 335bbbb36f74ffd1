package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ritzau/diagram-canvas/pkg/config"
	"github.com/ritzau/diagram-canvas/pkg/diagram"
	"github.com/ritzau/diagram-canvas/pkg/logging"
	"github.com/ritzau/diagram-canvas/pkg/watcher"
	"github.com/ritzau/diagram-canvas/pkg/web"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram in the browser",
		Long: "Hosts a diagram behind an HTTP API. The page draws the frames the\n" +
			"server renders and forwards pointer events back to it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Flags(), cfg)
		},
	}
	config.RegisterServeFlags(cmd.Flags())
	return cmd
}

func runServe(flags *pflag.FlagSet, cfg *config.Config) error {
	server, err := web.NewServer(web.Options{
		Width:        cfg.Width,
		Height:       cfg.Height,
		Theme:        cfg.Theme,
		RawPointer:   cfg.RawPointer,
		PointerRate:  cfg.PointerRate,
		PointerBurst: cfg.PointerBurst,
	})
	if err != nil {
		return err
	}

	sf, err := loadScene(cfg.Scene)
	if err != nil {
		return err
	}
	server.Do(func(d *diagram.Surface) { populate(d, sf) })
	logging.Info("scene loaded", "nodes", len(sf.Nodes), "edges", len(sf.Edges))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch {
		if err := watchConfig(ctx, flags, cfg, server); err != nil {
			return err
		}
	}

	if cfg.OpenBrowser {
		go func() {
			// Wait a moment for server to start
			time.Sleep(500 * time.Millisecond)
			openBrowser(browserURL(cfg.Port))
		}()
	}

	return server.Start(ctx, cfg.Port)
}

// watchConfig reloads the theme and log level whenever the config file
// changes. Settings that shape the server itself need a restart.
func watchConfig(ctx context.Context, flags *pflag.FlagSet, cfg *config.Config, server *web.Server) error {
	path := cfg.File
	if path == "" {
		path = config.DefaultFile
	}

	fw, err := watcher.NewFileWatcher(path)
	if err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}
	if err := fw.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}

	debouncer := watcher.NewDebouncer(fw.Events(), 200*time.Millisecond, 2*time.Second)
	debouncer.Start(ctx)

	logging.Info("watching config file", "path", path)

	go func() {
		for event := range debouncer.Output() {
			change := watcher.AnalyzeChanges(event)
			switch {
			case change.Removed:
				logging.Warn("config file removed, keeping current settings", "files", change.ChangedFiles)
			case change.NeedReload:
				reloadConfig(flags, server)
			}
		}
	}()
	return nil
}

func reloadConfig(flags *pflag.FlagSet, server *web.Server) {
	next, err := config.Load(flags)
	if err != nil {
		logging.Warn("config reload failed, keeping current settings", "error", err)
		return
	}
	if err := applyLogging(next); err != nil {
		logging.Warn("invalid log level in reloaded config", "error", err)
	}
	server.SetTheme(next.Theme)
	logging.Info("config reloaded", "level", logging.Level().String())
}
