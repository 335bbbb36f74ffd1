// Command diagramd hosts an interactive node-edge diagram in the browser
// and renders diagrams headlessly to PNG or SVG.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ritzau/diagram-canvas/pkg/config"
	"github.com/ritzau/diagram-canvas/pkg/logging"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "diagramd",
		Short:        "Interactive node-edge diagrams",
		SilenceUsage: true,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(serveCmd(), renderCmd())
	return root
}

// loadConfig reads the configuration for cmd and applies its logging
// settings. Logs always go to stderr so stdout stays free for output.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := applyLogging(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyLogging(cfg *config.Config) error {
	level, err := logging.ParseLevel(cfg.Verbosity, cfg.VerboseCnt)
	if err != nil {
		return err
	}
	logging.SetLevel(level)
	if cfg.JSONLogs {
		logging.SetJSONOutput(os.Stderr)
	} else {
		logging.SetOutput(os.Stderr)
	}
	return nil
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		logging.Warn("cannot open browser on this platform", "os", runtime.GOOS)
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		logging.Warn("failed to open browser", "url", url, "error", err)
	}
}

func browserURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}
