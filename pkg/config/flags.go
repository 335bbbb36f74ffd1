package config

import "github.com/spf13/pflag"

// RegisterFlags adds the flags shared by every command. Defaults live in
// Load, so flags only override when set.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Config file (toml or yaml, default ./"+DefaultFile+" if present)")
	fs.String("scene", "", "Scene file with nodes and edges (toml, yaml or json)")
	fs.Int("width", 0, "Surface width in pixels")
	fs.Int("height", 0, "Surface height in pixels")
	fs.String("verbosity", "", "Log level: trace, debug, info, warn, error")
	fs.CountP("verbose", "v", "Increase verbosity (-v debug, -vv trace)")
	fs.Bool("json-logs", false, "Log as JSON")
}

// RegisterServeFlags adds the web server flags.
func RegisterServeFlags(fs *pflag.FlagSet) {
	fs.Int("port", 0, "Port for the web server")
	fs.Bool("open", false, "Open the browser after starting")
	fs.Bool("watch", false, "Reload theme and log level when the config file changes")
	fs.Bool("raw-pointer", false, "Hit-test pointer positions without undoing pan/zoom")
	fs.Float64("pointer-rate", 0, "Pointer events per second accepted from HTTP clients")
	fs.Int("pointer-burst", 0, "Pointer event burst size")
}

// RegisterRenderFlags adds the headless render flags.
func RegisterRenderFlags(fs *pflag.FlagSet) {
	fs.StringP("format", "f", "", "Output format: png or svg")
	fs.StringP("out", "o", "", "Output file (default stdout)")
	fs.Bool("summary", false, "Print a colored scene summary to stderr")
}
