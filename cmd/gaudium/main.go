package main

import (
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/gaudium/internal/config"
	"github.com/1broseidon/gaudium/internal/logging"
	"github.com/1broseidon/gaudium/internal/platform"
	"github.com/1broseidon/gaudium/internal/platform/empty"
	"github.com/1broseidon/gaudium/internal/reactor"
	"github.com/1broseidon/gaudium/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runRun(os.Args[2:]))
	case "displays":
		os.Exit(runDisplays(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gaudium <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run        Open a window and log every event it receives")
	fmt.Fprintln(w, "  displays   List the displays of the platform")
	fmt.Fprintln(w, "  config     Validate, print or explain the configuration")
	fmt.Fprintln(w, "  mcp        Serve windows and events over MCP")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'gaudium <command> --help' for command-specific options.")
}

func isHelp(args []string) bool {
	return len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help")
}

// loadConfig loads path, or the default location when path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

// setup loads the configuration and builds the logger and binding it
// describes. The returned closer flushes the log file.
func setup(path string) (*config.Config, *logging.Logger, platform.Binding, io.Closer, error) {
	res, err := loadConfig(path)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	cfg := res.Config
	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return cfg, logger, newBinding(cfg, logger), closer, nil
}

func newBinding(cfg *config.Config, logger *logging.Logger) platform.Binding {
	switch cfg.Platform {
	case config.PlatformEmpty:
		return empty.New()
	default:
		return x11.New(x11.WithDisplay(cfg.Display), x11.WithLogger(logger))
	}
}

// idleDirective maps the configured idle mode to the directive reactors
// return between events.
func idleDirective(idle string) reactor.Directive {
	if idle == config.IdleReady {
		return reactor.Continue
	}
	return reactor.Wait
}
