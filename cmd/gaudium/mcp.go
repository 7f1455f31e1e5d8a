package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/gaudium/internal/mcp"
	"github.com/1broseidon/gaudium/internal/reactor"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gaudium mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	if isHelp(args) {
		fmt.Fprintln(os.Stdout, "Usage: gaudium mcp serve [--config PATH]")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Run an event thread and serve its windows and events on stdio.")
		fmt.Fprintln(os.Stdout, "Logs go to stderr or the configured log file, never stdout.")
		return 0
	}
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/gaudium/config.yaml)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, logger, binding, closer, err := setup(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closer.Close()

	rec := mcp.NewRecorder(cfg.Events.History, idleDirective(cfg.Idle))
	th := reactor.Go(binding, func(*reactor.ThreadContext) (reactor.Reactor, error) {
		return rec, nil
	}, reactor.WithLogger(logger))

	server := mcp.NewServer(th.Proxy(), rec,
		mcp.WithLogger(logger),
		mcp.WithWindowDefaults(cfg.Window),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		// Stop serving if the event thread dies under us.
		select {
		case <-th.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	serveErr := server.Run(ctx)
	server.Stop()
	threadErr := th.Wait()

	if serveErr != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", serveErr)
		return 1
	}
	if threadErr != nil {
		fmt.Fprintf(os.Stderr, "event thread: %v\n", threadErr)
		return 1
	}
	return 0
}
