package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/gaudium/internal/config"
	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/logging"
	"github.com/1broseidon/gaudium/internal/reactor"
	"github.com/1broseidon/gaudium/internal/window"
	"github.com/1broseidon/gaudium/internal/x11"
)

func runRun(args []string) int {
	if isHelp(args) {
		fmt.Fprintln(os.Stdout, "Usage: gaudium run [--config PATH]")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Open the configured window and log every event until it is closed.")
		return 0
	}
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
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

	th := reactor.Go(binding, func(tc *reactor.ThreadContext) (reactor.Reactor, error) {
		w, err := windowBuilder(cfg).Build(tc)
		if err != nil {
			return nil, err
		}
		return newEventLog(w, logger, idleDirective(cfg.Idle)), nil
	}, reactor.WithLogger(logger))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info().Log("interrupted, closing")
			_ = th.Proxy().Post(stopEventLog)
		case <-th.Done():
		}
	}()

	if err := th.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func windowBuilder(cfg *config.Config) window.Builder {
	wc := cfg.Window
	b := window.NewBuilder().WithTitle(wc.Title).WithSize(wc.Width, wc.Height)
	if wc.HasPosition() {
		b = b.WithPosition(*wc.X, *wc.Y)
	}
	if wc.Class != "" && cfg.Platform == config.PlatformX11 {
		b = b.WithExtension(x11.Class{Instance: wc.Class, Class: wc.Class})
	}
	return b
}

// eventLog logs every event of its window and closes it on request.
type eventLog struct {
	w       *window.Window
	log     *logging.Logger
	idle    reactor.Directive
	stopped bool
	count   int
}

func newEventLog(w *window.Window, log *logging.Logger, idle reactor.Directive) *eventLog {
	log.Info().Uint64("window", uint64(w.ID())).Str("title", w.Title()).Log("window open")
	return &eventLog{w: w, log: log, idle: idle}
}

// stopEventLog is posted to the event thread to end the run.
func stopEventLog(tc *reactor.ThreadContext) {
	for _, id := range tc.OpenWindows() {
		if h, ok := window.HandleOf(tc, id); ok {
			_ = h.Close()
		}
	}
}

func (l *eventLog) React(_ *reactor.ThreadContext, e event.Event) reactor.Directive {
	if _, ok := e.(event.Resumed); ok {
		return l.idle
	}
	l.count++
	b := l.log.Info().
		Str("category", e.Category().String()).
		Str("event", fmt.Sprintf("%+v", e)).
		Int("seq", l.count)
	if id, ok := event.Window(e); ok {
		b = b.Uint64("window", uint64(id))
	}
	b.Log(fmt.Sprintf("%T", e))

	closed, ok := e.(event.WindowClosed)
	if !ok || closed.Window != l.w.ID() {
		return l.idle
	}
	switch closed.State {
	case event.CloseRequested:
		if err := l.w.Close(); err != nil {
			l.log.Warning().Err(err).Log("failed to close window")
		}
	case event.CloseCommitted:
		l.stopped = true
		return reactor.Abort
	}
	return l.idle
}

func (l *eventLog) Poll(*reactor.ThreadContext) reactor.Directive {
	if l.stopped {
		return reactor.Abort
	}
	return l.idle
}

func (l *eventLog) Abort() {
	l.log.Info().Int("events", l.count).Log("event log closed")
}
