// Package mcp exposes an event thread to MCP clients. Tool handlers run on
// the MCP server's goroutines and reach windows only through handles and
// the thread's proxy.
package mcp

import (
	"context"
	"sync"

	"github.com/joeycumines/logiface"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gaudium/internal/config"
	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/reactor"
	"github.com/1broseidon/gaudium/internal/window"
)

const (
	ServerName    = "gaudium"
	ServerVersion = "0.1.0"

	defaultEventLimit = 50
)

// trackedWindow is a window opened through open_window.
type trackedWindow struct {
	handle window.Handle
	title  string
	parent event.WindowID
}

// Server is the MCP server for one event thread.
type Server struct {
	mcpServer *mcpsdk.Server
	proxy     *reactor.Proxy
	recorder  *Recorder
	defaults  config.WindowConfig
	log       *logiface.Logger[logiface.Event]

	mu      sync.Mutex
	windows map[event.WindowID]trackedWindow
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for tool calls.
func WithLogger(l *logiface.Logger[logiface.Event]) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithWindowDefaults sets the title and size used when open_window leaves
// them out.
func WithWindowDefaults(w config.WindowConfig) Option {
	return func(s *Server) {
		s.defaults = w
	}
}

// NewServer creates an MCP server driving the event thread behind proxy.
// rec must be the reactor running on that thread.
func NewServer(proxy *reactor.Proxy, rec *Recorder, opts ...Option) *Server {
	s := &Server{
		proxy:    proxy,
		recorder: rec,
		defaults: config.DefaultConfig().Window,
		windows:  make(map[event.WindowID]trackedWindow),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run serves MCP on stdio, blocking until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Stop asks the event thread to abort. It is a no-op once the thread has exited.
func (s *Server) Stop() {
	if err := s.proxy.Post(func(*reactor.ThreadContext) {
		s.recorder.Stop()
	}); err != nil {
		s.log.Debug().Err(err).Log("event thread already stopped")
	}
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_displays",
		Description: "List the displays of the platform with bounds, usable area, refresh rate, scale and which one is primary.",
	}, s.handleListDisplays)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open a window. Title and size default to the configured window. Returns the window id for the other tools.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the windows opened through this server that are still open.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_geometry",
		Description: "Get the client area of a window in screen coordinates.",
	}, s.handleWindowGeometry)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Request a window to close. The close is queued to the event thread; the window disappears once the platform confirms it.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "recent_events",
		Description: "Return the most recent events delivered by the event thread, oldest first. Optionally filter by window or category.",
	}, s.handleRecentEvents)
}

func (s *Server) track(h window.Handle, title string, parent event.WindowID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[h.ID()] = trackedWindow{handle: h, title: title, parent: parent}
}

// lookup returns a tracked window, forgetting it if it has closed.
func (s *Server) lookup(id event.WindowID) (trackedWindow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[id]
	if !ok {
		return trackedWindow{}, false
	}
	if !w.handle.Alive() {
		delete(s.windows, id)
		return trackedWindow{}, false
	}
	return w, true
}

// open prunes closed windows and returns the rest.
func (s *Server) open() map[event.WindowID]trackedWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[event.WindowID]trackedWindow, len(s.windows))
	for id, w := range s.windows {
		if !w.handle.Alive() {
			delete(s.windows, id)
			continue
		}
		out[id] = w
	}
	return out
}
