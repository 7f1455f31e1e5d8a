package mcp

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/platform"
	"github.com/1broseidon/gaudium/internal/reactor"
	"github.com/1broseidon/gaudium/internal/window"
)

func rectOf(r platform.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (s *Server) handleListDisplays(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ListDisplaysInput) (*mcpsdk.CallToolResult, ListDisplaysOutput, error) {
	displays, err := window.DisplaysVia(ctx, s.proxy)
	if err != nil {
		return nil, ListDisplaysOutput{}, fmt.Errorf("list displays: %w", err)
	}
	out := ListDisplaysOutput{Displays: make([]DisplayInfo, 0, len(displays))}
	for _, d := range displays {
		out.Displays = append(out.Displays, DisplayInfo{
			ID:        int(d.ID),
			Name:      d.Name,
			Bounds:    rectOf(d.Bounds),
			Usable:    rectOf(d.Usable),
			RefreshHz: d.RefreshHz,
			Scale:     d.Scale,
			Primary:   d.Primary,
		})
	}
	return nil, out, nil
}

func (s *Server) handleOpenWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, OpenWindowOutput, error) {
	if (args.X == nil) != (args.Y == nil) {
		return nil, OpenWindowOutput{}, errors.New("x and y must be given together")
	}
	if args.Width < 0 || args.Height < 0 {
		return nil, OpenWindowOutput{}, errors.New("width and height must not be negative")
	}

	title := args.Title
	if title == "" {
		title = s.defaults.Title
	}
	width, height := args.Width, args.Height
	if width == 0 {
		width = s.defaults.Width
	}
	if height == 0 {
		height = s.defaults.Height
	}

	b := window.NewBuilder().WithTitle(title).WithSize(width, height)
	if args.X != nil {
		b = b.WithPosition(*args.X, *args.Y)
	}
	parent := event.WindowID(args.Parent)
	if parent != 0 {
		p, ok := s.lookup(parent)
		if !ok {
			return nil, OpenWindowOutput{}, fmt.Errorf("parent window %d is not open", args.Parent)
		}
		b = b.WithParent(p.handle)
	}

	h, err := b.BuildVia(ctx, s.proxy)
	if err != nil {
		s.log.Warning().Str("title", title).Err(err).Log("open_window failed")
		return nil, OpenWindowOutput{}, fmt.Errorf("open window: %w", err)
	}
	s.track(h, title, parent)
	s.log.Info().Uint64("window", uint64(h.ID())).Str("title", title).Log("window opened")
	return nil, OpenWindowOutput{Window: uint64(h.ID()), Title: title}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	open := s.open()
	out := ListWindowsOutput{Windows: make([]WindowInfo, 0, len(open))}
	for id, w := range open {
		out.Windows = append(out.Windows, WindowInfo{
			Window: uint64(id),
			Title:  w.title,
			Parent: uint64(w.parent),
		})
	}
	slices.SortFunc(out.Windows, func(a, b WindowInfo) int {
		return cmp.Compare(a.Window, b.Window)
	})
	return nil, out, nil
}

func (s *Server) handleWindowGeometry(ctx context.Context, _ *mcpsdk.CallToolRequest, args WindowGeometryInput) (*mcpsdk.CallToolResult, WindowGeometryOutput, error) {
	w, ok := s.lookup(event.WindowID(args.Window))
	if !ok {
		return nil, WindowGeometryOutput{}, fmt.Errorf("window %d is not open", args.Window)
	}
	r, err := w.handle.Geometry(ctx)
	if err != nil {
		return nil, WindowGeometryOutput{}, fmt.Errorf("window geometry: %w", err)
	}
	return nil, WindowGeometryOutput{Window: args.Window, Geometry: rectOf(r)}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CloseWindowInput) (*mcpsdk.CallToolResult, CloseWindowOutput, error) {
	w, ok := s.lookup(event.WindowID(args.Window))
	if !ok {
		return nil, CloseWindowOutput{Window: args.Window}, fmt.Errorf("window %d is not open", args.Window)
	}
	if err := w.handle.Close(); err != nil {
		return nil, CloseWindowOutput{Window: args.Window}, fmt.Errorf("close window: %w", err)
	}
	s.log.Info().Uint64("window", args.Window).Log("window close queued")
	return nil, CloseWindowOutput{Window: args.Window, Queued: true}, nil
}

func (s *Server) handleRecentEvents(ctx context.Context, _ *mcpsdk.CallToolRequest, args RecentEventsInput) (*mcpsdk.CallToolResult, RecentEventsOutput, error) {
	limit := args.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}
	keep, err := eventFilter(args)
	if err != nil {
		return nil, RecentEventsOutput{}, err
	}

	// The history belongs to the event thread; the copy is handed back on a
	// channel so a cancelled call never races it.
	type snapshot struct {
		records []Record
		total   uint64
	}
	ch := make(chan snapshot, 1)
	err = s.proxy.Call(ctx, func(*reactor.ThreadContext) error {
		ch <- snapshot{records: s.recorder.Recent(limit, keep), total: s.recorder.Total()}
		return nil
	})
	if err != nil {
		return nil, RecentEventsOutput{}, fmt.Errorf("recent events: %w", err)
	}
	snap := <-ch

	out := RecentEventsOutput{Events: make([]EventInfo, 0, len(snap.records)), Total: snap.total}
	for _, rec := range snap.records {
		out.Events = append(out.Events, eventInfo(rec))
	}
	return nil, out, nil
}

func eventFilter(args RecentEventsInput) (func(Record) bool, error) {
	var category *event.Category
	if args.Category != "" {
		for c := event.CategoryApplication; c <= event.CategoryDevice; c++ {
			if c.String() == args.Category {
				category = &c
				break
			}
		}
		if category == nil {
			return nil, fmt.Errorf("unknown category %q", args.Category)
		}
	}
	if category == nil && args.Window == 0 {
		return nil, nil
	}
	return func(rec Record) bool {
		if category != nil && rec.Event.Category() != *category {
			return false
		}
		return args.Window == 0 || event.ForWindow(rec.Event, event.WindowID(args.Window))
	}, nil
}
