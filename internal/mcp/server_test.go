package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/platform"
	"github.com/1broseidon/gaudium/internal/platform/fake"
	"github.com/1broseidon/gaudium/internal/reactor"
)

func startServer(t *testing.T, opts ...fake.Option) (*Server, *fake.Binding, *reactor.Thread) {
	t.Helper()
	b := fake.New(opts...)
	rec := NewRecorder(16, reactor.Wait)
	th := reactor.Go(b, func(*reactor.ThreadContext) (reactor.Reactor, error) {
		return rec, nil
	})
	s := NewServer(th.Proxy(), rec)
	t.Cleanup(func() {
		s.Stop()
		<-th.Done()
	})
	return s, b, th
}

func intPtr(v int) *int { return &v }

func openWindow(t *testing.T, s *Server, in OpenWindowInput) uint64 {
	t.Helper()
	_, out, err := s.handleOpenWindow(t.Context(), nil, in)
	require.NoError(t, err)
	require.NotZero(t, out.Window)
	return out.Window
}

func TestListDisplays(t *testing.T) {
	s, _, _ := startServer(t)

	_, out, err := s.handleListDisplays(t.Context(), nil, ListDisplaysInput{})
	require.NoError(t, err)
	require.Len(t, out.Displays, 1)
	d := out.Displays[0]
	assert.Equal(t, fake.DefaultDisplay.Name, d.Name)
	assert.True(t, d.Primary)
	assert.Equal(t, Rect{Width: 1920, Height: 1080}, d.Bounds)
	assert.Equal(t, 60.0, d.RefreshHz)
}

func TestOpenWindow_UsesDefaultsAndArgs(t *testing.T) {
	s, b, _ := startServer(t)

	id := openWindow(t, s, OpenWindowInput{Width: 480, Height: 320, X: intPtr(100), Y: intPtr(50)})

	title, ok := b.Sessions()[0].Title(event.WindowID(id))
	require.True(t, ok)
	assert.Equal(t, "gaudium", title)

	_, geom, err := s.handleWindowGeometry(t.Context(), nil, WindowGeometryInput{Window: id})
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 100, Y: 50, Width: 480, Height: 320}, geom.Geometry)

	_, list, err := s.handleListWindows(t.Context(), nil, ListWindowsInput{})
	require.NoError(t, err)
	assert.Equal(t, []WindowInfo{{Window: id, Title: "gaudium"}}, list.Windows)
}

func TestOpenWindow_Child(t *testing.T) {
	s, b, _ := startServer(t)

	parent := openWindow(t, s, OpenWindowInput{Title: "parent"})
	child := openWindow(t, s, OpenWindowInput{Title: "child", Parent: parent})

	got, ok := b.Sessions()[0].Parent(event.WindowID(child))
	require.True(t, ok)
	assert.Equal(t, event.WindowID(parent), got)

	_, list, err := s.handleListWindows(t.Context(), nil, ListWindowsInput{})
	require.NoError(t, err)
	require.Len(t, list.Windows, 2)
	assert.Equal(t, parent, list.Windows[1].Parent)
}

func TestOpenWindow_InvalidArgs(t *testing.T) {
	s, _, _ := startServer(t, fake.WithWindowLimit(1))

	_, _, err := s.handleOpenWindow(t.Context(), nil, OpenWindowInput{X: intPtr(1)})
	assert.Error(t, err)

	_, _, err = s.handleOpenWindow(t.Context(), nil, OpenWindowInput{Width: -1})
	assert.Error(t, err)

	_, _, err = s.handleOpenWindow(t.Context(), nil, OpenWindowInput{Parent: 999})
	assert.ErrorContains(t, err, "parent window 999 is not open")

	openWindow(t, s, OpenWindowInput{})
	_, _, err = s.handleOpenWindow(t.Context(), nil, OpenWindowInput{})
	assert.ErrorIs(t, err, platform.ErrCapacity)
}

func TestCloseWindow(t *testing.T) {
	s, _, _ := startServer(t)
	id := openWindow(t, s, OpenWindowInput{Title: "Test"})

	_, out, err := s.handleCloseWindow(t.Context(), nil, CloseWindowInput{Window: id})
	require.NoError(t, err)
	assert.True(t, out.Queued)

	require.Eventually(t, func() bool {
		_, list, err := s.handleListWindows(t.Context(), nil, ListWindowsInput{})
		return err == nil && len(list.Windows) == 0
	}, time.Second, 5*time.Millisecond)

	_, _, err = s.handleCloseWindow(t.Context(), nil, CloseWindowInput{Window: id})
	assert.ErrorContains(t, err, "is not open")
	_, _, err = s.handleWindowGeometry(t.Context(), nil, WindowGeometryInput{Window: id})
	assert.ErrorContains(t, err, "is not open")

	_, events, err := s.handleRecentEvents(t.Context(), nil, RecentEventsInput{Category: "window"})
	require.NoError(t, err)
	require.NotEmpty(t, events.Events)
	last := events.Events[len(events.Events)-1]
	assert.Equal(t, "WindowClosed", last.Type)
	assert.Equal(t, id, last.Window)
	assert.Contains(t, last.Detail, "State:committed")
}

func TestRecorder_HonoursCloseRequest(t *testing.T) {
	s, b, _ := startServer(t)
	id := openWindow(t, s, OpenWindowInput{})

	b.Sessions()[0].Inject(fake.Close{Window: event.WindowID(id)})

	require.Eventually(t, func() bool {
		_, list, err := s.handleListWindows(t.Context(), nil, ListWindowsInput{})
		return err == nil && len(list.Windows) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestRecentEvents_Filters(t *testing.T) {
	s, b, _ := startServer(t)
	id := openWindow(t, s, OpenWindowInput{})
	session := b.Sessions()[0]
	session.Inject(
		fake.Key{Window: event.WindowID(id), Name: "A", Pressed: true},
		fake.Motion{Window: event.WindowID(id), X: 1, Y: 2},
		fake.Motion{Window: event.WindowID(id), X: 3, Y: 4},
	)

	var out RecentEventsOutput
	require.Eventually(t, func() bool {
		var err error
		_, out, err = s.handleRecentEvents(t.Context(), nil, RecentEventsInput{Category: "mouse"})
		return err == nil && len(out.Events) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "MouseMoved", out.Events[0].Type)
	assert.Less(t, out.Events[0].Seq, out.Events[1].Seq)

	_, out, err := s.handleRecentEvents(t.Context(), nil, RecentEventsInput{Limit: 1, Window: id})
	require.NoError(t, err)
	require.Len(t, out.Events, 1)
	assert.Equal(t, "MouseMoved", out.Events[0].Type)
	assert.GreaterOrEqual(t, out.Total, uint64(3))

	_, _, err = s.handleRecentEvents(t.Context(), nil, RecentEventsInput{Category: "touch"})
	assert.ErrorContains(t, err, `unknown category "touch"`)
}

func TestTools_AfterThreadExit(t *testing.T) {
	s, _, th := startServer(t)
	id := openWindow(t, s, OpenWindowInput{})

	s.Stop()
	require.NoError(t, th.Wait())

	_, _, err := s.handleListDisplays(t.Context(), nil, ListDisplaysInput{})
	assert.ErrorIs(t, err, platform.ErrGone)
	_, _, err = s.handleOpenWindow(t.Context(), nil, OpenWindowInput{})
	assert.ErrorIs(t, err, platform.ErrGone)
	_, _, err = s.handleRecentEvents(t.Context(), nil, RecentEventsInput{})
	assert.ErrorIs(t, err, platform.ErrGone)
	_, _, err = s.handleCloseWindow(t.Context(), nil, CloseWindowInput{Window: id})
	assert.ErrorContains(t, err, "is not open")
}

func TestRecentEvents_Cancelled(t *testing.T) {
	s, _, _ := startServer(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, _, err := s.handleRecentEvents(ctx, nil, RecentEventsInput{})
	assert.ErrorIs(t, err, context.Canceled)
}
