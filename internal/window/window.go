package window

import (
	"errors"

	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/platform"
	"github.com/1broseidon/gaudium/internal/reactor"
)

// Window is the owning instance of a native window. It is confined to the
// event thread that built it.
type Window struct {
	ctx   *reactor.ThreadContext
	id    event.WindowID
	title string
	size  platform.Size
	live  *reactor.Liveness
}

func (w *Window) ID() event.WindowID {
	return w.id
}

// Title returns the last title set through this window.
func (w *Window) Title() string {
	return w.title
}

// Size returns the requested client size.
func (w *Window) Size() platform.Size {
	return w.size
}

// Alive reports whether the native window still exists.
func (w *Window) Alive() bool {
	return w.live.Alive() && w.ctx.Valid()
}

// Handle returns a thread-safe reference to the window.
func (w *Window) Handle() Handle {
	return newHandle(w.ctx, w.id, w.live)
}

// Geometry queries the client area in screen coordinates.
func (w *Window) Geometry() (platform.Rect, error) {
	if !w.Alive() {
		return platform.Rect{}, gone("window geometry", w.id)
	}
	return geometry(w.ctx, w.id)
}

// ToScreen maps a point in window coordinates to screen coordinates.
func (w *Window) ToScreen(p platform.Point) (platform.Point, error) {
	if !w.Alive() {
		return platform.Point{}, gone("window to screen", w.id)
	}
	return toScreen(w.ctx, w.id, p)
}

// SetTitle changes the native title.
func (w *Window) SetTitle(title string) error {
	if !w.Alive() {
		return gone("set title", w.id)
	}
	if err := setTitle(w.ctx, w.id, title); err != nil {
		return err
	}
	w.title = title
	return nil
}

// Close asks the platform to destroy the window. The window stays alive
// until the committed close event is delivered.
func (w *Window) Close() error {
	if !w.Alive() {
		return gone("close window", w.id)
	}
	return closeWindow(w.ctx, w.id)
}

func gone(op string, id event.WindowID) error {
	return platform.NewError(platform.KindGone, op, id, nil)
}

func unsupported(op string, id event.WindowID, what string) error {
	return platform.NewError(platform.KindUnsupported, op, id, errors.New(what))
}

func geometry(ctx *reactor.ThreadContext, id event.WindowID) (platform.Rect, error) {
	q, ok := ctx.Session().(platform.GeometryQuerier)
	if !ok {
		return platform.Rect{}, unsupported("window geometry", id, "geometry queries")
	}
	return q.WindowGeometry(id)
}

func toScreen(ctx *reactor.ThreadContext, id event.WindowID, p platform.Point) (platform.Point, error) {
	t, ok := ctx.Session().(platform.CoordinateTransformer)
	if !ok {
		return platform.Point{}, unsupported("window to screen", id, "coordinate transforms")
	}
	return t.WindowToScreen(id, p)
}

func setTitle(ctx *reactor.ThreadContext, id event.WindowID, title string) error {
	t, ok := ctx.Session().(platform.TitleSetter)
	if !ok {
		return unsupported("set title", id, "title changes")
	}
	return t.SetWindowTitle(id, title)
}

func closeWindow(ctx *reactor.ThreadContext, id event.WindowID) error {
	c, ok := ctx.Session().(platform.WindowCloser)
	if !ok {
		return unsupported("close window", id, "programmatic close")
	}
	return c.CloseWindow(id)
}
