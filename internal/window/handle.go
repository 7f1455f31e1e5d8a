package window

import (
	"context"

	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/platform"
	"github.com/1broseidon/gaudium/internal/reactor"
)

// Handle is a non-owning, thread-safe window reference. The zero Handle
// refers to no window and every operation on it fails with ErrGone.
//
// ID and Alive never touch the platform. Close and SetTitle are queued to
// the event thread and return once queued; they fail with ErrUnsupported
// up front when the platform lacks the extension. Geometry and ToScreen
// wait for the event thread, bounded by their context.
type Handle struct {
	id    event.WindowID
	live  *reactor.Liveness
	proxy *reactor.Proxy
	caps  []platform.Capability
}

func newHandle(ctx *reactor.ThreadContext, id event.WindowID, live *reactor.Liveness) Handle {
	return Handle{id: id, live: live, proxy: ctx.Proxy(), caps: ctx.Capabilities()}
}

func (h Handle) ID() event.WindowID {
	return h.id
}

// Alive reports whether the window and its event thread are still running.
func (h Handle) Alive() bool {
	return h.live.Alive() && h.proxy != nil && !h.proxy.Closed()
}

// Close queues a close request.
func (h Handle) Close() error {
	return h.post("close window", platform.CapCloseWindow, "programmatic close", func(tc *reactor.ThreadContext) error {
		return closeWindow(tc, h.id)
	})
}

// SetTitle queues a title change.
func (h Handle) SetTitle(title string) error {
	return h.post("set title", platform.CapSetTitle, "title changes", func(tc *reactor.ThreadContext) error {
		return setTitle(tc, h.id, title)
	})
}

// Geometry queries the client area in screen coordinates.
func (h Handle) Geometry(ctx context.Context) (platform.Rect, error) {
	if !h.Alive() {
		return platform.Rect{}, gone("window geometry", h.id)
	}
	return await(ctx, h.proxy, func(tc *reactor.ThreadContext) (platform.Rect, error) {
		if !h.live.Alive() {
			return platform.Rect{}, gone("window geometry", h.id)
		}
		return geometry(tc, h.id)
	})
}

// ToScreen maps a point in window coordinates to screen coordinates.
func (h Handle) ToScreen(ctx context.Context, p platform.Point) (platform.Point, error) {
	if !h.Alive() {
		return platform.Point{}, gone("window to screen", h.id)
	}
	return await(ctx, h.proxy, func(tc *reactor.ThreadContext) (platform.Point, error) {
		if !h.live.Alive() {
			return platform.Point{}, gone("window to screen", h.id)
		}
		return toScreen(tc, h.id, p)
	})
}

func (h Handle) post(op string, need platform.Capability, what string, fn func(tc *reactor.ThreadContext) error) error {
	if !h.Alive() {
		return gone(op, h.id)
	}
	if !platform.Has(h.caps, need) {
		return unsupported(op, h.id, what)
	}
	return h.proxy.Post(func(tc *reactor.ThreadContext) {
		if !h.live.Alive() {
			tc.Logger().Warning().Str("op", op).Uint64("window", uint64(h.id)).Log("window closed before queued command ran")
			return
		}
		if err := fn(tc); err != nil {
			tc.Logger().Warning().Str("op", op).Uint64("window", uint64(h.id)).Err(err).Log("queued window command failed")
		}
	})
}

// HandleOf returns a handle to a window the event thread still tracks.
func HandleOf(ctx *reactor.ThreadContext, id event.WindowID) (Handle, bool) {
	live, ok := ctx.Lookup(id)
	if !ok || !live.Alive() {
		return Handle{}, false
	}
	return newHandle(ctx, id, live), true
}
