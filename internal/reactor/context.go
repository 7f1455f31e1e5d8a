package reactor

import (
	"iter"
	"slices"
	"sync/atomic"

	"github.com/joeycumines/logiface"

	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/platform"
)

// ThreadContext is the per-run state of an event thread. It is created before
// the reactor and invalidated when the thread stops. It must not be used
// from other goroutines; use its Proxy instead.
type ThreadContext struct {
	binding platform.Binding
	session platform.Session
	proxy   *Proxy
	log     *logiface.Logger[logiface.Event]
	windows map[event.WindowID]*Liveness
	valid   bool
}

func newThreadContext(b platform.Binding, s platform.Session, p *Proxy, log *logiface.Logger[logiface.Event]) *ThreadContext {
	return &ThreadContext{
		binding: b,
		session: s,
		proxy:   p,
		log:     log,
		windows: make(map[event.WindowID]*Liveness),
		valid:   true,
	}
}

// Valid reports whether the event thread is still running.
func (c *ThreadContext) Valid() bool {
	return c != nil && c.valid
}

// Binding returns the platform binding driving this thread.
func (c *ThreadContext) Binding() platform.Binding {
	return c.binding
}

// Session returns the native session.
func (c *ThreadContext) Session() platform.Session {
	return c.session
}

// Proxy returns the thread-safe command entry for this thread.
func (c *ThreadContext) Proxy() *Proxy {
	return c.proxy
}

// Logger returns the thread's logger. It may be nil.
func (c *ThreadContext) Logger() *logiface.Logger[logiface.Event] {
	return c.log
}

// Capabilities lists the session's optional extensions.
func (c *ThreadContext) Capabilities() []platform.Capability {
	return platform.Capabilities(c.session)
}

// Displays enumerates the current display topology.
func (c *ThreadContext) Displays() iter.Seq2[platform.Display, error] {
	return c.session.Displays()
}

// Track registers a live window and returns its liveness flag.
func (c *ThreadContext) Track(id event.WindowID) *Liveness {
	if l, ok := c.windows[id]; ok {
		return l
	}
	l := &Liveness{id: id}
	c.windows[id] = l
	return l
}

// Release marks a window as gone. Releasing an unknown window is a no-op.
func (c *ThreadContext) Release(id event.WindowID) {
	if l, ok := c.windows[id]; ok {
		l.gone.Store(true)
		delete(c.windows, id)
	}
}

// Lookup returns the liveness flag of an open window.
func (c *ThreadContext) Lookup(id event.WindowID) (*Liveness, bool) {
	l, ok := c.windows[id]
	return l, ok
}

// OpenWindows returns the ids of the windows still open, in ascending order.
func (c *ThreadContext) OpenWindows() []event.WindowID {
	ids := make([]event.WindowID, 0, len(c.windows))
	for id := range c.windows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// observe updates window bookkeeping before an event is delivered, so that a
// reactor seeing a committed close already finds the window gone.
func (c *ThreadContext) observe(e event.Event) {
	if closed, ok := e.(event.WindowClosed); ok && closed.State == event.CloseCommitted {
		c.Release(closed.Window)
	}
}

// closeWindows closes every tracked window through the session, when the
// session can close windows, and marks them gone.
func (c *ThreadContext) closeWindows() {
	closer, _ := c.session.(platform.WindowCloser)
	for _, id := range c.OpenWindows() {
		if closer != nil {
			if err := closer.CloseWindow(id); err != nil {
				c.log.Warning().Uint64("window", uint64(id)).Err(err).Log("close window during teardown")
			}
		}
		c.Release(id)
	}
}

func (c *ThreadContext) invalidate() {
	for _, id := range c.OpenWindows() {
		c.Release(id)
	}
	c.valid = false
}

// Liveness is a thread-safe flag shared between an owning window and its
// handles.
type Liveness struct {
	id   event.WindowID
	gone atomic.Bool
}

// ID returns the window id.
func (l *Liveness) ID() event.WindowID {
	return l.id
}

// Alive reports whether the window is still open.
func (l *Liveness) Alive() bool {
	return l != nil && !l.gone.Load()
}
