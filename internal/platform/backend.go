package platform

import (
	"iter"

	"github.com/1broseidon/gaudium/internal/event"
)

// WindowID is a platform-neutral window identifier.
type WindowID = event.WindowID

// Native is a platform-specific event value. Only the session that produced
// it knows its concrete type.
type Native any

// Binding abstracts one operating environment's windowing and input APIs.
type Binding interface {
	// Name identifies the binding in logs and errors.
	Name() string
	// Open sets up native event-loop resources for the calling thread. It
	// fails with ErrInit when the native subsystem cannot be reached.
	Open() (Session, error)
}

// Session is the native state owned by one event thread. All methods are
// called from that thread only, except Ready, whose channel may be received
// from by the event thread while it is idle.
type Session interface {
	// Displays queries the current display topology. Each iteration of the
	// returned sequence re-queries the platform.
	Displays() iter.Seq2[Display, error]

	// BuildWindow realizes a window. It fails with ErrCapacity when the
	// per-process window limit is reached and with ErrParameter or
	// ErrUnsupported when the configuration cannot be honored.
	BuildWindow(cfg WindowConfig) (WindowID, error)

	// Pump yields the native events pending at call time and removes them.
	// It never waits for new events. An error yielded with ErrFatal means the
	// native loop cannot proceed.
	Pump() iter.Seq2[Native, error]

	// Translate maps a native event to the normalized vocabulary. Unmappable
	// events report false and are dropped.
	Translate(n Native) (event.Event, bool)

	// Ready is signaled when native events may be pending. A nil channel
	// means the platform never produces events on its own.
	Ready() <-chan struct{}

	// Close releases the session's native resources, destroying any windows
	// still open.
	Close() error
}

// WindowConfig is the platform-agnostic window configuration handed to
// BuildWindow.
type WindowConfig struct {
	Title       string
	Size        Size
	Position    Point
	HasPosition bool
	// Parent is zero for top-level windows.
	Parent WindowID
	// Extensions carries platform-specific options. Bindings reject values
	// they do not recognize with ErrUnsupported.
	Extensions []any
}
