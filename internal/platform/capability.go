package platform

import "slices"

// Optional session extensions. Callers probe for them with a type assertion
// or with Capabilities; no operation here is guaranteed to exist.

// WindowCloser closes windows programmatically.
type WindowCloser interface {
	CloseWindow(id WindowID) error
}

// GeometryQuerier reports a window's client area in screen coordinates.
type GeometryQuerier interface {
	WindowGeometry(id WindowID) (Rect, error)
}

// CoordinateTransformer maps window coordinates to screen coordinates.
type CoordinateTransformer interface {
	WindowToScreen(id WindowID, p Point) (Point, error)
}

// TitleSetter changes a window's title after creation.
type TitleSetter interface {
	SetWindowTitle(id WindowID, title string) error
}

// ChildWindows is implemented by sessions that accept a parent in
// WindowConfig.
type ChildWindows interface {
	SupportsChildWindows() bool
}

// WindowLimiter reports the per-process window limit. Zero means unlimited.
type WindowLimiter interface {
	MaxWindows() int
}

// MultiLoop is implemented by bindings that can run more than one event
// thread at a time.
type MultiLoop interface {
	SupportsMultipleLoops() bool
}

// Capability names an optional extension.
type Capability string

const (
	CapCloseWindow   Capability = "close-window"
	CapGeometry      Capability = "geometry"
	CapTransform     Capability = "coordinate-transform"
	CapSetTitle      Capability = "set-title"
	CapChildWindows  Capability = "child-windows"
	CapWindowLimit   Capability = "window-limit"
	CapMultipleLoops Capability = "multiple-loops"
)

// Capabilities lists the extensions a session implements, in a stable order.
func Capabilities(s Session) []Capability {
	var caps []Capability
	if _, ok := s.(WindowCloser); ok {
		caps = append(caps, CapCloseWindow)
	}
	if _, ok := s.(GeometryQuerier); ok {
		caps = append(caps, CapGeometry)
	}
	if _, ok := s.(CoordinateTransformer); ok {
		caps = append(caps, CapTransform)
	}
	if _, ok := s.(TitleSetter); ok {
		caps = append(caps, CapSetTitle)
	}
	if c, ok := s.(ChildWindows); ok && c.SupportsChildWindows() {
		caps = append(caps, CapChildWindows)
	}
	if l, ok := s.(WindowLimiter); ok && l.MaxWindows() > 0 {
		caps = append(caps, CapWindowLimit)
	}
	return caps
}

// SupportsMultipleLoops reports whether b may run concurrent event threads.
func SupportsMultipleLoops(b Binding) bool {
	m, ok := b.(MultiLoop)
	return ok && m.SupportsMultipleLoops()
}

// Has reports whether caps contains c.
func Has(caps []Capability, c Capability) bool {
	return slices.Contains(caps, c)
}
