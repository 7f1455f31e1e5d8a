// Package fake provides a scriptable in-memory platform binding.
//
// Tests inject native values (Key, Motion, Close, ...) into a session; the
// event thread pumps and translates them exactly as it would native events
// from a real windowing system.
package fake

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"sync"

	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/platform"
)

// DefaultDisplay is the single display of a binding built without
// WithDisplays.
var DefaultDisplay = platform.Display{
	ID:        1,
	Name:      "FAKE-1",
	Bounds:    platform.Rect{Width: 1920, Height: 1080},
	Usable:    platform.Rect{Y: 32, Width: 1920, Height: 1048},
	RefreshHz: 60,
	Scale:     1,
	Primary:   true,
}

// Option configures a Binding.
type Option func(*Binding)

// WithDisplays replaces the display topology.
func WithDisplays(displays ...platform.Display) Option {
	return func(b *Binding) {
		b.displays = displays
	}
}

// WithWindowLimit caps the number of open windows per session.
func WithWindowLimit(n int) Option {
	return func(b *Binding) {
		b.limit = n
	}
}

// WithoutChildWindows makes sessions reject parented windows.
func WithoutChildWindows() Option {
	return func(b *Binding) {
		b.noChildren = true
	}
}

// WithMultipleLoops lets several event threads share the binding.
func WithMultipleLoops() Option {
	return func(b *Binding) {
		b.multi = true
	}
}

// FailOpen makes Open fail with err.
func FailOpen(err error) Option {
	return func(b *Binding) {
		b.openErr = err
	}
}

// WithScript queues natives in every new session before the event thread
// first pumps.
func WithScript(natives ...platform.Native) Option {
	return func(b *Binding) {
		b.script = append(b.script, natives...)
	}
}

// Binding is the fake platform.
type Binding struct {
	displays   []platform.Display
	limit      int
	noChildren bool
	multi      bool
	openErr    error
	script     []platform.Native

	mu       sync.Mutex
	sessions []*Session
	opened   chan *Session
}

// New builds a fake binding.
func New(opts ...Option) *Binding {
	b := &Binding{
		displays: []platform.Display{DefaultDisplay},
		opened:   make(chan *Session, 16),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Binding) Name() string {
	return "fake"
}

func (b *Binding) SupportsMultipleLoops() bool {
	return b.multi
}

func (b *Binding) Open() (platform.Session, error) {
	if b.openErr != nil {
		return nil, platform.NewError(platform.KindInit, "open fake", 0, b.openErr)
	}
	s := &Session{
		displays:   b.displays,
		limit:      b.limit,
		noChildren: b.noChildren,
		ready:      make(chan struct{}, 1),
		windows:    make(map[platform.WindowID]*window),
		pointer:    make(map[platform.WindowID]event.Point),
	}
	if len(b.script) > 0 {
		s.Inject(b.script...)
	}

	b.mu.Lock()
	b.sessions = append(b.sessions, s)
	b.mu.Unlock()
	select {
	case b.opened <- s:
	default:
	}
	return s, nil
}

// Opened delivers sessions as they are opened.
func (b *Binding) Opened() <-chan *Session {
	return b.opened
}

// Sessions returns every session opened so far.
func (b *Binding) Sessions() []*Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Session(nil), b.sessions...)
}

type window struct {
	title  string
	rect   platform.Rect
	parent platform.WindowID
	tags   []Tag
}

// Tag is the only window extension the fake binding accepts. Tags are
// recorded on the window.
type Tag string

// Session is one fake native session. Inject is safe for concurrent use; all
// other methods belong to the event thread.
type Session struct {
	displays   []platform.Display
	limit      int
	noChildren bool
	ready      chan struct{}

	mu      sync.Mutex
	queue   []platform.Native
	windows map[platform.WindowID]*window
	nextID  platform.WindowID
	closed  bool

	// pointer holds the last motion position per window.
	pointer map[platform.WindowID]event.Point
}

var (
	_ platform.Session               = (*Session)(nil)
	_ platform.WindowCloser          = (*Session)(nil)
	_ platform.GeometryQuerier       = (*Session)(nil)
	_ platform.CoordinateTransformer = (*Session)(nil)
	_ platform.TitleSetter           = (*Session)(nil)
	_ platform.ChildWindows          = (*Session)(nil)
	_ platform.WindowLimiter         = (*Session)(nil)
)

// Inject simulates natives arriving from the windowing system. Natives that
// change native window state (Close with Committed, Resize, Move) apply that
// change immediately.
func (s *Session) Inject(natives ...platform.Native) {
	s.mu.Lock()
	for _, n := range natives {
		s.apply(n)
		s.queue = append(s.queue, n)
	}
	s.mu.Unlock()
	s.signal()
}

func (s *Session) apply(n platform.Native) {
	switch n := n.(type) {
	case Close:
		if n.Committed {
			delete(s.windows, n.Window)
		}
	case Resize:
		if w, ok := s.windows[n.Window]; ok {
			w.rect.Width, w.rect.Height = n.Width, n.Height
		}
	case Move:
		if w, ok := s.windows[n.Window]; ok {
			w.rect.X, w.rect.Y = n.X, n.Y
		}
	}
}

func (s *Session) signal() {
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

func (s *Session) Displays() iter.Seq2[platform.Display, error] {
	return func(yield func(platform.Display, error) bool) {
		for _, d := range s.displays {
			if !yield(d, nil) {
				return
			}
		}
	}
}

func (s *Session) BuildWindow(cfg platform.WindowConfig) (platform.WindowID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, platform.NewError(platform.KindGone, "build window", 0, errors.New("session closed"))
	}
	if s.limit > 0 && len(s.windows) >= s.limit {
		return 0, platform.NewError(platform.KindCapacity, "build window", 0,
			fmt.Errorf("limit %d", s.limit))
	}
	if cfg.Size.Width <= 0 || cfg.Size.Height <= 0 {
		return 0, platform.NewError(platform.KindParameter, "build window", 0,
			fmt.Errorf("invalid size %s", cfg.Size))
	}
	if cfg.Parent != 0 {
		if s.noChildren {
			return 0, platform.NewError(platform.KindUnsupported, "build window", 0,
				errors.New("child windows"))
		}
		if _, ok := s.windows[cfg.Parent]; !ok {
			return 0, platform.NewError(platform.KindGone, "build window", cfg.Parent,
				errors.New("parent window"))
		}
	}
	var tags []Tag
	for _, ext := range cfg.Extensions {
		tag, ok := ext.(Tag)
		if !ok {
			return 0, platform.NewError(platform.KindUnsupported, "build window", 0,
				fmt.Errorf("extension %T", ext))
		}
		tags = append(tags, tag)
	}

	origin := platform.Point{}
	if len(s.displays) > 0 {
		origin = platform.Point{X: s.displays[0].Usable.X, Y: s.displays[0].Usable.Y}
	}
	if cfg.HasPosition {
		origin = cfg.Position
	}

	s.nextID++
	id := s.nextID
	s.windows[id] = &window{
		title:  cfg.Title,
		rect:   platform.Rect{X: origin.X, Y: origin.Y, Width: cfg.Size.Width, Height: cfg.Size.Height},
		parent: cfg.Parent,
		tags:   tags,
	}
	return id, nil
}

// Pump yields the natives queued when it is called. Fatal natives are
// yielded as ErrFatal errors.
func (s *Session) Pump() iter.Seq2[platform.Native, error] {
	return func(yield func(platform.Native, error) bool) {
		s.mu.Lock()
		n := len(s.queue)
		s.mu.Unlock()

		for range n {
			s.mu.Lock()
			if len(s.queue) == 0 {
				s.mu.Unlock()
				return
			}
			next := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			var err error
			if f, ok := next.(Fatal); ok {
				err = platform.NewError(platform.KindFatal, "pump", 0, f.Err)
			}
			if !yield(next, err) {
				return
			}
		}
	}
}

func (s *Session) Translate(n platform.Native) (event.Event, bool) {
	switch n := n.(type) {
	case Key:
		return event.Key{
			Device:    KeyboardDevice,
			Window:    n.Window,
			Scancode:  n.Scancode,
			Code:      event.ParseKey(n.Name),
			State:     elementState(n.Pressed),
			Modifiers: n.Modifiers,
		}, true
	case Button:
		return event.MouseButton{
			Device:    MouseDevice,
			Window:    n.Window,
			Button:    n.Button,
			State:     elementState(n.Pressed),
			Modifiers: n.Modifiers,
			Position:  event.Point{X: n.X, Y: n.Y},
		}, true
	case Motion:
		pos := event.Point{X: n.X, Y: n.Y}
		prev, seen := s.pointer[n.Window]
		s.pointer[n.Window] = pos
		var delta event.Point
		if seen {
			delta = event.Point{X: pos.X - prev.X, Y: pos.Y - prev.Y}
		}
		return event.MouseMoved{
			Device:      MouseDevice,
			Window:      n.Window,
			Position:    pos,
			HasPosition: true,
			Delta:       delta,
		}, true
	case Wheel:
		return event.MouseWheel{
			Device: MouseDevice,
			Window: n.Window,
			Delta:  event.Point{X: n.DX, Y: n.DY},
			Mode:   event.WheelRotational,
		}, true
	case Close:
		state := event.CloseRequested
		if n.Committed {
			state = event.CloseCommitted
			delete(s.pointer, n.Window)
		}
		return event.WindowClosed{Window: n.Window, State: state}, true
	case Focus:
		if n.Focused {
			return event.WindowActivated{Window: n.Window}, true
		}
		return event.WindowDeactivated{Window: n.Window}, true
	case Resize:
		return event.WindowResized{Window: n.Window, Width: n.Width, Height: n.Height}, true
	case Move:
		return event.WindowMoved{Window: n.Window, X: n.X, Y: n.Y}, true
	case PadButton:
		return event.GamepadButton{Device: n.Device, Button: n.Button, State: elementState(n.Pressed)}, true
	case PadAxis:
		return event.GamepadAxis{Device: n.Device, Axis: n.Axis, Value: math.Max(-1, math.Min(1, n.Value))}, true
	case Attach:
		return event.DeviceConnected{Device: n.Device, Usage: n.Usage}, true
	case Detach:
		return event.DeviceDisconnected{Device: n.Device}, true
	default:
		return nil, false
	}
}

func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	clear(s.windows)
	s.queue = nil
	return nil
}

// CloseWindow destroys a window. The committed close is queued for the next
// pump, like a native destroy notification.
func (s *Session) CloseWindow(id platform.WindowID) error {
	s.mu.Lock()
	if _, ok := s.windows[id]; !ok {
		s.mu.Unlock()
		return platform.NewError(platform.KindGone, "close window", id, nil)
	}
	delete(s.windows, id)
	s.queue = append(s.queue, Close{Window: id, Committed: true})
	s.mu.Unlock()
	s.signal()
	return nil
}

func (s *Session) WindowGeometry(id platform.WindowID) (platform.Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[id]
	if !ok {
		return platform.Rect{}, platform.NewError(platform.KindGone, "window geometry", id, nil)
	}
	return w.rect, nil
}

func (s *Session) WindowToScreen(id platform.WindowID, p platform.Point) (platform.Point, error) {
	rect, err := s.WindowGeometry(id)
	if err != nil {
		return platform.Point{}, err
	}
	return platform.Point{X: rect.X + p.X, Y: rect.Y + p.Y}, nil
}

func (s *Session) SetWindowTitle(id platform.WindowID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[id]
	if !ok {
		return platform.NewError(platform.KindGone, "set title", id, nil)
	}
	w.title = title
	return nil
}

func (s *Session) SupportsChildWindows() bool {
	return !s.noChildren
}

func (s *Session) MaxWindows() int {
	return s.limit
}

// Title reports a window's native title.
func (s *Session) Title(id platform.WindowID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[id]
	if !ok {
		return "", false
	}
	return w.title, true
}

// Parent reports the parent a window was created with.
func (s *Session) Parent(id platform.WindowID) (platform.WindowID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[id]
	if !ok {
		return 0, false
	}
	return w.parent, true
}

// Tags reports the Tag extensions a window was created with.
func (s *Session) Tags(id platform.WindowID) []Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.windows[id]; ok {
		return append([]Tag(nil), w.tags...)
	}
	return nil
}

// Windows returns the number of open windows.
func (s *Session) Windows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// Closed reports whether the event thread closed the session.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func elementState(pressed bool) event.ElementState {
	if pressed {
		return event.Pressed
	}
	return event.Released
}
