// Package empty is a minimal platform binding: one display, one window and
// no input. Closing its window ends the native loop, as on platforms where
// the process owns a single surface.
package empty

import (
	"errors"
	"iter"
	"sync"

	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/platform"
)

// ErrSurfaceClosed is the fatal condition reported once the only window is gone.
var ErrSurfaceClosed = errors.New("sole window closed")

// Screen is the display every empty session reports.
var Screen = platform.Display{
	ID:        1,
	Name:      "EMPTY",
	Bounds:    platform.Rect{Width: 1280, Height: 720},
	Usable:    platform.Rect{Width: 1280, Height: 720},
	RefreshHz: 60,
	Scale:     1,
	Primary:   true,
}

const windowID platform.WindowID = 1

// Binding is the empty platform.
type Binding struct{}

// New returns the empty binding.
func New() *Binding {
	return &Binding{}
}

func (*Binding) Name() string {
	return "empty"
}

func (*Binding) Open() (platform.Session, error) {
	return &session{ready: make(chan struct{}, 1)}, nil
}

type closed struct{}

type session struct {
	mu     sync.Mutex
	built  bool
	open   bool
	title  string
	rect   platform.Rect
	queue  []platform.Native
	ready  chan struct{}
	ending bool
}

func (s *session) Displays() iter.Seq2[platform.Display, error] {
	return func(yield func(platform.Display, error) bool) {
		yield(Screen, nil)
	}
}

func (s *session) BuildWindow(cfg platform.WindowConfig) (platform.WindowID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.built {
		return 0, platform.NewError(platform.KindCapacity, "build window", 0, errors.New("limit 1"))
	}
	if cfg.Parent != 0 {
		return 0, platform.NewError(platform.KindUnsupported, "build window", 0, errors.New("child windows"))
	}
	if len(cfg.Extensions) > 0 {
		return 0, platform.NewError(platform.KindUnsupported, "build window", 0, errors.New("extensions"))
	}
	if cfg.Size.Width <= 0 || cfg.Size.Height <= 0 {
		return 0, platform.NewError(platform.KindParameter, "build window", 0, errors.New("size must be positive"))
	}
	s.built, s.open = true, true
	s.title = cfg.Title
	s.rect = platform.Rect{Width: cfg.Size.Width, Height: cfg.Size.Height}
	if cfg.HasPosition {
		s.rect.X, s.rect.Y = cfg.Position.X, cfg.Position.Y
	}
	return windowID, nil
}

func (s *session) Pump() iter.Seq2[platform.Native, error] {
	return func(yield func(platform.Native, error) bool) {
		s.mu.Lock()
		pending := s.queue
		s.queue = nil
		s.mu.Unlock()

		for _, n := range pending {
			if !yield(n, nil) {
				return
			}
		}
		s.mu.Lock()
		ending := s.ending
		s.mu.Unlock()
		if ending {
			yield(nil, platform.NewError(platform.KindFatal, "pump", windowID, ErrSurfaceClosed))
		}
	}
}

func (s *session) Translate(n platform.Native) (event.Event, bool) {
	if _, ok := n.(closed); ok {
		return event.WindowClosed{Window: windowID, State: event.CloseCommitted}, true
	}
	return nil, false
}

func (s *session) Ready() <-chan struct{} {
	return s.ready
}

func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	return nil
}

func (s *session) CloseWindow(id platform.WindowID) error {
	s.mu.Lock()
	if id != windowID || !s.open {
		s.mu.Unlock()
		return platform.NewError(platform.KindGone, "close window", id, nil)
	}
	s.open = false
	s.ending = true
	s.queue = append(s.queue, closed{})
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
	return nil
}

func (s *session) WindowGeometry(id platform.WindowID) (platform.Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != windowID || !s.open {
		return platform.Rect{}, platform.NewError(platform.KindGone, "window geometry", id, nil)
	}
	return s.rect, nil
}

func (s *session) SetWindowTitle(id platform.WindowID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != windowID || !s.open {
		return platform.NewError(platform.KindGone, "set title", id, nil)
	}
	s.title = title
	return nil
}

func (s *session) MaxWindows() int {
	return 1
}
