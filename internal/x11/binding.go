// Package x11 is the platform binding for the X Window System.
//
// Each session owns its own X connection, so several event threads can run
// at once. A reader goroutine blocks in WaitForEvent and queues events for
// the event thread, which drains them through Pump.
package x11

import (
	"errors"
	"iter"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/joeycumines/logiface"

	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/platform"
)

// ErrConnectionClosed is the fatal condition reported when the X server goes away.
var ErrConnectionClosed = errors.New("X connection closed")

// Option configures a Binding.
type Option func(*Binding)

// WithDisplay selects the X display, such as ":1". The default is $DISPLAY.
func WithDisplay(display string) Option {
	return func(b *Binding) {
		b.display = display
	}
}

// WithLogger sets the logger for connection setup and X protocol errors.
func WithLogger(l *logiface.Logger[logiface.Event]) Option {
	return func(b *Binding) {
		b.log = l
	}
}

// Binding connects event threads to an X server.
type Binding struct {
	display string
	log     *logiface.Logger[logiface.Event]
}

// New returns an X11 binding.
func New(opts ...Option) *Binding {
	b := &Binding{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Binding) Name() string {
	return "x11"
}

func (b *Binding) SupportsMultipleLoops() bool {
	return true
}

func (b *Binding) Open() (platform.Session, error) {
	conn, err := NewConnection(b.display)
	if err != nil {
		return nil, platform.NewError(platform.KindInit, "open x11", 0, err)
	}
	b.log.Info().
		Str("display", b.display).
		Bool("randr", conn.hasRandr).
		Log("connected to X server")

	xu := conn.XUtil
	s := &session{
		conn: conn,
		log:  b.log,
		tr: newTranslator(conn.wmProtocols, conn.wmDeleteWindow, func(code xproto.Keycode) xproto.Keysym {
			return keybind.KeysymGet(xu, code, 0)
		}),
		ready:   make(chan struct{}, 1),
		windows: make(map[platform.WindowID]xproto.Window),
	}
	go s.read()
	return s, nil
}

type item struct {
	ev  xgb.Event
	err error
}

type session struct {
	conn *Connection
	log  *logiface.Logger[logiface.Event]
	tr   *translator

	ready chan struct{}
	mu    sync.Mutex
	queue []item

	windows map[platform.WindowID]xproto.Window
}

var (
	_ platform.WindowCloser          = (*session)(nil)
	_ platform.GeometryQuerier       = (*session)(nil)
	_ platform.CoordinateTransformer = (*session)(nil)
	_ platform.TitleSetter           = (*session)(nil)
	_ platform.ChildWindows          = (*session)(nil)
)

// read queues events until the connection closes.
func (s *session) read() {
	conn := s.conn.XUtil.Conn()
	for {
		ev, xerr := conn.WaitForEvent()
		switch {
		case ev == nil && xerr == nil:
			s.push(item{err: platform.NewError(platform.KindFatal, "read x11 events", 0, ErrConnectionClosed)})
			return
		case xerr != nil:
			s.push(item{err: xerr})
		default:
			s.push(item{ev: ev})
		}
	}
}

func (s *session) push(it item) {
	s.mu.Lock()
	s.queue = append(s.queue, it)
	s.mu.Unlock()
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

func (s *session) Displays() iter.Seq2[platform.Display, error] {
	return func(yield func(platform.Display, error) bool) {
		displays, err := s.conn.Displays()
		if err != nil {
			yield(platform.Display{}, err)
			return
		}
		for _, d := range displays {
			if !yield(d, nil) {
				return
			}
		}
	}
}

func (s *session) BuildWindow(cfg platform.WindowConfig) (platform.WindowID, error) {
	var parent xproto.Window
	if cfg.Parent != 0 {
		p, ok := s.windows[cfg.Parent]
		if !ok {
			return 0, platform.NewError(platform.KindGone, "build window", cfg.Parent, errors.New("parent window"))
		}
		parent = p
	}
	wid, err := s.conn.CreateWindow(parent, cfg)
	if err != nil {
		if platform.KindOf(err) == 0 {
			err = platform.NewError(platform.KindParameter, "build window", 0, err)
		}
		return 0, err
	}

	id := platform.WindowID(wid)
	s.windows[id] = wid
	s.tr.track(wid, platform.Rect{
		X:      cfg.Position.X,
		Y:      cfg.Position.Y,
		Width:  cfg.Size.Width,
		Height: cfg.Size.Height,
	})
	s.log.Debug().Uint64("window", uint64(id)).Str("title", cfg.Title).Log("created X window")
	return id, nil
}

func (s *session) Pump() iter.Seq2[platform.Native, error] {
	return func(yield func(platform.Native, error) bool) {
		s.mu.Lock()
		pending := s.queue
		s.queue = nil
		s.mu.Unlock()

		for i, it := range pending {
			var ok bool
			if it.err != nil {
				ok = yield(nil, it.err)
			} else {
				ok = yield(it.ev, nil)
			}
			if !ok {
				// Keep what the caller did not consume for the next pump.
				s.mu.Lock()
				s.queue = append(pending[i+1:len(pending):len(pending)], s.queue...)
				s.mu.Unlock()
				return
			}
		}
	}
}

func (s *session) Translate(n platform.Native) (event.Event, bool) {
	e, ok := s.tr.translate(n)
	if closed, isClose := e.(event.WindowClosed); ok && isClose && closed.State == event.CloseCommitted {
		delete(s.windows, closed.Window)
	}
	return e, ok
}

func (s *session) Ready() <-chan struct{} {
	return s.ready
}

// Close disconnects. The server destroys every window of the connection,
// and the reader goroutine exits once WaitForEvent reports the closed
// connection.
func (s *session) Close() error {
	s.conn.Close()
	clear(s.windows)
	return nil
}

func (s *session) lookup(op string, id platform.WindowID) (xproto.Window, error) {
	wid, ok := s.windows[id]
	if !ok {
		return 0, platform.NewError(platform.KindGone, op, id, nil)
	}
	return wid, nil
}

func (s *session) CloseWindow(id platform.WindowID) error {
	wid, err := s.lookup("close window", id)
	if err != nil {
		return err
	}
	if err := s.conn.DestroyWindow(wid); err != nil {
		return platform.NewError(platform.KindGone, "close window", id, err)
	}
	return nil
}

func (s *session) WindowGeometry(id platform.WindowID) (platform.Rect, error) {
	wid, err := s.lookup("window geometry", id)
	if err != nil {
		return platform.Rect{}, err
	}
	return s.conn.Geometry(wid)
}

func (s *session) WindowToScreen(id platform.WindowID, p platform.Point) (platform.Point, error) {
	wid, err := s.lookup("window to screen", id)
	if err != nil {
		return platform.Point{}, err
	}
	return s.conn.ToRoot(wid, p)
}

func (s *session) SetWindowTitle(id platform.WindowID, title string) error {
	wid, err := s.lookup("set title", id)
	if err != nil {
		return err
	}
	return s.conn.SetTitle(wid, title)
}

func (s *session) SupportsChildWindows() bool {
	return true
}
