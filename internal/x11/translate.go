package x11

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/platform"
)

// Device ids of the X Input virtual core devices.
const (
	CorePointer  event.DeviceID = 2
	CoreKeyboard event.DeviceID = 3
)

// Core protocol pointer buttons. 4-7 are the wheel.
const (
	buttonLeft   = 1
	buttonMiddle = 2
	buttonRight  = 3
	wheelUp      = 4
	wheelDown    = 5
	wheelLeft    = 6
	wheelRight   = 7
)

// focusDetailPointer marks focus events generated for the window under the
// pointer rather than the focused window.
const focusDetailPointer = 5

// translator turns core protocol events into the event vocabulary. It keeps
// the last pointer position and window geometry needed for motion deltas and
// for telling moves from resizes.
type translator struct {
	wmProtocols    xproto.Atom
	wmDeleteWindow xproto.Atom
	keysym         func(xproto.Keycode) xproto.Keysym

	pointer  map[xproto.Window]event.Point
	geometry map[xproto.Window]platform.Rect
}

func newTranslator(protocols, deleteWindow xproto.Atom, keysym func(xproto.Keycode) xproto.Keysym) *translator {
	return &translator{
		wmProtocols:    protocols,
		wmDeleteWindow: deleteWindow,
		keysym:         keysym,
		pointer:        make(map[xproto.Window]event.Point),
		geometry:       make(map[xproto.Window]platform.Rect),
	}
}

// track records the geometry a window was created with.
func (t *translator) track(w xproto.Window, r platform.Rect) {
	t.geometry[w] = r
}

func (t *translator) forget(w xproto.Window) {
	delete(t.pointer, w)
	delete(t.geometry, w)
}

func (t *translator) translate(n platform.Native) (event.Event, bool) {
	switch ev := n.(type) {
	case xproto.KeyPressEvent:
		return t.key(ev.Event, ev.Detail, ev.State, event.Pressed), true
	case xproto.KeyReleaseEvent:
		return t.key(ev.Event, ev.Detail, ev.State, event.Released), true
	case xproto.ButtonPressEvent:
		return t.button(ev.Event, ev.Detail, ev.State, ev.EventX, ev.EventY, event.Pressed)
	case xproto.ButtonReleaseEvent:
		return t.button(ev.Event, ev.Detail, ev.State, ev.EventX, ev.EventY, event.Released)
	case xproto.MotionNotifyEvent:
		return t.motion(ev), true
	case xproto.ConfigureNotifyEvent:
		return t.configure(ev)
	case xproto.FocusInEvent:
		if ev.Detail == focusDetailPointer {
			return nil, false
		}
		return event.WindowActivated{Window: event.WindowID(ev.Event)}, true
	case xproto.FocusOutEvent:
		if ev.Detail == focusDetailPointer {
			return nil, false
		}
		return event.WindowDeactivated{Window: event.WindowID(ev.Event)}, true
	case xproto.ClientMessageEvent:
		if ev.Type != t.wmProtocols || ev.Format != 32 || len(ev.Data.Data32) == 0 {
			return nil, false
		}
		if xproto.Atom(ev.Data.Data32[0]) != t.wmDeleteWindow {
			return nil, false
		}
		return event.WindowClosed{Window: event.WindowID(ev.Window), State: event.CloseRequested}, true
	case xproto.DestroyNotifyEvent:
		if ev.Event != ev.Window {
			// Substructure notification from a parent; the child reports its own.
			return nil, false
		}
		t.forget(ev.Window)
		return event.WindowClosed{Window: event.WindowID(ev.Window), State: event.CloseCommitted}, true
	default:
		return nil, false
	}
}

func (t *translator) key(w xproto.Window, code xproto.Keycode, state uint16, es event.ElementState) event.Event {
	var sym xproto.Keysym
	if t.keysym != nil {
		sym = t.keysym(code)
	}
	return event.Key{
		Device:    CoreKeyboard,
		Window:    event.WindowID(w),
		Scancode:  uint32(code),
		Code:      keyCode(sym),
		State:     es,
		Modifiers: modifiers(state),
	}
}

func (t *translator) button(w xproto.Window, b xproto.Button, state uint16, x, y int16, es event.ElementState) (event.Event, bool) {
	var delta event.Point
	switch b {
	case wheelUp:
		delta.Y = 1
	case wheelDown:
		delta.Y = -1
	case wheelLeft:
		delta.X = -1
	case wheelRight:
		delta.X = 1
	default:
		return event.MouseButton{
			Device:    CorePointer,
			Window:    event.WindowID(w),
			Button:    pointerButton(b),
			State:     es,
			Modifiers: modifiers(state),
			Position:  event.Point{X: float64(x), Y: float64(y)},
		}, true
	}
	// Each wheel detent arrives as a press/release pair.
	if es == event.Released {
		return nil, false
	}
	return event.MouseWheel{
		Device:    CorePointer,
		Window:    event.WindowID(w),
		Delta:     delta,
		Mode:      event.WheelRotational,
		Modifiers: modifiers(state),
	}, true
}

func pointerButton(b xproto.Button) event.Button {
	switch b {
	case buttonLeft:
		return event.ButtonLeft
	case buttonMiddle:
		return event.ButtonMiddle
	case buttonRight:
		return event.ButtonRight
	default:
		return event.Button(b)
	}
}

func (t *translator) motion(ev xproto.MotionNotifyEvent) event.Event {
	pos := event.Point{X: float64(ev.EventX), Y: float64(ev.EventY)}
	var delta event.Point
	if prev, ok := t.pointer[ev.Event]; ok {
		delta = event.Point{X: pos.X - prev.X, Y: pos.Y - prev.Y}
	}
	t.pointer[ev.Event] = pos
	return event.MouseMoved{
		Device:      CorePointer,
		Window:      event.WindowID(ev.Event),
		Position:    pos,
		HasPosition: true,
		Delta:       delta,
		Modifiers:   modifiers(ev.State),
	}
}

// configure reports a resize when the size changed, otherwise a move. A
// notification that changes neither is dropped.
func (t *translator) configure(ev xproto.ConfigureNotifyEvent) (event.Event, bool) {
	if ev.Event != ev.Window {
		return nil, false
	}
	next := platform.Rect{X: int(ev.X), Y: int(ev.Y), Width: int(ev.Width), Height: int(ev.Height)}
	prev, known := t.geometry[ev.Window]
	t.geometry[ev.Window] = next

	id := event.WindowID(ev.Window)
	switch {
	case !known || prev.Size() != next.Size():
		return event.WindowResized{Window: id, Width: next.Width, Height: next.Height}, true
	case prev.X != next.X || prev.Y != next.Y:
		return event.WindowMoved{Window: id, X: next.X, Y: next.Y}, true
	default:
		return nil, false
	}
}
