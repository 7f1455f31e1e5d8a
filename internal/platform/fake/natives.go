package fake

import (
	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/platform"
)

// Device ids reported for the fake core keyboard and pointer.
const (
	KeyboardDevice event.DeviceID = 1
	MouseDevice    event.DeviceID = 2
)

// Key is a key transition. Name is a key code name such as "a", "7" or
// "Escape"; unknown names translate to event.KeyUnknown.
type Key struct {
	Window    platform.WindowID
	Scancode  uint32
	Name      string
	Pressed   bool
	Modifiers event.Modifiers
}

// Button is a pointer button transition.
type Button struct {
	Window    platform.WindowID
	Button    event.Button
	Pressed   bool
	Modifiers event.Modifiers
	X, Y      float64
}

// Motion is an absolute pointer position.
type Motion struct {
	Window platform.WindowID
	X, Y   float64
}

// Wheel is a wheel movement in detents.
type Wheel struct {
	Window platform.WindowID
	DX, DY float64
}

// Close is a close request from the user, or with Committed, a destroyed
// window.
type Close struct {
	Window    platform.WindowID
	Committed bool
}

// Focus is a focus change.
type Focus struct {
	Window  platform.WindowID
	Focused bool
}

// Resize is a client-area size change.
type Resize struct {
	Window        platform.WindowID
	Width, Height int
}

// Move is a window position change.
type Move struct {
	Window platform.WindowID
	X, Y   int
}

// PadButton is a gamepad button transition.
type PadButton struct {
	Device  event.DeviceID
	Button  uint8
	Pressed bool
}

// PadAxis is a raw axis value. Values outside [-1, 1] are clamped.
type PadAxis struct {
	Device event.DeviceID
	Axis   uint8
	Value  float64
}

// Attach is a device hot-plug.
type Attach struct {
	Device event.DeviceID
	Usage  event.Usage
}

// Detach is a device removal.
type Detach struct {
	Device event.DeviceID
}

// Unmapped is a native event with no counterpart in the event vocabulary.
type Unmapped struct {
	Code int
}

// Fatal is an unrecoverable native condition.
type Fatal struct {
	Err error
}
