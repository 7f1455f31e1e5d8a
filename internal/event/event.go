// Package event defines the normalized event vocabulary exchanged between
// platform bindings and reactors.
//
// The set of events is closed: every variant is declared in this package and
// carries the identity of the window or device it originated from. Native
// event types never appear here.
package event

import "fmt"

// WindowID identifies a window within one platform binding. Zero means no window.
type WindowID uint64

// DeviceID identifies an input device within one platform binding. Zero means
// no specific device.
type DeviceID uint64

// Category groups event variants.
type Category uint8

const (
	CategoryApplication Category = iota
	CategoryWindow
	CategoryKeyboard
	CategoryMouse
	CategoryGamepad
	CategoryDevice
)

func (c Category) String() string {
	switch c {
	case CategoryApplication:
		return "application"
	case CategoryWindow:
		return "window"
	case CategoryKeyboard:
		return "keyboard"
	case CategoryMouse:
		return "mouse"
	case CategoryGamepad:
		return "gamepad"
	case CategoryDevice:
		return "device"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// Event is a normalized event. Implementations are the value types declared
// in this package.
type Event interface {
	Category() Category
	isEvent()
}

// ElementState is the state of a key or button.
type ElementState uint8

const (
	Released ElementState = iota
	Pressed
)

func (s ElementState) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// CloseState distinguishes a close request from a completed close.
type CloseState uint8

const (
	// CloseRequested means the user or window manager asked for the window to
	// close. The window still exists.
	CloseRequested CloseState = iota
	// CloseCommitted means the native window is gone.
	CloseCommitted
)

func (s CloseState) String() string {
	if s == CloseCommitted {
		return "committed"
	}
	return "requested"
}

// ResumeCause describes why the event thread left an idle wait.
type ResumeCause uint8

const (
	ResumeNative ResumeCause = iota
	ResumeTimeout
	ResumeWake
)

func (c ResumeCause) String() string {
	switch c {
	case ResumeTimeout:
		return "timeout"
	case ResumeWake:
		return "wake"
	default:
		return "native"
	}
}

// Resumed is delivered after the event thread wakes from an idle wait.
type Resumed struct {
	Cause ResumeCause
}

// WindowClosed reports a close request or a completed close.
type WindowClosed struct {
	Window WindowID
	State  CloseState
}

// WindowActivated reports that a window gained input focus.
type WindowActivated struct {
	Window WindowID
}

// WindowDeactivated reports that a window lost input focus.
type WindowDeactivated struct {
	Window WindowID
}

// WindowMoved reports a new window position in screen coordinates.
type WindowMoved struct {
	Window WindowID
	X, Y   int
}

// WindowResized reports new client-area dimensions.
type WindowResized struct {
	Window        WindowID
	Width, Height int
}

// Key reports a keyboard key transition.
type Key struct {
	Device    DeviceID
	Window    WindowID
	Scancode  uint32
	Code      KeyCode
	State     ElementState
	Modifiers Modifiers
}

// Point is a position in window coordinates.
type Point struct {
	X, Y float64
}

// MouseButton reports a pointer button transition.
type MouseButton struct {
	Device    DeviceID
	Window    WindowID
	Button    Button
	State     ElementState
	Modifiers Modifiers
	Position  Point
}

// MouseMoved reports pointer motion. Delta is relative to the previous
// motion event of the same device. Position is only meaningful when
// HasPosition is set.
type MouseMoved struct {
	Device      DeviceID
	Window      WindowID
	Position    Point
	HasPosition bool
	Delta       Point
	Modifiers   Modifiers
}

// WheelMode tells how a wheel delta is measured.
type WheelMode uint8

const (
	// WheelRotational deltas count detents.
	WheelRotational WheelMode = iota
	// WheelPositional deltas are logical units.
	WheelPositional
)

// MouseWheel reports wheel or scroll input.
type MouseWheel struct {
	Device    DeviceID
	Window    WindowID
	Delta     Point
	Mode      WheelMode
	Modifiers Modifiers
}

// GamepadButton reports a button transition on a gamepad or joystick.
// Buttons are generic indices.
type GamepadButton struct {
	Device DeviceID
	Button uint8
	State  ElementState
}

// GamepadAxis reports a new axis value, normalized to [-1, 1].
type GamepadAxis struct {
	Device DeviceID
	Axis   uint8
	Value  float64
}

// Usage is the kind of device reported on connection.
type Usage uint8

const (
	UsageUnknown Usage = iota
	UsageKeyboard
	UsageMouse
	UsageGamepad
)

// DeviceConnected reports a newly available input device.
type DeviceConnected struct {
	Device DeviceID
	Usage  Usage
}

// DeviceDisconnected reports a removed input device.
type DeviceDisconnected struct {
	Device DeviceID
}

func (Resumed) Category() Category            { return CategoryApplication }
func (WindowClosed) Category() Category       { return CategoryWindow }
func (WindowActivated) Category() Category    { return CategoryWindow }
func (WindowDeactivated) Category() Category  { return CategoryWindow }
func (WindowMoved) Category() Category        { return CategoryWindow }
func (WindowResized) Category() Category      { return CategoryWindow }
func (Key) Category() Category                { return CategoryKeyboard }
func (MouseButton) Category() Category        { return CategoryMouse }
func (MouseMoved) Category() Category         { return CategoryMouse }
func (MouseWheel) Category() Category         { return CategoryMouse }
func (GamepadButton) Category() Category      { return CategoryGamepad }
func (GamepadAxis) Category() Category        { return CategoryGamepad }
func (DeviceConnected) Category() Category    { return CategoryDevice }
func (DeviceDisconnected) Category() Category { return CategoryDevice }

func (Resumed) isEvent()            {}
func (WindowClosed) isEvent()       {}
func (WindowActivated) isEvent()    {}
func (WindowDeactivated) isEvent()  {}
func (WindowMoved) isEvent()        {}
func (WindowResized) isEvent()      {}
func (Key) isEvent()                {}
func (MouseButton) isEvent()        {}
func (MouseMoved) isEvent()         {}
func (MouseWheel) isEvent()         {}
func (GamepadButton) isEvent()      {}
func (GamepadAxis) isEvent()        {}
func (DeviceConnected) isEvent()    {}
func (DeviceDisconnected) isEvent() {}
