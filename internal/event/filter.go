package event

// Window returns the window an event is addressed to. Input events that are
// not associated with a window report false.
func Window(e Event) (WindowID, bool) {
	var id WindowID
	switch ev := e.(type) {
	case WindowClosed:
		id = ev.Window
	case WindowActivated:
		id = ev.Window
	case WindowDeactivated:
		id = ev.Window
	case WindowMoved:
		id = ev.Window
	case WindowResized:
		id = ev.Window
	case Key:
		id = ev.Window
	case MouseButton:
		id = ev.Window
	case MouseMoved:
		id = ev.Window
	case MouseWheel:
		id = ev.Window
	default:
		return 0, false
	}
	return id, id != 0
}

// Device returns the device an input or device event originated from.
func Device(e Event) (DeviceID, bool) {
	switch ev := e.(type) {
	case Key:
		return ev.Device, true
	case MouseButton:
		return ev.Device, true
	case MouseMoved:
		return ev.Device, true
	case MouseWheel:
		return ev.Device, true
	case GamepadButton:
		return ev.Device, true
	case GamepadAxis:
		return ev.Device, true
	case DeviceConnected:
		return ev.Device, true
	case DeviceDisconnected:
		return ev.Device, true
	default:
		return 0, false
	}
}

// ForWindow reports whether e concerns window w. Input and device events
// without a window pass the filter. Application events do not.
func ForWindow(e Event, w WindowID) bool {
	if id, ok := Window(e); ok {
		return id == w
	}
	switch e.Category() {
	case CategoryKeyboard, CategoryMouse, CategoryGamepad, CategoryDevice:
		return true
	default:
		return false
	}
}

// ForDevice reports whether e originated from device d.
func ForDevice(e Event, d DeviceID) bool {
	id, ok := Device(e)
	return ok && id == d
}
