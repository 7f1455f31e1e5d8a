package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	wmProtocols    xproto.Atom
	wmDeleteWindow xproto.Atom
	hasRandr       bool
}

// NewConnection connects to the X server named by display, or $DISPLAY when
// display is empty, and initializes the extensions the binding needs.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	// Keycode to keysym lookups need the keyboard mapping.
	keybind.Initialize(xu)

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	if c.wmProtocols, err = xprop.Atm(xu, "WM_PROTOCOLS"); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("intern WM_PROTOCOLS: %w", err)
	}
	if c.wmDeleteWindow, err = xprop.Atm(xu, "WM_DELETE_WINDOW"); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("intern WM_DELETE_WINDOW: %w", err)
	}
	c.hasRandr = randr.Init(xu.Conn()) == nil
	return c, nil
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
