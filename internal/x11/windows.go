package x11

import (
	"errors"
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/1broseidon/gaudium/internal/platform"
)

// Class sets WM_CLASS on a new window. Pass it to window.Builder.WithExtension.
type Class struct {
	Instance string
	Class    string
}

const windowEventMask = xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskFocusChange

// CreateWindow creates and maps a top-level or child window.
func (c *Connection) CreateWindow(parent xproto.Window, cfg platform.WindowConfig) (xproto.Window, error) {
	var class *Class
	for _, ext := range cfg.Extensions {
		switch ext := ext.(type) {
		case Class:
			class = &ext
		case *Class:
			class = ext
		default:
			return 0, platform.NewError(platform.KindUnsupported, "build window", 0,
				fmt.Errorf("extension %T", ext))
		}
	}
	if err := checkGeometry(cfg); err != nil {
		return 0, err
	}
	if parent == 0 {
		parent = c.Root
	}

	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, platform.NewError(platform.KindCapacity, "build window", 0, err)
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		parent,
		int16(cfg.Position.X), int16(cfg.Position.Y),
		uint16(cfg.Size.Width), uint16(cfg.Size.Height),
		0, // border_width
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		// Value list order follows the bit positions of the mask.
		[]uint32{screen.WhitePixel, uint32(windowEventMask)},
	).Check()
	if err != nil {
		return 0, platform.NewError(platform.KindParameter, "build window", 0, err)
	}

	if err := c.SetTitle(wid, cfg.Title); err != nil {
		xproto.DestroyWindow(conn, wid)
		return 0, err
	}
	if err := icccm.WmProtocolsSet(c.XUtil, wid, []string{"WM_DELETE_WINDOW"}); err != nil {
		xproto.DestroyWindow(conn, wid)
		return 0, fmt.Errorf("set WM_PROTOCOLS: %w", err)
	}
	if class != nil {
		if err := icccm.WmClassSet(c.XUtil, wid, &icccm.WmClass{Instance: class.Instance, Class: class.Class}); err != nil {
			xproto.DestroyWindow(conn, wid)
			return 0, fmt.Errorf("set WM_CLASS: %w", err)
		}
	}
	if cfg.HasPosition && parent == c.Root {
		// Ask the window manager to keep the requested position.
		hints := &icccm.NormalHints{
			Flags:  icccm.SizeHintUSPosition | icccm.SizeHintUSSize,
			X:      cfg.Position.X,
			Y:      cfg.Position.Y,
			Width:  uint(cfg.Size.Width),
			Height: uint(cfg.Size.Height),
		}
		if err := icccm.WmNormalHintsSet(c.XUtil, wid, hints); err != nil {
			xproto.DestroyWindow(conn, wid)
			return 0, fmt.Errorf("set WM_NORMAL_HINTS: %w", err)
		}
	}

	if err := xproto.MapWindowChecked(conn, wid).Check(); err != nil {
		xproto.DestroyWindow(conn, wid)
		return 0, fmt.Errorf("map window: %w", err)
	}
	return wid, nil
}

func checkGeometry(cfg platform.WindowConfig) error {
	if cfg.Size.Width <= 0 || cfg.Size.Height <= 0 ||
		cfg.Size.Width > math.MaxUint16 || cfg.Size.Height > math.MaxUint16 {
		return platform.NewError(platform.KindParameter, "build window", 0,
			fmt.Errorf("invalid size %s", cfg.Size))
	}
	if cfg.Position.X < math.MinInt16 || cfg.Position.X > math.MaxInt16 ||
		cfg.Position.Y < math.MinInt16 || cfg.Position.Y > math.MaxInt16 {
		return platform.NewError(platform.KindParameter, "build window", 0,
			errors.New("position out of range"))
	}
	return nil
}

// SetTitle sets both the EWMH and the ICCCM window name.
func (c *Connection) SetTitle(wid xproto.Window, title string) error {
	if err := ewmh.WmNameSet(c.XUtil, wid, title); err != nil {
		return fmt.Errorf("set _NET_WM_NAME: %w", err)
	}
	if err := icccm.WmNameSet(c.XUtil, wid, title); err != nil {
		return fmt.Errorf("set WM_NAME: %w", err)
	}
	return nil
}

// DestroyWindow destroys a window; the DestroyNotify arrives through the
// event queue.
func (c *Connection) DestroyWindow(wid xproto.Window) error {
	return xproto.DestroyWindowChecked(c.XUtil.Conn(), wid).Check()
}

// Geometry returns the client area of a window in root coordinates.
func (c *Connection) Geometry(wid xproto.Window) (platform.Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(wid)).Reply()
	if err != nil {
		return platform.Rect{}, err
	}
	origin, err := c.ToRoot(wid, platform.Point{})
	if err != nil {
		return platform.Rect{}, err
	}
	return platform.Rect{X: origin.X, Y: origin.Y, Width: int(geom.Width), Height: int(geom.Height)}, nil
}

// ToRoot translates window coordinates to root window coordinates.
func (c *Connection) ToRoot(wid xproto.Window, p platform.Point) (platform.Point, error) {
	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		wid,
		c.Root,
		int16(p.X), int16(p.Y),
	).Reply()
	if err != nil {
		return platform.Point{}, err
	}
	return platform.Point{X: int(translate.DstX), Y: int(translate.DstY)}, nil
}
