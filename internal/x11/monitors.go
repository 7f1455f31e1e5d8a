package x11

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/gaudium/internal/platform"
)

// Displays retrieves all active monitors using XRandR. Without RandR the
// whole root window is reported as one display.
func (c *Connection) Displays() ([]platform.Display, error) {
	if !c.hasRandr {
		return c.rootDisplay()
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	modes := make(map[uint32]randr.ModeInfo, len(resources.Modes))
	for _, m := range resources.Modes {
		modes[m.Id] = m
	}

	var displays []platform.Display
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		d := platform.Display{
			ID:   platform.DisplayID(i),
			Name: fmt.Sprintf("Monitor%d", i),
			Bounds: platform.Rect{
				X:      int(crtcInfo.X),
				Y:      int(crtcInfo.Y),
				Width:  int(crtcInfo.Width),
				Height: int(crtcInfo.Height),
			},
			Scale: 1,
		}
		if mode, ok := modes[uint32(crtcInfo.Mode)]; ok {
			d.RefreshHz = refreshRate(mode)
		}
		for _, output := range crtcInfo.Outputs {
			if output == primary && primary != 0 {
				d.Primary = true
			}
		}
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			d.Name = string(outputInfo.Name)
			d.Scale = scaleFor(d.Bounds.Width, int(outputInfo.MmWidth))
		}
		displays = append(displays, d)
	}
	if len(displays) == 0 {
		return c.rootDisplay()
	}

	hasPrimary := false
	for _, d := range displays {
		hasPrimary = hasPrimary || d.Primary
	}
	if !hasPrimary {
		displays[0].Primary = true
	}

	workArea := c.workArea()
	for i := range displays {
		displays[i].Usable = c.usableArea(displays[i].Bounds, workArea)
	}
	return displays, nil
}

func (c *Connection) rootDisplay() ([]platform.Display, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query root geometry: %w", err)
	}
	bounds := platform.Rect{Width: int(geom.Width), Height: int(geom.Height)}
	screen := c.XUtil.Screen()
	return []platform.Display{{
		Name:    "root",
		Bounds:  bounds,
		Usable:  c.usableArea(bounds, c.workArea()),
		Scale:   scaleFor(int(screen.WidthInPixels), int(screen.WidthInMillimeters)),
		Primary: true,
	}}, nil
}

// refreshRate computes the vertical refresh from the mode timings.
func refreshRate(m randr.ModeInfo) float64 {
	if m.Htotal == 0 || m.Vtotal == 0 {
		return 0
	}
	hz := float64(m.DotClock) / (float64(m.Htotal) * float64(m.Vtotal))
	return math.Round(hz*100) / 100
}

// scaleFor derives a scale factor from the pixel density, in quarter steps
// relative to 96 DPI. Unknown physical sizes give 1.
func scaleFor(widthPx, widthMm int) float64 {
	if widthPx <= 0 || widthMm <= 0 {
		return 1
	}
	dpi := float64(widthPx) / (float64(widthMm) / 25.4)
	scale := math.Round(dpi/96*4) / 4
	return max(scale, 1)
}

// workArea returns the EWMH work area of the current desktop.
func (c *Connection) workArea() platform.Rect {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return platform.Rect{}
	}
	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) >= 0 && int(currentDesktop) < len(areas) {
			desktopIndex = int(currentDesktop)
		}
	}
	wa := areas[desktopIndex]
	return platform.Rect{X: wa.X, Y: wa.Y, Width: int(wa.Width), Height: int(wa.Height)}
}

// usableArea excludes dock struts from bounds, falling back to the work area
// and then to the full bounds.
func (c *Connection) usableArea(bounds, workArea platform.Rect) platform.Rect {
	if usable, ok := c.applyDockStruts(bounds); ok {
		return usable
	}
	if isect := bounds.Intersect(workArea); !isect.Empty() {
		return isect
	}
	return bounds
}

type dockStruts struct {
	left   int
	right  int
	top    int
	bottom int
}

func (c *Connection) applyDockStruts(monitor platform.Rect) (platform.Rect, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return monitor, false
	}
	root := platform.Size{Width: int(rootGeom.Width), Height: int(rootGeom.Height)}

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return monitor, false
	}

	var struts dockStruts
	for _, windowID := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
		if err != nil {
			continue
		}

		isDock := false
		for _, t := range types {
			if t == "_NET_WM_WINDOW_TYPE_DOCK" {
				isDock = true
				break
			}
		}
		if !isDock {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			struts.add(monitor, root, sp)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			struts.add(monitor, root, fullStrut(s, root))
		}
	}
	return struts.apply(monitor)
}

func fullStrut(s *ewmh.WmStrut, root platform.Size) *ewmh.WmStrutPartial {
	return &ewmh.WmStrutPartial{
		Left:       s.Left,
		Right:      s.Right,
		Top:        s.Top,
		Bottom:     s.Bottom,
		LeftEndY:   uint(root.Height - 1),
		RightEndY:  uint(root.Height - 1),
		TopEndX:    uint(root.Width - 1),
		BottomEndX: uint(root.Width - 1),
	}
}

// add widens the accumulated struts by the part of sp that overlaps monitor.
func (acc *dockStruts) add(monitor platform.Rect, root platform.Size, sp *ewmh.WmStrutPartial) {
	if sp.Top > 0 {
		band := platform.Rect{X: int(sp.TopStartX), Width: int(sp.TopEndX) - int(sp.TopStartX) + 1, Height: int(sp.Top)}
		acc.top = max(acc.top, monitor.Intersect(band).Height)
	}
	if sp.Bottom > 0 {
		band := platform.Rect{
			X:      int(sp.BottomStartX),
			Y:      root.Height - int(sp.Bottom),
			Width:  int(sp.BottomEndX) - int(sp.BottomStartX) + 1,
			Height: int(sp.Bottom),
		}
		acc.bottom = max(acc.bottom, monitor.Intersect(band).Height)
	}
	if sp.Left > 0 {
		band := platform.Rect{Y: int(sp.LeftStartY), Width: int(sp.Left), Height: int(sp.LeftEndY) - int(sp.LeftStartY) + 1}
		acc.left = max(acc.left, monitor.Intersect(band).Width)
	}
	if sp.Right > 0 {
		band := platform.Rect{
			X:      root.Width - int(sp.Right),
			Y:      int(sp.RightStartY),
			Width:  int(sp.Right),
			Height: int(sp.RightEndY) - int(sp.RightStartY) + 1,
		}
		acc.right = max(acc.right, monitor.Intersect(band).Width)
	}
}

func (acc *dockStruts) apply(monitor platform.Rect) (platform.Rect, bool) {
	if *acc == (dockStruts{}) {
		return monitor, false
	}
	monitor.X += acc.left
	monitor.Y += acc.top
	monitor.Width = max(monitor.Width-(acc.left+acc.right), 1)
	monitor.Height = max(monitor.Height-(acc.top+acc.bottom), 1)
	return monitor, true
}
