package platform

import (
	"fmt"
	"math"
)

// DisplayID is a platform-neutral display identifier.
type DisplayID int

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersect returns the overlap of r and o, or the zero Rect when they do
// not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1, y1 := max(r.X, o.X), max(r.Y, o.Y)
	x2, y2 := min(r.X+r.Width, o.X+o.Width), min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Point is a position in integer coordinates.
type Point struct {
	X int
	Y int
}

// Size is a width and height. Window sizes are logical units unless stated
// otherwise.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Display describes a physical display. It is a snapshot: topology changes
// are observed by enumerating again.
type Display struct {
	ID     DisplayID
	Name   string
	Bounds Rect
	// Usable excludes panels and docks when the platform reports them.
	Usable Rect
	// RefreshHz is zero when unknown.
	RefreshHz float64
	// Scale is the ratio of physical to logical units.
	Scale   float64
	Primary bool
}

// Physical converts a logical size to physical pixels on this display.
func (d Display) Physical(s Size) Size {
	scale := d.scale()
	return Size{
		Width:  int(math.Round(float64(s.Width) * scale)),
		Height: int(math.Round(float64(s.Height) * scale)),
	}
}

// Logical converts a physical size on this display to logical units.
func (d Display) Logical(s Size) Size {
	scale := d.scale()
	return Size{
		Width:  int(math.Round(float64(s.Width) / scale)),
		Height: int(math.Round(float64(s.Height) / scale)),
	}
}

func (d Display) scale() float64 {
	if d.Scale <= 0 {
		return 1
	}
	return d.Scale
}
