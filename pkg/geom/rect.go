// Package geom provides the axis-aligned integer rectangle used throughout rectsweep.
//
// Bounds are inclusive: a rectangle at (x, y) with width w and height h spans the
// columns x..x+w-1 and the rows y..y+h-1. Rows grow upward, so Bottom is the lowest
// row and Top the highest.
package geom

import (
	"errors"
	"fmt"
)

// ErrNonPositiveSize is returned by Validate for rectangles without area.
var ErrNonPositiveSize = errors.New("rectangle width and height must be positive")

// Rect is an immutable axis-aligned rectangle on a signed integer grid.
type Rect struct {
	X      int `json:"x"      yaml:"x"`
	Y      int `json:"y"      yaml:"y"`
	Width  int `json:"width"  yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// New creates a Rect. Width and height are not validated.
func New(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Left returns the lowest column.
func (r Rect) Left() int { return r.X }

// Right returns the highest column.
func (r Rect) Right() int { return r.X + r.Width - 1 }

// Bottom returns the lowest row.
func (r Rect) Bottom() int { return r.Y }

// Top returns the highest row.
func (r Rect) Top() int { return r.Y + r.Height - 1 }

// Intersects reports whether r and other share at least one cell.
// Rectangles that only touch edges (r.Right()+1 == other.Left()) do not intersect.
func (r Rect) Intersects(other Rect) bool {
	if r.Left() > other.Right() || r.Right() < other.Left() {
		return false
	}

	if r.Bottom() > other.Top() || r.Top() < other.Bottom() {
		return false
	}

	return true
}

// Intersection returns the shared cells of r and other.
// The boolean is false when the rectangles do not intersect.
func (r Rect) Intersection(other Rect) (Rect, bool) {
	if !r.Intersects(other) {
		return Rect{}, false
	}

	left := max(r.Left(), other.Left())
	right := min(r.Right(), other.Right())
	bottom := max(r.Bottom(), other.Bottom())
	top := min(r.Top(), other.Top())

	return FromBounds(left, bottom, right, top), true
}

// FromBounds builds a Rect from inclusive bounds.
func FromBounds(left, bottom, right, top int) Rect {
	return Rect{X: left, Y: bottom, Width: right - left + 1, Height: top - bottom + 1}
}

// Area returns the number of cells covered by r.
func (r Rect) Area() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}

	return r.Width * r.Height
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left() && x <= r.Right() && y >= r.Bottom() && y <= r.Top()
}

// ContainsRect reports whether every cell of other lies inside r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.Left() >= r.Left() && other.Right() <= r.Right() &&
		other.Bottom() >= r.Bottom() && other.Top() <= r.Top()
}

// Validate checks that r has positive width and height.
func (r Rect) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: %s", ErrNonPositiveSize, r)
	}

	return nil
}

// String formats r as "(x,y wxh)".
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}
