package zimg

import "fmt"

// Point is an (x, y) pixel coordinate.
type Point struct {
	X, Y uint32
}

// Rect is an axis-aligned rectangle in pixel coordinates with the origin
// at the top-left. The rectangle covers [X, X+W) x [Y, Y+H).
type Rect struct {
	X, Y, W, H uint32
}

// Contains reports whether the point (px, py) lies inside the rectangle.
// The high edges are exclusive.
func (r Rect) Contains(px, py uint32) bool {
	return px >= r.X && uint64(px) < uint64(r.X)+uint64(r.W) &&
		py >= r.Y && uint64(py) < uint64(r.Y)+uint64(r.H)
}

// Within reports whether the rectangle lies entirely inside a
// width x height image.
func (r Rect) Within(width, height uint32) bool {
	return uint64(r.X)+uint64(r.W) <= uint64(width) &&
		uint64(r.Y)+uint64(r.H) <= uint64(height)
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W == 0 || r.H == 0
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.W, r.H, r.X, r.Y)
}

func square(p Point, side uint32) Rect {
	return Rect{X: p.X, Y: p.Y, W: side, H: side}
}
