// Geometry for building hotspot shapes from pointer drags.
// All functions are pure and total over finite inputs.

package hotspot

import "math"

const (
	MinRadius   = 10  // smallest radius a drag can produce
	MinDragSide = 20  // smallest rectangle side a drag can produce
	MinSize     = 10  // lower bound of the uniform size control
	MaxSize     = 200 // upper bound of the uniform size control
	HoverGrow   = 3   // size units added to a shape while hovered
)

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// ComputeCircle builds a circle anchored at start whose radius reaches
// current, floored at MinRadius.
func ComputeCircle(start, current Point) Circle {
	return Circle{
		X:      start.X,
		Y:      start.Y,
		Radius: math.Max(MinRadius, Distance(start, current)),
	}
}

// ComputeRectangle builds the rectangle spanned by two corners. Each side is
// floored at MinDragSide.
func ComputeRectangle(start, current Point) Rectangle {
	return Rectangle{
		X:      math.Min(start.X, current.X),
		Y:      math.Min(start.Y, current.Y),
		Width:  math.Max(MinDragSide, math.Abs(current.X-start.X)),
		Height: math.Max(MinDragSide, math.Abs(current.Y-start.Y)),
	}
}

// ComputeShape dispatches to ComputeCircle or ComputeRectangle.
// Unknown types produce a rectangle.
func ComputeShape(t ShapeType, start, current Point) Shape {
	if t == ShapeCircle {
		return ComputeCircle(start, current)
	}
	return ComputeRectangle(start, current)
}

// ClampSize limits v to [lo, hi]. NaN clamps to lo.
func ClampSize(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Resize applies the uniform size control to s. Circles take the clamped
// value as radius. Rectangles take it as width and keep their aspect ratio;
// the derived height is clamped to the same range, so the ratio is given up
// when it would fall outside [MinSize, MaxSize].
// A rectangle with a non-positive side has no defined ratio; it is returned
// unchanged with ok false.
func Resize(s Shape, size float64) (resized Shape, ok bool) {
	v := ClampSize(size, MinSize, MaxSize)
	switch s := s.(type) {
	case Circle:
		s.Radius = v
		return s, true
	case Rectangle:
		if !(s.Width > 0) || !(s.Height > 0) {
			return s, false
		}
		ratio := s.Width / s.Height
		s.Width = v
		s.Height = ClampSize(v/ratio, MinSize, MaxSize)
		return s, true
	}
	return s, false
}

// Size returns the value the uniform size control shows for s: the radius of
// a circle or the width of a rectangle.
func Size(s Shape) float64 {
	switch s := s.(type) {
	case Circle:
		return s.Radius
	case Rectangle:
		return s.Width
	}
	return 0
}

// Move places s at a new origin, keeping its dimensions.
func Move(s Shape, to Point) Shape {
	switch s := s.(type) {
	case Circle:
		s.X, s.Y = to.X, to.Y
		return s
	case Rectangle:
		s.X, s.Y = to.X, to.Y
		return s
	}
	return s
}

// Translate offsets s by (dx, dy).
func Translate(s Shape, dx, dy float64) Shape {
	if s == nil {
		return nil
	}
	o := s.Origin()
	return Move(s, Point{o.X + dx, o.Y + dy})
}

// Enlarge grows s by d on every side, keeping its centre in place.
func Enlarge(s Shape, d float64) Shape {
	switch s := s.(type) {
	case Circle:
		s.Radius += d
		return s
	case Rectangle:
		return Rectangle{X: s.X - d, Y: s.Y - d, Width: s.Width + 2*d, Height: s.Height + 2*d}
	}
	return s
}

// Contains reports whether p lies inside s (boundary included).
func Contains(s Shape, p Point) bool {
	switch s := s.(type) {
	case Circle:
		return Distance(Point{s.X, s.Y}, p) <= s.Radius
	case Rectangle:
		return p.X >= s.X && p.X <= s.X+s.Width && p.Y >= s.Y && p.Y <= s.Y+s.Height
	}
	return false
}

// Bounds returns the axis-aligned bounding box of s.
func Bounds(s Shape) (minX, minY, maxX, maxY float64) {
	switch s := s.(type) {
	case Circle:
		return s.X - s.Radius, s.Y - s.Radius, s.X + s.Radius, s.Y + s.Radius
	case Rectangle:
		return s.X, s.Y, s.X + s.Width, s.Y + s.Height
	}
	return 0, 0, 0, 0
}

// LabelAnchor returns where the hover label of s is drawn: to the right of
// the shape and slightly above its origin.
func LabelAnchor(s Shape) Point {
	switch s := s.(type) {
	case Circle:
		return Point{s.X + 20, s.Y - 10}
	case Rectangle:
		return Point{s.X + s.Width + 5, s.Y - 10}
	}
	return Point{}
}
