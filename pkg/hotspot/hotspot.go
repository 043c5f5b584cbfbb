// Package hotspot provides the hotspot model, the geometry used to build
// shapes from pointer drags, and the in-memory store that owns them.
package hotspot

import "fmt"

// ShapeType discriminates the geometry a hotspot carries.
type ShapeType string

const (
	ShapeCircle    ShapeType = "circle"
	ShapeRectangle ShapeType = "rectangle"
)

// Valid reports whether t is a known shape type.
func (t ShapeType) Valid() bool {
	return t == ShapeCircle || t == ShapeRectangle
}

// Point is a canvas-local coordinate.
type Point struct {
	X, Y float64
}

// Shape is the geometry of a hotspot. It is implemented only by Circle and
// Rectangle.
type Shape interface {
	Type() ShapeType
	Origin() Point
	isShape()
}

// Circle is anchored at its centre.
type Circle struct {
	X, Y   float64
	Radius float64
}

func (Circle) Type() ShapeType  { return ShapeCircle }
func (c Circle) Origin() Point  { return Point{c.X, c.Y} }
func (Circle) isShape()         {}
func (c Circle) String() string { return fmt.Sprintf("circle(%.0f, %.0f r=%.0f)", c.X, c.Y, c.Radius) }

// Rectangle is axis-aligned and anchored at its top-left corner.
type Rectangle struct {
	X, Y          float64
	Width, Height float64
}

func (Rectangle) Type() ShapeType { return ShapeRectangle }
func (r Rectangle) Origin() Point { return Point{r.X, r.Y} }
func (Rectangle) isShape()        {}
func (r Rectangle) String() string {
	return fmt.Sprintf("rectangle(%.0f, %.0f %.0fx%.0f)", r.X, r.Y, r.Width, r.Height)
}

// Hotspot is a labelled clickable region on a page image.
type Hotspot struct {
	ID    string
	Word  string
	Shape Shape
}

// Type returns the hotspot's shape type, or "" if it has no shape.
func (h Hotspot) Type() ShapeType {
	if h.Shape == nil {
		return ""
	}
	return h.Shape.Type()
}

// Patch holds the fields to change in Store.Update. Nil fields are left
// untouched.
type Patch struct {
	Word  *string
	Shape Shape
}

// WordPatch returns a patch that changes only the word.
func WordPatch(word string) Patch {
	return Patch{Word: &word}
}

// ShapePatch returns a patch that changes only the geometry.
func ShapePatch(s Shape) Patch {
	return Patch{Shape: s}
}

// Validate checks the invariants of a hotspot record.
func (h Hotspot) Validate() error {
	if h.ID == "" {
		return fmt.Errorf("hotspot has no id")
	}
	if h.Word == "" {
		return fmt.Errorf("hotspot %s has no word", h.ID)
	}
	switch s := h.Shape.(type) {
	case Circle:
		if !(s.Radius >= MinRadius) {
			return fmt.Errorf("hotspot %s: radius %.2f below minimum %d", h.ID, s.Radius, MinRadius)
		}
	case Rectangle:
		if !(s.Width >= MinSize) || !(s.Height >= MinSize) {
			return fmt.Errorf("hotspot %s: rectangle %.2fx%.2f below minimum %d", h.ID, s.Width, s.Height, MinSize)
		}
	case nil:
		return fmt.Errorf("hotspot %s has no shape", h.ID)
	default:
		return fmt.Errorf("hotspot %s: unknown shape %T", h.ID, s)
	}
	return nil
}

// ValidShape reports whether s is a circle or rectangle meeting its size
// minimums.
func ValidShape(s Shape) bool {
	switch s := s.(type) {
	case Circle:
		return s.Radius >= MinRadius
	case Rectangle:
		return s.Width >= MinSize && s.Height >= MinSize
	}
	return false
}
