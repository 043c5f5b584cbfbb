package hotspot

import (
	"math"
	"testing"
)

// FuzzDragGeometry checks that every committed drag satisfies the shape
// minimums and matches its preview.
// Run with: go test -fuzz=FuzzDragGeometry -fuzztime=30s ./pkg/hotspot/
func FuzzDragGeometry(f *testing.F) {
	f.Add(100.0, 100.0, 150.0, 130.0, true)
	f.Add(100.0, 100.0, 100.0, 100.0, false)
	f.Add(0.0, 0.0, -50.0, -50.0, true)
	f.Add(1e9, 1e9, -1e9, 3.0, false)

	f.Fuzz(func(t *testing.T, x1, y1, x2, y2 float64, circle bool) {
		for _, v := range []float64{x1, y1, x2, y2} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return
			}
		}
		mode := ShapeRectangle
		if circle {
			mode = ShapeCircle
		}

		d := NewDragSession(mode)
		d.Begin(Point{x1, y1})
		d.Move(Point{x2, y2})
		preview, hasPreview := d.Preview()
		shape, ok := d.End()

		if !ok {
			if x1 != x2 || y1 != y2 {
				t.Fatalf("drag (%v,%v)->(%v,%v) aborted", x1, y1, x2, y2)
			}
			return
		}
		if !hasPreview || preview != shape {
			t.Errorf("preview %v != committed %v", preview, shape)
		}
		switch s := shape.(type) {
		case Circle:
			if s.Radius < MinRadius {
				t.Errorf("radius %v below minimum", s.Radius)
			}
		case Rectangle:
			if s.Width < MinDragSide || s.Height < MinDragSide {
				t.Errorf("rectangle %vx%v below minimum", s.Width, s.Height)
			}
		}
		if d.State() != DragIdle {
			t.Errorf("state after End = %v", d.State())
		}
	})
}

// FuzzResize checks that the size control always yields bounded sides.
func FuzzResize(f *testing.F) {
	f.Add(50.0, 60.0, 75.0)
	f.Add(10.0, 200.0, 200.0)
	f.Add(200.0, 10.0, 5.0)
	f.Add(0.0, 40.0, 50.0)

	f.Fuzz(func(t *testing.T, w, h, size float64) {
		if math.IsNaN(w) || math.IsNaN(h) {
			return
		}
		r := Rectangle{X: 1, Y: 2, Width: w, Height: h}
		got, ok := Resize(r, size)
		if !ok {
			if w > 0 && h > 0 && !math.IsInf(w, 0) && !math.IsInf(h, 0) {
				t.Fatalf("Resize(%vx%v, %v) refused", w, h, size)
			}
			if got != Shape(r) {
				t.Errorf("refused resize changed shape to %v", got)
			}
			return
		}
		nr := got.(Rectangle)
		for _, side := range []float64{nr.Width, nr.Height} {
			if !(side >= MinSize && side <= MaxSize) {
				t.Errorf("Resize(%vx%v, %v) = %vx%v out of range", w, h, size, nr.Width, nr.Height)
			}
		}
		if nr.X != 1 || nr.Y != 2 {
			t.Errorf("resize moved the origin to (%v, %v)", nr.X, nr.Y)
		}
	})
}
