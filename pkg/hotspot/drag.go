package hotspot

// DragState is the state of a DragSession.
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

func (s DragState) String() string {
	if s == DragDragging {
		return "dragging"
	}
	return "idle"
}

// DragSession tracks a pointer drag on the empty canvas and turns it into a
// new shape on release.
type DragSession struct {
	state      DragState
	mode       ShapeType
	start      Point
	current    Point
	hasCurrent bool
}

// NewDragSession returns an idle session producing shapes of type mode.
// An invalid mode falls back to rectangles.
func NewDragSession(mode ShapeType) *DragSession {
	if !mode.Valid() {
		mode = ShapeRectangle
	}
	return &DragSession{mode: mode}
}

// State returns the current state.
func (d *DragSession) State() DragState { return d.state }

// Active reports whether a drag is in progress.
func (d *DragSession) Active() bool { return d.state == DragDragging }

// Mode returns the shape type the session produces.
func (d *DragSession) Mode() ShapeType { return d.mode }

// SetMode changes the shape type. It is refused while dragging or for an
// unknown type.
func (d *DragSession) SetMode(mode ShapeType) bool {
	if d.state != DragIdle || !mode.Valid() {
		return false
	}
	d.mode = mode
	return true
}

// Begin starts a drag at p. It does nothing if a drag is already active.
func (d *DragSession) Begin(p Point) bool {
	if d.state != DragIdle {
		return false
	}
	d.state = DragDragging
	d.start = p
	d.current = p
	d.hasCurrent = true
	return true
}

// Move records the pointer position while dragging.
func (d *DragSession) Move(p Point) {
	if d.state != DragDragging {
		return
	}
	d.current = p
	d.hasCurrent = true
}

// Invalidate drops the current point, e.g. when the pointer leaves the
// canvas. A release without a later Move aborts the drag.
func (d *DragSession) Invalidate() {
	if d.state == DragDragging {
		d.hasCurrent = false
	}
}

// Points returns the start and current points of an active drag.
func (d *DragSession) Points() (start, current Point, ok bool) {
	if d.state != DragDragging || !d.hasCurrent {
		return Point{}, Point{}, false
	}
	return d.start, d.current, true
}

// Preview returns the shape the drag would commit right now.
func (d *DragSession) Preview() (Shape, bool) {
	start, current, ok := d.Points()
	if !ok {
		return nil, false
	}
	return ComputeShape(d.mode, start, current), true
}

// End finishes the drag and returns to idle. It yields the committed shape,
// or false when the drag is aborted: no current point, or the pointer never
// left the start point.
func (d *DragSession) End() (Shape, bool) {
	defer d.reset()
	start, current, ok := d.Points()
	if !ok || start == current {
		return nil, false
	}
	return ComputeShape(d.mode, start, current), true
}

// Cancel discards an active drag.
func (d *DragSession) Cancel() {
	d.reset()
}

func (d *DragSession) reset() {
	d.state = DragIdle
	d.start = Point{}
	d.current = Point{}
	d.hasCurrent = false
}
