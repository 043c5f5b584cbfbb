// Package editor implements the interaction surface of the hotspot editor:
// it routes pointer events to the drag session and the hotspot store, and
// derives what a front-end should draw.
package editor

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"

	"github.com/ha1tch/vsd-hotspot/pkg/hotspot"
)

// Default canvas size in canvas units.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Page is the background the hotspots are drawn over. The surface never
// modifies it.
type Page struct {
	Image  image.Image // may be nil
	Width  float64     // display width in canvas units
	Height float64     // display height in canvas units
	Source string      // file path or storage locator, informational
}

// PointerEvent is a pointer press, move or release on the canvas. Target is
// the id of the hotspot under the pointer, or "" for the background.
type PointerEvent struct {
	Target string
	Pos    hotspot.Point
}

// Surface is the hotspot editing surface. Like the store it wraps, it is
// driven from a single event loop.
type Surface struct {
	page   Page
	store  *hotspot.Store
	drag   *hotspot.DragSession
	logger *slog.Logger

	hovered string // hotspot under the pointer, "" = none

	// Press on an existing hotspot: click or move-in-place.
	pressID    string
	pressStart hotspot.Point
	pressPos   hotspot.Point
	pressMoved bool
}

// NewSurface creates a surface over page with an empty store. A nil logger
// discards output. A page without a size gets the default canvas size.
func NewSurface(page Page, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if page.Width <= 0 || page.Height <= 0 {
		page.Width, page.Height = DefaultWidth, DefaultHeight
	}
	return &Surface{
		page:   page,
		store:  hotspot.NewStore(),
		drag:   hotspot.NewDragSession(hotspot.ShapeRectangle),
		logger: logger,
	}
}

// Page returns the background page.
func (s *Surface) Page() Page { return s.page }

// SetPage replaces the background. Hotspots are kept.
func (s *Surface) SetPage(p Page) {
	if p.Width <= 0 || p.Height <= 0 {
		p.Width, p.Height = s.page.Width, s.page.Height
	}
	s.page = p
	s.logger.Info("page loaded", "source", p.Source, "width", p.Width, "height", p.Height)
}

// Store exposes the underlying hotspot store.
func (s *Surface) Store() *hotspot.Store { return s.store }

// ShapeMode returns the shape type new drags produce.
func (s *Surface) ShapeMode() hotspot.ShapeType { return s.drag.Mode() }

// SetShapeMode changes the shape type for new drags. It is refused during a
// drag.
func (s *Surface) SetShapeMode(mode hotspot.ShapeType) bool {
	return s.drag.SetMode(mode)
}

// Dragging reports whether a new shape is being drawn.
func (s *Surface) Dragging() bool { return s.drag.Active() }

// Pressing reports whether the pointer is held down on an existing hotspot.
func (s *Surface) Pressing() bool { return s.pressID != "" }

// Moving reports whether an existing hotspot is being dragged.
func (s *Surface) Moving() bool { return s.pressID != "" && s.pressMoved }

// InBounds reports whether p lies on the canvas.
func (s *Surface) InBounds(p hotspot.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= s.page.Width && p.Y <= s.page.Height
}

// HitTest returns the id of the topmost hotspot containing p, or "".
func (s *Surface) HitTest(p hotspot.Point) string {
	list := s.store.List()
	for i := len(list) - 1; i >= 0; i-- {
		if hotspot.Contains(list[i].Shape, p) {
			return list[i].ID
		}
	}
	return ""
}

// At builds a pointer event at p, targeting whatever hotspot is there.
func (s *Surface) At(p hotspot.Point) PointerEvent {
	return PointerEvent{Target: s.HitTest(p), Pos: p}
}

// PointerDown starts a drag session on the background, or a press on the
// targeted hotspot.
func (s *Surface) PointerDown(ev PointerEvent) {
	if s.drag.Active() || s.pressID != "" {
		return
	}
	if ev.Target != "" {
		h, ok := s.store.FindByID(ev.Target)
		if !ok {
			return
		}
		s.pressID = h.ID
		s.pressStart = ev.Pos
		s.pressPos = ev.Pos
		s.pressMoved = false
		return
	}
	if !s.InBounds(ev.Pos) {
		return
	}
	s.drag.Begin(ev.Pos)
}

// PointerMove updates the live preview, the position of a hotspot being
// moved, or the hover target.
func (s *Surface) PointerMove(ev PointerEvent) {
	switch {
	case s.drag.Active():
		if s.InBounds(ev.Pos) {
			s.drag.Move(ev.Pos)
		} else {
			s.drag.Invalidate()
		}
	case s.pressID != "":
		s.pressPos = ev.Pos
		if ev.Pos != s.pressStart {
			s.pressMoved = true
		}
	default:
		s.setHover(ev.Target)
	}
}

// PointerUp commits a drag session, or finishes a press as a click or a
// move.
func (s *Surface) PointerUp(ev PointerEvent) {
	switch {
	case s.drag.Active():
		if s.InBounds(ev.Pos) {
			s.drag.Move(ev.Pos)
		} else {
			s.drag.Invalidate()
		}
		shape, ok := s.drag.End()
		if !ok {
			s.logger.Debug("drag aborted")
			return
		}
		h, ok := s.store.Create(shape, "")
		if !ok {
			s.logger.Debug("drag aborted", "shape", shape)
			return
		}
		s.store.Select(h.ID)
		s.logger.Info("hotspot created", "id", h.ID, "word", h.Word, "shape", h.Type())
	case s.pressID != "":
		id := s.pressID
		s.pressPos = ev.Pos
		moved := s.pressMoved || ev.Pos != s.pressStart
		dx, dy := s.pressPos.X-s.pressStart.X, s.pressPos.Y-s.pressStart.Y
		s.pressID = ""
		s.pressMoved = false
		if moved {
			s.moveBy(id, dx, dy)
		} else {
			s.Click(id)
		}
	}
}

// Cancel abandons any drag or press in progress.
func (s *Surface) Cancel() {
	s.drag.Cancel()
	s.pressID = ""
	s.pressMoved = false
}

// Click selects the hotspot with the given id.
func (s *Surface) Click(id string) {
	h, ok := s.store.FindByID(id)
	if !ok {
		return
	}
	s.store.Select(id)
	s.logger.Info("hotspot clicked", "id", id, "word", h.Word)
}

func (s *Surface) moveBy(id string, dx, dy float64) {
	h, ok := s.store.FindByID(id)
	if !ok {
		return
	}
	h, _ = s.store.Update(id, hotspot.ShapePatch(hotspot.Translate(h.Shape, dx, dy)))
	o := h.Shape.Origin()
	s.logger.Info("hotspot moved", "id", id, "x", o.X, "y", o.Y)
}

// MoveTo places the hotspot's origin at p. Shape type, size and word are
// unaffected.
func (s *Surface) MoveTo(id string, p hotspot.Point) bool {
	h, ok := s.store.FindByID(id)
	if !ok {
		return false
	}
	o := h.Shape.Origin()
	s.moveBy(id, p.X-o.X, p.Y-o.Y)
	return true
}

func (s *Surface) setHover(id string) {
	if id == s.hovered {
		return
	}
	if _, ok := s.store.FindByID(id); !ok {
		id = ""
	}
	s.hovered = id
}

// Hovered returns the id of the hotspot under the pointer, or "".
func (s *Surface) Hovered() string {
	if _, ok := s.store.FindByID(s.hovered); !ok {
		return ""
	}
	return s.hovered
}

// Select selects a hotspot, e.g. from a list.
func (s *Surface) Select(id string) { s.Click(id) }

// ClearSelection deselects.
func (s *Surface) ClearSelection() { s.store.ClearSelection() }

// Selected returns the store's current copy of the selected hotspot.
func (s *Surface) Selected() (hotspot.Hotspot, bool) {
	return s.store.Selected()
}

// SetWord changes the selected hotspot's word.
func (s *Surface) SetWord(word string) bool {
	h, ok := s.store.Selected()
	if !ok {
		return false
	}
	_, ok = s.store.Update(h.ID, hotspot.WordPatch(word))
	return ok
}

// SetSize applies the uniform size control to the selected hotspot.
// Out-of-range sizes are clamped; rectangles keep their aspect ratio.
func (s *Surface) SetSize(size float64) bool {
	h, ok := s.store.Selected()
	if !ok {
		return false
	}
	shape, ok := hotspot.Resize(h.Shape, size)
	if !ok {
		s.logger.Warn("resize skipped", "id", h.ID, "shape", h.Shape)
		return false
	}
	_, ok = s.store.Update(h.ID, hotspot.ShapePatch(shape))
	return ok
}

// DeleteSelected removes the selected hotspot.
func (s *Surface) DeleteSelected() bool {
	h, ok := s.store.Selected()
	if !ok {
		return false
	}
	s.Delete(h.ID)
	return true
}

// Delete removes a hotspot by id.
func (s *Surface) Delete(id string) {
	h, ok := s.store.FindByID(id)
	if !ok {
		return
	}
	s.store.Delete(id)
	if s.hovered == id {
		s.hovered = ""
	}
	if s.pressID == id {
		s.pressID = ""
		s.pressMoved = false
	}
	s.logger.Info("hotspot deleted", "id", id, "word", h.Word)
}

// Load replaces all hotspots with hs.
func (s *Surface) Load(hs []hotspot.Hotspot) {
	s.Cancel()
	s.hovered = ""
	s.store.Load(hs)
}

// Export returns the current hotspots in z-order.
func (s *Surface) Export() []hotspot.Hotspot {
	return s.store.List()
}

// Describe formats a hotspot for a list entry: word, rounded position and
// shape type.
func Describe(h hotspot.Hotspot) string {
	o := h.Shape.Origin()
	return fmt.Sprintf("%s (%d, %d) [%s]", h.Word, int(math.Round(o.X)), int(math.Round(o.Y)), h.Type())
}
