package editor

import (
	"image/color"

	"github.com/ha1tch/vsd-hotspot/pkg/hotspot"
)

// Colours shared by every renderer.
var (
	ColorFill    = color.RGBA{0x4e, 0xcd, 0xc4, 0xff} // #4ecdc4
	ColorHover   = color.RGBA{0xff, 0x6b, 0x6b, 0xff} // #ff6b6b
	ColorLabel   = color.RGBA{0x00, 0x00, 0x00, 0xff}
	ColorLabelBg = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

const (
	ShapeOpacity   = 0.7
	PreviewOpacity = 0.3
	PreviewStroke  = 2
	LabelFontSize  = 12
	LabelPadding   = 5
)

// Label is the floating word shown next to a hovered hotspot.
type Label struct {
	Text string
	At   hotspot.Point
}

// Item is one hotspot as it should be drawn.
type Item struct {
	ID       string
	Word     string
	Shape    hotspot.Shape // display geometry, hover and move applied
	Hovered  bool
	Selected bool
	Moving   bool
	Label    *Label // nil unless hovered
}

// Fill returns the item's fill colour.
func (it Item) Fill() color.RGBA {
	if it.Hovered {
		return ColorHover
	}
	return ColorFill
}

// Scene is a snapshot of everything the surface displays, back to front.
type Scene struct {
	Page     Page
	Items    []Item
	Preview  hotspot.Shape // nil when no drag is active
	Mode     hotspot.ShapeType
	Selected string
}

// Scene derives the current frame. The preview uses the same geometry a
// release at the current point would commit.
func (s *Surface) Scene() Scene {
	sc := Scene{
		Page:     s.page,
		Mode:     s.drag.Mode(),
		Selected: s.store.SelectedID(),
	}
	hovered := s.Hovered()
	for _, h := range s.store.List() {
		it := Item{
			ID:       h.ID,
			Word:     h.Word,
			Shape:    h.Shape,
			Selected: h.ID == sc.Selected,
		}
		if s.pressID == h.ID && s.pressMoved {
			it.Moving = true
			it.Shape = hotspot.Translate(h.Shape, s.pressPos.X-s.pressStart.X, s.pressPos.Y-s.pressStart.Y)
		}
		if h.ID == hovered {
			it.Hovered = true
			it.Label = &Label{Text: h.Word, At: hotspot.LabelAnchor(it.Shape)}
			it.Shape = hotspot.Enlarge(it.Shape, hotspot.HoverGrow)
		}
		sc.Items = append(sc.Items, it)
	}
	if p, ok := s.drag.Preview(); ok {
		sc.Preview = p
	}
	return sc
}
