package hotspotfile

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ha1tch/vsd-hotspot/pkg/hotspot"
)

// ErrInvalidDocument is returned for hotspot documents that parse but break
// the model's rules.
var ErrInvalidDocument = errors.New("invalid hotspot document")

// PageMeta describes the page a hotspot set belongs to.
type PageMeta struct {
	Source string  `json:"source,omitempty" yaml:"source,omitempty"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// Document is a page plus its hotspots.
type Document struct {
	Page     PageMeta
	Hotspots []hotspot.Hotspot
}

// jsonDocument is the JSON representation of a Document.
type jsonDocument struct {
	Page     *PageMeta     `json:"page,omitempty"`
	Hotspots []jsonHotspot `json:"hotspots"`
}

type jsonHotspot struct {
	ID          string          `json:"id"`
	Word        string          `json:"word"`
	ShapeType   string          `json:"shape_type"`
	Coordinates jsonCoordinates `json:"coordinates"`
}

type jsonCoordinates struct {
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Radius *float64 `json:"radius,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// ParseJSON parses a hotspot document. Both the full object form and a bare
// array of hotspot records are accepted.
func ParseJSON(data []byte) (*Document, error) {
	var j jsonDocument
	if trimmed := firstNonSpace(data); trimmed == '[' {
		if err := json.Unmarshal(data, &j.Hotspots); err != nil {
			return nil, err
		}
	} else if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}

	doc := &Document{Hotspots: make([]hotspot.Hotspot, 0, len(j.Hotspots))}
	if j.Page != nil {
		doc.Page = *j.Page
	}
	for i, jh := range j.Hotspots {
		shape, err := jh.Coordinates.shape(hotspot.ShapeType(jh.ShapeType))
		if err != nil {
			return nil, fmt.Errorf("%w: hotspot %d (%s): %v", ErrInvalidDocument, i, jh.ID, err)
		}
		doc.Hotspots = append(doc.Hotspots, hotspot.Hotspot{
			ID:    jh.ID,
			Word:  jh.Word,
			Shape: shape,
		})
	}
	return doc, nil
}

func (c jsonCoordinates) shape(t hotspot.ShapeType) (hotspot.Shape, error) {
	switch t {
	case hotspot.ShapeCircle:
		if c.Radius == nil {
			return nil, fmt.Errorf("circle has no radius")
		}
		if *c.Radius < hotspot.MinRadius {
			return nil, fmt.Errorf("radius %.2f below minimum %d", *c.Radius, hotspot.MinRadius)
		}
		return hotspot.Circle{X: c.X, Y: c.Y, Radius: *c.Radius}, nil
	case hotspot.ShapeRectangle:
		if c.Width == nil || c.Height == nil {
			return nil, fmt.Errorf("rectangle needs width and height")
		}
		if *c.Width < hotspot.MinSize || *c.Height < hotspot.MinSize {
			return nil, fmt.Errorf("rectangle %.2fx%.2f below minimum %d", *c.Width, *c.Height, hotspot.MinSize)
		}
		return hotspot.Rectangle{X: c.X, Y: c.Y, Width: *c.Width, Height: *c.Height}, nil
	}
	return nil, fmt.Errorf("unknown shape type %q", t)
}

// ToJSON converts a document to JSON.
func ToJSON(doc *Document, pretty bool) ([]byte, error) {
	j := jsonDocument{Hotspots: make([]jsonHotspot, 0, len(doc.Hotspots))}
	if doc.Page != (PageMeta{}) {
		page := doc.Page
		j.Page = &page
	}

	for _, h := range doc.Hotspots {
		jh := jsonHotspot{ID: h.ID, Word: h.Word, ShapeType: string(h.Type())}
		switch s := h.Shape.(type) {
		case hotspot.Circle:
			r := s.Radius
			jh.Coordinates = jsonCoordinates{X: s.X, Y: s.Y, Radius: &r}
		case hotspot.Rectangle:
			w, ht := s.Width, s.Height
			jh.Coordinates = jsonCoordinates{X: s.X, Y: s.Y, Width: &w, Height: &ht}
		default:
			return nil, fmt.Errorf("%w: hotspot %s has no shape", ErrInvalidDocument, h.ID)
		}
		j.Hotspots = append(j.Hotspots, jh)
	}

	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}

func firstNonSpace(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b
	}
	return 0
}
