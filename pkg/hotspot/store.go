package hotspot

import (
	"fmt"

	"github.com/google/uuid"
)

// IDPrefix is prepended to generated hotspot ids.
const IDPrefix = "hotspot_"

// Store owns an ordered collection of hotspots and tracks at most one
// selected hotspot. Insertion order is z-order: later entries draw on top.
//
// A Store is not safe for concurrent use; the editor mutates it from a
// single event loop.
type Store struct {
	items    []Hotspot
	selected string // "" = none
	used     map[string]bool
	newID    func() string
}

// NewStore creates an empty store that assigns random ids.
func NewStore() *Store {
	return &Store{
		items: make([]Hotspot, 0),
		used:  make(map[string]bool),
		newID: func() string { return IDPrefix + uuid.NewString() },
	}
}

// NewStoreWithIDs creates an empty store that takes ids from gen. Ids that
// were already issued are skipped, so gen may repeat itself without breaking
// uniqueness.
func NewStoreWithIDs(gen func() string) *Store {
	s := NewStore()
	s.newID = gen
	return s
}

// freshID returns an id that has never been used by this store.
func (s *Store) freshID() string {
	gen := s.newID
	for tries := 0; ; tries++ {
		if tries == 8 {
			gen = func() string { return IDPrefix + uuid.NewString() }
		}
		id := gen()
		if id != "" && !s.used[id] {
			s.used[id] = true
			return id
		}
	}
}

// Create appends a hotspot with a fresh id and returns it. An empty word is
// replaced by DefaultWord. A shape below its minimums, or nil, is refused.
func (s *Store) Create(shape Shape, word string) (Hotspot, bool) {
	if !ValidShape(shape) {
		return Hotspot{}, false
	}
	if word == "" {
		word = s.DefaultWord()
	}
	h := Hotspot{ID: s.freshID(), Word: word, Shape: shape}
	s.items = append(s.items, h)
	return h, true
}

// DefaultWord returns the placeholder word for the next hotspot.
func (s *Store) DefaultWord() string {
	return fmt.Sprintf("word%d", len(s.items)+1)
}

// Update merges p into the hotspot with the given id. It reports false and
// changes nothing when the id is absent. An empty word, a shape of a
// different type and a shape below its minimums are ignored: the word stays
// non-empty and the shape type is fixed at creation.
func (s *Store) Update(id string, p Patch) (Hotspot, bool) {
	i := s.index(id)
	if i < 0 {
		return Hotspot{}, false
	}
	h := s.items[i]
	if p.Word != nil && *p.Word != "" {
		h.Word = *p.Word
	}
	if ValidShape(p.Shape) && p.Shape.Type() == h.Type() {
		h.Shape = p.Shape
	}
	s.items[i] = h
	return h, true
}

// Delete removes the hotspot with the given id. Deleting the selected
// hotspot clears the selection. Unknown ids are ignored.
func (s *Store) Delete(id string) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
}

// FindByID returns the hotspot with the given id.
func (s *Store) FindByID(id string) (Hotspot, bool) {
	i := s.index(id)
	if i < 0 {
		return Hotspot{}, false
	}
	return s.items[i], true
}

func (s *Store) index(id string) int {
	if id == "" {
		return -1
	}
	for i, h := range s.items {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// Select marks id as the selected hotspot. Unknown ids are ignored.
func (s *Store) Select(id string) {
	if s.index(id) >= 0 {
		s.selected = id
	}
}

// ClearSelection deselects any selected hotspot.
func (s *Store) ClearSelection() {
	s.selected = ""
}

// SelectedID returns the selected id, or "" if nothing is selected.
func (s *Store) SelectedID() string {
	return s.selected
}

// Selected returns the canonical copy of the selected hotspot.
func (s *Store) Selected() (Hotspot, bool) {
	return s.FindByID(s.selected)
}

// Len returns the number of hotspots.
func (s *Store) Len() int {
	return len(s.items)
}

// List returns the hotspots in z-order. The slice is a copy.
func (s *Store) List() []Hotspot {
	out := make([]Hotspot, len(s.items))
	copy(out, s.items)
	return out
}

// Load replaces the collection with hs and clears the selection. Records
// without a valid shape are dropped; missing or duplicate ids are replaced with
// fresh ones and empty words with placeholders.
func (s *Store) Load(hs []Hotspot) {
	s.items = make([]Hotspot, 0, len(hs))
	s.selected = ""
	for _, h := range hs {
		if !ValidShape(h.Shape) {
			continue
		}
		if h.ID == "" || s.used[h.ID] {
			h.ID = s.freshID()
		} else {
			s.used[h.ID] = true
		}
		if h.Word == "" {
			h.Word = s.DefaultWord()
		}
		s.items = append(s.items, h)
	}
}
