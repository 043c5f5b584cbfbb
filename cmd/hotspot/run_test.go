package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ha1tch/vsd-hotspot/pkg/editor"
	"github.com/ha1tch/vsd-hotspot/pkg/hotspot"
	"github.com/ha1tch/vsd-hotspot/pkg/hotspotfile"
)

func newTestSession(t *testing.T) (*session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	b := &hotspotfile.Bundle{Document: &hotspotfile.Document{}}
	return &session{
		surface: editor.NewSurface(editor.Page{}, nil),
		bundle:  b,
		out:     &out,
	}, &out
}

func TestSessionDrawAndEdit(t *testing.T) {
	r, out := newTestSession(t)

	script := []string{
		"drag 100 100 150 130",
		"word pig",
		"mode circle",
		"drag 400 300 430 340",
		"select 1",
		"size 100",
	}
	for _, line := range script {
		if !r.exec(line) {
			t.Fatalf("%q ended the session", line)
		}
	}

	list := r.surface.Export()
	if len(list) != 2 {
		t.Fatalf("got %d hotspots, want 2\n%s", len(list), out)
	}
	if list[0].Word != "pig" || list[0].Shape != (hotspot.Rectangle{X: 100, Y: 100, Width: 100, Height: 60}) {
		t.Errorf("first = %+v", list[0])
	}
	if c, ok := list[1].Shape.(hotspot.Circle); !ok || c.Radius != 50 {
		t.Errorf("second = %+v", list[1].Shape)
	}
	if !strings.Contains(out.String(), "Selected: pig (100, 100) [rectangle], size 100") {
		t.Errorf("output:\n%s", out)
	}
}

func TestSessionMoveAndDelete(t *testing.T) {
	r, _ := newTestSession(t)
	r.exec("drag 100 100 150 150")
	r.exec("drag 120 120 220 170")

	list := r.surface.Export()
	if len(list) != 1 {
		t.Fatalf("got %d hotspots, want 1", len(list))
	}
	if o := list[0].Shape.Origin(); o != (hotspot.Point{X: 200, Y: 150}) {
		t.Errorf("origin = %v, want (200, 150)", o)
	}

	r.exec("click 210 160")
	r.exec("delete")
	if n := r.surface.Store().Len(); n != 0 {
		t.Errorf("len = %d after delete", n)
	}
}

func TestSessionBadInput(t *testing.T) {
	r, out := newTestSession(t)
	for _, line := range []string{"drag 1 2", "click x y", "size 50", "word cat", "bogus", "mode hexagon"} {
		r.exec(line)
	}
	if r.surface.Store().Len() != 0 {
		t.Error("bad input created a hotspot")
	}
	for _, want := range []string{"expected 4 coordinates", "must be numbers", "size not applied", "nothing selected", "Unknown command: bogus", `cannot switch to "hexagon"`} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if r.exec("quit") {
		t.Error("quit did not end the session")
	}
}

func TestSessionSave(t *testing.T) {
	r, _ := newTestSession(t)
	r.exec("drag 10 10 60 60")
	path := filepath.Join(t.TempDir(), "out.json")
	r.exec("save " + path)

	b, err := hotspotfile.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(b.Document.Hotspots) != 1 || b.Document.Hotspots[0].Word != "word1" {
		t.Errorf("saved %+v", b.Document.Hotspots)
	}
}
