package hotspotfile

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ha1tch/vsd-hotspot/pkg/editor"
	"github.com/ha1tch/vsd-hotspot/pkg/hotspot"
)

func sampleDocument() *Document {
	return &Document{
		Page: PageMeta{Source: "page1.png", Width: 800, Height: 600},
		Hotspots: []hotspot.Hotspot{
			{ID: "hotspot_a", Word: "cat", Shape: hotspot.Circle{X: 100, Y: 120, Radius: 25}},
			{ID: "hotspot_b", Word: "tree", Shape: hotspot.Rectangle{X: 300, Y: 40, Width: 80, Height: 160}},
		},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	doc := sampleDocument()
	data, err := ToJSON(doc, true)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if !strings.Contains(string(data), `"shape_type": "circle"`) {
		t.Errorf("output missing shape_type:\n%s", data)
	}

	got, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, doc)
	}
}

func TestParseJSONBareArray(t *testing.T) {
	data := []byte(`
	[
	  {"id": "hotspot_1", "word": "sun", "shape_type": "circle",
	   "coordinates": {"x": 10, "y": 20, "radius": 12}}
	]`)
	doc, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(doc.Hotspots) != 1 || doc.Hotspots[0].Shape != (hotspot.Circle{X: 10, Y: 20, Radius: 12}) {
		t.Errorf("got %+v", doc.Hotspots)
	}
}

func TestParseJSONInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown shape", `{"hotspots":[{"id":"a","word":"x","shape_type":"triangle","coordinates":{"x":0,"y":0}}]}`},
		{"circle without radius", `{"hotspots":[{"id":"a","word":"x","shape_type":"circle","coordinates":{"x":0,"y":0}}]}`},
		{"tiny circle", `{"hotspots":[{"id":"a","word":"x","shape_type":"circle","coordinates":{"x":0,"y":0,"radius":2}}]}`},
		{"rectangle without height", `{"hotspots":[{"id":"a","word":"x","shape_type":"rectangle","coordinates":{"x":0,"y":0,"width":30}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.data))
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("err = %v, want ErrInvalidDocument", err)
			}
		})
	}

	if _, err := ParseJSON([]byte(`{not json`)); err == nil {
		t.Error("expected syntax error")
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestBundleRoundTrip(t *testing.T) {
	pageData := testPNG(t, 40, 30)
	b := &Bundle{
		Manifest: Manifest{Name: "Three Little Pigs, p1"},
		Document: sampleDocument(),
		PageData: pageData,
	}

	path := filepath.Join(t.TempDir(), "story.vsd")
	if err := WriteBundleFile(path, b); err != nil {
		t.Fatalf("WriteBundleFile: %v", err)
	}

	got, err := ReadBundleFile(path)
	if err != nil {
		t.Fatalf("ReadBundleFile: %v", err)
	}
	if got.Manifest.Version != 1 || got.Manifest.Hotspots != 2 || got.Manifest.PageFile != "page.png" {
		t.Errorf("manifest = %+v", got.Manifest)
	}
	if got.Manifest.Name != "Three Little Pigs, p1" {
		t.Errorf("name = %q", got.Manifest.Name)
	}
	if !bytes.Equal(got.PageData, pageData) {
		t.Error("page bytes changed")
	}
	if !reflect.DeepEqual(got.Document, sampleDocument()) {
		t.Errorf("document = %+v", got.Document)
	}
}

func TestBundleWithoutPage(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBundle(&buf, &Bundle{Document: &Document{}}); err != nil {
		t.Fatalf("WriteBundle: %v", err)
	}
	got, err := ReadBundle(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("ReadBundle: %v", err)
	}
	if got.PageData != nil || len(got.Document.Hotspots) != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestDecodePage(t *testing.T) {
	data := testPNG(t, 40, 30)

	p, err := DecodePage(data, "p.png", 0, 0)
	if err != nil {
		t.Fatalf("DecodePage: %v", err)
	}
	if p.Width != 40 || p.Height != 30 {
		t.Errorf("size = %.0fx%.0f, want 40x30", p.Width, p.Height)
	}

	p, _ = DecodePage(data, "p.png", 800, 600)
	if p.Width != 800 || p.Height != 600 {
		t.Errorf("display size = %.0fx%.0f, want 800x600", p.Width, p.Height)
	}
	if scaled := ScaledPage(p, 80, 60); scaled.Bounds().Dx() != 80 {
		t.Errorf("scaled width = %d", scaled.Bounds().Dx())
	}

	if _, err := DecodePage([]byte("not an image"), "x", 0, 0); err == nil {
		t.Error("expected decode error")
	}
}

func sampleScene() editor.Scene {
	s := editor.NewSurface(editor.Page{Width: 200, Height: 100}, nil)
	s.Load([]hotspot.Hotspot{
		{ID: "c", Word: "ball", Shape: hotspot.Circle{X: 50, Y: 50, Radius: 20}},
		{ID: "r", Word: "box & lid", Shape: hotspot.Rectangle{X: 120, Y: 20, Width: 40, Height: 40}},
	})
	s.PointerMove(s.At(hotspot.Point{X: 130, Y: 30}))
	return s.Scene()
}

func TestGenerateSVG(t *testing.T) {
	svg := GenerateSVG(sampleScene(), SVGOptions{PageHref: "page.png"})

	for _, want := range []string{
		`viewBox="0 0 200.00 100.00"`,
		`<image href="page.png"`,
		`<circle id="c" cx="50.00" cy="50.00" r="20.00" fill="#4ecdc4"`,
		`<rect id="r" x="117.00" y="17.00" width="46.00" height="46.00" fill="#ff6b6b"`,
		`box &amp; lid`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q\n%s", want, svg)
		}
	}
	if strings.Contains(svg, ">ball<") {
		t.Error("label drawn for hotspot that is not hovered")
	}

	all := GenerateSVG(sampleScene(), SVGOptions{ShowWords: true})
	if !strings.Contains(all, ">ball<") {
		t.Error("ShowWords did not draw every word")
	}
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPNG(sampleScene(), &buf, DefaultPNGOptions()); err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("size = %v, want 200x100", b)
	}

	// Centre of the circle is teal over the dark background.
	r, g, b, _ := img.At(50, 50).RGBA()
	if !(g > r && b > r) {
		t.Errorf("circle centre colour = (%d, %d, %d), want teal", r>>8, g>>8, b>>8)
	}
	// Outside every shape stays background.
	r, g, b, _ = img.At(5, 95).RGBA()
	if !near(r>>8, 0x1a) || !near(g>>8, 0x1a) || !near(b>>8, 0x1a) {
		t.Errorf("background = (%d, %d, %d)", r>>8, g>>8, b>>8)
	}
}

func near(got, want uint32) bool {
	d := int(got) - int(want)
	return d >= -2 && d <= 2
}

func TestLoadSaveByExtension(t *testing.T) {
	dir := t.TempDir()
	b := &Bundle{Document: sampleDocument(), PageData: testPNG(t, 4, 4)}

	for _, name := range []string{"doc.json", "doc.vsd"} {
		path := filepath.Join(dir, name)
		if err := Save(path, b, false); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if !reflect.DeepEqual(got.Document, sampleDocument()) {
			t.Errorf("%s: document = %+v", name, got.Document)
		}
		if wantPage := name == "doc.vsd"; (got.PageData != nil) != wantPage {
			t.Errorf("%s: page data present = %v, want %v", name, got.PageData != nil, wantPage)
		}
	}

	if err := Save(filepath.Join(dir, "doc.txt"), b, false); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Save(.txt) err = %v, want ErrUnsupportedFormat", err)
	}
}
