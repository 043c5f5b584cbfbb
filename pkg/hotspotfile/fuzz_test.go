package hotspotfile

import (
	"archive/zip"
	"bytes"
	"reflect"
	"testing"
)

// FuzzParseJSON tests the document parser with arbitrary input.
// Run with: go test -fuzz=FuzzParseJSON -fuzztime=30s ./pkg/hotspotfile/
func FuzzParseJSON(f *testing.F) {
	// Seed with valid documents
	f.Add([]byte(`{"hotspots":[{"id":"a","word":"cat","shape_type":"circle","coordinates":{"x":10,"y":20,"radius":15}}]}`))
	f.Add([]byte(`[{"id":"b","word":"tree","shape_type":"rectangle","coordinates":{"x":0,"y":0,"width":30,"height":40}}]`))
	f.Add([]byte(`{"page":{"source":"p.jpg","width":800,"height":600},"hotspots":[]}`))

	// Seed with edge cases
	f.Add([]byte(`{}`))
	f.Add([]byte(`[]`))
	f.Add([]byte(`null`))
	f.Add([]byte(``))
	f.Add([]byte(`{"hotspots":[{"shape_type":"circle","coordinates":{"x":1e308,"y":-1e308,"radius":1e308}}]}`))
	f.Add([]byte(`{"hotspots":[{"shape_type":"rectangle","coordinates":{"x":0,"y":0,"width":-5,"height":40}}]}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		doc, err := ParseJSON(data)
		if err != nil {
			return
		}
		for _, h := range doc.Hotspots {
			if h.Shape == nil {
				t.Fatalf("parsed hotspot %q without shape", h.ID)
			}
		}

		// Round-trip should work
		out, err := ToJSON(doc, false)
		if err != nil {
			t.Fatalf("ToJSON after successful parse: %v", err)
		}
		doc2, err := ParseJSON(out)
		if err != nil {
			t.Fatalf("Round-trip failed: %s -> error: %v", out, err)
		}
		if !reflect.DeepEqual(doc, doc2) {
			t.Errorf("Round-trip mismatch: %+v != %+v", doc, doc2)
		}
	})
}

// FuzzReadBundle tests the .vsd reader with arbitrary archives.
func FuzzReadBundle(f *testing.F) {
	// Seed with a valid bundle
	var buf bytes.Buffer
	if err := WriteBundle(&buf, &Bundle{Document: sampleDocument(), PageData: []byte("not really an image")}); err != nil {
		f.Fatal(err)
	}
	f.Add(buf.Bytes())

	// Seed with an archive missing its hotspots
	buf.Reset()
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("manifest.yaml")
	w.Write([]byte("version: 1\npage_file: page.jpg\n"))
	zw.Close()
	f.Add(buf.Bytes())

	f.Add([]byte{})
	f.Add([]byte("PK\x03\x04"))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Should not panic
		b, err := ReadBundle(bytes.NewReader(data), int64(len(data)))
		if err == nil && b.Document == nil {
			t.Error("bundle read without a document")
		}
	})
}
