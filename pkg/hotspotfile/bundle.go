package hotspotfile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// Bundle entry names.
const (
	manifestEntry = "manifest.yaml"
	hotspotsEntry = "hotspots.json"
)

// Manifest is the manifest.yaml content of a .vsd bundle.
type Manifest struct {
	Version  int      `yaml:"version"`
	Name     string   `yaml:"name,omitempty"`
	PageFile string   `yaml:"page_file,omitempty"`
	Page     PageMeta `yaml:"page"`
	Hotspots int      `yaml:"hotspots"`
}

// Bundle is a page image together with its hotspot document.
type Bundle struct {
	Manifest Manifest
	Document *Document
	PageData []byte // raw image bytes, nil if the bundle has no page
}

// WriteBundleFile writes a bundle to a .vsd file.
func WriteBundleFile(filename string, b *Bundle) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteBundle(file, b); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteBundle writes a bundle as a zip archive.
func WriteBundle(w io.Writer, b *Bundle) error {
	if b.Document == nil {
		b.Document = &Document{}
	}
	zw := zip.NewWriter(w)

	m := b.Manifest
	m.Version = 1
	m.Page = b.Document.Page
	m.Hotspots = len(b.Document.Hotspots)
	if len(b.PageData) > 0 && m.PageFile == "" {
		m.PageFile = "page" + path.Ext(b.Document.Page.Source)
	}
	if len(b.PageData) == 0 {
		m.PageFile = ""
	}

	manifest, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	if err := writeEntry(zw, manifestEntry, manifest); err != nil {
		return err
	}

	doc, err := ToJSON(b.Document, true)
	if err != nil {
		return err
	}
	if err := writeEntry(zw, hotspotsEntry, append(doc, '\n')); err != nil {
		return err
	}

	if m.PageFile != "" {
		if err := writeEntry(zw, m.PageFile, b.PageData); err != nil {
			return err
		}
	}
	b.Manifest = m
	return zw.Close()
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadBundleFile reads a .vsd file.
func ReadBundleFile(filename string) (*Bundle, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ReadBundle(bytes.NewReader(data), int64(len(data)))
}

// ReadBundle reads a bundle from a zip archive.
func ReadBundle(r io.ReaderAt, size int64) (*Bundle, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}

	entries := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		entries[f.Name] = data
	}

	b := &Bundle{}
	manifest, ok := entries[manifestEntry]
	if !ok {
		return nil, fmt.Errorf("%s not found in archive", manifestEntry)
	}
	if err := yaml.Unmarshal(manifest, &b.Manifest); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", manifestEntry, err)
	}

	docData, ok := entries[hotspotsEntry]
	if !ok {
		return nil, fmt.Errorf("%s not found in archive", hotspotsEntry)
	}
	b.Document, err = ParseJSON(docData)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", hotspotsEntry, err)
	}
	if b.Document.Page == (PageMeta{}) {
		b.Document.Page = b.Manifest.Page
	}

	if b.Manifest.PageFile != "" {
		b.PageData, ok = entries[b.Manifest.PageFile]
		if !ok {
			return nil, fmt.Errorf("page image %s not found in archive", b.Manifest.PageFile)
		}
	}
	return b, nil
}
