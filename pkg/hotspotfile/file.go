package hotspotfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for a document extension other than
// .json or .vsd.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Format is a document file format.
type Format string

const (
	FormatJSON   Format = "json"
	FormatBundle Format = "vsd"
)

// FormatOf returns the format implied by a file name.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".vsd":
		return FormatBundle, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// Load reads a hotspot document from a .json or .vsd file. A JSON file
// yields a bundle without page data.
func Load(path string) (*Bundle, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == FormatBundle {
		return ReadBundleFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Bundle{Document: doc}, nil
}

// Save writes a bundle to path in the format its extension names. Page
// data is dropped when saving JSON.
func Save(path string, b *Bundle, pretty bool) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if format == FormatBundle {
		return WriteBundleFile(path, b)
	}

	doc := b.Document
	if doc == nil {
		doc = &Document{}
	}
	data, err := ToJSON(doc, pretty)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
