// Package hotspotfile reads and writes hotspot documents and page images,
// and renders a scene to SVG or PNG.
package hotspotfile

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // page formats
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ha1tch/vsd-hotspot/pkg/editor"
)

// LoadPage reads and decodes a page image. A zero width or height takes the
// image's own dimensions.
func LoadPage(path string, width, height float64) (editor.Page, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return editor.Page{}, nil, err
	}
	page, err := DecodePage(data, filepath.Base(path), width, height)
	if err != nil {
		return editor.Page{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return page, data, nil
}

// DecodePage decodes page image bytes (JPEG, PNG, WebP, BMP or TIFF).
func DecodePage(data []byte, source string, width, height float64) (editor.Page, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return editor.Page{}, fmt.Errorf("decoding page image: %w", err)
	}
	b := img.Bounds()
	if width <= 0 || height <= 0 {
		width, height = float64(b.Dx()), float64(b.Dy())
	}
	return editor.Page{Image: img, Width: width, Height: height, Source: source}, nil
}

// ScaledPage returns the page image resampled to w x h pixels, or nil if
// the page has no image.
func ScaledPage(p editor.Page, w, h int) *image.RGBA {
	if p.Image == nil || w <= 0 || h <= 0 {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), p.Image, p.Image.Bounds(), draw.Over, nil)
	return dst
}
