package hotspotfile

import (
	"fmt"
	"html"
	"image/color"
	"strings"

	"github.com/ha1tch/vsd-hotspot/pkg/editor"
	"github.com/ha1tch/vsd-hotspot/pkg/hotspot"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Width     int    // output width in pixels (0 = page width)
	Height    int    // output height in pixels (0 = page height)
	PageHref  string // URL or data URI of the page image, omitted if empty
	Title     string // drawn in the top-left corner if set
	ShowWords bool   // draw every word, not only the hovered one
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{}
}

// GenerateSVG renders a scene to SVG. Canvas units map to SVG user units;
// the viewBox always spans the page.
func GenerateSVG(sc editor.Scene, opts SVGOptions) string {
	pw, ph := sc.Page.Width, sc.Page.Height
	if pw <= 0 || ph <= 0 {
		pw, ph = editor.DefaultWidth, editor.DefaultHeight
	}
	if opts.Width == 0 {
		opts.Width = int(pw)
	}
	if opts.Height == 0 {
		opts.Height = int(ph)
	}

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %.2f %.2f">`+"\n",
		opts.Width, opts.Height, pw, ph))
	sb.WriteString(fmt.Sprintf(`  <rect x="0" y="0" width="%.2f" height="%.2f" fill="#1a1a1a"/>`+"\n", pw, ph))

	if opts.PageHref != "" {
		sb.WriteString(fmt.Sprintf(`  <image href="%s" x="0" y="0" width="%.2f" height="%.2f" preserveAspectRatio="none"/>`+"\n",
			html.EscapeString(opts.PageHref), pw, ph))
	}

	for _, it := range sc.Items {
		attrs := fmt.Sprintf(`fill="%s" opacity="%.1f"`, hexColor(it.Fill()), editor.ShapeOpacity)
		if it.Selected {
			attrs += ` stroke="#ffffff" stroke-width="2"`
		}
		writeShape(&sb, it.Shape, attrs, it.ID)
	}

	// Labels on top of every shape
	for _, it := range sc.Items {
		label := it.Label
		if label == nil && opts.ShowWords {
			label = &editor.Label{Text: it.Word, At: hotspot.LabelAnchor(it.Shape)}
		}
		if label != nil {
			writeLabel(&sb, *label)
		}
	}

	if sc.Preview != nil {
		attrs := fmt.Sprintf(`fill="%s" opacity="%.1f" stroke="%s" stroke-width="%d"`,
			hexColor(editor.ColorFill), editor.PreviewOpacity, hexColor(editor.ColorFill), editor.PreviewStroke)
		writeShape(&sb, sc.Preview, attrs, "")
	}

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`  <text x="10" y="24" font-family="Helvetica, Arial, sans-serif" font-size="18" font-weight="bold" fill="#ffffff">%s</text>`+"\n",
			html.EscapeString(opts.Title)))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writeShape(sb *strings.Builder, s hotspot.Shape, attrs, id string) {
	idAttr := ""
	if id != "" {
		idAttr = fmt.Sprintf(` id="%s"`, html.EscapeString(id))
	}
	switch s := s.(type) {
	case hotspot.Circle:
		sb.WriteString(fmt.Sprintf(`  <circle%s cx="%.2f" cy="%.2f" r="%.2f" %s/>`+"\n", idAttr, s.X, s.Y, s.Radius, attrs))
	case hotspot.Rectangle:
		sb.WriteString(fmt.Sprintf(`  <rect%s x="%.2f" y="%.2f" width="%.2f" height="%.2f" %s/>`+"\n", idAttr, s.X, s.Y, s.Width, s.Height, attrs))
	}
}

func writeLabel(sb *strings.Builder, l editor.Label) {
	// Approximate text extent; the background only needs to cover the word.
	textW := float64(len(l.Text)*editor.LabelFontSize) * 0.6
	pad := float64(editor.LabelPadding)
	sb.WriteString(fmt.Sprintf(`  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		l.At.X, l.At.Y, textW+2*pad, float64(editor.LabelFontSize)+2*pad, hexColor(editor.ColorLabelBg)))
	sb.WriteString(fmt.Sprintf(`  <text x="%.2f" y="%.2f" font-family="Helvetica, Arial, sans-serif" font-size="%d" dominant-baseline="hanging" fill="%s">%s</text>`+"\n",
		l.At.X+pad, l.At.Y+pad, editor.LabelFontSize, hexColor(editor.ColorLabel), html.EscapeString(l.Text)))
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
