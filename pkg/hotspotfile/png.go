// Native PNG rendering of a hotspot scene.
// Mirrors the SVG renderer output using Go's image packages.

package hotspotfile

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/vsd-hotspot/pkg/editor"
	"github.com/ha1tch/vsd-hotspot/pkg/hotspot"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width     int // output width in pixels (0 = page width)
	Height    int // output height in pixels (0 = page height)
	ShowWords bool
	Title     string
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{}
}

var (
	colorBackground = color.RGBA{0x1a, 0x1a, 0x1a, 0xff} // #1a1a1a
	colorSelected   = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// renderContext holds rendering parameters including scale
type renderContext struct {
	img       *image.RGBA
	scale     float64 // canvas units to pixels, supersampling included
	lineWidth float64
	face      font.Face
	titleFace font.Face
}

func newRenderContext(img *image.RGBA, scale float64) (*renderContext, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    editor.LabelFontSize * scale,
		DPI:     72,
		Hinting: font.HintingNone, // supersampled instead
	})
	if err != nil {
		return nil, err
	}
	titleFace, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    18 * scale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	return &renderContext{
		img:       img,
		scale:     scale,
		lineWidth: 2 * scale,
		face:      face,
		titleFace: titleFace,
	}, nil
}

// supersample is the oversampling factor used before downscaling.
const supersample = 3

// RenderPNG renders a scene to PNG, drawing the page image underneath.
func RenderPNG(sc editor.Scene, w io.Writer, opts PNGOptions) error {
	img, err := RenderImage(sc, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderImage renders a scene to an in-memory image.
func RenderImage(sc editor.Scene, opts PNGOptions) (*image.RGBA, error) {
	pw, ph := sc.Page.Width, sc.Page.Height
	if pw <= 0 || ph <= 0 {
		pw, ph = editor.DefaultWidth, editor.DefaultHeight
	}
	if opts.Width <= 0 {
		opts.Width = int(math.Round(pw))
	}
	if opts.Height <= 0 {
		opts.Height = int(math.Round(ph))
	}

	largeW, largeH := opts.Width*supersample, opts.Height*supersample
	large := image.NewRGBA(image.Rect(0, 0, largeW, largeH))
	draw.Draw(large, large.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)
	if page := ScaledPage(sc.Page, largeW, largeH); page != nil {
		draw.Draw(large, large.Bounds(), page, image.Point{}, draw.Over)
	}

	// Uniform scale on x; pages are rendered at their own aspect ratio.
	ctx, err := newRenderContext(large, float64(largeW)/pw)
	if err != nil {
		return nil, err
	}
	sy := float64(largeH) / ph

	for _, it := range sc.Items {
		s := scaleShape(it.Shape, ctx.scale, sy)
		fillShape(ctx, s, withOpacity(it.Fill(), editor.ShapeOpacity))
		if it.Selected {
			strokeShape(ctx, s, colorSelected)
		}
	}
	for _, it := range sc.Items {
		label := it.Label
		if label == nil && opts.ShowWords {
			label = &editor.Label{Text: it.Word, At: hotspot.LabelAnchor(it.Shape)}
		}
		if label != nil {
			drawLabel(ctx, label.At.X*ctx.scale, label.At.Y*sy, label.Text)
		}
	}
	if sc.Preview != nil {
		s := scaleShape(sc.Preview, ctx.scale, sy)
		fillShape(ctx, s, withOpacity(editor.ColorFill, editor.PreviewOpacity))
		strokeShape(ctx, s, editor.ColorFill)
	}
	if opts.Title != "" {
		drawText(ctx, ctx.titleFace, int(10*ctx.scale), int(24*sy), opts.Title, colorSelected)
	}

	finalImg := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(finalImg, finalImg.Bounds(), large, large.Bounds(), draw.Over, nil)
	return finalImg, nil
}

func scaleShape(s hotspot.Shape, sx, sy float64) hotspot.Shape {
	switch s := s.(type) {
	case hotspot.Circle:
		// Radii follow the horizontal scale so circles stay round.
		return hotspot.Circle{X: s.X * sx, Y: s.Y * sy, Radius: s.Radius * sx}
	case hotspot.Rectangle:
		return hotspot.Rectangle{X: s.X * sx, Y: s.Y * sy, Width: s.Width * sx, Height: s.Height * sy}
	}
	return s
}

func withOpacity(c color.RGBA, opacity float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(255 * opacity))}
}

// shapeMask is an alpha mask covering a shape.
type shapeMask struct {
	shape hotspot.Shape
}

func (m shapeMask) ColorModel() color.Model { return color.AlphaModel }

func (m shapeMask) Bounds() image.Rectangle {
	minX, minY, maxX, maxY := hotspot.Bounds(m.shape)
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
}

func (m shapeMask) At(x, y int) color.Color {
	if hotspot.Contains(m.shape, hotspot.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}) {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

// fillShape blends a translucent fill over the shape's area.
func fillShape(ctx *renderContext, s hotspot.Shape, c color.NRGBA) {
	mask := shapeMask{shape: s}
	r := mask.Bounds().Intersect(ctx.img.Bounds())
	if r.Empty() {
		return
	}
	draw.DrawMask(ctx.img, r, image.NewUniform(c), image.Point{}, mask, r.Min, draw.Over)
}

// strokeShape draws the outline of a shape with the context's line width.
func strokeShape(ctx *renderContext, s hotspot.Shape, c color.Color) {
	switch s := s.(type) {
	case hotspot.Circle:
		drawCircleOutline(ctx, s.X, s.Y, s.Radius, c)
	case hotspot.Rectangle:
		x2, y2 := s.X+s.Width, s.Y+s.Height
		drawLine(ctx, s.X, s.Y, x2, s.Y, c)
		drawLine(ctx, x2, s.Y, x2, y2, c)
		drawLine(ctx, x2, y2, s.X, y2, c)
		drawLine(ctx, s.X, y2, s.X, s.Y, c)
	}
}

// drawCircleOutline draws a thick circle outline.
func drawCircleOutline(ctx *renderContext, cx, cy, r float64, c color.Color) {
	img := ctx.img
	thickness := ctx.lineWidth
	step := 0.5 / math.Max(r, 1)
	for angle := 0.0; angle < 2*math.Pi; angle += step {
		nx, ny := math.Cos(angle), math.Sin(angle)
		for t := -thickness / 2; t <= thickness/2; t += 0.5 {
			img.Set(int(cx+nx*(r+t)), int(cy+ny*(r+t)), c)
		}
	}
}

// drawLine draws a line between two points with thickness from context.
func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	img := ctx.img
	halfThick := ctx.lineWidth / 2

	dx := x2 - x1
	dy := y2 - y1
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}

	steps := math.Max(math.Abs(dx), math.Abs(dy))
	perpX := -dy / dist
	perpY := dx / dist
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		px := x1 + dx*t
		py := y1 + dy*t
		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			img.Set(int(px+perpX*offset), int(py+perpY*offset), c)
		}
	}
}

// drawLabel draws the hover label: word on a white box with padding.
func drawLabel(ctx *renderContext, x, y float64, text string) {
	pad := editor.LabelPadding * ctx.scale
	width := float64(font.MeasureString(ctx.face, text).Ceil())
	height := editor.LabelFontSize * ctx.scale
	box := image.Rect(int(x), int(y), int(x+width+2*pad), int(y+height+2*pad))
	draw.Draw(ctx.img, box, image.NewUniform(editor.ColorLabelBg), image.Point{}, draw.Src)

	ascent := ctx.face.Metrics().Ascent.Ceil()
	drawText(ctx, ctx.face, int(x+pad), int(y+pad)+ascent, text, editor.ColorLabel)
}

// drawText draws text with its baseline at (x, y).
func drawText(ctx *renderContext, face font.Face, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
