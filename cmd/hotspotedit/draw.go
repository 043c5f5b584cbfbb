package main

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/vsd-hotspot/pkg/editor"
	"github.com/ha1tch/vsd-hotspot/pkg/hotspot"
	"github.com/ha1tch/vsd-hotspot/pkg/hotspotfile"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleSidebar    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleListSel    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleLabel      = tcell.StyleDefault.Background(rgb(editor.ColorLabelBg)).Foreground(rgb(editor.ColorLabel))
)

var colorCanvas = color.RGBA{0x1a, 0x1a, 0x1a, 0xff}

// pageRaster is the page image resampled to one pixel per cell.
type pageRaster struct {
	cols, rows int
	img        *image.RGBA // nil if the page has no image
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// blend mixes fg over bg with the given opacity.
func blend(fg, bg color.RGBA, opacity float64) color.RGBA {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*opacity + float64(b)*(1-opacity) + 0.5)
	}
	return color.RGBA{mix(fg.R, bg.R), mix(fg.G, bg.G), mix(fg.B, bg.B), 0xff}
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	ed.drawCanvas(w, h)
	ed.drawSidebar(w, h)

	if ed.mode == ModeHelp {
		ed.drawHelp(w, h)
	}

	ed.drawStatusBar(w, h)
}

func (ed *Editor) raster() *pageRaster {
	cols, rows := ed.pageCellsSize()
	if ed.pageCells != nil && ed.pageCells.cols == cols && ed.pageCells.rows == rows {
		return ed.pageCells
	}
	ed.pageCells = &pageRaster{
		cols: cols,
		rows: rows,
		img:  hotspotfile.ScaledPage(ed.surface.Page(), cols, rows),
	}
	return ed.pageCells
}

func (ed *Editor) drawCanvas(w, h int) {
	canvasW, canvasH := ed.canvasSize()
	r := ed.raster()
	sc := ed.surface.Scene()

	for y := 0; y < canvasH; y++ {
		gy := y + ed.offsetY
		if gy >= r.rows {
			break
		}
		for x := 0; x < canvasW; x++ {
			gx := x + ed.offsetX
			if gx >= r.cols {
				break
			}
			bg := colorCanvas
			if r.img != nil {
				bg = r.img.RGBAAt(gx, gy)
			}
			ch := ' '
			fg := tcell.ColorWhite

			p := ed.cellPoint(x, y)
			if it, ok := itemAt(sc.Items, p); ok {
				bg = blend(it.Fill(), bg, editor.ShapeOpacity)
				if it.Selected {
					ch = '·'
				}
			}
			if sc.Preview != nil && hotspot.Contains(sc.Preview, p) {
				bg = blend(editor.ColorFill, bg, editor.PreviewOpacity)
				ch = '░'
				fg = rgb(editor.ColorFill)
			}
			ed.screen.SetContent(x, y, ch, nil, styleDefault.Background(rgb(bg)).Foreground(fg))
		}
	}

	// Labels over every shape
	for _, it := range sc.Items {
		label := it.Label
		if label == nil && ed.showWords {
			label = &editor.Label{Text: it.Word, At: hotspot.LabelAnchor(it.Shape)}
		}
		if label == nil {
			continue
		}
		lx, ly := ed.pointCell(label.At)
		if ly < 0 || ly >= canvasH || lx >= canvasW {
			continue
		}
		text := " " + label.Text + " "
		if lx < 0 {
			lx = 0
		}
		ed.drawString(lx, ly, truncate(text, canvasW-lx), styleLabel)
	}

	// Divider
	for y := 0; y < canvasH; y++ {
		ed.screen.SetContent(canvasW, y, '│', nil, styleBorder)
	}
}

// itemAt returns the topmost item containing p.
func itemAt(items []editor.Item, p hotspot.Point) (editor.Item, bool) {
	for i := len(items) - 1; i >= 0; i-- {
		if hotspot.Contains(items[i].Shape, p) {
			return items[i], true
		}
	}
	return editor.Item{}, false
}

func (ed *Editor) drawSidebar(w, h int) {
	x := w - ed.sidebarWidth + 2
	width := ed.sidebarWidth - 3
	maxY := h - 3
	y := 0
	ed.sidebarRows = make(map[int]string)

	title := ed.bundle.Name
	if title == "" {
		title = "hotspotedit"
	}
	ed.drawString(x, y, truncate(title, width), styleSidebarH)
	y++

	page := ed.surface.Page()
	src := page.Source
	if src == "" {
		src = "(no image)"
	} else {
		src = filepath.Base(src)
	}
	ed.drawString(x, y, truncate(fmt.Sprintf("Page: %s %.0fx%.0f", src, page.Width, page.Height), width), styleSidebar)
	y++
	ed.drawString(x, y, truncate("Shape: "+string(ed.surface.ShapeMode()), width), styleSidebar)
	y += 2

	// Editing panel takes the bottom of the sidebar when a hotspot is selected
	sel, hasSel := ed.surface.Selected()
	listEnd := maxY
	if hasSel {
		listEnd = maxY - len(panelLines(sel, width))
	}

	list := ed.surface.Export()
	ed.drawString(x, y, fmt.Sprintf("Hotspots (%d):", len(list)), styleSidebarH)
	y++
	for i, hs := range list {
		if y >= listEnd-1 && i < len(list)-1 {
			ed.drawString(x, y, "  ...", styleSidebar)
			y++
			break
		}
		style := styleSidebar
		prefix := "  "
		if hasSel && hs.ID == sel.ID {
			style = styleListSel
			prefix = "> "
		}
		ed.drawString(x, y, padRight(truncate(prefix+editor.Describe(hs), width), width), style)
		ed.sidebarRows[y] = hs.ID
		y++
	}

	if hasSel {
		y = max(y+1, listEnd)
		for i, line := range panelLines(sel, width) {
			style := styleSidebar
			if i == 0 {
				style = styleSidebarH
			}
			ed.drawString(x, y, truncate(line, width), style)
			y++
		}
	}
}

// panelLines describes the selected hotspot for the editing panel.
func panelLines(h hotspot.Hotspot, width int) []string {
	o := h.Shape.Origin()
	size := hotspot.Size(h.Shape)
	return []string{
		"Edit:",
		"  Word:     " + h.Word,
		"  Shape:    " + string(h.Type()),
		fmt.Sprintf("  Position: (%.0f, %.0f)", o.X, o.Y),
		fmt.Sprintf("  Size:     %.0f", size),
		"  " + sizeBar(size, width-4),
		"  Enter:word  +/-:size  Del",
	}
}

// sizeBar draws the size control as a bar between MinSize and MaxSize.
func sizeBar(size float64, width int) string {
	if width < 3 {
		return ""
	}
	inner := width - 2
	frac := (hotspot.ClampSize(size, hotspot.MinSize, hotspot.MaxSize) - hotspot.MinSize) / (hotspot.MaxSize - hotspot.MinSize)
	filled := int(frac*float64(inner) + 0.5)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", inner-filled) + "]"
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	// Background
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	// File info
	fileInfo := "[New]"
	if ed.filename != "" {
		fileInfo = filepath.Base(ed.filename)
	}
	if ed.modified {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	// Mode
	modeStr := ed.modeString()
	ed.drawString(w/2-runewidth.StringWidth(modeStr)/2, y, modeStr, styleStatus)

	// Message, flashing briefly unless informative
	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		if flashes(ed.messageType) && messageInverted(time.Now().UnixMilli()-ed.messageFlashStart.Load()) {
			style = style.Reverse(true)
		}
		msg := truncate(ed.message, w/2-2)
		ed.drawString(w-runewidth.StringWidth(msg)-2, y, msg, style)
	}

	// Help bar, or the prompt while typing
	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	if ed.mode == ModeInput || ed.mode == ModeWord {
		for x := 0; x < w; x++ {
			ed.screen.SetContent(x, y, ' ', nil, styleInput)
		}
		ed.drawString(1, y, truncate(ed.inputPrompt+ed.inputBuffer+"_", w-2), styleInput)
		return
	}
	ed.drawString(1, y, truncate(ed.helpString(), w-2), styleHelp)
}

// flashes reports whether a message type flashes when shown.
func flashes(t MessageType) bool {
	return t != MsgInfo
}

// messageInverted reports whether a flashing message is drawn inverted
// elapsed milliseconds after it was shown: two inverted phases of 125ms
// within the first 500ms.
func messageInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= 500 {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

var helpLines = []string{
	"Mouse",
	"  drag on page       draw a hotspot",
	"  drag a hotspot     move it",
	"  click a hotspot    select it",
	"  click list entry   select it",
	"",
	"Keys",
	"  c / r              circle / rectangle",
	"  Enter, e           edit word",
	"  + / -              resize selected",
	"  arrows             move selected",
	"  Shift+arrows       scroll page",
	"  Tab                next hotspot",
	"  Del, d             delete selected",
	"  Esc                deselect",
	"  w                  show all words",
	"  p                  set page image",
	"  u                  upload JPEG page",
	"  o, Ctrl+O          open .json/.vsd",
	"  s, Ctrl+S          save as / save",
	"  v                  render and view",
	"  f                  toggle PNG/SVG",
	"  q, Ctrl+Q          quit",
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := 46
	boxH := min(len(helpLines)+2, h-2)
	boxX := max(0, (w-boxW)/2)
	boxY := max(0, (h-2-boxH)/2)
	ed.drawBox(boxX, boxY, boxW, boxH, styleDefault)
	ed.drawString(boxX+(boxW-6)/2, boxY, " Help ", styleSidebarH)

	for i := 0; i < boxH-2; i++ {
		idx := i + ed.helpScrollY
		if idx >= len(helpLines) {
			break
		}
		ed.drawString(boxX+2, boxY+1+i, truncate(helpLines[idx], boxW-4), styleSidebar)
	}
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	// Corners
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	// Horizontal borders
	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}

	// Vertical borders
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	// Fill
	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

// drawString draws s starting at column x, honouring wide runes.
func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ed.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (ed *Editor) modeString() string {
	if ed.surface.Dragging() {
		return "DRAW " + strings.ToUpper(string(ed.surface.ShapeMode()))
	}
	if ed.surface.Moving() {
		return "MOVE"
	}
	switch ed.mode {
	case ModeInput:
		return "INPUT"
	case ModeWord:
		return "WORD"
	case ModeHelp:
		return "HELP"
	default:
		return ""
	}
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeHelp:
		return "↑↓:Scroll  any key:Close"
	default:
		if _, ok := ed.surface.Selected(); ok {
			return "Enter:Word  +/-:Size  Arrows:Move  Del:Delete  Tab:Next  Esc:Deselect  ?:Help"
		}
		return "Drag:Draw  C:Circle  R:Rect  Tab:Select  P:Page  O:Open  S:Save  V:View  ?:Help  Q:Quit"
	}
}

// truncate shortens s to at most maxLen display columns.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}

func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
