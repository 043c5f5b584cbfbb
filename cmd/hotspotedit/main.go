// Command hotspotedit is a TUI editor for storybook page hotspots.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/vsd-hotspot/pkg/editor"
	"github.com/ha1tch/vsd-hotspot/pkg/hotspot"
	"github.com/ha1tch/vsd-hotspot/pkg/hotspotfile"
	"github.com/ha1tch/vsd-hotspot/pkg/pagestore"
)

// Editor holds all editor state
type Editor struct {
	screen      tcell.Screen
	surface     *editor.Surface
	logger      *slog.Logger
	config      Config
	configPath  string
	filename    string
	modified    bool
	quitting    bool
	mode        Mode
	message     string
	messageType MessageType

	// Page image bytes, kept for .vsd bundles
	pageData []byte
	bundle   hotspotfile.Manifest

	// Left-button tracking
	leftMouseDown bool
	lastCanvas    hotspot.Point // last pointer position over the canvas

	// Viewport offset in cells
	offsetX int
	offsetY int

	// Display options
	showWords bool

	// UI regions
	sidebarWidth int

	// Cached page background, one pixel per cell
	pageCells    *pageRaster
	sidebarRows  map[int]string // screen row -> hotspot id
	helpScrollY  int
	inputBuffer  string
	inputPrompt  string
	inputAction  func(string)
	inputOnKey   func(string) // called after every keystroke, may be nil
	inputOnAbort func()

	// Message flash state
	messageFlashStart atomic.Int64 // Unix milliseconds when message was shown
}

// Mode represents editor mode
type Mode int

const (
	ModeCanvas Mode = iota
	ModeInput       // prompt line (open, save as, page)
	ModeWord        // editing the selected hotspot's word
	ModeHelp        // help overlay
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

// Size control step for +/- keys.
const sizeStep = 5

func main() {
	cfgPath := ConfigPath()
	cfg, cfgErr := LoadConfig(cfgPath)

	logger, closeLog, err := OpenLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ed := newEditor(cfg, cfgPath, logger)
	if cfgErr != nil {
		ed.showMessage("Config: "+cfgErr.Error(), MsgWarning)
		logger.Warn("ignored config override", "error", cfgErr)
	}

	// Check command line: a hotspot file, a page image, or both
	for _, arg := range os.Args[1:] {
		if _, ferr := hotspotfile.FormatOf(arg); ferr == nil {
			if _, serr := os.Stat(arg); serr != nil {
				ed.filename = arg // new file
				continue
			}
			if err := ed.loadFile(arg); err != nil {
				fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", arg, err)
				os.Exit(1)
			}
			continue
		}
		if err := ed.loadPage(arg); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading page %s: %v\n", arg, err)
			os.Exit(1)
		}
	}

	// Initialize screen
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.Clear()
	ed.screen = screen

	// Main loop
	ed.run()

	screen.Fini()
}

func newEditor(cfg Config, cfgPath string, logger *slog.Logger) *Editor {
	page := editor.Page{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight}
	s := editor.NewSurface(page, logger)
	s.SetShapeMode(hotspot.ShapeType(cfg.DefaultShape))
	return &Editor{
		surface:      s,
		logger:       logger,
		config:       cfg,
		configPath:   cfgPath,
		sidebarWidth: 34,
	}
}

func (ed *Editor) run() {
	// Periodic refresh while a status message is flashing
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if start := ed.messageFlashStart.Load(); start > 0 {
				elapsed := time.Now().UnixMilli() - start
				if elapsed >= 0 && elapsed < 700 {
					ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
				}
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			// Refresh for flash animation
		case nil:
			return
		}
	}
}

// track runs fn and marks the document modified if the hotspot list changed.
func (ed *Editor) track(fn func()) {
	before := ed.surface.Export()
	fn()
	if !reflect.DeepEqual(before, ed.surface.Export()) {
		ed.modified = true
	}
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlS:
		ed.save()
		return false
	case tcell.KeyCtrlO:
		ed.promptOpen()
		return false
	case tcell.KeyCtrlQ:
		return ed.quit()
	}

	switch ed.mode {
	case ModeCanvas:
		return ed.handleCanvasKey(ev)
	case ModeInput, ModeWord:
		ed.handleInputKey(ev)
		return ed.quitting
	case ModeHelp:
		return ed.handleHelpKey(ev)
	}
	return false
}

func (ed *Editor) handleCanvasKey(ev *tcell.EventKey) bool {
	// Shift+Arrow pans the viewport
	if ev.Modifiers()&tcell.ModShift != 0 {
		switch ev.Key() {
		case tcell.KeyUp:
			ed.panViewport(0, -1)
			return false
		case tcell.KeyDown:
			ed.panViewport(0, 1)
			return false
		case tcell.KeyLeft:
			ed.panViewport(-1, 0)
			return false
		case tcell.KeyRight:
			ed.panViewport(1, 0)
			return false
		}
	}

	s := ed.surface
	switch ev.Key() {
	case tcell.KeyEscape:
		s.Cancel()
		ed.leftMouseDown = false
		s.ClearSelection()
	case tcell.KeyUp:
		ed.nudgeSelected(0, -ed.config.CellHeight)
	case tcell.KeyDown:
		ed.nudgeSelected(0, ed.config.CellHeight)
	case tcell.KeyLeft:
		ed.nudgeSelected(-ed.config.CellWidth, 0)
	case tcell.KeyRight:
		ed.nudgeSelected(ed.config.CellWidth, 0)
	case tcell.KeyEnter:
		ed.startWordEdit()
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.deleteSelected()
	case tcell.KeyTab:
		ed.cycleSelection()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'c', 'C':
			ed.setShapeMode(hotspot.ShapeCircle)
		case 'r', 'R':
			ed.setShapeMode(hotspot.ShapeRectangle)
		case 'e', 'E':
			ed.startWordEdit()
		case '+', '=':
			ed.adjustSize(sizeStep)
		case '-', '_':
			ed.adjustSize(-sizeStep)
		case 'd', 'D':
			ed.deleteSelected()
		case 'w', 'W':
			ed.showWords = !ed.showWords
			if ed.showWords {
				ed.showMessage("Words visible", MsgInfo)
			} else {
				ed.showMessage("Words on hover only", MsgInfo)
			}
		case 'p', 'P':
			ed.promptPage()
		case 'u', 'U':
			ed.promptUpload()
		case 's', 'S':
			ed.saveAs()
		case 'o', 'O':
			ed.promptOpen()
		case 'f', 'F':
			ed.toggleFileType()
		case 'v', 'V':
			ed.renderView()
		case 'h', 'H', '?':
			ed.helpScrollY = 0
			ed.mode = ModeHelp
		case 'q', 'Q':
			return ed.quit()
		}
	}
	return false
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		if ed.inputOnAbort != nil {
			ed.inputOnAbort()
		}
		ed.endInput()
		return false
	case tcell.KeyEnter:
		action := ed.inputAction
		buf := ed.inputBuffer
		ed.endInput()
		if action != nil {
			action(buf)
		}
		return false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(ed.inputBuffer) > 0 {
			r := []rune(ed.inputBuffer)
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	default:
		return false
	}
	if ed.inputOnKey != nil {
		ed.inputOnKey(ed.inputBuffer)
	}
	return false
}

func (ed *Editor) startInput(mode Mode, prompt, initial string, action func(string)) {
	ed.mode = mode
	ed.inputPrompt = prompt
	ed.inputBuffer = initial
	ed.inputAction = action
	ed.inputOnKey = nil
	ed.inputOnAbort = nil
}

func (ed *Editor) endInput() {
	ed.mode = ModeCanvas
	ed.inputPrompt = ""
	ed.inputBuffer = ""
	ed.inputAction = nil
	ed.inputOnKey = nil
	ed.inputOnAbort = nil
}

func (ed *Editor) handleHelpKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyUp:
		if ed.helpScrollY > 0 {
			ed.helpScrollY--
		}
	case tcell.KeyDown:
		if ed.helpScrollY < len(helpLines)-1 {
			ed.helpScrollY++
		}
	default:
		ed.mode = ModeCanvas
	}
	return false
}

func (ed *Editor) quit() bool {
	if !ed.modified {
		return true
	}
	ed.startInput(ModeInput, "Unsaved changes. Quit anyway? (y/n): ", "", func(s string) {
		if strings.ToLower(strings.TrimSpace(s)) == "y" {
			ed.quitting = true
		}
	})
	return false
}

// Mouse handling

// cellPoint maps a screen cell to the canvas point at its centre.
func (ed *Editor) cellPoint(x, y int) hotspot.Point {
	return hotspot.Point{
		X: (float64(x+ed.offsetX) + 0.5) * ed.config.CellWidth,
		Y: (float64(y+ed.offsetY) + 0.5) * ed.config.CellHeight,
	}
}

// pointCell maps a canvas point to the screen cell containing it.
func (ed *Editor) pointCell(p hotspot.Point) (int, int) {
	return int(math.Floor(p.X/ed.config.CellWidth)) - ed.offsetX,
		int(math.Floor(p.Y/ed.config.CellHeight)) - ed.offsetY
}

// canvasSize returns the canvas region in cells.
func (ed *Editor) canvasSize() (int, int) {
	w, h := ed.screen.Size()
	return w - ed.sidebarWidth, h - 2 // status and help rows
}

// offCanvas is a point outside every page.
var offCanvas = hotspot.Point{X: -1, Y: -1}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	if ed.mode != ModeCanvas {
		return
	}
	x, y := ev.Position()
	buttons := ev.Buttons()
	canvasW, canvasH := ed.canvasSize()
	onCanvas := x >= 0 && x < canvasW && y >= 0 && y < canvasH

	s := ed.surface
	p := offCanvas
	switch {
	case onCanvas:
		p = ed.cellPoint(x, y)
		ed.lastCanvas = p
	case s.Pressing():
		// A hotspot being moved stays at the last point over the canvas.
		p = ed.lastCanvas
	}

	switch {
	case buttons&tcell.Button1 != 0 && !ed.leftMouseDown:
		ed.leftMouseDown = true
		if !onCanvas {
			ed.clickSidebar(y)
			return
		}
		s.PointerDown(s.At(p))
	case buttons&tcell.Button1 != 0:
		s.PointerMove(s.At(p))
	case ed.leftMouseDown:
		ed.leftMouseDown = false
		n := s.Store().Len()
		ed.track(func() { s.PointerUp(s.At(p)) })
		if h, ok := s.Selected(); ok && s.Store().Len() > n {
			ed.showMessage("Created "+editor.Describe(h), MsgSuccess)
		}
	default:
		if buttons&tcell.WheelUp != 0 {
			ed.panViewport(0, -1)
			return
		}
		if buttons&tcell.WheelDown != 0 {
			ed.panViewport(0, 1)
			return
		}
		// Motion without buttons: hover
		s.PointerMove(s.At(p))
	}
}

// clickSidebar selects the hotspot listed on screen row y, if any.
func (ed *Editor) clickSidebar(y int) {
	if id, ok := ed.sidebarRows[y]; ok {
		ed.surface.Select(id)
	}
}

func (ed *Editor) panViewport(dx, dy int) {
	canvasW, canvasH := ed.canvasSize()
	cols, rows := ed.pageCellsSize()
	ed.offsetX = clampInt(ed.offsetX+dx, 0, max(0, cols-canvasW))
	ed.offsetY = clampInt(ed.offsetY+dy, 0, max(0, rows-canvasH))
}

// pageCellsSize returns the page size in cells.
func (ed *Editor) pageCellsSize() (int, int) {
	p := ed.surface.Page()
	return int(math.Ceil(p.Width / ed.config.CellWidth)), int(math.Ceil(p.Height / ed.config.CellHeight))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Editing

func (ed *Editor) setShapeMode(mode hotspot.ShapeType) {
	if !ed.surface.SetShapeMode(mode) {
		ed.showMessage("Cannot change shape while drawing", MsgWarning)
		return
	}
	ed.showMessage("Shape: "+string(mode), MsgInfo)
}

func (ed *Editor) startWordEdit() {
	h, ok := ed.surface.Selected()
	if !ok {
		ed.showMessage("Select a hotspot first (Tab to cycle)", MsgInfo)
		return
	}
	original := h.Word
	ed.startInput(ModeWord, "Word: ", h.Word, func(string) {})
	// Every keystroke updates the hotspot
	ed.inputOnKey = func(word string) {
		ed.track(func() { ed.surface.SetWord(word) })
	}
	ed.inputOnAbort = func() {
		ed.track(func() { ed.surface.SetWord(original) })
	}
}

func (ed *Editor) adjustSize(delta float64) {
	h, ok := ed.surface.Selected()
	if !ok {
		ed.showMessage("Select a hotspot first (Tab to cycle)", MsgInfo)
		return
	}
	ed.track(func() {
		if !ed.surface.SetSize(hotspot.Size(h.Shape) + delta) {
			ed.showMessage("Cannot resize this hotspot", MsgWarning)
		}
	})
}

func (ed *Editor) nudgeSelected(dx, dy float64) {
	h, ok := ed.surface.Selected()
	if !ok {
		return
	}
	o := h.Shape.Origin()
	ed.track(func() { ed.surface.MoveTo(h.ID, hotspot.Point{X: o.X + dx, Y: o.Y + dy}) })
}

func (ed *Editor) deleteSelected() {
	h, ok := ed.surface.Selected()
	if !ok {
		ed.showMessage("Nothing selected", MsgInfo)
		return
	}
	ed.track(func() { ed.surface.DeleteSelected() })
	ed.showMessage("Deleted "+h.Word, MsgSuccess)
}

func (ed *Editor) cycleSelection() {
	list := ed.surface.Export()
	if len(list) == 0 {
		return
	}
	next := 0
	if sel := ed.surface.Store().SelectedID(); sel != "" {
		for i, h := range list {
			if h.ID == sel {
				next = (i + 1) % len(list)
				break
			}
		}
	}
	ed.surface.Select(list[next].ID)
}

func (ed *Editor) toggleFileType() {
	if ed.config.FileType == "png" {
		ed.config.FileType = "svg"
		ed.showMessage("File type set to SVG", MsgInfo)
	} else {
		ed.config.FileType = "png"
		ed.showMessage("File type set to PNG", MsgInfo)
	}
	ed.saveConfig()
}

func (ed *Editor) saveConfig() {
	if ed.configPath == "" {
		return
	}
	if err := SaveConfig(ed.configPath, ed.config); err != nil {
		ed.showMessage("Failed to save config: "+err.Error(), MsgError)
	}
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart.Store(time.Now().UnixMilli())
	if msgType == MsgError {
		ed.logger.Error(msg)
	}
	if ed.screen != nil {
		ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// File operations

func (ed *Editor) promptOpen() {
	ed.startInput(ModeInput, "Open: ", ed.dirPrefix(), func(path string) {
		if path = strings.TrimSpace(path); path == "" {
			return
		}
		if err := ed.loadFile(path); err != nil {
			ed.showMessage("Open failed: "+err.Error(), MsgError)
			return
		}
		ed.showMessage("Opened "+filepath.Base(path), MsgSuccess)
	})
}

func (ed *Editor) promptPage() {
	ed.startInput(ModeInput, "Page image: ", ed.dirPrefix(), func(path string) {
		if path = strings.TrimSpace(path); path == "" {
			return
		}
		if err := ed.loadPage(path); err != nil {
			ed.showMessage("Page failed: "+err.Error(), MsgError)
			return
		}
		ed.modified = true
		ed.showMessage("Page "+filepath.Base(path), MsgSuccess)
	})
}

func (ed *Editor) promptUpload() {
	ed.startInput(ModeInput, "Upload JPEG: ", ed.dirPrefix(), func(path string) {
		if path = strings.TrimSpace(path); path == "" {
			return
		}
		url, err := ed.upload(context.Background(), path)
		if err != nil {
			ed.showMessage("Upload failed: "+err.Error(), MsgError)
			return
		}
		ed.modified = true
		ed.showMessage("Uploaded "+url, MsgSuccess)
	})
}

func (ed *Editor) dirPrefix() string {
	if ed.config.LastDir == "" {
		return ""
	}
	return ed.config.LastDir + string(filepath.Separator)
}

func (ed *Editor) rememberDir(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		ed.config.LastDir = filepath.Dir(abs)
		ed.saveConfig()
	}
}

// loadFile opens a .json or .vsd hotspot file.
func (ed *Editor) loadFile(path string) error {
	b, err := hotspotfile.Load(path)
	if err != nil {
		return err
	}

	meta := b.Document.Page
	page := editor.Page{Width: meta.Width, Height: meta.Height, Source: meta.Source}
	if page.Width <= 0 || page.Height <= 0 {
		page.Width, page.Height = ed.config.CanvasWidth, ed.config.CanvasHeight
	}
	ed.pageData = nil
	if b.PageData != nil {
		page, err = hotspotfile.DecodePage(b.PageData, meta.Source, page.Width, page.Height)
		if err != nil {
			return err
		}
		ed.pageData = b.PageData
	}

	ed.surface.SetPage(page)
	ed.surface.Load(b.Document.Hotspots)
	ed.pageCells = nil
	ed.bundle = b.Manifest
	ed.filename = path
	ed.modified = false
	ed.offsetX, ed.offsetY = 0, 0
	ed.rememberDir(path)
	return nil
}

// loadPage sets the background image, scaled to the configured canvas.
func (ed *Editor) loadPage(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return ed.setPageData(data, filepath.Base(path))
}

func (ed *Editor) setPageData(data []byte, source string) error {
	page, err := hotspotfile.DecodePage(data, source, ed.config.CanvasWidth, ed.config.CanvasHeight)
	if err != nil {
		return err
	}
	ed.surface.SetPage(page)
	ed.pageData = data
	ed.pageCells = nil
	return nil
}

// upload stores a JPEG in the page store and makes it the page.
func (ed *Editor) upload(ctx context.Context, path string) (string, error) {
	dir := ed.config.StoreDir
	if dir == "" {
		dir = filepath.Join(ed.config.LastDir, "pages")
	}
	store, err := pagestore.NewDirStore(dir, ed.logger)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	loc, err := store.Put(ctx, filepath.Base(path), data)
	if err != nil {
		return "", err
	}
	url := store.Resolve(loc)
	if err := ed.setPageData(data, url); err != nil {
		return "", err
	}
	return url, nil
}

func (ed *Editor) save() {
	if ed.filename == "" {
		ed.saveAs()
		return
	}
	if err := ed.saveFile(ed.filename); err != nil {
		ed.showMessage("Save failed: "+err.Error(), MsgError)
		return
	}
	ed.showMessage("Saved "+filepath.Base(ed.filename), MsgSuccess)
}

func (ed *Editor) saveAs() {
	initial := ed.filename
	if initial == "" {
		initial = ed.dirPrefix() + "hotspots.vsd"
	}
	ed.startInput(ModeInput, "Save as: ", initial, func(path string) {
		if path = strings.TrimSpace(path); path == "" {
			return
		}
		if err := ed.saveFile(path); err != nil {
			ed.showMessage("Save failed: "+err.Error(), MsgError)
			return
		}
		ed.filename = path
		ed.rememberDir(path)
		ed.showMessage("Saved "+filepath.Base(path), MsgSuccess)
	})
}

func (ed *Editor) saveFile(path string) error {
	page := ed.surface.Page()
	b := &hotspotfile.Bundle{
		Manifest: ed.bundle,
		Document: &hotspotfile.Document{
			Page: hotspotfile.PageMeta{
				Source: page.Source,
				Width:  page.Width,
				Height: page.Height,
			},
			Hotspots: ed.surface.Export(),
		},
		PageData: ed.pageData,
	}
	if b.Manifest.Name == "" {
		b.Manifest.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := hotspotfile.Save(path, b, true); err != nil {
		return err
	}
	ed.bundle = b.Manifest
	ed.modified = false
	ed.logger.Info("saved", "path", path, "hotspots", len(b.Document.Hotspots))
	return nil
}

// renderView renders the scene to a temp file and opens the system viewer.
func (ed *Editor) renderView() {
	tmpPath, err := ed.renderTemp()
	if err != nil {
		ed.showMessage("Render failed: "+err.Error(), MsgError)
		return
	}

	var openCmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		openCmd = exec.Command("open", tmpPath)
	case "windows":
		openCmd = exec.Command("cmd", "/c", "start", "", tmpPath)
	default: // linux, etc
		openCmd = exec.Command("xdg-open", tmpPath)
	}

	if err := openCmd.Start(); err != nil {
		ed.showMessage("Failed to open viewer: "+err.Error(), MsgError)
		os.Remove(tmpPath)
		return
	}
	ed.showMessage("Opened in viewer: "+tmpPath, MsgInfo)
}

func (ed *Editor) renderTemp() (string, error) {
	title := ed.bundle.Name
	sc := ed.surface.Scene()

	tmpFile, err := os.CreateTemp("", "hotspots-*."+ed.config.FileType)
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()

	if ed.config.FileType == "svg" {
		opts := hotspotfile.DefaultSVGOptions()
		opts.Title = title
		opts.ShowWords = ed.showWords
		if src := sc.Page.Source; src != "" && ed.pageData != nil {
			opts.PageHref = src
		}
		_, err = tmpFile.WriteString(hotspotfile.GenerateSVG(sc, opts))
	} else {
		opts := hotspotfile.DefaultPNGOptions()
		opts.Title = title
		opts.ShowWords = ed.showWords
		err = hotspotfile.RenderPNG(sc, tmpFile, opts)
	}
	if cerr := tmpFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}
