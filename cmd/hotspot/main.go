// Command hotspot is a CLI tool for working with storybook hotspot files.
package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/ha1tch/vsd-hotspot/pkg/editor"
	"github.com/ha1tch/vsd-hotspot/pkg/hotspot"
	"github.com/ha1tch/vsd-hotspot/pkg/hotspotfile"
	"github.com/ha1tch/vsd-hotspot/pkg/pagestore"
)

const usage = `hotspot - storybook hotspot toolkit

Usage:
  hotspot <command> [options]

Commands:
  convert    Convert between formats (json, vsd)
  info       Show hotspot file information
  render     Render hotspots over the page (svg, png)
  run        Edit hotspots from a command prompt
  upload     Store a JPEG page image
  validate   Validate hotspot file

Examples:
  hotspot convert page1.json -o page1.vsd --page page1.jpg
  hotspot render page1.vsd -o page1.png --words
  hotspot run page1.json --page page1.jpg
  hotspot upload page1.jpg --dir ./pages
  hotspot info page1.vsd

Environment:
  HOTSPOT_LOG_LEVEL   debug, info, warn or error (default warn)
  HOTSPOT_STORE_DIR   directory used by upload (default ./pages)

Use "hotspot <command> -h" for more information about a command.
`

type cliConfig struct {
	LogLevel string `env:"HOTSPOT_LOG_LEVEL" envDefault:"warn"`
	StoreDir string `env:"HOTSPOT_STORE_DIR" envDefault:"pages"`
}

var (
	cfg    cliConfig
	logger *slog.Logger
)

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	var err error
	cfg, err = env.ParseAs[cliConfig]()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}
	logger = newLogger(cfg.LogLevel)

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "convert":
		cmdConvert(args)
	case "info":
		cmdInfo(args)
	case "render":
		cmdRender(args)
	case "run":
		cmdRun(args)
	case "upload":
		cmdUpload(args)
	case "validate":
		cmdValidate(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func wantsHelp(args []string) bool {
	return len(args) < 1 || args[0] == "-h" || args[0] == "--help"
}

func fail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

func cmdConvert(args []string) {
	if wantsHelp(args) {
		fail("Usage: hotspot convert <input> [-o output] [--pretty] [--page image]")
	}

	input := args[0]
	var output, pagePath string
	pretty := false

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "--page":
			if i+1 < len(args) {
				pagePath = args[i+1]
				i++
			}
		case "--pretty":
			pretty = true
		}
	}

	b, err := hotspotfile.Load(input)
	if err != nil {
		fail("Error loading %s: %v", input, err)
	}

	if pagePath != "" {
		page, data, err := hotspotfile.LoadPage(pagePath, 0, 0)
		if err != nil {
			fail("Error loading page: %v", err)
		}
		b.PageData = data
		b.Document.Page.Source = filepath.Base(pagePath)
		if b.Document.Page.Width == 0 {
			b.Document.Page.Width, b.Document.Page.Height = page.Width, page.Height
		}
	}

	if output == "" {
		// Default: swap extension
		ext := filepath.Ext(input)
		base := strings.TrimSuffix(input, ext)
		if strings.EqualFold(ext, ".vsd") {
			output = base + ".json"
		} else {
			output = base + ".vsd"
		}
	}
	if b.Manifest.Name == "" {
		b.Manifest.Name = strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
	}

	if err := hotspotfile.Save(output, b, pretty); err != nil {
		fail("Error writing %s: %v", output, err)
	}
	fmt.Printf("Written: %s\n", output)
}

func cmdInfo(args []string) {
	if wantsHelp(args) {
		fail("Usage: hotspot info <input>")
	}

	input := args[0]
	b, err := hotspotfile.Load(input)
	if err != nil {
		fail("Error loading %s: %v", input, err)
	}
	doc := b.Document

	if b.Manifest.Name != "" {
		fmt.Printf("Name:      %s\n", b.Manifest.Name)
	}
	if doc.Page.Source != "" {
		fmt.Printf("Page:      %s\n", doc.Page.Source)
	}
	if doc.Page.Width > 0 {
		fmt.Printf("Size:      %.0fx%.0f\n", doc.Page.Width, doc.Page.Height)
	}
	if b.PageData != nil {
		fmt.Printf("Image:     %d bytes (%s)\n", len(b.PageData), http.DetectContentType(b.PageData))
	}

	circles := 0
	for _, h := range doc.Hotspots {
		if h.Type() == hotspot.ShapeCircle {
			circles++
		}
	}
	fmt.Printf("Hotspots:  %d (%d circles, %d rectangles)\n", len(doc.Hotspots), circles, len(doc.Hotspots)-circles)

	if len(doc.Hotspots) > 0 {
		fmt.Println()
		for _, h := range doc.Hotspots {
			fmt.Printf("  %-40s %s\n", h.ID, editor.Describe(h))
		}
	}
}

func cmdValidate(args []string) {
	if wantsHelp(args) {
		fail("Usage: hotspot validate <input>")
	}

	input := args[0]
	b, err := hotspotfile.Load(input)
	if err != nil {
		fail("Error loading %s: %v", input, err)
	}

	var problems []string
	seen := make(map[string]bool)
	for _, h := range b.Document.Hotspots {
		if err := h.Validate(); err != nil {
			problems = append(problems, err.Error())
		}
		if h.ID != "" && seen[h.ID] {
			problems = append(problems, fmt.Sprintf("duplicate id %s", h.ID))
		}
		seen[h.ID] = true
	}

	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "  %s\n", p)
		}
		fail("Validation failed: %d problem(s)", len(problems))
	}

	fmt.Printf("%s: valid, %d hotspots\n", input, len(b.Document.Hotspots))
}

func cmdRender(args []string) {
	if wantsHelp(args) {
		fail("Usage: hotspot render <input> [-o output.svg|output.png] [--page image] [-t title] [--words] [--width N] [--height N]")
	}

	input := args[0]
	var output, pagePath, title string
	var width, height int
	words := false

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "--page":
			if i+1 < len(args) {
				pagePath = args[i+1]
				i++
			}
		case "-t", "--title":
			if i+1 < len(args) {
				title = args[i+1]
				i++
			}
		case "--width":
			if i+1 < len(args) {
				width, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "--height":
			if i+1 < len(args) {
				height, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "--words":
			words = true
		}
	}

	b, err := hotspotfile.Load(input)
	if err != nil {
		fail("Error loading %s: %v", input, err)
	}
	s, href, err := openSurface(b, pagePath)
	if err != nil {
		fail("Error loading page: %v", err)
	}
	sc := s.Scene()

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
	}

	switch strings.ToLower(filepath.Ext(output)) {
	case ".svg":
		svg := hotspotfile.GenerateSVG(sc, hotspotfile.SVGOptions{
			Width: width, Height: height, PageHref: href, Title: title, ShowWords: words,
		})
		err = os.WriteFile(output, []byte(svg), 0644)
	case ".png":
		var f *os.File
		f, err = os.Create(output)
		if err == nil {
			err = hotspotfile.RenderPNG(sc, f, hotspotfile.PNGOptions{
				Width: width, Height: height, Title: title, ShowWords: words,
			})
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
	default:
		fail("Unknown output format: %s", filepath.Ext(output))
	}

	if err != nil {
		fail("Error writing %s: %v", output, err)
	}
	fmt.Printf("Written: %s\n", output)
}

// openSurface builds an editing surface from a loaded bundle. The page comes
// from pagePath if set, else from the bundle. The returned href is usable as
// an SVG image reference.
func openSurface(b *hotspotfile.Bundle, pagePath string) (*editor.Surface, string, error) {
	meta := b.Document.Page
	page := editor.Page{Width: meta.Width, Height: meta.Height, Source: meta.Source}
	var href string

	switch {
	case pagePath != "":
		p, _, err := hotspotfile.LoadPage(pagePath, meta.Width, meta.Height)
		if err != nil {
			return nil, "", err
		}
		page, href = p, pagePath
	case b.PageData != nil:
		p, err := hotspotfile.DecodePage(b.PageData, meta.Source, meta.Width, meta.Height)
		if err != nil {
			return nil, "", err
		}
		page = p
		href = "data:" + http.DetectContentType(b.PageData) + ";base64," + base64.StdEncoding.EncodeToString(b.PageData)
	}

	s := editor.NewSurface(page, logger)
	s.Load(b.Document.Hotspots)
	return s, href, nil
}

func cmdUpload(args []string) {
	if wantsHelp(args) {
		fail("Usage: hotspot upload <image.jpg> [--dir directory]")
	}

	input := args[0]
	dir := cfg.StoreDir
	for i := 1; i < len(args); i++ {
		if (args[i] == "-d" || args[i] == "--dir") && i+1 < len(args) {
			dir = args[i+1]
			i++
		}
	}

	data, err := os.ReadFile(input)
	if err != nil {
		fail("Error reading %s: %v", input, err)
	}

	store, err := pagestore.NewDirStore(dir, logger)
	if err != nil {
		fail("Error opening store: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loc, err := store.Put(ctx, filepath.Base(input), data)
	if err != nil {
		fail("Error: %v", err)
	}
	fmt.Printf("Stored:    %s\n", loc)
	fmt.Printf("URL:       %s\n", store.Resolve(loc))
}
