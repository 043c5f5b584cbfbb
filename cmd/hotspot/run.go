package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ha1tch/vsd-hotspot/pkg/editor"
	"github.com/ha1tch/vsd-hotspot/pkg/hotspot"
	"github.com/ha1tch/vsd-hotspot/pkg/hotspotfile"
)

const runHelp = `Commands:
  drag X1 Y1 X2 Y2   - Draw a new hotspot, or move the one at X1 Y1
  click X Y          - Click at a canvas point
  hover X Y          - Move the pointer without pressing
  down|move|up X Y   - Raw pointer events
  mode circle|rect   - Shape for new hotspots
  select N|ID        - Select from the list
  deselect           - Clear the selection
  word TEXT          - Set the selected hotspot's word
  size N             - Set the selected hotspot's size (10-200)
  delete             - Delete the selected hotspot
  list               - Show all hotspots
  status             - Show mode, selection and hover
  save [PATH]        - Write hotspots (json or vsd)
  quit               - Exit
`

func cmdRun(args []string) {
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		fail("Usage: hotspot run [input] [--page image]")
	}

	var input, pagePath string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--page" && i+1 < len(args):
			pagePath = args[i+1]
			i++
		case input == "":
			input = args[i]
		}
	}

	b := &hotspotfile.Bundle{Document: &hotspotfile.Document{}}
	if input != "" {
		if _, err := os.Stat(input); err == nil {
			if b, err = hotspotfile.Load(input); err != nil {
				fail("Error loading %s: %v", input, err)
			}
		}
	}

	s, _, err := openSurface(b, pagePath)
	if err != nil {
		fail("Error loading page: %v", err)
	}

	p := s.Page()
	fmt.Printf("Page: %.0fx%.0f, %d hotspots\n", p.Width, p.Height, s.Store().Len())
	fmt.Println(`Type "help" for commands.`)
	fmt.Println()

	sess := &session{surface: s, bundle: b, path: input, out: os.Stdout}
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if !sess.exec(scanner.Text()) {
			return
		}
	}
}

// session is a line-driven editing session over a surface.
type session struct {
	surface *editor.Surface
	bundle  *hotspotfile.Bundle
	path    string
	out     io.Writer
}

// exec runs one command line. It returns false when the session should end.
func (r *session) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	cmd, rest := fields[0], fields[1:]
	s := r.surface

	switch cmd {
	case "quit", "exit", "q":
		return false
	case "help", "?":
		fmt.Fprint(r.out, runHelp)
	case "drag":
		pts, ok := r.points(rest, 2)
		if !ok {
			return true
		}
		s.PointerDown(s.At(pts[0]))
		s.PointerMove(s.At(pts[1]))
		s.PointerUp(s.At(pts[1]))
		r.printSelected()
	case "click":
		pts, ok := r.points(rest, 1)
		if !ok {
			return true
		}
		ev := s.At(pts[0])
		s.PointerDown(ev)
		s.PointerUp(ev)
		r.printSelected()
	case "hover":
		pts, ok := r.points(rest, 1)
		if !ok {
			return true
		}
		s.PointerMove(s.At(pts[0]))
		r.printHover()
	case "down", "move", "up":
		pts, ok := r.points(rest, 1)
		if !ok {
			return true
		}
		ev := s.At(pts[0])
		switch cmd {
		case "down":
			s.PointerDown(ev)
		case "move":
			s.PointerMove(ev)
		case "up":
			s.PointerUp(ev)
			r.printSelected()
		}
	case "mode":
		if len(rest) != 1 {
			fmt.Fprintf(r.out, "Mode: %s\n", s.ShapeMode())
			return true
		}
		mode := hotspot.ShapeType(rest[0])
		if rest[0] == "rect" {
			mode = hotspot.ShapeRectangle
		}
		if !s.SetShapeMode(mode) {
			fmt.Fprintf(r.out, "Error: cannot switch to %q\n", rest[0])
			return true
		}
		fmt.Fprintf(r.out, "Mode: %s\n", s.ShapeMode())
	case "select":
		if len(rest) != 1 {
			fmt.Fprintln(r.out, "Usage: select N|ID")
			return true
		}
		id := rest[0]
		if n, err := strconv.Atoi(id); err == nil {
			list := s.Export()
			if n < 1 || n > len(list) {
				fmt.Fprintf(r.out, "Error: no hotspot %d\n", n)
				return true
			}
			id = list[n-1].ID
		}
		s.Select(id)
		r.printSelected()
	case "deselect":
		s.ClearSelection()
	case "word":
		word := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd))
		if !s.SetWord(word) {
			fmt.Fprintln(r.out, "Error: nothing selected")
			return true
		}
		r.printSelected()
	case "size":
		if len(rest) != 1 {
			fmt.Fprintln(r.out, "Usage: size N")
			return true
		}
		v, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			fmt.Fprintf(r.out, "Error: bad size %q\n", rest[0])
			return true
		}
		if !s.SetSize(v) {
			fmt.Fprintln(r.out, "Error: size not applied")
			return true
		}
		r.printSelected()
	case "delete":
		if !s.DeleteSelected() {
			fmt.Fprintln(r.out, "Error: nothing selected")
		}
	case "list":
		r.printList()
	case "status":
		fmt.Fprintf(r.out, "Mode: %s, %d hotspots\n", s.ShapeMode(), s.Store().Len())
		r.printSelected()
		r.printHover()
	case "save":
		path := r.path
		if len(rest) > 0 {
			path = rest[0]
		}
		if path == "" {
			fmt.Fprintln(r.out, "Usage: save PATH")
			return true
		}
		r.bundle.Document.Hotspots = s.Export()
		if err := hotspotfile.Save(path, r.bundle, true); err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return true
		}
		r.path = path
		fmt.Fprintf(r.out, "Written: %s\n", path)
	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", cmd)
	}
	return true
}

// points parses n coordinate pairs.
func (r *session) points(args []string, n int) ([]hotspot.Point, bool) {
	if len(args) != 2*n {
		fmt.Fprintf(r.out, "Error: expected %d coordinates\n", 2*n)
		return nil, false
	}
	pts := make([]hotspot.Point, n)
	for i := range pts {
		x, errX := strconv.ParseFloat(args[2*i], 64)
		y, errY := strconv.ParseFloat(args[2*i+1], 64)
		if errX != nil || errY != nil {
			fmt.Fprintln(r.out, "Error: coordinates must be numbers")
			return nil, false
		}
		pts[i] = hotspot.Point{X: x, Y: y}
	}
	return pts, true
}

func (r *session) printSelected() {
	if h, ok := r.surface.Selected(); ok {
		fmt.Fprintf(r.out, "Selected: %s, size %.0f\n", editor.Describe(h), hotspot.Size(h.Shape))
	} else {
		fmt.Fprintln(r.out, "Selected: none")
	}
}

func (r *session) printHover() {
	id := r.surface.Hovered()
	if id == "" {
		fmt.Fprintln(r.out, "Hover: none")
		return
	}
	h, _ := r.surface.Store().FindByID(id)
	fmt.Fprintf(r.out, "Hover: %s\n", h.Word)
}

func (r *session) printList() {
	list := r.surface.Export()
	if len(list) == 0 {
		fmt.Fprintln(r.out, "No hotspots")
		return
	}
	sel := r.surface.Store().SelectedID()
	for i, h := range list {
		marker := " "
		if h.ID == sel {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %2d. %s\n", marker, i+1, editor.Describe(h))
	}
}
