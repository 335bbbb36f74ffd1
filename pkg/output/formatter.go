package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ritzau/diagram-canvas/pkg/analysis"
	"github.com/ritzau/diagram-canvas/pkg/diagram"
)

// PrintSceneSummary prints a colored overview of a surface's scene: node and
// edge lists, the current selection and the structural analysis.
func PrintSceneSummary(w io.Writer, s *diagram.Surface, report analysis.Report) {
	// Color definitions
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	width, height := s.Size()
	v := s.Viewport()

	// Header
	bold.Fprintln(w, "Diagram Summary")
	bold.Fprintln(w, "===============")
	fmt.Fprintf(w, "Surface: %dx%d, scale %.2f, offset (%g, %g)\n", width, height, v.Scale, v.TranslateX, v.TranslateY)
	fmt.Fprintf(w, "Nodes: %d, edges: %d, renders: %d\n", report.Nodes, report.Edges, s.RenderCount())
	fmt.Fprintln(w)

	bold.Fprintln(w, "NODES:")
	for _, n := range s.Nodes() {
		line := fmt.Sprintf("  %-10s %-7s at (%g, %g) size %g", n.ID, n.Shape, n.X, n.Y, n.Size)
		if n.Label != "" {
			line += fmt.Sprintf(" %q", n.Label)
		}
		if n.Selected {
			yellow.Fprintln(w, line+" [selected]")
		} else {
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w)

	bold.Fprintln(w, "EDGES:")
	dangling := make(map[string]bool, len(report.Dangling))
	for _, id := range report.Dangling {
		dangling[id] = true
	}
	for _, e := range s.Edges() {
		line := fmt.Sprintf("  %-10s %s -> %s", e.ID, e.From, e.To)
		if e.Label != "" {
			line += fmt.Sprintf(" %q", e.Label)
		}
		switch {
		case dangling[e.ID]:
			red.Fprintln(w, line+" [unresolved]")
		case e.Selected:
			yellow.Fprintln(w, line+" [selected]")
		default:
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w)

	cyan.Fprintf(w, "Components: %d\n", len(report.Components))
	for _, c := range report.Components {
		fmt.Fprintf(w, "  [%s]\n", strings.Join(c, ", "))
	}

	// Summary with color based on structure
	if report.Acyclic() {
		green.Fprintf(w, "Acyclic; order: %s\n", strings.Join(report.Order, " -> "))
	} else {
		red.Fprintf(w, "Cycles: %d\n", len(report.Cycles))
		for _, c := range report.Cycles {
			yellow.Fprintf(w, "  %s\n", strings.Join(c.Nodes, " <-> "))
		}
	}

	if len(report.Dangling) == 0 {
		green.Fprintln(w, "✓ All edges resolve to nodes")
	} else {
		yellow.Fprintf(w, "%d edge(s) reference missing nodes\n", len(report.Dangling))
	}
}
