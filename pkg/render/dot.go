package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/storyflow/storyflow/pkg/flow"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes canvas coordinates in node labels.
	// When false, only the module label (or id) is shown.
	Detailed bool

	// Scale converts canvas units to Graphviz points. Zero means 1:1.
	Scale float64
}

const pointsPerInch = 72.0

// ToDOT converts a laid-out flow to Graphviz DOT with pinned node positions.
// The resulting string can be rendered with [SVG] or [PNG]. Edges from
// output slots are drawn from the parent module with the slot label on the
// tail.
func ToDOT(f *flow.Flow, opts Options) string {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}

	byID := make(map[string]flow.Node, len(f.Nodes))
	for _, n := range f.Nodes {
		byID[n.ID] = n
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=\"neato\";\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, pin=true];\n")
	buf.WriteString("\n")

	for _, n := range f.Nodes {
		if n.IsSlot() {
			continue
		}
		// Graphviz positions are node centers with y growing upward.
		cx := (n.Position.X + n.Size.Width/2) * scale
		cy := -(n.Position.Y + n.Size.Height/2) * scale
		attrs := []string{
			fmt.Sprintf("label=%q", moduleLabel(n, opts.Detailed)),
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", cx, cy),
			fmt.Sprintf("width=%.3f", n.Size.Width*scale/pointsPerInch),
			fmt.Sprintf("height=%.3f", n.Size.Height*scale/pointsPerInch),
		}
		if len(f.SlotsOf(n.ID)) > 0 {
			attrs = append(attrs, "fillcolor=lightyellow")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range f.Edges {
		src, srcOK := byID[e.Source]
		tgt, tgtOK := byID[e.Target]
		if !srcOK || !tgtOK {
			continue
		}

		var attrs []string
		if src.IsSlot() {
			attrs = append(attrs, fmt.Sprintf("taillabel=%q", slotLabel(src)))
			src = byID[src.ParentID]
		}
		if tgt.IsSlot() {
			tgt = byID[tgt.ParentID]
		}
		if src.ID == "" || tgt.ID == "" {
			continue
		}

		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", src.ID, tgt.ID, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", src.ID, tgt.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func moduleLabel(n flow.Node, detailed bool) string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	if detailed {
		label += fmt.Sprintf("\n(%.0f, %.0f)", n.Position.X, n.Position.Y)
	}
	return label
}

func slotLabel(n flow.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return fmt.Sprintf("#%d", n.SlotIndex)
}
