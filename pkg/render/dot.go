package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/reflow/pkg/ir"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes slot renames and source locations in node labels.
	// When false, only the node id and kind are shown.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [SVG].
//
// Value dependencies draw as solid edges toward their producers; the control
// edge of each node draws dashed. Synthetic scope anchors ([ir.Control]
// nodes) are rendered with dashed outlines and grey fill to distinguish them
// from value-producing nodes.
func ToDOT(g *ir.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID().String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range g.Nodes() {
		deps := ir.Dependencies(n)
		ctl, hasCtl := ir.ControlEdge(n)
		if hasCtl {
			// The control edge is always the final dependency. The same
			// id can also appear earlier as a value dependency, so only
			// the final occurrence draws dashed.
			deps = deps[:len(deps)-1]
		}
		for _, dep := range deps {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID().String(), dep.String())
		}
		if hasCtl {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", n.ID().String(), ctl.String())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n ir.Node, detailed bool) string {
	head := fmt.Sprintf("%s %s", n.ID(), n.Kind())
	if v, ok := n.(*ir.Value); ok && v.Op != nil {
		head += "\n" + v.Op.String()
	}
	if !detailed {
		return head
	}

	var parts []string
	for _, ref := range ir.References(n) {
		parts = append(parts, ref.String())
	}
	if loc := n.Loc(); loc.Line > 0 {
		parts = append(parts, "at "+loc.String())
	}
	if len(parts) == 0 {
		return head
	}
	return head + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n ir.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Kind() == ir.KindControl {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}
