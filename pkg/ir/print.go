package ir

import (
	"fmt"
	"strings"
)

// Dump renders the graph as a deterministic multi-line diagnostic dump:
// one header line for the function signature, then one line per node in
// storage order (plus one line per phi entry for Fallthrough nodes). The
// dump is auxiliary tooling output, not authoritative, and there is no
// round-trip parser for it.
func Dump(g *Graph) string {
	var b strings.Builder
	writeHeader(&b, g)
	for _, n := range g.Nodes() {
		writeNode(&b, n)
	}
	return b.String()
}

func writeHeader(b *strings.Builder, g *Graph) {
	name := g.Fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	params := make([]string, len(g.Fn.Params))
	for i, p := range g.Fn.Params {
		params[i] = p.String()
	}

	var quals []string
	if g.Fn.Async {
		quals = append(quals, "async")
	}
	if g.Fn.Generator {
		quals = append(quals, "generator")
	}
	qual := ""
	if len(quals) > 0 {
		qual = " [" + strings.Join(quals, " ") + "]"
	}

	fmt.Fprintf(b, "%s %s(%s)%s entry=%s exit=%s\n",
		g.Fn.Kind, name, strings.Join(params, ", "), qual, g.entry, g.exit)
	for _, d := range g.Fn.Directives {
		fmt.Fprintf(b, "  directive %q\n", d)
	}
}

// writeNode emits one node line (plus phi lines for Fallthrough). The
// switch is exhaustive over the closed taxonomy; an unhandled kind panics.
func writeNode(b *strings.Builder, n Node) {
	fmt.Fprintf(b, "  %s %s", n.ID(), n.Kind())

	switch n := n.(type) {
	case *Entry:
		b.WriteByte('\n')
		return
	case *LoadArgument:
		fmt.Fprintf(b, " %s", n.Place)
	case *Load:
		fmt.Fprintf(b, " %s", n.Value)
	case *Store:
		fmt.Fprintf(b, " %s %s", n.Mode, n.Value)
	case *Value:
		fmt.Fprintf(b, " %s refs=%s", opString(n.Op), refList(n.Deps))
	case *Return:
		fmt.Fprintf(b, " %s scope=%s", n.Value, idList(n.ScopeDeps))
	case *Throw:
		fmt.Fprintf(b, " %s scope=%s", n.Value, idList(n.ScopeDeps))
	case *Goto:
		fmt.Fprintf(b, " %s to=%s deps=%s", n.Mode, n.Target, idList(n.Deps))
	case *Label:
		fmt.Fprintf(b, " block=%s..%s deps=%s", n.Block.Entry, n.Block.Exit, idList(n.Deps))
	case *If:
		fmt.Fprintf(b, " test=%s cons=%s..%s alt=%s..%s fallthrough=%s deps=%s",
			n.Test, n.Consequent.Entry, n.Consequent.Exit,
			n.Alternate.Entry, n.Alternate.Exit, n.Fallthrough, idList(n.Deps))
	case *Fallthrough:
		fmt.Fprintf(b, " preds=%s", idList(n.Preds))
	case *Control:
		// control edge only, printed below
	case *Optional:
		fmt.Fprintf(b, " object=%s continuation=%s shortcircuit=%t",
			n.Object, n.Continuation, n.ShortCircuits)
	default:
		panic(fmt.Sprintf("ir: unhandled node kind %T", n))
	}

	if ctl, ok := ControlEdge(n); ok {
		fmt.Fprintf(b, " ctl=%s", ctl)
	}
	b.WriteByte('\n')

	if ft, ok := n.(*Fallthrough); ok {
		for _, phi := range ft.Phis {
			ops := make([]string, len(phi.Operands))
			for i, op := range phi.Operands {
				ops[i] = fmt.Sprintf("%s:%s", op.Pred, op.Slot)
			}
			fmt.Fprintf(b, "    phi %s = (%s)\n", phi.Slot, strings.Join(ops, ", "))
		}
	}
}

func opString(op Operation) string {
	if op == nil {
		return "<nil>"
	}
	return op.String()
}

func idList(ids []NodeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func refList(refs []Reference) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
