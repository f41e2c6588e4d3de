package ir

import "fmt"

// Canonicalize reorders node storage into reverse postorder over the
// dependency relation: every producer strictly precedes every consumer
// that needs it, which is the natural order for a single forward
// evaluation sweep.
//
// The root set is every node whose outputs list is empty and whose kind is
// not Control (bare control placeholders are never roots), in storage
// order, plus the exit id unconditionally as a final mandatory root. Each
// root is visited depth-first: a node's dependencies are visited in the
// order [Dependencies] yields them, then the node itself is recorded.
// Visits are memoized, so diamond-shaped shared dependencies are recorded
// exactly once. The traversal uses an explicit work stack, so arbitrarily
// deep dependency chains cannot overflow the goroutine stack.
//
// Canonicalize returns a new Graph holding the same node values in the
// canonical order; the input graph should be discarded afterwards. Ids and
// edge contents are unchanged. Nodes unreachable from any root are
// silently absent from the result; whole-graph reachability via control
// edges is the builder's responsibility.
//
// A dependency id that does not resolve is fatal, as is a genuine cycle in
// the dependency relation (loops are expressed via Goto/Label targets, not
// cyclic dependency chains, so a cycle means a malformed upstream graph).
func Canonicalize(g *Graph) (*Graph, error) {
	roots := make([]NodeID, 0, 4)
	for _, id := range g.order {
		n := g.nodes[id]
		if len(n.base().outputs) == 0 && n.Kind() != KindControl {
			roots = append(roots, id)
		}
	}
	roots = append(roots, g.exit)

	const (
		unvisited = iota
		inProgress
		done
	)

	state := make(map[NodeID]int, len(g.nodes))
	order := make([]NodeID, 0, len(g.nodes))

	// One frame per node currently being visited. next indexes into deps,
	// so resuming after a child visit continues with the following child.
	type frame struct {
		node Node
		deps []NodeID
		next int
	}
	var stack []frame

	// enter begins visiting id, pushed by the node from (nil for roots).
	enter := func(id NodeID, from Node) error {
		n, ok := g.nodes[id]
		if !ok {
			if from == nil {
				return fmt.Errorf("canonicalize: %w: %s", ErrMissingExit, id)
			}
			return fmt.Errorf("canonicalize: %w", danglingErr(from, id))
		}
		state[id] = inProgress
		stack = append(stack, frame{node: n, deps: Dependencies(n)})
		return nil
	}

	for _, root := range roots {
		if state[root] == done {
			continue
		}
		if err := enter(root, nil); err != nil {
			return nil, err
		}
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.next == len(f.deps) {
				state[f.node.ID()] = done
				order = append(order, f.node.ID())
				stack = stack[:len(stack)-1]
				continue
			}
			dep := f.deps[f.next]
			f.next++
			switch state[dep] {
			case done:
			case inProgress:
				return nil, fmt.Errorf("canonicalize: %w: %s depends on in-progress %s at %s",
					ErrDependencyCycle, f.node.ID(), dep, f.node.Loc())
			default:
				if err := enter(dep, f.node); err != nil {
					return nil, err
				}
			}
		}
	}

	out := &Graph{
		Fn:    g.Fn,
		entry: g.entry,
		exit:  g.exit,
		nodes: make(map[NodeID]Node, len(order)),
		order: order,
	}
	for _, id := range order {
		out.nodes[id] = g.nodes[id]
	}
	return out, nil
}
