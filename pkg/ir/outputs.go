package ir

import "fmt"

// PopulateOutputs derives every node's forward-edge list from the
// dependency protocol. It is a full re-derivation: all outputs lists are
// cleared first, then for every node N and every dependency D of N, N's id
// is appended to D's outputs; finally the exit node's own id is appended
// to its outputs, so the exit always has at least one consumer.
//
// Running it again after further upstream edits yields the same result as
// a single run on the final graph; it never patches incrementally.
//
// A dependency id that does not resolve is a fatal internal-consistency
// error reported with the referencing node's source location.
func PopulateOutputs(g *Graph) error {
	for _, id := range g.order {
		b := g.nodes[id].base()
		b.outputs = b.outputs[:0]
	}

	for _, id := range g.order {
		n := g.nodes[id]
		for _, dep := range Dependencies(n) {
			producer, ok := g.nodes[dep]
			if !ok {
				return fmt.Errorf("populate outputs: %w", danglingErr(n, dep))
			}
			b := producer.base()
			b.outputs = append(b.outputs, id)
		}
	}

	exit, ok := g.nodes[g.exit]
	if !ok {
		return fmt.Errorf("populate outputs: %w: %s", ErrMissingExit, g.exit)
	}
	b := exit.base()
	b.outputs = append(b.outputs, g.exit)
	return nil
}
