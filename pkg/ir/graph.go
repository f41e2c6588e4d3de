package ir

import (
	"fmt"
	"slices"
)

// FunctionInfo is function-level metadata attached by the upstream builder
// and passed through this core unmodified.
type FunctionInfo struct {
	Name       string   // function identifier ("" for anonymous)
	Params     []Slot   // parameter slots, in declaration order
	Generator  bool     // declared as a generator
	Async      bool     // declared async
	Directives []string // leading directive prologue, verbatim
	Kind       string   // builder-defined function kind (e.g. "function", "arrow")
}

// Graph is the dependency graph of one compiled function. Nodes are keyed
// by id and stored in an explicit iteration order; after [Canonicalize]
// that order is a valid topological order of the dependency relation.
//
// A Graph is owned by one compiling task at a time and is not safe for
// concurrent use.
type Graph struct {
	// Fn is builder-supplied function metadata, never touched by this core.
	Fn FunctionInfo

	entry NodeID
	exit  NodeID
	nodes map[NodeID]Node
	order []NodeID
}

// NewGraph creates an empty graph with the builder-chosen entry and exit
// ids. Nodes are added afterwards with [Graph.AddNode]; the entry and exit
// ids must resolve by the time the graph is processed.
func NewGraph(fn FunctionInfo, entry, exit NodeID) *Graph {
	return &Graph{
		Fn:    fn,
		entry: entry,
		exit:  exit,
		nodes: make(map[NodeID]Node),
	}
}

// Entry returns the id of the unique start node.
func (g *Graph) Entry() NodeID { return g.entry }

// Exit returns the id of the exit node.
func (g *Graph) Exit() NodeID { return g.exit }

// AddNode stores a node under its id, appending it to the iteration order.
// Returns ErrInvalidNodeID if the id is invalid or ErrDuplicateNodeID if
// the id is already taken.
func (g *Graph) AddNode(n Node) error {
	id := n.ID()
	if !id.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidNodeID, id)
	}
	if _, exists := g.nodes[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, id)
	}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return nil
}

// Node returns the node with the given id and true, or nil and false.
func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in storage order. After [Canonicalize] this is
// the canonical producer-before-consumer order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// IDs returns a copy of the storage order.
func (g *Graph) IDs() []NodeID { return slices.Clone(g.order) }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the total number of dependency edges.
func (g *Graph) EdgeCount() int {
	var n int
	for _, id := range g.order {
		n += len(Dependencies(g.nodes[id]))
	}
	return n
}

// Validate checks that the entry and exit ids resolve and that every id a
// node references resolves to a stored node: dependencies and control
// edges, plus the structural ids outside the dependency relation (jump
// targets, block endpoints, phi operand predecessors; see [Targets]). It
// performs no semantic validation: a graph that passes is structurally
// sound, nothing more.
//
// PopulateOutputs and Canonicalize report the dependency-edge violations
// themselves but never walk targets, so a freshly decoded graph must pass
// Validate before anything else runs on it.
func (g *Graph) Validate() error {
	if _, ok := g.nodes[g.entry]; !ok {
		return fmt.Errorf("%w: %s", ErrMissingEntry, g.entry)
	}
	if _, ok := g.nodes[g.exit]; !ok {
		return fmt.Errorf("%w: %s", ErrMissingExit, g.exit)
	}
	for _, id := range g.order {
		n := g.nodes[id]
		for _, dep := range Dependencies(n) {
			if _, ok := g.nodes[dep]; !ok {
				return danglingErr(n, dep)
			}
		}
		for _, target := range Targets(n) {
			if _, ok := g.nodes[target]; !ok {
				return danglingErr(n, target)
			}
		}
	}
	return nil
}

// danglingErr reports a reference to a nonexistent node, carrying the
// referencing node's source location. Dangling ids are compiler bugs.
func danglingErr(from Node, missing NodeID) error {
	return fmt.Errorf("%w: %s referenced by %s %s at %s",
		ErrMissingNode, missing, from.Kind(), from.ID(), from.Loc())
}
