// Package ir implements the dependency-graph intermediate representation
// used by the reflow middle-end.
//
// A Graph is built by an upstream lowering phase from a function's flat,
// control-flow-based instruction list. Nodes express true data and control
// dependencies instead of sequential program order: every node points
// backward at the nodes it needs (its dependencies), and the graph derives
// the forward (output) edges from those.
//
// # Node taxonomy
//
// The node set is closed: exactly thirteen kinds, enumerated by [Kind] and
// realized as structs implementing the sealed [Node] interface. Every node
// carries an id, a source location, and a derived forward-edge list. All
// kinds except [Entry] carry a control edge pointing at the nearest
// enclosing control-gating node.
//
// # Structural algorithms
//
// Two algorithms keep a graph internally consistent:
//
//  1. [PopulateOutputs] clears and re-derives every node's forward-edge
//     list from the dependency protocol, then appends the exit node's own
//     id to its outputs.
//  2. [Canonicalize] reorders node storage into reverse postorder over the
//     dependency relation, so that every producer precedes every consumer.
//
// Both trust that the graph was built correctly upstream; a dangling id is
// reported as an internal error, never repaired.
//
// # Traversal protocol
//
// [Dependencies] and [References] are the generic traversal surface. They
// are pure and restartable: calling them repeatedly on the same node yields
// identical sequences, and the order is fixed per kind because the
// canonical storage order depends on it.
package ir
