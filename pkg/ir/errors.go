package ir

import "errors"

var (
	// ErrInvalidNodeID is returned by [MakeNodeID] when the raw value is
	// negative. Identifiers are allocated monotonically from zero and are
	// never negative.
	ErrInvalidNodeID = errors.New("node ID must be non-negative")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with
	// the same ID already exists. IDs are unique within one graph and are
	// never reused.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrMissingNode is returned when a dependency, control edge, jump
	// target, block endpoint, or phi predecessor references an id absent
	// from the node map. This indicates a compiler bug in the upstream
	// builder, not a recoverable input error.
	ErrMissingNode = errors.New("reference to missing node")

	// ErrMissingEntry is returned by [Graph.Validate] when the graph's
	// entry id does not resolve to a node.
	ErrMissingEntry = errors.New("entry node not found")

	// ErrMissingExit is returned by [PopulateOutputs], [Canonicalize], and
	// [Graph.Validate] when the graph's exit id does not resolve to a node.
	ErrMissingExit = errors.New("exit node not found")

	// ErrDependencyCycle is returned by [Canonicalize] when the dependency
	// relation contains a genuine cycle. Loops are expressed structurally
	// via Goto/Label targets and never through cyclic dependency chains, so
	// a cycle means the upstream builder produced a malformed graph.
	ErrDependencyCycle = errors.New("dependency cycle")
)
