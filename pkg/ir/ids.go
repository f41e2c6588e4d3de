package ir

import "fmt"

// NodeID identifies one node within a graph. IDs are opaque handles: they
// are allocated monotonically by the upstream builder, unique within one
// graph, and never reused. Mint new ids with [MakeNodeID]; do not convert
// raw integers directly.
type NodeID int

// InvalidNodeID is the zero-like sentinel for an unset id. It never
// resolves to a node.
const InvalidNodeID NodeID = -1

// MakeNodeID mints a NodeID from a raw integer.
// Returns ErrInvalidNodeID if v is negative.
func MakeNodeID(v int) (NodeID, error) {
	if v < 0 {
		return InvalidNodeID, fmt.Errorf("%w: %d", ErrInvalidNodeID, v)
	}
	return NodeID(v), nil
}

// MustNodeID mints a NodeID and panics on a negative value.
// Intended for tests and literals that are known valid.
func MustNodeID(v int) NodeID {
	id, err := MakeNodeID(v)
	if err != nil {
		panic(err)
	}
	return id
}

// Valid reports whether the id could resolve to a node.
func (id NodeID) Valid() bool { return id >= 0 }

// String formats the id as "#n", or "#?" for an invalid id.
func (id NodeID) String() string {
	if !id.Valid() {
		return "#?"
	}
	return fmt.Sprintf("#%d", int(id))
}

// Slot is an opaque handle to a source-level variable or value slot. Slots
// are owned by the upstream builder; the graph only stores and compares
// them, never interprets them.
type Slot uint32

// String formats the slot as "$n".
func (s Slot) String() string { return fmt.Sprintf("$%d", uint32(s)) }

// Reference describes one value flowing from a producer node into a
// consumer, possibly under a different local name: the producer's output
// slot From is visible to the consumer as To.
type Reference struct {
	Producer NodeID // id of the producing node
	From     Slot   // producer's output slot
	To       Slot   // consumer's local slot
}

// String formats the reference as "#p[$f>$t]".
func (r Reference) String() string {
	return fmt.Sprintf("%s[%s>%s]", r.Producer, r.From, r.To)
}

// SourceLocation is a line/column position in the original source, carried
// through unmodified for diagnostics. The zero value means unknown.
type SourceLocation struct {
	Line   int
	Column int
}

// String formats the location as "line:column", or "?" when unknown.
func (l SourceLocation) String() string {
	if l == (SourceLocation{}) {
		return "?"
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}
