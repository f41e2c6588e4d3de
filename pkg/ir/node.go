package ir

import "fmt"

// =============================================================================
// Kind - Closed Node Taxonomy
// =============================================================================

// Kind enumerates the node variants. The set is closed and versioned:
// growing it requires updating [Dependencies], [References], and the
// renderer in lockstep.
type Kind int

const (
	// KindEntry is the unique start node. It is the only kind without a
	// control edge.
	KindEntry Kind = iota
	// KindLoadArgument materializes one parameter slot.
	KindLoadArgument
	// KindLoad reads one slot through one node reference.
	KindLoad
	// KindStore writes one slot through one node reference, tagged as a
	// declaration or a reassignment.
	KindStore
	// KindValue wraps one opaque leaf operation with a rename map over its
	// dependencies.
	KindValue
	// KindReturn terminates the function with one value reference plus
	// effect-only scope dependencies.
	KindReturn
	// KindThrow raises one value reference plus effect-only scope
	// dependencies.
	KindThrow
	// KindGoto is an unconditional jump to a target id.
	KindGoto
	// KindLabel names a sub-block's entry/exit range.
	KindLabel
	// KindIf branches on one test reference into consequent and alternate
	// sub-blocks.
	KindIf
	// KindFallthrough is a control-merge point owning the phi entries for
	// its incoming branches.
	KindFallthrough
	// KindControl is a payload-free synthetic node used purely as a
	// dependency target so data nodes can be control-gated.
	KindControl
	// KindOptional models short-circuiting over an object value and a
	// continuation value.
	KindOptional

	numKinds
)

// Pins the kind count. If the taxonomy grows this fails to compile, which
// forces the dependency/reference switches and the renderer to be updated.
var _ [numKinds]struct{} = [13]struct{}{}

var kindNames = [numKinds]string{
	"Entry", "LoadArgument", "Load", "Store", "Value", "Return", "Throw",
	"Goto", "Label", "If", "Fallthrough", "Control", "Optional",
}

// String returns the kind's canonical name.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// =============================================================================
// Node - Sealed Variant Interface
// =============================================================================

// Node is one vertex of the dependency graph. The interface is sealed:
// only the thirteen variants in this package implement it.
//
// Outputs are always derived by [PopulateOutputs], never hand-authored;
// this core mutates nothing else on a node.
type Node interface {
	// Kind identifies the variant.
	Kind() Kind
	// ID returns the node's graph-unique identifier.
	ID() NodeID
	// Loc returns the node's source location.
	Loc() SourceLocation
	// Outputs returns the forward-edge list as a read-only view. It is
	// only meaningful after [PopulateOutputs] has run.
	Outputs() []NodeID

	base() *NodeBase
}

// NodeBase carries the fields common to every variant: id, source
// location, and the derived forward-edge list. Variants embed it.
type NodeBase struct {
	id      NodeID
	loc     SourceLocation
	outputs []NodeID
}

// MakeNodeBase constructs the common node fields for embedding in a
// variant. The outputs list starts empty and is owned by the graph core.
func MakeNodeBase(id NodeID, loc SourceLocation) NodeBase {
	return NodeBase{id: id, loc: loc}
}

// ID returns the node's identifier.
func (b *NodeBase) ID() NodeID { return b.id }

// Loc returns the node's source location.
func (b *NodeBase) Loc() SourceLocation { return b.loc }

// Outputs returns the derived forward-edge list. The returned slice is a
// view; do not modify it.
func (b *NodeBase) Outputs() []NodeID { return b.outputs }

func (b *NodeBase) base() *NodeBase { return b }

// =============================================================================
// Payload Types
// =============================================================================

// Operation is the opaque leaf payload of a Value node. The graph treats
// it as an identity-only value; only its String form is ever used, and
// only by diagnostics.
type Operation interface {
	String() string
}

// RawOperation is the trivial Operation carrying a preformatted string.
// Builders that have no richer payload type use this.
type RawOperation string

func (o RawOperation) String() string { return string(o) }

// StoreKind tags a Store node as a first write or a reassignment.
type StoreKind int

const (
	// StoreDeclare marks the slot's first write.
	StoreDeclare StoreKind = iota
	// StoreReassign marks a write to an already-declared slot.
	StoreReassign
)

// String returns "declare" or "reassign".
func (k StoreKind) String() string {
	if k == StoreDeclare {
		return "declare"
	}
	return "reassign"
}

// GotoKind tags the transfer performed by a Goto node.
type GotoKind int

const (
	// GotoBreak transfers past the target block.
	GotoBreak GotoKind = iota
	// GotoContinue transfers back to the target block's head.
	GotoContinue
)

// String returns "break" or "continue".
func (k GotoKind) String() string {
	if k == GotoBreak {
		return "break"
	}
	return "continue"
}

// BlockRange names a sub-block by its entry and exit node ids.
type BlockRange struct {
	Entry NodeID
	Exit  NodeID
}

// PhiOperand is the slot one predecessor branch contributes to a phi.
type PhiOperand struct {
	Pred NodeID // incoming control branch
	Slot Slot   // slot that branch contributes
}

// Phi maps each incoming control branch to the slot it contributes to one
// shared output slot. Fallthrough nodes own these; they are the graph's
// analogue of SSA merge nodes.
type Phi struct {
	Slot     Slot // shared output slot
	Operands []PhiOperand
}

// =============================================================================
// Variants
// =============================================================================

// Entry is the unique start node of a graph. It has no control edge.
type Entry struct {
	NodeBase
}

func (*Entry) Kind() Kind { return KindEntry }

// LoadArgument materializes one parameter slot.
type LoadArgument struct {
	NodeBase
	Control NodeID
	Place   Slot // the parameter slot being materialized
}

func (*LoadArgument) Kind() Kind { return KindLoadArgument }

// Load reads one slot via one node reference.
type Load struct {
	NodeBase
	Control NodeID
	Value   Reference
}

func (*Load) Kind() Kind { return KindLoad }

// Store writes one slot via one node reference. Mode distinguishes the
// slot's declaring write from reassignments.
type Store struct {
	NodeBase
	Control NodeID
	Value   Reference
	Mode    StoreKind
}

func (*Store) Kind() Kind { return KindStore }

// Value wraps one opaque leaf operation. Deps maps each dependency id to
// its rename pair; the stored order is the dependency order.
type Value struct {
	NodeBase
	Control NodeID
	Op      Operation
	Deps    []Reference
}

func (*Value) Kind() Kind { return KindValue }

// Return terminates the function, yielding one value reference. ScopeDeps
// lists effect-only dependencies that carry no value.
type Return struct {
	NodeBase
	Control   NodeID
	Value     Reference
	ScopeDeps []NodeID
}

func (*Return) Kind() Kind { return KindReturn }

// Throw raises one value reference. ScopeDeps lists effect-only
// dependencies that carry no value.
type Throw struct {
	NodeBase
	Control   NodeID
	Value     Reference
	ScopeDeps []NodeID
}

func (*Throw) Kind() Kind { return KindThrow }

// Goto is an unconditional jump to Target.
type Goto struct {
	NodeBase
	Control NodeID
	Target  NodeID
	Mode    GotoKind
	Deps    []NodeID
}

func (*Goto) Kind() Kind { return KindGoto }

// Label names a sub-block's entry/exit range.
type Label struct {
	NodeBase
	Control NodeID
	Block   BlockRange
	Deps    []NodeID
}

func (*Label) Kind() Kind { return KindLabel }

// If branches on Test into the consequent or alternate sub-block, then
// falls through to Fallthrough. Deps lists values needed by more than one
// branch or by what follows the branch.
type If struct {
	NodeBase
	Control     NodeID
	Test        Reference
	Consequent  BlockRange
	Alternate   BlockRange
	Fallthrough NodeID
	Deps        []NodeID
}

func (*If) Kind() Kind { return KindIf }

// Fallthrough is a control-merge point. Preds lists the incoming control
// branches; Phis maps each shared output slot to the slot every branch
// contributes.
type Fallthrough struct {
	NodeBase
	Control NodeID
	Preds   []NodeID
	Phis    []Phi
}

func (*Fallthrough) Kind() Kind { return KindFallthrough }

// Control is a payload-free synthetic node that exists purely as a
// dependency target, so data nodes can be gated on reachability.
type Control struct {
	NodeBase
	Control NodeID
}

func (*Control) Kind() Kind { return KindControl }

// Optional models short-circuiting: Object is the value being tested,
// Continuation the value produced when evaluation proceeds, and
// ShortCircuits reports whether the short-circuit path is active.
type Optional struct {
	NodeBase
	Control       NodeID
	Object        Reference
	Continuation  Reference
	ShortCircuits bool
}

func (*Optional) Kind() Kind { return KindOptional }

// ControlEdge returns the node's control edge id. ok is false only for
// Entry, the one kind without a control edge.
func ControlEdge(n Node) (id NodeID, ok bool) {
	switch n := n.(type) {
	case *Entry:
		return InvalidNodeID, false
	case *LoadArgument:
		return n.Control, true
	case *Load:
		return n.Control, true
	case *Store:
		return n.Control, true
	case *Value:
		return n.Control, true
	case *Return:
		return n.Control, true
	case *Throw:
		return n.Control, true
	case *Goto:
		return n.Control, true
	case *Label:
		return n.Control, true
	case *If:
		return n.Control, true
	case *Fallthrough:
		return n.Control, true
	case *Control:
		return n.Control, true
	case *Optional:
		return n.Control, true
	default:
		panic(fmt.Sprintf("ir: unhandled node kind %T", n))
	}
}
