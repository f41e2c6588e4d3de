// Package irjson is the JSON interchange format for dependency graphs.
//
// Upstream builders emit this format so the reflow diagnostic tooling can
// load graphs without linking against the builder. The format is
// human-readable and round-trip faithful: decode → encode reproduces the
// same graph, including storage order, which is part of the contract
// because canonicalization is order-sensitive.
package irjson

import (
	"errors"
	"fmt"

	"github.com/matzehuels/reflow/pkg/ir"
)

// ErrUnknownKind is returned by [ToGraph] when a node's kind string is not
// one of the thirteen known kinds.
var ErrUnknownKind = errors.New("unknown node kind")

// ErrMissingField is returned by [ToGraph] when a node lacks a field its
// kind requires (e.g. a Load without a value reference).
var ErrMissingField = errors.New("missing required field")

// Kind strings used on the wire.
const (
	KindEntry        = "entry"
	KindLoadArgument = "load_argument"
	KindLoad         = "load"
	KindStore        = "store"
	KindValue        = "value"
	KindReturn       = "return"
	KindThrow        = "throw"
	KindGoto         = "goto"
	KindLabel        = "label"
	KindIf           = "if"
	KindFallthrough  = "fallthrough"
	KindControl      = "control"
	KindOptional     = "optional"
)

// Graph is the serialized form of one function's dependency graph.
// Nodes appear in storage order; outputs are never serialized because they
// are always re-derived after load.
type Graph struct {
	Function Function `json:"function"`
	Entry    int      `json:"entry"`
	Exit     int      `json:"exit"`
	Nodes    []Node   `json:"nodes"`
}

// Function carries the builder's function-level metadata verbatim.
type Function struct {
	Name       string   `json:"name,omitempty"`
	Params     []uint32 `json:"params,omitempty"`
	Generator  bool     `json:"generator,omitempty"`
	Async      bool     `json:"async,omitempty"`
	Directives []string `json:"directives,omitempty"`
	Kind       string   `json:"kind,omitempty"`
}

// Loc is a serialized source location.
type Loc struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Ref is a serialized node reference: producer id plus the slot rename.
type Ref struct {
	On   int    `json:"on"`
	From uint32 `json:"from"`
	To   uint32 `json:"to"`
}

// Range is a serialized sub-block range.
type Range struct {
	Entry int `json:"entry"`
	Exit  int `json:"exit"`
}

// PhiOperand is one predecessor's contribution to a phi.
type PhiOperand struct {
	Pred int    `json:"pred"`
	Slot uint32 `json:"slot"`
}

// Phi is a serialized phi entry.
type Phi struct {
	Slot     uint32       `json:"slot"`
	Operands []PhiOperand `json:"operands"`
}

// Node is the unified serialization type for all thirteen node kinds.
// Which fields are meaningful depends on Kind; unused fields are omitted.
type Node struct {
	ID      int    `json:"id"`
	Kind    string `json:"kind"`
	Loc     *Loc   `json:"loc,omitempty"`
	Control *int   `json:"control,omitempty"` // absent only for entry

	Place         *uint32 `json:"place,omitempty"`         // load_argument
	Value         *Ref    `json:"value,omitempty"`         // load, store, return, throw
	Mode          string  `json:"mode,omitempty"`          // store: declare/reassign; goto: break/continue
	Operation     string  `json:"operation,omitempty"`     // value
	Refs          []Ref   `json:"refs,omitempty"`          // value dependency map, in order
	ScopeDeps     []int   `json:"scope_deps,omitempty"`    // return, throw
	Deps          []int   `json:"deps,omitempty"`          // goto, label, if
	Target        *int    `json:"target,omitempty"`        // goto
	Block         *Range  `json:"block,omitempty"`         // label
	Test          *Ref    `json:"test,omitempty"`          // if
	Consequent    *Range  `json:"consequent,omitempty"`    // if
	Alternate     *Range  `json:"alternate,omitempty"`     // if
	Fallthrough   *int    `json:"fallthrough,omitempty"`   // if
	Preds         []int   `json:"preds,omitempty"`         // fallthrough
	Phis          []Phi   `json:"phis,omitempty"`          // fallthrough
	Object        *Ref    `json:"object,omitempty"`        // optional
	Continuation  *Ref    `json:"continuation,omitempty"`  // optional
	ShortCircuits bool    `json:"short_circuits,omitempty"` // optional
}

// =============================================================================
// ir.Graph → Graph
// =============================================================================

// FromGraph converts an ir.Graph to its serialization format. Nodes are
// emitted in storage order, not sorted, because the order feeds the
// canonicalization contract.
func FromGraph(g *ir.Graph) Graph {
	nodes := g.Nodes()
	out := Graph{
		Function: Function{
			Name:       g.Fn.Name,
			Params:     slotsToWire(g.Fn.Params),
			Generator:  g.Fn.Generator,
			Async:      g.Fn.Async,
			Directives: g.Fn.Directives,
			Kind:       g.Fn.Kind,
		},
		Entry: int(g.Entry()),
		Exit:  int(g.Exit()),
		Nodes: make([]Node, len(nodes)),
	}
	for i, n := range nodes {
		out.Nodes[i] = nodeFromIR(n)
	}
	return out
}

func nodeFromIR(n ir.Node) Node {
	out := Node{ID: int(n.ID())}
	if loc := n.Loc(); loc != (ir.SourceLocation{}) {
		out.Loc = &Loc{Line: loc.Line, Column: loc.Column}
	}
	if ctl, ok := ir.ControlEdge(n); ok {
		out.Control = intPtr(int(ctl))
	}

	switch n := n.(type) {
	case *ir.Entry:
		out.Kind = KindEntry
	case *ir.LoadArgument:
		out.Kind = KindLoadArgument
		out.Place = uint32Ptr(uint32(n.Place))
	case *ir.Load:
		out.Kind = KindLoad
		out.Value = refPtr(n.Value)
	case *ir.Store:
		out.Kind = KindStore
		out.Value = refPtr(n.Value)
		out.Mode = n.Mode.String()
	case *ir.Value:
		out.Kind = KindValue
		if n.Op != nil {
			out.Operation = n.Op.String()
		}
		out.Refs = refsToWire(n.Deps)
	case *ir.Return:
		out.Kind = KindReturn
		out.Value = refPtr(n.Value)
		out.ScopeDeps = idsToWire(n.ScopeDeps)
	case *ir.Throw:
		out.Kind = KindThrow
		out.Value = refPtr(n.Value)
		out.ScopeDeps = idsToWire(n.ScopeDeps)
	case *ir.Goto:
		out.Kind = KindGoto
		out.Target = intPtr(int(n.Target))
		out.Mode = n.Mode.String()
		out.Deps = idsToWire(n.Deps)
	case *ir.Label:
		out.Kind = KindLabel
		out.Block = rangePtr(n.Block)
		out.Deps = idsToWire(n.Deps)
	case *ir.If:
		out.Kind = KindIf
		out.Test = refPtr(n.Test)
		out.Consequent = rangePtr(n.Consequent)
		out.Alternate = rangePtr(n.Alternate)
		out.Fallthrough = intPtr(int(n.Fallthrough))
		out.Deps = idsToWire(n.Deps)
	case *ir.Fallthrough:
		out.Kind = KindFallthrough
		out.Preds = idsToWire(n.Preds)
		out.Phis = phisToWire(n.Phis)
	case *ir.Control:
		out.Kind = KindControl
	case *ir.Optional:
		out.Kind = KindOptional
		out.Object = refPtr(n.Object)
		out.Continuation = refPtr(n.Continuation)
		out.ShortCircuits = n.ShortCircuits
	default:
		panic(fmt.Sprintf("irjson: unhandled node kind %T", n))
	}
	return out
}

// =============================================================================
// Graph → ir.Graph
// =============================================================================

// ToGraph converts a decoded Graph to an ir.Graph. All ids pass through
// the validated minting factory; unknown kinds and kind-required fields
// that are absent produce errors. The result has stale outputs - run
// ir.PopulateOutputs before using it.
func ToGraph(gj Graph) (*ir.Graph, error) {
	entry, err := ir.MakeNodeID(gj.Entry)
	if err != nil {
		return nil, fmt.Errorf("entry: %w", err)
	}
	exit, err := ir.MakeNodeID(gj.Exit)
	if err != nil {
		return nil, fmt.Errorf("exit: %w", err)
	}

	g := ir.NewGraph(ir.FunctionInfo{
		Name:       gj.Function.Name,
		Params:     slotsFromWire(gj.Function.Params),
		Generator:  gj.Function.Generator,
		Async:      gj.Function.Async,
		Directives: gj.Function.Directives,
		Kind:       gj.Function.Kind,
	}, entry, exit)

	for _, nj := range gj.Nodes {
		n, err := nodeToIR(nj)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", nj.ID, err)
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %d: %w", nj.ID, err)
		}
	}
	return g, nil
}

func nodeToIR(nj Node) (ir.Node, error) {
	id, err := ir.MakeNodeID(nj.ID)
	if err != nil {
		return nil, err
	}
	var loc ir.SourceLocation
	if nj.Loc != nil {
		loc = ir.SourceLocation{Line: nj.Loc.Line, Column: nj.Loc.Column}
	}
	base := ir.MakeNodeBase(id, loc)

	// Every kind except entry requires the control edge up front.
	control := ir.InvalidNodeID
	if nj.Kind != KindEntry {
		if nj.Control == nil {
			return nil, fmt.Errorf("%w: control", ErrMissingField)
		}
		control, err = ir.MakeNodeID(*nj.Control)
		if err != nil {
			return nil, fmt.Errorf("control: %w", err)
		}
	}

	switch nj.Kind {
	case KindEntry:
		return &ir.Entry{NodeBase: base}, nil
	case KindLoadArgument:
		if nj.Place == nil {
			return nil, fmt.Errorf("%w: place", ErrMissingField)
		}
		return &ir.LoadArgument{NodeBase: base, Control: control, Place: ir.Slot(*nj.Place)}, nil
	case KindLoad:
		value, err := requireRef(nj.Value, "value")
		if err != nil {
			return nil, err
		}
		return &ir.Load{NodeBase: base, Control: control, Value: value}, nil
	case KindStore:
		value, err := requireRef(nj.Value, "value")
		if err != nil {
			return nil, err
		}
		mode, err := storeKindFromWire(nj.Mode)
		if err != nil {
			return nil, err
		}
		return &ir.Store{NodeBase: base, Control: control, Value: value, Mode: mode}, nil
	case KindValue:
		refs, err := refsFromWire(nj.Refs)
		if err != nil {
			return nil, err
		}
		return &ir.Value{
			NodeBase: base,
			Control:  control,
			Op:       ir.RawOperation(nj.Operation),
			Deps:     refs,
		}, nil
	case KindReturn:
		value, err := requireRef(nj.Value, "value")
		if err != nil {
			return nil, err
		}
		scope, err := idsFromWire(nj.ScopeDeps)
		if err != nil {
			return nil, err
		}
		return &ir.Return{NodeBase: base, Control: control, Value: value, ScopeDeps: scope}, nil
	case KindThrow:
		value, err := requireRef(nj.Value, "value")
		if err != nil {
			return nil, err
		}
		scope, err := idsFromWire(nj.ScopeDeps)
		if err != nil {
			return nil, err
		}
		return &ir.Throw{NodeBase: base, Control: control, Value: value, ScopeDeps: scope}, nil
	case KindGoto:
		if nj.Target == nil {
			return nil, fmt.Errorf("%w: target", ErrMissingField)
		}
		target, err := ir.MakeNodeID(*nj.Target)
		if err != nil {
			return nil, fmt.Errorf("target: %w", err)
		}
		mode, err := gotoKindFromWire(nj.Mode)
		if err != nil {
			return nil, err
		}
		deps, err := idsFromWire(nj.Deps)
		if err != nil {
			return nil, err
		}
		return &ir.Goto{NodeBase: base, Control: control, Target: target, Mode: mode, Deps: deps}, nil
	case KindLabel:
		block, err := requireRange(nj.Block, "block")
		if err != nil {
			return nil, err
		}
		deps, err := idsFromWire(nj.Deps)
		if err != nil {
			return nil, err
		}
		return &ir.Label{NodeBase: base, Control: control, Block: block, Deps: deps}, nil
	case KindIf:
		test, err := requireRef(nj.Test, "test")
		if err != nil {
			return nil, err
		}
		cons, err := requireRange(nj.Consequent, "consequent")
		if err != nil {
			return nil, err
		}
		alt, err := requireRange(nj.Alternate, "alternate")
		if err != nil {
			return nil, err
		}
		if nj.Fallthrough == nil {
			return nil, fmt.Errorf("%w: fallthrough", ErrMissingField)
		}
		ft, err := ir.MakeNodeID(*nj.Fallthrough)
		if err != nil {
			return nil, fmt.Errorf("fallthrough: %w", err)
		}
		deps, err := idsFromWire(nj.Deps)
		if err != nil {
			return nil, err
		}
		return &ir.If{
			NodeBase: base, Control: control, Test: test,
			Consequent: cons, Alternate: alt, Fallthrough: ft, Deps: deps,
		}, nil
	case KindFallthrough:
		preds, err := idsFromWire(nj.Preds)
		if err != nil {
			return nil, err
		}
		phis, err := phisFromWire(nj.Phis)
		if err != nil {
			return nil, err
		}
		return &ir.Fallthrough{NodeBase: base, Control: control, Preds: preds, Phis: phis}, nil
	case KindControl:
		return &ir.Control{NodeBase: base, Control: control}, nil
	case KindOptional:
		object, err := requireRef(nj.Object, "object")
		if err != nil {
			return nil, err
		}
		cont, err := requireRef(nj.Continuation, "continuation")
		if err != nil {
			return nil, err
		}
		return &ir.Optional{
			NodeBase: base, Control: control,
			Object: object, Continuation: cont, ShortCircuits: nj.ShortCircuits,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, nj.Kind)
	}
}

// =============================================================================
// Wire Helpers
// =============================================================================

func intPtr(v int) *int          { return &v }
func uint32Ptr(v uint32) *uint32 { return &v }

func refPtr(r ir.Reference) *Ref {
	return &Ref{On: int(r.Producer), From: uint32(r.From), To: uint32(r.To)}
}

func rangePtr(r ir.BlockRange) *Range {
	return &Range{Entry: int(r.Entry), Exit: int(r.Exit)}
}

func refsToWire(refs []ir.Reference) []Ref {
	if len(refs) == 0 {
		return nil
	}
	out := make([]Ref, len(refs))
	for i, r := range refs {
		out[i] = *refPtr(r)
	}
	return out
}

func idsToWire(ids []ir.NodeID) []int {
	if len(ids) == 0 {
		return nil
	}
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func slotsToWire(slots []ir.Slot) []uint32 {
	if len(slots) == 0 {
		return nil
	}
	out := make([]uint32, len(slots))
	for i, s := range slots {
		out[i] = uint32(s)
	}
	return out
}

func slotsFromWire(raw []uint32) []ir.Slot {
	if len(raw) == 0 {
		return nil
	}
	out := make([]ir.Slot, len(raw))
	for i, v := range raw {
		out[i] = ir.Slot(v)
	}
	return out
}

func phisToWire(phis []ir.Phi) []Phi {
	if len(phis) == 0 {
		return nil
	}
	out := make([]Phi, len(phis))
	for i, phi := range phis {
		ops := make([]PhiOperand, len(phi.Operands))
		for j, op := range phi.Operands {
			ops[j] = PhiOperand{Pred: int(op.Pred), Slot: uint32(op.Slot)}
		}
		out[i] = Phi{Slot: uint32(phi.Slot), Operands: ops}
	}
	return out
}

func requireRef(r *Ref, field string) (ir.Reference, error) {
	if r == nil {
		return ir.Reference{}, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	on, err := ir.MakeNodeID(r.On)
	if err != nil {
		return ir.Reference{}, fmt.Errorf("%s: %w", field, err)
	}
	return ir.Reference{Producer: on, From: ir.Slot(r.From), To: ir.Slot(r.To)}, nil
}

func requireRange(r *Range, field string) (ir.BlockRange, error) {
	if r == nil {
		return ir.BlockRange{}, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	entry, err := ir.MakeNodeID(r.Entry)
	if err != nil {
		return ir.BlockRange{}, fmt.Errorf("%s entry: %w", field, err)
	}
	exit, err := ir.MakeNodeID(r.Exit)
	if err != nil {
		return ir.BlockRange{}, fmt.Errorf("%s exit: %w", field, err)
	}
	return ir.BlockRange{Entry: entry, Exit: exit}, nil
}

func refsFromWire(raw []Ref) ([]ir.Reference, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]ir.Reference, len(raw))
	for i, r := range raw {
		ref, err := requireRef(&r, "refs")
		if err != nil {
			return nil, err
		}
		out[i] = ref
	}
	return out, nil
}

func idsFromWire(raw []int) ([]ir.NodeID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]ir.NodeID, len(raw))
	for i, v := range raw {
		id, err := ir.MakeNodeID(v)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func phisFromWire(raw []Phi) ([]ir.Phi, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]ir.Phi, len(raw))
	for i, phi := range raw {
		ops := make([]ir.PhiOperand, len(phi.Operands))
		for j, op := range phi.Operands {
			pred, err := ir.MakeNodeID(op.Pred)
			if err != nil {
				return nil, fmt.Errorf("phi operand: %w", err)
			}
			ops[j] = ir.PhiOperand{Pred: pred, Slot: ir.Slot(op.Slot)}
		}
		out[i] = ir.Phi{Slot: ir.Slot(phi.Slot), Operands: ops}
	}
	return out, nil
}

func storeKindFromWire(s string) (ir.StoreKind, error) {
	switch s {
	case "declare":
		return ir.StoreDeclare, nil
	case "reassign":
		return ir.StoreReassign, nil
	default:
		return 0, fmt.Errorf("%w: store mode %q", ErrMissingField, s)
	}
}

func gotoKindFromWire(s string) (ir.GotoKind, error) {
	switch s {
	case "break":
		return ir.GotoBreak, nil
	case "continue":
		return ir.GotoContinue, nil
	default:
		return 0, fmt.Errorf("%w: goto mode %q", ErrMissingField, s)
	}
}
