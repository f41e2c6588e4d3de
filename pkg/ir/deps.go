package ir

import "fmt"

// Dependencies returns the ids the node depends on, in the fixed per-kind
// order the canonical storage order is derived from:
//
//   - Entry: none.
//   - LoadArgument, Control: the control edge only.
//   - Label, Goto: the dependency list.
//   - If: the dependency list, then the test's producer.
//   - Fallthrough: every predecessor branch.
//   - Load, Store: the value reference's producer.
//   - Return, Throw: the scope dependencies, then the value's producer.
//   - Value: the dependency map's keys in stored order.
//   - Optional: the object's producer, then the continuation's producer.
//
// For every kind except Entry the control edge is appended last. The
// result is freshly allocated; callers may keep it.
func Dependencies(n Node) []NodeID {
	switch n := n.(type) {
	case *Entry:
		return nil
	case *LoadArgument:
		return []NodeID{n.Control}
	case *Load:
		return []NodeID{n.Value.Producer, n.Control}
	case *Store:
		return []NodeID{n.Value.Producer, n.Control}
	case *Value:
		deps := make([]NodeID, 0, len(n.Deps)+1)
		for _, ref := range n.Deps {
			deps = append(deps, ref.Producer)
		}
		return append(deps, n.Control)
	case *Return:
		deps := make([]NodeID, 0, len(n.ScopeDeps)+2)
		deps = append(deps, n.ScopeDeps...)
		return append(deps, n.Value.Producer, n.Control)
	case *Throw:
		deps := make([]NodeID, 0, len(n.ScopeDeps)+2)
		deps = append(deps, n.ScopeDeps...)
		return append(deps, n.Value.Producer, n.Control)
	case *Goto:
		deps := make([]NodeID, 0, len(n.Deps)+1)
		deps = append(deps, n.Deps...)
		return append(deps, n.Control)
	case *Label:
		deps := make([]NodeID, 0, len(n.Deps)+1)
		deps = append(deps, n.Deps...)
		return append(deps, n.Control)
	case *If:
		deps := make([]NodeID, 0, len(n.Deps)+2)
		deps = append(deps, n.Deps...)
		return append(deps, n.Test.Producer, n.Control)
	case *Fallthrough:
		deps := make([]NodeID, 0, len(n.Preds)+1)
		deps = append(deps, n.Preds...)
		return append(deps, n.Control)
	case *Control:
		return []NodeID{n.Control}
	case *Optional:
		return []NodeID{n.Object.Producer, n.Continuation.Producer, n.Control}
	default:
		panic(fmt.Sprintf("ir: unhandled node kind %T", n))
	}
}

// Targets returns the ids the node names structurally without depending
// on them: the Goto jump target, Label and If block endpoints, the If
// fallthrough merge point, and each phi operand's predecessor branch.
// These ids impose no ordering on the node, so [Dependencies] excludes
// them, but they must still resolve; [Graph.Validate] checks them.
func Targets(n Node) []NodeID {
	switch n := n.(type) {
	case *Goto:
		return []NodeID{n.Target}
	case *Label:
		return []NodeID{n.Block.Entry, n.Block.Exit}
	case *If:
		return []NodeID{
			n.Consequent.Entry, n.Consequent.Exit,
			n.Alternate.Entry, n.Alternate.Exit,
			n.Fallthrough,
		}
	case *Fallthrough:
		var ids []NodeID
		for _, phi := range n.Phis {
			for _, op := range phi.Operands {
				ids = append(ids, op.Pred)
			}
		}
		return ids
	default:
		return nil
	}
}

// References returns the node's fine-grained value-slot renames, in a
// fixed per-kind order. Only kinds that rename a specific producer slot
// into a local slot yield anything: Load, Store, Return, Throw (the
// value), If (the test), Value (one per dependency-map entry), and
// Optional (object, then continuation).
//
// Every id appearing here also appears in [Dependencies]; the converse
// does not hold, since dependencies include pure control and scope ids.
func References(n Node) []Reference {
	switch n := n.(type) {
	case *Entry, *LoadArgument, *Goto, *Label, *Fallthrough, *Control:
		return nil
	case *Load:
		return []Reference{n.Value}
	case *Store:
		return []Reference{n.Value}
	case *Value:
		refs := make([]Reference, len(n.Deps))
		copy(refs, n.Deps)
		return refs
	case *Return:
		return []Reference{n.Value}
	case *Throw:
		return []Reference{n.Value}
	case *If:
		return []Reference{n.Test}
	case *Optional:
		return []Reference{n.Object, n.Continuation}
	default:
		panic(fmt.Sprintf("ir: unhandled node kind %T", n))
	}
}
