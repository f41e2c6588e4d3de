package ir

// Shared graph fixtures for the package tests.

// newLinearGraph builds the minimal four-node pipeline:
//
//	#0 Entry
//	#1 LoadArgument $0        ctl=#0
//	#2 Value "x+1" {#1:$0>$0} ctl=#0
//	#3 Return #2[$0>$0]       ctl=#0
//
// entry=#0, exit=#3.
func newLinearGraph() *Graph {
	g := NewGraph(FunctionInfo{
		Name:   "incr",
		Kind:   "function",
		Params: []Slot{0},
	}, 0, 3)

	mustAdd(g, &Entry{NodeBase: MakeNodeBase(0, SourceLocation{Line: 1, Column: 1})})
	mustAdd(g, &LoadArgument{
		NodeBase: MakeNodeBase(1, SourceLocation{Line: 1, Column: 10}),
		Control:  0,
		Place:    0,
	})
	mustAdd(g, &Value{
		NodeBase: MakeNodeBase(2, SourceLocation{Line: 2, Column: 3}),
		Control:  0,
		Op:       RawOperation("x+1"),
		Deps:     []Reference{{Producer: 1, From: 0, To: 0}},
	})
	mustAdd(g, &Return{
		NodeBase: MakeNodeBase(3, SourceLocation{Line: 2, Column: 3}),
		Control:  0,
		Value:    Reference{Producer: 2, From: 0, To: 0},
	})
	return g
}

// newBranchGraph builds a graph exercising every node kind: an If with two
// Goto branches merging at a Fallthrough, a Control gate, a Label, an
// Optional, a Throw reachable only through the Return's scope deps.
func newBranchGraph() *Graph {
	g := NewGraph(FunctionInfo{
		Name:   "branchy",
		Kind:   "function",
		Params: []Slot{0},
	}, 0, 13)

	mustAdd(g, &Entry{NodeBase: MakeNodeBase(0, SourceLocation{Line: 1, Column: 1})})
	mustAdd(g, &Control{NodeBase: MakeNodeBase(1, SourceLocation{}), Control: 0})
	mustAdd(g, &LoadArgument{NodeBase: MakeNodeBase(2, SourceLocation{Line: 1, Column: 12}), Control: 0, Place: 0})
	mustAdd(g, &Load{
		NodeBase: MakeNodeBase(3, SourceLocation{Line: 2, Column: 3}),
		Control:  0,
		Value:    Reference{Producer: 2, From: 0, To: 1},
	})
	mustAdd(g, &Store{
		NodeBase: MakeNodeBase(4, SourceLocation{Line: 2, Column: 3}),
		Control:  0,
		Value:    Reference{Producer: 3, From: 1, To: 2},
		Mode:     StoreDeclare,
	})
	mustAdd(g, &Value{
		NodeBase: MakeNodeBase(5, SourceLocation{Line: 3, Column: 7}),
		Control:  1,
		Op:       RawOperation("a+b"),
		Deps: []Reference{
			{Producer: 3, From: 1, To: 1},
			{Producer: 4, From: 2, To: 2},
		},
	})
	mustAdd(g, &If{
		NodeBase:    MakeNodeBase(6, SourceLocation{Line: 4, Column: 3}),
		Control:     0,
		Test:        Reference{Producer: 5, From: 1, To: 1},
		Consequent:  BlockRange{Entry: 7, Exit: 7},
		Alternate:   BlockRange{Entry: 8, Exit: 8},
		Fallthrough: 11,
		Deps:        []NodeID{4},
	})
	mustAdd(g, &Goto{
		NodeBase: MakeNodeBase(7, SourceLocation{Line: 5, Column: 5}),
		Control:  6,
		Target:   11,
		Mode:     GotoBreak,
		Deps:     []NodeID{5},
	})
	mustAdd(g, &Goto{
		NodeBase: MakeNodeBase(8, SourceLocation{Line: 7, Column: 5}),
		Control:  6,
		Target:   11,
		Mode:     GotoBreak,
	})
	mustAdd(g, &Label{
		NodeBase: MakeNodeBase(9, SourceLocation{Line: 4, Column: 3}),
		Control:  0,
		Block:    BlockRange{Entry: 7, Exit: 8},
	})
	mustAdd(g, &Optional{
		NodeBase:      MakeNodeBase(10, SourceLocation{Line: 9, Column: 3}),
		Control:       0,
		Object:        Reference{Producer: 3, From: 1, To: 3},
		Continuation:  Reference{Producer: 5, From: 1, To: 4},
		ShortCircuits: true,
	})
	mustAdd(g, &Fallthrough{
		NodeBase: MakeNodeBase(11, SourceLocation{Line: 8, Column: 3}),
		Control:  6,
		Preds:    []NodeID{7, 8},
		Phis: []Phi{{
			Slot:     5,
			Operands: []PhiOperand{{Pred: 7, Slot: 1}, {Pred: 8, Slot: 2}},
		}},
	})
	mustAdd(g, &Throw{
		NodeBase:  MakeNodeBase(12, SourceLocation{Line: 10, Column: 5}),
		Control:   6,
		Value:     Reference{Producer: 5, From: 1, To: 1},
		ScopeDeps: []NodeID{10},
	})
	mustAdd(g, &Return{
		NodeBase:  MakeNodeBase(13, SourceLocation{Line: 11, Column: 3}),
		Control:   0,
		Value:     Reference{Producer: 11, From: 5, To: 5},
		ScopeDeps: []NodeID{9, 12},
	})
	return g
}

func mustAdd(g *Graph, n Node) {
	if err := g.AddNode(n); err != nil {
		panic(err)
	}
}

func idsOf(nodes []Node) []NodeID {
	ids := make([]NodeID, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID()
	}
	return ids
}
