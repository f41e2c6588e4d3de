package ir

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestPopulateOutputsScenario(t *testing.T) {
	g := newLinearGraph()
	if err := PopulateOutputs(g); err != nil {
		t.Fatalf("PopulateOutputs: %v", err)
	}

	want := map[NodeID][]NodeID{
		0: {1, 2, 3},
		1: {2},
		2: {3},
		3: {3}, // exit self-edge, no other consumer
	}
	for id, outs := range want {
		n, _ := g.Node(id)
		if got := n.Outputs(); !slices.Equal(got, outs) {
			t.Errorf("outputs(%s) = %v, want %v", id, got, outs)
		}
	}
}

func TestPopulateOutputsIdempotent(t *testing.T) {
	g := newBranchGraph()
	if err := PopulateOutputs(g); err != nil {
		t.Fatalf("first run: %v", err)
	}

	first := make(map[NodeID][]NodeID)
	for _, n := range g.Nodes() {
		first[n.ID()] = slices.Clone(n.Outputs())
	}

	if err := PopulateOutputs(g); err != nil {
		t.Fatalf("second run: %v", err)
	}
	for _, n := range g.Nodes() {
		if got := n.Outputs(); !slices.Equal(got, first[n.ID()]) {
			t.Errorf("outputs(%s) changed on rerun: %v then %v", n.ID(), first[n.ID()], got)
		}
	}
}

func TestPopulateOutputsInverseConsistency(t *testing.T) {
	g := newBranchGraph()
	if err := PopulateOutputs(g); err != nil {
		t.Fatalf("PopulateOutputs: %v", err)
	}

	// Forward direction: every dependency edge has a matching output edge.
	for _, n := range g.Nodes() {
		for _, dep := range Dependencies(n) {
			producer, ok := g.Node(dep)
			if !ok {
				t.Fatalf("dependency %s of %s missing", dep, n.ID())
			}
			if !slices.Contains(producer.Outputs(), n.ID()) {
				t.Errorf("outputs(%s) missing consumer %s", dep, n.ID())
			}
		}
	}

	// Reverse direction: every output edge is justified by a dependency
	// edge, except the exit self-edge.
	for _, producer := range g.Nodes() {
		for _, consumerID := range producer.Outputs() {
			if producer.ID() == g.Exit() && consumerID == g.Exit() {
				continue
			}
			consumer, ok := g.Node(consumerID)
			if !ok {
				t.Fatalf("output %s of %s missing", consumerID, producer.ID())
			}
			if !slices.Contains(Dependencies(consumer), producer.ID()) {
				t.Errorf("outputs(%s) contains %s without a matching dependency",
					producer.ID(), consumerID)
			}
		}
	}
}

func TestPopulateOutputsExitSelfMembership(t *testing.T) {
	g := newBranchGraph()
	if err := PopulateOutputs(g); err != nil {
		t.Fatalf("PopulateOutputs: %v", err)
	}
	exit, _ := g.Node(g.Exit())
	count := 0
	for _, id := range exit.Outputs() {
		if id == g.Exit() {
			count++
		}
	}
	if count != 1 {
		t.Errorf("outputs(exit) contains the exit id %d times, want exactly once", count)
	}
}

func TestPopulateOutputsDanglingDependency(t *testing.T) {
	g := NewGraph(FunctionInfo{Name: "broken"}, 0, 1)
	mustAdd(g, &Entry{NodeBase: MakeNodeBase(0, SourceLocation{})})
	mustAdd(g, &Return{
		NodeBase: MakeNodeBase(1, SourceLocation{Line: 5, Column: 9}),
		Control:  0,
		Value:    Reference{Producer: 99}, // no such node
	})

	err := PopulateOutputs(g)
	if !errors.Is(err, ErrMissingNode) {
		t.Fatalf("err = %v, want ErrMissingNode", err)
	}
	// The report names the referencing node's location.
	if want := "5:9"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not mention source location %q", err, want)
	}
}

func TestPopulateOutputsMissingExit(t *testing.T) {
	g := NewGraph(FunctionInfo{}, 0, 42)
	mustAdd(g, &Entry{NodeBase: MakeNodeBase(0, SourceLocation{})})

	if err := PopulateOutputs(g); !errors.Is(err, ErrMissingExit) {
		t.Fatalf("err = %v, want ErrMissingExit", err)
	}
}

func TestGraphValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Graph
		wantErr error
	}{
		{name: "Linear", build: newLinearGraph},
		{name: "Branch", build: newBranchGraph},
		{
			name: "MissingEntry",
			build: func() *Graph {
				g := NewGraph(FunctionInfo{}, 7, 0)
				mustAdd(g, &Entry{NodeBase: MakeNodeBase(0, SourceLocation{})})
				return g
			},
			wantErr: ErrMissingEntry,
		},
		{
			name: "MissingExit",
			build: func() *Graph {
				g := NewGraph(FunctionInfo{}, 0, 7)
				mustAdd(g, &Entry{NodeBase: MakeNodeBase(0, SourceLocation{})})
				return g
			},
			wantErr: ErrMissingExit,
		},
		{
			name: "DanglingControl",
			build: func() *Graph {
				g := NewGraph(FunctionInfo{}, 0, 1)
				mustAdd(g, &Entry{NodeBase: MakeNodeBase(0, SourceLocation{})})
				mustAdd(g, &Return{
					NodeBase: MakeNodeBase(1, SourceLocation{}),
					Control:  55,
					Value:    Reference{Producer: 0},
				})
				return g
			},
			wantErr: ErrMissingNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGraphValidateDanglingTargets(t *testing.T) {
	// Targets sit outside the dependency relation, so only Validate can
	// catch them when they dangle.
	tests := []struct {
		name   string
		mutate func(g *Graph)
	}{
		{"GotoTarget", func(g *Graph) {
			n, _ := g.Node(7)
			n.(*Goto).Target = 999
		}},
		{"LabelBlockEntry", func(g *Graph) {
			n, _ := g.Node(9)
			n.(*Label).Block.Entry = 999
		}},
		{"LabelBlockExit", func(g *Graph) {
			n, _ := g.Node(9)
			n.(*Label).Block.Exit = 999
		}},
		{"IfConsequentEntry", func(g *Graph) {
			n, _ := g.Node(6)
			n.(*If).Consequent.Entry = 999
		}},
		{"IfAlternateExit", func(g *Graph) {
			n, _ := g.Node(6)
			n.(*If).Alternate.Exit = 999
		}},
		{"IfFallthrough", func(g *Graph) {
			n, _ := g.Node(6)
			n.(*If).Fallthrough = 999
		}},
		{"PhiOperandPred", func(g *Graph) {
			n, _ := g.Node(11)
			n.(*Fallthrough).Phis[0].Operands[1].Pred = 999
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newBranchGraph()
			tt.mutate(g)
			err := g.Validate()
			if !errors.Is(err, ErrMissingNode) {
				t.Fatalf("err = %v, want ErrMissingNode", err)
			}
			if !strings.Contains(err.Error(), "#999") {
				t.Errorf("error %q does not name the missing id", err)
			}
		})
	}
}

func TestGraphAddNode(t *testing.T) {
	g := NewGraph(FunctionInfo{}, 0, 0)
	if err := g.AddNode(&Entry{NodeBase: MakeNodeBase(0, SourceLocation{})}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(&Entry{NodeBase: MakeNodeBase(0, SourceLocation{})}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate err = %v, want ErrDuplicateNodeID", err)
	}
	if err := g.AddNode(&Entry{NodeBase: MakeNodeBase(InvalidNodeID, SourceLocation{})}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("invalid err = %v, want ErrInvalidNodeID", err)
	}
}
