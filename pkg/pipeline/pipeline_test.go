package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/reflow/pkg/cache"
	"github.com/matzehuels/reflow/pkg/ir"
	"github.com/matzehuels/reflow/pkg/irjson"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"text", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"text", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: "graph.json"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("Valid options should pass: %v", err)
	}

	// Check defaults were set
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatText {
		t.Errorf("Formats should default to [text], got %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsRequireInput(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("Options without input should fail validation")
	}
}

func TestOptionsRejectInvalidFormat(t *testing.T) {
	opts := Options{Input: "graph.json", Formats: []string{"gif"}}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("Invalid format should fail validation")
	}
}

// incrSource serializes the four node graph for func incr(x) { return x + 1 },
// deliberately stored out of canonical order.
func incrSource(t *testing.T) []byte {
	t.Helper()

	g := ir.NewGraph(ir.FunctionInfo{Name: "incr", Params: []ir.Slot{0}}, 0, 3)
	nodes := []ir.Node{
		&ir.Entry{NodeBase: ir.MakeNodeBase(0, ir.SourceLocation{})},
		&ir.Return{
			NodeBase: ir.MakeNodeBase(3, ir.SourceLocation{Line: 1, Column: 1}),
			Control:  0,
			Value:    ir.Reference{Producer: 2, From: 0, To: 0},
		},
		&ir.Value{
			NodeBase: ir.MakeNodeBase(2, ir.SourceLocation{Line: 1, Column: 8}),
			Control:  0,
			Op:       ir.RawOperation("x+1"),
			Deps:     []ir.Reference{{Producer: 1, From: 0, To: 0}},
		},
		&ir.LoadArgument{NodeBase: ir.MakeNodeBase(1, ir.SourceLocation{}), Control: 0, Place: 0},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID(), err)
		}
	}

	data, err := irjson.MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	return data
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewNullCache(), nil)
	defer runner.Close()

	result, err := runner.Execute(ctx, Options{
		Source:  incrSource(t),
		Formats: []string{FormatText, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.NodeCount != 4 {
		t.Errorf("NodeCount = %d, want 4", result.Stats.NodeCount)
	}
	if result.GraphHash == "" {
		t.Error("GraphHash should be computed")
	}
	if result.CacheInfo.RenderHit {
		t.Error("first run should not hit the render cache")
	}

	// Canonicalization renumbers into reverse-postorder
	wantOrder := []ir.NodeID{0, 1, 2, 3}
	gotOrder := result.Graph.IDs()
	if len(gotOrder) != len(wantOrder) {
		t.Fatalf("IDs = %v, want %v", gotOrder, wantOrder)
	}
	for i, id := range wantOrder {
		if gotOrder[i] != id {
			t.Fatalf("IDs = %v, want %v", gotOrder, wantOrder)
		}
	}

	// All requested formats were produced
	for _, format := range []string{FormatText, FormatJSON, FormatDOT} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("missing %s artifact", format)
		}
	}

	text := string(result.Artifacts[FormatText])
	if !strings.Contains(text, "#2 Value x+1") {
		t.Errorf("text artifact missing value line:\n%s", text)
	}
	dot := string(result.Artifacts[FormatDOT])
	if !strings.Contains(dot, "digraph G {") {
		t.Errorf("dot artifact missing header:\n%s", dot)
	}
}

func TestExecuteSkipCanonicalize(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil)
	defer runner.Close()

	result, err := runner.Execute(ctx, Options{
		Source:           incrSource(t),
		Formats:          []string{FormatText},
		SkipCanonicalize: true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// Storage order is preserved when canonicalization is disabled
	gotOrder := result.Graph.IDs()
	wantOrder := []ir.NodeID{0, 3, 2, 1}
	for i, id := range wantOrder {
		if gotOrder[i] != id {
			t.Fatalf("IDs = %v, want %v", gotOrder, wantOrder)
		}
	}
}

func TestExecuteRenderCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(c, nil)
	defer runner.Close()

	opts := Options{Source: incrSource(t), Formats: []string{FormatText, FormatDOT}}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss the render cache")
	}

	second, err := runner.Execute(ctx, Options{Source: incrSource(t), Formats: []string{FormatText, FormatDOT}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the render cache")
	}
	if string(first.Artifacts[FormatText]) != string(second.Artifacts[FormatText]) {
		t.Error("cached artifact should match the rendered one")
	}

	// Refresh bypasses the cache
	third, err := runner.Execute(ctx, Options{Source: incrSource(t), Formats: []string{FormatText}, Refresh: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("refresh run should bypass the render cache")
	}
}

func TestExecuteRejectsDanglingJumpTarget(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil)
	defer runner.Close()

	// The target sits outside the dependency relation, so only the load
	// stage's validation can catch it.
	g := ir.NewGraph(ir.FunctionInfo{Name: "jump"}, 0, 2)
	nodes := []ir.Node{
		&ir.Entry{NodeBase: ir.MakeNodeBase(0, ir.SourceLocation{})},
		&ir.Goto{
			NodeBase: ir.MakeNodeBase(1, ir.SourceLocation{Line: 2, Column: 3}),
			Control:  0,
			Target:   999,
			Mode:     ir.GotoBreak,
		},
		&ir.Return{
			NodeBase:  ir.MakeNodeBase(2, ir.SourceLocation{}),
			Control:   0,
			Value:     ir.Reference{Producer: 0, From: 0, To: 0},
			ScopeDeps: []ir.NodeID{1},
		},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID(), err)
		}
	}
	data, err := irjson.MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}

	_, err = runner.Execute(ctx, Options{Source: data, Formats: []string{FormatText}})
	if !errors.Is(err, ir.ErrMissingNode) {
		t.Fatalf("err = %v, want ErrMissingNode", err)
	}
}

func TestExecuteRejectsCycle(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil)
	defer runner.Close()

	// Two Value nodes referencing each other
	g := ir.NewGraph(ir.FunctionInfo{Name: "loop"}, 0, 3)
	nodes := []ir.Node{
		&ir.Entry{NodeBase: ir.MakeNodeBase(0, ir.SourceLocation{})},
		&ir.Value{
			NodeBase: ir.MakeNodeBase(1, ir.SourceLocation{}),
			Control:  0,
			Op:       ir.RawOperation("a"),
			Deps:     []ir.Reference{{Producer: 2, From: 0, To: 0}},
		},
		&ir.Value{
			NodeBase: ir.MakeNodeBase(2, ir.SourceLocation{}),
			Control:  0,
			Op:       ir.RawOperation("b"),
			Deps:     []ir.Reference{{Producer: 1, From: 0, To: 0}},
		},
		&ir.Return{
			NodeBase: ir.MakeNodeBase(3, ir.SourceLocation{}),
			Control:  0,
			Value:    ir.Reference{Producer: 1, From: 0, To: 0},
		},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID(), err)
		}
	}
	data, err := irjson.MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}

	_, err = runner.Execute(ctx, Options{Source: data, Formats: []string{FormatText}})
	if err == nil {
		t.Fatal("cyclic graph should fail canonicalization")
	}
}
