package ir

import (
	"strings"
	"testing"
)

func TestDumpScenario(t *testing.T) {
	g := newLinearGraph()
	out := Dump(g)

	want := []string{
		"function incr($0) entry=#0 exit=#3",
		"#0 Entry",
		"#1 LoadArgument $0 ctl=#0",
		"#2 Value x+1 refs=(#1[$0>$0]) ctl=#0",
		"#3 Return #2[$0>$0] scope=() ctl=#0",
	}
	for _, line := range want {
		if !strings.Contains(out, line) {
			t.Errorf("dump missing %q\n%s", line, out)
		}
	}
}

func TestDumpDeterministic(t *testing.T) {
	g := newBranchGraph()
	first := Dump(g)
	for i := 0; i < 5; i++ {
		if got := Dump(g); got != first {
			t.Fatal("Dump output varies between calls")
		}
	}
}

func TestDumpPhiTable(t *testing.T) {
	g := newBranchGraph()
	out := Dump(g)

	if !strings.Contains(out, "#11 Fallthrough preds=(#7, #8) ctl=#6") {
		t.Errorf("dump missing fallthrough line\n%s", out)
	}
	if !strings.Contains(out, "phi $5 = (#7:$1, #8:$2)") {
		t.Errorf("dump missing phi table\n%s", out)
	}
}

func TestDumpHeader(t *testing.T) {
	g := NewGraph(FunctionInfo{
		Name:       "gen",
		Kind:       "function",
		Params:     []Slot{0, 1},
		Generator:  true,
		Async:      true,
		Directives: []string{"use strict"},
	}, 0, 0)
	mustAdd(g, &Entry{NodeBase: MakeNodeBase(0, SourceLocation{})})

	out := Dump(g)
	if !strings.Contains(out, "function gen($0, $1) [async generator] entry=#0 exit=#0") {
		t.Errorf("unexpected header\n%s", out)
	}
	if !strings.Contains(out, `directive "use strict"`) {
		t.Errorf("dump missing directive line\n%s", out)
	}
}

func TestDumpAnonymous(t *testing.T) {
	g := NewGraph(FunctionInfo{Kind: "arrow"}, 0, 0)
	mustAdd(g, &Entry{NodeBase: MakeNodeBase(0, SourceLocation{})})

	if out := Dump(g); !strings.Contains(out, "arrow <anonymous>()") {
		t.Errorf("unexpected anonymous header\n%s", out)
	}
}
