package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/reflow/pkg/ir"
)

func browserGraph(t *testing.T) *ir.Graph {
	t.Helper()

	g := ir.NewGraph(ir.FunctionInfo{Name: "incr", Params: []ir.Slot{0}}, 0, 3)
	nodes := []ir.Node{
		&ir.Entry{NodeBase: ir.MakeNodeBase(0, ir.SourceLocation{})},
		&ir.LoadArgument{NodeBase: ir.MakeNodeBase(1, ir.SourceLocation{}), Control: 0, Place: 0},
		&ir.Value{
			NodeBase: ir.MakeNodeBase(2, ir.SourceLocation{Line: 1, Column: 8}),
			Control:  0,
			Op:       ir.RawOperation("x+1"),
			Deps:     []ir.Reference{{Producer: 1, From: 0, To: 0}},
		},
		&ir.Return{
			NodeBase: ir.MakeNodeBase(3, ir.SourceLocation{Line: 1, Column: 1}),
			Control:  0,
			Value:    ir.Reference{Producer: 2, From: 0, To: 0},
		},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID(), err)
		}
	}
	return g
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	panic("unknown key: " + s)
}

func TestNodeListNavigation(t *testing.T) {
	m := NewNodeListModel(browserGraph(t))

	// Down moves the cursor
	next, _ := m.Update(keyMsg("down"))
	m = next.(NodeListModel)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d after down, want 1", m.Cursor)
	}

	// Up moves back
	next, _ = m.Update(keyMsg("up"))
	m = next.(NodeListModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after up, want 0", m.Cursor)
	}

	// Up at the top stays put
	next, _ = m.Update(keyMsg("up"))
	m = next.(NodeListModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, should not go negative", m.Cursor)
	}

	// G jumps to the last node
	next, _ = m.Update(keyMsg("G"))
	m = next.(NodeListModel)
	if m.Cursor != 3 {
		t.Errorf("Cursor = %d after G, want 3", m.Cursor)
	}

	// Down at the bottom stays put
	next, _ = m.Update(keyMsg("down"))
	m = next.(NodeListModel)
	if m.Cursor != 3 {
		t.Errorf("Cursor = %d, should not pass the last node", m.Cursor)
	}

	// g jumps back to the top
	next, _ = m.Update(keyMsg("g"))
	m = next.(NodeListModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after g, want 0", m.Cursor)
	}
}

func TestNodeListSelection(t *testing.T) {
	m := NewNodeListModel(browserGraph(t))

	next, _ := m.Update(keyMsg("down"))
	m = next.(NodeListModel)
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(NodeListModel)

	if m.Selected == nil {
		t.Fatal("enter should select the node under the cursor")
	}
	if m.Selected.ID() != 1 {
		t.Errorf("Selected.ID() = %s, want #1", m.Selected.ID())
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestNodeListView(t *testing.T) {
	m := NewNodeListModel(browserGraph(t))
	view := m.View()

	if !strings.Contains(view, "Nodes of incr") {
		t.Error("view should show the function name")
	}
	for _, want := range []string{"#0", "#3", "Entry", "Return", "x+1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestNodeListScrolling(t *testing.T) {
	m := NewNodeListModel(browserGraph(t))
	m.Height = 2

	// Moving past the window scrolls it
	for i := 0; i < 3; i++ {
		next, _ := m.Update(keyMsg("down"))
		m = next.(NodeListModel)
	}
	if m.Cursor != 3 {
		t.Fatalf("Cursor = %d, want 3", m.Cursor)
	}
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}

	// Window resizes clamp the height
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	m = next.(NodeListModel)
	if m.Height != 5 {
		t.Errorf("Height = %d after resize, want 5", m.Height)
	}
}
