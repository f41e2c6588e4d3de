package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/reflow/pkg/ir"
)

// =============================================================================
// NodeListModel - Interactive node browser
// =============================================================================

// NodeListModel is the bubbletea model for browsing graph nodes.
// Nodes are listed in the graph's iteration order; selecting one quits the
// browser and hands the node back to the caller.
type NodeListModel struct {
	Graph    *ir.Graph
	Nodes    []ir.Node
	Cursor   int
	Selected ir.Node
	Height   int
	Offset   int
}

// NewNodeListModel creates a node browser over the graph's nodes.
func NewNodeListModel(g *ir.Graph) NodeListModel {
	return NodeListModel{
		Graph:  g,
		Nodes:  g.Nodes(),
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g":
			m.Cursor = 0
			m.Offset = 0
		case "G":
			m.Cursor = len(m.Nodes) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		case "enter":
			m.Selected = m.Nodes[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	title := m.Graph.Fn.Name
	if title == "" {
		title = "<anonymous>"
	}
	b.WriteString(styleTitle.Render("Nodes of " + title))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("↑/↓ navigate  g/G top/bottom  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Nodes) {
		end = len(m.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		op := ""
		if v, ok := n.(*ir.Value); ok && v.Op != nil {
			op = v.Op.String()
		}

		loc := ""
		if l := n.Loc(); l.Line > 0 {
			loc = l.String()
		}

		rows = append(rows, []string{
			cursor,
			n.ID().String(),
			n.Kind().String(),
			op,
			idListString(ir.Dependencies(n)),
			idListString(n.Outputs()),
			loc,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "ID", "Kind", "Op", "Deps", "Outputs", "Loc").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			n := m.Nodes[actualIdx]
			isCurrent := actualIdx == m.Cursor
			isSynthetic := n.Kind() == ir.KindControl

			base := lipgloss.NewStyle()
			if col >= 4 {
				base = base.Foreground(colorFaint)
			}

			if isCurrent {
				if col < 4 {
					return base.Foreground(colorOK).Bold(true)
				}
				return base.Bold(true)
			}
			if isSynthetic {
				return base.Foreground(colorFaint)
			}
			if col < 4 {
				return base.Foreground(colorText)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))

	return b.String()
}
