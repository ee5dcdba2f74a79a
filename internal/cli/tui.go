package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/storyflow/storyflow/pkg/flow/store"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// FlowListModel is the bubbletea model for interactive flow selection.
type FlowListModel struct {
	Flows    []store.Summary
	Cursor   int
	Selected *store.Summary
	Height   int
	Offset   int
}

// NewFlowListModel creates a flow list model over store summaries.
func NewFlowListModel(flows []store.Summary) FlowListModel {
	return FlowListModel{
		Flows:  flows,
		Height: 15,
	}
}

func (m FlowListModel) Init() tea.Cmd {
	return nil
}

func (m FlowListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Flows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			picked := m.Flows[m.Cursor]
			m.Selected = &picked
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

func (m FlowListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Flow"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Flows) {
		end = len(m.Flows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		f := m.Flows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		name := f.Name
		if name == "" {
			name = "(unnamed)"
		}

		rows = append(rows, []string{
			cursor,
			f.ID,
			name,
			fmt.Sprintf("%d", f.Modules),
			fmt.Sprintf("%d", f.Edges),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Flow", "Name", "Modules", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Flows))))

	return b.String()
}
