package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TabbedPage is one read-only tab of a TabbedTableModel
type TabbedPage struct {
	Name    string
	Columns []ColumnSpec
	Rows    []table.Row
	Empty   string // shown instead of the table when Rows is empty
}

// TabbedTableModel shows several tables with Tab/←/→ switching
type TabbedTableModel struct {
	PageState

	title   string
	summary string
	pages   []TabbedPage
	tables  []table.Model
	current int
}

var (
	tabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorBorder).
			Bold(true).
			Padding(0, 1)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorTextDim).
				Padding(0, 1)
)

// NewTabbedTableModel builds the model; summary is printed under the tabs
func NewTabbedTableModel(title, summary string, pages []TabbedPage) TabbedTableModel {
	layout := DefaultLayout()
	if len(pages) == 0 {
		pages = []TabbedPage{{Name: "Empty", Columns: []ColumnSpec{{Title: "No Data", FlexRatio: 100}}}}
	}

	tables := make([]table.Model, len(pages))
	for i, page := range pages {
		t := table.New(
			table.WithColumns(CalculateColumns(page.Columns, layout.TableWidth)),
			table.WithRows(page.Rows),
			table.WithFocused(i == 0),
			table.WithHeight(layout.TableHeight-1),
		)
		t.SetStyles(NewTableStyles())
		tables[i] = t
	}

	return TabbedTableModel{
		PageState: NewPageState(layout),
		title:     title,
		summary:   summary,
		pages:     pages,
		tables:    tables,
	}
}

// Current is the index of the visible tab
func (m TabbedTableModel) Current() int {
	return m.current
}

func (m TabbedTableModel) Init() tea.Cmd {
	return nil
}

func (m TabbedTableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.UpdateLayout(msg.Width, msg.Height) {
			for i, page := range m.pages {
				m.tables[i].SetColumns(CalculateColumns(page.Columns, m.Layout.TableWidth))
				m.tables[i].SetHeight(m.Layout.TableHeight - 1)
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		case "tab", "right", "l":
			m.switchPage((m.current + 1) % len(m.pages))
			return m, nil
		case "shift+tab", "left", "h":
			m.switchPage((m.current + len(m.pages) - 1) % len(m.pages))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.tables[m.current], cmd = m.tables[m.current].Update(msg)
	return m, cmd
}

func (m *TabbedTableModel) switchPage(page int) {
	m.tables[m.current].Blur()
	m.current = page
	m.tables[m.current].Focus()
	m.tables[m.current].GotoTop()
}

func (m TabbedTableModel) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(ViewHeader(m.title, m.summary, m.Layout.InnerWidth))
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	page := m.pages[m.current]
	if len(page.Rows) == 0 && page.Empty != "" {
		b.WriteString(HintStyle.Render(page.Empty))
	} else {
		b.WriteString(m.tables[m.current].View())
	}
	b.WriteString("\n")
	b.WriteString(HintStyle.Render(CenterText("↑/↓ scroll • tab/←/→ switch • q back", m.Layout.InnerWidth)))

	return BorderedBox(m.Layout).Render(b.String())
}

func (m TabbedTableModel) renderTabs() string {
	parts := make([]string, len(m.pages))
	for i, page := range m.pages {
		label := fmt.Sprintf("%s (%d)", page.Name, len(page.Rows))
		if i == m.current {
			parts[i] = tabActiveStyle.Render(label)
		} else {
			parts[i] = tabInactiveStyle.Render(label)
		}
	}
	return strings.Join(parts, " ")
}

// RunTabbedTable runs the model full screen until the user backs out
func RunTabbedTable(title, summary string, pages []TabbedPage) error {
	p := tea.NewProgram(NewTabbedTableModel(title, summary, pages), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tabbed table error: %w", err)
	}
	return nil
}
