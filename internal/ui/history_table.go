package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/thesavant42/shotpro/internal/api"
	"github.com/thesavant42/shotpro/internal/history"
	"github.com/thesavant42/shotpro/internal/models"
)

const statusTTL = 4 * time.Second

type historyLoadedMsg struct{ err error }

type historyDeletedMsg struct {
	id  string
	err error
}

// HistoryModel is the interactive history browser: a filterable table over a history.Cache
type HistoryModel struct {
	PageState

	ctx       context.Context
	cache     *history.Cache
	limit     int
	table     table.Model
	filter    textinput.Model
	filtering bool
	rows      []models.Screenshot
	pendingID string // awaiting delete confirmation
	statusErr bool
}

// NewHistoryModel creates the browser over an already loaded cache
func NewHistoryModel(ctx context.Context, cache *history.Cache, limit int) HistoryModel {
	layout := DefaultLayout()

	filter := textinput.New()
	filter.Placeholder = "filter by url, file or browser"
	filter.Prompt = "/ "
	filter.CharLimit = 200

	t := table.New(
		table.WithColumns(CalculateColumns(HistoryColumns(), layout.TableWidth)),
		table.WithHeight(layout.TableHeight),
		table.WithFocused(true),
	)
	t.SetStyles(NewTableStyles())

	m := HistoryModel{
		PageState: NewPageState(layout),
		ctx:       ctx,
		cache:     cache,
		limit:     limit,
		table:     t,
		filter:    filter,
	}
	m.refreshRows()
	return m
}

// RunHistoryBrowser runs the browser full screen until the user quits
func RunHistoryBrowser(ctx context.Context, cache *history.Cache, limit int) error {
	p := tea.NewProgram(NewHistoryModel(ctx, cache, limit), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("history browser error: %w", err)
	}
	return nil
}

func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Selected returns the entry under the cursor
func (m HistoryModel) Selected() (models.Screenshot, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return models.Screenshot{}, false
	}
	return m.rows[i], true
}

// Rows returns the entries currently shown
func (m HistoryModel) Rows() []models.Screenshot {
	return m.rows
}

func (m *HistoryModel) refreshRows() {
	m.rows = m.cache.Filter(m.filter.Value())
	rows := make([]table.Row, len(m.rows))
	for i, e := range m.rows {
		rows[i] = table.Row{e.URL, e.Filename, e.Browser, FormatBytes(e.FileSize), string(e.Status), shortTimestamp(e.Timestamp)}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *HistoryModel) setStatus(msg string, isErr bool) {
	m.SetStatus(msg, statusTTL)
	m.statusErr = isErr
}

func (m HistoryModel) reload() tea.Cmd {
	return func() tea.Msg {
		return historyLoadedMsg{err: m.cache.Load(m.ctx, m.limit)}
	}
}

func (m HistoryModel) remove(id string) tea.Cmd {
	return func() tea.Msg {
		return historyDeletedMsg{id: id, err: m.cache.Delete(m.ctx, id)}
	}
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.ClearExpiredStatus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.UpdateLayout(msg.Width, msg.Height) {
			m.table.SetColumns(CalculateColumns(HistoryColumns(), m.Layout.TableWidth))
			m.table.SetHeight(m.Layout.TableHeight)
		}
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.setStatus(api.UserMessage(msg.err), true)
		} else {
			m.setStatus("History reloaded", false)
		}
		m.refreshRows()
		return m, nil

	case historyDeletedMsg:
		if msg.err != nil {
			m.setStatus("Delete failed: "+api.UserMessage(msg.err), true)
		} else {
			m.setStatus("Deleted "+msg.id, false)
		}
		m.refreshRows()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateTable(msg)
	}

	return m, nil
}

func (m HistoryModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.SetValue("")
		m.filter.Blur()
		m.filtering = false
		m.table.Focus()
		m.refreshRows()
		return m, nil
	case "enter":
		m.filter.Blur()
		m.filtering = false
		m.table.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refreshRows()
	return m, cmd
}

func (m HistoryModel) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pendingID != "" {
		id := m.pendingID
		m.pendingID = ""
		if msg.String() == "y" {
			return m, m.remove(id)
		}
		m.setStatus("Delete cancelled", false)
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "/":
		m.filtering = true
		m.table.Blur()
		return m, m.filter.Focus()
	case "r":
		return m, m.reload()
	case "d", "delete":
		if shot, ok := m.Selected(); ok {
			m.pendingID = shot.ID
			m.setStatus(fmt.Sprintf("Delete %s? (y/n)", shot.Filename), false)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m HistoryModel) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(ViewHeader("Screenshot History", fmt.Sprintf("%d loaded from the server", len(m.cache.Entries())), m.Layout.InnerWidth))
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(StatsStyle.Render(formatCounts(m.cache.Counts(), m.cache.Total())))
	b.WriteString("\n")
	if m.HasStatus() {
		if m.statusErr {
			b.WriteString(ErrorStyle.Render(m.StatusMsg))
		} else {
			b.WriteString(AccentStyle.Render(m.StatusMsg))
		}
	}
	b.WriteString("\n")
	b.WriteString(HintStyle.Render(CenterText("↑/↓ move • / filter • d delete • r reload • q quit", m.Layout.InnerWidth)))

	return BorderedBox(m.Layout).Render(b.String())
}

// shortTimestamp trims a backend timestamp to minutes
func shortTimestamp(ts string) string {
	ts = strings.Replace(ts, "T", " ", 1)
	if len(ts) > 16 {
		ts = ts[:16]
	}
	return ts
}
