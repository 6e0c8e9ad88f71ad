package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thesavant42/shotpro/internal/models"
)

func systemFixture() []TabbedPage {
	return SystemPages(
		[]models.BrowserInfo{
			{Name: "chrome", Version: "124.0", Available: true},
			{Name: "edge", Available: false, Error: "msedgedriver not found"},
		},
		models.Stats{TotalScreenshots: 3, Domains: []string{"example.com"}},
		[]models.DownloadRecord{{Location: "/tmp/a.png", URL: "https://example.com", SizeBytes: 1024, SavedAt: time.Now()}},
	)
}

func TestSystemPages(t *testing.T) {
	pages := systemFixture()
	if len(pages) != 3 {
		t.Fatalf("len(pages) = %d", len(pages))
	}
	edge := pages[0].Rows[1]
	if edge[1] != "-" || edge[2] != "unavailable" || edge[3] != "msedgedriver not found" {
		t.Errorf("edge row = %v", edge)
	}
	if pages[1].Rows[0][1] != "example.com" {
		t.Errorf("domain row = %v", pages[1].Rows[0])
	}
	if pages[2].Rows[0][1] != "1.0 KiB" {
		t.Errorf("download row = %v", pages[2].Rows[0])
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabbedTableSwitching(t *testing.T) {
	m := NewTabbedTableModel("System", "summary", systemFixture())

	next, _ := m.Update(key("tab"))
	m = next.(TabbedTableModel)
	if m.Current() != 1 {
		t.Fatalf("after tab Current() = %d", m.Current())
	}

	next, _ = m.Update(key("left"))
	next, _ = next.Update(key("left"))
	m = next.(TabbedTableModel)
	if m.Current() != 2 {
		t.Errorf("left wraps to last tab, Current() = %d", m.Current())
	}

	if !strings.Contains(m.View(), "Downloads (1)") {
		t.Errorf("View() missing tab label:\n%s", m.View())
	}

	next, cmd := m.Update(key("q"))
	if cmd == nil || next.View() != "" {
		t.Error("q should quit")
	}
}

func TestTabbedTableEmptyPage(t *testing.T) {
	pages := SystemPages(nil, models.Stats{}, nil)
	m := NewTabbedTableModel("System", "", pages)
	if !strings.Contains(m.View(), "The backend reported no browsers") {
		t.Errorf("View() missing empty text:\n%s", m.View())
	}
}
