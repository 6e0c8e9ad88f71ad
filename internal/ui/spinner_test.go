package ui

import (
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func TestBlockingSpinnerCarriesActionError(t *testing.T) {
	boom := errors.New("boom")
	m := blockingSpinnerModel{spinner: NewAppSpinner(), title: "Working", action: func() error { return boom }}

	msg := m.runAction()()
	next, cmd := m.Update(msg)
	final := next.(blockingSpinnerModel)
	if !final.done || !errors.Is(final.err, boom) {
		t.Errorf("model = %+v, want done with action error", final)
	}
	if cmd == nil {
		t.Fatal("Update() returned no quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Update() command is not tea.Quit")
	}
	if final.View() != "" {
		t.Errorf("View() after completion = %q", final.View())
	}
}

func TestBlockingSpinnerTicks(t *testing.T) {
	m := blockingSpinnerModel{spinner: NewAppSpinner(), title: "Working", action: func() error { return nil }}
	next, cmd := m.Update(spinner.TickMsg{ID: m.spinner.ID()})
	if cmd == nil {
		t.Error("tick did not schedule the next frame")
	}
	if next.(blockingSpinnerModel).done {
		t.Error("tick finished the spinner")
	}
}
