package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const splashText = "shotpro · browser screenshots from the terminal"

// SplashModel is the TUI model for the splash screen
type SplashModel struct {
	width    int
	height   int
	duration time.Duration
	done     bool
}

type splashTimeoutMsg struct{}

func (m SplashModel) Init() tea.Cmd {
	return tea.Tick(m.duration, func(time.Time) tea.Msg {
		return splashTimeoutMsg{}
	})
}

func (m SplashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg, splashTimeoutMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SplashModel) View() string {
	if m.done {
		return ""
	}

	layout := NewLayout(m.width, m.height)
	boxHeight := layout.ViewportHeight - 4
	if boxHeight < 5 {
		boxHeight = 5
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("\n", boxHeight/2-1))
	b.WriteString(CenterText(AccentStyle.Render(splashText), layout.InnerWidth))

	return BorderStyle.
		Width(layout.InnerWidth).
		Height(boxHeight).
		Render(b.String())
}

// ShowSplash displays the splash screen until a key is pressed or d elapses
func ShowSplash(d time.Duration) {
	model := SplashModel{
		width:    DefaultWidth,
		height:   DefaultHeight,
		duration: d,
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, _ = p.Run()

	// Clear screen before continuing
	fmt.Print("\033[2J\033[H")
}
