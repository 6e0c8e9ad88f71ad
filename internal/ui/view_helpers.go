package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ViewHeader renders title, an optional dim subtitle and a full-width divider
func ViewHeader(title, subtitle string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")
	if subtitle != "" {
		b.WriteString(HintStyle.Render(subtitle))
		b.WriteString("\n")
	}
	b.WriteString(FullWidthDivider(innerWidth))
	b.WriteString("\n")
	return b.String()
}

// FullWidthDivider returns a horizontal divider spanning the inner width
func FullWidthDivider(innerWidth int) string {
	if innerWidth < 1 {
		innerWidth = 1
	}
	return lipgloss.NewStyle().Foreground(ColorBorder).Render(strings.Repeat("─", innerWidth))
}

// CenterText centers text within width, measuring ANSI-aware
func CenterText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
