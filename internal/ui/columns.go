package ui

// columns.go provides generic column width calculation for bubbles/table.

import (
	"github.com/charmbracelet/bubbles/table"
)

// ColumnSpec defines a table column with flexible or fixed width.
// Use FlexRatio for columns that should expand/contract with terminal width.
// Use FixedWidth for columns that should maintain constant width.
type ColumnSpec struct {
	Title      string
	MinWidth   int // Minimum width (0 = no minimum)
	FixedWidth int // If > 0, use this exact width (ignores FlexRatio)
	FlexRatio  int // Relative ratio for flexible columns (0 = fixed-only)
}

// CalculateColumns computes column widths from specs.
// Flexible columns split remaining space by ratio after fixed columns are allocated.
//
// Example:
//
//	columns := CalculateColumns([]ColumnSpec{
//	    {Title: "URL", FlexRatio: 60, MinWidth: 20},
//	    {Title: "Status", FixedWidth: 10},
//	}, layout.TableWidth)
func CalculateColumns(specs []ColumnSpec, totalWidth int) []table.Column {
	if totalWidth < 50 {
		totalWidth = 50
	}

	// each column is rendered with one cell of padding on both sides
	totalWidth -= 2 * len(specs)

	fixedTotal := 0
	flexTotal := 0
	for _, s := range specs {
		if s.FixedWidth > 0 {
			fixedTotal += s.FixedWidth
		} else {
			flexTotal += s.FlexRatio
		}
	}

	remaining := totalWidth - fixedTotal
	if remaining < 0 {
		remaining = 0
	}

	columns := make([]table.Column, len(specs))
	for i, s := range specs {
		var width int
		if s.FixedWidth > 0 {
			width = s.FixedWidth
		} else if flexTotal > 0 {
			width = remaining * s.FlexRatio / flexTotal
		}

		if s.MinWidth > 0 && width < s.MinWidth {
			width = s.MinWidth
		}

		columns[i] = table.Column{Title: s.Title, Width: width}
	}

	return columns
}

// HistoryColumns returns column specs for the screenshot history table.
func HistoryColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "URL", FlexRatio: 55, MinWidth: 20},
		{Title: "File", FlexRatio: 45, MinWidth: 16},
		{Title: "Browser", FixedWidth: 8},
		{Title: "Size", FixedWidth: 9},
		{Title: "Status", FixedWidth: 10},
		{Title: "Taken", FixedWidth: 16},
	}
}

// BrowserColumns returns column specs for the browser availability tab.
func BrowserColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "Browser", FixedWidth: 10},
		{Title: "Version", FixedWidth: 16},
		{Title: "State", FixedWidth: 12},
		{Title: "Detail", FlexRatio: 100, MinWidth: 10},
	}
}

// DomainColumns returns column specs for the captured domains tab.
func DomainColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "#", FixedWidth: 4},
		{Title: "Domain", FlexRatio: 100, MinWidth: 20},
	}
}

// DownloadColumns returns column specs for the local downloads tab.
func DownloadColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "Saved", FixedWidth: 16},
		{Title: "Size", FixedWidth: 9},
		{Title: "Location", FlexRatio: 55, MinWidth: 16},
		{Title: "URL", FlexRatio: 45, MinWidth: 16},
	}
}
