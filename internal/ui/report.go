package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/thesavant42/shotpro/internal/history"
	"github.com/thesavant42/shotpro/internal/models"
)

// out is where reports are printed
var out io.Writer = os.Stdout

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Width(20)

	headerStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	borderLineStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)
)

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintln(out, SuccessStyle.Render(message))
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintln(out, ErrorStyle.Render("Error: "+message))
}

// PrintInfo prints a neutral status line
func PrintInfo(message string) {
	fmt.Fprintln(out, InfoStyle.Render(message))
}

func printField(label string, value any) {
	fmt.Fprintf(out, "%s %v\n", labelStyle.Render(label), value)
}

func printTitle(title string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, TitleStyle.Render(title))
}

// FormatBytes renders a byte count for humans
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// truncate shortens s to max runes with an ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

// PrintScreenshot prints one capture record
func PrintScreenshot(shot models.Screenshot) {
	printTitle("Screenshot " + shot.ID)
	printField("URL", shot.URL)
	printField("File", shot.Filename)
	printField("Browser", shot.Browser)
	printField("Viewport", fmt.Sprintf("%dx%d", shot.Width, shot.Height))
	printField("Full page", shot.FullPage)
	printField("Size", FormatBytes(shot.FileSize))
	printField("Taken", shot.Timestamp)
	status := string(shot.Status)
	if class, err := history.Classify(shot.Status); err == nil {
		status = StatusStyle(class).Render(status)
	}
	printField("Status", status)
	if shot.Error != "" {
		printField("Error", ErrorStyle.Render(shot.Error))
	}
}

// PrintHistory prints history entries as a plain table followed by counts
func PrintHistory(entries []models.Screenshot, counts history.Counts, total int) {
	if len(entries) == 0 {
		PrintInfo("No screenshots in history")
		return
	}

	widths := []int{36, 30, 8, 10, 10}
	line := strings.Repeat("─", 36+30+8+10+10+4*3+2)
	fmt.Fprintln(out, borderLineStyle.Render(line))
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf(" %-*s │ %-*s │ %-*s │ %-*s │ %-*s",
		widths[0], "URL", widths[1], "File", widths[2], "Browser", widths[3], "Size", widths[4], "Status")))
	fmt.Fprintln(out, borderLineStyle.Render(line))

	for _, e := range entries {
		status := string(e.Status)
		rendered := status
		if class, err := history.Classify(e.Status); err == nil {
			rendered = StatusStyle(class).Render(fmt.Sprintf("%-*s", widths[4], status))
		}
		fmt.Fprintf(out, " %-*s │ %-*s │ %-*s │ %-*s │ %s\n",
			widths[0], truncate(e.URL, widths[0]),
			widths[1], truncate(e.Filename, widths[1]),
			widths[2], e.Browser,
			widths[3], FormatBytes(e.FileSize),
			rendered)
	}
	fmt.Fprintln(out, borderLineStyle.Render(line))
	fmt.Fprintln(out, StatsStyle.Render(formatCounts(counts, total)))
}

func formatCounts(c history.Counts, total int) string {
	s := fmt.Sprintf("Showing %d of %d  •  %d completed  •  %d failed  •  %d pending",
		c.Total, total, c.Completed, c.Failed, c.Pending)
	if c.Unknown > 0 {
		s += fmt.Sprintf("  •  %d unrecognized", c.Unknown)
	}
	return s
}

// PrintSettings prints the settings record
func PrintSettings(s models.Settings, dirty bool) {
	title := "Settings"
	if dirty {
		title += AccentStyle.Render(" (unsaved changes)")
	}
	printTitle(title)
	printField("browser", s.Browser)
	printField("window_width", s.Width)
	printField("window_height", s.Height)
	printField("full_page", s.FullPage)
	printField("delay", s.Delay)
	printField("dark_mode", s.DarkMode)
	printField("user_agent", s.UserAgent)
	printField("headless", s.Headless)
	printField("javascript_enabled", s.JavaScriptEnabled)
	printField("images_enabled", s.ImagesEnabled)
	printField("block_ads", s.BlockAds)
	printField("language", orDash(s.Language))
	printField("timezone", orDash(s.Timezone))
	if s.Geolocation != nil {
		printField("geolocation", fmt.Sprintf("%.4f, %.4f", s.Geolocation.Latitude, s.Geolocation.Longitude))
	} else {
		printField("geolocation", "-")
	}
}

// PrintStats prints the backend aggregate counts
func PrintStats(st models.Stats) {
	printTitle("Statistics")
	printField("Screenshots", st.TotalScreenshots)
	printField("Completed", StatusStyle(history.ClassCompleted).Render(fmt.Sprint(st.Completed)))
	printField("Failed", StatusStyle(history.ClassFailed).Render(fmt.Sprint(st.Failed)))
	printField("Pending", StatusStyle(history.ClassPending).Render(fmt.Sprint(st.Pending)))
	printField("Storage", FormatBytes(st.TotalSizeBytes))
	printField("Unique domains", st.UniqueDomains)
	if len(st.Domains) > 0 {
		printField("Domains", strings.Join(st.Domains, ", "))
	}
}

// PrintBrowsers prints browser availability
func PrintBrowsers(browsers []models.BrowserInfo) {
	printTitle("Browsers")
	for _, b := range browsers {
		state := SuccessStyle.Render("available")
		if !b.Available {
			state = ErrorStyle.Render("unavailable")
			if b.Error != "" {
				state += HintStyle.Render(" (" + b.Error + ")")
			}
		}
		printField(b.Name, fmt.Sprintf("%-16s %s", orDash(b.Version), state))
	}
}

// PrintHealth prints the health probe result
func PrintHealth(baseURL string, h models.Health) {
	PrintSuccess(fmt.Sprintf("%s is %s (%s)", baseURL, h.Status, h.Timestamp))
}

// PrintRecent prints the recent URL list
func PrintRecent(urls []string) {
	if len(urls) == 0 {
		PrintInfo("No recent URLs")
		return
	}
	printTitle("Recent URLs")
	for i, u := range urls {
		fmt.Fprintf(out, "  %d. %s\n", i+1, u)
	}
}

// PrintDownloads prints the local download log
func PrintDownloads(records []models.DownloadRecord) {
	if len(records) == 0 {
		PrintInfo("No downloads recorded")
		return
	}
	printTitle("Downloads")
	for _, r := range records {
		fmt.Fprintf(out, "  %s  %-9s %s %s\n",
			r.SavedAt.Local().Format("2006-01-02 15:04"),
			FormatBytes(r.SizeBytes),
			r.Location,
			HintStyle.Render(r.URL))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
