package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/thesavant42/shotpro/internal/models"
)

// SystemSource is the part of the API client the system page reads
type SystemSource interface {
	Browsers(ctx context.Context) ([]models.BrowserInfo, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

// DownloadLister lists the local download log
type DownloadLister interface {
	ListDownloads(limit int) ([]models.DownloadRecord, error)
}

// SystemPages builds the browsers, domains and downloads tabs
func SystemPages(browsers []models.BrowserInfo, stats models.Stats, downloads []models.DownloadRecord) []TabbedPage {
	browserRows := make([]table.Row, len(browsers))
	for i, b := range browsers {
		state := "available"
		if !b.Available {
			state = "unavailable"
		}
		browserRows[i] = table.Row{b.Name, orDash(b.Version), state, b.Error}
	}

	domainRows := make([]table.Row, len(stats.Domains))
	for i, d := range stats.Domains {
		domainRows[i] = table.Row{strconv.Itoa(i + 1), d}
	}

	downloadRows := make([]table.Row, len(downloads))
	for i, r := range downloads {
		downloadRows[i] = table.Row{r.SavedAt.Local().Format("2006-01-02 15:04"), FormatBytes(r.SizeBytes), r.Location, r.URL}
	}

	return []TabbedPage{
		{Name: "Browsers", Columns: BrowserColumns(), Rows: browserRows, Empty: "The backend reported no browsers"},
		{Name: "Domains", Columns: DomainColumns(), Rows: domainRows, Empty: "Nothing captured yet"},
		{Name: "Downloads", Columns: DownloadColumns(), Rows: downloadRows, Empty: "No screenshots saved from this machine"},
	}
}

// systemSummary is the one-line stats header of the system page
func systemSummary(st models.Stats) string {
	return fmt.Sprintf("%d screenshots • %d completed • %d failed • %d pending • %s stored",
		st.TotalScreenshots, st.Completed, st.Failed, st.Pending, FormatBytes(st.TotalSizeBytes))
}

// RunSystemPage loads backend and local state and shows it in tabs
func RunSystemPage(ctx context.Context, src SystemSource, downloads DownloadLister) error {
	var (
		browsers []models.BrowserInfo
		stats    *models.Stats
		records  []models.DownloadRecord
	)
	err := RunWithSpinner("Loading system overview...", func() error {
		var err error
		if browsers, err = src.Browsers(ctx); err != nil {
			return err
		}
		if stats, err = src.Stats(ctx); err != nil {
			return err
		}
		if downloads != nil {
			records, err = downloads.ListDownloads(50)
		}
		return err
	})
	if err != nil {
		return err
	}
	return RunTabbedTable("System", systemSummary(*stats), SystemPages(browsers, *stats, records))
}
