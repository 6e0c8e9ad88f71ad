package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thesavant42/shotpro/internal/history"
	"github.com/thesavant42/shotpro/internal/models"
)

// ExportHistoryMarkdown writes the history entries to a dated markdown file in dir
func ExportHistoryMarkdown(entries []models.Screenshot, counts history.Counts, total int, dir string, now time.Time) (string, error) {
	filename := filepath.Join(dir, fmt.Sprintf("shotpro-history-%s.md", now.Format("2006-01-02")))

	var sb strings.Builder
	sb.WriteString("# Screenshot History\n\n")
	fmt.Fprintf(&sb, "**Entries:** %d of %d\n", counts.Total, total)
	fmt.Fprintf(&sb, "**Completed:** %d  **Failed:** %d  **Pending:** %d\n", counts.Completed, counts.Failed, counts.Pending)
	fmt.Fprintf(&sb, "**Generated:** %s\n\n", now.Format("2006-01-02 15:04:05"))

	sb.WriteString("| # | URL | File | Browser | Viewport | Size | Status | Taken |\n")
	sb.WriteString("|---|-----|------|---------|----------|------|--------|-------|\n")
	for i, e := range entries {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %dx%d | %s | %s | %s |\n",
			i+1, mdCell(e.URL), mdCell(orDash(e.Filename)), e.Browser,
			e.Width, e.Height, FormatBytes(e.FileSize), e.Status, shortTimestamp(e.Timestamp))
	}

	if err := os.WriteFile(filename, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write markdown file: %w", err)
	}
	return filename, nil
}

// mdCell keeps a value from breaking the table row
func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ExportDatabaseBackup copies the local database into dir under a timestamped name
func ExportDatabaseBackup(dbPath, dir string, now time.Time) (string, error) {
	baseName := strings.TrimSuffix(filepath.Base(dbPath), filepath.Ext(dbPath))
	backup := filepath.Join(dir, fmt.Sprintf("%s-backup-%s.db", baseName, now.Format("2006-01-02-150405")))

	src, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(backup)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy database: %w", err)
	}
	return backup, nil
}
