package models

import "time"

// DownloadRecord is a locally materialized screenshot file
type DownloadRecord struct {
	ID           int64
	ScreenshotID string
	URL          string
	Location     string // file path or bucket/object key
	SizeBytes    int64
	SavedAt      time.Time
}
