package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thesavant42/shotpro/internal/models"

	_ "modernc.org/sqlite"
)

// fixed width so saved_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps the SQLite database holding client-local state
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec(createStateTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create state schema: %w", err)
	}

	if _, err := conn.Exec(createDownloadsTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create downloads schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Get returns the stored value for key, or "" if none is stored
func (db *DB) Get(key string) (string, error) {
	var value string
	err := db.conn.QueryRow(selectState, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value
func (db *DB) Set(key, value string) error {
	if _, err := db.conn.Exec(upsertState, key, value, time.Now().UTC().Format(timeLayout)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// InsertDownload records a saved screenshot and sets rec.ID
func (db *DB) InsertDownload(rec *models.DownloadRecord) error {
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now()
	}
	res, err := db.conn.Exec(insertDownload,
		rec.ScreenshotID,
		rec.URL,
		rec.Location,
		rec.SizeBytes,
		rec.SavedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert download: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read download id: %w", err)
	}
	rec.ID = id
	return nil
}

// ListDownloads returns the most recent downloads, newest first
func (db *DB) ListDownloads(limit int) ([]models.DownloadRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(selectDownloads, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()
	return scanDownloads(rows)
}

// DownloadsFor returns every recorded download of one screenshot
func (db *DB) DownloadsFor(screenshotID string) ([]models.DownloadRecord, error) {
	rows, err := db.conn.Query(selectDownloadsForScreenshot, screenshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()
	return scanDownloads(rows)
}

func scanDownloads(rows *sql.Rows) ([]models.DownloadRecord, error) {
	var records []models.DownloadRecord
	for rows.Next() {
		var r models.DownloadRecord
		var savedAt string
		if err := rows.Scan(&r.ID, &r.ScreenshotID, &r.URL, &r.Location, &r.SizeBytes, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r.SavedAt, _ = time.Parse(timeLayout, savedAt)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read downloads: %w", err)
	}
	return records, nil
}
