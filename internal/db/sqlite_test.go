package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/thesavant42/shotpro/internal/models"
	"github.com/thesavant42/shotpro/internal/recent"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "state", "shotpro.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetSet(t *testing.T) {
	db := openTemp(t)

	got, err := db.Get("missing")
	if err != nil || got != "" {
		t.Errorf("Get(missing) = %q, %v; want empty", got, err)
	}

	if err := db.Set("k", "one"); err != nil {
		t.Fatal(err)
	}
	if err := db.Set("k", "two"); err != nil {
		t.Fatal(err)
	}
	if got, _ := db.Get("k"); got != "two" {
		t.Errorf("Get(k) = %q, want two", got)
	}
}

func TestRecentListPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shotpro.db")

	first, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	list := recent.New(first, nil)
	for _, u := range []string{"https://a.example", "https://b.example", "https://a.example"} {
		if err := list.Push(u); err != nil {
			t.Fatalf("Push() error = %v", err)
		}
	}
	first.Close()

	second, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	reloaded := recent.New(second, nil)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	items := reloaded.Items()
	if len(items) != 2 || items[0] != "https://a.example" || items[1] != "https://b.example" {
		t.Errorf("Items() = %v", items)
	}
}

func TestDownloads(t *testing.T) {
	db := openTemp(t)
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	records := []models.DownloadRecord{
		{ScreenshotID: "s1", URL: "https://a.example", Location: "/tmp/a.png", SizeBytes: 10, SavedAt: base},
		{ScreenshotID: "s2", URL: "https://b.example", Location: "s3://shots/b.png", SizeBytes: 20, SavedAt: base.Add(500 * time.Millisecond)},
		{ScreenshotID: "s1", URL: "https://a.example", Location: "/tmp/a-copy.png", SizeBytes: 10, SavedAt: base.Add(2 * time.Second)},
	}
	for i := range records {
		if err := db.InsertDownload(&records[i]); err != nil {
			t.Fatalf("InsertDownload() error = %v", err)
		}
		if records[i].ID == 0 {
			t.Errorf("InsertDownload() did not set ID")
		}
	}

	list, err := db.ListDownloads(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("ListDownloads() len = %d", len(list))
	}
	if list[0].Location != "/tmp/a-copy.png" || list[2].Location != "/tmp/a.png" {
		t.Errorf("ListDownloads() order = %v, %v, %v", list[0].Location, list[1].Location, list[2].Location)
	}
	if !list[1].SavedAt.Equal(records[1].SavedAt) {
		t.Errorf("SavedAt = %v, want %v", list[1].SavedAt, records[1].SavedAt)
	}

	limited, _ := db.ListDownloads(1)
	if len(limited) != 1 {
		t.Errorf("ListDownloads(1) len = %d", len(limited))
	}

	forS1, err := db.DownloadsFor("s1")
	if err != nil || len(forS1) != 2 {
		t.Errorf("DownloadsFor(s1) = %v, %v", forS1, err)
	}
}
