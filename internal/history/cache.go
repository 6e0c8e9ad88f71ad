package history

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/shotpro/internal/api"
	"github.com/thesavant42/shotpro/internal/models"
)

// DefaultLimit is the page size the history views load
const DefaultLimit = 50

// Backend is the part of the API client the cache needs
type Backend interface {
	History(ctx context.Context, q api.HistoryQuery) (*models.HistoryPage, error)
	DeleteHistoryItem(ctx context.Context, id string) error
	ClearHistory(ctx context.Context) error
}

// StatusClass is how a history entry is presented
type StatusClass int

const (
	ClassCompleted StatusClass = iota
	ClassFailed
	ClassPending
)

func (c StatusClass) String() string {
	switch c {
	case ClassCompleted:
		return "completed"
	case ClassFailed:
		return "failed"
	case ClassPending:
		return "pending"
	}
	return "unknown"
}

// Classify maps a backend status to its display class.
// Any value outside the three known statuses is a data error.
func Classify(status models.Status) (StatusClass, error) {
	switch status {
	case models.StatusCompleted:
		return ClassCompleted, nil
	case models.StatusFailed:
		return ClassFailed, nil
	case models.StatusPending:
		return ClassPending, nil
	}
	return 0, &api.DataError{What: fmt.Sprintf("unrecognized history status %q", status)}
}

// Counts is the per-status summary of the loaded entries
type Counts struct {
	Total     int
	Completed int
	Failed    int
	Pending   int
	Unknown   int
}

// Cache mirrors the server history and filters it locally
type Cache struct {
	backend Backend
	logger  *log.Logger

	mu      sync.Mutex
	entries []models.Screenshot
	total   int
}

// New creates an empty cache
func New(backend Backend, logger *log.Logger) *Cache {
	return &Cache{backend: backend, logger: logger}
}

// Load replaces the local list with the newest limit entries
func (c *Cache) Load(ctx context.Context, limit int) error {
	return c.LoadQuery(ctx, api.HistoryQuery{Limit: limit})
}

// LoadQuery replaces the local list with the page q selects. On error the
// previous list is kept.
func (c *Cache) LoadQuery(ctx context.Context, q api.HistoryQuery) error {
	page, err := c.backend.History(ctx, q)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to load history", "error", err)
		}
		return fmt.Errorf("failed to load history: %w", err)
	}

	for _, entry := range page.Screenshots {
		if _, err := Classify(entry.Status); err != nil && c.logger != nil {
			c.logger.Warn("Backend sent bad history entry", "id", entry.ID, "error", err)
		}
	}

	c.mu.Lock()
	c.entries = page.Screenshots
	c.total = page.Total
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Debug("History loaded", "count", len(page.Screenshots), "total", page.Total)
	}
	return nil
}

// Entries returns a copy of the loaded list
func (c *Cache) Entries() []models.Screenshot {
	return c.Filter("")
}

// Total is the server-side count reported by the last load
func (c *Cache) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Filter returns the entries whose url, filename or browser contains query,
// ignoring case. The cache itself is not modified.
func (c *Cache) Filter(query string) []models.Screenshot {
	needle := strings.ToLower(strings.TrimSpace(query))

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Screenshot, 0, len(c.entries))
	for _, e := range c.entries {
		if needle == "" ||
			strings.Contains(strings.ToLower(e.URL), needle) ||
			strings.Contains(strings.ToLower(e.Filename), needle) ||
			strings.Contains(strings.ToLower(e.Browser), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Delete removes id on the server and then locally. A failed call leaves the list as is.
func (c *Cache) Delete(ctx context.Context, id string) error {
	if err := c.backend.DeleteHistoryItem(ctx, id); err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to delete history item", "id", id, "error", err)
		}
		return fmt.Errorf("failed to delete %s: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.entries[:0:0]
	for _, e := range c.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if removed := len(c.entries) - len(kept); removed > 0 && c.total >= removed {
		c.total -= removed
	}
	c.entries = kept
	return nil
}

// Clear empties the server history and then the local list
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.backend.ClearHistory(ctx); err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to clear history", "error", err)
		}
		return fmt.Errorf("failed to clear history: %w", err)
	}

	c.mu.Lock()
	c.entries = nil
	c.total = 0
	c.mu.Unlock()
	return nil
}

// Counts summarizes the loaded entries by status
func (c *Cache) Counts() Counts {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n Counts
	for _, e := range c.entries {
		n.Total++
		class, err := Classify(e.Status)
		if err != nil {
			n.Unknown++
			continue
		}
		switch class {
		case ClassCompleted:
			n.Completed++
		case ClassFailed:
			n.Failed++
		case ClassPending:
			n.Pending++
		}
	}
	return n
}
