package recent

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

const (
	// MaxItems is how many URLs the list keeps
	MaxItems = 5
	// StorageKey is the key the list is persisted under
	StorageKey = "recent_urls"
)

// Storage is a string key/value store. Get returns "" for a missing key.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// List is the bounded most-recent-first list of submitted URLs
type List struct {
	mu      sync.Mutex
	storage Storage
	logger  *log.Logger
	items   []string
}

// New creates an empty list backed by storage. Call Load to read persisted items.
func New(storage Storage, logger *log.Logger) *List {
	return &List{storage: storage, logger: logger}
}

// Load reads the persisted list. A missing or unreadable value leaves the list empty.
func (l *List) Load() error {
	raw, err := l.storage.Get(StorageKey)
	if err != nil {
		return fmt.Errorf("failed to read recent urls: %w", err)
	}

	var items []string
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			if l.logger != nil {
				l.logger.Warn("Discarding corrupt recent urls", "error", err)
			}
			items = nil
		}
	}
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}

	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	return nil
}

// Push moves url to the front, dropping any older copy and anything past MaxItems,
// then persists the list.
func (l *List) Push(url string) error {
	if url == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]string, 0, MaxItems)
	next = append(next, url)
	for _, existing := range l.items {
		if existing == url {
			continue
		}
		if len(next) == MaxItems {
			break
		}
		next = append(next, existing)
	}
	l.items = next

	// written under the lock so storage always matches items
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode recent urls: %w", err)
	}
	if err := l.storage.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to save recent urls: %w", err)
	}
	return nil
}

// Items returns a copy of the list, most recent first
func (l *List) Items() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}

// MemoryStorage is an in-process Storage. The zero value is ready to use.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStorage creates an empty MemoryStorage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}
