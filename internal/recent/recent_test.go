package recent

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestPushOrderAndDedup(t *testing.T) {
	tests := []struct {
		name   string
		pushes []string
		want   []string
	}{
		{"single", []string{"a"}, []string{"a"}},
		{"resubmit moves to front", []string{"a", "b", "c", "a"}, []string{"a", "c", "b"}},
		{"same twice", []string{"a", "a"}, []string{"a"}},
		{"cap at five", []string{"1", "2", "3", "4", "5", "6"}, []string{"6", "5", "4", "3", "2"}},
		{"resubmit oldest at cap", []string{"1", "2", "3", "4", "5", "1"}, []string{"1", "5", "4", "3", "2"}},
		{"empty ignored", []string{"a", ""}, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(NewMemoryStorage(), nil)
			for _, u := range tt.pushes {
				if err := l.Push(u); err != nil {
					t.Fatalf("Push(%q) error = %v", u, err)
				}
			}
			if got := l.Items(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Items() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNeverExceedsCap(t *testing.T) {
	l := New(NewMemoryStorage(), nil)
	for i := 0; i < 50; i++ {
		if err := l.Push(fmt.Sprintf("https://site%d.example", i%8)); err != nil {
			t.Fatal(err)
		}
		items := l.Items()
		if len(items) > MaxItems {
			t.Fatalf("after %d pushes len = %d", i+1, len(items))
		}
		seen := map[string]bool{}
		for _, u := range items {
			if seen[u] {
				t.Fatalf("duplicate %q in %v", u, items)
			}
			seen[u] = true
		}
	}
}

func TestLoadRoundTrip(t *testing.T) {
	store := NewMemoryStorage()
	first := New(store, nil)
	for _, u := range []string{"https://a.example", "https://b.example"} {
		if err := first.Push(u); err != nil {
			t.Fatal(err)
		}
	}

	second := New(store, nil)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"https://b.example", "https://a.example"}
	if got := second.Items(); !reflect.DeepEqual(got, want) {
		t.Errorf("Items() = %v, want %v", got, want)
	}
}

func TestLoadCorruptValueIsEmpty(t *testing.T) {
	store := NewMemoryStorage()
	_ = store.Set(StorageKey, "{not json")

	l := New(store, nil)
	if err := l.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := l.Items(); len(got) != 0 {
		t.Errorf("Items() = %v, want empty", got)
	}
}

type failingStorage struct{}

func (failingStorage) Get(string) (string, error) { return "", errors.New("disk gone") }
func (failingStorage) Set(string, string) error   { return errors.New("disk gone") }

func TestStorageErrorsSurface(t *testing.T) {
	l := New(failingStorage{}, nil)
	if err := l.Load(); err == nil {
		t.Error("Load() error = nil, want storage error")
	}
	if err := l.Push("https://a.example"); err == nil {
		t.Error("Push() error = nil, want storage error")
	}
	// in-memory state still reflects the push
	if got := l.Items(); len(got) != 1 {
		t.Errorf("Items() = %v", got)
	}
}

func TestZeroMemoryStorage(t *testing.T) {
	var m MemoryStorage
	if got, err := m.Get(StorageKey); err != nil || got != "" {
		t.Errorf("Get() on zero value = %q, %v", got, err)
	}
	if err := m.Set(StorageKey, `["a"]`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, _ := m.Get(StorageKey); got != `["a"]` {
		t.Errorf("Get() = %q", got)
	}
}

// slowStorage delays every write so concurrent pushes overlap
type slowStorage struct {
	MemoryStorage
}

func (s *slowStorage) Set(key, value string) error {
	time.Sleep(time.Millisecond)
	return s.MemoryStorage.Set(key, value)
}

func TestConcurrentPushesPersistNewestList(t *testing.T) {
	storage := &slowStorage{}
	l := New(storage, nil)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Push(fmt.Sprintf("https://%d.example", i))
		}()
	}
	wg.Wait()

	raw, _ := storage.Get(StorageKey)
	var stored []string
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("stored value %q: %v", raw, err)
	}
	if !reflect.DeepEqual(stored, l.Items()) {
		t.Errorf("stored %v, in memory %v", stored, l.Items())
	}
}
