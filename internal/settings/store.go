package settings

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/shotpro/internal/api"
	"github.com/thesavant42/shotpro/internal/models"
)

// Backend is the part of the API client the store needs
type Backend interface {
	Settings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, s models.Settings) (*models.Settings, error)
	ResetSettings(ctx context.Context) (*models.Settings, error)
}

// Fields lists the names accepted by Set, in display order
var Fields = []string{
	"browser", "window_width", "window_height", "full_page", "delay", "dark_mode",
	"user_agent", "headless", "javascript_enabled", "images_enabled", "block_ads",
	"language", "timezone", "latitude", "longitude",
}

// Store holds the local copy of the server settings and tracks unsaved edits
type Store struct {
	backend Backend
	logger  *log.Logger

	mu      sync.Mutex
	current models.Settings
	dirty   bool
}

// New creates a store seeded with the backend defaults until Load succeeds
func New(backend Backend, logger *log.Logger) *Store {
	return &Store{backend: backend, logger: logger, current: models.DefaultSettings()}
}

// Load replaces the local copy with the server's and clears the dirty flag.
// On error the local copy is left untouched.
func (s *Store) Load(ctx context.Context) error {
	remote, err := s.backend.Settings(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("Failed to load settings", "error", err)
		}
		return fmt.Errorf("failed to load settings: %w", err)
	}
	s.replace(*remote)
	return nil
}

// Current returns a copy of the local settings
func (s *Store) Current() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.current
	if out.Geolocation != nil {
		geo := *out.Geolocation
		out.Geolocation = &geo
	}
	return out
}

// Dirty reports whether there are edits not yet saved
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Update applies fn to the local copy and marks the store dirty, even when fn
// changes nothing.
func (s *Store) Update(fn func(*models.Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.current)
	s.dirty = true
}

// Set parses value for the named field and applies it through Update.
// A value that does not parse or is out of range is rejected and nothing is marked dirty.
func (s *Store) Set(field, value string) error {
	apply, err := parseField(field, strings.TrimSpace(value))
	if err != nil {
		return err
	}
	s.Update(apply)
	return nil
}

// Save sends the full local copy. Success adopts the server's echo and clears
// dirty; failure keeps the edits and the flag.
func (s *Store) Save(ctx context.Context) error {
	saved, err := s.backend.UpdateSettings(ctx, s.Current())
	if err != nil {
		if s.logger != nil {
			s.logger.Error("Failed to save settings", "error", err)
		}
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.replace(*saved)
	if s.logger != nil {
		s.logger.Info("Settings saved")
	}
	return nil
}

// Reset restores the server defaults locally and clears dirty
func (s *Store) Reset(ctx context.Context) error {
	defaults, err := s.backend.ResetSettings(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("Failed to reset settings", "error", err)
		}
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	s.replace(*defaults)
	return nil
}

func (s *Store) replace(next models.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
	s.dirty = false
}

func parseField(field, value string) (func(*models.Settings), error) {
	switch field {
	case "browser":
		if !slices.Contains(models.Browsers, value) {
			return nil, &api.ValidationError{Field: field, Message: "unsupported browser " + strconv.Quote(value)}
		}
		return func(m *models.Settings) { m.Browser = value }, nil
	case "window_width":
		n, err := parseInt(field, value, models.MinWidth, models.MaxWidth)
		if err != nil {
			return nil, err
		}
		return func(m *models.Settings) { m.Width = n }, nil
	case "window_height":
		n, err := parseInt(field, value, models.MinHeight, models.MaxHeight)
		if err != nil {
			return nil, err
		}
		return func(m *models.Settings) { m.Height = n }, nil
	case "delay":
		n, err := parseInt(field, value, models.MinDelay, models.MaxDelay)
		if err != nil {
			return nil, err
		}
		return func(m *models.Settings) { m.Delay = n }, nil
	case "full_page", "dark_mode", "headless", "javascript_enabled", "images_enabled", "block_ads":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, &api.ValidationError{Field: field, Message: "expected true or false"}
		}
		return func(m *models.Settings) { *boolField(m, field) = b }, nil
	case "user_agent":
		return func(m *models.Settings) { m.UserAgent = value }, nil
	case "language":
		return func(m *models.Settings) { m.Language = value }, nil
	case "timezone":
		return func(m *models.Settings) { m.Timezone = value }, nil
	case "latitude", "longitude":
		if value == "" {
			return func(m *models.Settings) { m.Geolocation = nil }, nil
		}
		limit := 90.0
		if field == "longitude" {
			limit = 180
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < -limit || f > limit {
			return nil, &api.ValidationError{Field: field, Message: fmt.Sprintf("expected a number between %g and %g", -limit, limit)}
		}
		return func(m *models.Settings) {
			geo := models.Geolocation{}
			if m.Geolocation != nil {
				geo = *m.Geolocation
			}
			if field == "latitude" {
				geo.Latitude = f
			} else {
				geo.Longitude = f
			}
			m.Geolocation = &geo
		}, nil
	}
	return nil, &api.ValidationError{Field: field, Message: "unknown setting"}
}

func parseInt(field, value string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &api.ValidationError{Field: field, Message: "expected a whole number"}
	}
	if n < lo || n > hi {
		return 0, &api.ValidationError{Field: field, Message: fmt.Sprintf("must be between %d and %d", lo, hi)}
	}
	return n, nil
}

func boolField(m *models.Settings, field string) *bool {
	switch field {
	case "full_page":
		return &m.FullPage
	case "dark_mode":
		return &m.DarkMode
	case "headless":
		return &m.Headless
	case "javascript_enabled":
		return &m.JavaScriptEnabled
	case "images_enabled":
		return &m.ImagesEnabled
	}
	return &m.BlockAds
}
