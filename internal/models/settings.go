package models

// Geolocation overrides the browser's reported position
type Geolocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Settings is the single server-owned capture configuration
type Settings struct {
	Browser           string       `json:"browser"`
	Width             int          `json:"window_width"`
	Height            int          `json:"window_height"`
	FullPage          bool         `json:"full_page"`
	Delay             int          `json:"delay"`
	DarkMode          bool         `json:"dark_mode"`
	UserAgent         string       `json:"user_agent"`
	Headless          bool         `json:"headless"`
	JavaScriptEnabled bool         `json:"javascript_enabled"`
	ImagesEnabled     bool         `json:"images_enabled"`
	BlockAds          bool         `json:"block_ads"`
	Language          string       `json:"language,omitempty"`
	Timezone          string       `json:"timezone,omitempty"`
	Geolocation       *Geolocation `json:"geolocation,omitempty"`
}

// DefaultSettings mirrors the defaults the backend resets to
func DefaultSettings() Settings {
	return Settings{
		Browser:           "chrome",
		Width:             1920,
		Height:            1080,
		FullPage:          true,
		Delay:             0,
		DarkMode:          false,
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		Headless:          true,
		JavaScriptEnabled: true,
		ImagesEnabled:     true,
		BlockAds:          false,
	}
}

// SettingsEnvelope wraps settings in GET/POST /api/settings responses
type SettingsEnvelope struct {
	Settings Settings `json:"settings"`
	Message  string   `json:"message,omitempty"`
}
