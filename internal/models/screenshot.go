package models

// Status is the lifecycle state of a screenshot record on the backend
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is one of the three statuses the backend emits
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Supported browser engines
var Browsers = []string{"chrome", "firefox", "edge", "safari"}

// Supported image formats
var Formats = []string{"png", "jpeg", "webp"}

// Viewport and option bounds accepted by the backend
const (
	MinWidth   = 320
	MaxWidth   = 7680
	MinHeight  = 240
	MaxHeight  = 4320
	MinDelay   = 0
	MaxDelay   = 10
	MinQuality = 0
	MaxQuality = 100
)

// CaptureRequest is the body of POST /api/screenshot and /api/screenshot/async
type CaptureRequest struct {
	URL           string   `json:"url"`
	Browser       string   `json:"browser,omitempty"`
	Width         int      `json:"window_width"`
	Height        int      `json:"window_height"`
	FullPage      bool     `json:"full_page"`
	Delay         int      `json:"delay"`
	DarkMode      bool     `json:"dark_mode"`
	Format        string   `json:"format,omitempty"`
	Quality       *int     `json:"quality,omitempty"` // only set for lossy formats
	UserAgent     string   `json:"user_agent,omitempty"`
	HideSelectors []string `json:"hide_selectors,omitempty"`
	WaitSelector  string   `json:"wait_selector,omitempty"`
	Selector      string   `json:"selector,omitempty"`
	CustomName    string   `json:"custom_name,omitempty"`
}

// DefaultCaptureRequest returns the values the capture form starts with
func DefaultCaptureRequest() CaptureRequest {
	return CaptureRequest{
		Browser:  "chrome",
		Width:    1920,
		Height:   1080,
		FullPage: true,
		Delay:    0,
		DarkMode: false,
		Format:   "png",
	}
}

// Screenshot is a capture record as stored and returned by the backend.
// History entries use the same shape.
type Screenshot struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Filename  string `json:"filename"`
	Filepath  string `json:"filepath,omitempty"`
	Browser   string `json:"browser"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	FullPage  bool   `json:"full_page"`
	Timestamp string `json:"timestamp"`
	FileSize  int64  `json:"file_size"`
	Status    Status `json:"status"`
	Error     string `json:"error,omitempty"`
}

// CaptureSuccess is the populated half of a successful CaptureResult
type CaptureSuccess struct {
	Screenshot Screenshot
	Image      []byte // decoded preview payload
	MimeType   string // as reported by the preview, may be empty
}

// CaptureFailure is the populated half of a failed CaptureResult
type CaptureFailure struct {
	Message string
}

// CaptureResult holds exactly one of Success or Failure
type CaptureResult struct {
	Success *CaptureSuccess
	Failure *CaptureFailure
}

// Succeeded returns a result carrying only the success variant
func Succeeded(shot Screenshot, image []byte) CaptureResult {
	return CaptureResult{Success: &CaptureSuccess{Screenshot: shot, Image: image}}
}

// Failed returns a result carrying only the failure variant
func Failed(message string) CaptureResult {
	return CaptureResult{Failure: &CaptureFailure{Message: message}}
}

// AsyncJob is the response of POST /api/screenshot/async
type AsyncJob struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Status      Status `json:"status"`
	CheckStatus string `json:"check_status"`
}

// Preview is the response of GET /api/screenshot/{id}/preview
type Preview struct {
	ID       string `json:"id"`
	Image    string `json:"image"` // data URL or bare base64
	MimeType string `json:"-"`     // from the data URL, empty otherwise
	Filename string `json:"filename"`
}

// HistoryPage is the response of GET /api/history
type HistoryPage struct {
	Total       int          `json:"total"`
	Limit       int          `json:"limit"`
	Offset      int          `json:"offset"`
	Screenshots []Screenshot `json:"screenshots"`
}

// BrowserInfo describes one engine the backend can drive
type BrowserInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// Stats is the response of GET /api/stats
type Stats struct {
	TotalScreenshots int      `json:"total_screenshots"`
	Completed        int      `json:"completed"`
	Failed           int      `json:"failed"`
	Pending          int      `json:"pending"`
	TotalSizeBytes   int64    `json:"total_size_bytes"`
	TotalSizeMB      float64  `json:"total_size_mb"`
	UniqueDomains    int      `json:"unique_domains"`
	Domains          []string `json:"domains"`
}

// Health is the response of GET /health
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ViewportPreset is a named width/height pair offered by the capture form
type ViewportPreset struct {
	Name   string
	Width  int
	Height int
}

// ViewportPresets lists the presets in display order
var ViewportPresets = []ViewportPreset{
	{Name: "Desktop HD", Width: 1920, Height: 1080},
	{Name: "Desktop", Width: 1366, Height: 768},
	{Name: "Tablet", Width: 768, Height: 1024},
	{Name: "Mobile", Width: 375, Height: 667},
}
