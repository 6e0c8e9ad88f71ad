// Package fakeapi is an in-memory implementation of the screenshot backend's
// HTTP contract. It renders placeholder images instead of driving a browser.
package fakeapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/thesavant42/shotpro/internal/models"
)

// Failure is an injected error response for the next capture
type Failure struct {
	Status int
	Detail string
}

// Server holds backend state behind a gin router
type Server struct {
	router *gin.Engine
	logger *log.Logger

	mu            sync.Mutex
	history       []models.Screenshot
	images        map[string][]byte
	pollsLeft     map[string]int
	pendingFormat map[string]string
	settings      models.Settings
	browsers      []models.BrowserInfo
	failNext      *Failure
	asyncPolls    int
	now           func() time.Time
	requests      map[string]int
}

// Config tunes fake behaviour
type Config struct {
	Logger *log.Logger
	// AsyncPolls is how many status checks an async capture stays pending for
	AsyncPolls int
	Now        func() time.Time
}

// New builds a server with default settings and an empty history
func New(cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Server{
		router:        router,
		logger:        cfg.Logger,
		images:        make(map[string][]byte),
		pollsLeft:     make(map[string]int),
		pendingFormat: make(map[string]string),
		settings:      models.DefaultSettings(),
		asyncPolls:    cfg.AsyncPolls,
		now:           cfg.Now,
		requests:      make(map[string]int),
		browsers: []models.BrowserInfo{
			{Name: "chrome", Version: "124.0.6367.91", Available: true},
			{Name: "firefox", Version: "125.0.2", Available: true},
			{Name: "edge", Version: "", Available: false, Error: "msedgedriver not found"},
		},
	}

	router.Use(s.countRequests())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.root)
	s.router.GET("/health", s.healthCheck)

	api := s.router.Group("/api")
	{
		api.POST("/screenshot", s.createScreenshot)
		api.POST("/screenshot/async", s.createScreenshotAsync)
		api.GET("/screenshot/:id/status", s.screenshotStatus)
		api.GET("/screenshot/:id/preview", s.previewScreenshot)
		api.GET("/screenshot/:id/download", s.downloadScreenshot)

		api.GET("/history", s.listHistory)
		api.DELETE("/history", s.clearHistory)
		api.DELETE("/history/:id", s.deleteHistoryItem)

		api.GET("/settings", s.getSettings)
		api.POST("/settings", s.updateSettings)
		api.POST("/settings/reset", s.resetSettings)

		api.GET("/browsers", s.listBrowsers)
		api.GET("/stats", s.stats)
	}
}

// Handler exposes the router for httptest servers
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until the listener fails
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// FailNextCapture makes the next capture request answer with f
func (s *Server) FailNextCapture(f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = &f
}

// Seed appends records to history, e.g. to exercise listing in tests
func (s *Server) Seed(shots ...models.Screenshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, shots...)
}

// Requests returns how many requests hit "METHOD /route/pattern"
func (s *Server) Requests(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[route]
}

// CurrentSettings returns a copy of the stored settings
func (s *Server) CurrentSettings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Server) countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests[c.Request.Method+" "+c.FullPath()]++
		s.mu.Unlock()
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Browser Screenshot Pro API (fake)"})
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.Health{Status: "healthy", Timestamp: s.now().Format(time.RFC3339)})
}
