package fakeapi

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thesavant42/shotpro/internal/models"
)

func (s *Server) createScreenshot(c *gin.Context) {
	req, ok := bindCapture(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shot := s.newRecordLocked(req)
	if f := s.failNext; f != nil {
		s.failNext = nil
		shot.Status = models.StatusFailed
		shot.Error = f.Detail
		s.history = append(s.history, shot)
		if s.logger != nil {
			s.logger.Warn("Injected capture failure", "url", req.URL, "status", f.Status)
		}
		c.JSON(f.Status, gin.H{"detail": f.Detail})
		return
	}

	s.completeLocked(&shot, req)
	s.history = append(s.history, shot)
	c.JSON(http.StatusOK, shot)
}

func (s *Server) createScreenshotAsync(c *gin.Context) {
	req, ok := bindCapture(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shot := s.newRecordLocked(req)
	shot.Status = models.StatusPending
	s.history = append(s.history, shot)
	// completion happens lazily on status checks
	s.pollsLeft[shot.ID] = s.asyncPolls
	s.pendingFormat[shot.ID] = req.Format

	c.JSON(http.StatusOK, models.AsyncJob{
		ID:          shot.ID,
		Message:     "Screenshot task queued",
		Status:      models.StatusPending,
		CheckStatus: "/api/screenshot/" + shot.ID + "/status",
	})
}

func (s *Server) screenshotStatus(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Screenshot not found"})
		return
	}

	shot := &s.history[i]
	if shot.Status == models.StatusPending {
		if s.pollsLeft[id] > 0 {
			s.pollsLeft[id]--
		} else {
			format := s.pendingFormat[id]
			delete(s.pendingFormat, id)
			delete(s.pollsLeft, id)
			s.completeLocked(shot, models.CaptureRequest{
				Width:  shot.Width,
				Height: shot.Height,
				Format: format,
			})
		}
	}
	c.JSON(http.StatusOK, shot)
}

func (s *Server) previewScreenshot(c *gin.Context) {
	shot, data, ok := s.completed(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.Preview{
		ID:       shot.ID,
		Image:    "data:" + contentType(shot.Filename) + ";base64," + base64.StdEncoding.EncodeToString(data),
		Filename: shot.Filename,
	})
}

func (s *Server) downloadScreenshot(c *gin.Context) {
	shot, data, ok := s.completed(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", shot.Filename))
	c.Data(http.StatusOK, contentType(shot.Filename), data)
}

func (s *Server) stats(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st models.Stats
	domains := map[string]bool{}
	for _, shot := range s.history {
		st.TotalScreenshots++
		switch shot.Status {
		case models.StatusCompleted:
			st.Completed++
			st.TotalSizeBytes += shot.FileSize
		case models.StatusFailed:
			st.Failed++
		case models.StatusPending:
			st.Pending++
		}
		if shot.URL != "" {
			domains[hostOf(shot.URL)] = true
		}
	}
	st.TotalSizeMB = float64(st.TotalSizeBytes*100/(1024*1024)) / 100
	st.UniqueDomains = len(domains)
	st.Domains = make([]string, 0, len(domains))
	for d := range domains {
		st.Domains = append(st.Domains, d)
	}
	sort.Strings(st.Domains)
	if len(st.Domains) > 10 {
		st.Domains = st.Domains[:10]
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) listBrowsers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"browsers": s.browsers})
}

// completed resolves :id to a finished capture or writes the error response
func (s *Server) completed(c *gin.Context) (models.Screenshot, []byte, bool) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Screenshot not found"})
		return models.Screenshot{}, nil, false
	}
	shot := s.history[i]
	data, ok := s.images[id]
	if shot.Status != models.StatusCompleted || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Screenshot not ready or failed"})
		return models.Screenshot{}, nil, false
	}
	return shot, data, true
}

func bindCapture(c *gin.Context) (models.CaptureRequest, bool) {
	req := models.DefaultCaptureRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": err.Error()}}})
		return req, false
	}
	if strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": "field required", "loc": []string{"body", "url"}}}})
		return req, false
	}
	return req, true
}

func (s *Server) newRecordLocked(req models.CaptureRequest) models.Screenshot {
	browser := req.Browser
	if browser == "" {
		browser = s.settings.Browser
	}
	ext := req.Format
	if ext == "" {
		ext = "png"
	}
	name := hostOf(req.URL) + "_" + s.now().Format("20060102_150405")
	if req.CustomName != "" {
		name = req.CustomName
	}
	id := uuid.NewString()
	return models.Screenshot{
		ID:        id,
		URL:       req.URL,
		Filename:  name + "." + ext,
		Filepath:  "screenshots/" + name + "." + ext,
		Browser:   browser,
		Width:     req.Width,
		Height:    req.Height,
		FullPage:  req.FullPage,
		Timestamp: s.now().Format("2006-01-02T15:04:05.000000"),
		Status:    models.StatusPending,
	}
}

func (s *Server) completeLocked(shot *models.Screenshot, req models.CaptureRequest) {
	data := renderPlaceholder(req.Width, req.Height, req.Format)
	s.images[shot.ID] = data
	shot.FileSize = int64(len(data))
	shot.Status = models.StatusCompleted
}

func (s *Server) indexLocked(id string) int {
	for i := range s.history {
		if s.history[i].ID == id {
			return i
		}
	}
	return -1
}

// renderPlaceholder draws a small solid image scaled down from the viewport
func renderPlaceholder(width, height int, format string) []byte {
	w, h := width/40, height/40
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill := color.RGBA{R: 0x88, G: 0x00, B: 0x00, A: 0xff}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if format == "jpeg" {
		_ = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80})
	} else {
		// webp has no stdlib encoder; the fake serves png bytes for it
		_ = png.Encode(&buf, img)
	}
	return buf.Bytes()
}

func hostOf(rawURL string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	return host
}

func contentType(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".jpeg"), strings.HasSuffix(filename, ".jpg"):
		return "image/jpeg"
	case strings.HasSuffix(filename, ".webp"):
		return "image/webp"
	}
	return "image/png"
}
