package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thesavant42/shotpro/internal/models"
)

func (s *Server) listHistory(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	status := models.Status(c.Query("status"))
	if limit < 1 || limit > 100 || offset < 0 || (status != "" && !status.Valid()) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid query parameters"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]models.Screenshot, 0, len(s.history))
	for _, shot := range s.history {
		if status == "" || shot.Status == status {
			filtered = append(filtered, shot)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp > filtered[j].Timestamp
	})

	total := len(filtered)
	page := []models.Screenshot{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		page = filtered[offset:end]
	}

	c.JSON(http.StatusOK, models.HistoryPage{
		Total:       total,
		Limit:       limit,
		Offset:      offset,
		Screenshots: page,
	})
}

func (s *Server) deleteHistoryItem(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Screenshot not found"})
		return
	}
	s.history = append(s.history[:i], s.history[i+1:]...)
	delete(s.images, id)
	c.JSON(http.StatusOK, gin.H{"message": "Screenshot deleted successfully"})
}

func (s *Server) clearHistory(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.history)
	s.history = nil
	s.images = make(map[string][]byte)
	c.JSON(http.StatusOK, gin.H{"message": "History cleared", "deleted": n})
}

func (s *Server) getSettings(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, models.SettingsEnvelope{Settings: s.settings})
}

// updateSettings merges only the keys present in the body
func (s *Server) updateSettings(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "unreadable body"})
		return
	}
	var patch map[string]json.RawMessage
	if err := json.Unmarshal(body, &patch); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "body must be a JSON object"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, _ := json.Marshal(s.settings)
	var merged map[string]json.RawMessage
	_ = json.Unmarshal(current, &merged)
	for k, v := range patch {
		merged[k] = v
	}
	data, _ := json.Marshal(merged)

	next := s.settings
	if err := json.Unmarshal(data, &next); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	s.settings = next
	c.JSON(http.StatusOK, models.SettingsEnvelope{Settings: s.settings, Message: "Settings updated successfully"})
}

func (s *Server) resetSettings(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = models.DefaultSettings()
	c.JSON(http.StatusOK, models.SettingsEnvelope{Settings: s.settings, Message: "Settings reset to defaults"})
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}
