package api

import (
	"context"
	"net/http"

	"github.com/thesavant42/shotpro/internal/models"
)

// Browsers lists the engines the backend can drive
func (c *Client) Browsers(ctx context.Context) ([]models.BrowserInfo, error) {
	var resp struct {
		Browsers []models.BrowserInfo `json:"browsers"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/browsers", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Browsers, nil
}

// Stats returns aggregate counts and sizes across history
func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Health checks that the backend is up
func (c *Client) Health(ctx context.Context) (*models.Health, error) {
	var h models.Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
