package api

import (
	"context"
	"net/http"

	"github.com/thesavant42/shotpro/internal/models"
)

// Settings fetches the server's capture configuration
func (c *Client) Settings(ctx context.Context) (*models.Settings, error) {
	var env models.SettingsEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.Settings, nil
}

// UpdateSettings sends s for a partial merge and returns what the server stored
func (c *Client) UpdateSettings(ctx context.Context, s models.Settings) (*models.Settings, error) {
	var env models.SettingsEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/settings", nil, s, &env); err != nil {
		return nil, err
	}
	return &env.Settings, nil
}

// ResetSettings restores server defaults and returns them
func (c *Client) ResetSettings(ctx context.Context) (*models.Settings, error) {
	var env models.SettingsEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/settings/reset", nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.Settings, nil
}
