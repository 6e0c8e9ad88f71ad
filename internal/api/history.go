package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/thesavant42/shotpro/internal/models"
)

// HistoryQuery selects a page of history. Zero values are left for the server to default.
type HistoryQuery struct {
	Limit  int
	Offset int
	Status models.Status
}

// Values renders the query string, omitting unset fields
func (q HistoryQuery) Values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	return v
}

// History lists stored screenshots, newest first
func (c *Client) History(ctx context.Context, q HistoryQuery) (*models.HistoryPage, error) {
	var page models.HistoryPage
	if err := c.do(ctx, http.MethodGet, "/api/history", q.Values(), nil, &page); err != nil {
		return nil, err
	}
	if page.Screenshots == nil {
		page.Screenshots = []models.Screenshot{}
	}
	return &page, nil
}

// DeleteHistoryItem removes one screenshot. Deleting an unknown id is not an error.
func (c *Client) DeleteHistoryItem(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, "/api/history/"+url.PathEscape(id), nil, nil, nil)
	if IsNotFound(err) {
		if c.logger != nil {
			c.logger.Debug("History item already gone", "id", id)
		}
		return nil
	}
	return err
}

// ClearHistory removes every screenshot. Clearing an empty history is not an error.
func (c *Client) ClearHistory(ctx context.Context) error {
	err := c.do(ctx, http.MethodDelete, "/api/history", nil, nil, nil)
	if IsNotFound(err) {
		return nil
	}
	return err
}
