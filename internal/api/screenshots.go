package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/thesavant42/shotpro/internal/models"
	"golang.org/x/time/rate"
)

// DefaultPollInterval paces status checks for async captures
const DefaultPollInterval = time.Second

// Capture requests a synchronous screenshot and returns the stored record
func (c *Client) Capture(ctx context.Context, req models.CaptureRequest) (*models.Screenshot, error) {
	var shot models.Screenshot
	if err := c.do(ctx, http.MethodPost, "/api/screenshot", nil, req, &shot); err != nil {
		return nil, err
	}
	if shot.ID == "" {
		return nil, &DataError{What: "capture response has no id"}
	}
	return &shot, nil
}

// CaptureAsync queues a screenshot and returns the job handle
func (c *Client) CaptureAsync(ctx context.Context, req models.CaptureRequest) (*models.AsyncJob, error) {
	var job models.AsyncJob
	if err := c.do(ctx, http.MethodPost, "/api/screenshot/async", nil, req, &job); err != nil {
		return nil, err
	}
	if job.ID == "" {
		return nil, &DataError{What: "async capture response has no id"}
	}
	return &job, nil
}

// Status returns the current record for a screenshot id
func (c *Client) Status(ctx context.Context, id string) (*models.Screenshot, error) {
	var shot models.Screenshot
	if err := c.do(ctx, http.MethodGet, "/api/screenshot/"+url.PathEscape(id)+"/status", nil, nil, &shot); err != nil {
		return nil, err
	}
	if !shot.Status.Valid() {
		return nil, &DataError{What: fmt.Sprintf("unrecognized status %q", shot.Status)}
	}
	return &shot, nil
}

// Preview fetches the image of a completed screenshot and decodes it.
// The backend sends a data URL; bare base64 is accepted too.
func (c *Client) Preview(ctx context.Context, id string) (*models.Preview, []byte, error) {
	var preview models.Preview
	if err := c.do(ctx, http.MethodGet, "/api/screenshot/"+url.PathEscape(id)+"/preview", nil, nil, &preview); err != nil {
		return nil, nil, err
	}
	mime, image, err := DecodeImage(preview.Image)
	if err != nil {
		return nil, nil, err
	}
	preview.MimeType = mime
	return &preview, image, nil
}

// DecodeImage decodes a "data:<mime>;base64,<data>" URL or bare base64.
// mime is empty for bare input.
func DecodeImage(s string) (mime string, data []byte, err error) {
	payload := strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		header, body, found := strings.Cut(rest, ",")
		if !found {
			return "", nil, &DataError{What: "preview image data URL has no payload"}
		}
		mediaType, isBase64 := strings.CutSuffix(header, ";base64")
		if !isBase64 {
			return "", nil, &DataError{What: "preview image data URL is not base64 encoded"}
		}
		mime, payload = mediaType, body
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, &DataError{What: "preview image is not base64", Err: err}
	}
	return mime, data, nil
}

// Download streams the raw image bytes of a completed screenshot
func (c *Client) Download(ctx context.Context, id string) ([]byte, error) {
	path := "/api/screenshot/" + url.PathEscape(id) + "/download"
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "GET " + path, Err: err}
	}
	return data, nil
}

// WaitForCapture polls Status until the screenshot leaves pending.
// onPoll, if set, sees every intermediate record.
func (c *Client) WaitForCapture(ctx context.Context, id string, interval time.Duration, onPoll func(*models.Screenshot)) (*models.Screenshot, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	for attempt := 1; ; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{Op: "wait for " + id, Err: err}
		}

		shot, err := c.Status(ctx, id)
		if err != nil {
			return nil, err
		}
		if onPoll != nil {
			onPoll(shot)
		}
		if c.logger != nil {
			c.logger.Debug("Capture status", "id", id, "status", shot.Status, "attempt", attempt)
		}

		if shot.Status != models.StatusPending {
			return shot, nil
		}
	}
}
