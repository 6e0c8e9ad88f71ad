package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	userAgent      = "shotpro/1.0"
	unknownError   = "Unknown error"
)

// Client talks to the screenshot backend's JSON endpoints
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a backend client. A zero timeout leaves requests unbounded;
// any timeout policy then belongs to the backend or the caller's context.
func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the backend root this client is bound to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// newRequest builds a request with the headers every call carries
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	return req, nil
}

// send executes req and converts transport and status failures into typed errors.
// On success the caller owns resp.Body.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	op := req.Method + " " + req.URL.Path
	if c.logger != nil {
		c.logger.Info(req.Method, "endpoint", req.URL.String(), "request_id", req.Header.Get("X-Request-ID"))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Request failed", "op", op, "error", err)
		}
		return nil, &NetworkError{Op: op, Err: err}
	}

	if c.logger != nil {
		c.logger.Debug("Response", "op", op, "status", resp.StatusCode, "elapsed", time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(body)}
		if c.logger != nil {
			c.logger.Error("API error", "op", op, "status", resp.StatusCode, "message", apiErr.Message)
		}
		return nil, apiErr
	}

	return resp, nil
}

// do performs a JSON round trip; out may be nil to discard the body
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTransportRead(err) {
			return &NetworkError{Op: method + " " + path, Err: err}
		}
		return &DataError{What: method + " " + path, Err: err}
	}
	return nil
}

// errorMessage extracts detail, message or error from a JSON error body.
// FastAPI validation failures put a list of {msg} objects under detail.
func errorMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return unknownError
	}

	for _, key := range []string{"detail", "message", "error"} {
		switch v := payload[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			var msgs []string
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					if msg, ok := m["msg"].(string); ok {
						msgs = append(msgs, msg)
					}
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	return unknownError
}

// isTransportRead separates a connection dropped mid-body from a malformed body
func isTransportRead(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
