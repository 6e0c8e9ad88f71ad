package api_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/thesavant42/shotpro/internal/api"
	"github.com/thesavant42/shotpro/internal/fakeapi"
	"github.com/thesavant42/shotpro/internal/models"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func newFake(t *testing.T, cfg fakeapi.Config) (*fakeapi.Server, *api.Client) {
	t.Helper()
	fake := fakeapi.New(cfg)
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return fake, api.NewClient(srv.URL, 0, nil)
}

func TestCaptureAndPreview(t *testing.T) {
	_, client := newFake(t, fakeapi.Config{})
	ctx := context.Background()

	req := models.DefaultCaptureRequest()
	req.URL = "https://example.com"

	shot, err := client.Capture(ctx, req)
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if shot.Status != models.StatusCompleted {
		t.Errorf("Capture() status = %q, want completed", shot.Status)
	}
	if shot.Width != 1920 || shot.Height != 1080 || !shot.FullPage {
		t.Errorf("Capture() echoed viewport = %dx%d full=%v", shot.Width, shot.Height, shot.FullPage)
	}

	preview, image, err := client.Preview(ctx, shot.ID)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if preview.Filename != shot.Filename {
		t.Errorf("Preview() filename = %q, want %q", preview.Filename, shot.Filename)
	}
	if !bytes.HasPrefix(image, pngMagic) {
		t.Errorf("Preview() image is not a PNG")
	}

	raw, err := client.Download(ctx, shot.ID)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if !bytes.Equal(raw, image) {
		t.Errorf("Download() bytes differ from preview payload")
	}
}

func TestCaptureServerErrorCarriesDetail(t *testing.T) {
	fake, client := newFake(t, fakeapi.Config{})
	fake.FailNextCapture(fakeapi.Failure{Status: http.StatusInternalServerError, Detail: "browser crashed"})

	_, err := client.Capture(context.Background(), models.CaptureRequest{URL: "https://example.com", Width: 1920, Height: 1080})
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Capture() error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Message != "browser crashed" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if api.IsNetwork(err) {
		t.Errorf("IsNetwork() = true for an HTTP-level failure")
	}
}

func TestNetworkFailureIsDistinct(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	client := api.NewClient(addr, 2*time.Second, nil)
	_, err := client.Health(context.Background())
	if !api.IsNetwork(err) {
		t.Fatalf("Health() error = %v, want NetworkError", err)
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("network failure also matched APIError")
	}
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"abc","url":"https://example.com","status":"completed"}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, 0, nil)
	if _, err := client.Capture(context.Background(), models.CaptureRequest{URL: "https://example.com"}); err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if ct := got.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got.Get("X-Request-ID") == "" {
		t.Errorf("X-Request-ID header missing")
	}
}

func TestHistoryQueryOmitsUnsetFields(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Write([]byte(`{"total":0,"limit":50,"offset":0,"screenshots":null}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, 0, nil)
	page, err := client.History(context.Background(), api.HistoryQuery{})
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if rawQuery != "" {
		t.Errorf("History() query = %q, want empty", rawQuery)
	}
	if page.Screenshots == nil {
		t.Errorf("History() screenshots should be empty, not nil")
	}

	if _, err := client.History(context.Background(), api.HistoryQuery{Limit: 5, Status: models.StatusFailed}); err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if rawQuery != "limit=5&status=failed" {
		t.Errorf("History() query = %q", rawQuery)
	}
}

func TestDeleteAndClearAreIdempotent(t *testing.T) {
	fake, client := newFake(t, fakeapi.Config{})
	ctx := context.Background()
	fake.Seed(models.Screenshot{ID: "one", URL: "https://a.example", Status: models.StatusCompleted, Timestamp: "2026-01-01T00:00:00"})

	if err := client.DeleteHistoryItem(ctx, "one"); err != nil {
		t.Fatalf("DeleteHistoryItem() error = %v", err)
	}
	if err := client.DeleteHistoryItem(ctx, "one"); err != nil {
		t.Errorf("second DeleteHistoryItem() error = %v, want nil", err)
	}
	if err := client.ClearHistory(ctx); err != nil {
		t.Errorf("ClearHistory() on empty history error = %v", err)
	}
}

func TestSettingsUpdateAndReset(t *testing.T) {
	fake, client := newFake(t, fakeapi.Config{})
	ctx := context.Background()

	s, err := client.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	s.Width = 1366
	s.Timezone = "Europe/Berlin"

	updated, err := client.UpdateSettings(ctx, *s)
	if err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	if updated.Width != 1366 || updated.Timezone != "Europe/Berlin" {
		t.Errorf("UpdateSettings() = %+v", updated)
	}
	if fake.CurrentSettings().Width != 1366 {
		t.Errorf("server did not store width")
	}

	reset, err := client.ResetSettings(ctx)
	if err != nil {
		t.Fatalf("ResetSettings() error = %v", err)
	}
	if *reset != models.DefaultSettings() {
		t.Errorf("ResetSettings() = %+v, want defaults", reset)
	}
}

func TestWaitForCapture(t *testing.T) {
	fake, client := newFake(t, fakeapi.Config{AsyncPolls: 2})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	job, err := client.CaptureAsync(ctx, models.CaptureRequest{URL: "https://example.com", Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("CaptureAsync() error = %v", err)
	}
	if job.Status != models.StatusPending || job.CheckStatus == "" {
		t.Errorf("CaptureAsync() = %+v", job)
	}

	polls := 0
	shot, err := client.WaitForCapture(ctx, job.ID, 10*time.Millisecond, func(*models.Screenshot) { polls++ })
	if err != nil {
		t.Fatalf("WaitForCapture() error = %v", err)
	}
	if shot.Status != models.StatusCompleted {
		t.Errorf("WaitForCapture() status = %q", shot.Status)
	}
	if polls != 3 {
		t.Errorf("WaitForCapture() polled %d times, want 3", polls)
	}
	if n := fake.Requests("GET /api/screenshot/:id/status"); n != 3 {
		t.Errorf("status requests = %d, want 3", n)
	}
}

func TestStatusRejectsUnknownEnum(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"x","status":"queued"}`))
	}))
	defer srv.Close()

	_, err := api.NewClient(srv.URL, 0, nil).Status(context.Background(), "x")
	var dataErr *api.DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("Status() error = %v, want *DataError", err)
	}
}

func TestBrowsersStatsHealth(t *testing.T) {
	fake, client := newFake(t, fakeapi.Config{})
	ctx := context.Background()
	fake.Seed(
		models.Screenshot{ID: "1", URL: "https://example.com/a", Status: models.StatusCompleted, FileSize: 100, Timestamp: "2026-01-01T00:00:01"},
		models.Screenshot{ID: "2", URL: "https://example.com/b", Status: models.StatusFailed, Timestamp: "2026-01-01T00:00:02"},
		models.Screenshot{ID: "3", URL: "http://other.org", Status: models.StatusPending, Timestamp: "2026-01-01T00:00:03"},
	)

	browsers, err := client.Browsers(ctx)
	if err != nil || len(browsers) == 0 {
		t.Fatalf("Browsers() = %v, %v", browsers, err)
	}

	stats, err := client.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalScreenshots != 3 || stats.Completed != 1 || stats.Failed != 1 || stats.Pending != 1 {
		t.Errorf("Stats() counts = %+v", stats)
	}
	if stats.UniqueDomains != 2 || stats.TotalSizeBytes != 100 {
		t.Errorf("Stats() domains/size = %d/%d", stats.UniqueDomains, stats.TotalSizeBytes)
	}

	h, err := client.Health(ctx)
	if err != nil || h.Status != "healthy" {
		t.Errorf("Health() = %+v, %v", h, err)
	}
}

func TestPreviewImageEncodings(t *testing.T) {
	tests := []struct {
		name     string
		image    string
		wantMime string
		wantErr  bool
	}{
		{"data url", "data:image/png;base64,iVBORw0KGgo=", "image/png", false},
		{"data url jpeg", "data:image/jpeg;base64,iVBORw0KGgo=", "image/jpeg", false},
		{"bare base64", "iVBORw0KGgo=", "", false},
		{"data url without base64 marker", "data:image/png,iVBORw0KGgo=", "", true},
		{"data url without payload", "data:image/png;base64", "", true},
		{"not base64", "not base64!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprintf(w, `{"id":"x","image":%q,"filename":"a.png"}`, tt.image)
			}))
			defer srv.Close()

			preview, image, err := api.NewClient(srv.URL, 0, nil).Preview(context.Background(), "x")
			if tt.wantErr {
				var de *api.DataError
				if !errors.As(err, &de) {
					t.Fatalf("Preview() error = %v, want DataError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Preview() error = %v", err)
			}
			if !bytes.HasPrefix(image, pngMagic) {
				t.Errorf("Preview() image = %x, want PNG magic", image)
			}
			if preview.MimeType != tt.wantMime {
				t.Errorf("Preview() mime = %q, want %q", preview.MimeType, tt.wantMime)
			}
		})
	}
}

func TestFakePreviewSendsDataURL(t *testing.T) {
	_, client := newFake(t, fakeapi.Config{})
	ctx := context.Background()

	req := models.DefaultCaptureRequest()
	req.URL = "https://example.com"
	req.Format = "jpeg"
	shot, err := client.Capture(ctx, req)
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	preview, _, err := client.Preview(ctx, shot.ID)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if !strings.HasPrefix(preview.Image, "data:image/jpeg;base64,") {
		t.Errorf("wire image = %.40q, want a jpeg data URL", preview.Image)
	}
	if preview.MimeType != "image/jpeg" {
		t.Errorf("Preview() mime = %q", preview.MimeType)
	}
}
