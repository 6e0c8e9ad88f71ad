package capture

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/thesavant42/shotpro/internal/api"
	"github.com/thesavant42/shotpro/internal/models"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "https://example.com"},
		{"example.com/path?q=1", "https://example.com/path?q=1"},
		{"localhost:3000", "https://localhost:3000"},
		{"http://example.com", "http://example.com"},
		{"https://example.com", "https://example.com"},
		{"HTTPS://Example.com", "HTTPS://Example.com"},
		{"ftp://example.com", "https://ftp://example.com"},
	}

	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeURLProperty(t *testing.T) {
	hosts := []string{"a", "example.com", "sub.domain.co.uk/x/y", "10.0.0.1:8080", "xn--bcher-kva.example"}
	for _, h := range hosts {
		if got := NormalizeURL(h); got != "https://"+h {
			t.Errorf("NormalizeURL(%q) = %q", h, got)
		}
		for _, scheme := range []string{"http://", "https://"} {
			u := scheme + h
			if got := NormalizeURL(u); got != u {
				t.Errorf("NormalizeURL(%q) = %q, want unchanged", u, got)
			}
		}
	}
}

func TestSplitSelectors(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{".ad", []string{".ad"}},
		{".ad, #cookie-banner ,.popup", []string{".ad", "#cookie-banner", ".popup"}},
		{"div > p,, span", []string{"div > p", "span"}},
	}

	for _, tt := range tests {
		if got := SplitSelectors(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitSelectors(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestBuildDefaults(t *testing.T) {
	form := FormFromRequest(models.DefaultCaptureRequest())
	form.URL = "  example.com "

	req, err := Build(form, models.DefaultCaptureRequest())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := models.DefaultCaptureRequest()
	want.URL = "https://example.com"
	if !reflect.DeepEqual(req, want) {
		t.Errorf("Build() = %+v, want %+v", req, want)
	}
}

func TestBuildFallbacksAndValidation(t *testing.T) {
	previous := models.DefaultCaptureRequest()

	tests := []struct {
		name      string
		form      FormInput
		wantField string
		check     func(models.CaptureRequest) bool
	}{
		{
			name:      "missing url",
			form:      FormInput{URL: "   "},
			wantField: "url",
		},
		{
			name:  "non numeric width keeps previous",
			form:  FormInput{URL: "a.com", Width: "wide", Height: ""},
			check: func(r models.CaptureRequest) bool { return r.Width == 1920 && r.Height == 1080 },
		},
		{
			name:  "parsed numbers applied",
			form:  FormInput{URL: "a.com", Width: "375", Height: "667", Delay: "3"},
			check: func(r models.CaptureRequest) bool { return r.Width == 375 && r.Height == 667 && r.Delay == 3 },
		},
		{
			name:      "width below range",
			form:      FormInput{URL: "a.com", Width: "100"},
			wantField: "window_width",
		},
		{
			name:      "height above range",
			form:      FormInput{URL: "a.com", Height: "5000"},
			wantField: "window_height",
		},
		{
			name:      "delay above range",
			form:      FormInput{URL: "a.com", Delay: "11"},
			wantField: "delay",
		},
		{
			name:      "unknown browser",
			form:      FormInput{URL: "a.com", Browser: "netscape"},
			wantField: "browser",
		},
		{
			name:  "browser is case-insensitive",
			form:  FormInput{URL: "a.com", Browser: "Firefox"},
			check: func(r models.CaptureRequest) bool { return r.Browser == "firefox" },
		},
		{
			name:      "unknown format",
			form:      FormInput{URL: "a.com", Format: "gif"},
			wantField: "format",
		},
		{
			name: "png sends no quality",
			form: FormInput{URL: "a.com", Format: "png", Quality: "50"},
			check: func(r models.CaptureRequest) bool {
				return r.Quality == nil
			},
		},
		{
			name: "jpg alias with default quality",
			form: FormInput{URL: "a.com", Format: "jpg"},
			check: func(r models.CaptureRequest) bool {
				return r.Format == "jpeg" && r.Quality != nil && *r.Quality == DefaultQuality
			},
		},
		{
			name: "webp with quality",
			form: FormInput{URL: "a.com", Format: "webp", Quality: "40"},
			check: func(r models.CaptureRequest) bool {
				return r.Quality != nil && *r.Quality == 40
			},
		},
		{
			name:      "quality out of range",
			form:      FormInput{URL: "a.com", Format: "jpeg", Quality: "101"},
			wantField: "quality",
		},
		{
			name: "selectors and options",
			form: FormInput{URL: "a.com", HideSelectors: ".ad, .banner", WaitSelector: " #main ", DarkMode: true, CustomName: "home"},
			check: func(r models.CaptureRequest) bool {
				return reflect.DeepEqual(r.HideSelectors, []string{".ad", ".banner"}) &&
					r.WaitSelector == "#main" && r.DarkMode && !r.FullPage && r.CustomName == "home"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Build(tt.form, previous)
			if tt.wantField != "" {
				var ve *api.ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("Build() error = %v, want ValidationError", err)
				}
				if ve.Field != tt.wantField {
					t.Errorf("ValidationError.Field = %q, want %q", ve.Field, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if !tt.check(req) {
				t.Errorf("Build() = %+v", req)
			}
		})
	}
}

func TestFormRoundTrip(t *testing.T) {
	q := 70
	req := models.CaptureRequest{
		URL:           "https://example.com",
		Browser:       "edge",
		Width:         1366,
		Height:        768,
		Delay:         2,
		Format:        "jpeg",
		Quality:       &q,
		HideSelectors: []string{".a", ".b"},
		FullPage:      true,
	}

	got, err := Build(FormFromRequest(req), models.CaptureRequest{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !reflect.DeepEqual(got, req) {
		t.Errorf("round trip = %+v, want %+v", got, req)
	}
	if !strings.HasPrefix(got.URL, "https://") {
		t.Errorf("URL lost its scheme")
	}
}
