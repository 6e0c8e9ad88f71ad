package capture

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/thesavant42/shotpro/internal/api"
	"github.com/thesavant42/shotpro/internal/models"
)

// DefaultQuality is used for jpeg/webp when no quality was ever entered
const DefaultQuality = 90

// FormInput is the capture form as typed, before any parsing
type FormInput struct {
	URL           string
	Browser       string
	Width         string
	Height        string
	Delay         string
	Format        string
	Quality       string
	UserAgent     string
	HideSelectors string // comma separated
	WaitSelector  string
	Selector      string
	CustomName    string
	FullPage      bool
	DarkMode      bool
}

// FormFromRequest renders req back into form text, e.g. to prefill a form
func FormFromRequest(req models.CaptureRequest) FormInput {
	form := FormInput{
		URL:           req.URL,
		Browser:       req.Browser,
		Width:         strconv.Itoa(req.Width),
		Height:        strconv.Itoa(req.Height),
		Delay:         strconv.Itoa(req.Delay),
		Format:        req.Format,
		UserAgent:     req.UserAgent,
		HideSelectors: strings.Join(req.HideSelectors, ", "),
		WaitSelector:  req.WaitSelector,
		Selector:      req.Selector,
		CustomName:    req.CustomName,
		FullPage:      req.FullPage,
		DarkMode:      req.DarkMode,
	}
	if req.Quality != nil {
		form.Quality = strconv.Itoa(*req.Quality)
	}
	return form
}

// Build turns form text into a request. Numeric text that does not parse keeps
// the value from previous; parsed values must be in range.
func Build(form FormInput, previous models.CaptureRequest) (models.CaptureRequest, error) {
	rawURL := strings.TrimSpace(form.URL)
	if rawURL == "" {
		return models.CaptureRequest{}, &api.ValidationError{Field: "url", Message: "url required"}
	}

	req := previous
	req.URL = NormalizeURL(rawURL)
	req.FullPage = form.FullPage
	req.DarkMode = form.DarkMode
	req.UserAgent = strings.TrimSpace(form.UserAgent)
	req.HideSelectors = SplitSelectors(form.HideSelectors)
	req.WaitSelector = strings.TrimSpace(form.WaitSelector)
	req.Selector = strings.TrimSpace(form.Selector)
	req.CustomName = strings.TrimSpace(form.CustomName)

	if browser := strings.ToLower(strings.TrimSpace(form.Browser)); browser != "" {
		if !slices.Contains(models.Browsers, browser) {
			return models.CaptureRequest{}, &api.ValidationError{Field: "browser", Message: "unsupported browser " + strconv.Quote(browser)}
		}
		req.Browser = browser
	}

	if format := strings.ToLower(strings.TrimSpace(form.Format)); format != "" {
		if format == "jpg" {
			format = "jpeg"
		}
		if !slices.Contains(models.Formats, format) {
			return models.CaptureRequest{}, &api.ValidationError{Field: "format", Message: "unsupported format " + strconv.Quote(format)}
		}
		req.Format = format
	}

	var err error
	if req.Width, err = intField("window_width", form.Width, req.Width, models.MinWidth, models.MaxWidth); err != nil {
		return models.CaptureRequest{}, err
	}
	if req.Height, err = intField("window_height", form.Height, req.Height, models.MinHeight, models.MaxHeight); err != nil {
		return models.CaptureRequest{}, err
	}
	if req.Delay, err = intField("delay", form.Delay, req.Delay, models.MinDelay, models.MaxDelay); err != nil {
		return models.CaptureRequest{}, err
	}

	// quality only travels with lossy formats
	if req.Format == "jpeg" || req.Format == "webp" {
		quality := DefaultQuality
		if previous.Quality != nil {
			quality = *previous.Quality
		}
		if quality, err = intField("quality", form.Quality, quality, models.MinQuality, models.MaxQuality); err != nil {
			return models.CaptureRequest{}, err
		}
		req.Quality = &quality
	} else {
		req.Quality = nil
	}

	return req, nil
}

// NormalizeURL prefixes https:// unless the url already names http or https
func NormalizeURL(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

// SplitSelectors splits a comma separated list, dropping blanks and keeping order
func SplitSelectors(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if sel := strings.TrimSpace(part); sel != "" {
			out = append(out, sel)
		}
	}
	return out
}

func intField(field, text string, fallback, lo, hi int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		n = fallback
	}
	if n < lo || n > hi {
		return 0, &api.ValidationError{Field: field, Message: fmt.Sprintf("must be between %d and %d", lo, hi)}
	}
	return n, nil
}
