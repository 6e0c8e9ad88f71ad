package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/thesavant42/shotpro/internal/capture"
	"github.com/thesavant42/shotpro/internal/models"
)

const customPreset = "custom"

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1
		}
		return r
	}, s)
}

// numberIn returns a huh validator for optional whole numbers within [lo, hi]
func numberIn(lo, hi int) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("enter a whole number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

// presetKey names the preset matching w x h, or customPreset
func presetKey(w, h int) string {
	for _, p := range models.ViewportPresets {
		if p.Width == w && p.Height == h {
			return p.Name
		}
	}
	return customPreset
}

// applyPreset copies the named preset's size into form
func applyPreset(form *capture.FormInput, name string) {
	for _, p := range models.ViewportPresets {
		if p.Name == name {
			form.Width = strconv.Itoa(p.Width)
			form.Height = strconv.Itoa(p.Height)
			return
		}
	}
}

// PromptCapture collects capture options, starting from defaults.
// Recently used URLs are offered as suggestions.
func PromptCapture(defaults models.CaptureRequest, recentURLs []string) (capture.FormInput, error) {
	form := capture.FormFromRequest(defaults)
	preset := presetKey(defaults.Width, defaults.Height)
	if form.Quality == "" {
		form.Quality = strconv.Itoa(capture.DefaultQuality)
	}

	presetOpts := make([]huh.Option[string], 0, len(models.ViewportPresets)+1)
	for _, p := range models.ViewportPresets {
		presetOpts = append(presetOpts, huh.NewOption(fmt.Sprintf("%s (%dx%d)", p.Name, p.Width, p.Height), p.Name))
	}
	presetOpts = append(presetOpts, huh.NewOption("Custom size", customPreset))

	browserOpts := make([]huh.Option[string], len(models.Browsers))
	for i, b := range models.Browsers {
		browserOpts[i] = huh.NewOption(b, b)
	}
	formatOpts := make([]huh.Option[string], len(models.Formats))
	for i, f := range models.Formats {
		formatOpts[i] = huh.NewOption(f, f)
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("URL").
				Description("Scheme is optional, https:// is assumed").
				Placeholder("example.com").
				Suggestions(recentURLs).
				Value(&form.URL).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("url required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Browser").
				Options(browserOpts...).
				Value(&form.Browser),
			huh.NewSelect[string]().
				Title("Viewport").
				Options(presetOpts...).
				Value(&preset),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Width").
				Value(&form.Width).
				Validate(numberIn(models.MinWidth, models.MaxWidth)),
			huh.NewInput().
				Title("Height").
				Value(&form.Height).
				Validate(numberIn(models.MinHeight, models.MaxHeight)),
		).WithHideFunc(func() bool { return preset != customPreset }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Format").
				Options(formatOpts...).
				Value(&form.Format),
			huh.NewInput().
				Title("Quality").
				Description("jpeg and webp only").
				Value(&form.Quality).
				Validate(numberIn(models.MinQuality, models.MaxQuality)),
			huh.NewInput().
				Title("Delay (seconds)").
				Value(&form.Delay).
				Validate(numberIn(models.MinDelay, models.MaxDelay)),
			huh.NewConfirm().
				Title("Full page").
				Value(&form.FullPage),
			huh.NewConfirm().
				Title("Dark mode").
				Value(&form.DarkMode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Hide elements").
				Description("CSS selectors, comma separated").
				Value(&form.HideSelectors),
			huh.NewInput().
				Title("Wait for element").
				Description("CSS selector to wait for before capturing").
				Value(&form.WaitSelector),
			huh.NewInput().
				Title("User agent").
				Value(&form.UserAgent),
		),
	).WithTheme(NewAppTheme()).Run()
	if err != nil {
		return capture.FormInput{}, fmt.Errorf("prompt cancelled: %w", err)
	}

	if preset != customPreset {
		applyPreset(&form, preset)
	}
	form.URL = sanitizeInput(form.URL)
	form.HideSelectors = sanitizeInput(form.HideSelectors)
	form.WaitSelector = sanitizeInput(form.WaitSelector)
	form.UserAgent = sanitizeInput(form.UserAgent)
	return form, nil
}

// Confirm asks a yes/no question; cancelling counts as no
func Confirm(title, description string) bool {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(NewAppTheme()).Run()
	if err != nil {
		return false
	}
	return ok
}

// PromptSetting asks for a settings field and its new value
func PromptSetting(fields []string) (field, value string, err error) {
	opts := make([]huh.Option[string], len(fields))
	for i, f := range fields {
		opts[i] = huh.NewOption(f, f)
	}

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Setting").
				Options(opts...).
				Value(&field),
			huh.NewInput().
				Title("New value").
				Value(&value),
		),
	).WithTheme(NewAppTheme()).Run()
	if err != nil {
		return "", "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return field, sanitizeInput(strings.TrimSpace(value)), nil
}
