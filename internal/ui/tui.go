package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/thesavant42/shotpro/internal/api"
	"github.com/thesavant42/shotpro/internal/capture"
	"github.com/thesavant42/shotpro/internal/history"
	"github.com/thesavant42/shotpro/internal/recent"
	"github.com/thesavant42/shotpro/internal/settings"
)

// Session bundles the services the interactive shell drives
type Session struct {
	Controller   *capture.Controller
	History      *history.Cache
	HistoryLimit int
	Settings     *settings.Store
	Recent       *recent.List
	Sink         capture.Sink
	System       SystemSource
	Downloads    DownloadLister
}

const (
	actionCapture      = "capture"
	actionCaptureAsync = "capture-async"
	actionHistory      = "history"
	actionSettings     = "settings"
	actionRecent       = "recent"
	actionSystem       = "system"
	actionQuit         = "quit"
)

// RunTUI shows the main menu until the user quits
func RunTUI(ctx context.Context, s Session) error {
	ShowSplash(1500 * time.Millisecond)

	for {
		var action string
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("shotpro").
					Options(
						huh.NewOption("Capture screenshot", actionCapture),
						huh.NewOption("Capture screenshot (queued)", actionCaptureAsync),
						huh.NewOption("Browse history", actionHistory),
						huh.NewOption("Settings", actionSettings),
						huh.NewOption("Recent URLs", actionRecent),
						huh.NewOption("System overview", actionSystem),
						huh.NewOption("Quit", actionQuit),
					).
					Value(&action),
			),
		).WithTheme(NewAppTheme()).Run()
		if err != nil || action == actionQuit {
			return nil
		}

		switch action {
		case actionCapture, actionCaptureAsync:
			runCapture(ctx, s, action == actionCaptureAsync)
		case actionHistory:
			if err := loadHistory(ctx, s); err != nil {
				PrintError(api.UserMessage(err))
				continue
			}
			if err := RunHistoryBrowser(ctx, s.History, s.HistoryLimit); err != nil {
				PrintError(err.Error())
			}
		case actionSettings:
			RunSettings(ctx, s.Settings)
		case actionRecent:
			PrintRecent(s.Recent.Items())
		case actionSystem:
			if err := RunSystemPage(ctx, s.System, s.Downloads); err != nil {
				PrintError(api.UserMessage(err))
			}
		}
	}
}

func loadHistory(ctx context.Context, s Session) error {
	return RunWithSpinner("Loading history...", func() error {
		return s.History.Load(ctx, s.HistoryLimit)
	})
}

func runCapture(ctx context.Context, s Session, queued bool) {
	form, err := PromptCapture(s.Controller.Snapshot().Request, s.Recent.Items())
	if err != nil {
		return
	}

	var snap capture.Snapshot
	var submitErr error
	if queued {
		err = RunPolling("Waiting for capture...", func() error {
			snap, submitErr = s.Controller.SubmitAsync(ctx, form, nil)
			return nil
		})
	} else {
		err = RunWithSpinner("Capturing "+capture.NormalizeURL(form.URL)+"...", func() error {
			snap, submitErr = s.Controller.Submit(ctx, form)
			return nil
		})
	}
	if err != nil {
		PrintError(err.Error())
		return
	}
	if submitErr != nil {
		if errors.Is(submitErr, capture.ErrCaptureInFlight) {
			PrintInfo(submitErr.Error())
		} else {
			PrintError(api.UserMessage(submitErr))
		}
		return
	}
	defer s.Controller.Dismiss()

	if snap.State == capture.Failed {
		PrintError(snap.Error)
		return
	}

	shot := snap.Result.Success.Screenshot
	PrintScreenshot(shot)
	fmt.Println()

	if s.Sink != nil && Confirm("Save screenshot?", fmt.Sprintf("%s (%s)", shot.Filename, FormatBytes(int64(len(snap.Result.Success.Image))))) {
		location, err := s.Controller.Download(ctx, s.Sink)
		if err != nil {
			PrintError(err.Error())
			return
		}
		PrintSuccess("Saved " + location)
	}
}

// RunSettings shows the settings page with edit, save and reset actions
func RunSettings(ctx context.Context, store *settings.Store) {
	if err := RunWithSpinner("Loading settings...", func() error { return store.Load(ctx) }); err != nil {
		// keep working with the local copy
		PrintError(api.UserMessage(err))
	}

	for {
		PrintSettings(store.Current(), store.Dirty())

		var action string
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Settings").
					Options(
						huh.NewOption("Edit a setting", "edit"),
						huh.NewOption("Save", "save"),
						huh.NewOption("Reset to defaults", "reset"),
						huh.NewOption("Back", "back"),
					).
					Value(&action),
			),
		).WithTheme(NewAppTheme()).Run()
		if err != nil {
			return
		}

		switch action {
		case "edit":
			field, value, err := PromptSetting(settings.Fields)
			if err != nil {
				continue
			}
			if err := store.Set(field, value); err != nil {
				PrintError(api.UserMessage(err))
			}
		case "save":
			if err := store.Save(ctx); err != nil {
				PrintError(api.UserMessage(err))
			} else {
				PrintSuccess("Settings saved")
			}
		case "reset":
			if !Confirm("Reset settings?", "Server defaults replace every setting") {
				continue
			}
			if err := store.Reset(ctx); err != nil {
				PrintError(api.UserMessage(err))
			} else {
				PrintSuccess("Settings reset to defaults")
			}
		default:
			if store.Dirty() && !Confirm("Discard unsaved changes?", "") {
				continue
			}
			return
		}
	}
}
