package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/thesavant42/shotpro/internal/api"
	"github.com/thesavant42/shotpro/internal/capture"
	"github.com/thesavant42/shotpro/internal/history"
	"github.com/thesavant42/shotpro/internal/models"
	"github.com/thesavant42/shotpro/internal/ui"
)

func (a *app) runCapture(ctx context.Context, args []string, queued bool) error {
	defaults := models.DefaultCaptureRequest()
	form := capture.FormFromRequest(defaults)

	fs := flag.NewFlagSet("capture", flag.ContinueOnError)
	fs.StringVar(&form.Browser, "browser", form.Browser, "browser engine (chrome, firefox, edge)")
	fs.StringVar(&form.Width, "width", form.Width, "viewport width")
	fs.StringVar(&form.Height, "height", form.Height, "viewport height")
	fs.StringVar(&form.Delay, "delay", form.Delay, "seconds to wait before capturing")
	fs.StringVar(&form.Format, "format", form.Format, "image format (png, jpeg, webp)")
	fs.StringVar(&form.Quality, "quality", "", "jpeg/webp quality")
	fs.BoolVar(&form.FullPage, "full-page", form.FullPage, "capture the whole page")
	fs.BoolVar(&form.DarkMode, "dark", form.DarkMode, "emulate dark mode")
	fs.StringVar(&form.HideSelectors, "hide", "", "comma separated selectors to hide")
	fs.StringVar(&form.WaitSelector, "wait", "", "selector to wait for")
	fs.StringVar(&form.Selector, "selector", "", "capture only this element")
	fs.StringVar(&form.CustomName, "name", "", "file name on the server")
	fs.StringVar(&form.UserAgent, "ua", "", "user agent override")
	save := fs.Bool("save", false, "download the screenshot after capture")
	dir := fs.String("dir", "", "download directory (default: configured)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("capture needs exactly one URL")
	}
	form.URL = fs.Arg(0)

	var (
		snap capture.Snapshot
		err  error
	)
	if queued {
		snap, err = a.capture.SubmitAsync(ctx, form, func(shot *models.Screenshot) {
			ui.PrintInfo(fmt.Sprintf("%s: %s", shot.ID, shot.Status))
		})
	} else {
		snap, err = a.capture.Submit(ctx, form)
	}
	if err != nil {
		return err
	}
	if snap.State == capture.Failed {
		return errors.New(snap.Error)
	}

	ui.PrintScreenshot(snap.Result.Success.Screenshot)
	if !*save {
		return nil
	}
	sink, err := a.sink(ctx, *dir)
	if err != nil {
		return err
	}
	location, err := a.capture.Download(ctx, sink)
	if err != nil {
		return err
	}
	ui.PrintSuccess("Saved " + location)
	return nil
}

func (a *app) runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := fs.Int("limit", history.DefaultLimit, "entries per page")
	offset := fs.Int("offset", 0, "entries to skip")
	status := fs.String("status", "", "only show pending, completed or failed")
	filter := fs.String("filter", "", "match url, file name or browser")
	browse := fs.Bool("browse", false, "open the interactive browser")
	export := fs.String("export", "", "also write the listing as markdown into this directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	q := api.HistoryQuery{Limit: *limit, Offset: *offset}
	if *status != "" {
		q.Status = models.Status(strings.ToLower(*status))
		if !q.Status.Valid() {
			return &api.ValidationError{Field: "status", Message: "status must be pending, completed or failed"}
		}
	}
	if err := a.history.LoadQuery(ctx, q); err != nil {
		return err
	}

	if *browse {
		return ui.RunHistoryBrowser(ctx, a.history, *limit)
	}
	entries := a.history.Filter(*filter)
	ui.PrintHistory(entries, a.history.Counts(), a.history.Total())
	if *export != "" {
		path, err := ui.ExportHistoryMarkdown(entries, a.history.Counts(), a.history.Total(), *export, time.Now())
		if err != nil {
			return err
		}
		ui.PrintSuccess("Exported " + path)
	}
	return nil
}

func (a *app) runBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	dir := fs.String("dir", ".", "directory for the backup file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := ui.ExportDatabaseBackup(a.cfg.DBPath, *dir, time.Now())
	if err != nil {
		return err
	}
	ui.PrintSuccess("Backed up to " + path)
	return nil
}

func (a *app) runDelete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("delete needs at least one screenshot ID")
	}
	for _, id := range args {
		if err := a.history.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		ui.PrintSuccess("Deleted " + id)
	}
	return nil
}

func (a *app) runClear(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes && !ui.Confirm("Clear all history?", "Every screenshot on the server is deleted") {
		ui.PrintInfo("Cancelled")
		return nil
	}
	if err := a.history.Clear(ctx); err != nil {
		return err
	}
	ui.PrintSuccess("History cleared")
	return nil
}

func (a *app) runDownload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	dir := fs.String("dir", "", "download directory (default: configured)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("download needs exactly one screenshot ID")
	}
	id := fs.Arg(0)

	shot, err := a.client.Status(ctx, id)
	if err != nil {
		return err
	}
	if shot.Status != models.StatusCompleted {
		return fmt.Errorf("screenshot %s is %s", id, shot.Status)
	}
	data, err := a.client.Download(ctx, id)
	if err != nil {
		return err
	}

	sink, err := a.sink(ctx, *dir)
	if err != nil {
		return err
	}
	name := shot.Filename
	if name == "" {
		name = capture.DownloadName(shot.URL, "png", time.Now())
	}
	location, err := sink.Save(ctx, name, capture.ContentType(name), data)
	if err != nil {
		return err
	}

	rec := &models.DownloadRecord{
		ScreenshotID: id,
		URL:          shot.URL,
		Location:     location,
		SizeBytes:    int64(len(data)),
		SavedAt:      time.Now(),
	}
	if err := a.db.InsertDownload(rec); err != nil {
		a.logger.Warn("Failed to record download", "id", id, "error", err)
	}
	ui.PrintSuccess("Saved " + location)
	return nil
}

func (a *app) runDownloads(args []string) error {
	fs := flag.NewFlagSet("downloads", flag.ContinueOnError)
	limit := fs.Int("limit", 50, "records to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var (
		records []models.DownloadRecord
		err     error
	)
	if fs.NArg() == 1 {
		records, err = a.db.DownloadsFor(fs.Arg(0))
	} else {
		records, err = a.db.ListDownloads(*limit)
	}
	if err != nil {
		return err
	}
	ui.PrintDownloads(records)
	return nil
}

func (a *app) runSettings(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "edit":
		ui.RunSettings(ctx, a.settings)
		return nil
	case "reset":
		if err := a.settings.Reset(ctx); err != nil {
			return err
		}
		ui.PrintSettings(a.settings.Current(), false)
		return nil
	}

	if err := a.settings.Load(ctx); err != nil {
		return err
	}

	switch sub {
	case "show":
		ui.PrintSettings(a.settings.Current(), a.settings.Dirty())
		return nil
	case "set":
		if len(args) == 0 {
			return errors.New("settings set needs FIELD=VALUE pairs")
		}
		for _, pair := range args {
			field, value, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("expected FIELD=VALUE, got %q", pair)
			}
			if err := a.settings.Set(strings.TrimSpace(field), strings.TrimSpace(value)); err != nil {
				return err
			}
		}
		if err := a.settings.Save(ctx); err != nil {
			return err
		}
		ui.PrintSettings(a.settings.Current(), false)
		ui.PrintSuccess("Settings saved")
		return nil
	}
	return fmt.Errorf("unknown settings command %q (show, set, reset, edit)", sub)
}

func (a *app) runBrowsers(ctx context.Context) error {
	browsers, err := a.client.Browsers(ctx)
	if err != nil {
		return err
	}
	ui.PrintBrowsers(browsers)
	return nil
}

func (a *app) runStats(ctx context.Context) error {
	st, err := a.client.Stats(ctx)
	if err != nil {
		return err
	}
	ui.PrintStats(*st)
	return nil
}

func (a *app) runHealth(ctx context.Context) error {
	h, err := a.client.Health(ctx)
	if err != nil {
		return err
	}
	ui.PrintHealth(a.client.BaseURL(), *h)
	return nil
}

func (a *app) runRecent() error {
	ui.PrintRecent(a.recent.Items())
	return nil
}

func (a *app) runTUI(ctx context.Context) error {
	sink, err := a.sink(ctx, "")
	if err != nil {
		return err
	}
	return ui.RunTUI(ctx, ui.Session{
		Controller:   a.capture,
		History:      a.history,
		HistoryLimit: history.DefaultLimit,
		Settings:     a.settings,
		Recent:       a.recent,
		Sink:         sink,
		System:       a.client,
		Downloads:    a.db,
	})
}
