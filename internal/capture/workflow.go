package capture

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/shotpro/internal/api"
	"github.com/thesavant42/shotpro/internal/history"
	"github.com/thesavant42/shotpro/internal/models"
	"github.com/thesavant42/shotpro/internal/recent"
)

var (
	// ErrCaptureInFlight is returned by Submit while a capture is running
	ErrCaptureInFlight = errors.New("a capture is already in progress")
	// ErrNothingToDownload is returned by Download outside the Previewing state
	ErrNothingToDownload = errors.New("no screenshot to download")
)

// State is the capture workflow state
type State int

const (
	Idle State = iota
	Submitting
	Previewing
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Previewing:
		return "previewing"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Event drives a state transition
type Event int

const (
	EventSubmit Event = iota
	EventSucceeded
	EventFailed
	EventDismiss
)

// Next returns the state after e, and false when e is not allowed in s
func Next(s State, e Event) (State, bool) {
	switch e {
	case EventSubmit:
		if s != Submitting {
			return Submitting, true
		}
	case EventSucceeded:
		if s == Submitting {
			return Previewing, true
		}
	case EventFailed:
		if s == Submitting {
			return Failed, true
		}
	case EventDismiss:
		if s == Previewing || s == Failed {
			return Idle, true
		}
	}
	return s, false
}

// Backend is the part of the API client a capture needs
type Backend interface {
	Capture(ctx context.Context, req models.CaptureRequest) (*models.Screenshot, error)
	CaptureAsync(ctx context.Context, req models.CaptureRequest) (*models.AsyncJob, error)
	WaitForCapture(ctx context.Context, id string, interval time.Duration, onPoll func(*models.Screenshot)) (*models.Screenshot, error)
	Preview(ctx context.Context, id string) (*models.Preview, []byte, error)
}

// DownloadLog records materialized downloads
type DownloadLog interface {
	InsertDownload(rec *models.DownloadRecord) error
}

// Options wires the controller's collaborators. Everything but the backend is optional.
type Options struct {
	Recent       *recent.List
	History      *history.Cache
	HistoryLimit int
	Downloads    DownloadLog
	Defaults     *models.CaptureRequest
	PollInterval time.Duration
	Logger       *log.Logger
	Now          func() time.Time
}

// Snapshot is a point-in-time copy of the workflow
type Snapshot struct {
	State   State
	Request models.CaptureRequest
	Result  *models.CaptureResult
	Error   string
}

// Controller runs one capture at a time through Idle, Submitting, Previewing and Failed
type Controller struct {
	backend Backend
	opts    Options

	mu      sync.Mutex
	state   State
	request models.CaptureRequest
	result  *models.CaptureResult
	errMsg  string
}

// NewController creates an idle controller
func NewController(backend Backend, opts Options) *Controller {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = history.DefaultLimit
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = api.DefaultPollInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	request := models.DefaultCaptureRequest()
	if opts.Defaults != nil {
		request = *opts.Defaults
	}
	return &Controller{backend: backend, opts: opts, request: request}
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{State: c.state, Request: c.request, Error: c.errMsg}
	if c.result != nil {
		r := *c.result
		snap.Result = &r
	}
	return snap
}

// Submit validates form and runs a synchronous capture followed by a preview fetch.
// It returns a ValidationError or ErrCaptureInFlight without touching the network;
// capture failures are reported through the Failed state instead.
func (c *Controller) Submit(ctx context.Context, form FormInput) (Snapshot, error) {
	return c.submit(ctx, form, c.captureSync)
}

// SubmitAsync is Submit over the queued endpoint, polling until the capture settles.
// onPoll, if set, sees every status response.
func (c *Controller) SubmitAsync(ctx context.Context, form FormInput, onPoll func(*models.Screenshot)) (Snapshot, error) {
	return c.submit(ctx, form, func(ctx context.Context, req models.CaptureRequest) (*models.Screenshot, error) {
		return c.captureAsync(ctx, req, onPoll)
	})
}

type captureFunc func(ctx context.Context, req models.CaptureRequest) (*models.Screenshot, error)

func (c *Controller) submit(ctx context.Context, form FormInput, run captureFunc) (Snapshot, error) {
	c.mu.Lock()
	req, err := Build(form, c.request)
	if err != nil {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, err
	}
	next, ok := Next(c.state, EventSubmit)
	if !ok {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrCaptureInFlight
	}
	c.state = next
	c.request = req
	c.result = nil
	c.errMsg = ""
	c.mu.Unlock()

	if c.opts.Logger != nil {
		c.opts.Logger.Info("Capture submitted", "url", req.URL, "browser", req.Browser)
	}

	result := c.execute(ctx, req, run)
	return c.finish(ctx, req, result), nil
}

func (c *Controller) execute(ctx context.Context, req models.CaptureRequest, run captureFunc) models.CaptureResult {
	shot, err := run(ctx, req)
	if err != nil {
		return models.Failed(api.UserMessage(err))
	}
	if shot.Status == models.StatusFailed {
		msg := shot.Error
		if msg == "" {
			msg = "Screenshot capture failed"
		}
		return models.Failed(msg)
	}

	// a capture whose preview cannot be fetched has nothing to show
	preview, image, err := c.backend.Preview(ctx, shot.ID)
	if err != nil {
		return models.Failed(api.UserMessage(err))
	}
	result := models.Succeeded(*shot, image)
	if preview != nil {
		result.Success.MimeType = preview.MimeType
	}
	return result
}

func (c *Controller) finish(ctx context.Context, req models.CaptureRequest, result models.CaptureResult) Snapshot {
	event := EventSucceeded
	if result.Failure != nil {
		event = EventFailed
	}

	c.mu.Lock()
	c.state, _ = Next(c.state, event)
	c.result = &result
	if result.Failure != nil {
		c.errMsg = result.Failure.Message
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if result.Failure != nil {
		if c.opts.Logger != nil {
			c.opts.Logger.Error("Capture failed", "url", req.URL, "error", result.Failure.Message)
		}
		return snap
	}

	if c.opts.Logger != nil {
		c.opts.Logger.Info("Capture completed", "id", result.Success.Screenshot.ID, "bytes", len(result.Success.Image))
	}
	if c.opts.Recent != nil {
		if err := c.opts.Recent.Push(req.URL); err != nil && c.opts.Logger != nil {
			c.opts.Logger.Warn("Failed to remember url", "error", err)
		}
	}
	if c.opts.History != nil {
		// Load logs its own failures; stale history is acceptable
		_ = c.opts.History.Load(ctx, c.opts.HistoryLimit)
	}
	return snap
}

func (c *Controller) captureSync(ctx context.Context, req models.CaptureRequest) (*models.Screenshot, error) {
	return c.backend.Capture(ctx, req)
}

func (c *Controller) captureAsync(ctx context.Context, req models.CaptureRequest, onPoll func(*models.Screenshot)) (*models.Screenshot, error) {
	job, err := c.backend.CaptureAsync(ctx, req)
	if err != nil {
		return nil, err
	}
	if c.opts.Logger != nil {
		c.opts.Logger.Debug("Capture queued", "id", job.ID, "check", job.CheckStatus)
	}
	return c.backend.WaitForCapture(ctx, job.ID, c.opts.PollInterval, onPoll)
}

// Dismiss returns a finished workflow to Idle
func (c *Controller) Dismiss() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, ok := Next(c.state, EventDismiss)
	if ok {
		c.state = next
		c.result = nil
		c.errMsg = ""
	}
	return ok
}

// Download hands the previewed image to sink. It does not change the workflow state.
func (c *Controller) Download(ctx context.Context, sink Sink) (string, error) {
	c.mu.Lock()
	if c.state != Previewing || c.result == nil || c.result.Success == nil {
		c.mu.Unlock()
		return "", ErrNothingToDownload
	}
	shot := c.result.Success.Screenshot
	data := c.result.Success.Image
	mime := c.result.Success.MimeType
	format := c.request.Format
	c.mu.Unlock()

	name := shot.Filename
	if name == "" {
		name = DownloadName(shot.URL, format, c.opts.Now())
	}

	contentType := mime
	if contentType == "" {
		contentType = ContentType(name)
	}
	location, err := sink.Save(ctx, name, contentType, data)
	if err != nil {
		return "", err
	}

	if c.opts.Downloads != nil {
		rec := &models.DownloadRecord{
			ScreenshotID: shot.ID,
			URL:          shot.URL,
			Location:     location,
			SizeBytes:    int64(len(data)),
			SavedAt:      c.opts.Now(),
		}
		if err := c.opts.Downloads.InsertDownload(rec); err != nil && c.opts.Logger != nil {
			c.opts.Logger.Warn("Failed to record download", "location", location, "error", err)
		}
	}
	if c.opts.Logger != nil {
		c.opts.Logger.Info("Screenshot saved", "location", location)
	}
	return location, nil
}
