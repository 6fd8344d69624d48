// Package report fetches and holds the on-demand evidence report.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/zhouzirui/honeypot-console/internal/model/evidence"
)

const (
	IdleLabel   = "Generate Evidence JSON"
	BusyLabel   = "Generating..."
	RetryNotice = "Wait for the message to process before generating report."
)

var ErrSessionRequired = errors.New("session id is required")

// Fetcher loads the raw report document for a session.
type Fetcher interface {
	Results(ctx context.Context, sessionID string) (json.RawMessage, error)
}

// Notifier surfaces a blocking notice to the user.
type Notifier interface {
	Notice(text string)
}

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(text string)

// Notice calls f.
func (f NotifyFunc) Notice(text string) { f(text) }

// Panel is what the report pane shows.
type Panel struct {
	Visible    bool
	SessionID  string
	Pretty     string
	Summary    evidence.Summary
	HasSummary bool
	FetchedAt  time.Time
}

// Exporter fetches reports on demand. Overlapping exports for the same
// session share one request.
type Exporter struct {
	fetcher  Fetcher
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time

	group singleflight.Group

	mu    sync.RWMutex
	busy  int
	gen   uint64
	panel Panel
}

// NewExporter wires an exporter. notifier and logger may be nil.
func NewExporter(fetcher Fetcher, notifier Notifier, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		fetcher:  fetcher,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Export fetches the report for sessionID and, on success, replaces the panel.
// On failure the panel is left as it was and the retry notice is raised.
func (e *Exporter) Export(ctx context.Context, sessionID string) (Panel, error) {
	if sessionID == "" {
		return Panel{}, ErrSessionRequired
	}

	gen := e.setBusy(1)
	defer e.setBusy(-1)

	v, err, shared := e.group.Do(sessionID, func() (any, error) {
		return e.fetch(ctx, sessionID)
	})
	if err != nil {
		e.logger.Warn("report export failed",
			zap.String("session_id", sessionID),
			zap.Bool("shared", shared),
			zap.Error(err))
		if e.notifier != nil && !e.stale(gen) {
			e.notifier.Notice(RetryNotice)
		}
		return Panel{}, err
	}

	panel := v.(Panel)
	e.mu.Lock()
	stale := e.gen != gen
	if !stale {
		e.panel = panel
	}
	e.mu.Unlock()
	if stale {
		e.logger.Info("discarding report of a cleared session", zap.String("session_id", sessionID))
		return panel, nil
	}

	e.logger.Info("report exported",
		zap.String("session_id", sessionID),
		zap.Bool("shared", shared),
		zap.Int("bytes", len(panel.Pretty)))
	return panel, nil
}

func (e *Exporter) fetch(ctx context.Context, sessionID string) (Panel, error) {
	raw, err := e.fetcher.Results(ctx, sessionID)
	if err != nil {
		return Panel{}, fmt.Errorf("fetch report: %w", err)
	}

	doc, err := evidence.NewReport(raw, e.now())
	if err != nil {
		return Panel{}, err
	}
	pretty, err := doc.Pretty()
	if err != nil {
		return Panel{}, fmt.Errorf("format report: %w", err)
	}

	summary, ok := doc.Summary()
	return Panel{
		Visible:    true,
		SessionID:  sessionID,
		Pretty:     pretty,
		Summary:    summary,
		HasSummary: ok,
		FetchedAt:  doc.FetchedAt,
	}, nil
}

// Label returns the control label: busy while any export is running.
func (e *Exporter) Label() string {
	if e.Busy() {
		return BusyLabel
	}
	return IdleLabel
}

// Busy reports whether an export is in progress.
func (e *Exporter) Busy() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.busy > 0
}

// Panel returns the last successfully exported report.
func (e *Exporter) Panel() Panel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.panel
}

// Clear hides the panel. Exports still running when Clear is called do not
// repopulate it.
func (e *Exporter) Clear() {
	e.mu.Lock()
	e.gen++
	e.panel = Panel{}
	e.mu.Unlock()
}

// stale reports whether Clear ran since gen was taken.
func (e *Exporter) stale(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen != gen
}

func (e *Exporter) setBusy(delta int) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy += delta
	return e.gen
}
