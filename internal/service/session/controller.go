// Package session owns the state of one console session: its identity, the
// message log, the evidence dashboard and the report pane, and the request
// lifecycle that moves a user turn through them.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/zhouzirui/honeypot-console/internal/backend"
	"github.com/zhouzirui/honeypot-console/internal/model/chat"
	"github.com/zhouzirui/honeypot-console/internal/model/evidence"
	"github.com/zhouzirui/honeypot-console/internal/service/dashboard"
	"github.com/zhouzirui/honeypot-console/internal/service/report"
	"github.com/zhouzirui/honeypot-console/internal/service/transcript"
)

const (
	// PlaceholderText is the transient assistant entry shown while a turn is in flight.
	PlaceholderText = "..."
	// ConnectionFailure prefixes the system message appended when a turn fails.
	ConnectionFailure = "System Error: Connection unstable."
	// ResetPrompt is the question asked before a reset.
	ResetPrompt = "Are you sure you want to clear this evidence?"
)

var (
	ErrEmptyInput   = errors.New("message is empty")
	ErrTurnInFlight = errors.New("a turn is already in flight")
)

// InputView is the text input the controller drives. Implementations must not
// call back into the Controller.
type InputView interface {
	SetEnabled(enabled bool)
	Clear()
	Focus()
}

type noopInput struct{}

func (noopInput) SetEnabled(bool) {}
func (noopInput) Clear()          {}
func (noopInput) Focus()          {}

// Confirmer gates destructive actions behind an explicit answer.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInput binds the text input view.
func WithInput(input InputView) Option {
	return func(c *Controller) {
		if input != nil {
			c.input = input
		}
	}
}

// WithScroller binds the log view's auto-scroll hook.
func WithScroller(scroller transcript.Scroller) Option {
	return func(c *Controller) { c.scroller = scroller }
}

// WithNotifier binds the blocking notice used by report export.
func WithNotifier(notifier report.Notifier) Option {
	return func(c *Controller) { c.notifier = notifier }
}

// Controller serialises user turns and owns every piece of session state.
type Controller struct {
	client   backend.Client
	logger   *zap.Logger
	input    InputView
	scroller transcript.Scroller
	notifier report.Notifier

	mu       sync.Mutex
	session  chat.Session
	log      *transcript.Log
	board    *dashboard.Board
	exporter *report.Exporter
	inFlight bool
	turns    uint64
}

// New constructs the controller and mints its first session.
func New(client backend.Client, opts ...Option) *Controller {
	c := &Controller{
		client: client,
		logger: zap.NewNop(),
		input:  noopInput{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.exporter = report.NewExporter(client, c.notifier, c.logger)
	c.reload()
	return c
}

// Turn is one outstanding user message, created by Begin.
type Turn struct {
	Seq         uint64
	Session     chat.Session
	Text        string
	Placeholder transcript.Handle

	client backend.Client
}

// TurnResult is the outcome of Turn.Send, consumed by Settle.
type TurnResult struct {
	Turn     *Turn
	Response backend.ChatResponse
	Err      error
}

// Send issues the chat request. It touches no controller state and may run
// on any goroutine.
func (t *Turn) Send(ctx context.Context) TurnResult {
	resp, err := t.client.Chat(ctx, backend.ChatRequest{
		SessionID: t.Session.ID,
		Message:   t.Text,
	})
	return TurnResult{Turn: t, Response: resp, Err: err}
}

// Submit runs a whole turn: Begin, Send, Settle. Transport failures are
// reported in the log, not returned.
func (c *Controller) Submit(ctx context.Context, text string) error {
	turn, err := c.Begin(text)
	if err != nil {
		return err
	}
	c.Settle(turn.Send(ctx))
	return nil
}

// Begin starts a turn: the trimmed text is logged as the user's message, the
// input is cleared and disabled, and the placeholder is appended.
func (c *Controller) Begin(text string) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return nil, ErrTurnInFlight
	}
	c.inFlight = true
	c.turns++

	c.log.Append(text, chat.RoleUser)
	c.input.Clear()
	c.input.SetEnabled(false)
	placeholder := c.log.Append(PlaceholderText, chat.RoleAssistant)

	c.logger.Debug("turn started",
		zap.String("session_id", c.session.ID),
		zap.Uint64("turn", c.turns))

	return &Turn{
		Seq:         c.turns,
		Session:     c.session,
		Text:        text,
		Placeholder: placeholder,
		client:      c.client,
	}, nil
}

// Settle finishes a turn. The placeholder is removed on every path and the
// input is re-enabled and focused. Results from a session that has since
// been reset are dropped.
func (c *Controller) Settle(res TurnResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	turn := res.Turn
	if turn == nil || turn.Session.ID != c.session.ID || turn.Seq != c.turns {
		c.logger.Info("dropping result of a stale turn", zap.Error(res.Err))
		return
	}

	defer func() {
		c.inFlight = false
		c.input.SetEnabled(true)
		c.input.Focus()
	}()

	c.log.Remove(turn.Placeholder)

	if res.Err != nil {
		c.logger.Warn("chat request failed",
			zap.String("session_id", turn.Session.ID),
			zap.Uint64("turn", turn.Seq),
			zap.Error(res.Err))
		c.log.Append(failureText(res.Err), chat.RoleSystem)
		return
	}

	if reply := res.Response.Response; reply != "" {
		c.log.Append(reply, chat.RoleAssistant)
	}

	if err := c.reconcile(res.Response); err != nil {
		c.logger.Warn("dashboard update failed",
			zap.String("session_id", turn.Session.ID),
			zap.Uint64("turn", turn.Seq),
			zap.Error(err))
	}
}

func (c *Controller) reconcile(resp backend.ChatResponse) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reconcile panicked: %v", r)
		}
	}()

	extraction, err := evidence.ParseExtraction(resp.ExtractedInfo)
	if err != nil {
		return err
	}
	c.board.Reconcile(extraction, evidence.RiskLevel(resp.RiskLevel))
	return nil
}

func failureText(err error) string {
	if detail := err.Error(); detail != "" {
		return fmt.Sprintf("%s (%s)", ConnectionFailure, detail)
	}
	return ConnectionFailure
}

// ExportReport fetches the evidence report for the current session.
func (c *Controller) ExportReport(ctx context.Context) (report.Panel, error) {
	return c.exporter.Export(ctx, c.Session().ID)
}

// Reset asks confirm, and on a yes destroys the server-side session and
// reloads. The server call is best effort: its outcome is logged and the
// reload happens regardless. A nil confirm skips the question.
func (c *Controller) Reset(ctx context.Context, confirm Confirmer) bool {
	if confirm != nil && !confirm.Confirm(ResetPrompt) {
		return false
	}
	c.DiscardRemote(ctx)
	c.Reload()
	return true
}

// DiscardRemote issues the reset call for the current session and logs the
// outcome. It never fails.
func (c *Controller) DiscardRemote(ctx context.Context) {
	sessionID := c.Session().ID
	if err := c.client.Reset(ctx, sessionID); err != nil {
		c.logger.Warn("session reset request failed, reloading anyway",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return
	}
	c.logger.Info("session reset", zap.String("session_id", sessionID))
}

// Reload discards all client state and mints a new session, as a fresh start would.
func (c *Controller) Reload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reload()
	c.input.Clear()
	c.input.SetEnabled(true)
	c.input.Focus()
}

func (c *Controller) reload() {
	previous := c.session.ID
	c.session = chat.NewSession()
	c.log = transcript.New(c.scroller)
	c.board = dashboard.New()
	c.exporter.Clear()
	c.inFlight = false

	c.logger.Info("session started",
		zap.String("session_id", c.session.ID),
		zap.String("previous_session_id", previous))
}

// Session returns the current session identity.
func (c *Controller) Session() chat.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Messages returns the visible log.
func (c *Controller) Messages() []chat.Message {
	c.mu.Lock()
	log := c.log
	c.mu.Unlock()
	return log.Messages()
}

// InputEnabled reports whether a new turn may be submitted.
func (c *Controller) InputEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.inFlight
}

// Dashboard returns the current evidence panel.
func (c *Controller) Dashboard() dashboard.Snapshot {
	c.mu.Lock()
	board := c.board
	c.mu.Unlock()
	return board.Snapshot()
}

// ReportPanel returns the report pane state.
func (c *Controller) ReportPanel() report.Panel {
	return c.exporter.Panel()
}

// ReportLabel returns the report control label.
func (c *Controller) ReportLabel() string {
	return c.exporter.Label()
}
