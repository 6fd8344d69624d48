// Package tui is the terminal front end of the console: a transcript pane,
// the evidence dashboard, a prompt and the report pane.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/zhouzirui/honeypot-console/internal/backend"
	"github.com/zhouzirui/honeypot-console/internal/service/session"
	"github.com/zhouzirui/honeypot-console/internal/service/transcript"
)

const (
	defaultWidth   = 100
	defaultHeight  = 30
	dashboardWidth = 36
	inputLimit     = 2000
)

// Options configures the front end.
type Options struct {
	NoColor     bool
	SkipConfirm bool
	Logger      *zap.Logger
}

type pane int

const (
	paneLog pane = iota
	paneReport
)

// Model is the bubbletea model. It must be used through a pointer: the
// controller holds a binding to the prompt field inside it.
type Model struct {
	ctx    context.Context
	ctrl   *session.Controller
	opts   Options
	logger *zap.Logger
	styles styles

	input      textinput.Model
	logView    viewport.Model
	reportView viewport.Model
	spinner    spinner.Model
	renderer   *glamour.TermRenderer

	notices    *noticeBox
	notice     string
	confirming bool
	resetting  bool
	exporting  int
	ticking    bool
	follow     bool
	focus      pane
	pending    *session.Turn

	width, height int
	rendererWidth int
	reportStamp   string
}

// New builds the model and the controller behind it.
func New(ctx context.Context, client backend.Client, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Model{
		ctx:     ctx,
		opts:    opts,
		logger:  logger.Named("tui"),
		styles:  newStyles(opts.NoColor),
		notices: &noticeBox{},
		width:   defaultWidth,
		height:  defaultHeight,
	}

	m.input = textinput.New()
	m.input.Placeholder = "Type a reply to the scammer..."
	m.input.Prompt = "> "
	m.input.CharLimit = inputLimit
	m.input.Focus()

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot

	m.logView = viewport.New(defaultWidth-dashboardWidth, defaultHeight-4)
	m.reportView = viewport.New(defaultWidth, 0)

	m.ctrl = session.New(client,
		session.WithLogger(logger),
		session.WithInput(inputBinding{field: &m.input}),
		session.WithScroller(transcript.ScrollFunc(func() { m.follow = true })),
		session.WithNotifier(m.notices),
	)

	m.refresh()
	return m
}

// Controller exposes the controller driving this model.
func (m *Model) Controller() *session.Controller {
	return m.ctrl
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, client backend.Client, opts Options) error {
	m := New(ctx, client, opts)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

func newRenderer(width int, noColor bool) (*glamour.TermRenderer, error) {
	style := "dark"
	if noColor {
		style = "notty"
	}
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
}
