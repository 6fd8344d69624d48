package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/zhouzirui/honeypot-console/internal/service/report"
	"github.com/zhouzirui/honeypot-console/internal/service/session"
)

type turnSettledMsg struct {
	result session.TurnResult
}

type reportDoneMsg struct {
	panel report.Panel
	err   error
}

type resetDoneMsg struct{}

func sendCmd(m *Model, turn *session.Turn) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return turnSettledMsg{result: turn.Send(ctx)}
	}
}

func exportCmd(m *Model) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		panel, err := ctrl.ExportReport(ctx)
		return reportDoneMsg{panel: panel, err: err}
	}
}

func resetCmd(m *Model) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		ctrl.DiscardRemote(ctx)
		return resetDoneMsg{}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case turnSettledMsg:
		if msg.result.Turn == m.pending {
			m.pending = nil
		}
		m.ctrl.Settle(msg.result)
		m.refresh()
		return m, nil

	case reportDoneMsg:
		m.exporting--
		if notice := m.notices.take(); notice != "" {
			m.notice = notice
		}
		if msg.err != nil {
			m.logger.Debug("report export finished with error", zap.Error(msg.err))
		} else {
			m.focus = paneReport
		}
		m.refresh()
		return m, nil

	case resetDoneMsg:
		m.resetting = false
		m.notice = ""
		m.focus = paneLog
		m.pending = nil
		m.ctrl.Reload()
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			m.ticking = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.pending != nil {
			m.refresh()
		}
		return m, cmd
	}

	if m.ctrl.InputEnabled() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) busy() bool {
	return !m.ctrl.InputEnabled() || m.exporting > 0 || m.resetting
}

// tick starts the spinner unless it is already running.
func (m *Model) tick() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return m.spinner.Tick
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.confirming {
		m.confirming = false
		if strings.EqualFold(msg.String(), "y") {
			return m, m.startReset()
		}
		return m, nil
	}

	if m.notice != "" {
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
			m.notice = ""
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m, m.submit()
	case tea.KeyCtrlE:
		return m, m.startExport()
	case tea.KeyCtrlR:
		return m, m.askReset()
	case tea.KeyTab:
		if m.ctrl.ReportPanel().Visible && m.focus == paneLog {
			m.focus = paneReport
		} else {
			m.focus = paneLog
		}
		return m, nil
	case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		if m.focus == paneReport {
			m.reportView, cmd = m.reportView.Update(msg)
		} else {
			m.logView, cmd = m.logView.Update(msg)
		}
		return m, cmd
	}

	if !m.ctrl.InputEnabled() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles Enter in the prompt. Slash commands are consumed here;
// anything else becomes a turn.
func (m *Model) submit() tea.Cmd {
	if !m.ctrl.InputEnabled() || m.resetting {
		return nil
	}

	raw := m.input.Value()
	if cmd, ok := m.command(strings.TrimSpace(raw)); ok {
		return cmd
	}
	if rest, ok := strings.CutPrefix(strings.TrimSpace(raw), "/send "); ok {
		raw = rest
	}

	turn, err := m.ctrl.Begin(raw)
	if err != nil {
		if !errors.Is(err, session.ErrEmptyInput) {
			m.logger.Debug("turn not started", zap.Error(err))
		}
		return nil
	}
	m.pending = turn
	m.refresh()
	return tea.Batch(sendCmd(m, turn), m.tick())
}

func (m *Model) command(line string) (tea.Cmd, bool) {
	switch line {
	case "/report":
		m.input.SetValue("")
		return m.startExport(), true
	case "/reset":
		m.input.SetValue("")
		return m.askReset(), true
	case "/quit", "/exit":
		return tea.Quit, true
	case "/send":
		return nil, true
	}
	return nil, false
}

func (m *Model) startExport() tea.Cmd {
	m.exporting++
	return tea.Batch(exportCmd(m), m.tick())
}

func (m *Model) askReset() tea.Cmd {
	if m.resetting {
		return nil
	}
	if m.opts.SkipConfirm {
		return m.startReset()
	}
	m.confirming = true
	return nil
}

func (m *Model) startReset() tea.Cmd {
	if m.resetting {
		return nil
	}
	m.resetting = true
	return tea.Batch(resetCmd(m), m.tick())
}
