package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/zhouzirui/honeypot-console/internal/model/chat"
	"github.com/zhouzirui/honeypot-console/internal/model/evidence"
	"github.com/zhouzirui/honeypot-console/internal/service/dashboard"
	"github.com/zhouzirui/honeypot-console/internal/service/report"
	"github.com/zhouzirui/honeypot-console/internal/service/session"
	"github.com/zhouzirui/honeypot-console/pkg/utils"
)

const (
	headerLines = 1
	promptLines = 1
	helpLines   = 1
	noticeLines = 1
	minPaneSize = 3
)

// View implements tea.Model.
func (m *Model) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.logView.View(),
		m.styles.pane.Render(m.renderDashboard(dashboardWidth-2)),
	)

	sections := []string{m.renderHeader(), body}
	if m.ctrl.ReportPanel().Visible {
		sections = append(sections, m.reportView.View())
	}
	sections = append(sections, m.renderPrompt())
	if line := m.renderNotice(); line != "" {
		sections = append(sections, line)
	}
	sections = append(sections, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// refresh recomputes pane sizes and content from the controller.
func (m *Model) refresh() {
	panel := m.ctrl.ReportPanel()

	logWidth := max(m.width-dashboardWidth, minPaneSize*4)
	reportHeight := 0
	if panel.Visible {
		reportHeight = max(m.height/3, minPaneSize)
	}
	logHeight := m.height - headerLines - promptLines - helpLines - noticeLines - reportHeight
	m.logView.Width = logWidth
	m.logView.Height = max(logHeight, minPaneSize)
	m.reportView.Width = m.width
	m.reportView.Height = reportHeight

	m.logView.SetContent(m.renderLog(logWidth))
	if m.follow {
		m.logView.GotoBottom()
		m.follow = false
	}

	if !panel.Visible {
		m.reportStamp = ""
		return
	}
	stamp := panel.SessionID + panel.FetchedAt.String()
	if stamp != m.reportStamp || m.rendererWidth != m.width {
		m.reportView.SetContent(m.renderReport(panel))
		m.reportView.GotoTop()
		m.reportStamp = stamp
	}
}

func (m *Model) renderHeader() string {
	sess := m.ctrl.Session()
	status := m.ctrl.Dashboard().Status
	return m.styles.header.Render("Honeypot Console") +
		"  session " + sess.ID + "  " + m.statusStyle(status).Render(status.Label)
}

func (m *Model) statusStyle(status dashboard.Status) lipgloss.Style {
	if status.Alert {
		return m.styles.alert
	}
	return m.styles.normal
}

func (m *Model) renderLog(width int) string {
	messages := m.ctrl.Messages()
	if len(messages) == 0 {
		return m.styles.help.Render("No messages yet. Paste the scammer's text and press enter.")
	}

	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		blocks = append(blocks, m.renderMessage(msg, width))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *Model) renderMessage(msg chat.Message, width int) string {
	var speaker string
	var style lipgloss.Style
	switch msg.Role {
	case chat.RoleUser:
		speaker, style = "You", m.styles.user
	case chat.RoleAssistant:
		speaker, style = "Agent", m.styles.assistant
	default:
		speaker, style = "System", m.styles.system
	}

	text := utils.SafeText(msg.Text)
	if m.pending != nil && msg.ID == uint64(m.pending.Placeholder) {
		text = m.spinner.View() + " " + text
	}
	wrapped := wordwrap.String(text, max(width-2, minPaneSize))
	return style.Render(speaker) + "\n" + m.styles.body.Render(wrapped)
}

func (m *Model) renderDashboard(width int) string {
	snap := m.ctrl.Dashboard()

	lines := []string{
		m.styles.fieldHeading.Render("Risk"),
		m.statusStyle(snap.Status).Render(truncate.StringWithTail(snap.Status.Label, uint(width), "…")),
	}
	for _, view := range snap.Fields {
		lines = append(lines, "", m.styles.fieldHeading.Render(view.Field.Label()))
		for _, line := range view.Lines() {
			style := m.styles.item
			if view.State == dashboard.StateEmpty {
				style = m.styles.empty
			}
			lines = append(lines, style.Render(truncate.StringWithTail(line, uint(width), "…")))
		}
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderReport(panel report.Panel) string {
	if m.renderer == nil || m.rendererWidth != m.width {
		renderer, err := newRenderer(max(m.width-4, minPaneSize*4), m.opts.NoColor)
		if err != nil {
			m.logger.Warn("report renderer unavailable", zap.Error(err))
		}
		m.renderer = renderer
		m.rendererWidth = m.width
	}

	var b strings.Builder
	b.WriteString(m.styles.summary.Render("Evidence report"))
	if panel.HasSummary {
		b.WriteString("  " + summaryLine(panel.Summary))
	}
	b.WriteString("\n")
	if panel.HasSummary && panel.Summary.Notes != "" {
		b.WriteString(wordwrap.String(utils.SafeText(panel.Summary.Notes), max(m.width-2, minPaneSize)))
		b.WriteString("\n")
	}

	body := utils.SafeText(panel.Pretty)
	if m.renderer != nil {
		if out, err := m.renderer.Render("```json\n" + body + "\n```\n"); err == nil {
			body = out
		}
	}
	b.WriteString(body)
	return b.String()
}

func summaryLine(s evidence.Summary) string {
	detected := "no"
	if s.ScamDetected {
		detected = "yes"
	}
	return fmt.Sprintf("scam detected: %s · messages: %d · intelligence items: %d",
		detected, s.MessageCount, s.Intelligence)
}

func (m *Model) renderPrompt() string {
	if !m.ctrl.InputEnabled() {
		return m.spinner.View() + " waiting for the agent..."
	}
	return m.input.View()
}

func (m *Model) renderNotice() string {
	switch {
	case m.confirming:
		return m.styles.notice.Render(session.ResetPrompt + " [y/N]")
	case m.notice != "":
		return m.styles.notice.Render(m.notice + "  (enter to dismiss)")
	case m.resetting:
		return m.spinner.View() + " resetting session..."
	}
	return ""
}

func (m *Model) renderHelp() string {
	label := m.ctrl.ReportLabel()
	if m.exporting > 0 {
		label = report.BusyLabel
	}
	return m.styles.help.Render(
		"enter send · ctrl+e " + label + " · ctrl+r reset · tab switch pane · ctrl+c quit")
}
