package tui

import (
	"context"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/honeypot-console/internal/backend"
	"github.com/zhouzirui/honeypot-console/internal/backendtest"
	"github.com/zhouzirui/honeypot-console/internal/model/chat"
	"github.com/zhouzirui/honeypot-console/internal/model/evidence"
	"github.com/zhouzirui/honeypot-console/internal/service/dashboard"
	"github.com/zhouzirui/honeypot-console/internal/service/report"
)

func newTestModel(t *testing.T, srv *backendtest.Server, opts Options) *Model {
	t.Helper()
	client, err := backend.NewHTTPClient(srv.URL)
	require.NoError(t, err)
	opts.NoColor = true
	m := New(context.Background(), client, opts)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// collect runs cmd and any batched commands it expands to.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// deliver feeds every message of the given type produced by cmd back into m.
func deliver[T tea.Msg](t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	delivered := false
	for _, msg := range collect(cmd) {
		if _, ok := msg.(T); ok {
			m.Update(msg)
			delivered = true
		}
	}
	require.True(t, delivered, "expected a %T from the command", *new(T))
}

func pressEnter(m *Model) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func typeAndSend(m *Model, text string) tea.Cmd {
	m.input.SetValue(text)
	return pressEnter(m)
}

func roles(messages []chat.Message) []chat.Role {
	out := make([]chat.Role, len(messages))
	for i, msg := range messages {
		out[i] = msg.Role
	}
	return out
}

func TestEnterWithBlankInputDoesNothing(t *testing.T) {
	srv := backendtest.New(t)
	m := newTestModel(t, srv, Options{})

	cmd := typeAndSend(m, "   ")

	assert.Nil(t, cmd)
	assert.Empty(t, m.ctrl.Messages())
	assert.Empty(t, srv.ChatRequests())
	assert.True(t, m.input.Focused())
}

func TestSubmitRoundTrip(t *testing.T) {
	srv := backendtest.New(t)
	m := newTestModel(t, srv, Options{})

	cmd := typeAndSend(m, "Hello")
	require.NotNil(t, cmd)

	assert.Equal(t, []chat.Role{chat.RoleUser, chat.RoleAssistant}, roles(m.ctrl.Messages()))
	assert.False(t, m.input.Focused())
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "waiting for the agent")

	deliver[turnSettledMsg](t, m, cmd)

	messages := m.ctrl.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "ok", messages[1].Text)
	assert.True(t, m.input.Focused())
	assert.Contains(t, m.View(), "ok")

	requests := srv.ChatRequests()
	require.Len(t, requests, 1)
	assert.Equal(t, "Hello", requests[0].Message)
	assert.Equal(t, m.ctrl.Session().ID, requests[0].SessionID)
}

func TestSendCommandSubmitsRest(t *testing.T) {
	srv := backendtest.New(t)
	m := newTestModel(t, srv, Options{})

	deliver[turnSettledMsg](t, m, typeAndSend(m, "/send /report is not a command here"))

	requests := srv.ChatRequests()
	require.Len(t, requests, 1)
	assert.Equal(t, "/report is not a command here", requests[0].Message)
}

func TestEnterIgnoredWhileTurnInFlight(t *testing.T) {
	srv := backendtest.New(t)
	m := newTestModel(t, srv, Options{})

	first := typeAndSend(m, "first")
	require.NotNil(t, first)

	second := typeAndSend(m, "second")
	assert.Nil(t, second)
	assert.Len(t, m.ctrl.Messages(), 2)

	deliver[turnSettledMsg](t, m, first)
	assert.Len(t, srv.ChatRequests(), 1)
}

func TestFailedTurnShowsSystemMessage(t *testing.T) {
	srv := backendtest.New(t)
	srv.OnChat(func(_ *http.Request, _ backend.ChatRequest) backendtest.Reply {
		return backendtest.Reply{Status: http.StatusOK, Raw: "<html>"}
	})
	m := newTestModel(t, srv, Options{})

	deliver[turnSettledMsg](t, m, typeAndSend(m, "Hello"))

	assert.Equal(t, []chat.Role{chat.RoleUser, chat.RoleSystem}, roles(m.ctrl.Messages()))
	assert.Contains(t, m.View(), "Connection unstable")
	assert.True(t, m.input.Focused())
}

func TestDashboardShowsExtractedEvidence(t *testing.T) {
	srv := backendtest.New(t)
	srv.OnChat(func(_ *http.Request, _ backend.ChatRequest) backendtest.Reply {
		return backendtest.Reply{Status: http.StatusOK, Body: map[string]any{
			"response":       "Which UPI?",
			"risk_level":     "HIGH",
			"extracted_info": map[string]any{"upi_ids": []string{"9876543210@upi"}},
		}}
	})
	m := newTestModel(t, srv, Options{})

	deliver[turnSettledMsg](t, m, typeAndSend(m, "pay to 9876543210@upi"))

	board := m.ctrl.Dashboard()
	require.Equal(t, evidence.FieldUPIIDs, board.Fields[0].Field)
	assert.Equal(t, dashboard.StatePopulated, board.Fields[0].State)
	assert.Equal(t, []string{"9876543210@upi"}, board.Fields[0].Items)
	assert.True(t, board.Status.Alert)

	view := m.View()
	assert.Contains(t, view, "HIGH")
	assert.GreaterOrEqual(t, strings.Count(view, "9876543210@upi"), 2)
}

func TestReportCommandOpensPanel(t *testing.T) {
	srv := backendtest.New(t)
	m := newTestModel(t, srv, Options{})

	cmd := typeAndSend(m, "/report")
	require.NotNil(t, cmd)
	assert.Empty(t, m.ctrl.Messages())
	assert.Contains(t, m.View(), report.BusyLabel)

	deliver[reportDoneMsg](t, m, cmd)

	panel := m.ctrl.ReportPanel()
	require.True(t, panel.Visible)
	view := m.View()
	assert.Contains(t, view, "Evidence report")
	assert.Contains(t, view, "scam detected: yes")
	assert.Contains(t, view, report.IdleLabel)
	assert.Equal(t, []string{m.ctrl.Session().ID}, srv.ReportRequests())
}

func TestReportFailureRaisesNotice(t *testing.T) {
	srv := backendtest.New(t)
	srv.OnResults(func(_ *http.Request, _ string) backendtest.Reply {
		return backendtest.Reply{Status: http.StatusInternalServerError, Raw: "boom"}
	})
	m := newTestModel(t, srv, Options{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	deliver[reportDoneMsg](t, m, cmd)

	assert.Equal(t, report.RetryNotice, m.notice)
	assert.False(t, m.ctrl.ReportPanel().Visible)
	assert.Contains(t, m.View(), report.RetryNotice)

	assert.Nil(t, pressEnter(m))
	assert.Empty(t, m.notice)
	assert.Empty(t, m.ctrl.Messages())
}

func TestResetDeclined(t *testing.T) {
	srv := backendtest.New(t)
	m := newTestModel(t, srv, Options{})
	before := m.ctrl.Session().ID

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Nil(t, cmd)
	assert.True(t, m.confirming)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.Nil(t, cmd)
	assert.False(t, m.confirming)
	assert.Equal(t, before, m.ctrl.Session().ID)
	assert.Empty(t, srv.ResetRequests())
}

func TestResetConfirmed(t *testing.T) {
	srv := backendtest.New(t)
	m := newTestModel(t, srv, Options{})
	deliver[turnSettledMsg](t, m, typeAndSend(m, "Hello"))
	before := m.ctrl.Session().ID

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)
	deliver[resetDoneMsg](t, m, cmd)

	assert.Equal(t, []string{before}, srv.ResetRequests())
	assert.NotEqual(t, before, m.ctrl.Session().ID)
	assert.Empty(t, m.ctrl.Messages())
	assert.True(t, m.input.Focused())
}

func TestResetSkipsConfirmationWhenConfigured(t *testing.T) {
	srv := backendtest.New(t)
	srv.OnReset(func(_ *http.Request, _ string) backendtest.Reply {
		return backendtest.Reply{Status: http.StatusInternalServerError, Raw: "down"}
	})
	m := newTestModel(t, srv, Options{SkipConfirm: true})
	before := m.ctrl.Session().ID

	cmd := typeAndSend(m, "/reset")
	require.NotNil(t, cmd)
	assert.False(t, m.confirming)
	deliver[resetDoneMsg](t, m, cmd)

	assert.NotEqual(t, before, m.ctrl.Session().ID)
}

func TestQuitCommand(t *testing.T) {
	srv := backendtest.New(t)
	m := newTestModel(t, srv, Options{})

	msgs := collect(typeAndSend(m, "/quit"))
	require.Len(t, msgs, 1)
	assert.IsType(t, tea.QuitMsg{}, msgs[0])
}

func TestSpinnerStopsWhenIdle(t *testing.T) {
	srv := backendtest.New(t)
	m := newTestModel(t, srv, Options{})

	_, cmd := m.Update(m.spinner.Tick())
	assert.Nil(t, cmd)
	assert.False(t, m.ticking)
}

func TestReplyMatchingPlaceholderTextIsNotDrawnAsPending(t *testing.T) {
	srv := backendtest.New(t)
	srv.OnChat(func(_ *http.Request, _ backend.ChatRequest) backendtest.Reply {
		return backendtest.Reply{Status: http.StatusOK, Body: map[string]any{"response": "..."}}
	})
	m := newTestModel(t, srv, Options{})
	frame := strings.TrimSpace(m.spinner.View())

	cmd := typeAndSend(m, "Hello")
	assert.Contains(t, m.logView.View(), frame)

	deliver[turnSettledMsg](t, m, cmd)

	messages := m.ctrl.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "...", messages[1].Text)
	assert.Nil(t, m.pending)
	assert.NotContains(t, m.logView.View(), frame)
}

func TestSpinnerTickRedrawsPendingPlaceholder(t *testing.T) {
	srv := backendtest.New(t)
	m := newTestModel(t, srv, Options{})

	cmd := typeAndSend(m, "Hello")
	require.NotNil(t, cmd)
	before := strings.TrimSpace(m.spinner.View())

	m.Update(m.spinner.Tick())

	after := strings.TrimSpace(m.spinner.View())
	require.NotEqual(t, before, after)
	assert.Contains(t, m.logView.View(), after)
	assert.NotContains(t, m.logView.View(), before)
}

func TestEnterIgnoredWhileResetting(t *testing.T) {
	srv := backendtest.New(t)
	m := newTestModel(t, srv, Options{SkipConfirm: true})

	_, reset := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, reset)
	require.True(t, m.resetting)

	assert.Nil(t, typeAndSend(m, "lost words"))
	assert.Empty(t, m.ctrl.Messages())
	assert.Equal(t, "lost words", m.input.Value())

	deliver[resetDoneMsg](t, m, reset)
	assert.False(t, m.resetting)
	assert.Empty(t, srv.ChatRequests())
}

func TestBareSendCommandSendsNothing(t *testing.T) {
	srv := backendtest.New(t)
	m := newTestModel(t, srv, Options{})

	assert.Nil(t, typeAndSend(m, "/send  "))
	assert.Empty(t, m.ctrl.Messages())
	assert.Empty(t, srv.ChatRequests())
	assert.True(t, m.input.Focused())
}
