// Package backendtest runs an in-process stand-in for the analysis backend.
// Handlers are scripted per test; every request is recorded.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/honeypot-console/internal/backend"
	"github.com/zhouzirui/honeypot-console/pkg/utils"
)

// Reply describes one scripted response. Raw, when set, is written verbatim
// instead of JSON-encoding Body.
type Reply struct {
	Status int
	Body   any
	Raw    string
}

// ChatFunc scripts POST /api/chat.
type ChatFunc func(r *http.Request, req backend.ChatRequest) Reply

// SessionFunc scripts the per-session endpoints.
type SessionFunc func(r *http.Request, sessionID string) Reply

// SampleReport is the default body of GET /api/results/{session_id}.
var SampleReport = map[string]any{
	"status":       "success",
	"scamDetected": true,
	"extractedIntelligence": map[string]any{
		"phoneNumbers":   []string{},
		"bankAccounts":   []string{},
		"upiIds":         []string{"9876543210@upi"},
		"phishingLinks":  []string{},
		"emailAddresses": []string{},
	},
	"engagementMetrics": map[string]any{
		"engagementDurationSeconds": 65,
		"messageCount":              2,
	},
	"agentNotes": "Evaluated interaction.",
}

// Server is a scripted backend.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	chat    ChatFunc
	results SessionFunc
	reset   SessionFunc
	history SessionFunc

	chats   []backend.ChatRequest
	reports []string
	resets  []string
}

// New starts a server with default handlers and closes it on test cleanup.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		chat: func(_ *http.Request, req backend.ChatRequest) Reply {
			return Reply{Status: http.StatusOK, Body: map[string]any{
				"response":   "ok",
				"risk_level": "LOW",
			}}
		},
		results: func(_ *http.Request, _ string) Reply {
			return Reply{Status: http.StatusOK, Body: SampleReport}
		},
		reset: func(_ *http.Request, _ string) Reply {
			return Reply{Status: http.StatusOK, Body: map[string]string{
				"status":  "success",
				"message": "Session cleared",
			}}
		},
		history: func(_ *http.Request, _ string) Reply {
			return Reply{Status: http.StatusOK, Body: []any{}}
		},
	}

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		api.Post("/chat", s.handleChat)
		api.Get("/results/{sessionID}", s.handleResults)
		api.Get("/history/{sessionID}", s.handleHistory)
		api.Delete("/reset/{sessionID}", s.handleReset)
	})
	return r
}

// OnChat replaces the chat handler.
func (s *Server) OnChat(fn ChatFunc) {
	s.mu.Lock()
	s.chat = fn
	s.mu.Unlock()
}

// OnResults replaces the report handler.
func (s *Server) OnResults(fn SessionFunc) {
	s.mu.Lock()
	s.results = fn
	s.mu.Unlock()
}

// OnReset replaces the reset handler.
func (s *Server) OnReset(fn SessionFunc) {
	s.mu.Lock()
	s.reset = fn
	s.mu.Unlock()
}

// OnHistory replaces the history handler.
func (s *Server) OnHistory(fn SessionFunc) {
	s.mu.Lock()
	s.history = fn
	s.mu.Unlock()
}

// ChatRequests returns the decoded chat bodies received so far.
func (s *Server) ChatRequests() []backend.ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]backend.ChatRequest(nil), s.chats...)
}

// ReportRequests returns the session ids of report requests received so far.
func (s *Server) ReportRequests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.reports...)
}

// ResetRequests returns the session ids of reset requests received so far.
func (s *Server) ResetRequests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.resets...)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req backend.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	s.mu.Lock()
	s.chats = append(s.chats, req)
	fn := s.chat
	s.mu.Unlock()

	write(w, fn(r, req))
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	s.mu.Lock()
	s.reports = append(s.reports, sessionID)
	fn := s.results
	s.mu.Unlock()

	write(w, fn(r, sessionID))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	s.mu.Lock()
	fn := s.history
	s.mu.Unlock()

	write(w, fn(r, sessionID))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	s.mu.Lock()
	s.resets = append(s.resets, sessionID)
	fn := s.reset
	s.mu.Unlock()

	write(w, fn(r, sessionID))
}

func write(w http.ResponseWriter, reply Reply) {
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	if reply.Raw != "" {
		utils.RespondRaw(w, status, "text/html; charset=utf-8", []byte(reply.Raw))
		return
	}
	utils.RespondJSON(w, status, reply.Body)
}
