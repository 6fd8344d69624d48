// Package backend is the HTTP client for the analysis service the console
// talks to: chat turns, evidence reports, history and session reset.
package backend

import "encoding/json"

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatResponse is the reply to POST /api/chat. Every field is optional and
// any other key the backend sends is ignored. ExtractedInfo stays raw so
// that a malformed extraction does not fail the whole turn; see
// evidence.ParseExtraction.
type ChatResponse struct {
	Response      string          `json:"response,omitempty"`
	RiskLevel     string          `json:"risk_level,omitempty"`
	ExtractedInfo json.RawMessage `json:"extracted_info,omitempty"`
}

// HistoryEntry is one stored row returned by GET /api/history/{session_id}.
type HistoryEntry struct {
	ID        int64           `json:"id"`
	SessionID string          `json:"session_id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Meta      json.RawMessage `json:"meta,omitempty"`
	Timestamp string          `json:"timestamp"`
}
