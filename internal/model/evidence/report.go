package evidence

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// ErrInvalidReport is returned when the report body is not JSON.
var ErrInvalidReport = errors.New("report is not valid JSON")

// Report is the backend's evidence document for a session, kept verbatim.
type Report struct {
	Raw       json.RawMessage
	FetchedAt time.Time
}

// NewReport validates raw and wraps it.
func NewReport(raw json.RawMessage, fetchedAt time.Time) (Report, error) {
	if !json.Valid(raw) {
		return Report{}, ErrInvalidReport
	}
	copied := append(json.RawMessage(nil), raw...)
	return Report{Raw: copied, FetchedAt: fetchedAt}, nil
}

// Pretty returns the document indented by two spaces. Key order and number
// formatting are preserved.
func (r Report) Pretty() (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Summary is the handful of headline values a report usually carries.
type Summary struct {
	ScamDetected bool
	MessageCount int
	Intelligence int
	Notes        string
}

type reportHeadline struct {
	ScamDetected          *bool                      `json:"scamDetected"`
	ExtractedIntelligence map[string]json.RawMessage `json:"extractedIntelligence"`
	EngagementMetrics     *struct {
		MessageCount int `json:"messageCount"`
	} `json:"engagementMetrics"`
	AgentNotes string `json:"agentNotes"`
}

// Summary extracts the headline values. The second result is false when the
// document does not look like an evidence report.
func (r Report) Summary() (Summary, bool) {
	var headline reportHeadline
	if err := json.Unmarshal(r.Raw, &headline); err != nil || headline.ScamDetected == nil {
		return Summary{}, false
	}

	summary := Summary{
		ScamDetected: *headline.ScamDetected,
		Notes:        headline.AgentNotes,
	}
	if headline.EngagementMetrics != nil {
		summary.MessageCount = headline.EngagementMetrics.MessageCount
	}
	for _, raw := range headline.ExtractedIntelligence {
		var items StringList
		if err := json.Unmarshal(raw, &items); err == nil {
			summary.Intelligence += len(items)
		}
	}
	return summary, true
}
