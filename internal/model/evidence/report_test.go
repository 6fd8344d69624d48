package evidence

import (
	"errors"
	"testing"
	"time"
)

const sampleReport = `{"status":"success","scamDetected":true,"extractedIntelligence":{"phoneNumbers":["9876543210"],"upiIds":["a@upi","b@upi"],"emailAddresses":[]},"engagementMetrics":{"engagementDurationSeconds":65,"messageCount":6},"agentNotes":"Evaluated interaction."}`

func TestNewReportRejectsInvalidJSON(t *testing.T) {
	if _, err := NewReport([]byte("<html>"), time.Now()); !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("expected ErrInvalidReport, got %v", err)
	}
}

func TestReportPrettyKeepsOrder(t *testing.T) {
	report, err := NewReport([]byte(`{"b":1,"a":[1.50,2]}`), time.Now())
	if err != nil {
		t.Fatalf("NewReport err: %v", err)
	}

	got, err := report.Pretty()
	if err != nil {
		t.Fatalf("Pretty err: %v", err)
	}

	want := "{\n  \"b\": 1,\n  \"a\": [\n    1.50,\n    2\n  ]\n}"
	if got != want {
		t.Fatalf("unexpected pretty output:\n%s", got)
	}
}

func TestReportSummary(t *testing.T) {
	report, err := NewReport([]byte(sampleReport), time.Now())
	if err != nil {
		t.Fatalf("NewReport err: %v", err)
	}

	summary, ok := report.Summary()
	if !ok {
		t.Fatal("expected summary")
	}
	if !summary.ScamDetected || summary.MessageCount != 6 || summary.Intelligence != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Notes != "Evaluated interaction." {
		t.Fatalf("unexpected notes: %q", summary.Notes)
	}
}

func TestReportSummaryUnknownShape(t *testing.T) {
	report, err := NewReport([]byte(`{"anything":"goes"}`), time.Now())
	if err != nil {
		t.Fatalf("NewReport err: %v", err)
	}
	if _, ok := report.Summary(); ok {
		t.Fatal("expected no summary for unknown document")
	}
}
