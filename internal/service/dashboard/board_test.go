package dashboard

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zhouzirui/honeypot-console/internal/model/evidence"
)

func TestNewBoardStartsEmpty(t *testing.T) {
	board := New()
	snap := board.Snapshot()

	if len(snap.Fields) != len(evidence.Fields) {
		t.Fatalf("expected %d fields, got %d", len(evidence.Fields), len(snap.Fields))
	}
	for i, view := range snap.Fields {
		if view.Field != evidence.Fields[i] {
			t.Fatalf("field %d out of order: %s", i, view.Field)
		}
		if view.State != StateEmpty {
			t.Fatalf("field %s not empty", view.Field)
		}
		if diff := cmp.Diff([]string{EmptyMarker}, view.Lines()); diff != "" {
			t.Fatalf("field %s lines (-want +got):\n%s", view.Field, diff)
		}
	}
	if snap.Status != (Status{Label: evidence.MonitoringLabel}) {
		t.Fatalf("unexpected initial status: %+v", snap.Status)
	}
}

func TestReconcilePopulatesInOrder(t *testing.T) {
	board := New()
	board.Reconcile(&evidence.Extraction{
		PhoneNumbers: evidence.StringList{"9876543210", "9123456780"},
	}, evidence.RiskHigh)

	view := board.Field(evidence.FieldPhoneNumbers)
	if view.State != StatePopulated {
		t.Fatalf("expected populated, got %s", view.State)
	}
	if diff := cmp.Diff([]string{"9876543210", "9123456780"}, view.Lines()); diff != "" {
		t.Fatalf("lines (-want +got):\n%s", diff)
	}
	if got := board.Status(); got != (Status{Label: "HIGH", Alert: true}) {
		t.Fatalf("unexpected status: %+v", got)
	}
}

func TestReconcileEmptyListReverts(t *testing.T) {
	board := New()
	board.Reconcile(&evidence.Extraction{UPIIDs: evidence.StringList{"9876543210@upi"}}, evidence.RiskHigh)
	board.Reconcile(&evidence.Extraction{UPIIDs: evidence.StringList{}}, "")

	view := board.Field(evidence.FieldUPIIDs)
	if view.State != StateEmpty {
		t.Fatalf("expected field to revert to empty, got %s", view.State)
	}
	if got := board.Status(); got.Alert || got.Label != evidence.MonitoringLabel {
		t.Fatalf("unexpected status after revert: %+v", got)
	}
}

func TestReconcileIsFullReplace(t *testing.T) {
	board := New()
	board.Reconcile(&evidence.Extraction{
		UPIIDs:   evidence.StringList{"a@upi"},
		SusLinks: evidence.StringList{"http://bit.ly/x"},
	}, "")
	board.Reconcile(&evidence.Extraction{UPIIDs: evidence.StringList{"b@upi"}}, "")

	if got := board.Field(evidence.FieldUPIIDs).Items; !cmp.Equal(got, []string{"b@upi"}) {
		t.Fatalf("expected replacement, got %v", got)
	}
	if got := board.Field(evidence.FieldSusLinks).State; got != StateEmpty {
		t.Fatalf("omitted field should be cleared by a present extraction, got %s", got)
	}
}

func TestReconcileNilExtractionKeepsFields(t *testing.T) {
	board := New()
	board.Reconcile(&evidence.Extraction{Amounts: evidence.StringList{"5000"}}, evidence.RiskCritical)
	board.Reconcile(nil, "LOW")

	if got := board.Field(evidence.FieldAmounts); got.State != StatePopulated {
		t.Fatalf("expected amounts to survive a missing extraction, got %+v", got)
	}
	if got := board.Status(); got != (Status{Label: "LOW"}) {
		t.Fatalf("unexpected status: %+v", got)
	}
}

func TestLinesSanitizeItems(t *testing.T) {
	view := FieldView{State: StatePopulated, Items: []string{"\x1b[2Jevil\nname"}}
	if diff := cmp.Diff([]string{"evil name"}, view.Lines()); diff != "" {
		t.Fatalf("lines (-want +got):\n%s", diff)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	board := New()
	board.Reconcile(&evidence.Extraction{ScammerName: evidence.StringList{"Rahul"}}, "")

	snap := board.Snapshot()
	snap.Fields[5].Items[0] = "tampered"

	if got := board.Field(evidence.FieldScammerName).Items[0]; got != "Rahul" {
		t.Fatalf("board mutated through snapshot: %q", got)
	}
}
