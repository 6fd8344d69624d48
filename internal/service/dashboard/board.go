// Package dashboard keeps the evidence panel: seven extraction fields and the
// risk status, each replaced wholesale on every reconciliation.
package dashboard

import (
	"sync"

	"github.com/zhouzirui/honeypot-console/internal/model/evidence"
	"github.com/zhouzirui/honeypot-console/pkg/utils"
)

// EmptyMarker is rendered in place of an empty field.
const EmptyMarker = "-"

// State tags how a field is rendered.
type State string

const (
	StateEmpty     State = "empty"
	StatePopulated State = "populated"
)

// FieldView is the rendered state of one field.
type FieldView struct {
	Field evidence.Field
	State State
	Items []string
}

// Lines returns one display line per item, or the empty marker.
func (v FieldView) Lines() []string {
	if v.State == StateEmpty || len(v.Items) == 0 {
		return []string{EmptyMarker}
	}
	lines := make([]string, len(v.Items))
	for i, item := range v.Items {
		lines[i] = utils.SafeLine(item)
	}
	return lines
}

// Status is the rendered risk indicator.
type Status struct {
	Label string
	Alert bool
}

// Snapshot is a copy of the whole board.
type Snapshot struct {
	Fields []FieldView
	Status Status
}

// Board is the evidence dashboard. Reconcile is its only writer.
type Board struct {
	mu     sync.RWMutex
	fields map[evidence.Field]FieldView
	status Status
}

// New returns a board with every field empty and the monitoring status.
func New() *Board {
	b := &Board{fields: make(map[evidence.Field]FieldView, len(evidence.Fields))}
	for _, field := range evidence.Fields {
		b.fields[field] = FieldView{Field: field, State: StateEmpty}
	}
	b.status = statusFor("")
	return b
}

// Reconcile replaces the displayed values with the incoming payload. A nil
// extraction leaves every field as it was; a present but empty list clears
// its field. The status is always replaced.
func (b *Board) Reconcile(extraction *evidence.Extraction, risk evidence.RiskLevel) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if extraction != nil {
		for _, field := range evidence.Fields {
			b.fields[field] = viewFor(field, extraction.Get(field))
		}
	}
	b.status = statusFor(risk)
}

// Field returns the current view of f.
func (b *Board) Field(f evidence.Field) FieldView {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneView(b.fields[f])
}

// Status returns the current risk indicator.
func (b *Board) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

// Snapshot returns every field in display order plus the status.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := Snapshot{
		Fields: make([]FieldView, 0, len(evidence.Fields)),
		Status: b.status,
	}
	for _, field := range evidence.Fields {
		snap.Fields = append(snap.Fields, cloneView(b.fields[field]))
	}
	return snap
}

func viewFor(field evidence.Field, items []string) FieldView {
	if len(items) == 0 {
		return FieldView{Field: field, State: StateEmpty}
	}
	return FieldView{
		Field: field,
		State: StatePopulated,
		Items: append([]string(nil), items...),
	}
}

func statusFor(risk evidence.RiskLevel) Status {
	return Status{Label: utils.SafeLine(risk.Label()), Alert: risk.Alert()}
}

func cloneView(v FieldView) FieldView {
	v.Items = append([]string(nil), v.Items...)
	return v
}
