package reconciler

import (
	"time"

	"github.com/agentstation/sheetlink/pkg/records"
)

// Outcome is the result of exporting one row.
type Outcome struct {
	ID     string               `json:"id" yaml:"id"`
	Action records.UpsertAction `json:"action" yaml:"action"`
	Err    error                `json:"-" yaml:"-"`
}

// Error returns the failure message, or "".
func (o Outcome) Error() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// ExportResult collects per-row outcomes of an export.
type ExportResult struct {
	Sheet    records.SheetRef `json:"sheet" yaml:"sheet"`
	Outcomes []Outcome        `json:"outcomes" yaml:"outcomes"`
	Duration time.Duration    `json:"duration" yaml:"duration"`
}

// Count returns how many rows ended with action.
func (r *ExportResult) Count(action records.UpsertAction) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Action == action {
			n++
		}
	}
	return n
}

// Failed returns the outcomes that carry an error.
func (r *ExportResult) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// IsSuccess reports whether every row was written.
func (r *ExportResult) IsSuccess() bool {
	return len(r.Failed()) == 0
}
