package run

import (
	"time"

	"github.com/google/uuid"

	"boardkit/pkg/domain/board"
)

// Row is the recorded outcome for one project item.
type Row struct {
	ItemID         string     `json:"item_id"`
	IssueNumber    int        `json:"issue_number,omitempty"`
	Title          string     `json:"title"`
	Sprint         int        `json:"sprint"`
	IterationTitle string     `json:"iteration_title"`
	DueDate        board.Date `json:"due_date,omitempty"`
	Status         ItemStatus `json:"status"`
	Ambiguous      bool       `json:"ambiguous,omitempty"`
	FellBack       bool       `json:"fell_back,omitempty"`
	IterationSet   bool       `json:"iteration_set,omitempty"`
	DueDateSet     bool       `json:"due_date_set,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// Counts aggregates row outcomes for the summary line.
type Counts struct {
	Total     int `json:"total"`
	Applied   int `json:"applied"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Ambiguous int `json:"ambiguous"`
	FellBack  int `json:"fell_back"`
}

// Report is the durable record of one assignment run, written to the
// workspace after every run (dry or live).
type Report struct {
	ID            string     `json:"id"`
	Project       string     `json:"project"`
	DryRun        bool       `json:"dry_run,omitempty"`
	DefaultSprint int        `json:"default_sprint"`
	StartOverride board.Date `json:"start_override,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    time.Time  `json:"finished_at"`
	Rows          []Row      `json:"rows"`
	Counts        Counts     `json:"counts"`
}

// NewReport starts a report for a run against the named project.
func NewReport(project string) *Report {
	return &Report{
		ID:        uuid.NewString(),
		Project:   project,
		StartedAt: time.Now().UTC(),
	}
}

// Add records one item outcome and updates the aggregate counts.
func (r *Report) Add(row Row) {
	r.Rows = append(r.Rows, row)
	r.Counts.Total++
	switch row.Status {
	case StatusApplied:
		r.Counts.Applied++
	case StatusSkipped:
		r.Counts.Skipped++
	case StatusFailed:
		r.Counts.Failed++
	}
	if row.Ambiguous {
		r.Counts.Ambiguous++
	}
	if row.FellBack {
		r.Counts.FellBack++
	}
}

// Finish stamps the completion time.
func (r *Report) Finish() {
	r.FinishedAt = time.Now().UTC()
}

// AmbiguousRows returns the rows assigned by the default path, for the
// separate ambiguous-assignment listing.
func (r *Report) AmbiguousRows() []Row {
	var out []Row
	for _, row := range r.Rows {
		if row.Ambiguous {
			out = append(out, row)
		}
	}
	return out
}

// FailedRows returns the rows whose updates failed.
func (r *Report) FailedRows() []Row {
	var out []Row
	for _, row := range r.Rows {
		if row.Status == StatusFailed {
			out = append(out, row)
		}
	}
	return out
}
