package audit

import (
	"fmt"
	"time"

	"semdaudit/internal/semd"
)

// Row is one line of the audit report.
type Row struct {
	Seq     int    `json:"seq"`
	UserID  int64  `json:"id_user"`
	Number  string `json:"number"`
	DocID   int64  `json:"id_doc"`
	Created string `json:"created"`
	Result  string `json:"result"`
}

// Report accumulates rows in processing order.
type Report struct {
	Since time.Time
	Label string
	Rows  []Row
}

// NewReport starts an empty report for the window beginning at since.
func NewReport(since time.Time, label string) *Report {
	return &Report{Since: since, Label: label}
}

// Add appends a row for record and returns it with its 1-based sequence number.
func (r *Report) Add(record semd.StuckRecord, result string) Row {
	row := Row{
		Seq:     len(r.Rows) + 1,
		UserID:  record.UserID,
		Number:  record.Number,
		DocID:   record.DocumentID,
		Created: formatDate(record.Created()),
		Result:  result,
	}
	r.Rows = append(r.Rows, row)
	return row
}

// Count returns the number of rows.
func (r *Report) Count() int {
	return len(r.Rows)
}

// SinceDate returns the window start as YYYY-MM-DD.
func (r *Report) SinceDate() string {
	return formatDate(r.Since)
}

// Title is the heading printed above the table.
func (r *Report) Title() string {
	return fmt.Sprintf("SEMD stuck in the bus since %s", r.SinceDate())
}

// Summary is the line printed after the table.
func (r *Report) Summary() string {
	return fmt.Sprintf("Found %d SEMD stuck in the bus since %s", r.Count(), r.SinceDate())
}

// EmptyMessage is printed instead of the table when nothing is stuck.
func (r *Report) EmptyMessage() string {
	return fmt.Sprintf("No SEMD stuck in the bus since %s", r.SinceDate())
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
