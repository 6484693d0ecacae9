package domain

import "time"

// ReportRow is one published line: an accepted owner and their count for a
// single metric. Owners absent from the counter table appear with count 0.
type ReportRow struct {
	OwnerID   string
	Email     string
	FirstName string
	LastName  string
	Count     int
}

// MetricReport is the assembled, publication-ready table for one metric.
type MetricReport struct {
	Metric string // "Calls" or "Meetings"
	Header []string
	Rows   []ReportRow
}

// Grid renders the report as the 2-D value grid the sheet publisher writes,
// header first. Counts stay numeric so the sheet receives numbers, not text.
func (r MetricReport) Grid() [][]any {
	grid := make([][]any, 0, len(r.Rows)+1)
	header := make([]any, len(r.Header))
	for i, h := range r.Header {
		header[i] = h
	}
	grid = append(grid, header)
	for _, row := range r.Rows {
		grid = append(grid, []any{row.OwnerID, row.Email, row.FirstName, row.LastName, row.Count})
	}
	return grid
}

// RosterRow is one published roster line: an accepted owner's profile plus
// their team memberships flattened into comma-separated lists.
type RosterRow struct {
	OwnerID   string
	UserID    string
	Email     string
	FirstName string
	LastName  string
	CreatedAt string
	UpdatedAt string
	Archived  bool
	TeamNames string
	TeamIDs   string
}

// RosterReport is the assembled, publication-ready owner roster table.
type RosterReport struct {
	Header []string
	Rows   []RosterRow
}

// Grid renders the roster as the 2-D value grid the sheet publisher writes,
// header first. Archived stays a boolean so the sheet receives TRUE/FALSE.
func (r RosterReport) Grid() [][]any {
	grid := make([][]any, 0, len(r.Rows)+1)
	header := make([]any, len(r.Header))
	for i, h := range r.Header {
		header[i] = h
	}
	grid = append(grid, header)
	for _, row := range r.Rows {
		grid = append(grid, []any{
			row.OwnerID, row.UserID, row.Email, row.FirstName, row.LastName,
			row.CreatedAt, row.UpdatedAt, row.Archived, row.TeamNames, row.TeamIDs,
		})
	}
	return grid
}

// RunSummary captures the outcome of a full pipeline run for the terminal
// report: totals per metric plus the data-quality flags an operator needs to
// tell "zero activity" apart from "possibly incomplete".
type RunSummary struct {
	Start         time.Time
	End           time.Time
	OwnersMatched int
	TotalCalls    int
	TotalMeetings int
	Incomplete    bool
	Truncated     bool
}
