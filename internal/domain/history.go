package domain

import "time"

// HistoryEntry is an immutable, timestamp-keyed archival copy of an
// AuditResult. Entries are append-only; the store never deletes them except
// through an explicit prune.
type HistoryEntry struct {
	ID     string
	Path   string
	Result AuditResult
}

// TrendDirection describes how the issue count moved between the two most
// recent history entries.
type TrendDirection string

const (
	DirectionImproving  TrendDirection = "improving"
	DirectionRegressing TrendDirection = "regressing"
	DirectionFlat       TrendDirection = "flat"
)

// TrendPoint is one history entry's contribution to a trend report.
type TrendPoint struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Approved    bool      `json:"approved"`
	Issues      int       `json:"issues"`
	Suggestions int       `json:"suggestions"`
	Model       string    `json:"model,omitempty"`
}

// IssueFrequency ranks a recurring issue text across history entries.
type IssueFrequency struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// TrendReport is a derived, read-only view computed from ordered history
// entries. It is recomputed on demand, never persisted as state.
type TrendReport struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Points      []TrendPoint     `json:"points"`
	Direction   TrendDirection   `json:"direction,omitempty"`
	IssueDelta  int              `json:"issue_delta"`
	TopIssues   []IssueFrequency `json:"top_issues,omitempty"`
}
