package domain

import "time"

// AuditResult is the aggregated, deduplicated verdict for one audit run.
// Created once per run by the aggregator and owned by the report store
// afterwards; immutable.
type AuditResult struct {
	RunID       string    `json:"run_id"`
	Timestamp   time.Time `json:"timestamp"`
	Approved    bool      `json:"approved"`
	Issues      []Finding `json:"issues"`
	Suggestions []Finding `json:"suggestions"`
	Summary     string    `json:"summary"`
	Strategy    string    `json:"strategy"`
	Model       string    `json:"model,omitempty"`
	UnitCount   int       `json:"unit_count"`
	ChunkCount  int       `json:"chunk_count"`
	Skipped     bool      `json:"skipped,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// TotalIssues returns the number of deduplicated issues.
func (r *AuditResult) TotalIssues() int {
	return len(r.Issues)
}

// TotalSuggestions returns the number of deduplicated suggestions.
func (r *AuditResult) TotalSuggestions() int {
	return len(r.Suggestions)
}

// HasFindings returns true if the run produced any issue or suggestion.
func (r *AuditResult) HasFindings() bool {
	return len(r.Issues) > 0 || len(r.Suggestions) > 0
}
