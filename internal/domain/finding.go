package domain

// FindingKind classifies a finding as a blocking issue or a suggestion.
type FindingKind string

const (
	KindIssue      FindingKind = "issue"
	KindSuggestion FindingKind = "suggestion"
)

// Finding is a single observation produced by a review strategy. The Source
// tag records which strategy and chunk produced it. Findings are never
// mutated after creation.
type Finding struct {
	Text   string      `json:"text"`
	Kind   FindingKind `json:"kind"`
	Source string      `json:"source"`
}

// IsIssue returns true for findings that block approval.
func (f *Finding) IsIssue() bool {
	return f.Kind == KindIssue
}
