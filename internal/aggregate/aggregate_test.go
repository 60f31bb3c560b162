package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikhilVijayakumar/Tula/internal/domain"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "missing error handling", Normalize("  Missing\terror   Handling "))
	assert.Equal(t, "", Normalize("   \n\t"))
}

func TestAggregate_DeduplicatesAcrossSources(t *testing.T) {
	findings := []domain.Finding{
		{Text: "Missing error handling in save()", Kind: domain.KindIssue, Source: "single-shot"},
		{Text: "missing  ERROR handling in save()", Kind: domain.KindIssue, Source: "pattern-match"},
		{Text: "Consider extracting a helper", Kind: domain.KindSuggestion, Source: "single-shot"},
	}
	res := Aggregate(findings, Meta{Strategy: "single-shot"})

	require.Len(t, res.Issues, 1)
	// First occurrence wins, wording and provenance included.
	assert.Equal(t, "Missing error handling in save()", res.Issues[0].Text)
	assert.Equal(t, "single-shot", res.Issues[0].Source)
	require.Len(t, res.Suggestions, 1)
}

func TestAggregate_SameTextDifferentKindKept(t *testing.T) {
	findings := []domain.Finding{
		{Text: "avoid global state", Kind: domain.KindIssue},
		{Text: "avoid global state", Kind: domain.KindSuggestion},
	}
	res := Aggregate(findings, Meta{})
	assert.Len(t, res.Issues, 1)
	assert.Len(t, res.Suggestions, 1)
}

func TestAggregate_Idempotent(t *testing.T) {
	findings := []domain.Finding{
		{Text: "issue a", Kind: domain.KindIssue},
		{Text: "Issue A", Kind: domain.KindIssue},
		{Text: "tip b", Kind: domain.KindSuggestion},
	}
	first := Aggregate(findings, Meta{Strategy: "chunked"})

	again := Aggregate(append(append([]domain.Finding{}, first.Issues...), first.Suggestions...),
		Meta{Strategy: "chunked"})
	assert.Equal(t, first.Issues, again.Issues)
	assert.Equal(t, first.Suggestions, again.Suggestions)
}

func TestAggregate_Verdict(t *testing.T) {
	approved := Aggregate([]domain.Finding{
		{Text: "tip", Kind: domain.KindSuggestion},
	}, Meta{})
	assert.True(t, approved.Approved, "suggestions alone never block approval")

	rejected := Aggregate([]domain.Finding{
		{Text: "problem", Kind: domain.KindIssue},
	}, Meta{})
	assert.False(t, rejected.Approved)
}

func TestAggregate_EmptyFindings(t *testing.T) {
	res := Aggregate(nil, Meta{Strategy: "none"})
	assert.True(t, res.Approved)
	assert.Empty(t, res.Issues)
	assert.Empty(t, res.Suggestions)
	assert.NotEmpty(t, res.RunID)
	assert.False(t, res.Timestamp.IsZero())
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "No issues found", Summary(0, 0, ""))
	assert.Equal(t, "No issues found (single-shot review)", Summary(0, 0, "single-shot"))
	assert.Equal(t, "2 issues, 3 suggestions (chunked review)", Summary(2, 3, "chunked"))
}
