// Package aggregate merges findings from all strategies into a single
// deduplicated verdict.
package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NikhilVijayakumar/Tula/internal/domain"
)

// Normalize case-folds and whitespace-collapses text. Two findings are
// duplicates when their normalized text and kind are equal, regardless of
// provenance.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Meta carries run context into the aggregated result.
type Meta struct {
	Strategy   string
	Model      string
	UnitCount  int
	ChunkCount int
}

// Aggregate deduplicates findings and computes the verdict. The first
// occurrence of a duplicate wins and relative order is preserved. Approval
// requires zero issues; suggestions never affect it.
func Aggregate(findings []domain.Finding, meta Meta) *domain.AuditResult {
	seen := make(map[string]bool, len(findings))
	var issues, suggestions []domain.Finding

	for _, f := range findings {
		key := string(f.Kind) + "\x00" + Normalize(f.Text)
		if seen[key] {
			continue
		}
		seen[key] = true

		if f.Kind == domain.KindIssue {
			issues = append(issues, f)
		} else {
			suggestions = append(suggestions, f)
		}
	}

	return &domain.AuditResult{
		RunID:       uuid.NewString(),
		Timestamp:   time.Now(),
		Approved:    len(issues) == 0,
		Issues:      issues,
		Suggestions: suggestions,
		Summary:     Summary(len(issues), len(suggestions), meta.Strategy),
		Strategy:    meta.Strategy,
		Model:       meta.Model,
		UnitCount:   meta.UnitCount,
		ChunkCount:  meta.ChunkCount,
	}
}

// Summary renders the counts line for a result. It reports only counts and
// the reviewing strategy, never detail absent from the findings.
func Summary(issues, suggestions int, strategyName string) string {
	if issues == 0 && suggestions == 0 {
		if strategyName == "" {
			return "No issues found"
		}
		return fmt.Sprintf("No issues found (%s review)", strategyName)
	}
	if strategyName == "" {
		return fmt.Sprintf("%d issues, %d suggestions", issues, suggestions)
	}
	return fmt.Sprintf("%d issues, %d suggestions (%s review)", issues, suggestions, strategyName)
}
