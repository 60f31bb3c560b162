// Package strategy implements the review strategy chain: a remote
// single-shot review, a chunked remote review, and an offline
// pattern-matching baseline, tried in fixed priority order with fallback.
package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/NikhilVijayakumar/Tula/internal/domain"
	"github.com/NikhilVijayakumar/Tula/internal/llm"
	"github.com/NikhilVijayakumar/Tula/internal/rules"
)

// ErrDelegateUnavailable means no remote delegate is configured.
var ErrDelegateUnavailable = errors.New("review delegate unavailable")

// Delegate executes one remote review call. The implementation owns
// provider selection and the per-call timeout.
type Delegate interface {
	Complete(ctx context.Context, prompt string) (*llm.Response, error)
	Model() string
}

// Strategy reviews planned chunks against the rules. Remote strategies may
// fail; the pattern strategy never does.
type Strategy interface {
	Name() string
	Review(ctx context.Context, chunks []domain.Chunk, r *rules.Rules) ([]domain.Finding, error)
}

// StrategyError describes a failed remote attempt. Chunk is -1 when the
// failure is not tied to a single chunk.
type StrategyError struct {
	Strategy string
	Chunk    int
	Err      error
}

func (e *StrategyError) Error() string {
	if e.Chunk >= 0 {
		return fmt.Sprintf("%s strategy, chunk %d: %v", e.Strategy, e.Chunk, e.Err)
	}
	return fmt.Sprintf("%s strategy: %v", e.Strategy, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// findingsFromResponse tags a response's issues and suggestions with their
// provenance.
func findingsFromResponse(resp *llm.Response, source string) []domain.Finding {
	findings := make([]domain.Finding, 0, len(resp.Issues)+len(resp.Suggestions))
	for _, text := range resp.Issues {
		findings = append(findings, domain.Finding{Text: text, Kind: domain.KindIssue, Source: source})
	}
	for _, text := range resp.Suggestions {
		findings = append(findings, domain.Finding{Text: text, Kind: domain.KindSuggestion, Source: source})
	}
	return findings
}
