package strategy

import (
	"context"
	"log"

	"github.com/NikhilVijayakumar/Tula/internal/domain"
	"github.com/NikhilVijayakumar/Tula/internal/plan"
	"github.com/NikhilVijayakumar/Tula/internal/rules"
)

// Chain tries the strategies in fixed priority order: single-shot remote
// when everything fits one call, chunked remote otherwise, pattern matching
// as the terminal fallback. The pattern strategy additionally runs as an
// always-on baseline and its findings are merged into every outcome.
type Chain struct {
	Delegate      Delegate
	Dependencies  string
	MaxConcurrent int
	Budget        int
	Overhead      int
	Reserved      int
	Logger        *log.Logger
}

// Outcome carries the merged findings and the name of the strategy that
// produced the remote portion (or "pattern-match" when no remote call
// succeeded). Baseline holds the pattern strategy's findings alone, for
// intermediate artifacts.
type Outcome struct {
	Findings []domain.Finding
	Baseline []domain.Finding
	Strategy string
}

// Review runs the chain over the planned chunks. It never fails: the
// pattern strategy is always reachable and always succeeds. Remote findings
// come first so deduplication keeps their wording over the baseline's.
func (c *Chain) Review(ctx context.Context, units []domain.Unit, chunks []domain.Chunk, r *rules.Rules) Outcome {
	if r == nil {
		r = rules.Parse("")
	}

	pattern := &Pattern{}
	baseline, _ := pattern.Review(ctx, chunks, r)

	if c.Delegate == nil {
		return Outcome{Findings: baseline, Baseline: baseline, Strategy: pattern.Name()}
	}

	if len(chunks) == 1 && !chunks[0].OverBudget {
		single := &SingleShot{Delegate: c.Delegate, Dependencies: c.Dependencies}
		findings, err := single.Review(ctx, chunks, r)
		if err == nil {
			return Outcome{Findings: append(findings, baseline...), Baseline: baseline, Strategy: single.Name()}
		}
		c.logf("single-shot review failed: %v", err)

		if len(units) <= 1 {
			// No smaller remote granularity remains.
			return Outcome{Findings: baseline, Baseline: baseline, Strategy: pattern.Name()}
		}
		chunks = plan.PerUnit(units, c.Budget, c.Overhead, c.Reserved)
	}

	chunked := &Chunked{
		Delegate:      c.Delegate,
		Dependencies:  c.Dependencies,
		MaxConcurrent: c.MaxConcurrent,
		MaxTokens:     plan.Usable(c.Budget, c.Overhead, c.Reserved),
		Logger:        c.Logger,
	}
	findings, err := chunked.Review(ctx, chunks, r)
	if err != nil {
		c.logf("chunked review failed: %v", err)
		return Outcome{Findings: baseline, Baseline: baseline, Strategy: pattern.Name()}
	}
	return Outcome{Findings: append(findings, baseline...), Baseline: baseline, Strategy: chunked.Name()}
}

func (c *Chain) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}
