package strategy

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/NikhilVijayakumar/Tula/internal/domain"
	"github.com/NikhilVijayakumar/Tula/internal/rules"
)

const chunkedName = "chunked"

// Chunked reviews each chunk in its own remote call, bounded-concurrent.
// A chunk whose call fails falls back to the pattern strategy for that chunk
// alone; sibling reviews keep running and results merge in chunk order, so a
// single irrecoverable chunk never drops the whole run.
type Chunked struct {
	Delegate      Delegate
	Dependencies  string
	MaxConcurrent int
	MaxTokens     int // truncation bound for over-budget chunks
	Logger        *log.Logger
}

func (s *Chunked) Name() string { return chunkedName }

// Review runs one call per chunk and merges findings positionally. The
// returned error is non-nil only when no delegate is configured at all.
func (s *Chunked) Review(ctx context.Context, chunks []domain.Chunk, r *rules.Rules) ([]domain.Finding, error) {
	if s.Delegate == nil {
		return nil, &StrategyError{Strategy: chunkedName, Chunk: -1, Err: ErrDelegateUnavailable}
	}

	system := BuildSystemPrompt(r.Text, s.Dependencies)
	results := make([][]domain.Finding, len(chunks))

	// Goroutines never return errors: a failed chunk falls back locally, so
	// the group context is never cancelled and sibling reviews finish.
	g, gctx := errgroup.WithContext(ctx)
	limit := s.MaxConcurrent
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, chunk := range chunks {
		g.Go(func() error {
			results[i] = s.reviewChunk(gctx, chunk, len(chunks), system, r)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // goroutines always return nil

	var findings []domain.Finding
	for _, fs := range results {
		findings = append(findings, fs...)
	}
	return findings, nil
}

func (s *Chunked) reviewChunk(ctx context.Context, chunk domain.Chunk, total int, system string, r *rules.Rules) []domain.Finding {
	source := fmt.Sprintf("%s chunk-%d [%s]", chunkedName, chunk.Index+1, strings.Join(chunk.Files(), ", "))
	text := chunk.Text()
	if chunk.OverBudget {
		text = Truncate(text, s.MaxTokens)
		source += " (over budget, truncated)"
	}

	prompt := system + "\n\n" + BuildChunkPrompt(chunk.Index+1, total, chunk.Files(), text)
	resp, err := s.Delegate.Complete(ctx, prompt)
	if err != nil {
		s.logf("chunk %d/%d review failed, using pattern matching: %v", chunk.Index+1, total, err)
		pattern := &Pattern{}
		findings, _ := pattern.Review(ctx, []domain.Chunk{chunk}, r)
		return findings
	}
	return findingsFromResponse(resp, source)
}

func (s *Chunked) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}
