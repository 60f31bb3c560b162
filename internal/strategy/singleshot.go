package strategy

import (
	"context"
	"fmt"

	"github.com/NikhilVijayakumar/Tula/internal/domain"
	"github.com/NikhilVijayakumar/Tula/internal/rules"
)

const singleShotName = "single-shot"

// SingleShot reviews the whole change in one remote call. Applicable only
// when planning produced exactly one chunk within budget.
type SingleShot struct {
	Delegate     Delegate
	Dependencies string
}

func (s *SingleShot) Name() string { return singleShotName }

// Review sends the single chunk to the delegate. Any delegate failure,
// including a timeout or malformed response, is returned as a StrategyError
// for the chain to recover from.
func (s *SingleShot) Review(ctx context.Context, chunks []domain.Chunk, r *rules.Rules) ([]domain.Finding, error) {
	if s.Delegate == nil {
		return nil, &StrategyError{Strategy: singleShotName, Chunk: -1, Err: ErrDelegateUnavailable}
	}
	if len(chunks) != 1 || chunks[0].OverBudget {
		return nil, &StrategyError{
			Strategy: singleShotName,
			Chunk:    -1,
			Err:      fmt.Errorf("change does not fit a single call (%d chunks)", len(chunks)),
		}
	}

	prompt := BuildSystemPrompt(r.Text, s.Dependencies) + "\n\n" + BuildSinglePrompt(chunks[0].Text())
	resp, err := s.Delegate.Complete(ctx, prompt)
	if err != nil {
		return nil, &StrategyError{Strategy: singleShotName, Chunk: 0, Err: err}
	}
	return findingsFromResponse(resp, singleShotName), nil
}
