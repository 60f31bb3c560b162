// Package plan groups review units into token-budget-respecting chunks.
package plan

import "github.com/NikhilVijayakumar/Tula/internal/domain"

// Usable returns the token budget left for unit content after prompt
// overhead and the reserved response allowance.
func Usable(budget, overhead, reserved int) int {
	usable := budget - overhead - reserved
	if usable < 0 {
		return 0
	}
	return usable
}

// Plan packs units into chunks greedily in input order: a chunk grows while
// the running token total stays within the usable budget, then a new chunk
// starts. A unit that alone exceeds the usable budget becomes its own chunk
// flagged OverBudget rather than failing. Given the same units and budget the
// chunk boundaries are always identical.
func Plan(units []domain.Unit, budget, overhead, reserved int) []domain.Chunk {
	usable := Usable(budget, overhead, reserved)

	var chunks []domain.Chunk
	var current []domain.Unit
	currentTokens := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, domain.Chunk{
			Index:  len(chunks),
			Units:  current,
			Tokens: currentTokens,
		})
		current = nil
		currentTokens = 0
	}

	for _, u := range units {
		if u.Tokens > usable {
			flush()
			chunks = append(chunks, domain.Chunk{
				Index:      len(chunks),
				Units:      []domain.Unit{u},
				Tokens:     u.Tokens,
				OverBudget: true,
			})
			continue
		}
		if currentTokens+u.Tokens > usable {
			flush()
		}
		current = append(current, u)
		currentTokens += u.Tokens
	}
	flush()

	return chunks
}

// PerUnit plans every unit as its own chunk. Used when a whole-change review
// fails and the chain retries at the smallest remote granularity.
func PerUnit(units []domain.Unit, budget, overhead, reserved int) []domain.Chunk {
	usable := Usable(budget, overhead, reserved)

	chunks := make([]domain.Chunk, 0, len(units))
	for i, u := range units {
		chunks = append(chunks, domain.Chunk{
			Index:      i,
			Units:      []domain.Unit{u},
			Tokens:     u.Tokens,
			OverBudget: u.Tokens > usable,
		})
	}
	return chunks
}
