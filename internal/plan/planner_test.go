package plan

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikhilVijayakumar/Tula/internal/domain"
)

func makeUnits(tokens ...int) []domain.Unit {
	units := make([]domain.Unit, len(tokens))
	for i, tk := range tokens {
		units[i] = domain.Unit{Path: fmt.Sprintf("file%d.go", i), Tokens: tk}
	}
	return units
}

func TestUsable(t *testing.T) {
	assert.Equal(t, 13000, Usable(14000, 500, 500))
	assert.Equal(t, 0, Usable(100, 80, 30), "usable floor is zero")
}

func TestPlan_Empty(t *testing.T) {
	assert.Empty(t, Plan(nil, 14000, 0, 500))
}

func TestPlan_AllFitOneChunk(t *testing.T) {
	chunks := Plan(makeUnits(100, 200, 300), 14000, 0, 500)
	require.Len(t, chunks, 1)
	assert.Equal(t, 600, chunks[0].Tokens)
	assert.Len(t, chunks[0].Units, 3)
	assert.False(t, chunks[0].OverBudget)
}

func TestPlan_SplitsAtBudget(t *testing.T) {
	// usable = 1000 - 0 - 0 = 1000
	chunks := Plan(makeUnits(600, 600, 600), 1000, 0, 0)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, 600, c.Tokens)
		assert.False(t, c.OverBudget)
	}
}

func TestPlan_OversizedUnitFlagged(t *testing.T) {
	chunks := Plan(makeUnits(100, 5000, 100), 1000, 0, 0)
	require.Len(t, chunks, 3)
	assert.False(t, chunks[0].OverBudget)
	assert.True(t, chunks[1].OverBudget)
	assert.Len(t, chunks[1].Units, 1)
	assert.False(t, chunks[2].OverBudget)
	// Input order survives splitting.
	assert.Equal(t, "file0.go", chunks[0].Units[0].Path)
	assert.Equal(t, "file1.go", chunks[1].Units[0].Path)
	assert.Equal(t, "file2.go", chunks[2].Units[0].Path)
}

func TestPlan_BudgetInvariant(t *testing.T) {
	// Every chunk either respects the usable budget or is a single
	// oversized unit flagged OverBudget; no unit is lost or reordered.
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(40)
		sizes := make([]int, n)
		for i := range sizes {
			sizes[i] = 1 + rng.Intn(3000)
		}
		units := makeUnits(sizes...)
		budget := 500 + rng.Intn(4000)
		overhead := rng.Intn(300)
		reserved := rng.Intn(300)
		usable := Usable(budget, overhead, reserved)

		chunks := Plan(units, budget, overhead, reserved)

		var flat []domain.Unit
		for i, c := range chunks {
			assert.Equal(t, i, c.Index)
			total := 0
			for _, u := range c.Units {
				total += u.Tokens
			}
			assert.Equal(t, c.Tokens, total)
			if c.OverBudget {
				require.Len(t, c.Units, 1, "trial %d: over-budget chunk must hold one unit", trial)
				assert.Greater(t, c.Tokens, usable)
			} else {
				assert.LessOrEqual(t, c.Tokens, usable, "trial %d", trial)
			}
			flat = append(flat, c.Units...)
		}
		require.Equal(t, units, flat, "trial %d: units lost or reordered", trial)
	}
}

func TestPlan_Deterministic(t *testing.T) {
	units := makeUnits(100, 900, 450, 2000, 10, 10, 10, 800)
	first := Plan(units, 1200, 100, 100)
	second := Plan(units, 1200, 100, 100)
	assert.Equal(t, first, second)
}

func TestPerUnit(t *testing.T) {
	chunks := PerUnit(makeUnits(100, 5000, 300), 1000, 0, 0)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Len(t, c.Units, 1)
	}
	assert.False(t, chunks[0].OverBudget)
	assert.True(t, chunks[1].OverBudget)
	assert.False(t, chunks[2].OverBudget)
}
