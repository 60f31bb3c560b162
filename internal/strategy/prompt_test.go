package strategy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt("Keep handlers thin.", "")
	assert.Contains(t, prompt, "## Architectural Rules")
	assert.Contains(t, prompt, "Keep handlers thin.")
	assert.NotContains(t, prompt, "Approved Dependencies")

	withDeps := BuildSystemPrompt("rules", "fastapi ^0.110")
	assert.Contains(t, withDeps, "## Approved Dependencies")
	assert.Contains(t, withDeps, "fastapi ^0.110")
}

func TestBuildChunkPrompt(t *testing.T) {
	prompt := BuildChunkPrompt(2, 3, []string{"a.py", "b.py"}, "+diff")
	assert.Contains(t, prompt, "part 2 of 3")
	assert.Contains(t, prompt, "Files in this part: a.py, b.py")
	assert.Contains(t, prompt, "```diff\n+diff\n```")
	assert.Contains(t, prompt, `"approved"`)
}

func TestTruncate(t *testing.T) {
	short := "one line\n"
	assert.Equal(t, short, Truncate(short, 100))

	long := strings.Repeat("0123456789\n", 100)
	cut := Truncate(long, 50) // 200 chars
	assert.LessOrEqual(t, len(cut), 220)
	assert.True(t, strings.HasSuffix(cut, "\n... [truncated]"))
	// Cuts at a line boundary, never mid-line.
	body := strings.TrimSuffix(cut, "\n... [truncated]")
	assert.True(t, strings.HasSuffix(body, "0123456789"))
}

func TestTruncate_ZeroBudgetKeepsText(t *testing.T) {
	assert.Equal(t, "text", Truncate("text", 0))
}
