package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikhilVijayakumar/Tula/internal/domain"
)

func TestParse_KeepsFullText(t *testing.T) {
	text := "# Rules\n\nKeep handlers thin.\n"
	r := Parse(text)
	assert.Equal(t, text, r.Text)
	assert.Empty(t, r.Directives)
}

func TestParse_ForbiddingLineBecomesIssueDirective(t *testing.T) {
	r := Parse("- Never import `crewai` outside the agent layer\n")
	require.Len(t, r.Directives, 1)
	d := r.Directives[0]
	assert.Equal(t, "crewai", d.Pattern)
	assert.Equal(t, domain.KindIssue, d.Kind)
	assert.Equal(t, "Never import `crewai` outside the agent layer", d.Message)
}

func TestParse_SofterLineBecomesSuggestionDirective(t *testing.T) {
	r := Parse("* Prefer `logging` over bare `print` calls\n")
	require.Len(t, r.Directives, 2)
	assert.Equal(t, "logging", r.Directives[0].Pattern)
	assert.Equal(t, "print", r.Directives[1].Pattern)
	for _, d := range r.Directives {
		assert.Equal(t, domain.KindSuggestion, d.Kind)
	}
}

func TestParse_NoStanceNoDirective(t *testing.T) {
	r := Parse("The `service` layer talks to the repository.\n")
	assert.Empty(t, r.Directives)
}

func TestParse_NoBacktickNoDirective(t *testing.T) {
	r := Parse("Never commit secrets to the repository.\n")
	assert.Empty(t, r.Directives)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.md"))
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Discover(dir))

	cfgDir := filepath.Join(dir, "config")
	require.NoError(t, os.MkdirAll(cfgDir, 0700))
	rulesPath := filepath.Join(cfgDir, "ARCHITECTURE.md")
	require.NoError(t, os.WriteFile(rulesPath, []byte("rules"), 0600))
	assert.Equal(t, rulesPath, Discover(dir))

	// A top-level AGENTS.md wins over config/ARCHITECTURE.md.
	agents := filepath.Join(dir, "AGENTS.md")
	require.NoError(t, os.WriteFile(agents, []byte("rules"), 0600))
	assert.Equal(t, agents, Discover(dir))
}
