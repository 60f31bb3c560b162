package strategy

import (
	"context"
	"regexp"
	"strings"

	"github.com/NikhilVijayakumar/Tula/internal/domain"
	"github.com/NikhilVijayakumar/Tula/internal/rules"
)

const patternName = "pattern-match"

// Pattern is the offline baseline strategy: deterministic literal and regex
// checks over the full unit text. It has no external dependency, never
// fails, and runs on every audit regardless of what the remote strategies
// return.
type Pattern struct{}

func (s *Pattern) Name() string { return patternName }

var (
	genericRaiseRe  = regexp.MustCompile(`raise\s+(Exception|ValueError)\(`)
	untypedDefRe    = regexp.MustCompile(`(?m)^\+?\s*def\s+\w+\([^)]*\)\s*:\s*$`)
	serviceImportRe = regexp.MustCompile(`(?m)^\+?\s*(from\s+(crewai|dvc)\s+import|import\s+(crewai|dvc)\b)`)
)

// builtinChecks are the fixed checks applied to every chunk.
type builtinCheck struct {
	matches func(text string) bool
	text    string
	kind    domain.FindingKind
}

var builtinChecks = []builtinCheck{
	{
		matches: func(t string) bool {
			return strings.Contains(t, "/service/") && serviceImportRe.MatchString(t)
		},
		text: "Orchestration framework imported in service layer",
		kind: domain.KindIssue,
	},
	{
		matches: func(t string) bool { return genericRaiseRe.MatchString(t) },
		text:    "Use custom exceptions instead of generic Exception/ValueError",
		kind:    domain.KindSuggestion,
	},
	{
		matches: func(t string) bool {
			defs := untypedDefRe.FindAllString(t, -1)
			for _, def := range defs {
				if !strings.Contains(def, "->") {
					return true
				}
			}
			return false
		},
		text: "Function definitions missing return type annotations",
		kind: domain.KindSuggestion,
	},
	{
		matches: func(t string) bool {
			return strings.Contains(t, "pyproject.toml") && !strings.Contains(t, "requirements.txt")
		},
		text: "Dependency added to pyproject.toml - also add to requirements.txt?",
		kind: domain.KindSuggestion,
	},
}

// Review scans every chunk against the built-in checks and the directives
// extracted from the rules. The returned error is always nil; this is the
// chain's terminal strategy.
func (s *Pattern) Review(_ context.Context, chunks []domain.Chunk, r *rules.Rules) ([]domain.Finding, error) {
	var findings []domain.Finding
	for _, chunk := range chunks {
		text := chunk.Text()

		for _, check := range builtinChecks {
			if check.matches(text) {
				findings = append(findings, domain.Finding{
					Text:   check.text,
					Kind:   check.kind,
					Source: patternName,
				})
			}
		}

		if r == nil {
			continue
		}
		for _, directive := range r.Directives {
			if strings.Contains(text, directive.Pattern) {
				findings = append(findings, domain.Finding{
					Text:   directive.Message,
					Kind:   directive.Kind,
					Source: patternName,
				})
			}
		}
	}
	return findings, nil
}
