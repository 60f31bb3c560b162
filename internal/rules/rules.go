// Package rules loads architectural rules and derives offline pattern checks
// from them.
package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/NikhilVijayakumar/Tula/internal/domain"
	"github.com/NikhilVijayakumar/Tula/internal/util"
)

// Rules carries the free-form rules text consumed verbatim by remote
// strategies, plus the pattern directives extracted for the local strategy.
// The core never interprets rule semantics beyond this extraction.
type Rules struct {
	Text       string
	Directives []Directive
}

// Directive is one literal check derived from a rules line: the token to
// search for and the rule text reported when it matches.
type Directive struct {
	Pattern string
	Message string
	Kind    domain.FindingKind
}

var (
	tokenRe  = regexp.MustCompile("`([^`]+)`")
	forbidRe = regexp.MustCompile(`(?i)\b(never|forbidden|must not|do not|don't|disallowed?|prohibit(ed)?|ban(ned)?)\b`)
	preferRe = regexp.MustCompile(`(?i)\b(prefer|should|avoid|consider|recommend(ed)?)\b`)
)

// Load reads and parses a rules file.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	return Parse(string(data)), nil
}

// Parse extracts pattern directives from rules text. A line naming one or
// more backticked tokens becomes a check: prohibiting language yields an
// issue directive, softer language a suggestion directive. Lines without a
// recognizable stance contribute nothing to the offline strategy.
func Parse(text string) *Rules {
	r := &Rules{Text: text}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		matches := tokenRe.FindAllStringSubmatch(trimmed, -1)
		if len(matches) == 0 {
			continue
		}

		var kind domain.FindingKind
		switch {
		case forbidRe.MatchString(trimmed):
			kind = domain.KindIssue
		case preferRe.MatchString(trimmed):
			kind = domain.KindSuggestion
		default:
			continue
		}

		message := strings.TrimLeft(trimmed, "-*#> ")
		for _, m := range matches {
			r.Directives = append(r.Directives, Directive{
				Pattern: m[1],
				Message: message,
				Kind:    kind,
			})
		}
	}
	return r
}

// conventionalNames are tried in order when no rules file is configured.
var conventionalNames = []string{"AGENTS.md", "ARCHITECTURE.md", "RULES.md"}

// Discover finds a rules file by conventional name in dir or dir/config.
// Returns empty when none exists.
func Discover(dir string) string {
	for _, name := range conventionalNames {
		for _, candidate := range []string{filepath.Join(dir, name), filepath.Join(dir, "config", name)} {
			if util.FileExists(candidate) {
				return candidate
			}
		}
	}
	return ""
}
