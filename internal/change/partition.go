// Package change turns raw changesets into ordered review units.
package change

import (
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/NikhilVijayakumar/Tula/internal/domain"
	"github.com/NikhilVijayakumar/Tula/internal/token"
)

const diffHeader = "diff --git"

// PartitionDiff splits a unified diff into one Unit per file section.
// Sections start at each "diff --git" header and keep their bytes verbatim,
// so concatenating all Units in order reproduces the input exactly. An empty
// or whitespace-only diff yields zero Units, which callers treat as "nothing
// to review".
func PartitionDiff(raw string) []domain.Unit {
	sections := splitSections(raw)
	units := make([]domain.Unit, 0, len(sections))
	for _, sec := range sections {
		u := domain.Unit{
			Path:    sectionPath(sec),
			Content: sec,
			Tokens:  token.Estimate(sec),
		}
		if fd, err := diff.ParseFileDiff([]byte(sec)); err == nil {
			if name := cleanName(fd.NewName); name != "" {
				u.Path = name
			} else if name := cleanName(fd.OrigName); name != "" {
				u.Path = name
			}
			stat := fd.Stat()
			u.Added = int(stat.Added + stat.Changed)
			u.Deleted = int(stat.Deleted + stat.Changed)
		}
		if u.Path == "" {
			u.Path = "unknown"
		}
		units = append(units, u)
	}
	return units
}

// FilePair is one (path, content) element supplied by a tree change source.
type FilePair struct {
	Path    string
	Content string
}

// PartitionFiles turns (path, content) pairs into Units, preserving input
// order. Empty files produce no Unit.
func PartitionFiles(pairs []FilePair) []domain.Unit {
	units := make([]domain.Unit, 0, len(pairs))
	for _, p := range pairs {
		if p.Content == "" {
			continue
		}
		units = append(units, domain.Unit{
			Path:    p.Path,
			Content: p.Content,
			Tokens:  token.Estimate(p.Content),
		})
	}
	return units
}

// splitSections slices raw at every line that begins a new file diff. The
// slices share the original backing bytes, which keeps re-concatenation
// lossless. Content before the first header becomes its own section.
func splitSections(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var starts []int
	if strings.HasPrefix(raw, diffHeader) {
		starts = append(starts, 0)
	}
	for i := 0; i+1 < len(raw); i++ {
		if raw[i] == '\n' && strings.HasPrefix(raw[i+1:], diffHeader) {
			starts = append(starts, i+1)
		}
	}

	if len(starts) == 0 {
		return []string{raw}
	}

	var sections []string
	if starts[0] != 0 {
		sections = append(sections, raw[:starts[0]])
	}
	for i, start := range starts {
		end := len(raw)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		sections = append(sections, raw[start:end])
	}
	return sections
}

// sectionPath extracts the file path from a diff section's headers without
// parsing the full diff.
func sectionPath(section string) string {
	for _, line := range strings.Split(section, "\n") {
		if strings.HasPrefix(line, "+++ b/") {
			return strings.TrimPrefix(line, "+++ b/")
		}
		if strings.HasPrefix(line, diffHeader+" a/") {
			rest := strings.TrimPrefix(line, diffHeader+" a/")
			if idx := strings.Index(rest, " b/"); idx > 0 {
				return rest[idx+3:]
			}
		}
	}
	return ""
}

func cleanName(name string) string {
	if name == "" || name == "/dev/null" {
		return ""
	}
	name = strings.TrimPrefix(name, "a/")
	return strings.TrimPrefix(name, "b/")
}
