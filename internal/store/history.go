package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/NikhilVijayakumar/Tula/internal/aggregate"
	"github.com/NikhilVijayakumar/Tula/internal/domain"
	"github.com/NikhilVijayakumar/Tula/internal/report"
)

const topIssueLimit = 10

// History returns all history entries, newest first. Unreadable entries are
// skipped with a warning rather than failing the whole read.
func (s *Store) History() ([]domain.HistoryEntry, error) {
	paths, err := filepath.Glob(filepath.Join(s.history, historyPrefix+"*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	// Timestamp-derived names sort chronologically; reverse for newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	retryer := retry.New[*Record](s.retryConfig)
	entries := make([]domain.HistoryEntry, 0, len(paths))
	for _, path := range paths {
		rec, err := retryer.Do(context.Background(), func(_ context.Context) (*Record, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			var r Record
			if err := json.Unmarshal(data, &r); err != nil {
				return nil, err
			}
			return &r, nil
		})
		if err != nil {
			s.logf("warning: could not load %s: %v", path, err)
			continue
		}
		entries = append(entries, domain.HistoryEntry{
			ID:     strings.TrimSuffix(filepath.Base(path), ".json"),
			Path:   path,
			Result: rec.toResult(),
		})
	}
	return entries, nil
}

// Trend derives a comparison report from the most recent limit entries
// (all of them when limit <= 0) and persists its rendering as
// comparison.md. The report is recomputed from history every time; nothing
// else is stored.
func (s *Store) Trend(limit int) (*domain.TrendReport, error) {
	entries, err := s.History()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	tr := &domain.TrendReport{GeneratedAt: s.now()}

	issueCounts := make(map[string]int)
	issueTexts := make(map[string]string)
	for _, e := range entries {
		tr.Points = append(tr.Points, domain.TrendPoint{
			ID:          e.ID,
			Timestamp:   e.Result.Timestamp,
			Approved:    e.Result.Approved,
			Issues:      len(e.Result.Issues),
			Suggestions: len(e.Result.Suggestions),
			Model:       e.Result.Model,
		})
		for _, issue := range e.Result.Issues {
			key := aggregate.Normalize(issue.Text)
			issueCounts[key]++
			if _, ok := issueTexts[key]; !ok {
				issueTexts[key] = issue.Text
			}
		}
	}

	// Direction compares the two most recent entries.
	if len(entries) >= 2 {
		tr.IssueDelta = len(entries[0].Result.Issues) - len(entries[1].Result.Issues)
		switch {
		case tr.IssueDelta < 0:
			tr.Direction = domain.DirectionImproving
		case tr.IssueDelta > 0:
			tr.Direction = domain.DirectionRegressing
		default:
			tr.Direction = domain.DirectionFlat
		}
	}

	for key, count := range issueCounts {
		tr.TopIssues = append(tr.TopIssues, domain.IssueFrequency{Text: issueTexts[key], Count: count})
	}
	sort.Slice(tr.TopIssues, func(i, j int) bool {
		if tr.TopIssues[i].Count != tr.TopIssues[j].Count {
			return tr.TopIssues[i].Count > tr.TopIssues[j].Count
		}
		return tr.TopIssues[i].Text < tr.TopIssues[j].Text
	})
	if len(tr.TopIssues) > topIssueLimit {
		tr.TopIssues = tr.TopIssues[:topIssueLimit]
	}

	path := filepath.Join(s.root, comparisonMD)
	if err := writeFileAtomic(path, []byte(report.TrendMarkdown(tr))); err != nil {
		return nil, fmt.Errorf("writing comparison report: %w", err)
	}

	return tr, nil
}

// Prune deletes all but the keep most recent history entries, including
// their markdown siblings. The pipeline never calls this automatically;
// retention is the caller's policy.
func (s *Store) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	paths, err := filepath.Glob(filepath.Join(s.history, historyPrefix+"*.json"))
	if err != nil {
		return 0, fmt.Errorf("listing history: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	if len(paths) <= keep {
		return 0, nil
	}

	removed := 0
	for _, path := range paths[keep:] {
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("removing %s: %w", path, err)
		}
		md := strings.TrimSuffix(path, ".json") + ".md"
		if err := os.Remove(md); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("removing %s: %w", md, err)
		}
		removed++
		s.logf("removed old report: %s", filepath.Base(path))
	}
	return removed, nil
}

func (s *Store) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
