// Package store persists audit results: a "latest" snapshot overwritten on
// every run, an append-only timestamped history, and a trend report derived
// from that history on demand.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/NikhilVijayakumar/Tula/internal/domain"
	"github.com/NikhilVijayakumar/Tula/internal/report"
	"github.com/NikhilVijayakumar/Tula/internal/util"
)

const (
	latestJSON    = "latest.json"
	latestMD      = "latest.md"
	comparisonMD  = "comparison.md"
	historyDir    = "history"
	historyPrefix = "audit_"
	lockFile      = ".lock"
	stampLayout   = "20060102_150405"
)

// Meta carries per-run context persisted alongside the result.
type Meta struct {
	RulesFile string
	GitCommit string
}

// Record is the persisted shape of an audit result. The same shape is used
// for latest.json and every history entry.
type Record struct {
	Timestamp        string           `json:"timestamp"`
	RunID            string           `json:"run_id"`
	GitCommit        string           `json:"git_commit,omitempty"`
	Model            string           `json:"model_used"`
	RulesFile        string           `json:"rules_file,omitempty"`
	Strategy         string           `json:"strategy"`
	Approved         bool             `json:"approved"`
	TotalIssues      int              `json:"total_issues"`
	TotalSuggestions int              `json:"total_suggestions"`
	Issues           []domain.Finding `json:"issues"`
	Suggestions      []domain.Finding `json:"suggestions"`
	Summary          string           `json:"summary"`
	UnitCount        int              `json:"unit_count"`
	ChunkCount       int              `json:"chunk_count"`
	Error            string           `json:"error,omitempty"`
}

// SavedPaths lists the files one save produced.
type SavedPaths struct {
	LatestJSON  string
	LatestMD    string
	HistoryJSON string
	HistoryMD   string
}

// Store persists audit reports under an injected root directory. There is no
// process-wide state; concurrent runs against the same root serialize their
// history appends through a lock file.
type Store struct {
	root        string
	history     string
	logger      *log.Logger
	retryConfig retry.Config
	now         func() time.Time
}

// New creates a Store rooted at dir, creating it and its history
// subdirectory as needed.
func New(dir string, logger *log.Logger) (*Store, error) {
	history := filepath.Join(dir, historyDir)
	if err := util.EnsureDir(history); err != nil {
		return nil, fmt.Errorf("creating report directories: %w", err)
	}
	return &Store{
		root:    dir,
		history: history,
		logger:  logger,
		retryConfig: retry.Config{
			MaxAttempts:   5,
			InitialDelay:  25 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
		now: time.Now,
	}, nil
}

// Save overwrites the latest snapshot and appends one immutable history
// entry. The append is serialized by an exclusive lock so concurrent runs
// never claim the same timestamp-derived identity.
func (s *Store) Save(res *domain.AuditResult, meta Meta) (*SavedPaths, error) {
	release, err := s.acquireLock()
	if err != nil {
		return nil, err
	}
	defer release()

	rec := recordFrom(res, meta)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	md := []byte(report.Markdown(res))

	paths := &SavedPaths{
		LatestJSON: filepath.Join(s.root, latestJSON),
		LatestMD:   filepath.Join(s.root, latestMD),
	}

	if err := writeFileAtomic(paths.LatestJSON, data); err != nil {
		return nil, fmt.Errorf("writing latest report: %w", err)
	}
	if err := writeFileAtomic(paths.LatestMD, md); err != nil {
		return nil, fmt.Errorf("writing latest report: %w", err)
	}

	id := s.historyID(res.Timestamp)
	paths.HistoryJSON = filepath.Join(s.history, id+".json")
	paths.HistoryMD = filepath.Join(s.history, id+".md")

	if err := writeFileAtomic(paths.HistoryJSON, data); err != nil {
		return nil, fmt.Errorf("appending history: %w", err)
	}
	if err := writeFileAtomic(paths.HistoryMD, md); err != nil {
		return nil, fmt.Errorf("appending history: %w", err)
	}

	return paths, nil
}

// historyID derives the timestamp key for a new entry, disambiguating
// same-second reruns with a monotonic suffix instead of overwriting.
func (s *Store) historyID(ts time.Time) string {
	if ts.IsZero() {
		ts = s.now()
	}
	base := historyPrefix + ts.Format(stampLayout)
	id := base
	for n := 1; util.FileExists(filepath.Join(s.history, id+".json")); n++ {
		id = fmt.Sprintf("%s_%02d", base, n)
	}
	return id
}

// acquireLock takes the exclusive history lock, retrying with backoff while
// another run holds it.
func (s *Store) acquireLock() (func(), error) {
	lockPath := filepath.Join(s.root, lockFile)
	retryer := retry.New[struct{}](s.retryConfig)

	_, err := retryer.Do(context.Background(), func(_ context.Context) (struct{}, error) {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err != nil {
			return struct{}{}, fmt.Errorf("report store is locked: %w", err)
		}
		return struct{}{}, f.Close()
	})
	if err != nil {
		return nil, err
	}
	return func() { os.Remove(lockPath) }, nil
}

func recordFrom(res *domain.AuditResult, meta Meta) Record {
	issues := res.Issues
	if issues == nil {
		issues = []domain.Finding{}
	}
	suggestions := res.Suggestions
	if suggestions == nil {
		suggestions = []domain.Finding{}
	}
	return Record{
		Timestamp:        res.Timestamp.Format(time.RFC3339),
		RunID:            res.RunID,
		GitCommit:        meta.GitCommit,
		Model:            res.Model,
		RulesFile:        meta.RulesFile,
		Strategy:         res.Strategy,
		Approved:         res.Approved,
		TotalIssues:      len(issues),
		TotalSuggestions: len(suggestions),
		Issues:           issues,
		Suggestions:      suggestions,
		Summary:          res.Summary,
		UnitCount:        res.UnitCount,
		ChunkCount:       res.ChunkCount,
		Error:            res.Error,
	}
}

func (r *Record) toResult() domain.AuditResult {
	ts, _ := time.Parse(time.RFC3339, r.Timestamp)
	return domain.AuditResult{
		RunID:       r.RunID,
		Timestamp:   ts,
		Approved:    r.Approved,
		Issues:      r.Issues,
		Suggestions: r.Suggestions,
		Summary:     r.Summary,
		Strategy:    r.Strategy,
		Model:       r.Model,
		UnitCount:   r.UnitCount,
		ChunkCount:  r.ChunkCount,
		Error:       r.Error,
	}
}

// writeFileAtomic writes via a temp file and rename so readers never observe
// a partial report.
func writeFileAtomic(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.%d.tmp", path, os.Getpid())
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
