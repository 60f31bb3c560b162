// Package app wires the audit pipeline together: partition, plan, review,
// aggregate, persist.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/NikhilVijayakumar/Tula/internal/aggregate"
	"github.com/NikhilVijayakumar/Tula/internal/change"
	"github.com/NikhilVijayakumar/Tula/internal/config"
	"github.com/NikhilVijayakumar/Tula/internal/domain"
	"github.com/NikhilVijayakumar/Tula/internal/llm"
	"github.com/NikhilVijayakumar/Tula/internal/notify"
	"github.com/NikhilVijayakumar/Tula/internal/plan"
	"github.com/NikhilVijayakumar/Tula/internal/rules"
	"github.com/NikhilVijayakumar/Tula/internal/store"
	"github.com/NikhilVijayakumar/Tula/internal/strategy"
	"github.com/NikhilVijayakumar/Tula/internal/token"
)

// Runner orchestrates a full audit run. The zero dependencies are built from
// configuration in Run; tests inject fakes instead.
type Runner struct {
	config *config.Config
	logger *log.Logger

	// Injectable collaborators.
	Store      *store.Store
	Delegate   strategy.Delegate
	DiffSource func(ctx context.Context) (string, error)
}

// NewRunner creates a Runner for the given configuration.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		config: cfg,
		logger: log.New(os.Stdout, "[tula] ", log.LstdFlags),
	}
}

// Run executes one audit and returns its result. A nil error with
// Approved=false is a valid outcome; errors mean the pipeline itself failed
// (bad input, unreadable rules, persistence failure) and carry no verdict.
func (r *Runner) Run(ctx context.Context) (*domain.AuditResult, error) {
	startTime := time.Now()

	if err := r.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	st := r.Store
	if st == nil {
		var err error
		st, err = store.New(r.config.Reports.OutputDir, r.logger)
		if err != nil {
			return nil, err
		}
	}

	if r.config.Audit.Skip {
		r.log("audit skipped by configuration")
		return &domain.AuditResult{
			RunID:     uuid.NewString(),
			Timestamp: time.Now(),
			Approved:  true,
			Summary:   "Audit skipped",
			Strategy:  "none",
			Skipped:   true,
		}, nil
	}

	rl, rulesPath, err := r.loadRules()
	if err != nil {
		return nil, err
	}
	dependencies := r.loadOptional(r.config.Audit.DependenciesFile)

	units, err := r.collectUnits(ctx)
	if err != nil {
		return nil, err
	}
	r.log("partitioned change into %d units", len(units))

	gitCommit := ""
	if r.config.Audit.Mode == "diff" {
		gitCommit = change.HeadCommit(ctx, r.config.RepoPath)
	}
	meta := store.Meta{RulesFile: rulesPath, GitCommit: gitCommit}

	if len(units) == 0 {
		r.log("no changes to review")
		res := aggregate.Aggregate(nil, aggregate.Meta{Strategy: "none"})
		res.Summary = "No changes to review"
		if _, err := st.Save(res, meta); err != nil {
			return nil, err
		}
		return res, nil
	}

	overhead := token.Estimate(strategy.BuildSystemPrompt(rl.Text, dependencies))
	budget := r.config.Audit.MaxTokensPerChunk
	reserved := r.config.Audit.ReservedTokens
	chunks := plan.Plan(units, budget, overhead, reserved)
	r.log("planned %d chunks (budget %d, overhead %d, reserved %d)", len(chunks), budget, overhead, reserved)

	delegate := r.buildDelegate(rl)

	chain := &strategy.Chain{
		Delegate:      delegate,
		Dependencies:  dependencies,
		MaxConcurrent: r.config.Audit.MaxConcurrent,
		Budget:        budget,
		Overhead:      overhead,
		Reserved:      reserved,
		Logger:        r.logger,
	}
	outcome := chain.Review(ctx, units, chunks, rl)
	r.log("review complete via %s strategy", outcome.Strategy)

	model := ""
	if delegate != nil {
		model = delegate.Model()
	}
	res := aggregate.Aggregate(outcome.Findings, aggregate.Meta{
		Strategy:   outcome.Strategy,
		Model:      model,
		UnitCount:  len(units),
		ChunkCount: len(chunks),
	})

	if r.config.Audit.SaveIntermediate {
		r.saveIntermediate(outcome, res)
	}

	paths, err := st.Save(res, meta)
	if err != nil {
		// Losing the report is a run failure, not a disapproval.
		return nil, err
	}
	r.log("report saved to %s", paths.LatestJSON)

	if entries, err := st.History(); err == nil && len(entries) >= 2 {
		if _, err := st.Trend(r.config.Reports.TrendLimit); err != nil {
			r.log("warning: trend report failed: %v", err)
		}
	}

	if r.config.Email.Enabled {
		notifier := notify.NewService(r.config.Email, r.logger)
		if err := notifier.SendResult(ctx, res); err != nil {
			r.log("warning: email notification failed: %v", err)
		}
	}

	r.log("audit complete in %s", time.Since(startTime).Round(time.Millisecond))
	return res, nil
}

// loadRules resolves and parses the rules file. A configured-but-unreadable
// file is a pipeline failure; a missing file only disables the remote
// strategies.
func (r *Runner) loadRules() (*rules.Rules, string, error) {
	path := r.config.Audit.RulesFile
	if path == "" {
		path = rules.Discover(r.config.RepoPath)
	}
	if path == "" {
		r.log("no rules file found, using pattern matching only")
		return rules.Parse(""), "", nil
	}

	rl, err := rules.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("loading rules: %w", err)
	}
	r.log("using rules: %s", path)
	return rl, path, nil
}

func (r *Runner) loadOptional(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		r.log("warning: could not read %s: %v", path, err)
		return ""
	}
	return string(data)
}

func (r *Runner) collectUnits(ctx context.Context) ([]domain.Unit, error) {
	if r.config.Audit.Mode == "tree" {
		pairs, err := change.CollectTree(r.config.RepoPath, r.config.Audit.Extensions)
		if err != nil {
			return nil, fmt.Errorf("collecting source tree: %w", err)
		}
		return change.PartitionFiles(pairs), nil
	}

	source := r.DiffSource
	if source == nil {
		source = func(ctx context.Context) (string, error) {
			return change.StagedDiff(ctx, r.config.RepoPath)
		}
	}
	raw, err := source(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading change source: %w", err)
	}
	return change.PartitionDiff(raw), nil
}

// buildDelegate returns the injected delegate, or builds one from the
// review configuration. No delegate means pattern matching only; that is a
// degraded mode, never an error.
func (r *Runner) buildDelegate(rl *rules.Rules) strategy.Delegate {
	if r.Delegate != nil {
		return r.Delegate
	}
	if r.config.DryRun {
		r.log("dry run: remote review disabled")
		return nil
	}
	if rl.Text == "" {
		return nil
	}
	client, err := llm.NewClient(r.config.Review, r.logger)
	if err != nil {
		r.log("warning: LLM unavailable, using pattern matching: %v", err)
		return nil
	}
	return client
}

// saveIntermediate writes the per-stage analysis artifacts. Failures only
// log; intermediate output never fails the run.
func (r *Runner) saveIntermediate(outcome strategy.Outcome, res *domain.AuditResult) {
	dir := filepath.Join(r.config.Reports.IntermediateDir, "analysis")
	if err := os.MkdirAll(dir, 0700); err != nil {
		r.log("warning: intermediate output: %v", err)
		return
	}

	stages := []struct {
		name     string
		findings []domain.Finding
	}{
		{"pattern_matching.json", outcome.Baseline},
		{"combined_results.json", append(append([]domain.Finding{}, res.Issues...), res.Suggestions...)},
	}
	for _, stage := range stages {
		data, err := json.MarshalIndent(stage.findings, "", "  ")
		if err != nil {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, stage.name), data, 0600); err != nil {
			r.log("warning: intermediate output: %v", err)
		}
	}
}

func (r *Runner) log(format string, args ...any) {
	if r.config.Verbose {
		r.logger.Printf(format, args...)
	}
}
