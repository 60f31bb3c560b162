package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/NikhilVijayakumar/Tula/internal/app"
	"github.com/NikhilVijayakumar/Tula/internal/config"
	"github.com/NikhilVijayakumar/Tula/internal/report"
	"github.com/NikhilVijayakumar/Tula/internal/store"
)

var (
	version   = "0.1.0"
	cfgFile   string
	repoPath  string
	rulesFile string
	maxTokens int
	treeMode  bool
	skipAudit bool
	dryRun    bool
	verbose   bool

	// notApproved distinguishes a disapproving verdict (exit 1) from a
	// pipeline failure (exit 2).
	notApproved bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "tula",
		Short:   "Tula - AI code audit for architectural compliance",
		Long:    `Tula audits a changeset against natural-language architectural rules, producing a verdict plus persisted historical reports.`,
		Version: version,
		RunE:    runAudit,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (default: ./tula.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().StringVarP(&repoPath, "repo", "r", "", "Repository path to audit (default: current directory)")
	rootCmd.Flags().StringVar(&rulesFile, "rules", "", "Path to architectural rules file")
	rootCmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Token budget per review call")
	rootCmd.Flags().BoolVar(&treeMode, "tree", false, "Audit the full source tree instead of the staged diff")
	rootCmd.Flags().BoolVar(&skipAudit, "skip", false, "Skip the audit and report approval")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run without remote review calls")

	rootCmd.AddCommand(newTrendCmd(), newHistoryCmd(), newPruneCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if notApproved {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Verbose = verbose
	return cfg, nil
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Override config with CLI flags
	if repoPath != "" {
		cfg.RepoPath = repoPath
	}
	if rulesFile != "" {
		cfg.Audit.RulesFile = rulesFile
	}
	if maxTokens > 0 {
		cfg.Audit.MaxTokensPerChunk = maxTokens
	}
	if treeMode {
		cfg.Audit.Mode = "tree"
	}
	if skipAudit {
		cfg.Audit.Skip = true
	}
	cfg.DryRun = dryRun

	runner := app.NewRunner(cfg)
	res, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(res.Summary)
	if !res.Approved {
		notApproved = true
	}
	return nil
}

func newTrendCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show the historical comparison report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := openStore()
			if err != nil {
				return err
			}
			if limit == 0 {
				limit = cfg.Reports.TrendLimit
			}
			tr, err := st.Trend(limit)
			if err != nil {
				return err
			}
			fmt.Print(report.TrendMarkdown(tr))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of recent reports to compare")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List archived audit reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}
			entries, err := st.History()
			if err != nil {
				return err
			}
			for _, e := range entries {
				status := "not approved"
				if e.Result.Approved {
					status = "approved"
				}
				fmt.Printf("%s  %s  %d issues, %d suggestions\n",
					e.ID, status, e.Result.TotalIssues(), e.Result.TotalSuggestions())
			}
			return nil
		},
	}
}

func newPruneCmd() *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the most recent history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := openStore()
			if err != nil {
				return err
			}
			if keep == 0 {
				keep = cfg.Reports.KeepRecent
			}
			removed, err := st.Prune(keep)
			if err != nil {
				return err
			}
			fmt.Printf("removed %d reports, kept %d most recent\n", removed, keep)
			return nil
		},
	}
	cmd.Flags().IntVarP(&keep, "keep", "k", 0, "Number of recent reports to keep")
	return cmd
}

func openStore() (*config.Config, *store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(os.Stdout, "[tula] ", log.LstdFlags)
	st, err := store.New(cfg.Reports.OutputDir, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}
