package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/NikhilVijayakumar/Tula/internal/util"
)

// Config holds all application configuration
type Config struct {
	RepoPath string        `yaml:"repo_path"`
	Audit    AuditConfig   `yaml:"audit"`
	Review   ReviewConfig  `yaml:"review"`
	Reports  ReportsConfig `yaml:"reports"`
	Email    EmailConfig   `yaml:"email"`
	Verbose  bool          `yaml:"-"` // Set via CLI only
	DryRun   bool          `yaml:"-"` // Set via CLI only; disables remote calls
}

// AuditConfig holds the settings driving one audit run
type AuditConfig struct {
	RulesFile         string   `yaml:"rules_file"`
	DependenciesFile  string   `yaml:"dependencies_file"`
	Skip              bool     `yaml:"skip_audit"`
	Mode              string   `yaml:"mode"` // diff, tree
	MaxTokensPerChunk int      `yaml:"max_tokens_per_chunk"`
	ReservedTokens    int      `yaml:"reserved_tokens"`
	MaxConcurrent     int      `yaml:"max_concurrent"`
	Extensions        []string `yaml:"extensions"`
	SaveIntermediate  bool     `yaml:"save_intermediate"`
}

// ReviewConfig holds LLM review settings
type ReviewConfig struct {
	Provider       string `yaml:"provider"` // openai, googleai
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"` // Custom API endpoint (for Zhipu AI, etc.)
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ReportsConfig holds report storage settings
type ReportsConfig struct {
	OutputDir       string `yaml:"output_dir"`
	IntermediateDir string `yaml:"intermediate_dir"`
	TrendLimit      int    `yaml:"trend_limit"`
	KeepRecent      int    `yaml:"keep_recent"`
}

// EmailConfig holds email delivery settings
type EmailConfig struct {
	Enabled      bool   `yaml:"enabled"`
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromAddress  string `yaml:"from_address"`
	FromName     string `yaml:"from_name"`
	ToAddress    string `yaml:"to_address"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		RepoPath: ".",
		Audit: AuditConfig{
			Mode:              "diff",
			MaxTokensPerChunk: 14000,
			ReservedTokens:    500,
			MaxConcurrent:     4,
			Extensions:        []string{".go", ".py", ".ts", ".dart", ".sql"},
		},
		Review: ReviewConfig{
			Provider:       "openai",
			Model:          "glm-4.7",
			BaseURL:        "https://api.z.ai/api/paas/v4",
			TimeoutSeconds: 120,
		},
		Reports: ReportsConfig{
			OutputDir:       ".tula/output/final",
			IntermediateDir: ".tula/output/intermediate",
			TrendLimit:      10,
			KeepRecent:      20,
		},
		Email: EmailConfig{
			SMTPPort: 587,
			FromName: "Tula Audit",
		},
	}
}

// Load reads configuration from file and merges with defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Determine config file path
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return cfg, nil // Use defaults when no config file exists
		}
	}
	path = util.ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Expand paths
	cfg.RepoPath = util.ExpandPath(cfg.RepoPath)
	cfg.Audit.RulesFile = util.ExpandPath(cfg.Audit.RulesFile)
	cfg.Audit.DependenciesFile = util.ExpandPath(cfg.Audit.DependenciesFile)
	cfg.Reports.OutputDir = util.ExpandPath(cfg.Reports.OutputDir)
	cfg.Reports.IntermediateDir = util.ExpandPath(cfg.Reports.IntermediateDir)

	return cfg, nil
}

// findConfigFile searches the conventional locations for tula.yaml.
func findConfigFile() string {
	candidates := []string{
		"tula.yaml",
		filepath.Join("config", "tula.yaml"),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".tula", "tula.yaml"))
	}
	for _, candidate := range candidates {
		if util.FileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.RepoPath == "" {
		return fmt.Errorf("repo_path is required")
	}
	if _, err := os.Stat(c.RepoPath); os.IsNotExist(err) {
		return fmt.Errorf("repo_path does not exist: %s", c.RepoPath)
	}

	switch c.Audit.Mode {
	case "diff", "tree":
	default:
		return fmt.Errorf("audit mode must be diff or tree, got %q", c.Audit.Mode)
	}

	if c.Audit.MaxTokensPerChunk <= 0 {
		return fmt.Errorf("max_tokens_per_chunk must be positive")
	}
	if c.Audit.MaxConcurrent <= 0 {
		c.Audit.MaxConcurrent = 1
	}
	if c.Reports.OutputDir == "" {
		return fmt.Errorf("reports output_dir is required")
	}

	if c.Email.Enabled {
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("smtp_host is required when email is enabled")
		}
		if c.Email.ToAddress == "" {
			return fmt.Errorf("to_address is required when email is enabled")
		}
	}

	if c.Review.APIKey == "" {
		// Check environment variables
		if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
			c.Review.APIKey = key
		} else if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			c.Review.APIKey = key
		}
	}

	return nil
}
