// Package llm runs review prompts through a Genkit-configured model and
// validates responses against the audit schema.
package llm

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	oai "github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/openai/openai-go/option"

	"github.com/NikhilVijayakumar/Tula/internal/config"
)

const defaultTimeout = 120 * time.Second

// Client executes remote review calls. It owns provider selection and the
// per-call timeout; callers only supply prompts.
type Client struct {
	config  config.ReviewConfig
	logger  *log.Logger
	genkit  *genkit.Genkit
	modelID string
	timeout time.Duration
}

// NewClient creates a Client for the configured provider.
func NewClient(cfg config.ReviewConfig, logger *log.Logger) (*Client, error) {
	ctx := context.Background()

	var g *genkit.Genkit
	var modelID string

	switch cfg.Provider {
	case "openai":
		// OpenAI-compatible API (Zhipu AI, etc.)
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ZHIPU_API_KEY")
			if apiKey == "" {
				apiKey = os.Getenv("OPENAI_API_KEY")
			}
		}

		var opts []option.RequestOption
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}

		plugin := &oai.OpenAI{
			APIKey: apiKey,
			Opts:   opts,
		}

		modelID = cfg.Model
		if modelID == "" {
			modelID = "glm-4.7"
		}
		if !strings.Contains(modelID, "/") {
			modelID = "openai/" + modelID
		}

		g = genkit.Init(ctx,
			genkit.WithDefaultModel(modelID),
			genkit.WithPlugins(plugin),
		)

	case "googleai":
		fallthrough
	default:
		// Google AI (Gemini)
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
			if apiKey == "" {
				apiKey = os.Getenv("GOOGLE_API_KEY")
			}
		}

		modelID = cfg.Model
		if modelID == "" {
			modelID = "gemini-2.0-flash"
		}
		if !strings.Contains(modelID, "/") {
			modelID = "googleai/" + modelID
		}

		g = genkit.Init(ctx,
			genkit.WithDefaultModel(modelID),
			genkit.WithPlugins(&googlegenai.GoogleAI{
				APIKey: apiKey,
			}),
		)
	}

	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &Client{
		config:  cfg,
		logger:  logger,
		genkit:  g,
		modelID: modelID,
		timeout: timeout,
	}, nil
}

// Model returns the resolved model identifier.
func (c *Client) Model() string {
	return c.modelID
}

// Complete sends one prompt and returns the validated structured response.
// Every call is bounded by the configured timeout; a timed-out call fails
// like any other call.
func (c *Client) Complete(ctx context.Context, prompt string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	answer, err := genkit.GenerateText(ctx, c.genkit,
		ai.WithModelName(c.modelID),
		ai.WithPrompt(prompt),
	)
	if err != nil {
		return nil, fmt.Errorf("generating review: %w", err)
	}

	resp, err := ParseResponse(answer)
	if err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return resp, nil
}
