package strategy

import (
	"fmt"
	"strings"
)

const systemPromptHeader = `You are a senior software engineer auditing code changes against a set of architectural rules. Only flag genuine rule violations and meaningful problems; if the change complies, approve it.

## Architectural Rules

`

const outputInstructions = `
## Required Output Format

Respond with a JSON object in this exact format:

{
  "approved": true,
  "issues": ["each architectural rule violation, one per entry"],
  "suggestions": ["each non-blocking improvement, one per entry"],
  "summary": "One or two sentence summary of the review"
}

Set "approved" to false when there is at least one issue. Respond ONLY with the JSON object, no additional text.`

// BuildSystemPrompt assembles the rules (and optional dependency notes) into
// the shared prompt prefix every remote call uses.
func BuildSystemPrompt(rulesText, dependencies string) string {
	var sb strings.Builder
	sb.WriteString(systemPromptHeader)
	sb.WriteString(rulesText)
	if dependencies != "" {
		sb.WriteString("\n\n## Approved Dependencies\n\n")
		sb.WriteString(dependencies)
	}
	return sb.String()
}

// BuildSinglePrompt wraps the whole change for a one-call review.
func BuildSinglePrompt(diff string) string {
	var sb strings.Builder
	sb.WriteString("## Code Changes to Review\n\n```diff\n")
	sb.WriteString(diff)
	sb.WriteString("\n```\n")
	sb.WriteString(outputInstructions)
	return sb.String()
}

// BuildChunkPrompt wraps one chunk of a larger change, identifying its
// position and files so partial reviews stay traceable.
func BuildChunkPrompt(index, total int, files []string, diff string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Code Changes to Review (part %d of %d)\n\n", index, total)
	fmt.Fprintf(&sb, "Files in this part: %s\n\n", strings.Join(files, ", "))
	sb.WriteString("```diff\n")
	sb.WriteString(diff)
	sb.WriteString("\n```\n")
	sb.WriteString(outputInstructions)
	return sb.String()
}

// Truncate cuts text to roughly maxTokens worth of characters at a line
// boundary. Used for over-budget chunks that cannot be split further.
func Truncate(text string, maxTokens int) string {
	maxChars := maxTokens * 4
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	cut := text[:maxChars]
	if idx := strings.LastIndexByte(cut, '\n'); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "\n... [truncated]"
}
