package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Response is the structured verdict a remote review call must return.
type Response struct {
	Approved    bool     `json:"approved"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Summary     string   `json:"summary"`
}

// rawResponse uses pointers so missing fields are distinguishable from
// zero values. Any deviation from the schema downgrades the call to a
// failure at this boundary; untyped data never travels deeper.
type rawResponse struct {
	Approved    *bool     `json:"approved"`
	Issues      *[]string `json:"issues"`
	Suggestions *[]string `json:"suggestions"`
	Summary     *string   `json:"summary"`
}

// ParseResponse validates a raw model answer against the audit schema,
// stripping markdown code fences first.
func ParseResponse(text string) (*Response, error) {
	text = stripFences(strings.TrimSpace(text))

	var raw rawResponse
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if raw.Approved == nil || raw.Issues == nil || raw.Suggestions == nil || raw.Summary == nil {
		return nil, fmt.Errorf("response missing required fields")
	}

	return &Response{
		Approved:    *raw.Approved,
		Issues:      *raw.Issues,
		Suggestions: *raw.Suggestions,
		Summary:     *raw.Summary,
	}, nil
}

func stripFences(text string) string {
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx != -1 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx != -1 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}
