package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_PlainJSON(t *testing.T) {
	resp, err := ParseResponse(`{"approved": false, "issues": ["a"], "suggestions": [], "summary": "one issue"}`)
	require.NoError(t, err)
	assert.False(t, resp.Approved)
	assert.Equal(t, []string{"a"}, resp.Issues)
	assert.Empty(t, resp.Suggestions)
	assert.Equal(t, "one issue", resp.Summary)
}

func TestParseResponse_FencedJSON(t *testing.T) {
	text := "```json\n{\"approved\": true, \"issues\": [], \"suggestions\": [\"s\"], \"summary\": \"ok\"}\n```"
	resp, err := ParseResponse(text)
	require.NoError(t, err)
	assert.True(t, resp.Approved)
	assert.Equal(t, []string{"s"}, resp.Suggestions)
}

func TestParseResponse_BareFence(t *testing.T) {
	text := "```\n{\"approved\": true, \"issues\": [], \"suggestions\": [], \"summary\": \"ok\"}\n```"
	_, err := ParseResponse(text)
	assert.NoError(t, err)
}

func TestParseResponse_NotJSON(t *testing.T) {
	_, err := ParseResponse("The change looks fine to me.")
	assert.Error(t, err)
}

func TestParseResponse_MissingField(t *testing.T) {
	cases := []string{
		`{"issues": [], "suggestions": [], "summary": "ok"}`,
		`{"approved": true, "suggestions": [], "summary": "ok"}`,
		`{"approved": true, "issues": [], "summary": "ok"}`,
		`{"approved": true, "issues": [], "suggestions": []}`,
	}
	for _, c := range cases {
		_, err := ParseResponse(c)
		assert.ErrorContains(t, err, "missing required fields", "input: %s", c)
	}
}

func TestParseResponse_ExtraFieldIgnored(t *testing.T) {
	_, err := ParseResponse(`{"approved": true, "issues": [], "suggestions": [], "summary": "ok", "confidence": 0.9}`)
	assert.NoError(t, err)
}
