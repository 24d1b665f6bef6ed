package agent_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/newsletter/pkg/agent"
)

const testPrompt = `---
name: digest
role: You are a news analyst.
task: Fetch the news for {{.DateString}}.
---
Intro text is ignored.

- Only content from the last 24 hours before {{.DateString}}.
- Format results as HTML,
  with every tag closed.

- Cite sources.
`

func TestParsePrompt(t *testing.T) {
	t.Parallel()

	p, err := agent.ParsePrompt([]byte(testPrompt))
	require.NoError(t, err)
	assert.Equal(t, "digest", p.Name)

	req, err := p.Render(agent.PromptData{Date: time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)})
	require.NoError(t, err)

	assert.Equal(t, "You are a news analyst.", req.Role)
	assert.Equal(t, "Fetch the news for 2024-06-01.", req.Task)
	assert.Equal(t, []string{
		"Only content from the last 24 hours before 2024-06-01.",
		"Format results as HTML, with every tag closed.",
		"Cite sources.",
	}, req.Instructions)
}

func TestParsePrompt_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "no frontmatter", content: "- just a list"},
		{name: "unclosed frontmatter", content: "---\ntask: x\n- item"},
		{name: "bad yaml", content: "---\ntask: [unclosed\n---\n- item"},
		{name: "missing task", content: "---\nrole: r\n---\n- item"},
		{name: "bad template", content: "---\ntask: \"{{.Date\"\n---\n- item"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := agent.ParsePrompt([]byte(tt.content))
			require.ErrorIs(t, err, agent.ErrInvalidPrompt)
		})
	}
}

func TestPrompt_RenderUnknownField(t *testing.T) {
	t.Parallel()

	p, err := agent.ParsePrompt([]byte("---\ntask: \"{{.Topic}}\"\n---\n"))
	require.NoError(t, err)

	_, err = p.Render(agent.PromptData{Date: time.Now()})
	require.ErrorIs(t, err, agent.ErrInvalidPrompt)
}

func TestSystemPrompt(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"You are an analyst.\n\nInstructions:\n- one\n- two",
		agent.SystemPrompt(agent.Request{Role: "You are an analyst.", Instructions: []string{"one", "two"}}),
	)
	assert.Equal(t, "Instructions:\n- one", agent.SystemPrompt(agent.Request{Instructions: []string{"one"}}))
	assert.Equal(t, "role only", agent.SystemPrompt(agent.Request{Role: "role only"}))
}
