package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/newsletter/pkg/sanitizer"
)

func TestStripCodeFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "fenced html block",
			input:    "```html<h2>Title</h2><p>Summary</p>```",
			expected: "<h2>Title</h2><p>Summary</p>",
		},
		{
			name:     "fence on own lines",
			input:    "```html\n<h2>Title</h2>\n```\n",
			expected: "<h2>Title</h2>",
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n\t<p>x</p>  \n",
			expected: "<p>x</p>",
		},
		{
			name:     "no fences",
			input:    "<p>plain</p>",
			expected: "<p>plain</p>",
		},
		{
			name:     "markers that reappear after one pass",
			input:    "`" + "```html" + "``<p>x</p>",
			expected: "<p>x</p>",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "only fences",
			input:    "```html\n```",
			expected: "",
		},
		{
			name:     "malformed html passes through",
			input:    "```html<h2>Open<p>never closed",
			expected: "<h2>Open<p>never closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.StripCodeFences(tt.input))
		})
	}
}

func TestStripCodeFences_Properties(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"```html<h2>Title</h2><p>Summary</p>```",
		" ```` ``` ``html ",
		"````html``html",
		"\n\n```html\n```html\n<p>a</p>\n```\n```\n",
		"`````",
		"  text with ` single backticks `  ",
	}

	for _, in := range inputs {
		once := sanitizer.StripCodeFences(in)
		assert.Equal(t, once, sanitizer.StripCodeFences(once), "idempotent for %q", in)
		assert.NotContains(t, once, sanitizer.Fence, "fence left in %q", in)
		assert.Equal(t, strings.TrimSpace(once), once, "untrimmed result for %q", in)
	}
}
