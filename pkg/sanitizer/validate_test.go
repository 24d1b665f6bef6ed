package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/newsletter/pkg/sanitizer"
)

func TestValidateHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []sanitizer.Problem
	}{
		{
			name:  "well formed digest",
			input: `<h2>Title</h2><p>Summary <a href="https://x.dev">link</a></p>`,
		},
		{
			name:  "void elements",
			input: `<p>line<br>next<img src="x.png"></p><hr/>`,
		},
		{
			name:  "plain text",
			input: "nothing to see",
		},
		{
			name:  "unclosed paragraph",
			input: `<h2>Title</h2><p>Summary`,
			want:  []sanitizer.Problem{{Kind: sanitizer.ProblemUnclosed, Tag: "p", Offset: 14}},
		},
		{
			name:  "stray end tag",
			input: `<p>x</p></div>`,
			want:  []sanitizer.Problem{{Kind: sanitizer.ProblemStray, Tag: "div", Offset: 8}},
		},
		{
			name:  "mismatched nesting",
			input: `<p><a href="#">x</p>`,
			want:  []sanitizer.Problem{{Kind: sanitizer.ProblemMismatched, Tag: "p", Offset: 16}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.ValidateHTML(tt.input))
		})
	}
}

func TestProblem_String(t *testing.T) {
	t.Parallel()

	p := sanitizer.Problem{Kind: sanitizer.ProblemUnclosed, Tag: "p", Offset: 3}
	assert.Equal(t, "unclosed <p> at byte 3", p.String())
}

func TestHasElements(t *testing.T) {
	t.Parallel()

	assert.True(t, sanitizer.HasElements("<p>x</p>"))
	assert.True(t, sanitizer.HasElements("text <br/> more"))
	assert.False(t, sanitizer.HasElements("## Heading\n\nSome *markdown*"))
	assert.False(t, sanitizer.HasElements(""))
}
