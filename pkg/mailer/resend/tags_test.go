package resend

import (
	"strings"
	"testing"

	"github.com/resend/resend-go/v3"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/newsletter/pkg/mailer"
)

func TestTagSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "ai-newsletter", want: "ai-newsletter"},
		{in: "2024-06-01", want: "2024-06-01"},
		{in: "Café Résumé", want: "Cafe_Resume"},
		{in: "naïve/ñoño", want: "naive_nono"},
		{in: "日本", want: "__"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tagSafe(tt.in))
		})
	}

	assert.Len(t, tagSafe(strings.Repeat("a", 300)), maxTagLength)
}

func TestConvertTags(t *testing.T) {
	t.Parallel()

	got := convertTags(mailer.Tags{
		"date":     "2024-06-01",
		"category": "AI News",
		"draft":    struct{}{},
		"attempt":  2,
		"日本":       "dropped name becomes underscores",
	})

	assert.Equal(t, []resend.Tag{
		{Name: "attempt", Value: "2"},
		{Name: "category", Value: "AI_News"},
		{Name: "date", Value: "2024-06-01"},
		{Name: "draft", Value: "true"},
		{Name: "__", Value: "dropped_name_becomes_underscores"},
	}, got)
}
