package mailer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "AI Newsletter - 2024-06-01"},
		{time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), "AI Newsletter - 2024-12-31"},
		{time.Date(2025, 1, 9, 12, 0, 0, 0, time.FixedZone("PST", -8*3600)), "AI Newsletter - 2025-01-09"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Subject(tt.date))
		assert.Equal(t, SubjectPrefix+tt.date.Format("2006-01-02"), Subject(tt.date))
	}
}

func TestIdempotencyKey(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	later := time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC)

	key := IdempotencyKey(day, "reader@example.com")

	require.True(t, strings.HasPrefix(key, "ai-newsletter/2024-06-01/"), key)
	assert.NotContains(t, key, "reader@example.com")
	assert.Equal(t, key, IdempotencyKey(later, "reader@example.com"), "same day, same key")
	assert.NotEqual(t, key, IdempotencyKey(day, "other@example.com"))
	assert.NotEqual(t, key, IdempotencyKey(day.AddDate(0, 0, 1), "reader@example.com"))
}

func TestSimpleTags(t *testing.T) {
	t.Parallel()

	tags := SimpleTags("newsletter", "ai-digest")

	require.Len(t, tags, 2)
	assert.Equal(t, struct{}{}, tags["newsletter"])
	assert.Empty(t, SimpleTags())
}

func TestRecipient(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AI Newsletter <news@example.com>", Recipient("AI Newsletter", "news@example.com"))
	assert.Equal(t, "news@example.com", Recipient("", "news@example.com"))
}
