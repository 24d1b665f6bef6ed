package resend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/resend/resend-go/v3"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dmitrymomot/newsletter/pkg/mailer"
)

// maxTagLength is Resend's limit for tag names and values.
const maxTagLength = 256

func convertTags(tags mailer.Tags) []resend.Tag {
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]resend.Tag, 0, len(tags))
	for _, name := range names {
		n := tagSafe(name)
		if n == "" {
			continue
		}
		result = append(result, resend.Tag{
			Name:  n,
			Value: tagSafe(tagValue(tags[name])),
		})
	}
	return result
}

// tagValue converts any value to a string for Resend's tag API.
// Presence-only tags (struct{}{}) become "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// tagSafe folds s into the ASCII letters, digits, '_' and '-' Resend accepts.
// Latin diacritics are dropped ("café" -> "cafe"); other runes become '_'.
func tagSafe(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for _, r := range folded {
		if b.Len() == maxTagLength {
			break
		}
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
