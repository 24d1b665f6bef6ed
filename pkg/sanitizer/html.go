package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicy  *bluemonday.Policy
	emailPolicy *bluemonday.Policy
	initOnce    sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// Strips all markup; spaces keep adjacent block text apart.
		textPolicy = bluemonday.StrictPolicy()
		textPolicy.AddSpaceWhenStrippingTag(true)

		// Tags a newsletter digest is asked to use, nothing executable.
		emailPolicy = bluemonday.NewPolicy()
		emailPolicy.AllowStandardURLs()
		emailPolicy.AllowElements(
			"h1", "h2", "h3", "h4",
			"p", "br", "hr", "div", "span",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"blockquote", "code", "pre",
		)
		emailPolicy.AllowAttrs("href").OnElements("a")
	})
}

// PlainText renders HTML as a single-line plain-text alternative.
// Entities are decoded and runs of whitespace collapse to one space.
func PlainText(s string) string {
	initPolicies()
	stripped := html.UnescapeString(textPolicy.Sanitize(s))
	return strings.Join(strings.Fields(stripped), " ")
}

// SanitizeEmailHTML keeps headings, paragraphs, lists and links and drops
// everything else, including scripts, styles and event handlers.
func SanitizeEmailHTML(s string) string {
	initPolicies()
	return emailPolicy.Sanitize(s)
}
