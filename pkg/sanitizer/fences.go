package sanitizer

import "strings"

const (
	// HTMLFence opens a fenced HTML block in markdown.
	HTMLFence = "```html"
	// Fence opens or closes any fenced block.
	Fence = "```"
)

// StripCodeFences removes every literal HTMLFence and Fence marker and trims
// surrounding whitespace. Removal repeats until no marker is left, so the
// result never contains a fence and StripCodeFences(StripCodeFences(s)) ==
// StripCodeFences(s).
func StripCodeFences(s string) string {
	for strings.Contains(s, Fence) {
		s = strings.ReplaceAll(s, HTMLFence, "")
		s = strings.ReplaceAll(s, Fence, "")
	}
	return strings.TrimSpace(s)
}
