// Package sanitizer cleans LLM-produced newsletter markup before it is mailed.
//
// StripCodeFences removes the markdown fences models like to wrap HTML in.
// ValidateHTML reports well-formedness problems without changing the input.
// PlainText, SanitizeEmailHTML and MarkdownToHTML are optional follow-up passes
// built on bluemonday and goldmark.
package sanitizer
