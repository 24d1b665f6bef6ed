package sanitizer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ProblemKind classifies a well-formedness problem.
type ProblemKind string

const (
	// ProblemUnclosed is an element still open at the end of input.
	ProblemUnclosed ProblemKind = "unclosed"
	// ProblemMismatched is an end tag that closes an element other than the innermost one.
	ProblemMismatched ProblemKind = "mismatched"
	// ProblemStray is an end tag with no matching start tag.
	ProblemStray ProblemKind = "stray"
)

// Problem describes one well-formedness issue.
type Problem struct {
	Kind ProblemKind
	Tag  string
	// Offset is the byte offset of the token that triggered the problem.
	Offset int
}

func (p Problem) String() string {
	return fmt.Sprintf("%s <%s> at byte %d", p.Kind, p.Tag, p.Offset)
}

// voidElements never take an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// ValidateHTML reports tags that are not properly closed. It never modifies
// the markup; an empty result means every element was closed in order.
func ValidateHTML(s string) []Problem {
	var (
		problems []Problem
		stack    []string
		offsets  []int
		offset   int
	)

	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		raw := len(z.Raw())
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				return append(problems, Problem{Kind: ProblemUnclosed, Tag: "#document", Offset: offset})
			}
			for i := len(stack) - 1; i >= 0; i-- {
				problems = append(problems, Problem{Kind: ProblemUnclosed, Tag: stack[i], Offset: offsets[i]})
			}
			return problems
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if !voidElements[tag] {
				stack = append(stack, tag)
				offsets = append(offsets, offset)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			idx := lastIndex(stack, tag)
			switch {
			case idx < 0:
				problems = append(problems, Problem{Kind: ProblemStray, Tag: tag, Offset: offset})
			case idx != len(stack)-1:
				problems = append(problems, Problem{Kind: ProblemMismatched, Tag: tag, Offset: offset})
				stack, offsets = stack[:idx], offsets[:idx]
			default:
				stack, offsets = stack[:idx], offsets[:idx]
			}
		}
		offset += raw
	}
}

// HasElements reports whether s contains at least one HTML start tag.
func HasElements(s string) bool {
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			return true
		}
	}
}

func lastIndex(stack []string, tag string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == tag {
			return i
		}
	}
	return -1
}
