package sanitizer

import (
	"bytes"
	"errors"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrMarkdownConvert indicates the markdown fallback failed.
var ErrMarkdownConvert = errors.New("sanitizer: failed to convert markdown")

var (
	md     goldmark.Markdown
	mdOnce sync.Once
)

// MarkdownToHTML converts a markdown digest to HTML. Inline HTML in the source
// is kept as-is.
func MarkdownToHTML(s string) (string, error) {
	mdOnce.Do(func() {
		md = goldmark.New(
			goldmark.WithExtensions(extension.Linkify),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		)
	})

	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		return "", errors.Join(ErrMarkdownConvert, err)
	}
	return string(bytes.TrimSpace(buf.Bytes())), nil
}
