package converters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/alnah/go-doconv"
	"github.com/alnah/go-doconv/internal/fileutil"
)

// ErrHTMLConversion indicates Markdown to HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// htmlTemplate wraps goldmark's fragment output in a complete HTML5 document.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>
`

// Goldmark converts Markdown to HTML in pure Go.
type Goldmark struct {
	md goldmark.Markdown
}

var _ doconv.Plugin = (*Goldmark)(nil)

// NewGoldmark creates a Goldmark plugin with GFM extensions and syntax highlighting.
func NewGoldmark() *Goldmark {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
			// No WithUnsafe: raw HTML in the source is dropped.
		),
	)
	return &Goldmark{md: md}
}

func (g *Goldmark) Name() string { return GoldmarkName }

func (g *Goldmark) CheckDependencies(context.Context) error { return nil }

func (g *Goldmark) SupportedConversions() []doconv.Conversion {
	return []doconv.Conversion{{From: "md", To: "html"}}
}

// Convert renders req.InputPath to a standalone HTML document at req.OutputHint.
func (g *Goldmark) Convert(ctx context.Context, req doconv.Request) (string, error) {
	if err := checkConversion(g, req); err != nil {
		return "", err
	}
	content, err := readInput(req.InputPath)
	if err != nil {
		return "", err
	}
	out, err := g.ToHTML(ctx, content, fileutil.BaseStem(req.InputPath))
	if err != nil {
		return "", err
	}
	if err := writeOutput(req.OutputHint, []byte(out)); err != nil {
		return "", err
	}
	return req.OutputHint, nil
}

// ToHTML converts Markdown content to a standalone HTML5 document.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (g *Goldmark) ToHTML(ctx context.Context, content []byte, title string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if title == "" {
		title = "Document"
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := g.md.Convert(content, &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: fmt.Sprintf(htmlTemplate, html.EscapeString(title), buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
