package converters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-doconv"
)

// Text extracts readable plain text from HTML.
type Text struct{}

var _ doconv.Plugin = (*Text)(nil)

// NewText creates a Text plugin.
func NewText() *Text { return &Text{} }

func (t *Text) Name() string { return TextName }

func (t *Text) CheckDependencies(context.Context) error { return nil }

func (t *Text) SupportedConversions() []doconv.Conversion {
	return []doconv.Conversion{{From: "html", To: "txt"}}
}

// Convert writes the text content of req.InputPath to req.OutputHint.
func (t *Text) Convert(ctx context.Context, req doconv.Request) (string, error) {
	if err := checkConversion(t, req); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := readInput(req.InputPath)
	if err != nil {
		return "", err
	}
	text, err := HTMLToText(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	if err := writeOutput(req.OutputHint, []byte(text)); err != nil {
		return "", err
	}
	return req.OutputHint, nil
}

// HTMLToText renders an HTML document as plain text.
// Block elements start new lines, paragraphs are separated by a blank line,
// list items get a "- " prefix, and <pre> content is kept verbatim.
// Scripts, styles and the document head are dropped.
func HTMLToText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	var w textWriter
	w.walk(doc)
	out := strings.TrimSpace(w.b.String())
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}

// skipped elements contribute no text.
var skipped = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true,
	atom.Noscript: true, atom.Template: true, atom.Svg: true,
}

// paragraphs are separated from their neighbors by a blank line.
var paragraphs = map[atom.Atom]bool{
	atom.P: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Blockquote: true, atom.Table: true,
	atom.Ul: true, atom.Ol: true, atom.Dl: true, atom.Figure: true,
}

// blocks start on a new line.
var blocks = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Caption: true,
	atom.Dd: true, atom.Details: true, atom.Dialog: true, atom.Div: true,
	atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true, atom.Footer: true,
	atom.Form: true, atom.Header: true, atom.Li: true, atom.Main: true,
	atom.Nav: true, atom.Section: true, atom.Tr: true,
}

// textWriter accumulates text, deferring separators until the next word.
type textWriter struct {
	b        strings.Builder
	started  bool
	newlines int  // pending line breaks
	space    bool // pending space
}

func (w *textWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		switch {
		case skipped[n.DataAtom]:
			return
		case n.DataAtom == atom.Br:
			w.breakLine(1)
			return
		case n.DataAtom == atom.Hr:
			w.breakLine(2)
			return
		case n.DataAtom == atom.Pre:
			w.breakLine(2)
			w.raw(strings.Trim(textContent(n), "\n"))
			w.breakLine(2)
			return
		}
	}

	sep := 0
	if paragraphs[n.DataAtom] {
		sep = 2
	} else if blocks[n.DataAtom] {
		sep = 1
	}
	w.breakLine(sep)
	if n.DataAtom == atom.Li {
		w.raw("- ")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}

	w.breakLine(sep)
	if n.DataAtom == atom.Td || n.DataAtom == atom.Th {
		w.space = true
	}
}

// text writes s with runs of whitespace collapsed to one space.
func (w *textWriter) text(s string) {
	words := strings.Fields(s)
	if len(words) == 0 {
		if s != "" {
			w.space = true
		}
		return
	}
	if r, _ := utf8.DecodeRuneInString(s); unicode.IsSpace(r) {
		w.space = true
	}
	w.raw(strings.Join(words, " "))
	if r, _ := utf8.DecodeLastRuneInString(s); unicode.IsSpace(r) {
		w.space = true
	}
}

// raw writes s after any pending separator, without collapsing whitespace.
func (w *textWriter) raw(s string) {
	if w.started {
		if w.newlines > 0 {
			w.b.WriteString(strings.Repeat("\n", w.newlines))
		} else if w.space {
			w.b.WriteByte(' ')
		}
	}
	w.newlines, w.space = 0, false
	w.b.WriteString(s)
	w.started = true
}

func (w *textWriter) breakLine(n int) {
	if n > w.newlines {
		w.newlines = n
	}
}

// textContent returns the concatenated text below n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
