package converters_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-doconv"
	"github.com/alnah/go-doconv/converters"
)

// ---------------------------------------------------------------------------
// TestHTMLToText - Text extraction rules
// ---------------------------------------------------------------------------

func TestHTMLToText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "paragraphs separated by blank line",
			html: "<p>First</p><p>Second</p>",
			want: "First\n\nSecond\n",
		},
		{
			name: "whitespace collapsed",
			html: "<p>  lots   of\n\tspace  </p>",
			want: "lots of space\n",
		},
		{
			name: "inline elements keep spacing",
			html: "<p>Hello <b>bold</b> and <a href='#'>link</a>!</p>",
			want: "Hello bold and link!\n",
		},
		{
			name: "head script and style dropped",
			html: "<html><head><title>T</title><style>p{}</style></head><body><script>x()</script><p>Body</p></body></html>",
			want: "Body\n",
		},
		{
			name: "list items prefixed",
			html: "<ul>\n<li>one</li>\n<li>two</li>\n</ul>",
			want: "- one\n- two\n",
		},
		{
			name: "line breaks",
			html: "<p>a<br>b</p>",
			want: "a\nb\n",
		},
		{
			name: "preformatted kept verbatim",
			html: "<p>Code:</p><pre>if x {\n    y()\n}</pre>",
			want: "Code:\n\nif x {\n    y()\n}\n",
		},
		{
			name: "table cells separated",
			html: "<table><tr><th>a</th><th>b</th></tr><tr><td>1</td><td>2</td></tr></table>",
			want: "a b\n1 2\n",
		},
		{
			name: "headings and divs",
			html: "<h1>Title</h1><div>line one</div><div>line two</div>",
			want: "Title\n\nline one\nline two\n",
		},
		{
			name: "entities decoded",
			html: "<p>a &amp; b &lt;c&gt;</p>",
			want: "a & b <c>\n",
		},
		{
			name: "empty document",
			html: "<html><body></body></html>",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := converters.HTMLToText(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("HTMLToText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("HTMLToText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestText_Convert(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "page.html", "<h1>Report</h1><p>Done.</p>")
	hint := filepath.Join(dir, "page.x.txt")

	out, err := converters.NewText().Convert(context.Background(), doconv.Request{InputPath: input, From: "html", To: "txt", OutputHint: hint})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got := readFile(t, out); got != "Report\n\nDone.\n" {
		t.Errorf("output = %q", got)
	}
}
