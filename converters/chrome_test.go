package converters

// Notes:
// - Uses fakeRenderer and an injected lookPath; no browser is launched.
// - rodRenderer itself is covered by TestChrome_Integration, which skips
//   unless DOCONV_CHROME_TEST=1 and a browser is installed.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-doconv"
)

type fakeRenderer struct {
	pdf      []byte
	err      error
	path     string
	deadline bool
	closed   int
}

func (r *fakeRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	r.path = filePath
	_, r.deadline = ctx.Deadline()
	return r.pdf, r.err
}

func (r *fakeRenderer) Close() error {
	r.closed++
	return nil
}

// ---------------------------------------------------------------------------
// TestChrome_Convert - HTML to PDF through the renderer
// ---------------------------------------------------------------------------

func TestChrome_Convert(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "page.html")
	if err := os.WriteFile(input, []byte("<p>hi</p>"), 0o644); err != nil {
		t.Fatal(err)
	}
	hint := filepath.Join(dir, "page.x.pdf")
	renderer := &fakeRenderer{pdf: []byte("%PDF-1.7 fake")}
	c := NewChromeWith(renderer, ChromeOptions{Timeout: time.Minute})

	out, err := c.Convert(context.Background(), doconv.Request{InputPath: input, From: "html", To: "pdf", OutputHint: hint})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if out != hint {
		t.Errorf("Convert() = %q, want %q", out, hint)
	}
	data, err := os.ReadFile(hint)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF-1.7 fake" {
		t.Errorf("output = %q", data)
	}
	if !filepath.IsAbs(renderer.path) {
		t.Errorf("renderer got relative path %q", renderer.path)
	}
	if !renderer.deadline {
		t.Error("renderer context has no deadline")
	}
	if renderer.closed != 1 {
		t.Errorf("Close() called %d times, want 1", renderer.closed)
	}
}

func TestChrome_Convert_RenderError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	renderer := &fakeRenderer{err: ErrPageLoad}
	c := NewChromeWith(renderer, ChromeOptions{})
	hint := filepath.Join(dir, "a.pdf")

	_, err := c.Convert(context.Background(), doconv.Request{InputPath: filepath.Join(dir, "a.html"), From: "html", To: "pdf", OutputHint: hint})
	if !errors.Is(err, ErrPageLoad) {
		t.Errorf("Convert() error = %v, want ErrPageLoad", err)
	}
	if _, statErr := os.Stat(hint); !os.IsNotExist(statErr) {
		t.Error("output written despite render failure")
	}
	if renderer.closed != 1 {
		t.Errorf("Close() called %d times, want 1 even on failure", renderer.closed)
	}
}

func TestChrome_Convert_Unsupported(t *testing.T) {
	t.Parallel()

	renderer := &fakeRenderer{}
	c := NewChromeWith(renderer, ChromeOptions{})

	_, err := c.Convert(context.Background(), doconv.Request{InputPath: "a.md", From: "md", To: "pdf", OutputHint: "a.pdf"})
	if !errors.Is(err, ErrUnsupportedConversion) {
		t.Errorf("Convert() error = %v, want ErrUnsupportedConversion", err)
	}
	if renderer.path != "" {
		t.Error("renderer ran for an unsupported conversion")
	}
}

func TestNewChromeWith_NilRendererPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("NewChromeWith(nil) did not panic")
		}
	}()
	NewChromeWith(nil, ChromeOptions{})
}

// ---------------------------------------------------------------------------
// TestChrome_CheckDependencies - Browser discovery
// ---------------------------------------------------------------------------

func TestChrome_CheckDependencies(t *testing.T) {
	t.Parallel()

	existing := filepath.Join(t.TempDir(), "chrome")
	if err := os.WriteFile(existing, nil, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		bin     string
		found   bool
		wantErr error
	}{
		{name: "configured binary exists", bin: existing},
		{name: "configured binary missing", bin: "/nonexistent/chrome", wantErr: ErrToolNotFound},
		{name: "auto-detected", found: true},
		{name: "nothing found", found: false, wantErr: ErrToolNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewChromeWith(&fakeRenderer{}, ChromeOptions{Bin: tt.bin})
			looked := false
			c.lookPath = func() (string, bool) {
				looked = true
				return "/usr/bin/chromium", tt.found
			}

			err := c.CheckDependencies(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckDependencies() error = %v, want %v", err, tt.wantErr)
			}
			if tt.bin != "" && looked {
				t.Error("auto-detection ran despite a configured binary")
			}
		})
	}
}

func TestChrome_Defaults(t *testing.T) {
	t.Parallel()

	c := NewChrome(ChromeOptions{})
	if c.opts.Timeout != defaultChromeTimeout {
		t.Errorf("Timeout = %v, want %v", c.opts.Timeout, defaultChromeTimeout)
	}
	if c.Name() != ChromeName {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestPDFOptions(t *testing.T) {
	t.Parallel()

	opts := pdfOptions()
	if *opts.PaperWidth != paperWidthInches || *opts.PaperHeight != paperHeightInches {
		t.Errorf("paper = %vx%v, want US Letter", *opts.PaperWidth, *opts.PaperHeight)
	}
	if *opts.MarginTop != marginInches || *opts.MarginLeft != marginInches {
		t.Error("margins not set")
	}
	if !opts.PrintBackground {
		t.Error("PrintBackground = false, want true")
	}
}

func TestRodRenderer_CloseWithoutLaunch(t *testing.T) {
	t.Parallel()

	r := newRodRenderer(ChromeOptions{})
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestChrome_Integration - Real browser
// ---------------------------------------------------------------------------

func TestChrome_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if os.Getenv("DOCONV_CHROME_TEST") != "1" {
		t.Skip("set DOCONV_CHROME_TEST=1 to run the browser test")
	}

	c := NewChrome(ChromeOptions{NoSandbox: os.Getenv("ROD_NO_SANDBOX") == "1"})
	if err := c.CheckDependencies(context.Background()); err != nil {
		t.Skipf("browser unavailable: %v", err)
	}

	dir := t.TempDir()
	input := filepath.Join(dir, "page.html")
	if err := os.WriteFile(input, []byte("<html><body><h1>Hello</h1></body></html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := c.Convert(context.Background(), doconv.Request{InputPath: input, From: "html", To: "pdf", OutputHint: filepath.Join(dir, "page.pdf")})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("output does not look like a PDF: %q", data[:min(len(data), 16)])
	}
}
