package converters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-doconv"
	"github.com/alnah/go-doconv/internal/process"
)

const defaultChromeTimeout = 30 * time.Second

// Sentinel errors for PDF rendering failures.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)

// PDF page dimensions in inches (US Letter format).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.5
)

// PDFRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type PDFRenderer interface {
	RenderFromFile(ctx context.Context, filePath string) ([]byte, error)
	Close() error
}

// ChromeOptions configures the chrome plugin.
type ChromeOptions struct {
	Bin       string // Empty = auto-detect
	Timeout   time.Duration
	NoSandbox bool
	Logger    *slog.Logger
}

// Chrome converts HTML to PDF using headless Chrome via go-rod.
type Chrome struct {
	opts     ChromeOptions
	renderer PDFRenderer
	lookPath func() (string, bool)
}

var _ doconv.Plugin = (*Chrome)(nil)

// NewChrome creates a Chrome plugin with the production renderer.
func NewChrome(opts ChromeOptions) *Chrome {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultChromeTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Chrome{
		opts:     opts,
		renderer: newRodRenderer(opts),
		lookPath: launcher.LookPath,
	}
}

// NewChromeWith creates a Chrome plugin with a custom renderer (for testing).
func NewChromeWith(renderer PDFRenderer, opts ChromeOptions) *Chrome {
	if renderer == nil {
		panic("nil PDFRenderer in NewChromeWith")
	}
	c := NewChrome(opts)
	c.renderer = renderer
	return c
}

func (c *Chrome) Name() string { return ChromeName }

// CheckDependencies verifies the configured browser exists, or that one
// can be found on the system.
func (c *Chrome) CheckDependencies(context.Context) error {
	if c.opts.Bin != "" {
		if _, err := os.Stat(c.opts.Bin); err != nil {
			return fmt.Errorf("%w: chrome binary %s: %v", ErrToolNotFound, c.opts.Bin, err)
		}
		return nil
	}
	path, found := c.lookPath()
	if !found {
		return fmt.Errorf("%w: Chrome/Chromium not found (set plugins.chrome.bin or ROD_BROWSER_BIN)", ErrToolNotFound)
	}
	c.opts.Logger.Debug("chrome found", "path", path)
	return nil
}

func (c *Chrome) SupportedConversions() []doconv.Conversion {
	return []doconv.Conversion{{From: "html", To: "pdf"}}
}

// Convert prints req.InputPath to PDF at req.OutputHint.
// The browser is closed before Convert returns.
func (c *Chrome) Convert(ctx context.Context, req doconv.Request) (string, error) {
	if err := checkConversion(c, req); err != nil {
		return "", err
	}
	input, err := filepath.Abs(req.InputPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	defer func() {
		if err := c.renderer.Close(); err != nil {
			c.opts.Logger.Warn("closing browser", "error", err)
		}
	}()

	pdf, err := c.renderer.RenderFromFile(ctx, input)
	if err != nil {
		return "", err
	}
	if err := writeOutput(req.OutputHint, pdf); err != nil {
		return "", err
	}
	return req.OutputHint, nil
}

// rodRenderer implements PDFRenderer using go-rod.
type rodRenderer struct {
	opts     ChromeOptions
	launcher *launcher.Launcher
	browser  *rod.Browser
}

var _ PDFRenderer = (*rodRenderer)(nil)

func newRodRenderer(opts ChromeOptions) *rodRenderer {
	return &rodRenderer{opts: opts}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if r.opts.Bin != "" {
		l = l.Bin(r.opts.Bin)
	}
	// NoSandbox required for CI and containerized environments
	if r.opts.NoSandbox {
		l = l.NoSandbox(true)
	}
	r.launcher = l

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources and kills the browser process tree.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			if kerr := process.KillGroup(pid); kerr != nil && r.opts.Logger != nil {
				r.opts.Logger.Debug("browser process group not killed", "pid", pid, "error", kerr)
			}
		}
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it to PDF.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filepath.ToSlash(filePath)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.opts.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	// Check context after page load
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.Context(ctx).PDF(pdfOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// pdfOptions returns US Letter with half-inch margins.
func pdfOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
