package converters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/alnah/go-doconv"
)

const defaultPandocBin = "pandoc"

// ErrPandoc indicates the pandoc process failed.
var ErrPandoc = errors.New("pandoc failed")

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
// The process is killed when ctx is canceled.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- binary and arguments come from configuration

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// pandocFormats maps doconv formats to pandoc reader/writer names.
// Formats absent from the map are passed through unchanged.
var pandocFormats = map[doconv.Format]string{
	"md":   "markdown",
	"html": "html5",
	"tex":  "latex",
}

// pandocStandalone lists output formats that need --standalone to form a complete document.
var pandocStandalone = map[doconv.Format]bool{
	"html": true,
	"tex":  true,
}

// PandocOptions configures the pandoc plugin.
type PandocOptions struct {
	Bin    string
	Runner CommandRunner
	Logger *slog.Logger
}

// Pandoc converts between Markdown and several document formats by
// invoking the pandoc CLI.
type Pandoc struct {
	bin    string
	runner CommandRunner
	logger *slog.Logger
}

var _ doconv.Plugin = (*Pandoc)(nil)

// NewPandoc creates a Pandoc plugin. Zero fields take defaults.
func NewPandoc(opts PandocOptions) *Pandoc {
	p := &Pandoc{bin: opts.Bin, runner: opts.Runner, logger: opts.Logger}
	if p.bin == "" {
		p.bin = defaultPandocBin
	}
	if p.runner == nil {
		p.runner = &ExecRunner{}
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

func (p *Pandoc) Name() string { return PandocName }

// CheckDependencies runs "pandoc --version".
func (p *Pandoc) CheckDependencies(ctx context.Context) error {
	stdout, stderr, err := p.runner.Run(ctx, p.bin, "--version")
	if err != nil {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("%w: %s: %s", ErrToolNotFound, p.bin, detail)
	}
	if line, _, _ := strings.Cut(stdout, "\n"); line != "" {
		p.logger.Debug("pandoc found", "version", strings.TrimSpace(line))
	}
	return nil
}

func (p *Pandoc) SupportedConversions() []doconv.Conversion {
	others := []doconv.Format{"html", "docx", "epub", "odt", "rst", "tex"}
	convs := make([]doconv.Conversion, 0, 2*len(others))
	for _, f := range others {
		convs = append(convs, doconv.Conversion{From: "md", To: f})
	}
	for _, f := range others {
		convs = append(convs, doconv.Conversion{From: f, To: "md"})
	}
	return convs
}

// Convert runs pandoc on req.InputPath and writes req.OutputHint.
// Markdown is read with fancy_lists disabled so letter markers such as
// "A)" stay literal text.
func (p *Pandoc) Convert(ctx context.Context, req doconv.Request) (string, error) {
	if err := checkConversion(p, req); err != nil {
		return "", err
	}

	args := p.args(req)
	p.logger.Debug("running pandoc", "bin", p.bin, "args", args)

	_, stderr, err := p.runner.Run(ctx, p.bin, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %s: %w", ErrPandoc, strings.TrimSpace(stderr), err)
	}
	return req.OutputHint, nil
}

// args builds the pandoc command line for req.
func (p *Pandoc) args(req doconv.Request) []string {
	from := pandocName(req.From)
	if req.From == "md" {
		from += "-fancy_lists"
	}
	args := []string{req.InputPath, "-f", from, "-t", pandocName(req.To), "-o", req.OutputHint}
	if pandocStandalone[req.To] {
		args = append(args, "--standalone")
	}
	return args
}

func pandocName(f doconv.Format) string {
	if name, ok := pandocFormats[f]; ok {
		return name
	}
	return string(f)
}
