// Package converters provides the built-in doconv plugins.
//
// Register adds them to a registry in a fixed order: goldmark, pandoc,
// chrome, text, yaml, sheet. The order decides which plugin wins when two
// declare the same conversion (goldmark before pandoc for md -> html)
// unless Options.Priority says otherwise.
package converters

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/alnah/go-doconv"
)

// Plugin names.
const (
	GoldmarkName = "goldmark"
	PandocName   = "pandoc"
	ChromeName   = "chrome"
	TextName     = "text"
	YAMLName     = "yaml"
	SheetName    = "sheet"
)

// Sentinel errors shared by the built-in plugins.
var (
	ErrToolNotFound          = errors.New("required tool not found")
	ErrUnsupportedConversion = errors.New("conversion not supported by plugin")
	ErrReadInput             = errors.New("failed to read input file")
	ErrWriteOutput           = errors.New("failed to write output file")
)

// Options configures the built-in plugins.
type Options struct {
	Disabled []string // Plugins to skip
	Priority []string // Plugins moved to the front of the registry order

	PandocBin string        // Default: "pandoc"
	Runner    CommandRunner // Default: ExecRunner

	ChromeBin     string        // Default: $ROD_BROWSER_BIN, then auto-detect
	ChromeTimeout time.Duration // Default: 30s
	NoSandbox     bool          // Also enabled by ROD_NO_SANDBOX=1

	Logger *slog.Logger // Default: discard
}

// Names returns the built-in plugin names in registration order.
func Names() []string {
	return []string{GoldmarkName, PandocName, ChromeName, TextName, YAMLName, SheetName}
}

// Register adds every built-in plugin not listed in opts.Disabled, then
// applies opts.Priority. Unknown names in either list are rejected with
// doconv.ErrUnknownPlugin.
func Register(reg *doconv.Registry, opts Options) error {
	builtins := Names()
	for _, name := range opts.Disabled {
		if !slices.Contains(builtins, name) {
			return fmt.Errorf("%w: cannot disable %q (built-in plugins: %v)", doconv.ErrUnknownPlugin, name, builtins)
		}
	}

	opts = opts.withDefaults()
	factories := map[string]doconv.Factory{
		GoldmarkName: func() (doconv.Plugin, error) { return NewGoldmark(), nil },
		PandocName: func() (doconv.Plugin, error) {
			return NewPandoc(PandocOptions{Bin: opts.PandocBin, Runner: opts.Runner, Logger: opts.Logger}), nil
		},
		ChromeName: func() (doconv.Plugin, error) {
			return NewChrome(ChromeOptions{
				Bin:       opts.ChromeBin,
				Timeout:   opts.ChromeTimeout,
				NoSandbox: opts.NoSandbox,
				Logger:    opts.Logger,
			}), nil
		},
		TextName:  func() (doconv.Plugin, error) { return NewText(), nil },
		YAMLName:  func() (doconv.Plugin, error) { return NewYAML(), nil },
		SheetName: func() (doconv.Plugin, error) { return NewSheet(), nil },
	}

	for _, name := range builtins {
		if slices.Contains(opts.Disabled, name) {
			opts.Logger.Debug("plugin disabled", "plugin", name)
			continue
		}
		if err := reg.Register(name, factories[name]); err != nil {
			return err
		}
	}

	registered := reg.Names()
	for _, name := range opts.Priority {
		if !slices.Contains(registered, name) {
			return fmt.Errorf("%w: cannot prioritize %q (registered plugins: %v)", doconv.ErrUnknownPlugin, name, registered)
		}
	}
	reg.Prioritize(opts.Priority...)
	return nil
}

// withDefaults fills unset options from the environment and built-in defaults.
func (o Options) withDefaults() Options {
	if o.PandocBin == "" {
		o.PandocBin = defaultPandocBin
	}
	if o.Runner == nil {
		o.Runner = &ExecRunner{}
	}
	if o.ChromeBin == "" {
		o.ChromeBin = os.Getenv("ROD_BROWSER_BIN")
	}
	if o.ChromeTimeout <= 0 {
		o.ChromeTimeout = defaultChromeTimeout
	}
	if os.Getenv("ROD_NO_SANDBOX") == "1" {
		o.NoSandbox = true
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// checkConversion rejects requests outside the plugin's declared conversions.
func checkConversion(p doconv.Plugin, req doconv.Request) error {
	want := doconv.Conversion{From: req.From, To: req.To}
	if !slices.Contains(p.SupportedConversions(), want) {
		return fmt.Errorf("%w: %s cannot convert %s", ErrUnsupportedConversion, p.Name(), want)
	}
	return nil
}

// readInput reads the file a plugin converts.
func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the conversion plan
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return data, nil
}

// writeOutput writes a plugin's result.
func writeOutput(path string, data []byte) error {
	// #nosec G306 -- converted documents are intended to be readable
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
