package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-doconv"
	"github.com/alnah/go-doconv/converters"
)

// stepPlugin appends "|<to>" to its input. depErr fails dependency checks
// and err fails Convert.
type stepPlugin struct {
	name   string
	conv   doconv.Conversion
	depErr error
	err    error
}

func (p *stepPlugin) Name() string { return p.name }

func (p *stepPlugin) CheckDependencies(context.Context) error { return p.depErr }

func (p *stepPlugin) SupportedConversions() []doconv.Conversion {
	return []doconv.Conversion{p.conv}
}

func (p *stepPlugin) Convert(_ context.Context, req doconv.Request) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	data, err := os.ReadFile(req.InputPath)
	if err != nil {
		return "", err
	}
	data = append(data, []byte("|"+req.To.String())...)
	if err := os.WriteFile(req.OutputHint, data, 0o644); err != nil {
		return "", err
	}
	return req.OutputHint, nil
}

// testEnv runs in dir with a registry built from plugins. The options the
// CLI passes to the registry are stored in *gotOpts when gotOpts is non-nil.
func testEnv(t *testing.T, dir string, gotOpts *converters.Options, plugins ...*stepPlugin) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Stdout: stdout,
		Stderr: stderr,
		Getwd:  func() (string, error) { return dir, nil },
		Registry: func(opts converters.Options) (*doconv.Registry, error) {
			if gotOpts != nil {
				*gotOpts = opts
			}
			reg := doconv.NewRegistry()
			for _, p := range plugins {
				if err := reg.Register(p.name, func() (doconv.Plugin, error) { return p, nil }); err != nil {
					return nil, err
				}
			}
			return reg, nil
		},
	}
	return env, stdout, stderr
}

// chain is x: pdf -> txt and y: txt -> md.
func chain() []*stepPlugin {
	return []*stepPlugin{
		{name: "x", conv: doconv.Conversion{From: "pdf", To: "txt"}},
		{name: "y", conv: doconv.Conversion{From: "txt", To: "md"}},
	}
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
