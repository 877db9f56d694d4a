package converters

import (
	"bytes"
	"context"

	"github.com/alnah/go-doconv"
	"github.com/alnah/go-doconv/internal/yamlutil"
)

// YAML converts between YAML and JSON documents.
type YAML struct{}

var _ doconv.Plugin = (*YAML)(nil)

// NewYAML creates a YAML plugin.
func NewYAML() *YAML { return &YAML{} }

func (y *YAML) Name() string { return YAMLName }

func (y *YAML) CheckDependencies(context.Context) error { return nil }

func (y *YAML) SupportedConversions() []doconv.Conversion {
	return []doconv.Conversion{
		{From: "yaml", To: "json"},
		{From: "json", To: "yaml"},
	}
}

// Convert re-encodes req.InputPath. Mapping key order is preserved.
func (y *YAML) Convert(ctx context.Context, req doconv.Request) (string, error) {
	if err := checkConversion(y, req); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := readInput(req.InputPath)
	if err != nil {
		return "", err
	}

	var out []byte
	if req.To == "json" {
		out, err = yamlutil.ToJSON(data)
	} else {
		out, err = yamlutil.FromJSON(data)
	}
	if err != nil {
		return "", err
	}
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}

	if err := writeOutput(req.OutputHint, out); err != nil {
		return "", err
	}
	return req.OutputHint, nil
}
