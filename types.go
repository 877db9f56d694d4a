package doconv

import (
	"context"
	"fmt"
	"strings"
)

// Format identifies a document type, such as "pdf" or "md".
// Formats compare by exact, case-sensitive match.
type Format string

// ParseFormat trims surrounding whitespace and a single leading dot.
// Case is preserved: "MD" and "md" are different formats.
func ParseFormat(s string) Format {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, ".")
	return Format(s)
}

// String returns the format identifier.
func (f Format) String() string {
	return string(f)
}

// Conversion is a directed format pair a plugin can perform.
type Conversion struct {
	From Format
	To   Format
}

// String renders the conversion as "from -> to".
func (c Conversion) String() string {
	return fmt.Sprintf("%s -> %s", c.From, c.To)
}

// Capability is a conversion declared by a named plugin.
type Capability struct {
	Plugin string
	From   Format
	To     Format
}

// Request is what a plugin receives for a single conversion step.
type Request struct {
	InputPath  string // File to read
	From       Format // Format of InputPath
	To         Format // Format to produce
	OutputHint string // Suggested output path; plugins should write here
}

// Plugin converts files between the formats it declares.
//
// Convert blocks until the output file is complete and returns its path,
// which is normally req.OutputHint.
type Plugin interface {
	Name() string
	CheckDependencies(ctx context.Context) error
	SupportedConversions() []Conversion
	Convert(ctx context.Context, req Request) (string, error)
}

// Factory creates a plugin instance.
type Factory func() (Plugin, error)

// Job describes one end-to-end conversion request.
type Job struct {
	Input  string // Input file path
	From   Format // Input format
	To     Format // Requested output format
	Output string // Destination path (optional)
}

// Result describes a completed conversion.
type Result struct {
	Output        string   // Final file path
	Path          Path     // Formats traversed
	Plan          Plan     // Steps executed
	Removed       []string // Intermediate files deleted
	CleanupErrors []error  // Non-fatal deletion failures
}
