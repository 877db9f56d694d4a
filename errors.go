package doconv

import "errors"

// Sentinel errors for routing and execution.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrIdenticalFormats  = errors.New("input and output formats are identical")
	ErrNoPathFound       = errors.New("no conversion path found")
	ErrDependency        = errors.New("plugin dependency not satisfied")
	ErrConverterFailure  = errors.New("conversion step failed")
	ErrCleanupFailure    = errors.New("failed to remove intermediate file")
	ErrMissingEdge       = errors.New("path references a conversion no plugin provides")

	// Registry errors.
	ErrUnknownPlugin   = errors.New("unknown plugin")
	ErrDuplicatePlugin = errors.New("plugin already registered")
	ErrInvalidPlugin   = errors.New("invalid plugin registration")

	// Job validation and output errors.
	ErrEmptyInput    = errors.New("input file path cannot be empty")
	ErrInputNotFound = errors.New("input file not found")
	ErrOutputIsInput = errors.New("output file would overwrite the input file")
	ErrOutputWrite   = errors.New("failed to write output file")
)
