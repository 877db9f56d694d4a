// Package process terminates external process trees left behind by plugins.
package process

import "errors"

// ErrInvalidPID is returned for PIDs that would target the caller's own
// process group or no process at all.
var ErrInvalidPID = errors.New("invalid process id")
