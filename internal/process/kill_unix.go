//go:build !windows

package process

import (
	"errors"
	"fmt"
	"syscall"
)

// KillGroup sends SIGKILL to the process group led by pid.
// A group that has already exited is not an error.
func KillGroup(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("killing process group %d: %w", pid, err)
	}
	return nil
}
