//go:build windows

package process

import (
	"fmt"
	"os/exec"
	"strconv"
)

// KillGroup force-terminates pid and its children with taskkill /T.
func KillGroup(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	// #nosec G204 -- pid is an integer from the browser launcher
	if out, err := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).CombinedOutput(); err != nil {
		return fmt.Errorf("taskkill %d: %w: %s", pid, err, out)
	}
	return nil
}
