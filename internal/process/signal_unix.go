//go:build !windows

package process

import (
	"errors"

	"golang.org/x/sys/unix"
)

// killPID sends SIGKILL (signal 9) to pid. A process that no longer exists
// is not an error.
func killPID(pid int) error {
	if err := unix.Kill(pid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
		return err
	}
	return nil
}
