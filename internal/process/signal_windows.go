//go:build windows

package process

import (
	"errors"
	"os"
)

// killPID terminates pid. Windows has no signals; Kill maps to
// TerminateProcess. A process that no longer exists is not an error.
func killPID(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
