package process

import (
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultStopTimeout is the fallback budget for tearing down a process tree
// when no explicit stop timeout is configured.
const DefaultStopTimeout = 10 * time.Second

// killDrainTimeout is the hard upper bound for waiting on the done channel
// after the process tree has been killed. SIGKILL cannot be caught, so the
// process should exit almost immediately; the bound only guards against
// cmd.Wait hanging on stuck I/O.
const killDrainTimeout = 10 * time.Second

// drainDone reads from the done channel with the given timeout as a hard
// upper bound.
//
// Returns true and the cmd.Wait error if the channel delivered in time,
// or false and a nil error if the timeout elapsed.
func drainDone(done <-chan error, timeout time.Duration) (bool, error) {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case err := <-done:
		return true, err
	case <-t.C:
		return false, nil
	}
}

// expectKilledExit interprets the cmd.Wait result of a process that was
// forcibly killed. Any *exec.ExitError is expected: a SIGKILLed process
// reports a signal exit on POSIX, and taskkill leaves exit code 1 on Windows.
// Other errors (e.g. copying I/O) are wrapped with the process name.
func expectKilledExit(err error, name string) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}
