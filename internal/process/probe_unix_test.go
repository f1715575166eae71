//go:build !windows

package process

import "golang.org/x/sys/unix"

// killProbe sends signal 0 to pid; an error means the pid does not exist.
func killProbe(pid int) error {
	return unix.Kill(pid, 0)
}
