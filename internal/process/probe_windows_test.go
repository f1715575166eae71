//go:build windows

package process

import "os"

func killProbe(pid int) error {
	_, err := os.FindProcess(pid)
	return err
}
