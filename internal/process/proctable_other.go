//go:build !linux

package process

import (
	"context"
	"fmt"
	"os/exec"
)

func listProcesses(ctx context.Context) (processTable, error) {
	return psSnapshot(ctx)
}

func processTableAvailable() error {
	if _, err := exec.LookPath("ps"); err != nil {
		return fmt.Errorf("ps not found: %w", err)
	}
	return nil
}
