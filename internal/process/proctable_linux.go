//go:build linux

package process

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/prometheus/procfs"
)

// listProcesses reads the process table from /proc, falling back to ps when
// procfs is not mounted. Processes that exit between the directory listing
// and the stat read are skipped.
func listProcesses(ctx context.Context) (processTable, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return psSnapshot(ctx)
	}
	procs, err := fs.AllProcs()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	table := processTable{}
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stat, err := p.Stat()
		if err != nil {
			continue
		}
		table.add(stat.PID, stat.PPID)
	}
	return table, nil
}

func processTableAvailable() error {
	_, fsErr := procfs.NewDefaultFS()
	if fsErr == nil {
		return nil
	}
	if _, err := exec.LookPath("ps"); err != nil {
		return errors.Join(fmt.Errorf("procfs not mounted: %w", fsErr), fmt.Errorf("ps not found: %w", err))
	}
	return nil
}
