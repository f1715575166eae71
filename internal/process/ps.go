package process

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// psArgs asks ps for every process as "<pid> <ppid>" lines without a header.
// The flags are POSIX, so they work with procps, BSD and busybox ps alike.
var psArgs = []string{"-A", "-o", "pid=", "-o", "ppid="}

// parsePS builds a processTable from ps output. Lines that do not hold two
// integers are skipped.
func parsePS(out []byte) processTable {
	table := processTable{}
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		ppid, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		table.add(pid, ppid)
	}
	return table
}

// psSnapshot snapshots the process table with ps.
func psSnapshot(ctx context.Context) (processTable, error) {
	out, err := exec.CommandContext(ctx, "ps", psArgs...).Output()
	if err != nil {
		return nil, fmt.Errorf("ps: %w", err)
	}
	return parsePS(out), nil
}
