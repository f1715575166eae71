package process

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"
)

// PosixPlatform launches the server directly (no shell wrapper) and kills
// the process tree by enumerating descendants from a process table snapshot.
type PosixPlatform struct{}

// Name implements Platform.
func (PosixPlatform) Name() string { return "posix" }

// Command implements Platform.
func (PosixPlatform) Command(spec LaunchSpec) *exec.Cmd {
	router := spec.Router
	if router != "" {
		router = filepath.Clean(router)
	}
	return newCommand(spec, filepath.Clean(spec.DocRoot), router)
}

// TerminateTree implements Platform. It takes one snapshot of the process
// table, SIGKILLs every descendant of pid, then SIGKILLs pid itself.
// Descendants are killed first while their parent still exists, so none of
// them is reparented before it is signaled.
//
// If the process table cannot be read, pid is still killed and the listing
// error is returned.
func (PosixPlatform) TerminateTree(ctx context.Context, pid int) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}

	table, listErr := listProcesses(ctx)
	if listErr != nil {
		listErr = fmt.Errorf("list descendants of %d: %w", pid, listErr)
	}

	var g errgroup.Group
	for _, child := range table.descendants(pid) {
		g.Go(func() error {
			if err := killPID(child); err != nil {
				return fmt.Errorf("kill descendant %d: %w", child, err)
			}
			return nil
		})
	}
	childErr := g.Wait()

	if err := killPID(pid); err != nil {
		return errors.Join(fmt.Errorf("kill process %d: %w", pid, err), listErr, childErr)
	}
	return errors.Join(listErr, childErr)
}

// Available implements Platform.
func (PosixPlatform) Available() error {
	return processTableAvailable()
}

// processTable maps a parent pid to its direct children.
type processTable map[int][]int

// add records that child's parent is ppid.
func (t processTable) add(pid, ppid int) {
	t[ppid] = append(t[ppid], pid)
}

// descendants returns every transitive child of pid in breadth-first order.
// pid itself is never included, and a malformed table with cycles cannot
// loop forever.
func (t processTable) descendants(pid int) []int {
	seen := map[int]struct{}{pid: {}}
	var out []int
	queue := []int{pid}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		children := slices.Clone(t[parent])
		slices.Sort(children)
		for _, child := range children {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			out = append(out, child)
			queue = append(queue, child)
		}
	}
	return out
}
