package process

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// WindowsPlatform launches the server directly and kills the process tree
// with a single recursive, forceful taskkill.
type WindowsPlatform struct{}

// Name implements Platform.
func (WindowsPlatform) Name() string { return "windows" }

// Command implements Platform. Backslashes in paths are normalized to forward
// slashes, which php accepts on Windows and which survive argument quoting.
func (WindowsPlatform) Command(spec LaunchSpec) *exec.Cmd {
	return newCommand(spec, toForwardSlashes(spec.DocRoot), toForwardSlashes(spec.Router))
}

// TerminateTree implements Platform.
func (WindowsPlatform) TerminateTree(ctx context.Context, pid int) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "taskkill", taskkillArgs(pid)...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("taskkill pid %d: %s: %w", pid, strings.TrimSpace(out.String()), err)
	}
	return nil
}

// Available implements Platform.
func (WindowsPlatform) Available() error {
	if _, err := exec.LookPath("taskkill"); err != nil {
		return fmt.Errorf("taskkill not found: %w", err)
	}
	return nil
}

// taskkillArgs returns the arguments for a forced (/F) tree (/T) kill of pid.
func taskkillArgs(pid int) []string {
	return []string{"/F", "/T", "/PID", strconv.Itoa(pid)}
}

func toForwardSlashes(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}
