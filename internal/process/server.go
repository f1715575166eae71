package process

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/giantswarm/phpserver/internal/sentinel"
)

// ErrNilCmd is returned when Start is called with a nil *exec.Cmd.
const ErrNilCmd = sentinel.Error("cmd must not be nil")

// ErrEmptyCmdPath is returned when Start is called with an empty cmd.Path.
const ErrEmptyCmdPath = sentinel.Error("cmd.Path must not be empty")

// ErrNilPlatform is returned when Start is called without a Platform.
const ErrNilPlatform = sentinel.Error("platform must not be nil")

// Compile-time interface satisfaction check.
var _ Stoppable = (*Server)(nil)

// Server is the exclusive handle on one spawned server process. It is
// created by Start and invalidated by Stop.
//
// Server is not safe for concurrent use. Callers must serialize Stop with
// every other method; in practice the owning Controller already does.
type Server struct {
	cmd      *exec.Cmd
	waitDone <-chan error    // receives cmd.Wait result; consumed once by Stop
	exited   <-chan struct{} // closed when the process exits; readable by many goroutines
	platform Platform
	name     string
	log      *slog.Logger
}

// Start spawns cmd and returns a handle on the running process. It does not
// wait for the process to do anything; the server runs until Stop.
//
// A single goroutine calling cmd.Wait is started here so that exactly one
// Wait call is made per process. Stop consumes its result.
func Start(cmd *exec.Cmd, platform Platform, name string, logger *slog.Logger) (*Server, error) {
	if cmd == nil {
		return nil, ErrNilCmd
	}
	if cmd.Path == "" {
		return nil, ErrEmptyCmdPath
	}
	if platform == nil {
		return nil, ErrNilPlatform
	}
	if name == "" {
		name = cmd.Path
	}
	if logger == nil {
		logger = slog.Default()
	}

	configureSysProcAttr(cmd)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s process: %w", name, err)
	}

	done := make(chan error, 1)
	exited := make(chan struct{})
	go func() {
		done <- cmd.Wait()
		close(exited)
	}()

	logger.Debug("process spawned", "process", name, "pid", cmd.Process.Pid, "args", cmd.Args)
	return &Server{
		cmd:      cmd,
		waitDone: done,
		exited:   exited,
		platform: platform,
		name:     name,
		log:      logger,
	}, nil
}

// PID returns the OS process id of the spawned process, or 0 when the handle
// has been stopped.
func (s *Server) PID() int {
	if s == nil || s.cmd == nil || s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// Exited returns a channel that is closed when the process exits. Returns
// nil once the handle has been stopped.
func (s *Server) Exited() <-chan struct{} {
	if s == nil {
		return nil
	}
	return s.exited
}

// Stop kills the whole process tree and waits for the spawned process to be
// reaped. The handle is invalidated on every exit path, so a second Stop is a
// no-op.
//
// The tree is torn down by the Platform rather than cmd.Process.Kill, which
// only reaches the immediate process and would orphan workers that php forks
// (PHP_CLI_SERVER_WORKERS). If the platform teardown fails, the immediate
// process is still killed as a fallback and the failure is logged; Stop only
// returns an error when the process could not be reaped within the budget.
func (s *Server) Stop(timeout time.Duration) error {
	if s == nil || s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = DefaultStopTimeout
	}
	defer func() {
		s.cmd = nil
		s.waitDone = nil
		s.exited = nil
	}()

	pid := s.cmd.Process.Pid
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	select {
	case <-s.exited:
		// Already reaped: pid may belong to an unrelated process by now.
		s.log.Debug("process already exited; skipping tree teardown", "process", s.name, "pid", pid)
	default:
		s.terminateTree(ctx, pid)
	}

	ok, waitErr := drainDone(s.waitDone, min(timeout, killDrainTimeout))
	if !ok {
		return fmt.Errorf("%s: timed out waiting for pid %d to exit after kill", s.name, pid)
	}
	if err := expectKilledExit(waitErr, s.name); err != nil {
		return err
	}
	s.log.Debug("process stopped", "process", s.name, "pid", pid)
	return nil
}

// terminateTree kills pid and its descendants through the platform, falling
// back to killing only the immediate process.
func (s *Server) terminateTree(ctx context.Context, pid int) {
	if err := s.platform.TerminateTree(ctx, pid); err != nil {
		s.log.Warn("process tree teardown failed; descendants may be orphaned",
			"process", s.name, "pid", pid, "platform", s.platform.Name(), "error", err)
		// Kill on an already reaped process returns "process already
		// finished", which is harmless here.
		_ = s.cmd.Process.Kill()
	}
}
