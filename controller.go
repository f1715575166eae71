package phpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/giantswarm/phpserver/internal/fileutil"
	"github.com/giantswarm/phpserver/internal/netutil"
	"github.com/giantswarm/phpserver/internal/portlock"
	"github.com/giantswarm/phpserver/internal/process"
)

// Controller owns one php built-in web server listening on a fixed
// host:port and serving a document root. It starts the server, waits for it
// to accept connections and kills its whole process tree on Stop.
//
// A Controller holds at most one running server at a time; after Stop it
// can be started again. Controller is not safe for concurrent use.
type Controller struct {
	host     string
	port     int
	docRoot  string
	router   string
	cfg      controllerConfig
	platform process.Platform
	log      *slog.Logger
	srv      *process.Server
}

// New validates the configuration and returns an idle Controller. host is
// the bind address passed to the server verbatim (use "0.0.0.0" for all
// interfaces), port must be in 1..65535 and docRoot must be an existing,
// readable path. Relative paths are resolved against the working directory.
//
// Every failure wraps ErrValidation; missing environment capabilities also
// wrap ErrCapabilityMissing. No process is spawned by New.
func New(host string, port int, docRoot string, opts ...Option) (*Controller, error) {
	cfg := defaultControllerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if host == "" {
		return nil, fmt.Errorf("%w: host must not be empty", ErrValidation)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("%w: port must be in 1..65535, got %d", ErrValidation, port)
	}

	platform := process.ForOS(cfg.GOOS)
	caps := cfg.Capabilities
	if caps == nil {
		caps = hostCapabilities{binary: cfg.Binary, platform: platform}
	}
	if err := checkCapabilities(caps); err != nil {
		return nil, err
	}

	root, err := fileutil.ResolveReadable(docRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: document root: %w", ErrValidation, err)
	}

	var router string
	if cfg.Router != "" {
		router, err = fileutil.ResolveExisting(cfg.Router)
		if err != nil {
			return nil, fmt.Errorf("%w: router script: %w", ErrValidation, err)
		}
	}

	log := cfg.Logger
	if log == nil {
		log = Logger()
	}

	return &Controller{
		host:     host,
		port:     port,
		docRoot:  root,
		router:   router,
		cfg:      cfg,
		platform: platform,
		log:      log.With("addr", netutil.Address(host, port)),
	}, nil
}

// Start launches the server and blocks until it accepts connections.
//
// Start fails with ErrPortInUse, without spawning anything, when host:port
// is already reachable. A spawn failure wraps ErrSpawn. If the process dies
// before it is reachable the error wraps ErrProcessExited; if it is still
// unreachable after timeout the error wraps ErrStartupTimeout. In both of
// these cases the process tree has been killed before Start returns.
//
// A non-positive timeout uses the configured start timeout (see
// WithStartTimeout). Cancelling ctx aborts the wait and kills the server.
func (c *Controller) Start(ctx context.Context, timeout time.Duration) error {
	if c.srv != nil {
		return fmt.Errorf("%w: pid %d", ErrAlreadyStarted, c.srv.PID())
	}
	if timeout <= 0 {
		timeout = c.cfg.StartTimeout
	}
	addr := netutil.Address(c.host, c.port)

	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	lock, err := portlock.Acquire(lockCtx, c.cfg.LockDir, netutil.ProbeHost(c.host), c.port, c.log)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("start php server on %s: %w", addr, err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s is being started by another controller: %w", ErrPortInUse, addr, err)
		}
		return fmt.Errorf("start php server on %s: %w", addr, err)
	}
	defer lock.Release()

	if c.canConnect(ctx, c.host) {
		return fmt.Errorf("%w: %s", ErrPortInUse, addr)
	}

	spec := process.LaunchSpec{
		Binary:  c.cfg.Binary,
		Host:    c.host,
		Port:    c.port,
		DocRoot: c.docRoot,
		Router:  c.router,
		Env:     c.cfg.Env,
	}
	srv, err := process.Start(c.platform.Command(spec), c.platform, filepath.Base(c.cfg.Binary), c.log)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	waitErr := process.WaitUntil(ctx, process.WaitConfig{
		Interval:      c.cfg.PollInterval,
		Timeout:       timeout,
		Name:          "php server startup",
		Port:          c.port,
		Logger:        c.log,
		ProcessExited: srv.Exited(),
	}, func(ctx context.Context) bool {
		return c.canConnect(ctx, c.host)
	})
	if waitErr == nil {
		c.srv = srv
		c.log.Info("php server started", "pid", srv.PID(), "docroot", c.docRoot, "router", c.router)
		return nil
	}

	if stopErr := srv.Stop(c.cfg.StopTimeout); stopErr != nil {
		c.log.Warn("failed to stop php server after unsuccessful start", "error", stopErr)
	}
	if errors.Is(waitErr, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %s after %s: %w", ErrStartupTimeout, addr, timeout, waitErr)
	}
	return fmt.Errorf("start php server on %s: %w", addr, waitErr)
}

// Stop kills the server and every process it spawned, then waits for the
// server process to be reaped. Stop is a no-op returning nil when no server
// is running. The handle is released on every path, so after Stop the
// controller can be started again even when Stop returned an error.
func (c *Controller) Stop() error {
	if c.srv == nil {
		return nil
	}
	pid := c.srv.PID()
	if err := process.StopAndNil(&c.srv, c.cfg.StopTimeout); err != nil {
		return fmt.Errorf("stop php server pid %d: %w", pid, err)
	}
	c.log.Info("php server stopped", "pid", pid)
	return nil
}

// StopAndWaitForConnectionLoss calls Stop and then polls until host:port no
// longer accepts connections or timeout elapses. Only the Stop error is
// returned; a port that is still reachable at the deadline is logged as a
// warning. A non-positive timeout uses the configured stop timeout.
func (c *Controller) StopAndWaitForConnectionLoss(ctx context.Context, timeout time.Duration) error {
	stopErr := c.Stop()
	if timeout <= 0 {
		timeout = c.cfg.StopTimeout
	}

	if err := process.WaitUntil(ctx, process.WaitConfig{
		Interval: c.cfg.PollInterval,
		Timeout:  timeout,
		Name:     "php server connection loss",
		Port:     c.port,
		Logger:   c.log,
	}, func(ctx context.Context) bool {
		return !c.canConnect(ctx, c.host)
	}); err != nil {
		c.log.Warn("php server still reachable after stop", "error", err)
	}
	return stopErr
}

// CanConnect reports whether a TCP connection to the server address can be
// opened right now. It never fails; every error counts as false.
func (c *Controller) CanConnect() bool {
	return c.canConnect(context.Background(), c.host)
}

// CanConnectTo is CanConnect against host instead of the bind host, on the
// controller's port. "0.0.0.0" is dialed as "127.0.0.1".
func (c *Controller) CanConnectTo(host string) bool {
	return c.canConnect(context.Background(), host)
}

func (c *Controller) canConnect(ctx context.Context, host string) bool {
	return netutil.CanConnect(ctx, host, c.port, c.cfg.ProbeTimeout)
}

// Host returns the address clients should connect to: the bind host, with
// "0.0.0.0" replaced by "127.0.0.1".
func (c *Controller) Host() string {
	return netutil.ProbeHost(c.host)
}

// HostFor applies the Host mapping to override instead of the bind host.
func (c *Controller) HostFor(override string) string {
	return netutil.ProbeHost(override)
}

// Port returns the listen port.
func (c *Controller) Port() int { return c.port }

// BindHost returns the host passed to the server verbatim.
func (c *Controller) BindHost() string { return c.host }

// DocumentRoot returns the absolute document root.
func (c *Controller) DocumentRoot() string { return c.docRoot }

// Router returns the absolute router script path, or "" when none is used.
func (c *Controller) Router() string { return c.router }

// URL returns the base URL of the server, e.g. "http://127.0.0.1:8000".
func (c *Controller) URL() string {
	return "http://" + netutil.Address(c.Host(), c.port)
}

// PID returns the process id of the running server, or 0 when the
// controller is idle.
func (c *Controller) PID() int {
	return c.srv.PID()
}
