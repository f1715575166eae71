package phpserver

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("phpserver: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("phpserver: %s must not be empty", name))
	}
}

// controllerConfig holds everything New needs besides host, port and
// document root. Fields are filled with defaults by defaultControllerConfig
// and overridden by Options.
type controllerConfig struct {
	Router       string
	Binary       string
	Env          []string
	StartTimeout time.Duration
	StopTimeout  time.Duration
	PollInterval time.Duration
	ProbeTimeout time.Duration
	LockDir      string
	Capabilities Capabilities
	Logger       *slog.Logger
	GOOS         string
}

func defaultControllerConfig() controllerConfig {
	return controllerConfig{
		Binary:       DefaultBinary,
		StartTimeout: DefaultStartTimeout,
		StopTimeout:  DefaultStopTimeout,
		PollInterval: DefaultPollInterval,
		ProbeTimeout: DefaultProbeTimeout,
		LockDir:      filepath.Join(os.TempDir(), DefaultLockDirName),
		GOOS:         runtime.GOOS,
	}
}

// Option configures a Controller during construction via New.
//
// Several With* functions panic on invalid input (empty paths, non-positive
// durations). Option values are normally literals in test setup code, so an
// invalid value is a programmer error and fails fast like
// [regexp.MustCompile]. Conditions that depend on the environment (missing
// files, missing binaries) are reported by New as ErrValidation instead.
type Option func(*controllerConfig)

// WithRouter sets the router script passed to the server after the document
// root. Every request is dispatched to it. New checks that it exists.
// Panics if path is empty.
func WithRouter(path string) Option {
	requireNonEmpty("router path", path)
	return func(c *controllerConfig) {
		c.Router = path
	}
}

// WithBinary sets the runtime binary. A bare name is looked up in PATH.
//
// Default: "php".
//
// Panics if path is empty.
func WithBinary(path string) Option {
	requireNonEmpty("binary path", path)
	return func(c *controllerConfig) {
		c.Binary = path
	}
}

// WithEnv appends KEY=VALUE pairs to the environment the server inherits,
// e.g. "PHP_CLI_SERVER_WORKERS=4". Repeated calls accumulate.
// Panics if a pair has no "=" or an empty key.
func WithEnv(kv ...string) Option {
	for _, pair := range kv {
		if k, _, ok := strings.Cut(pair, "="); !ok || k == "" {
			panic(fmt.Sprintf("phpserver: environment entry must be KEY=VALUE, got %q", pair))
		}
	}
	return func(c *controllerConfig) {
		c.Env = append(c.Env, kv...)
	}
}

// WithStartTimeout sets the timeout Start uses when called with a
// non-positive timeout.
//
// Default: 10 seconds.
//
// Panics if d <= 0.
func WithStartTimeout(d time.Duration) Option {
	requirePositive("start timeout", d)
	return func(c *controllerConfig) {
		c.StartTimeout = d
	}
}

// WithStopTimeout sets how long Stop waits for the killed process to be
// reaped. StopAndWaitForConnectionLoss also uses it when called with a
// non-positive timeout.
//
// Default: 10 seconds.
//
// Panics if d <= 0.
func WithStopTimeout(d time.Duration) Option {
	requirePositive("stop timeout", d)
	return func(c *controllerConfig) {
		c.StopTimeout = d
	}
}

// WithPollInterval sets the delay between connectivity probes while
// waiting for the server to come up or go away.
//
// Default: 10 milliseconds.
//
// Panics if d <= 0.
func WithPollInterval(d time.Duration) Option {
	requirePositive("poll interval", d)
	return func(c *controllerConfig) {
		c.PollInterval = d
	}
}

// WithProbeTimeout sets the dial timeout of a single connectivity probe.
//
// Default: 1 second.
//
// Panics if d <= 0.
func WithProbeTimeout(d time.Duration) Option {
	requirePositive("probe timeout", d)
	return func(c *controllerConfig) {
		c.ProbeTimeout = d
	}
}

// WithLockDir sets the directory holding the per host:port lock files that
// serialize Start across processes. Useful in CI environments where the
// system temp directory is not shared between the processes that race for
// ports.
// If not set, defaults to "<os.TempDir()>/phpserver-locks".
// Panics if dir is empty.
func WithLockDir(dir string) Option {
	requireNonEmpty("lock directory", dir)
	return func(c *controllerConfig) {
		c.LockDir = dir
	}
}

// WithCapabilities replaces the environment capability checks New runs.
// Panics if caps is nil.
func WithCapabilities(caps Capabilities) Option {
	if caps == nil {
		panic("phpserver: capabilities must not be nil")
	}
	return func(c *controllerConfig) {
		c.Capabilities = caps
	}
}

// WithLogger sets the logger of the controller. If not set, the package
// logger returned by Logger at the time New runs is used.
// Panics if l is nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("phpserver: logger must not be nil")
	}
	return func(c *controllerConfig) {
		c.Logger = l
	}
}

// WithPlatform selects the launch and teardown strategy by GOOS value
// instead of the running operating system. Every value other than "windows"
// selects the POSIX strategy.
// Panics if goos is empty.
func WithPlatform(goos string) Option {
	requireNonEmpty("platform", goos)
	return func(c *controllerConfig) {
		c.GOOS = goos
	}
}
