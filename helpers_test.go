package phpserver_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/giantswarm/phpserver"
	"github.com/giantswarm/phpserver/internal/netutil"
)

// ports hands out distinct free loopback ports to parallel tests.
var ports = netutil.NewPortRegistry(nil)

// fakeCapabilities is a Capabilities stub with fixed answers.
type fakeCapabilities struct {
	spawn, shell, socket bool
}

func (f fakeCapabilities) CanSpawnProcess() bool    { return f.spawn }
func (f fakeCapabilities) CanRunShellCommand() bool { return f.shell }
func (f fakeCapabilities) CanOpenSocket() bool      { return f.socket }

// freePort returns a loopback port that nothing listens on.
func freePort(t *testing.T) int {
	t.Helper()
	port, err := ports.Allocate(netutil.LoopbackHost)
	if err != nil {
		t.Fatalf("allocate port: %v", err)
	}
	t.Cleanup(func() { ports.Release(port) })
	return port
}

// docRoot returns a temporary document root holding index.html.
func docRoot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("hello from docroot"), 0o600); err != nil {
		t.Fatalf("write index.html: %v", err)
	}
	return dir
}

// fakeOptions points a controller at the fake server with test-friendly
// timings. extraEnv is forwarded to the fake server.
func fakeOptions(t *testing.T, extraEnv ...string) []phpserver.Option {
	t.Helper()
	self, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable: %v", err)
	}
	return []phpserver.Option{
		phpserver.WithBinary(self),
		phpserver.WithEnv(append([]string{envFakeServer + "=1"}, extraEnv...)...),
		phpserver.WithLockDir(t.TempDir()),
		phpserver.WithStartTimeout(10 * time.Second),
		phpserver.WithStopTimeout(5 * time.Second),
		phpserver.WithProbeTimeout(200 * time.Millisecond),
	}
}

// newFakeController builds a controller for the fake server on a free port
// and stops it when the test ends.
func newFakeController(t *testing.T, extraEnv []string, opts ...phpserver.Option) *phpserver.Controller {
	t.Helper()
	all := append(fakeOptions(t, extraEnv...), opts...)
	c, err := phpserver.New(netutil.LoopbackHost, freePort(t), docRoot(t), all...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() {
		if err := c.StopAndWaitForConnectionLoss(context.Background(), 5*time.Second); err != nil {
			t.Logf("cleanup stop: %v", err)
		}
	})
	return c
}

// readPIDs parses the pid file written by the fake server.
func readPIDs(t *testing.T, path string) []int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pid file: %v", err)
	}
	var pids []int
	for _, line := range strings.Fields(string(data)) {
		pid, err := strconv.Atoi(line)
		if err != nil {
			t.Fatalf("pid file line %q: %v", line, err)
		}
		pids = append(pids, pid)
	}
	return pids
}

// waitForFile polls until path exists.
func waitForFile(t *testing.T, path string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("%s not created within %s", path, timeout)
}
