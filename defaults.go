package phpserver

import "time"

// Default configuration values for New.
// These constants are exported so callers can build custom configurations
// relative to them (e.g., 3 * DefaultStartTimeout on slow CI).
const (
	// DefaultBinary is the runtime binary name used to locate php in PATH.
	DefaultBinary = "php"

	// DefaultStartTimeout is how long Start waits for the server to accept
	// connections when called with a non-positive timeout.
	DefaultStartTimeout = 10 * time.Second

	// DefaultStopTimeout is how long Stop waits for the killed process to be
	// reaped, and how long StopAndWaitForConnectionLoss polls when called
	// with a non-positive timeout.
	DefaultStopTimeout = 10 * time.Second

	// DefaultPollInterval is the delay between readiness and shutdown
	// probes. Probes against a closed loopback port fail immediately, so a
	// short interval keeps startup latency low without spinning a core.
	DefaultPollInterval = 10 * time.Millisecond

	// DefaultProbeTimeout is the per-attempt dial timeout of CanConnect.
	DefaultProbeTimeout = time.Second

	// DefaultLockDirName is the directory name under the system temp
	// directory where host:port lock files are kept. The full path is
	// computed as filepath.Join(os.TempDir(), DefaultLockDirName).
	DefaultLockDirName = "phpserver-locks"
)
