package netutil

import (
	"context"
	"net"
	"strconv"
	"time"
)

const (
	// AnyHost is the bind address meaning "all IPv4 interfaces".
	AnyHost = "0.0.0.0"

	// LoopbackHost is dialed in place of AnyHost; dialing 0.0.0.0 is not
	// portable (it fails on Windows).
	LoopbackHost = "127.0.0.1"

	// DefaultDialTimeout is the per-attempt timeout of CanConnect. A probe
	// that is refused returns immediately, so the timeout only matters when
	// a SYN goes unanswered.
	DefaultDialTimeout = time.Second
)

// ProbeHost returns the address to dial for a server bound to host: AnyHost
// maps to LoopbackHost, every other value is returned verbatim.
func ProbeHost(host string) string {
	if host == AnyHost {
		return LoopbackHost
	}
	return host
}

// Address joins host and port, bracketing IPv6 literals.
func Address(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// CanConnect reports whether a TCP connection to host:port can be opened.
// host is passed through ProbeHost first. Every failure (refused, timed out,
// unreachable, malformed address, out-of-range port) is reported as false.
// A successful connection is closed immediately. A non-positive timeout uses
// DefaultDialTimeout.
func CanConnect(ctx context.Context, host string, port int, timeout time.Duration) bool {
	if port <= 0 || port > 65535 {
		return false
	}
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", Address(ProbeHost(host), port))
	if err != nil {
		return false
	}
	_ = conn.Close() // best-effort close of probe connection
	return true
}
