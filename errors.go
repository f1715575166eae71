package phpserver

import (
	"github.com/giantswarm/phpserver/internal/process"
	"github.com/giantswarm/phpserver/internal/sentinel"
)

// Sentinel errors for error inspection with errors.Is.
// Every error returned by this package wraps exactly one of the kind errors
// below, plus a human-readable cause.
const (
	// ErrValidation is returned by New when the configuration is unusable:
	// a missing document root or router script, an invalid port or host, or
	// a missing environment capability. No process exists when New fails.
	ErrValidation = sentinel.Error("invalid server configuration")

	// ErrCapabilityMissing is returned by New, alongside ErrValidation, when
	// the environment cannot spawn, kill or probe processes.
	ErrCapabilityMissing = sentinel.Error("required capability missing")

	// ErrPortInUse is returned by Start when something already accepts
	// connections on host:port. Nothing is spawned in that case.
	ErrPortInUse = sentinel.Error("port already in use")

	// ErrSpawn is returned by Start when the operating system could not
	// create the server process.
	ErrSpawn = sentinel.Error("could not spawn server process")

	// ErrStartupTimeout is returned by Start when the server was spawned
	// but did not accept connections within the timeout. The process tree
	// has been killed when this error is returned.
	ErrStartupTimeout = sentinel.Error("server not reachable within timeout")

	// ErrProcessExited is returned by Start when the server process exited
	// before it accepted connections (e.g. php rejected its arguments).
	ErrProcessExited = process.ErrProcessExited

	// ErrAlreadyStarted is returned by Start when the controller already
	// holds a running server. Call Stop before starting again.
	ErrAlreadyStarted = sentinel.Error("server already started")
)
