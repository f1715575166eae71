package process

import (
	"time"
)

// Stoppable represents a process handle that can be terminated.
type Stoppable interface {
	Stop(timeout time.Duration) error
}

// StopAndNil stops and nils a Stoppable pointer in a single cleanup step. It
// is safe to call with a nil p or when *p is nil; in both cases it returns nil
// immediately.
//
// P is constrained to both *E and Stoppable, so only pointer types that
// implement Stoppable can be passed and *p is always directly comparable to
// nil. E is inferred by the compiler.
//
// The pointer is cleared even when Stop returns an error: a handle whose
// teardown failed is in an unknown state and must not be reused. The Stop
// error is still returned to the caller.
//
// Usage:
//
//	var srv *process.Server
//	// ... srv, err = process.Start(...) ...
//	err := process.StopAndNil(&srv, 10*time.Second)
func StopAndNil[P interface {
	*E
	Stoppable
}, E any](p *P, timeout time.Duration) error {
	if p == nil || *p == nil {
		return nil
	}
	defer func() {
		*p = nil
	}()
	return (*p).Stop(timeout)
}
