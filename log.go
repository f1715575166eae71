package phpserver

import (
	"log/slog"
	"sync/atomic"
)

// logger is the package-level logger, stored as an atomic pointer to allow
// safe concurrent reads and writes. Named "logger" instead of "log" to avoid
// shadowing the stdlib "log" package.
//
// A nil value means no custom logger has been set; Logger() falls back to a
// cached default derived from slog.Default().
var logger atomic.Pointer[slog.Logger]

// defaultLogger caches slog.Default() with the component attribute so it is
// not re-created on every Logger() call. If slog.SetDefault() is called after
// the first Logger() call, call SetLogger(nil) to pick up the change.
var defaultLogger atomic.Pointer[slog.Logger]

// Logger returns the current package-level logger. Controllers created
// without WithLogger log through it. It is safe to call from multiple
// goroutines.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l := newDefaultLogger()
	// Use CompareAndSwap to avoid overwriting a concurrently cached value.
	if defaultLogger.CompareAndSwap(nil, l) {
		return l
	}
	// A concurrent SetLogger may have cleared the cache between the CAS and
	// this load; never return nil.
	if l2 := defaultLogger.Load(); l2 != nil {
		return l2
	}
	return l
}

func newDefaultLogger() *slog.Logger {
	return slog.Default().With("component", "phpserver")
}

// SetLogger replaces the package-level logger used by controllers that were
// not given WithLogger. The provided logger should already carry any desired
// attributes; none are added.
//
// If l is nil, the logger resets to slog.Default() with a "component"
// attribute, re-derived on the next Logger() call.
//
// SetLogger is safe to call concurrently, but controllers resolve their
// logger in New; call SetLogger before creating controllers (e.g. in
// TestMain before m.Run).
//
// Example:
//
//	phpserver.SetLogger(myLogger.With("component", "phpserver"))
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	defaultLogger.Store(nil)
}
