package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/giantswarm/phpserver/internal/sentinel"
	"k8s.io/apimachinery/pkg/util/wait"
)

// Sentinel errors returned by WaitUntil for invalid configuration and
// process lifecycle conditions. Callers can match these with errors.Is
// through wrapped error chains.
const (
	// ErrIntervalNotPositive indicates a non-positive poll interval.
	ErrIntervalNotPositive = sentinel.Error("interval must be positive")

	// ErrTimeoutNotPositive indicates a non-positive timeout.
	ErrTimeoutNotPositive = sentinel.Error("timeout must be positive")

	// ErrProcessExited indicates the process exited before the condition held.
	ErrProcessExited = sentinel.Error("process exited before becoming ready")
)

// Condition reports whether the awaited state has been reached. The context
// is canceled when the polling loop times out or the caller cancels, so
// probes (e.g. TCP dials) exit promptly.
type Condition func(ctx context.Context) bool

// WaitConfig configures the wait behavior.
type WaitConfig struct {
	Interval      time.Duration   // Delay between attempts
	Timeout       time.Duration   // Overall budget
	Name          string          // For logging and errors (e.g., "server startup")
	Port          int             // For logging context
	Logger        *slog.Logger    // Optional logger (defaults to slog.Default())
	ProcessExited <-chan struct{} // If non-nil, abort immediately when closed (process died)
}

// WaitUntil evaluates cond once immediately and then every cfg.Interval until
// it returns true or cfg.Timeout elapses. It returns nil once cond holds.
//
// On timeout the returned error wraps context.DeadlineExceeded; when
// cfg.ProcessExited closes first it wraps ErrProcessExited. The caller's
// context cancellation is propagated as-is.
func WaitUntil(ctx context.Context, cfg WaitConfig, cond Condition) error {
	if cfg.Name == "" {
		return errors.New("wait until: name must not be empty")
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("wait for %s: %w", cfg.Name, ErrIntervalNotPositive)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("wait for %s: %w", cfg.Name, ErrTimeoutNotPositive)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	// PollUntilContextTimeout invokes the condition sequentially, so attempt
	// needs no synchronization.
	attempt := 0
	if err := wait.PollUntilContextTimeout(ctx, cfg.Interval, cfg.Timeout, true,
		func(pollCtx context.Context) (bool, error) {
			if cfg.ProcessExited != nil {
				select {
				case <-cfg.ProcessExited:
					return false, fmt.Errorf("%s: %w", cfg.Name, ErrProcessExited)
				default:
				}
			}

			attempt++
			if !cond(pollCtx) {
				return false, nil
			}
			log.Debug("wait succeeded", "name", cfg.Name, "port", cfg.Port, "attempt", attempt)
			return true, nil
		}); err != nil {
		return fmt.Errorf("wait for %s on port %d after %d attempt(s): %w", cfg.Name, cfg.Port, attempt, err)
	}
	return nil
}
