package portlock

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/giantswarm/phpserver/internal/fileutil"
	"github.com/gofrs/flock"
)

// retryInterval is the interval between consecutive attempts to acquire the
// lock. 50ms balances responsiveness (low wait after the holder releases)
// against CPU overhead from busy-polling.
const retryInterval = 50 * time.Millisecond

// Lock is an acquired host:port lock. The zero value and nil are safe to
// Release.
type Lock struct {
	fl  *flock.Flock
	log *slog.Logger
}

// Path returns the lock file path for host:port inside dir. Characters that
// are not safe in file names (such as IPv6 colons) are replaced.
func Path(dir, host string, port int) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, host)
	return filepath.Join(dir, "phpserver-"+safe+"-"+strconv.Itoa(port)+".lock")
}

// Acquire takes the exclusive lock for host:port, creating dir if needed.
// It retries until the lock is free or ctx is done.
func Acquire(ctx context.Context, dir, host string, port int, logger *slog.Logger) (*Lock, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := fileutil.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("prepare lock directory: %w", err)
	}

	lockPath := Path(dir, host, port)
	fl := flock.New(lockPath)

	locked, err := fl.TryLockContext(ctx, retryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquiring port lock %s: %w", lockPath, err)
	}
	if !locked {
		// TryLockContext should return an error when it fails, but handle
		// (false, nil) as well.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring port lock %s: %w", lockPath, ctx.Err())
		}
		return nil, fmt.Errorf("acquiring port lock %s: lock not acquired", lockPath)
	}

	logger.Debug("port lock acquired", "path", lockPath)
	return &Lock{fl: fl, log: logger}, nil
}

// Release releases the lock and closes the file descriptor. The lock file
// stays on disk; removing it could invalidate a lock concurrently acquired
// by another process. Errors are logged at debug level, not returned.
func (l *Lock) Release() {
	if l == nil || l.fl == nil {
		return
	}
	if err := l.fl.Close(); err != nil {
		l.log.Debug("failed to release port lock", "path", l.fl.Path(), "err", err)
	}
	l.fl = nil
}
