package portlock

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestPath(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		host string
		port int
		want string
	}{
		"ipv4":     {host: "127.0.0.1", port: 8321, want: "phpserver-127.0.0.1-8321.lock"},
		"any":      {host: "0.0.0.0", port: 80, want: "phpserver-0.0.0.0-80.lock"},
		"ipv6":     {host: "::1", port: 8000, want: "phpserver-__1-8000.lock"},
		"hostname": {host: "web.local", port: 8080, want: "phpserver-web.local-8080.lock"},
		"path sep": {host: "../etc", port: 1, want: "phpserver-.._etc-1.lock"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			want := filepath.Join("/tmp/locks", tc.want)
			if got := Path("/tmp/locks", tc.host, tc.port); got != want {
				t.Errorf("Path() = %q, want %q", got, want)
			}
		})
	}
}

func TestAcquireRelease(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "locks")

	l, err := Acquire(context.Background(), dir, "127.0.0.1", 8321, nil)
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	l.Release()
	l.Release() // second release is a no-op

	l2, err := Acquire(context.Background(), dir, "127.0.0.1", 8321, nil)
	if err != nil {
		t.Fatalf("Acquire() after Release error: %v", err)
	}
	l2.Release()
}

func TestAcquire_BlocksWhileHeld(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	held, err := Acquire(context.Background(), dir, "127.0.0.1", 9000, nil)
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	defer held.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	_, err = Acquire(ctx, dir, "127.0.0.1", 9000, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Acquire() while held error = %v, want context.DeadlineExceeded", err)
	}

	// A different port is independent.
	other, err := Acquire(context.Background(), dir, "127.0.0.1", 9001, nil)
	if err != nil {
		t.Fatalf("Acquire() on other port error: %v", err)
	}
	other.Release()
}

func TestRelease_Nil(t *testing.T) {
	t.Parallel()

	var l *Lock
	l.Release()
	(&Lock{}).Release()
}
