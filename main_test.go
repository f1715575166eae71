package phpserver_test

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/giantswarm/phpserver"
)

// Environment variables that turn the test binary into a stand-in for
// "php -S". The controller under test is pointed at os.Executable() and
// passes these through WithEnv.
const (
	envFakeServer   = "PHPSERVER_TEST_FAKE_SERVER"   // serve the document root over HTTP
	envFakeChild    = "PHPSERVER_TEST_FAKE_CHILD"    // sleep until killed
	envFakeChildren = "PHPSERVER_TEST_FAKE_CHILDREN" // number of sleeping children to fork first
	envFakeExit     = "PHPSERVER_TEST_FAKE_EXIT"     // exit with status 3 without listening
	envFakeSilent   = "PHPSERVER_TEST_FAKE_SILENT"   // never listen
	envPIDFile      = "PHPSERVER_TEST_PID_FILE"      // file receiving the pids of the fake tree
	envLogLevel     = "PHPSERVER_LOG_LEVEL"
)

// TestMain dispatches to the fake server when the binary was re-executed by
// a controller, and otherwise configures logging and runs the tests. The
// dispatch happens before m.Run so the server arguments never reach the
// testing flag parser.
func TestMain(m *testing.M) {
	if os.Getenv(envFakeChild) != "" {
		sleepForever()
	}
	if os.Getenv(envFakeServer) != "" {
		os.Exit(runFakeServer(os.Args[1:]))
	}

	setupTestLogging()
	os.Exit(m.Run())
}

func setupTestLogging() {
	levelStr := os.Getenv(envLogLevel)
	if levelStr == "" {
		levelStr = "WARN"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	phpserver.SetLogger(slog.Default().With("component", "phpserver"))
}

func sleepForever() {
	for {
		time.Sleep(time.Hour)
	}
}

// runFakeServer mimics "php -S <addr> -t <root> [router]" closely enough for
// the controller: it binds addr and serves files from root. When a router is
// given every request is answered with "router:<base name>".
func runFakeServer(args []string) int {
	var addr, root, router string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-S" && i+1 < len(args):
			i++
			addr = args[i]
		case args[i] == "-t" && i+1 < len(args):
			i++
			root = args[i]
		default:
			router = args[i]
		}
	}
	if addr == "" || root == "" {
		fmt.Fprintf(os.Stderr, "fake server: missing -S or -t in %q\n", args)
		return 2
	}

	self, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fake server: %v\n", err)
		return 1
	}
	pids := []int{os.Getpid()}
	n, _ := strconv.Atoi(os.Getenv(envFakeChildren))
	for range n {
		child := exec.Command(self)
		child.Env = append(os.Environ(), envFakeChild+"=1")
		if err := child.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "fake server: start child: %v\n", err)
			return 1
		}
		pids = append(pids, child.Process.Pid)
	}
	if path := os.Getenv(envPIDFile); path != "" {
		if err := writePIDs(path, pids); err != nil {
			fmt.Fprintf(os.Stderr, "fake server: %v\n", err)
			return 1
		}
	}

	if os.Getenv(envFakeExit) != "" {
		return 3
	}
	if os.Getenv(envFakeSilent) != "" {
		sleepForever()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fake server: %v\n", err)
		return 1
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/_fake/env", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, os.Getenv(r.URL.Query().Get("name")))
	})
	if router != "" {
		mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = fmt.Fprint(w, "router:"+filepath.Base(router))
		})
	} else {
		mux.Handle("/", http.FileServer(http.Dir(root)))
	}

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.Serve(ln); err != nil {
		fmt.Fprintf(os.Stderr, "fake server: %v\n", err)
	}
	return 1
}

// writePIDs writes one pid per line, replacing path atomically so readers
// never observe a partial file.
func writePIDs(path string, pids []int) error {
	lines := make([]string, 0, len(pids))
	for _, p := range pids {
		lines = append(lines, strconv.Itoa(p))
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename pid file: %w", err)
	}
	return nil
}
