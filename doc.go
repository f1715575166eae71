// Package phpserver starts and stops php's built-in web server for tests.
//
// A Controller launches "php -S host:port -t docroot [router]", waits until
// the port accepts connections, and on Stop kills the server together with
// every process it spawned (php forks workers when PHP_CLI_SERVER_WORKERS is
// set). On POSIX systems the process tree is walked and each process gets
// SIGKILL; on Windows "taskkill /F /T" is used.
//
// # Basic Usage
//
//	import "github.com/giantswarm/phpserver"
//
//	srv, err := phpserver.New("127.0.0.1", 8000, "testdata/www",
//	    phpserver.WithRouter("testdata/router.php"),
//	)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	if err := srv.Start(ctx, 10*time.Second); err != nil {
//	    t.Fatal(err)
//	}
//	t.Cleanup(func() {
//	    _ = srv.StopAndWaitForConnectionLoss(context.Background(), 0)
//	})
//
//	resp, err := http.Get(srv.URL() + "/index.php")
//
// # Errors
//
// New returns errors wrapping ErrValidation. Start distinguishes a port that
// is already taken (ErrPortInUse), a binary that cannot be executed
// (ErrSpawn), a server that died during startup (ErrProcessExited) and one
// that never became reachable (ErrStartupTimeout). Use errors.Is to match.
//
// # Concurrency
//
// A Controller is not safe for concurrent use. Different controllers may be
// used from parallel tests; Start serializes on a per host:port lock file so
// that two test processes racing for the same port fail cleanly with
// ErrPortInUse instead of both spawning a server.
package phpserver
