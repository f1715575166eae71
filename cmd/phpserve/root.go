package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/giantswarm/phpserver"
	"github.com/giantswarm/phpserver/internal/netutil"
)

// serveOptions holds the parsed command line.
type serveOptions struct {
	host         string
	port         int
	docRoot      string
	router       string
	binary       string
	env          []string
	startTimeout time.Duration
	stopTimeout  time.Duration
	logLevel     string
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phpserve",
		Short: "Run the php built-in web server until interrupted",
		Long: `phpserve starts "php -S host:port -t docroot [router]", waits until the
port accepts connections and prints the server URL. On SIGINT or SIGTERM the
server and all of its worker processes are killed.

A port of 0 picks a free port. Every flag can also be set through a
PHPSERVE_<FLAG> environment variable (e.g. PHPSERVE_START_TIMEOUT=30s) or a
YAML file passed with --config. Flags win over the environment, which wins
over the file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := loadOptions(cmd.Flags())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	addServeFlags(cmd.Flags())
	return cmd
}

func addServeFlags(fs *pflag.FlagSet) {
	fs.String(flagConfig, "", "YAML file with default flag values")
	fs.String(flagHost, netutil.LoopbackHost, "Address to bind (0.0.0.0 for all interfaces)")
	fs.IntP(flagPort, "p", 8000, "Port to listen on (0 picks a free port)")
	fs.StringP(flagDocRoot, "t", ".", "Document root")
	fs.StringP(flagRouter, "r", "", "Router script handling every request")
	fs.String(flagPHP, phpserver.DefaultBinary, "php binary")
	fs.StringArrayP(flagEnv, "e", nil, "Extra KEY=VALUE environment for the server (repeatable)")
	fs.Duration(flagStartTimeout, phpserver.DefaultStartTimeout, "How long to wait for the server to accept connections")
	fs.Duration(flagStopTimeout, phpserver.DefaultStopTimeout, "How long to wait for the server to go away on shutdown")
	fs.String(flagLogLevel, "info", "Log level (debug, info, warn, error)")
}

// controllerOptions validates opts and translates them into phpserver
// options. Values the library would panic on are returned as errors.
func controllerOptions(opts serveOptions, logger *slog.Logger) ([]phpserver.Option, error) {
	if opts.binary == "" {
		return nil, errors.New("--php must not be empty")
	}
	if opts.startTimeout <= 0 {
		return nil, fmt.Errorf("--start-timeout must be positive, got %s", opts.startTimeout)
	}
	if opts.stopTimeout <= 0 {
		return nil, fmt.Errorf("--stop-timeout must be positive, got %s", opts.stopTimeout)
	}
	for _, kv := range opts.env {
		if k, _, ok := strings.Cut(kv, "="); !ok || k == "" {
			return nil, fmt.Errorf("--env %q: want KEY=VALUE", kv)
		}
	}

	out := []phpserver.Option{
		phpserver.WithBinary(opts.binary),
		phpserver.WithStartTimeout(opts.startTimeout),
		phpserver.WithStopTimeout(opts.stopTimeout),
		phpserver.WithLogger(logger),
	}
	if opts.router != "" {
		out = append(out, phpserver.WithRouter(opts.router))
	}
	if len(opts.env) > 0 {
		out = append(out, phpserver.WithEnv(opts.env...))
	}
	return out, nil
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})).With("component", "phpserve"), nil
}

// runServe starts the server, blocks until ctx is done and stops it.
func runServe(ctx context.Context, opts serveOptions, out, errOut io.Writer) error {
	logger, err := newLogger(opts.logLevel, errOut)
	if err != nil {
		return err
	}
	phpserver.SetLogger(logger)

	ctrlOpts, err := controllerOptions(opts, logger)
	if err != nil {
		return err
	}

	port := opts.port
	if port == 0 {
		registry := netutil.NewPortRegistry(logger)
		port, err = registry.Allocate(opts.host)
		if err != nil {
			return fmt.Errorf("pick free port: %w", err)
		}
		defer registry.Release(port)
	}

	srv, err := phpserver.New(opts.host, port, opts.docRoot, ctrlOpts...)
	if err != nil {
		return err
	}
	if err := srv.Start(ctx, opts.startTimeout); err != nil {
		return err
	}
	fmt.Fprintf(out, "Serving %s at %s (pid %d)\n", srv.DocumentRoot(), srv.URL(), srv.PID())

	<-ctx.Done()
	logger.Info("shutting down", "reason", context.Cause(ctx))

	// The signal context is already done; give shutdown its own budget.
	return srv.StopAndWaitForConnectionLoss(context.Background(), opts.stopTimeout)
}
