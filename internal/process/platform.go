package process

import (
	"context"
	"net"
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

// LaunchSpec describes the server to launch.
type LaunchSpec struct {
	Binary  string   // Runtime binary, e.g. "php"
	Host    string   // Bind host, passed verbatim (may be 0.0.0.0)
	Port    int      // Listen port
	DocRoot string   // Content root passed to -t
	Router  string   // Optional router script; empty when unused
	Env     []string // Extra KEY=VALUE pairs appended to the inherited environment
}

// Platform builds the launch command and tears down the process tree for one
// operating system family.
type Platform interface {
	// Name identifies the platform in logs ("posix" or "windows").
	Name() string

	// Command returns an unstarted command that runs the server in the
	// foreground. Stdin, stdout and stderr are left nil so they are bound to
	// the null device.
	Command(spec LaunchSpec) *exec.Cmd

	// TerminateTree forcibly kills pid and all of its descendants.
	TerminateTree(ctx context.Context, pid int) error

	// Available reports whether the tools TerminateTree relies on can be
	// used in this environment.
	Available() error
}

// ForOS returns the Platform for the given GOOS value. Every GOOS other than
// "windows" is treated as POSIX.
//
//nolint:ireturn // Platform strategies are only used through the interface.
func ForOS(goos string) Platform {
	if goos == "windows" {
		return WindowsPlatform{}
	}
	return PosixPlatform{}
}

// Native returns the Platform for the running operating system.
//
//nolint:ireturn // Platform strategies are only used through the interface.
func Native() Platform {
	return ForOS(runtime.GOOS)
}

// serverArgs returns the built-in web server arguments:
// -S <host>:<port> -t <docRoot> [<router>].
func serverArgs(host string, port int, docRoot, router string) []string {
	args := []string{"-S", net.JoinHostPort(host, strconv.Itoa(port)), "-t", docRoot}
	if router != "" {
		args = append(args, router)
	}
	return args
}

// newCommand assembles the *exec.Cmd shared by both platforms.
func newCommand(spec LaunchSpec, docRoot, router string) *exec.Cmd {
	cmd := exec.Command(spec.Binary, serverArgs(spec.Host, spec.Port, docRoot, router)...)
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	return cmd
}
