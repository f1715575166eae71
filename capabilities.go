package phpserver

import (
	"fmt"
	"net"
	"os/exec"

	"github.com/giantswarm/phpserver/internal/netutil"
	"github.com/giantswarm/phpserver/internal/process"
)

// Capabilities reports what the environment allows the controller to do.
// New refuses to build a controller when any of them is missing.
type Capabilities interface {
	// CanSpawnProcess reports whether the server binary can be executed.
	CanSpawnProcess() bool
	// CanRunShellCommand reports whether the tools used to kill the
	// process tree (ps or taskkill) are usable.
	CanRunShellCommand() bool
	// CanOpenSocket reports whether TCP sockets can be opened.
	CanOpenSocket() bool
}

// HostCapabilities returns the Capabilities of the running host for the
// given server binary and the native platform.
//
//nolint:ireturn // Callers only need the interface.
func HostCapabilities(binary string) Capabilities {
	return hostCapabilities{binary: binary, platform: process.Native()}
}

type hostCapabilities struct {
	binary   string
	platform process.Platform
}

func (h hostCapabilities) CanSpawnProcess() bool {
	_, err := exec.LookPath(h.binary)
	return err == nil
}

func (h hostCapabilities) CanRunShellCommand() bool {
	return h.platform.Available() == nil
}

func (hostCapabilities) CanOpenSocket() bool {
	l, err := net.Listen("tcp", netutil.Address(netutil.LoopbackHost, 0))
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}

// checkCapabilities returns the first missing capability, checked in the
// order spawn, shell, socket.
func checkCapabilities(caps Capabilities) error {
	checks := []struct {
		ok      func() bool
		name    string
		purpose string
	}{
		{caps.CanSpawnProcess, "spawn process", "required to start the server"},
		{caps.CanRunShellCommand, "run shell command", "required to kill the server"},
		{caps.CanOpenSocket, "open socket", "required to check if the server is running"},
	}
	for _, c := range checks {
		if !c.ok() {
			return fmt.Errorf("%w: %w: %s is %s", ErrValidation, ErrCapabilityMissing, c.name, c.purpose)
		}
	}
	return nil
}
