package phpserver

import "time"

// ConfigSnapshot holds a copy of controllerConfig fields for test
// assertions. Exported only via export_test.go so that the _test package can
// verify option closures without accessing internals.
type ConfigSnapshot struct {
	Router       string
	Binary       string
	Env          []string
	StartTimeout time.Duration
	StopTimeout  time.Duration
	PollInterval time.Duration
	ProbeTimeout time.Duration
	LockDir      string
	HasCaps      bool
	HasLogger    bool
	GOOS         string
}

// ApplyOptionsForTesting creates a default controllerConfig, applies the
// given options and returns a snapshot of the result.
func ApplyOptionsForTesting(opts ...Option) ConfigSnapshot {
	cfg := defaultControllerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return ConfigSnapshot{
		Router:       cfg.Router,
		Binary:       cfg.Binary,
		Env:          cfg.Env,
		StartTimeout: cfg.StartTimeout,
		StopTimeout:  cfg.StopTimeout,
		PollInterval: cfg.PollInterval,
		ProbeTimeout: cfg.ProbeTimeout,
		LockDir:      cfg.LockDir,
		HasCaps:      cfg.Capabilities != nil,
		HasLogger:    cfg.Logger != nil,
		GOOS:         cfg.GOOS,
	}
}

// CheckCapabilitiesForTesting exposes the capability check order.
func CheckCapabilitiesForTesting(caps Capabilities) error {
	return checkCapabilities(caps)
}
