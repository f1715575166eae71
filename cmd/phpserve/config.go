package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag names double as viper keys and, upper-cased with "-" replaced by "_"
// and prefixed with PHPSERVE_, as environment variable names.
const (
	flagConfig       = "config"
	flagHost         = "host"
	flagPort         = "port"
	flagDocRoot      = "docroot"
	flagRouter       = "router"
	flagPHP          = "php"
	flagEnv          = "env"
	flagStartTimeout = "start-timeout"
	flagStopTimeout  = "stop-timeout"
	flagLogLevel     = "log-level"

	envPrefix = "PHPSERVE"
)

// loadOptions merges flags, PHPSERVE_* environment variables and the
// optional --config file into serveOptions.
func loadOptions(fs *pflag.FlagSet) (serveOptions, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return serveOptions{}, fmt.Errorf("bind flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(flagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return serveOptions{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	return serveOptions{
		host:         v.GetString(flagHost),
		port:         v.GetInt(flagPort),
		docRoot:      v.GetString(flagDocRoot),
		router:       v.GetString(flagRouter),
		binary:       v.GetString(flagPHP),
		env:          v.GetStringSlice(flagEnv),
		startTimeout: v.GetDuration(flagStartTimeout),
		stopTimeout:  v.GetDuration(flagStopTimeout),
		logLevel:     v.GetString(flagLogLevel),
	}, nil
}
