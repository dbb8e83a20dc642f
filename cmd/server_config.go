package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "CHURNSCORE"

// ServerConfig holds serve-time settings. Values are layered: defaults, then
// the optional --server-config file, then CHURNSCORE_* environment
// variables, then explicitly set flags.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	StatsdAddr     string        `mapstructure:"statsd_addr"` // empty disables metrics
	Env            string        `mapstructure:"env"`
	MaxBatchSize   int           `mapstructure:"max_batch_size"`
}

// serverFlags maps viper keys to serve flag names.
var serverFlags = map[string]string{
	"addr":            "addr",
	"request_timeout": "request-timeout",
	"statsd_addr":     "statsd-addr",
	"env":             "env",
	"max_batch_size":  "max-batch-size",
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:           ":8080",
		RequestTimeout: 5 * time.Second,
		Env:            "dev",
		MaxBatchSize:   1000,
	}
}

// loadServerConfig resolves ServerConfig for cmd. file may be empty.
func loadServerConfig(cmd *cobra.Command, file string) (*ServerConfig, error) {
	v := viper.New()
	d := defaultServerConfig()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("statsd_addr", d.StatsdAddr)
	v.SetDefault("env", d.Env)
	v.SetDefault("max_batch_size", d.MaxBatchSize)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading server config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	_ = v.BindEnv("addr", "CHURNSCORE_ADDR")
	_ = v.BindEnv("request_timeout", "CHURNSCORE_REQUEST_TIMEOUT")
	_ = v.BindEnv("statsd_addr", "CHURNSCORE_STATSD_ADDR")
	_ = v.BindEnv("env", "CHURNSCORE_ENV")
	_ = v.BindEnv("max_batch_size", "CHURNSCORE_MAX_BATCH_SIZE")

	if cmd != nil {
		for key, name := range serverFlags {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding server config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks parameter ranges.
func (c *ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.MaxBatchSize <= 0 {
		return fmt.Errorf("max_batch_size must be positive, got %d", c.MaxBatchSize)
	}
	return nil
}
