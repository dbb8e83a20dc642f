package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newServeFlags returns a command carrying the serve flags, isolated from the
// package-level serveCmd.
func newServeFlags() *cobra.Command {
	c := &cobra.Command{Use: "serve"}
	d := defaultServerConfig()
	c.Flags().String("addr", d.Addr, "")
	c.Flags().Duration("request-timeout", d.RequestTimeout, "")
	c.Flags().String("statsd-addr", d.StatsdAddr, "")
	c.Flags().String("env", d.Env, "")
	c.Flags().Int("max-batch-size", d.MaxBatchSize, "")
	return c
}

func TestLoadServerConfig_Defaults(t *testing.T) {
	cfg, err := loadServerConfig(newServeFlags(), "")

	require.NoError(t, err)
	assert.Equal(t, defaultServerConfig(), *cfg)
}

func TestLoadServerConfig_EnvOverridesDefaults(t *testing.T) {
	// GIVEN CHURNSCORE_* variables
	t.Setenv("CHURNSCORE_ADDR", ":9090")
	t.Setenv("CHURNSCORE_REQUEST_TIMEOUT", "250ms")
	t.Setenv("CHURNSCORE_STATSD_ADDR", "127.0.0.1:8125")
	t.Setenv("CHURNSCORE_MAX_BATCH_SIZE", "64")

	// WHEN resolved
	cfg, err := loadServerConfig(newServeFlags(), "")
	require.NoError(t, err)

	// THEN the environment wins over defaults
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, "127.0.0.1:8125", cfg.StatsdAddr)
	assert.Equal(t, 64, cfg.MaxBatchSize)
	assert.Equal(t, "dev", cfg.Env)
}

func TestLoadServerConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("CHURNSCORE_ADDR", ":9090")
	c := newServeFlags()
	require.NoError(t, c.Flags().Set("addr", ":7070"))

	cfg, err := loadServerConfig(c, "")

	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
}

func TestLoadServerConfig_File(t *testing.T) {
	// GIVEN a server settings file and an env override for one of its keys
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: staging\nmax_batch_size: 10\n"), 0o644))
	t.Setenv("CHURNSCORE_MAX_BATCH_SIZE", "20")

	cfg, err := loadServerConfig(newServeFlags(), path)

	// THEN the file overrides defaults and the env overrides the file
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, 20, cfg.MaxBatchSize)
}

func TestLoadServerConfig_Invalid(t *testing.T) {
	t.Setenv("CHURNSCORE_MAX_BATCH_SIZE", "0")

	_, err := loadServerConfig(newServeFlags(), "")

	assert.ErrorContains(t, err, "max_batch_size")
}
