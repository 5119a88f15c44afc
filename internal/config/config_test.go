// Copyright 2026 The Openthermal Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test. It
// stands in for testing.T.Chdir, which needs Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	// No config file anywhere near a temp dir.
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	// An explicitly named file that does not exist is an error.
	require.Error(t, err)

	chdir(t, t.TempDir())
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x5a), cfg.Sensor.Addr)
	assert.Equal(t, time.Second, cfg.Sensor.Timeout)
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, "mlx90614.txt", cfg.Output.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mlxlogd.yaml")
	yaml := `
sensor:
  bus: "/dev/i2c-1"
  addr: 0x5b
  timeout: 2s
interval: 500ms
output:
  path: /mnt/sdcard/MLX90614.txt
  maxSize: 8
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/i2c-1", cfg.Sensor.Bus)
	assert.Equal(t, uint16(0x5b), cfg.Sensor.Addr)
	assert.Equal(t, 2*time.Second, cfg.Sensor.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.Equal(t, "/mnt/sdcard/MLX90614.txt", cfg.Output.Path)
	assert.Equal(t, 8, cfg.Output.MaxSizeMB)
	// Untouched keys keep their defaults.
	assert.Equal(t, 3, cfg.Output.MaxBackups)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFileFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fromenv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("interval: 7s\n"), 0o644))
	t.Setenv("MLXLOG_CONFIG", path)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, cfg.Interval)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MLXLOG_SENSOR_BUS", "/dev/i2c-7")
	t.Setenv("MLXLOG_OUTPUT_PATH", "/tmp/readings.txt")
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/dev/i2c-7", cfg.Sensor.Bus)
	assert.Equal(t, "/tmp/readings.txt", cfg.Output.Path)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Sensor:   SensorConfig{Addr: 0x5a, Timeout: time.Second},
			Interval: time.Second,
			Output:   OutputConfig{Path: "readings.txt"},
		}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.Sensor.Addr = 0x80
	assert.Error(t, c.Validate())

	c = base()
	c.Sensor.Timeout = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Interval = -time.Second
	assert.Error(t, c.Validate())

	c = base()
	c.Output.Path = ""
	assert.Error(t, c.Validate())
}
