// Copyright 2026 The Openthermal Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the mlxlogd configuration from a YAML/TOML/JSON
// file with environment variable overrides and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SensorConfig selects the bus and the device on it.
type SensorConfig struct {
	// Bus is the periph bus name, e.g. "/dev/i2c-1" or "1". Empty selects
	// the first available bus.
	Bus string `mapstructure:"bus"`
	// Addr is the 7-bit device address.
	Addr uint16 `mapstructure:"addr"`
	// Timeout bounds one bus transaction.
	Timeout time.Duration `mapstructure:"timeout"`
}

// OutputConfig describes the reading file.
type OutputConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
}

// FileConfig describes rotation of the diagnostic log file.
type FileConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig describes the diagnostic log, not the reading file.
type LoggingConfig struct {
	Level  string     `mapstructure:"level"`
	Format string     `mapstructure:"format"`
	File   FileConfig `mapstructure:"file"`
}

// Config is the top level daemon configuration.
type Config struct {
	Sensor   SensorConfig  `mapstructure:"sensor"`
	Interval time.Duration `mapstructure:"interval"`
	Output   OutputConfig  `mapstructure:"output"`
	Logging  LoggingConfig `mapstructure:"logging"`
}

// Load reads the configuration from path. If path is empty the
// MLXLOG_CONFIG environment variable is consulted, then mlxlogd.yaml in
// the working directory, ./configs and /etc/mlxlogd. A missing file is
// not an error; defaults and MLXLOG_* environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = os.Getenv("MLXLOG_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/mlxlogd")
		v.SetConfigName("mlxlogd")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix("MLXLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sensor.bus", "")
	v.SetDefault("sensor.addr", 0x5a)
	v.SetDefault("sensor.timeout", "1s")

	v.SetDefault("interval", "1s")

	v.SetDefault("output.path", "mlx90614.txt")
	v.SetDefault("output.maxSize", 64)
	v.SetDefault("output.maxBackups", 3)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 16)
	v.SetDefault("logging.file.maxBackups", 2)
	v.SetDefault("logging.file.maxAge", 28)
	v.SetDefault("logging.file.compress", false)
}

// Validate rejects configurations the daemon could not run with.
func (c *Config) Validate() error {
	if c.Sensor.Addr == 0 || c.Sensor.Addr > 0x7f {
		return fmt.Errorf("config: sensor address 0x%02x is not a 7-bit address", c.Sensor.Addr)
	}
	if c.Sensor.Timeout <= 0 {
		return errors.New("config: sensor timeout must be positive")
	}
	if c.Interval <= 0 {
		return errors.New("config: polling interval must be positive")
	}
	if c.Output.Path == "" {
		return errors.New("config: output path is required")
	}
	return nil
}
