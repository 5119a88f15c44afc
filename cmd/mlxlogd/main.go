// Copyright 2026 The Openthermal Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// mlxlogd polls an MLX90614 infrared thermometer at a fixed cadence and
// appends each validated reading to a line oriented file, typically on
// removable storage mounted by the operator beforehand.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/openthermal/irtemplog/internal/config"
	"github.com/openthermal/irtemplog/internal/logging"
	"github.com/openthermal/irtemplog/mlx90614"
	"github.com/openthermal/irtemplog/templog"
)

// The sensor is specified for SMBus speeds up to 100 kHz.
const busSpeed = 100 * physic.KiloHertz

func main() {
	cfgPath := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("mlxlogd failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("initializing host: %w", err)
	}
	bus, err := i2creg.Open(cfg.Sensor.Bus)
	if err != nil {
		return fmt.Errorf("opening bus %q: %w", cfg.Sensor.Bus, err)
	}
	defer bus.Close()
	if err := bus.SetSpeed(busSpeed); err != nil {
		// Some adapters have a fixed clock. Not fatal.
		log.Warn("could not set bus speed", zap.Error(err))
	}

	dev, err := mlx90614.New(bus, i2c.Addr(cfg.Sensor.Addr), &mlx90614.Opts{Timeout: cfg.Sensor.Timeout})
	if err != nil {
		return err
	}
	defer func() { _ = dev.Halt() }()

	sink := templog.NewFileSink(cfg.Output.Path, cfg.Output.MaxSizeMB, cfg.Output.MaxBackups)
	defer func() { _ = sink.Close() }()

	logger, err := templog.New(dev, sink, cfg.Interval, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("logging started",
		zap.String("device", dev.String()),
		zap.String("output", cfg.Output.Path),
		zap.Duration("interval", cfg.Interval))

	if err := logger.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutting down")
	return nil
}
