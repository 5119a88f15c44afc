// Copyright 2026 The Openthermal Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package templog polls a temperature source at a fixed cadence and
// appends one line per validated reading to a sink. A failed reading or a
// failed append is logged and skipped; the loop keeps its cadence and
// never terminates on a bad sample.
package templog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openthermal/irtemplog/mlx90614"
)

// DefaultInterval is the polling cadence of the logger when none is
// configured.
const DefaultInterval = time.Second

// Source produces one validated object temperature per call.
// *mlx90614.Dev satisfies it.
type Source interface {
	ObjectTemperature() (mlx90614.Reading, error)
}

// Logger polls a Source and appends readings to a Sink.
type Logger struct {
	src      Source
	sink     Sink
	interval time.Duration
	log      *zap.Logger
}

// New returns a Logger polling src every interval. An interval <= 0
// selects DefaultInterval. The zap logger may be nil.
func New(src Source, sink Sink, interval time.Duration, log *zap.Logger) (*Logger, error) {
	if src == nil {
		return nil, errors.New("templog: source is required")
	}
	if sink == nil {
		return nil, errors.New("templog: sink is required")
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{src: src, sink: sink, interval: interval, log: log}, nil
}

// Run polls until ctx is cancelled and returns ctx.Err(). One reading is
// taken per tick; a tick whose reading or append fails produces a log
// entry instead of a line, and the next tick starts over.
func (l *Logger) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.poll()
		}
	}
}

func (l *Logger) poll() {
	r, err := l.src.ObjectTemperature()
	if err != nil {
		l.log.Warn("reading failed",
			zap.String("class", classify(err)),
			zap.Error(err))
		return
	}
	if err := l.sink.AppendLine(FormatReading(r)); err != nil {
		l.log.Error("append failed", zap.Error(err))
		return
	}
	l.log.Debug("reading appended",
		zap.Uint16("raw", r.Raw),
		zap.Float64("celsius", r.Celsius()))
}

// classify separates transaction level faults from corrupted samples for
// diagnostics. The loop treats them the same; the log line does not.
func classify(err error) string {
	var be *mlx90614.BusError
	var ie *mlx90614.IntegrityError
	var re *mlx90614.RangeError
	switch {
	case errors.As(err, &be):
		return "bus"
	case errors.As(err, &ie):
		return "integrity"
	case errors.As(err, &re):
		return "range"
	default:
		return "other"
	}
}

// FormatReading renders one reading as a log line. Both values derive
// from the same raw sample, so the pair is always consistent.
func FormatReading(r mlx90614.Reading) string {
	return fmt.Sprintf("celsius=%.2f fahrenheit=%.2f", r.Celsius(), r.Fahrenheit())
}
