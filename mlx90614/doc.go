// Copyright 2026 The Openthermal Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mlx90614 provides a driver for the Melexis MLX90614 infrared
// thermometer. The sensor measures the temperature of an object in its
// field of view without contact, plus the ambient temperature of its own
// package, and reports both over I²C/SMBus in units of 0.02 K.
//
// Every data word is protected by an SMBus packet error code. The driver
// recomputes the code over the full transaction frame and rejects the
// sample on a mismatch, so a corrupted bus transfer is reported as an
// error instead of a bogus temperature.
//
// # Datasheet
//
// https://www.melexis.com/en/documents/documentation/datasheets/datasheet-mlx90614
package mlx90614
