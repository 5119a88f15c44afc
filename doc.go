// Copyright 2026 The Openthermal Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package irtemplog logs non-contact temperature readings.
//
// The mlx90614 package drives the sensor, the templog package appends
// validated readings to a file, and cmd/mlxlogd ties them into a daemon.
package irtemplog
