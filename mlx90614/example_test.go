// Copyright 2026 The Openthermal Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mlx90614_test

import (
	"log"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/openthermal/irtemplog/mlx90614"
)

// Example shows creating an MLX90614 sensor and reading from it.
func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	dev, err := mlx90614.New(bus, mlx90614.DefaultAddress, nil)
	if err != nil {
		log.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		r, err := dev.ObjectTemperature()
		if err != nil {
			log.Println(err)
		} else {
			log.Printf("object: %.2f °C / %.2f °F\n", r.Celsius(), r.Fahrenheit())
		}
		time.Sleep(time.Second)
	}
}
