// Copyright 2026 The Openthermal Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mlx90614

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/openthermal/irtemplog/common"
)

// DefaultAddress is the factory programmed 7-bit bus address.
const DefaultAddress i2c.Addr = 0x5a

const (
	// RAM registers holding linearized temperatures.
	regAmbient byte = 0x06
	regObject  byte = 0x07
	// Second measurement zone, populated on dual-zone variants only.
	regObject2 byte = 0x08

	// EEPROM cell holding the emissivity correction coefficient.
	regEmissivity byte = 0x24

	// A RAM word with this bit set is flagged invalid by the sensor.
	flagBit uint16 = 0x8000

	// One least-significant bit of a temperature word is 0.02 K.
	lsbWeight = 20 * physic.MilliKelvin

	// EEPROM cells need time to settle after an erase or a write.
	eepromWriteDelay = 10 * time.Millisecond

	minReadInterval = 100 * time.Millisecond
)

var errTimeout = errors.New("timeout waiting for transaction")

// Opts holds the configuration options for the device.
type Opts struct {
	// Timeout bounds a single bus transaction. A transaction that has not
	// completed within this duration fails with a BusError instead of
	// blocking the caller. Leave 0 to use the default of one second.
	Timeout time.Duration
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{Timeout: time.Second}

// Reading is one validated temperature sample. Raw is the 16-bit word as
// read from the sensor; Temperature is the same sample in physical units.
// Both refer to the same transaction, so the Celsius and Fahrenheit
// values derived from a Reading always form a matched pair.
type Reading struct {
	Raw         uint16
	Temperature physic.Temperature
}

// Celsius returns the sample in degrees Celsius.
func (r Reading) Celsius() float64 {
	return r.Temperature.Celsius()
}

// Fahrenheit returns the sample in degrees Fahrenheit.
func (r Reading) Fahrenheit() float64 {
	return r.Temperature.Celsius()*1.8 + 32.0
}

// Dev represents an MLX90614 infrared thermometer.
type Dev struct {
	d        *i2c.Dev
	opts     Opts
	mu       sync.Mutex
	shutdown chan struct{}
}

// New returns a driver for an MLX90614 on the supplied bus. The opts can
// be nil, in which case DefaultOpts is used.
func New(bus i2c.Bus, addr i2c.Addr, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Timeout <= 0 {
		o.Timeout = DefaultOpts.Timeout
	}
	return &Dev{d: &i2c.Dev{Bus: bus, Addr: uint16(addr)}, opts: o}, nil
}

// txBounded performs one write+read transaction, bounded by the
// configured timeout. The read buffer is owned by the transaction
// goroutine so a transaction completing after the deadline cannot
// scribble on a buffer the caller already gave up on.
func (d *Dev) txBounded(w []byte, readLen int) ([]byte, error) {
	type result struct {
		r   []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		var r []byte
		if readLen > 0 {
			r = make([]byte, readLen)
		}
		err := d.d.Tx(w, r)
		done <- result{r, err}
	}()
	select {
	case res := <-done:
		if res.err != nil {
			return nil, &BusError{Op: "tx", Err: res.err}
		}
		return res.r, nil
	case <-time.After(d.opts.Timeout):
		return nil, &BusError{Op: "tx", Err: errTimeout}
	}
}

// readWord performs an SMBus read word transaction: write the register
// selector, repeated start, read {low, high, pec}. The packet error code
// is verified over the full frame including the addressing bytes, exactly
// as the sensor computed it.
func (d *Dev) readWord(reg byte) (uint16, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, err := d.txBounded([]byte{reg}, 3)
	if err != nil {
		return 0, err
	}
	addrW := byte(d.d.Addr << 1)
	frame := []byte{addrW, reg, addrW | 1, r[0], r[1]}
	if computed := common.PEC(frame); computed != r[2] {
		return 0, &IntegrityError{Received: r[2], Computed: computed}
	}
	return uint16(r[1])<<8 | uint16(r[0]), nil
}

// writeWord performs an SMBus write word transaction. The packet error
// code sent to the sensor covers {address, register, low, high}.
func (d *Dev) writeWord(reg byte, word uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	addrW := byte(d.d.Addr << 1)
	low := byte(word)
	high := byte(word >> 8)
	pec := common.PEC([]byte{addrW, reg, low, high})
	if _, err := d.txBounded([]byte{reg, low, high, pec}, 0); err != nil {
		return err
	}
	time.Sleep(eepromWriteDelay)
	return nil
}

func (d *Dev) readTemperature(reg byte) (Reading, error) {
	raw, err := d.readWord(reg)
	if err != nil {
		return Reading{}, err
	}
	if raw&flagBit != 0 {
		return Reading{}, &RangeError{Raw: raw}
	}
	return Reading{Raw: raw, Temperature: physic.Temperature(raw) * lsbWeight}, nil
}

// ObjectTemperature reads the temperature of the object in the sensor's
// field of view. Every call performs a full transaction; nothing is
// cached between calls.
func (d *Dev) ObjectTemperature() (Reading, error) {
	return d.readTemperature(regObject)
}

// Object2Temperature reads the second measurement zone. Only dual-zone
// variants of the sensor populate this register.
func (d *Dev) Object2Temperature() (Reading, error) {
	return d.readTemperature(regObject2)
}

// AmbientTemperature reads the temperature of the sensor package itself.
func (d *Dev) AmbientTemperature() (Reading, error) {
	return d.readTemperature(regAmbient)
}

// Emissivity returns the emissivity correction coefficient stored in
// EEPROM, in the range (0, 1].
func (d *Dev) Emissivity() (float64, error) {
	raw, err := d.readWord(regEmissivity)
	if err != nil {
		return 0, err
	}
	return float64(raw) / 65535.0, nil
}

// SetEmissivity stores a new emissivity correction coefficient in EEPROM.
// The cell must be erased to zero before the new value is written, with a
// settle delay after each step. The coefficient must be in [0.1, 1.0].
// The setting survives power cycles, so this normally needs doing once
// per installation, not once per run.
func (d *Dev) SetEmissivity(e float64) error {
	if e < 0.1 || e > 1.0 {
		return fmt.Errorf("mlx90614: emissivity %v out of range [0.1, 1.0]", e)
	}
	word := uint16(math.Round(e * 65535.0))
	if err := d.writeWord(regEmissivity, 0); err != nil {
		return err
	}
	return d.writeWord(regEmissivity, word)
}

// Sense reads the object temperature from the device. Implements
// physic.SenseEnv. The sensor does not measure pressure or humidity.
func (d *Dev) Sense(e *physic.Env) error {
	e.Temperature = 0
	e.Pressure = 0
	e.Humidity = 0
	r, err := d.ObjectTemperature()
	if err != nil {
		return err
	}
	e.Temperature = r.Temperature
	return nil
}

// SenseContinuous continuously reads from the device and sends the output
// to the returned channel. Failed readings are skipped; the next tick
// reads again. To terminate the read, call Halt().
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < minReadInterval {
		return nil, errors.New("mlx90614: sample interval is < device refresh rate")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		return nil, errors.New("mlx90614: SenseContinuous already running")
	}
	d.shutdown = make(chan struct{})
	shutdown := d.shutdown
	ch := make(chan physic.Env, 16)
	go func(ch chan<- physic.Env) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer close(ch)
		for {
			select {
			case <-shutdown:
				return
			case <-ticker.C:
				e := physic.Env{}
				if err := d.Sense(&e); err == nil {
					ch <- e
				}
			}
		}
	}(ch)
	return ch, nil
}

// Halt terminates a running SenseContinuous operation. Halt is
// idempotent; the device can start a new SenseContinuous afterwards.
// Implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		close(d.shutdown)
		d.shutdown = nil
	}
	return nil
}

// Precision returns the smallest temperature change the device can
// report, one count of 0.02 K. Implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = lsbWeight
	e.Pressure = 0
	e.Humidity = 0
}

func (d *Dev) String() string {
	return fmt.Sprintf("mlx90614: %s", d.d)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
