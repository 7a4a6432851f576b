// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package nxp74hc595 drives 74HC595 shift registers, which turn a serial bit
// stream into 8 parallel outputs. Several of them can be cascaded, the serial output of one
// feeding the data input of the next.
//
// Two drivers are provided. Dev sits on an SPI bus and exposes the outputs
// of the cascade as GPO pins, which is handy for slow lines like the row
// drivers of a multiplexed display. Chain bit-bangs three GPIO lines and
// pushes whole byte streams, for the column registers of such a display.
//
// # Datasheet
//
// https://www.nexperia.com/product/74HC595D
//
// Timing of the shift and storage clocks, as used by Chain:
//
// https://docs.arduino.cc/tutorials/communication/guide-to-shift-out/
package nxp74hc595

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
	"periph.io/x/conn/v3/spi"
)

const (
	devName = "74HC595"
	numPins = 8
	// maxUnits is bound by the width of gpio.GPIOValue.
	maxUnits = 8
)

var (
	ErrNotImplemented = errors.New("nxp74hc595: not implemented")
)

// Opts describes the cascade behind an SPI port.
type Opts struct {
	// Units is the number of cascaded registers. Defaults to 1.
	Units int
}

// Dev represents a cascade of 74hc595 devices on an SPI port.
//
// Output n of the cascade is output n%8 of register n/8, register 0 being the
// one wired to the SPI MOSI line.
type Dev struct {
	Pins []gpio.PinOut

	mu    sync.Mutex
	conn  spi.Conn
	units int
	value gpio.GPIOValue
	valid bool
}

// Group implements gpio.Group and provides a way to write to multiple GPO pins
// in a single transaction.
type Group struct {
	dev  *Dev
	pins []Pin
}

// New accepts an spi.Conn and returns a new 74HC595 cascade.
func New(conn spi.Conn, opts *Opts) (*Dev, error) {
	units := 1
	if opts != nil && opts.Units != 0 {
		units = opts.Units
	}
	if units < 1 || units > maxUnits {
		return nil, fmt.Errorf("nxp74hc595: invalid number of units %d", units)
	}
	dev := &Dev{conn: conn, units: units, Pins: make([]gpio.PinOut, numPins*units)}
	for ix := range dev.Pins {
		dev.Pins[ix] = &Pin{number: ix, name: fmt.Sprintf("%s_GPO%d", devName, ix), dev: dev}
	}
	return dev, nil
}

// write does the low-level write to the cascade. The far register is sent
// first so that every byte ends up in its own register.
func (dev *Dev) write(value, mask gpio.GPIOValue) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.conn == nil {
		return errors.New("nxp74hc595: device halted")
	}
	newValue := (dev.value &^ mask) | (value & mask)
	// The first write always goes out, even if it's 0.
	if dev.valid && dev.value == newValue {
		return nil
	}
	w := make([]byte, dev.units)
	for ix := range w {
		w[ix] = byte(newValue >> (8 * (dev.units - 1 - ix)))
	}
	if err := dev.conn.Tx(w, nil); err != nil {
		return err
	}
	dev.value = newValue
	dev.valid = true
	return nil
}

// Group returns the outputs numbered pins as a gpio.Group, so that they can
// be changed in one SPI transfer. Bit n of the group values maps to pins[n].
func (dev *Dev) Group(pins ...int) (gpio.Group, error) {
	if len(pins) > 64 {
		return nil, fmt.Errorf("nxp74hc595: %d pins do not fit a group", len(pins))
	}
	gr := &Group{dev: dev, pins: make([]Pin, 0, len(pins))}
	for _, n := range pins {
		if n < 0 || n >= len(dev.Pins) {
			return nil, fmt.Errorf("nxp74hc595: invalid pin %d", n)
		}
		gr.pins = append(gr.pins, Pin{dev: dev, number: n, name: dev.Pins[n].Name()})
	}
	return gr, nil
}

// Halt detaches the device from its SPI port. Outputs keep their last
// value and further writes fail.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.Pins = nil
	dev.conn = nil
	return nil
}

func (dev *Dev) String() string {
	if dev.units == 1 {
		return devName
	}
	return fmt.Sprintf("%s×%d", devName, dev.units)
}

// Pins implements gpio.Group.
func (gr *Group) Pins() []pin.Pin {
	out := make([]pin.Pin, 0, len(gr.pins))
	for ix := range gr.pins {
		out = append(out, &gr.pins[ix])
	}
	return out
}

// ByOffset implements gpio.Group.
func (gr *Group) ByOffset(offset int) pin.Pin {
	if offset < 0 || offset >= len(gr.pins) {
		return nil
	}
	return &gr.pins[offset]
}

// ByName implements gpio.Group.
func (gr *Group) ByName(name string) pin.Pin {
	return gr.find(func(p *Pin) bool { return p.name == name })
}

// ByNumber implements gpio.Group. number is the output number on the
// cascade, not the offset in the group.
func (gr *Group) ByNumber(number int) pin.Pin {
	return gr.find(func(p *Pin) bool { return p.number == number })
}

func (gr *Group) find(match func(p *Pin) bool) pin.Pin {
	for ix := range gr.pins {
		if match(&gr.pins[ix]) {
			return &gr.pins[ix]
		}
	}
	return nil
}

// Out sets the group outputs selected by mask to value. A zero mask selects
// all of them.
func (gr *Group) Out(value, mask gpio.GPIOValue) error {
	if mask == 0 {
		mask = ^gpio.GPIOValue(0)
	}
	var devValue, devMask gpio.GPIOValue
	for ix, p := range gr.pins {
		if mask>>ix&1 == 0 {
			continue
		}
		bit := gpio.GPIOValue(1) << p.number
		devMask |= bit
		if value>>ix&1 != 0 {
			devValue |= bit
		}
	}
	return gr.dev.write(devValue, devMask)
}

// Read returns ErrNotImplemented, the outputs cannot be read back.
func (gr *Group) Read(mask gpio.GPIOValue) (gpio.GPIOValue, error) {
	return 0, ErrNotImplemented
}

// WaitForEdge returns ErrNotImplemented.
func (gr *Group) WaitForEdge(timeout time.Duration) (int, gpio.Edge, error) {
	return 0, gpio.NoEdge, ErrNotImplemented
}

// Halt releases the pins of the group. The device itself is left alone.
func (gr *Group) Halt() error {
	gr.pins = nil
	return nil
}

func (gr *Group) String() string {
	nums := make([]string, 0, len(gr.pins))
	for _, p := range gr.pins {
		nums = append(nums, strconv.Itoa(p.number))
	}
	return fmt.Sprintf("%s[%s]", gr.dev, strings.Join(nums, " "))
}

var (
	_ gpio.PinOut = &Pin{}
	_ gpio.Group  = &Group{}
)
