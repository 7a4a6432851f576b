// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nxp74hc595

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
)

// Chain is a cascade of 74hc595 driven by bit-banging three GPIO lines: DS
// (data), SHCP (shift clock) and STCP (storage clock, or latch).
//
// It implements ledmatrix.Shifter.
type Chain struct {
	mu    sync.Mutex
	data  gpio.PinOut
	clock gpio.PinOut
	latch gpio.PinOut
	units int
}

// NewChain returns a Chain of units registers. The three lines are driven
// low.
func NewChain(data, clock, latch gpio.PinOut, units int) (*Chain, error) {
	if data == nil || clock == nil || latch == nil {
		return nil, errors.New("nxp74hc595: data, clock and latch pins are required")
	}
	if units < 1 {
		return nil, fmt.Errorf("nxp74hc595: invalid number of units %d", units)
	}
	c := &Chain{data: data, clock: clock, latch: latch, units: units}
	if err := c.Idle(); err != nil {
		return nil, err
	}
	return c, nil
}

// Units returns the number of registers in the cascade.
func (c *Chain) Units() int {
	return c.units
}

// Shift clocks p into the cascade, most significant bit first. The first
// byte ends up in the register at the far end once len(p) equals Units.
//
// The outputs do not change until Latch is called.
func (c *Chain) Shift(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range p {
		for mask := byte(0x80); mask != 0; mask >>= 1 {
			if err := c.data.Out(b&mask != 0); err != nil {
				return err
			}
			if err := c.pulse(c.clock); err != nil {
				return err
			}
		}
	}
	return nil
}

// Latch transfers the shift registers to the outputs.
func (c *Chain) Latch() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pulse(c.latch)
}

// Write shifts p and latches it. p must hold exactly one byte per unit.
func (c *Chain) Write(p []byte) error {
	if len(p) != c.units {
		return fmt.Errorf("nxp74hc595: got %d bytes for %d units", len(p), c.units)
	}
	if err := c.Shift(p); err != nil {
		return err
	}
	return c.Latch()
}

// Idle drives the three lines low.
func (c *Chain) Idle() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range []gpio.PinOut{c.data, c.clock, c.latch} {
		if err := p.Out(gpio.Low); err != nil {
			return err
		}
	}
	return nil
}

// Halt implements conn.Resource.
//
// It clears the outputs of the cascade.
func (c *Chain) Halt() error {
	if err := c.Write(make([]byte, c.units)); err != nil {
		return err
	}
	return c.Idle()
}

func (c *Chain) String() string {
	return fmt.Sprintf("%s{%s, %s, %s}×%d", devName, c.data.Name(), c.clock.Name(), c.latch.Name(), c.units)
}

// pulse raises then lowers p. The register samples on the rising edge.
func (c *Chain) pulse(p gpio.PinOut) error {
	if err := p.Out(gpio.High); err != nil {
		return err
	}
	return p.Out(gpio.Low)
}
