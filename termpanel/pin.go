// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termpanel

import (
	"errors"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Pin is an emulated line of the panel.
type Pin struct {
	dev    *Dev
	name   string
	number int
}

// Halt implements conn.Resource.
func (p *Pin) Halt() error {
	return nil
}

// Name returns the name of the line.
func (p *Pin) Name() string {
	return p.name
}

// Number returns the row index, or a negative value for the other lines.
func (p *Pin) Number() int {
	return p.number
}

// Deprecated: returns "Out"
func (p *Pin) Function() string {
	return "Out"
}

// Out changes the level of the line.
func (p *Pin) Out(l gpio.Level) error {
	switch {
	case p.number >= 0:
		return p.dev.setRow(p.number, l)
	case p == p.dev.oe:
		return p.dev.setOutputEnable(l)
	default:
		return p.dev.setStop(l)
	}
}

// PWM is not supported.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("termpanel: PWM not supported")
}

func (p *Pin) String() string {
	return p.name
}

var _ gpio.PinOut = &Pin{}
