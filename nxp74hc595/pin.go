// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nxp74hc595

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Pin is one output of a Dev cascade.
type Pin struct {
	dev    *Dev
	name   string
	number int
}

// Halt is a no-op; halt the Dev instead.
func (pin *Pin) Halt() error {
	return nil
}

// Name returns the name of the GPO pin.
func (pin *Pin) Name() string {
	return pin.name
}

// Number returns the position of the pin in the cascade.
func (pin *Pin) Number() int {
	return pin.number
}

// Function returns "Out", the only function of a 74HC595 output.
//
// Deprecated: use pin.PinFunc.
func (pin *Pin) Function() string {
	return "Out"
}

// Out drives the pin. The other outputs of the cascade keep their level.
func (pin *Pin) Out(l gpio.Level) error {
	bit := gpio.GPIOValue(1) << pin.number
	if l == gpio.High {
		return pin.dev.write(bit, bit)
	}
	return pin.dev.write(0, bit)
}

// PWM returns ErrNotImplemented.
func (pin *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return ErrNotImplemented
}

func (pin *Pin) String() string {
	return pin.name
}
