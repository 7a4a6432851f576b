// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/GermanBionicSystems/panels/ledmatrix"
	"github.com/GermanBionicSystems/panels/matrixctl"
)

var (
	displayModes = map[string]ledmatrix.DisplayMode{
		"static": ledmatrix.Static,
		"scroll": ledmatrix.Scrolling,
	}
	directions = map[string]ledmatrix.ScrollDirection{
		"left":  ledmatrix.Left,
		"right": ledmatrix.Right,
	}
	scrollModes = map[string]ledmatrix.ScrollMode{
		"repeat-on-end":           ledmatrix.RepeatOnEnd,
		"repeat-on-disappearance": ledmatrix.RepeatOnDisappearance,
		"repeat-after-gap":        ledmatrix.RepeatAfterGap,
	}
	onOff = map[string]bool{"on": true, "off": false}
)

// optionOrder is the order options are sent in, whatever their order on the
// command line.
var optionOrder = []string{"dm", "ss", "sd", "sm", "sg", "ps", "bf", "si"}

func lookup[T any](m map[string]T, flagName, v string) (T, error) {
	t, ok := m[v]
	if !ok {
		return t, fmt.Errorf("-%s: invalid value %q", flagName, v)
	}
	return t, nil
}

// options are the controller settings given on the command line.
type options struct {
	displayMode string
	speed       int
	direction   string
	scrollMode  string
	gap         int
	power       string
	blink       int
	stopInd     string
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.displayMode, "dm", "", "display mode: static | scroll")
	fs.IntVar(&o.speed, "ss", 0, "scroll speed, in refresh cycles per pixel (1-255)")
	fs.StringVar(&o.direction, "sd", "", "scroll direction: left | right")
	fs.StringVar(&o.scrollMode, "sm", "", "scroll mode: repeat-on-end | repeat-on-disappearance | repeat-after-gap")
	fs.IntVar(&o.gap, "sg", 0, "scroll gap in blocks")
	fs.StringVar(&o.power, "ps", "", "power: on | off")
	fs.IntVar(&o.blink, "bf", 0, "blink frequency, in refresh cycles per phase; 0 disables")
	fs.StringVar(&o.stopInd, "si", "", "stop indicator: on | off")
}

// step sends one option.
type step struct {
	name string
	send func(c *matrixctl.Controller) error
}

// steps returns the options explicitly set on fs, in optionOrder. Every value
// is validated before anything is sent.
func (o *options) steps(fs *flag.FlagSet) ([]step, error) {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	var out []step
	var errs []error
	for _, name := range optionOrder {
		if !set[name] {
			continue
		}
		send, err := o.step(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, step{name: name, send: send})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

func (o *options) step(name string) (func(c *matrixctl.Controller) error, error) {
	switch name {
	case "dm":
		m, err := lookup(displayModes, name, o.displayMode)
		return func(c *matrixctl.Controller) error { return c.SetDisplayMode(m) }, err
	case "ss":
		if o.speed < 1 || o.speed > 255 {
			return nil, fmt.Errorf("-ss: %d out of range", o.speed)
		}
		v := byte(o.speed)
		return func(c *matrixctl.Controller) error { return c.SetScrollSpeed(v) }, nil
	case "sd":
		d, err := lookup(directions, name, o.direction)
		return func(c *matrixctl.Controller) error { return c.SetScrollDirection(d) }, err
	case "sm":
		m, err := lookup(scrollModes, name, o.scrollMode)
		return func(c *matrixctl.Controller) error { return c.SetScrollMode(m) }, err
	case "sg":
		if o.gap < 0 || o.gap > 255 {
			return nil, fmt.Errorf("-sg: %d out of range", o.gap)
		}
		g := o.gap
		return func(c *matrixctl.Controller) error { return c.SetScrollGap(g) }, nil
	case "ps":
		on, err := lookup(onOff, name, o.power)
		return func(c *matrixctl.Controller) error { return c.SetPower(on) }, err
	case "bf":
		if o.blink < 0 || o.blink > 255 {
			return nil, fmt.Errorf("-bf: %d out of range", o.blink)
		}
		v := byte(o.blink)
		return func(c *matrixctl.Controller) error { return c.SetBlinkFrequency(v) }, nil
	case "si":
		on, err := lookup(onOff, name, o.stopInd)
		return func(c *matrixctl.Controller) error { return c.SetStopIndicator(on) }, err
	}
	return nil, fmt.Errorf("unknown option -%s", name)
}
