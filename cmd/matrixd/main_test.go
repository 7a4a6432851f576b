// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// countPin counts the rising edges driven on it.
type countPin struct {
	*gpiotest.Pin
	rising int
}

func (p *countPin) Out(l gpio.Level) error {
	if l == gpio.High && p.Pin.Read() == gpio.Low {
		p.rising++
	}
	return p.Pin.Out(l)
}

type fakeLines map[string]*countPin

func (f fakeLines) byName(name string) gpio.PinIO {
	if p, ok := f[name]; ok {
		return p
	}
	return nil
}

func newLines(cfg *Config) fakeLines {
	f := fakeLines{}
	g := &cfg.GPIO
	for _, n := range append([]string{g.Data, g.Clock, g.Latch, g.OutputEnable, g.StopIndicator}, g.Rows...) {
		f[n] = &countPin{Pin: &gpiotest.Pin{N: n}}
	}
	return f
}

// brokenSPI fails to connect.
type brokenSPI struct {
	closed bool
}

func (b *brokenSPI) Close() error {
	b.closed = true
	return nil
}

func (b *brokenSPI) String() string                      { return "broken" }
func (b *brokenSPI) LimitSpeed(f physic.Frequency) error { return nil }
func (b *brokenSPI) Connect(physic.Frequency, spi.Mode, int) (spi.Conn, error) {
	return nil, errors.New("no such bus")
}

func noSPI(string) (spi.PortCloser, error) {
	return nil, errors.New("unexpected SPI open")
}

func TestGPIOPanel(t *testing.T) {
	cfg := defaultConfig()
	cfg.PanelBlocks = 2
	lines := newLines(&cfg)
	p, err := newGPIOPanel(&cfg, lines.byName, noSPI)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.pins.Rows) != 8 || p.pins.OutputEnable == nil || p.pins.StopIndicator == nil {
		t.Fatalf("pins = %+v", p.pins)
	}
	if err := p.close(); err != nil {
		t.Fatal(err)
	}
	// Halt shifts zeros through both registers.
	if got := lines[cfg.GPIO.Clock].rising; got != 16 {
		t.Errorf("%d clock pulses, want 16", got)
	}
}

func TestGPIOPanelMissingLine(t *testing.T) {
	cfg := defaultConfig()
	lines := newLines(&cfg)
	delete(lines, cfg.GPIO.Rows[3])
	delete(lines, cfg.GPIO.StopIndicator)
	if _, err := newGPIOPanel(&cfg, lines.byName, noSPI); err == nil {
		t.Fatal("newGPIOPanel() succeeded with missing lines")
	}
	if got := lines[cfg.GPIO.Clock].rising; got != 0 {
		t.Errorf("columns driven before the lines were checked: %d clock pulses", got)
	}
}

func TestGPIOPanelReleasesOnError(t *testing.T) {
	cfg := defaultConfig()
	cfg.PanelBlocks = 3
	cfg.GPIO.RowSPI = "SPI9.9"
	lines := newLines(&cfg)
	port := &brokenSPI{}
	open := func(name string) (spi.PortCloser, error) {
		if name != "SPI9.9" {
			t.Errorf("opened %q", name)
		}
		return port, nil
	}
	if _, err := newGPIOPanel(&cfg, lines.byName, open); err == nil {
		t.Fatal("newGPIOPanel() succeeded")
	}
	if !port.closed {
		t.Error("SPI port left open")
	}
	if got := lines[cfg.GPIO.Clock].rising; got != 24 {
		t.Errorf("%d clock pulses, want 24 from halting the columns", got)
	}
}
