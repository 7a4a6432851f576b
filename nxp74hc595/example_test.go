// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nxp74hc595

import (
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	// Open the SPI Bus
	pc, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer pc.Close()
	conn, err := pc.Connect(physic.MegaHertz, spi.Mode1, 8)
	if err != nil {
		log.Fatal(err)
	}
	// Create a cascade of two 74HC595 on that bus.
	dev, err := New(conn, &Opts{Units: 2})
	if err != nil {
		log.Fatal(err)
	}
	// Get a GPIO group spanning both registers, and write values to it.
	gr, err := dev.Group(4, 5, 6, 7, 8, 9, 10, 11)
	if err != nil {
		log.Fatal(err)
	}
	for i := range 256 {
		_ = gr.Out(gpio.GPIOValue(i), 0)
	}
}

func ExampleChain() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	data := gpioreg.ByName("GPIO17")
	clock := gpioreg.ByName("GPIO27")
	latch := gpioreg.ByName("GPIO22")
	if data == nil || clock == nil || latch == nil {
		log.Fatal("failed to find the shift register lines")
	}
	c, err := NewChain(data, clock, latch, 4)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Halt()
	// Walk a lit output along the 32 outputs.
	for i := range 32 {
		p := make([]byte, 4)
		p[3-i/8] = 0x80 >> (i % 8)
		if err := c.Write(p); err != nil {
			log.Fatal(err)
		}
		time.Sleep(50 * time.Millisecond)
	}
}
