// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledmatrix

import (
	"periph.io/x/conn/v3/gpio"
)

// Shifter moves column bits into the cascade of column shift registers.
//
// nxp74hc595.Chain implements it by bit-banging GPIO lines.
type Shifter interface {
	// Shift clocks p out, most significant bit of each byte first, one clock
	// pulse per bit. The outputs do not change until Latch.
	Shift(p []byte) error
	// Latch transfers the shifted bits to the register outputs.
	Latch() error
	// Idle drives the data, clock and latch lines low.
	Idle() error
}

// scanner drives one row at a time.
type scanner struct {
	shifter Shifter
	rows    []gpio.PinOut
	oe      gpio.PinOut
	// lit is the row whose drive line is high, or -1.
	lit int
	buf []byte
}

func newScanner(sh Shifter, rows []gpio.PinOut, oe gpio.PinOut, panelBlocks int) *scanner {
	return &scanner{
		shifter: sh,
		rows:    rows,
		oe:      oe,
		lit:     -1,
		buf:     make([]byte, panelBlocks),
	}
}

// shift sends the column bits of row. The last physical block goes out first
// since it sits at the far end of the cascade.
func (s *scanner) shift(row int, fb *frameBuffer, cfg *Config, st *scrollState) error {
	n := len(s.buf)
	for p := range n {
		s.buf[n-1-p] = st.rowByte(fb, cfg.DisplayMode, p, row)
	}
	return s.shifter.Shift(s.buf)
}

// latch switches off the lit row, then presents the shifted bits. Doing it in
// this order keeps the new columns from showing on the previous row.
func (s *scanner) latch() error {
	if s.lit >= 0 {
		if err := s.rows[s.lit].Out(gpio.Low); err != nil {
			return err
		}
		s.lit = -1
	}
	return s.shifter.Latch()
}

// enable switches on the drive line of row. The previous row must already be
// off, which latch guarantees.
func (s *scanner) enable(row int) error {
	if s.lit >= 0 && s.lit != row {
		if err := s.rows[s.lit].Out(gpio.Low); err != nil {
			return err
		}
	}
	if err := s.rows[row].Out(gpio.High); err != nil {
		return err
	}
	s.lit = row
	return nil
}

// blank drives every row, data, clock and latch line low.
func (s *scanner) blank() error {
	for _, p := range s.rows {
		if err := p.Out(gpio.Low); err != nil {
			return err
		}
	}
	s.lit = -1
	return s.shifter.Idle()
}

// output drives the output enable line, which is active low: High blanks the
// whole panel.
func (s *scanner) output(visible bool) error {
	if s.oe == nil {
		return nil
	}
	return s.oe.Out(gpio.Level(!visible))
}
