// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termpanel emulates a multiplexed LED dot-matrix panel on a terminal
// using ANSI color codes.
//
// It stands in for the column shift registers and the row, output enable and
// stop indicator lines that a ledmatrix.Dev drives, and draws what the real
// panel would show each time the 8 rows have been scanned.
//
// Useful while you are waiting for the panel to come by mail.
package termpanel

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"sync"
	"time"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/panels/ledmatrix"
)

// Opts represents the options available for this display.
type Opts struct {
	// Blocks is the number of 8×8 blocks of the panel.
	Blocks int
	// On and Off are the colors of lit and dark dots. They default to amber
	// and a dim gray.
	On, Off color.Color
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// W defaults to a color capable stdout.
	W io.Writer
	// Interval is the minimum time between two redraws. 0 redraws after
	// every scan that changed the picture.
	Interval time.Duration

	_ struct{}
}

// Dev is a LED panel emulator that outputs to the console.
type Dev struct {
	mu       sync.Mutex
	w        io.Writer
	palette  ansi256.Palette
	on, off  string
	interval time.Duration

	// reg holds the shift registers, reg[0] being the one fed by the data
	// line. Block k of the panel shows out[k].
	reg []byte
	out []byte
	// blanked mirrors the output enable line, active low.
	blanked bool
	stop    bool
	// frame is being built by the current scan. shown is on screen.
	frame   *ledmatrix.Image
	shown   *ledmatrix.Image
	drawn   bool
	dirty   bool
	last    time.Time
	buf     bytes.Buffer
	rows    []*Pin
	oe      *Pin
	stopPin *Pin
}

// New returns a Dev that displays at the console.
func New(opts *Opts) (*Dev, error) {
	if opts.Blocks <= 0 {
		return nil, fmt.Errorf("termpanel: invalid number of blocks %d", opts.Blocks)
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	on, off := opts.On, opts.Off
	if on == nil {
		on = color.NRGBA{R: 255, G: 176, A: 255}
	}
	if off == nil {
		off = color.NRGBA{R: 48, G: 48, B: 48, A: 255}
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	d := &Dev{
		w:        w,
		palette:  *p,
		on:       p.Block(toNRGBA(on)),
		off:      p.Block(toNRGBA(off)),
		interval: opts.Interval,
		reg:      make([]byte, opts.Blocks),
		out:      make([]byte, opts.Blocks),
		frame:    ledmatrix.NewImage(opts.Blocks),
		shown:    ledmatrix.NewImage(opts.Blocks),
	}
	for i := range ledmatrix.Rows {
		d.rows = append(d.rows, &Pin{dev: d, name: fmt.Sprintf("TermPanel_ROW%d", i), number: i})
	}
	d.oe = &Pin{dev: d, name: "TermPanel_OE", number: -1}
	d.stopPin = &Pin{dev: d, name: "TermPanel_STOP", number: -2}
	return d, nil
}

func (d *Dev) String() string {
	return "TermPanel"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so it is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Rows returns the 8 row drive lines, top first.
func (d *Dev) Rows() []gpio.PinOut {
	out := make([]gpio.PinOut, len(d.rows))
	for i, p := range d.rows {
		out[i] = p
	}
	return out
}

// OutputEnable returns the active low output enable line of the columns.
func (d *Dev) OutputEnable() gpio.PinOut {
	return d.oe
}

// StopIndicator returns the line of the stop lamp, shown right of the panel.
func (d *Dev) StopIndicator() gpio.PinOut {
	return d.stopPin
}

// Pins returns all the lines, ready to be handed to ledmatrix.New.
func (d *Dev) Pins() *ledmatrix.Pins {
	return &ledmatrix.Pins{Rows: d.Rows(), OutputEnable: d.oe, StopIndicator: d.stopPin}
}

// Shift implements ledmatrix.Shifter.
func (d *Dev) Shift(p []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, b := range p {
		copy(d.reg[1:], d.reg)
		d.reg[0] = b
	}
	return nil
}

// Latch implements ledmatrix.Shifter.
func (d *Dev) Latch() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(d.out, d.reg)
	return nil
}

// Idle implements ledmatrix.Shifter.
//
// It is called when the panel goes dark, so the picture is cleared.
func (d *Dev) Idle() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.frame.Blocks)
	clear(d.shown.Blocks)
	return d.refresh(true)
}

// Image returns a copy of what the panel shows.
func (d *Dev) Image() *ledmatrix.Image {
	d.mu.Lock()
	defer d.mu.Unlock()
	img := ledmatrix.NewImage(len(d.shown.Blocks))
	copy(img.Blocks, d.shown.Blocks)
	return img
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, len(d.out)*8, ledmatrix.Rows)
}

// Draw implements display.Drawer.
//
// It shows src right away, bypassing the row scan. Any non black pixel is
// lit.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	draw.Draw(d.shown, r.Intersect(d.Bounds()), src, sp, draw.Src)
	return d.refresh(true)
}

// setRow is called when row line i changes.
func (d *Dev) setRow(i int, l gpio.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !l {
		return nil
	}
	for k, b := range d.out {
		if d.blanked {
			b = 0
		}
		d.frame.Blocks[k][i] = b
	}
	if i != ledmatrix.Rows-1 {
		return nil
	}
	if !equal(d.frame, d.shown) {
		copy(d.shown.Blocks, d.frame.Blocks)
		d.dirty = true
	}
	if d.dirty {
		return d.refresh(false)
	}
	return nil
}

func (d *Dev) setOutputEnable(l gpio.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.blanked = bool(l)
	return nil
}

func (d *Dev) setStop(l gpio.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop == bool(l) {
		return nil
	}
	d.stop = bool(l)
	return d.refresh(true)
}

// refresh redraws the panel in place. Unless forced, it is skipped when the
// last redraw is more recent than the interval.
func (d *Dev) refresh(force bool) error {
	now := time.Now()
	if !force && d.interval > 0 && now.Sub(d.last) < d.interval {
		return nil
	}
	d.last = now
	d.dirty = false
	d.buf.Reset()
	if d.drawn {
		fmt.Fprintf(&d.buf, "\033[%dA", ledmatrix.Rows)
	}
	for y := range ledmatrix.Rows {
		_, _ = d.buf.WriteString("\r\033[0m")
		for x := range len(d.out) * 8 {
			if d.shown.BitAt(x, y) {
				_, _ = d.buf.WriteString(d.on)
			} else {
				_, _ = d.buf.WriteString(d.off)
			}
		}
		_, _ = d.buf.WriteString("\033[0m")
		if y == 0 && d.stop {
			_, _ = io.WriteString(&d.buf, " "+d.palette.Block(color.NRGBA{R: 255, A: 255}))
			_, _ = d.buf.WriteString("\033[0m")
		} else {
			_, _ = d.buf.WriteString("\033[K")
		}
		_, _ = d.buf.WriteString("\n")
	}
	d.drawn = true
	_, err := d.buf.WriteTo(d.w)
	return err
}

func toNRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func equal(a, b *ledmatrix.Image) bool {
	for i := range a.Blocks {
		if a.Blocks[i] != b.Blocks[i] {
			return false
		}
	}
	return true
}

var _ display.Drawer = &Dev{}
var _ ledmatrix.Shifter = &Dev{}
var _ fmt.Stringer = &Dev{}
