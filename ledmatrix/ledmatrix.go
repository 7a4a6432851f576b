// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledmatrix

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
)

// Opts holds the panel geometry and timing of a Dev.
type Opts struct {
	// PanelBlocks is the number of 8×8 blocks physically on the panel.
	PanelBlocks int
	// MaxBlocks is the largest block count a bitmap command may carry. It
	// cannot exceed 255, the largest count the wire format can express.
	MaxBlocks int
	// ByteTimeout bounds the wait for each byte of a command once the start
	// byte was seen. Defaults to 1ms.
	ByteTimeout time.Duration
	// IdleDelay is the pause between two polls while the panel is powered
	// off. Defaults to 10ms.
	IdleDelay time.Duration
	// RowDwell is how long each row stays lit before the next one is
	// shifted. 0 moves on immediately.
	RowDwell time.Duration
	// Logger receives a line per command. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// DefaultOpts matches a panel of 15 blocks.
var DefaultOpts = Opts{
	PanelBlocks: 15,
	MaxBlocks:   60,
	ByteTimeout: time.Millisecond,
	IdleDelay:   10 * time.Millisecond,
}

// Pins are the lines a Dev drives besides the column shift registers.
type Pins struct {
	// Rows are the drive lines of the 8 rows, top first. Exactly one is High
	// while the panel is lit.
	Rows []gpio.PinOut
	// OutputEnable is the active low output enable line of the column
	// registers. It is used for blinking. Optional.
	OutputEnable gpio.PinOut
	// StopIndicator is an extra lamp switched by ActionStopIndicator.
	// Optional.
	StopIndicator gpio.PinOut
}

// Dev is a panel controller.
//
// It owns the frame buffer and the configuration; both are only ever changed
// by Poll, on the goroutine that runs Cycle.
type Dev struct {
	port Port
	opts Opts
	log  zerolog.Logger

	fb     *frameBuffer
	cfg    Config
	scroll scrollState
	scan   *scanner
	stop   gpio.PinOut

	// lit is true while the last cycle scanned the panel, to detect power-off.
	lit     bool
	payload []byte
}

// New returns a Dev reading commands from port and driving the panel through
// sh and pins. The lines are driven low and the panel content is blank.
func New(port Port, sh Shifter, pins *Pins, opts *Opts) (*Dev, error) {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.PanelBlocks <= 0 {
		return nil, errors.New("ledmatrix: invalid value for number of panel blocks")
	}
	if o.MaxBlocks <= 0 || o.MaxBlocks > 255 {
		return nil, errors.New("ledmatrix: invalid value for maximum number of blocks")
	}
	if o.ByteTimeout <= 0 {
		o.ByteTimeout = time.Millisecond
	}
	if o.IdleDelay <= 0 {
		o.IdleDelay = 10 * time.Millisecond
	}
	if port == nil || sh == nil || pins == nil {
		return nil, errors.New("ledmatrix: port, shifter and pins are required")
	}
	if len(pins.Rows) != Rows {
		return nil, fmt.Errorf("ledmatrix: need %d row pins, got %d", Rows, len(pins.Rows))
	}
	for i, p := range pins.Rows {
		if p == nil {
			return nil, fmt.Errorf("ledmatrix: row pin %d is nil", i)
		}
	}
	d := &Dev{
		port:    port,
		opts:    o,
		log:     zerolog.Nop(),
		fb:      newFrameBuffer(o.MaxBlocks, o.PanelBlocks),
		cfg:     DefaultConfig,
		scan:    newScanner(sh, pins.Rows, pins.OutputEnable, o.PanelBlocks),
		stop:    pins.StopIndicator,
		payload: make([]byte, o.MaxBlocks*Rows),
	}
	if o.Logger != nil {
		d.log = *o.Logger
	}
	d.updateWidth()
	if err := d.scan.blank(); err != nil {
		return nil, fmt.Errorf("ledmatrix: %w", err)
	}
	if err := d.scan.output(true); err != nil {
		return nil, fmt.Errorf("ledmatrix: %w", err)
	}
	if err := d.setStopIndicator(false); err != nil {
		return nil, fmt.Errorf("ledmatrix: %w", err)
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ledmatrix{%d blocks, max %d}", d.opts.PanelBlocks, d.opts.MaxBlocks)
}

// Config returns the current configuration.
func (d *Dev) Config() Config {
	return d.cfg
}

// Content returns a copy of the loaded bitmap.
func (d *Dev) Content() *Image {
	return d.fb.image()
}

// ScrollWidth returns the current scroll period in blocks.
func (d *Dev) ScrollWidth() int {
	return d.scroll.width
}

// ScrollPosition returns the current scroll offset in pixels.
func (d *Dev) ScrollPosition() int {
	return d.scroll.pos
}

// Blanked reports whether blinking currently hides the panel.
func (d *Dev) Blanked() bool {
	return d.scroll.blanked
}

// Cycle runs one refresh cycle.
//
// When powered, it scans the 8 rows, polling the port once per row, then
// advances scrolling and blinking. When powered off, it polls once and sleeps
// Opts.IdleDelay.
func (d *Dev) Cycle() error {
	if !d.cfg.Power {
		if d.lit {
			d.lit = false
			if err := d.scan.blank(); err != nil {
				return err
			}
		}
		if _, err := d.Poll(); err != nil {
			return err
		}
		time.Sleep(d.opts.IdleDelay)
		return nil
	}
	d.lit = true
	for row := range Rows {
		if err := d.scan.shift(row, d.fb, &d.cfg, &d.scroll); err != nil {
			return err
		}
		if err := d.scan.latch(); err != nil {
			return err
		}
		if _, err := d.Poll(); err != nil {
			return err
		}
		if err := d.scan.enable(row); err != nil {
			return err
		}
		if d.opts.RowDwell > 0 {
			time.Sleep(d.opts.RowDwell)
		}
	}
	if d.scroll.advance(&d.cfg) {
		return d.scan.output(!d.scroll.blanked)
	}
	return nil
}

// Run calls Cycle until ctx is done, the port input ends or an I/O error
// occurs.
func (d *Dev) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := d.Cycle(); err != nil {
			return err
		}
	}
}

// Halt implements conn.Resource.
//
// It switches the panel and the stop indicator off.
func (d *Dev) Halt() error {
	d.lit = false
	err := d.scan.blank()
	if err2 := d.setStopIndicator(false); err == nil {
		err = err2
	}
	return err
}

func (d *Dev) updateWidth() {
	d.scroll.setWidth(ScrollWidth(d.fb.activeBlocks(), d.opts.PanelBlocks, d.cfg.ScrollMode, d.cfg.ScrollGap))
}

func (d *Dev) setStopIndicator(on bool) error {
	if d.stop == nil {
		return nil
	}
	return d.stop.Out(gpio.Level(on))
}
