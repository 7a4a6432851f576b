// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package matrixctl talks to a LED panel controller over its serial link.
//
// It encodes the commands understood by ledmatrix.Dev, waits for the status
// byte of each one and resends a rejected command a few times before giving
// up. Images and text are turned into blocks before being sent.
package matrixctl

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"

	"github.com/GermanBionicSystems/panels/ledmatrix"
)

// Opts holds the settings of a Controller.
type Opts struct {
	// PanelBlocks is the number of blocks of the panel, used to align
	// images.
	PanelBlocks int
	// MaxTries is how many times a command is sent before its last status
	// is returned.
	MaxTries int
	// RetryDelay is the pause before sending a command again.
	RetryDelay time.Duration
	// ReplyTimeout bounds the wait for a status byte, when the link supports
	// read deadlines.
	ReplyTimeout time.Duration
	// Logger receives a line per rejected attempt. Defaults to a disabled
	// logger.
	Logger *zerolog.Logger
}

// DefaultOpts matches the controller defaults.
var DefaultOpts = Opts{
	PanelBlocks:  15,
	MaxTries:     5,
	RetryDelay:   200 * time.Millisecond,
	ReplyTimeout: time.Second,
}

// ErrNoReply is returned when the link closed before a status byte came back.
var ErrNoReply = errors.New("matrixctl: no reply from controller")

// Controller sends commands to a panel controller.
type Controller struct {
	mu   sync.Mutex
	rw   io.ReadWriter
	opts Opts
	log  zerolog.Logger
}

// New returns a Controller using rw, typically a tty or a TCP connection.
func New(rw io.ReadWriter, opts *Opts) (*Controller, error) {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.PanelBlocks <= 0 || o.PanelBlocks > 255 {
		return nil, fmt.Errorf("matrixctl: invalid number of panel blocks %d", o.PanelBlocks)
	}
	if o.MaxTries <= 0 {
		o.MaxTries = 1
	}
	c := &Controller{rw: rw, opts: o, log: zerolog.Nop()}
	if o.Logger != nil {
		c.log = *o.Logger
	}
	return c, nil
}

func (c *Controller) String() string {
	return fmt.Sprintf("matrixctl{%d blocks}", c.opts.PanelBlocks)
}

// Send writes frame and waits for its status, retrying while the controller
// rejects it.
//
// A rejection on the last try is returned as the ledmatrix.Status itself, so
// it can be matched with errors.Is.
func (c *Controller) Send(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var st ledmatrix.Status
	for try := range c.opts.MaxTries {
		if try > 0 {
			time.Sleep(c.opts.RetryDelay)
		}
		if _, err := c.rw.Write(frame); err != nil {
			return fmt.Errorf("matrixctl: %w", err)
		}
		var err error
		if st, err = c.status(); err != nil {
			return err
		}
		if st == ledmatrix.StatusSuccess {
			return nil
		}
		c.log.Warn().Int("try", try+1).Stringer("status", st).Msg("command rejected")
	}
	return st
}

// status reads one status byte.
func (c *Controller) status() (ledmatrix.Status, error) {
	if d, ok := c.rw.(interface{ SetReadDeadline(time.Time) error }); ok && c.opts.ReplyTimeout > 0 {
		// Ignored by files without deadline support.
		_ = d.SetReadDeadline(time.Now().Add(c.opts.ReplyTimeout))
	}
	var b [1]byte
	if _, err := io.ReadFull(c.rw, b[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, ErrNoReply
		}
		return 0, fmt.Errorf("matrixctl: %w", err)
	}
	return ledmatrix.Status(b[0]), nil
}

// SendBitmap replaces the panel content with blocks.
func (c *Controller) SendBitmap(blocks []ledmatrix.Block) error {
	frame, err := ledmatrix.BitmapFrame(blocks)
	if err != nil {
		return err
	}
	return c.Send(frame)
}

// SendImage packs img with PackImage and sends it.
func (c *Controller) SendImage(img image.Image, align Align) error {
	blocks, err := PackImage(img, align, c.opts.PanelBlocks)
	if err != nil {
		return err
	}
	return c.SendBitmap(blocks)
}

// SendText renders text with ComposeText and sends it.
func (c *Controller) SendText(text string, face font.Face, align Align) error {
	img, err := ComposeText(text, face)
	if err != nil {
		return err
	}
	return c.SendImage(img, align)
}

// SetParameter sets option a to v.
func (c *Controller) SetParameter(a ledmatrix.Action, v byte) error {
	frame, err := ledmatrix.OptionFrame(a, v)
	if err != nil {
		return err
	}
	return c.Send(frame)
}

// SetDisplayMode selects static or scrolling display.
func (c *Controller) SetDisplayMode(m ledmatrix.DisplayMode) error {
	return c.SetParameter(ledmatrix.ActionDisplayMode, byte(m))
}

// SetScrollSpeed sets the number of refresh cycles per scrolled pixel.
// Lower is faster.
func (c *Controller) SetScrollSpeed(cycles byte) error {
	return c.SetParameter(ledmatrix.ActionScrollSpeed, cycles)
}

func (c *Controller) SetScrollDirection(d ledmatrix.ScrollDirection) error {
	return c.SetParameter(ledmatrix.ActionScrollDirection, byte(d))
}

func (c *Controller) SetScrollMode(m ledmatrix.ScrollMode) error {
	return c.SetParameter(ledmatrix.ActionScrollMode, byte(m))
}

// SetScrollGap sets the number of empty blocks shown between two
// repetitions in ledmatrix.RepeatAfterGap mode.
func (c *Controller) SetScrollGap(blocks int) error {
	if blocks < 0 || blocks > 255 {
		return ledmatrix.StatusInvalidValue
	}
	return c.SetParameter(ledmatrix.ActionScrollGap, byte(blocks))
}

func (c *Controller) SetPower(on bool) error {
	return c.SetParameter(ledmatrix.ActionPower, boolByte(on))
}

// SetBlinkFrequency sets the number of refresh cycles per blink phase. 0
// stops blinking.
func (c *Controller) SetBlinkFrequency(cycles byte) error {
	return c.SetParameter(ledmatrix.ActionBlinkFrequency, cycles)
}

func (c *Controller) SetStopIndicator(on bool) error {
	return c.SetParameter(ledmatrix.ActionStopIndicator, boolByte(on))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
