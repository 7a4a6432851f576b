// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledmatrix

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// Poll processes at most one command from the port.
//
// Bytes preceding a start byte are discarded. If the port runs dry before a
// start byte shows up, Poll returns StatusNone and sends nothing. Otherwise
// the whole command is read, applied if valid, the rest of the input is
// flushed and exactly one status byte is written back.
//
// The returned error is only set when the port or a pin failed, including
// once the port input ended and everything buffered was consumed; rejected
// commands are reported through the Status.
func (d *Dev) Poll() (Status, error) {
	for {
		if d.port.Buffered() == 0 {
			if err := d.port.Err(); err != nil {
				return StatusNone, fmt.Errorf("ledmatrix: link closed: %w", err)
			}
			return StatusNone, nil
		}
		b, err := d.port.ReadByte()
		if err != nil {
			return StatusNone, err
		}
		if b == StartByte {
			break
		}
	}
	a, st, err := d.command()
	flush(d.port)
	if _, werr := d.port.Write([]byte{byte(st)}); err == nil {
		err = werr
	}
	if st == StatusSuccess {
		d.log.Debug().Stringer("action", a).Msg("command applied")
	} else {
		d.log.Warn().Stringer("action", a).Stringer("status", st).Msg("command rejected")
	}
	return st, err
}

// command reads and applies the rest of a frame after its start byte.
func (d *Dev) command() (Action, Status, error) {
	b, err := d.next()
	a := Action(b)
	if err != nil {
		return a, StatusInvalidAction, ioErr(err)
	}
	if !a.Valid() {
		return a, StatusInvalidAction, nil
	}
	if b, err := d.next(); err != nil || b != IntermediateByte {
		return a, StatusInvalidIntermediate1, ioErr(err)
	}
	if a == ActionBitmap {
		st, err := d.loadBitmap()
		return a, st, err
	}
	v, err := d.next()
	if err != nil {
		return a, StatusInvalidValue, ioErr(err)
	}
	st, err := d.apply(a, v)
	return a, st, err
}

func (d *Dev) loadBitmap() (Status, error) {
	n, err := d.next()
	if err != nil || n < 1 || int(n) > d.fb.maxBlocks() {
		return StatusInvalidBlockCount, ioErr(err)
	}
	if b, err := d.next(); err != nil || b != IntermediateByte {
		return StatusInvalidIntermediate2, ioErr(err)
	}
	data := d.payload[:int(n)*Rows]
	for i := range data {
		b, err := d.next()
		if err != nil {
			return StatusTimeout, ioErr(err)
		}
		data[i] = b
	}
	if err := d.fb.loadBytes(data); err != nil {
		return StatusInvalidBitmap, nil
	}
	d.updateWidth()
	return StatusSuccess, nil
}

// apply validates v for option a and stores it.
func (d *Dev) apply(a Action, v byte) (Status, error) {
	switch a {
	case ActionDisplayMode:
		if v > byte(Scrolling) {
			return StatusInvalidValue, nil
		}
		d.cfg.DisplayMode = DisplayMode(v)
		if d.cfg.DisplayMode == Static {
			d.scroll.pos = 0
		}
	case ActionScrollSpeed:
		if v == 0 {
			return StatusInvalidValue, nil
		}
		d.cfg.ScrollSpeed = v
	case ActionScrollDirection:
		if v > byte(Right) {
			return StatusInvalidValue, nil
		}
		d.cfg.ScrollDirection = ScrollDirection(v)
	case ActionScrollMode:
		if v > byte(RepeatAfterGap) {
			return StatusInvalidValue, nil
		}
		d.cfg.ScrollMode = ScrollMode(v)
		d.updateWidth()
	case ActionScrollGap:
		if int(v) > d.opts.PanelBlocks {
			return StatusInvalidValue, nil
		}
		d.cfg.ScrollGap = int(v)
		d.updateWidth()
	case ActionPower:
		if v > 1 {
			return StatusInvalidValue, nil
		}
		d.cfg.Power = v == 1
	case ActionBlinkFrequency:
		d.cfg.BlinkFrequency = v
		if v == 0 {
			d.scroll.stopBlinking()
			return StatusSuccess, d.scan.output(true)
		}
	case ActionStopIndicator:
		if v > 1 {
			return StatusInvalidValue, nil
		}
		d.cfg.StopIndicator = v == 1
		return StatusSuccess, d.setStopIndicator(d.cfg.StopIndicator)
	default:
		return StatusInvalidAction, nil
	}
	return StatusSuccess, nil
}

// next returns the next byte of a command. It waits at most
// Opts.ByteTimeout, counted from the moment the port is first found empty.
func (d *Dev) next() (byte, error) {
	var deadline time.Time
	for d.port.Buffered() == 0 {
		now := time.Now()
		if deadline.IsZero() {
			deadline = now.Add(d.opts.ByteTimeout)
		} else if now.After(deadline) {
			return 0, errTimeout
		}
		runtime.Gosched()
	}
	return d.port.ReadByte()
}

// ioErr drops timeouts, which are reported with a Status, and keeps port
// failures.
func ioErr(err error) error {
	if errors.Is(err, errTimeout) {
		return nil
	}
	return err
}
