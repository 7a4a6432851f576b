// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledmatrix

// ScrollWidth returns the period, in blocks, over which scrolled content
// repeats. It is never smaller than panel, so that a wrapped block index
// always lands in the zeroed spare space of the frame buffer rather than past
// it.
func ScrollWidth(active, panel int, mode ScrollMode, gap int) int {
	switch mode {
	case RepeatOnDisappearance:
		return active + panel
	case RepeatAfterGap:
		return max(active+gap, panel)
	default:
		return max(active, panel)
	}
}

// scrollState is the part of the render state that moves on its own, once
// per refresh cycle.
type scrollState struct {
	// width is the scroll period in blocks.
	width int
	// pos is the horizontal offset in pixels, in [0, width*8).
	pos int
	// ticks counts cycles since the last scroll step.
	ticks int
	// frames counts cycles since the last blink toggle.
	frames int
	// blanked is true during the dark half of a blink period.
	blanked bool
}

// wrap returns v modulo n in [0, n).
func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// setWidth changes the scroll period and brings the position back in range.
func (s *scrollState) setWidth(width int) {
	s.width = width
	s.pos = wrap(s.pos, width*Rows)
}

// step moves the content by one pixel.
func (s *scrollState) step(dir ScrollDirection) {
	d := -1
	if dir == Right {
		d = 1
	}
	s.pos = wrap(s.pos+d, s.width*Rows)
}

// advance is called once after every refresh cycle. It returns true when the
// blink phase flipped.
func (s *scrollState) advance(cfg *Config) bool {
	if cfg.DisplayMode == Scrolling {
		s.ticks++
		if s.ticks >= int(cfg.ScrollSpeed) {
			s.ticks = 0
			s.step(cfg.ScrollDirection)
		}
	}
	if cfg.BlinkFrequency == 0 {
		return false
	}
	s.frames++
	if s.frames < int(cfg.BlinkFrequency) {
		return false
	}
	s.frames = 0
	s.blanked = !s.blanked
	return true
}

// stopBlinking forces the visible phase.
func (s *scrollState) stopBlinking() {
	s.frames = 0
	s.blanked = false
}

// rowByte returns the byte shown by panel block p on row, reading from fb.
func (s *scrollState) rowByte(fb *frameBuffer, mode DisplayMode, p, row int) byte {
	if mode != Scrolling {
		return fb.block(p)[row]
	}
	q, shift := s.pos/8, uint(s.pos%8)
	cur := fb.block(wrap(p-q, s.width))[row]
	if shift == 0 {
		return cur
	}
	// The 8 pixel window straddles two source blocks.
	prev := fb.block(wrap(p-q-1, s.width))[row]
	return prev<<(8-shift) | cur>>shift
}
