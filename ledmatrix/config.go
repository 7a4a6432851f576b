// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledmatrix

import "strconv"

// DisplayMode selects between a fixed and a scrolling picture.
type DisplayMode byte

const (
	Static    DisplayMode = 0
	Scrolling DisplayMode = 1
)

func (m DisplayMode) String() string {
	switch m {
	case Static:
		return "Static"
	case Scrolling:
		return "Scrolling"
	default:
		return "DisplayMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ScrollDirection is the direction content moves across the panel.
type ScrollDirection byte

const (
	Left  ScrollDirection = 0
	Right ScrollDirection = 1
)

func (d ScrollDirection) String() string {
	switch d {
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "ScrollDirection(" + strconv.Itoa(int(d)) + ")"
	}
}

// ScrollMode decides when scrolled content starts over. See ScrollWidth.
type ScrollMode byte

const (
	// RepeatOnEnd repeats the content as soon as its end is visible.
	RepeatOnEnd ScrollMode = 0
	// RepeatOnDisappearance repeats the content once it has completely left
	// the panel.
	RepeatOnDisappearance ScrollMode = 1
	// RepeatAfterGap repeats the content after Config.ScrollGap blank blocks.
	RepeatAfterGap ScrollMode = 2
)

func (m ScrollMode) String() string {
	switch m {
	case RepeatOnEnd:
		return "RepeatOnEnd"
	case RepeatOnDisappearance:
		return "RepeatOnDisappearance"
	case RepeatAfterGap:
		return "RepeatAfterGap"
	default:
		return "ScrollMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Config is the set of options a host can change with scalar commands.
type Config struct {
	DisplayMode     DisplayMode
	ScrollDirection ScrollDirection
	// ScrollSpeed is the number of refresh cycles per pixel of scrolling. It
	// is never 0.
	ScrollSpeed byte
	ScrollMode  ScrollMode
	// ScrollGap is in blocks, between 0 and the panel block count.
	ScrollGap int
	Power     bool
	// BlinkFrequency is the number of refresh cycles of each half blink
	// period. 0 disables blinking.
	BlinkFrequency byte
	StopIndicator  bool
}

// DefaultConfig is the configuration of a Dev after power-up.
var DefaultConfig = Config{
	DisplayMode:     Static,
	ScrollDirection: Left,
	ScrollSpeed:     1,
	ScrollMode:      RepeatOnEnd,
	Power:           true,
}
