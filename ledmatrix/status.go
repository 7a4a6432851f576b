// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledmatrix

import (
	"errors"
	"fmt"
)

const (
	// StartByte opens every frame.
	StartByte byte = 0xff
	// IntermediateByte separates the header fields of a frame.
	IntermediateByte byte = 0xcc
	// Rows is the number of multiplexed rows, and the height of a block.
	Rows = 8
)

// Action is the opcode of a command.
type Action byte

const (
	ActionBitmap          Action = 0xa0
	ActionDisplayMode     Action = 0xa1
	ActionScrollSpeed     Action = 0xa2
	ActionScrollDirection Action = 0xa3
	ActionScrollMode      Action = 0xa4
	ActionScrollGap       Action = 0xa5
	ActionPower           Action = 0xa6
	ActionBlinkFrequency  Action = 0xa7
	ActionStopIndicator   Action = 0xa8
)

// Valid reports whether a is one of the recognized opcodes.
func (a Action) Valid() bool {
	return a >= ActionBitmap && a <= ActionStopIndicator
}

func (a Action) String() string {
	switch a {
	case ActionBitmap:
		return "Bitmap"
	case ActionDisplayMode:
		return "DisplayMode"
	case ActionScrollSpeed:
		return "ScrollSpeed"
	case ActionScrollDirection:
		return "ScrollDirection"
	case ActionScrollMode:
		return "ScrollMode"
	case ActionScrollGap:
		return "ScrollGap"
	case ActionPower:
		return "Power"
	case ActionBlinkFrequency:
		return "BlinkFrequency"
	case ActionStopIndicator:
		return "StopIndicator"
	default:
		return fmt.Sprintf("Action(0x%02X)", byte(a))
	}
}

// Status is the single byte sent back for every command.
//
// Status implements error so a host can hand the code of a rejected command
// back to its caller unchanged.
type Status byte

const (
	// StatusNone is never sent on the wire. Dev.Poll returns it when no
	// command was pending.
	StatusNone                 Status = 0x00
	StatusInvalidAction        Status = 0xe0
	StatusInvalidIntermediate1 Status = 0xe1
	StatusInvalidBlockCount    Status = 0xe2
	StatusInvalidIntermediate2 Status = 0xe3
	StatusTimeout              Status = 0xe4
	StatusInvalidBitmap        Status = 0xe5
	StatusInvalidValue         Status = 0xe6
	StatusSuccess              Status = 0xff
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "no command"
	case StatusInvalidAction:
		return "invalid action byte"
	case StatusInvalidIntermediate1:
		return "invalid intermediate byte #1"
	case StatusInvalidBlockCount:
		return "invalid block count"
	case StatusInvalidIntermediate2:
		return "invalid intermediate byte #2"
	case StatusTimeout:
		return "timeout while receiving bitmap data"
	case StatusInvalidBitmap:
		return "invalid bitmap data"
	case StatusInvalidValue:
		return "invalid value for selected option"
	case StatusSuccess:
		return "success"
	default:
		return fmt.Sprintf("unknown status 0x%02X", byte(s))
	}
}

func (s Status) Error() string {
	return "ledmatrix: " + s.String()
}

var (
	// ErrNoData is returned by a Port's ReadByte when nothing is buffered.
	ErrNoData = errors.New("ledmatrix: no data buffered")
	// ErrBlockCount is returned when a bitmap holds no block or more blocks
	// than the frame buffer accepts.
	ErrBlockCount = errors.New("ledmatrix: invalid block count")
	// ErrBitmapLength is returned when raw bitmap data is not made of whole
	// blocks.
	ErrBitmapLength = errors.New("ledmatrix: bitmap length is not a multiple of 8")

	errTimeout = errors.New("ledmatrix: timed out waiting for a byte")
)
