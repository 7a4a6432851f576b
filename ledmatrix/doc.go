// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ledmatrix drives a multiplexed dot-matrix LED panel built from
// cascaded shift-register blocks, and accepts commands for it over a byte
// oriented serial link.
//
// A panel is a row of blocks, each block being a cell of 8×8 pixels fed by
// one column shift register. The eight rows are multiplexed: a Dev shifts the
// column bits of one row into the cascade, latches them, then switches on the
// drive transistor of that row before moving to the next one.
//
// The same loop polls the serial link once per row, so a command never waits
// longer than about one row period before it is looked at. There is no other
// goroutine touching the frame buffer or the configuration: a Dev is meant to
// be driven from a single goroutine, through Run or by calling Cycle
// repeatedly.
//
// # Wire protocol
//
// Every command starts with 0xFF, followed by an Action, the intermediate
// marker 0xCC and a payload. A bitmap load carries a block count, a second
// 0xCC and blockCount×8 row bytes; every other action carries a single value
// byte. The controller answers each command with exactly one Status byte.
//
//	FF A0 CC <n> CC <n×8 bytes>   load bitmap
//	FF A1..A8 CC <value>          set option
//
// Bitmap bytes must arrive within Opts.ByteTimeout of each other, otherwise
// the load is dropped as a whole and StatusTimeout is sent back. The frame
// buffer is never left partially written.
package ledmatrix
