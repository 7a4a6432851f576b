// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledmatrix

import (
	"image"
	"image/color"
	"image/draw"
)

// Block is one 8×8 cell: one byte per row, most significant bit leftmost.
type Block [Rows]byte

// frameBuffer holds the content shown on the panel.
//
// Its backing store is sized for the largest bitmap plus one panel width.
// Everything past the active blocks is kept zeroed, which the scroll modes
// use as blank space between repeats.
type frameBuffer struct {
	blocks []Block
	active int
	max    int
}

// newFrameBuffer returns a cleared buffer accepting up to maxBlocks blocks of
// content for a panel of panelBlocks blocks.
func newFrameBuffer(maxBlocks, panelBlocks int) *frameBuffer {
	return &frameBuffer{
		blocks: make([]Block, maxBlocks+panelBlocks),
		active: 1,
		max:    maxBlocks,
	}
}

// activeBlocks is the number of blocks of the last bitmap loaded.
func (f *frameBuffer) activeBlocks() int {
	return f.active
}

// maxBlocks is the largest block count load accepts.
func (f *frameBuffer) maxBlocks() int {
	return f.max
}

// capacity is the size of the backing store in blocks.
func (f *frameBuffer) capacity() int {
	return len(f.blocks)
}

// block returns block i of the backing store. i must be below capacity.
func (f *frameBuffer) block(i int) Block {
	return f.blocks[i]
}

// reset blanks the buffer and resets the active block count to 1.
func (f *frameBuffer) reset() {
	clear(f.blocks)
	f.active = 1
}

// load replaces the content with blocks. On error the buffer is unchanged.
func (f *frameBuffer) load(blocks []Block) error {
	if len(blocks) < 1 || len(blocks) > f.max {
		return ErrBlockCount
	}
	n := copy(f.blocks, blocks)
	clear(f.blocks[n:])
	f.active = n
	return nil
}

// loadBytes replaces the content with raw bitmap data as sent on the wire:
// 8 row bytes per block, blocks in order. On error the buffer is unchanged.
func (f *frameBuffer) loadBytes(data []byte) error {
	if len(data)%Rows != 0 {
		return ErrBitmapLength
	}
	n := len(data) / Rows
	if n < 1 || n > f.max {
		return ErrBlockCount
	}
	for i := range n {
		copy(f.blocks[i][:], data[i*Rows:])
	}
	clear(f.blocks[n:])
	f.active = n
	return nil
}

// bytes returns a copy of the active content in wire order.
func (f *frameBuffer) bytes() []byte {
	out := make([]byte, 0, f.active*Rows)
	for _, b := range f.blocks[:f.active] {
		out = append(out, b[:]...)
	}
	return out
}

// image returns a copy of the active content.
func (f *frameBuffer) image() *Image {
	img := NewImage(f.active)
	copy(img.Blocks, f.blocks)
	return img
}

// Image is a monochrome raster 8 pixels tall made of blocks.
//
// It implements draw.Image. When drawing into it, any color that is not
// black turns the pixel on.
type Image struct {
	Blocks []Block
}

// NewImage returns a blank image of n blocks.
func NewImage(n int) *Image {
	return &Image{Blocks: make([]Block, n)}
}

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, len(i.Blocks)*8, Rows)
}

// At implements image.Image.
func (i *Image) At(x, y int) color.Color {
	if i.BitAt(x, y) {
		return color.White
	}
	return color.Black
}

// BitAt reports whether the pixel at x, y is on.
func (i *Image) BitAt(x, y int) bool {
	if !(image.Point{x, y}.In(i.Bounds())) {
		return false
	}
	return i.Blocks[x/8][y]&(0x80>>uint(x%8)) != 0
}

// SetBit turns the pixel at x, y on or off.
func (i *Image) SetBit(x, y int, on bool) {
	if !(image.Point{x, y}.In(i.Bounds())) {
		return
	}
	mask := byte(0x80 >> uint(x%8))
	if on {
		i.Blocks[x/8][y] |= mask
	} else {
		i.Blocks[x/8][y] &^= mask
	}
}

// Set implements draw.Image.
func (i *Image) Set(x, y int, c color.Color) {
	r, g, b, _ := c.RGBA()
	i.SetBit(x, y, r|g|b != 0)
}

var _ draw.Image = &Image{}
