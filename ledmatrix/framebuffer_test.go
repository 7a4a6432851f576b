// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledmatrix

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFrameBufferNew(t *testing.T) {
	fb := newFrameBuffer(10, 4)
	if got := fb.capacity(); got != 14 {
		t.Errorf("capacity() = %d, want 14", got)
	}
	if got := fb.activeBlocks(); got != 1 {
		t.Errorf("ActiveBlocks() = %d, want 1", got)
	}
	if got := fb.maxBlocks(); got != 10 {
		t.Errorf("MaxBlocks() = %d, want 10", got)
	}
	for i := range fb.capacity() {
		if b := fb.block(i); b != (Block{}) {
			t.Errorf("Block(%d) = %v, want blank", i, b)
		}
	}
}

func TestFrameBufferLoad(t *testing.T) {
	fb := newFrameBuffer(4, 2)
	full := []Block{{1}, {2}, {3}, {4}}
	if err := fb.load(full); err != nil {
		t.Fatal(err)
	}
	short := []Block{{0xaa, 0x55}}
	if err := fb.load(short); err != nil {
		t.Fatal(err)
	}
	if got := fb.activeBlocks(); got != 1 {
		t.Errorf("ActiveBlocks() = %d, want 1", got)
	}
	for i := 1; i < fb.capacity(); i++ {
		if b := fb.block(i); b != (Block{}) {
			t.Errorf("Block(%d) = %v, want blank after a shorter load", i, b)
		}
	}
	if diff := cmp.Diff(fb.bytes(), []byte{0xaa, 0x55, 0, 0, 0, 0, 0, 0}); diff != "" {
		t.Errorf("Bytes() difference (-got +want):\n%s", diff)
	}
}

func TestFrameBufferLoadRejected(t *testing.T) {
	for _, tc := range []struct {
		name    string
		load    func(fb *frameBuffer) error
		wantErr error
	}{
		{
			name:    "no blocks",
			load:    func(fb *frameBuffer) error { return fb.load(nil) },
			wantErr: ErrBlockCount,
		},
		{
			name:    "too many blocks",
			load:    func(fb *frameBuffer) error { return fb.load(make([]Block, 5)) },
			wantErr: ErrBlockCount,
		},
		{
			name:    "bytes not whole blocks",
			load:    func(fb *frameBuffer) error { return fb.loadBytes(make([]byte, 12)) },
			wantErr: ErrBitmapLength,
		},
		{
			name:    "empty bytes",
			load:    func(fb *frameBuffer) error { return fb.loadBytes(nil) },
			wantErr: ErrBlockCount,
		},
		{
			name:    "too many bytes",
			load:    func(fb *frameBuffer) error { return fb.loadBytes(make([]byte, 5*Rows)) },
			wantErr: ErrBlockCount,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fb := newFrameBuffer(4, 2)
			if err := fb.load([]Block{{9, 9}, {8, 8}}); err != nil {
				t.Fatal(err)
			}
			before := fb.bytes()
			if err := tc.load(fb); !errors.Is(err, tc.wantErr) {
				t.Errorf("got error %v, want %v", err, tc.wantErr)
			}
			if diff := cmp.Diff(fb.bytes(), before); diff != "" {
				t.Errorf("content changed (-got +want):\n%s", diff)
			}
			if got := fb.activeBlocks(); got != 2 {
				t.Errorf("ActiveBlocks() = %d, want 2", got)
			}
		})
	}
}

func TestFrameBufferClear(t *testing.T) {
	fb := newFrameBuffer(4, 2)
	_ = fb.load([]Block{{1}, {2}, {3}})
	fb.reset()
	if got := fb.activeBlocks(); got != 1 {
		t.Errorf("ActiveBlocks() = %d, want 1", got)
	}
	if diff := cmp.Diff(fb.bytes(), make([]byte, Rows)); diff != "" {
		t.Errorf("Bytes() difference (-got +want):\n%s", diff)
	}
}

func TestImage(t *testing.T) {
	img := NewImage(2)
	if got, want := img.Bounds(), image.Rect(0, 0, 16, 8); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
	img.SetBit(0, 0, true)
	img.SetBit(9, 7, true)
	img.SetBit(16, 0, true)
	img.SetBit(-1, 3, true)
	want := []Block{{0x80}, {7: 0x40}}
	if diff := cmp.Diff(img.Blocks, want); diff != "" {
		t.Errorf("Blocks difference (-got +want):\n%s", diff)
	}
	if !img.BitAt(9, 7) || img.BitAt(8, 7) || img.BitAt(100, 0) {
		t.Error("BitAt() returned unexpected values")
	}
	if got := img.At(0, 0); got != color.White {
		t.Errorf("At(0, 0) = %v, want white", got)
	}
	img.SetBit(0, 0, false)
	if img.BitAt(0, 0) {
		t.Error("SetBit(0, 0, false) did not clear the pixel")
	}
}

func TestImageDraw(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	src.Set(1, 2, color.NRGBA{R: 10, A: 255})
	src.Set(3, 2, color.NRGBA{A: 255})
	dst := NewImage(1)
	draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Src)
	want := []Block{{2: 0x40}}
	if diff := cmp.Diff(dst.Blocks, want); diff != "" {
		t.Errorf("Blocks difference (-got +want):\n%s", diff)
	}
}

func TestFrameBufferImage(t *testing.T) {
	fb := newFrameBuffer(4, 2)
	_ = fb.load([]Block{{0x01}, {0x80}})
	img := fb.image()
	if got := img.Bounds().Dx(); got != 16 {
		t.Errorf("width = %d, want 16", got)
	}
	if !img.BitAt(7, 0) || !img.BitAt(8, 0) || img.BitAt(0, 0) {
		t.Error("Image() does not match the loaded content")
	}
	img.SetBit(0, 0, true)
	if fb.block(0)[0] != 0x01 {
		t.Error("Image() is not a copy")
	}
}
