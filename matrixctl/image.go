// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package matrixctl

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"

	// Formats accepted by LoadImage.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/GermanBionicSystems/panels/ledmatrix"
)

// Align places an image on the panel.
type Align int

const (
	// AlignNone sends the image as is, as many blocks as it is wide.
	AlignNone Align = iota
	// AlignLeft, AlignCenter and AlignRight place the image on a canvas as
	// wide as the panel. Whatever does not fit is cut.
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignNone:
		return "none"
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return fmt.Sprintf("Align(%d)", int(a))
	}
}

// ParseAlign returns the Align named s. The empty string is AlignNone.
func ParseAlign(s string) (Align, error) {
	switch s {
	case "", "none":
		return AlignNone, nil
	case "left":
		return AlignLeft, nil
	case "center":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}
	return AlignNone, fmt.Errorf("matrixctl: unknown alignment %q", s)
}

// PackImage converts the top 8 rows of img into blocks. Black, or fully
// transparent, pixels are off and any other color is on.
//
// With AlignNone the last block is padded with dark pixels. Otherwise the
// image is placed on a canvas of panelBlocks blocks.
func PackImage(img image.Image, align Align, panelBlocks int) ([]ledmatrix.Block, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New("matrixctl: empty image")
	}
	var dst *ledmatrix.Image
	x := 0
	switch align {
	case AlignNone:
		dst = ledmatrix.NewImage((b.Dx() + 7) / 8)
	case AlignLeft, AlignCenter, AlignRight:
		dst = ledmatrix.NewImage(panelBlocks)
		switch align {
		case AlignCenter:
			x = (dst.Bounds().Dx() - b.Dx()) / 2
		case AlignRight:
			x = dst.Bounds().Dx() - b.Dx()
		}
	default:
		return nil, fmt.Errorf("matrixctl: invalid alignment %s", align)
	}
	r := image.Rect(x, 0, x+b.Dx(), ledmatrix.Rows)
	draw.Draw(dst, r, img, b.Min, draw.Src)
	return dst.Blocks, nil
}

// LoadImage decodes a PNG, GIF or JPEG file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("matrixctl: %s: %w", path, err)
	}
	return img, nil
}
