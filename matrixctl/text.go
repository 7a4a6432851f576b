// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package matrixctl

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"os"
	"regexp"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/GermanBionicSystems/panels/ledmatrix"
)

// DefaultFontSize fits capitals in the 8 rows of the panel.
const DefaultFontSize = 8

// LoadFont returns a face of the TrueType font at path.
func LoadFont(path string, size float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseFont(raw, size)
}

// DefaultFace returns Go Mono at size points.
func DefaultFace(size float64) font.Face {
	f, err := parseFont(gomono.TTF, size)
	if err != nil {
		// gomono.TTF is known good.
		panic(err)
	}
	return f
}

func parseFont(raw []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(raw)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull}), nil
}

// RenderText draws text in white on black, 8 pixels high and exactly as wide
// as the text advance. The glyphs are thresholded so that each pixel is
// either fully on or off.
func RenderText(text string, face font.Face) *image.Gray {
	w := font.MeasureString(face, text).Ceil()
	if w == 0 {
		return image.NewGray(image.Rect(0, 0, 0, ledmatrix.Rows))
	}
	dc := gg.NewContext(w, ledmatrix.Rows)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(face)
	m := face.Metrics()
	baseline := (ledmatrix.Rows + m.Ascent.Round() - m.Descent.Round()) / 2
	dc.DrawString(text, 0, float64(baseline))

	src := dc.Image()
	out := image.NewGray(src.Bounds())
	for y := range ledmatrix.Rows {
		for x := range w {
			if color.GrayModel.Convert(src.At(x, y)).(color.Gray).Y >= 0x80 {
				out.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return out
}

var imgTag = regexp.MustCompile(`@img:<(.+?)>`)

// ComposeText renders text like RenderText, except that every @img:<path>
// tag is replaced by the image stored at path.
func ComposeText(text string, face font.Face) (image.Image, error) {
	var parts []image.Image
	last := 0
	for _, m := range imgTag.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			parts = append(parts, RenderText(text[last:m[0]], face))
		}
		img, err := LoadImage(text[m[2]:m[3]])
		if err != nil {
			return nil, err
		}
		parts = append(parts, img)
		last = m[1]
	}
	if last < len(text) {
		parts = append(parts, RenderText(text[last:], face))
	}
	w := 0
	for _, p := range parts {
		w += p.Bounds().Dx()
	}
	if w == 0 {
		return nil, errors.New("matrixctl: nothing to draw")
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, ledmatrix.Rows))
	x := 0
	for _, p := range parts {
		b := p.Bounds()
		draw.Draw(out, image.Rect(x, 0, x+b.Dx(), ledmatrix.Rows), p, b.Min, draw.Src)
		x += b.Dx()
	}
	return out, nil
}
