// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledmatrix

import "fmt"

// BitmapFrame encodes a bitmap load command for blocks.
func BitmapFrame(blocks []Block) ([]byte, error) {
	if len(blocks) < 1 || len(blocks) > 255 {
		return nil, ErrBlockCount
	}
	f := make([]byte, 0, 5+len(blocks)*Rows)
	f = append(f, StartByte, byte(ActionBitmap), IntermediateByte, byte(len(blocks)), IntermediateByte)
	for _, b := range blocks {
		f = append(f, b[:]...)
	}
	return f, nil
}

// OptionFrame encodes a command setting option a to v.
func OptionFrame(a Action, v byte) ([]byte, error) {
	if !a.Valid() || a == ActionBitmap {
		return nil, fmt.Errorf("ledmatrix: %s is not an option", a)
	}
	return []byte{StartByte, byte(a), IntermediateByte, v}, nil
}
