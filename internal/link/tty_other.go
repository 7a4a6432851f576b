// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package link

import (
	"os"
)

// OpenTTY opens the serial device at path. The line settings are left as
// they are; set them beforehand with stty.
func OpenTTY(path string, baud int) (*os.File, error) {
	return os.OpenFile(path, os.O_RDWR, 0)
}
