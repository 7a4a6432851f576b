// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package panels is a container for the LED dot-matrix panel controller and
// its tooling.
//
// ledmatrix is the controller itself. nxp74hc595 drives the shift registers
// of the panel and termpanel emulates a panel at the terminal. matrixctl is
// the host side client. cmd/matrixd and cmd/matrixctl wrap them as programs.
package panels
