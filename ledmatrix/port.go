// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledmatrix

import (
	"io"
	"sync"
)

// Port is the serial link a Dev reads commands from and writes statuses to.
//
// None of its methods may block waiting for input: a Dev only calls ReadByte
// after Buffered reported data, and polls Buffered in a loop while waiting.
type Port interface {
	io.Writer
	// Buffered returns the number of bytes that can be read right away.
	Buffered() int
	// ReadByte returns the next buffered byte, or ErrNoData.
	ReadByte() (byte, error)
	// Err returns the error that ended the input, nil while more bytes may
	// still arrive. Bytes buffered before the failure stay readable.
	Err() error
}

// StreamPort adapts a blocking byte stream, like a tty or a TCP connection,
// into a Port.
//
// A goroutine reads the stream into an internal buffer. That buffer is the
// only state shared with the goroutine running the Dev.
type StreamPort struct {
	w io.Writer
	r io.Reader

	mu  sync.Mutex
	buf []byte
	err error
}

// NewStreamPort starts reading r. Writes go to w unbuffered.
func NewStreamPort(r io.Reader, w io.Writer) *StreamPort {
	p := &StreamPort{w: w, r: r}
	go p.pump()
	return p
}

func (p *StreamPort) pump() {
	b := make([]byte, 256)
	for {
		n, err := p.r.Read(b)
		p.mu.Lock()
		p.buf = append(p.buf, b[:n]...)
		if err != nil {
			p.err = err
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()
	}
}

// Buffered implements Port.
func (p *StreamPort) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buf)
}

// ReadByte implements Port.
func (p *StreamPort) ReadByte() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.buf) == 0 {
		return 0, ErrNoData
	}
	b := p.buf[0]
	p.buf = p.buf[1:]
	return b, nil
}

// Write implements Port.
func (p *StreamPort) Write(b []byte) (int, error) {
	return p.w.Write(b)
}

// Err implements Port. It is io.EOF when the stream was closed by the peer.
func (p *StreamPort) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// flush discards everything p currently holds.
func flush(p Port) {
	for p.Buffered() > 0 {
		if _, err := p.ReadByte(); err != nil {
			return
		}
	}
}

var _ Port = &StreamPort{}
