// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package link opens the byte stream between a panel controller and its
// host: a serial tty, or a TCP connection standing in for one.
package link

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultBaud matches the controller firmware.
const DefaultBaud = 57600

const tcpPrefix = "tcp://"

// Dial opens the host side of a link. addr is either tcp://host:port or the
// path of a tty, configured in raw mode at baud.
func Dial(addr string, baud int) (io.ReadWriteCloser, error) {
	if a, ok := strings.CutPrefix(addr, tcpPrefix); ok {
		return net.Dial("tcp", a)
	}
	return openTTY(addr, baud)
}

// Listen opens the controller side of a link. With tcp://host:port it
// serves one connection at a time; otherwise addr is a tty, as for Dial.
func Listen(addr string, baud int, log zerolog.Logger) (io.ReadWriteCloser, error) {
	if a, ok := strings.CutPrefix(addr, tcpPrefix); ok {
		ln, err := net.Listen("tcp", a)
		if err != nil {
			return nil, err
		}
		return &Server{ln: ln, log: log}, nil
	}
	return openTTY(addr, baud)
}

// openTTY keeps a nil *os.File out of the returned interface.
func openTTY(path string, baud int) (io.ReadWriteCloser, error) {
	f, err := OpenTTY(path, baud)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Server is a TCP listener seen as a single stream.
//
// Read accepts a connection when none is open and returns its bytes. When
// the peer goes away the next connection takes over. Writes go to the
// current connection and are dropped when there is none.
type Server struct {
	ln  net.Listener
	log zerolog.Logger

	mu   sync.Mutex
	conn net.Conn
}

// Addr returns the listening address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Read implements io.Reader.
func (s *Server) Read(p []byte) (int, error) {
	for {
		c := s.current()
		if c == nil {
			nc, err := s.ln.Accept()
			if err != nil {
				return 0, err
			}
			s.log.Info().Stringer("peer", nc.RemoteAddr()).Msg("host connected")
			s.mu.Lock()
			s.conn = nc
			s.mu.Unlock()
			continue
		}
		n, err := c.Read(p)
		if err != nil {
			s.drop(c, err)
			if n == 0 {
				continue
			}
		}
		return n, nil
	}
}

// Write implements io.Writer.
func (s *Server) Write(p []byte) (int, error) {
	c := s.current()
	if c == nil {
		return len(p), nil
	}
	if _, err := c.Write(p); err != nil {
		s.drop(c, err)
	}
	return len(p), nil
}

// Close stops listening and closes the current connection.
func (s *Server) Close() error {
	err := s.ln.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		if err2 := s.conn.Close(); err == nil {
			err = err2
		}
		s.conn = nil
	}
	return err
}

func (s *Server) String() string {
	return fmt.Sprintf("%s%s", tcpPrefix, s.ln.Addr())
}

func (s *Server) current() net.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

func (s *Server) drop(c net.Conn, err error) {
	s.mu.Lock()
	if s.conn == c {
		s.conn = nil
	}
	s.mu.Unlock()
	_ = c.Close()
	ev := s.log.Info()
	if !errors.Is(err, io.EOF) {
		ev = s.log.Warn().Err(err)
	}
	ev.Stringer("peer", c.RemoteAddr()).Msg("host disconnected")
}
