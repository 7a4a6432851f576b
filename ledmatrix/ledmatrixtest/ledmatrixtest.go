// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ledmatrixtest is meant to be used to test code using ledmatrix.
//
// It provides a scripted serial Port and a Recorder producing pins and a
// Shifter that log every line change in order.
package ledmatrixtest

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/panels/ledmatrix"
)

// Port is a ledmatrix.Port whose input is fed by the test.
type Port struct {
	sync.Mutex
	// In is the input not consumed yet.
	In []byte
	// Trickle is moved to In one byte at a time, each time Buffered finds In
	// empty. It emulates a slow sender without relying on real time.
	Trickle []byte
	// Out is everything written by the code under test.
	Out []byte
	// Rec, if set, gets a "poll" event for every call to Buffered.
	Rec *Recorder
	// Closed is returned by Err. Set it to end the input.
	Closed error
}

// Feed appends b to the input.
func (p *Port) Feed(b ...byte) {
	p.Lock()
	defer p.Unlock()
	p.In = append(p.In, b...)
}

// Buffered implements ledmatrix.Port.
func (p *Port) Buffered() int {
	p.Lock()
	defer p.Unlock()
	if p.Rec != nil {
		p.Rec.add(Event{Line: "poll"})
	}
	if len(p.In) == 0 && len(p.Trickle) != 0 {
		p.In = append(p.In, p.Trickle[0])
		p.Trickle = p.Trickle[1:]
	}
	return len(p.In)
}

// ReadByte implements ledmatrix.Port.
func (p *Port) ReadByte() (byte, error) {
	p.Lock()
	defer p.Unlock()
	if len(p.In) == 0 {
		return 0, ledmatrix.ErrNoData
	}
	b := p.In[0]
	p.In = p.In[1:]
	return b, nil
}

// Err implements ledmatrix.Port.
func (p *Port) Err() error {
	p.Lock()
	defer p.Unlock()
	return p.Closed
}

// Write implements ledmatrix.Port.
func (p *Port) Write(b []byte) (int, error) {
	p.Lock()
	defer p.Unlock()
	p.Out = append(p.Out, b...)
	return len(b), nil
}

// Replies returns and clears Out.
func (p *Port) Replies() []byte {
	p.Lock()
	defer p.Unlock()
	out := p.Out
	p.Out = nil
	return out
}

// Event is one line change, or one Shift call when Data is set.
type Event struct {
	Line  string
	Level gpio.Level
	Data  []byte
}

func (e Event) String() string {
	if e.Data != nil {
		return fmt.Sprintf("%s%X", e.Line, e.Data)
	}
	if e.Line == "poll" || e.Line == "latch" || e.Line == "idle" {
		return e.Line
	}
	return fmt.Sprintf("%s=%s", e.Line, e.Level)
}

// Recorder collects events from the pins and the Shifter it created.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns the events recorded so far and clears them.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

// Pin returns a gpio.PinOut recording its changes under name.
func (r *Recorder) Pin(name string) *Pin {
	return &Pin{rec: r, name: name}
}

// RowPins returns 8 pins named row0 to row7.
func (r *Recorder) RowPins() []gpio.PinOut {
	out := make([]gpio.PinOut, ledmatrix.Rows)
	for i := range out {
		out[i] = r.Pin(fmt.Sprintf("row%d", i))
	}
	return out
}

// Shifter returns a ledmatrix.Shifter recording its calls.
func (r *Recorder) Shifter() *Shifter {
	return &Shifter{rec: r}
}

// Pin is a recording gpio.PinOut.
type Pin struct {
	rec  *Recorder
	name string

	mu sync.Mutex
	l  gpio.Level
}

// Level returns the last level written.
func (p *Pin) Level() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.l
}

func (p *Pin) String() string   { return p.name }
func (p *Pin) Halt() error      { return nil }
func (p *Pin) Name() string     { return p.name }
func (p *Pin) Number() int      { return -1 }
func (p *Pin) Function() string { return "Out" }

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	p.mu.Lock()
	p.l = l
	p.mu.Unlock()
	p.rec.add(Event{Line: p.name, Level: l})
	return nil
}

// PWM implements gpio.PinOut. It is not supported.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return fmt.Errorf("ledmatrixtest: %s: PWM not supported", p.name)
}

// Shifter is a recording ledmatrix.Shifter. It also keeps what a real
// cascade would hold.
type Shifter struct {
	rec *Recorder

	mu sync.Mutex
	// shifted accumulates Shift calls since the last Latch.
	shifted []byte
	// latched is what the register outputs present.
	latched []byte
}

// Shift implements ledmatrix.Shifter.
func (s *Shifter) Shift(p []byte) error {
	s.mu.Lock()
	s.shifted = append(s.shifted, p...)
	s.mu.Unlock()
	s.rec.add(Event{Line: "shift", Data: append([]byte{}, p...)})
	return nil
}

// Latch implements ledmatrix.Shifter.
func (s *Shifter) Latch() error {
	s.mu.Lock()
	s.latched, s.shifted = s.shifted, nil
	s.mu.Unlock()
	s.rec.add(Event{Line: "latch"})
	return nil
}

// Idle implements ledmatrix.Shifter.
func (s *Shifter) Idle() error {
	s.rec.add(Event{Line: "idle"})
	return nil
}

// Latched returns the bytes shifted before the last Latch, in shift order.
func (s *Shifter) Latched() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte{}, s.latched...)
}

var _ ledmatrix.Port = &Port{}
var _ ledmatrix.Shifter = &Shifter{}
var _ gpio.PinOut = &Pin{}
