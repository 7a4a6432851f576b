// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"flag"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/GermanBionicSystems/panels/matrixctl"
)

func parse(t *testing.T, args ...string) (*options, *flag.FlagSet) {
	t.Helper()
	var o options
	fs := flag.NewFlagSet("matrixctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o.register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return &o, fs
}

// ackLink accepts every frame.
type ackLink struct {
	frames [][]byte
}

func (l *ackLink) Write(p []byte) (int, error) {
	l.frames = append(l.frames, append([]byte{}, p...))
	return len(p), nil
}

func (l *ackLink) Read(p []byte) (int, error) {
	return copy(p, []byte{0xff}), nil
}

func TestStepsOrder(t *testing.T) {
	o, fs := parse(t, "-si", "on", "-bf", "3", "-ps", "off", "-sg", "2", "-sm", "repeat-after-gap", "-sd", "right", "-ss", "9", "-dm", "scroll")
	steps, err := o.steps(fs)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, s := range steps {
		names = append(names, s.name)
	}
	if diff := cmp.Diff(names, optionOrder); diff != "" {
		t.Errorf("order difference (-got +want):\n%s", diff)
	}

	l := &ackLink{}
	c, err := matrixctl.New(l, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range steps {
		if err := s.send(c); err != nil {
			t.Fatal(err)
		}
	}
	want := [][]byte{
		{0xff, 0xa1, 0xcc, 1},
		{0xff, 0xa2, 0xcc, 9},
		{0xff, 0xa3, 0xcc, 1},
		{0xff, 0xa4, 0xcc, 2},
		{0xff, 0xa5, 0xcc, 2},
		{0xff, 0xa6, 0xcc, 0},
		{0xff, 0xa7, 0xcc, 3},
		{0xff, 0xa8, 0xcc, 1},
	}
	if diff := cmp.Diff(l.frames, want); diff != "" {
		t.Errorf("frames difference (-got +want):\n%s", diff)
	}
}

func TestStepsOnlySet(t *testing.T) {
	o, fs := parse(t, "-bf", "0")
	steps, err := o.steps(fs)
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 1 || steps[0].name != "bf" {
		t.Errorf("steps = %v", steps)
	}
	o, fs = parse(t)
	if steps, err := o.steps(fs); err != nil || len(steps) != 0 {
		t.Errorf("steps() = %v, %v", steps, err)
	}
}

func TestStepsInvalid(t *testing.T) {
	for _, args := range [][]string{
		{"-dm", "auto"},
		{"-ss", "0"},
		{"-ss", "256"},
		{"-sd", "up"},
		{"-sm", "repeat"},
		{"-sg", "-1"},
		{"-ps", "1"},
		{"-bf", "300"},
		{"-si", "yes"},
	} {
		o, fs := parse(t, args...)
		if _, err := o.steps(fs); err == nil {
			t.Errorf("steps(%q) succeeded", args)
		}
	}
	// Nothing is sent when one value is wrong.
	o, fs := parse(t, "-dm", "scroll", "-si", "yes")
	if steps, err := o.steps(fs); err == nil || steps != nil {
		t.Errorf("steps() = %v, %v", steps, err)
	}
}
