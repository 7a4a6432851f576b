// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// matrixctl sends a picture, a text or options to a LED panel controller.
//
// Only the options given on the command line are sent, after the content.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"

	"github.com/GermanBionicSystems/panels/internal/link"
	"github.com/GermanBionicSystems/panels/matrixctl"
)

func mainImpl() error {
	var (
		port     = flag.String("p", "tcp://localhost:5040", "tty path or tcp://host:port of the controller")
		baud     = flag.Int("b", link.DefaultBaud, "tty baud rate")
		blocks   = flag.Int("blocks", matrixctl.DefaultOpts.PanelBlocks, "number of 8x8 blocks of the panel")
		imgPath  = flag.String("i", "", "image to display")
		text     = flag.String("t", "", "text to display; @img:<path> inlines an image")
		fontPath = flag.String("f", "", "TrueType font, defaults to Go Mono")
		size     = flag.Float64("s", matrixctl.DefaultFontSize, "font size in points")
		align    = flag.String("a", "none", "alignment: none | left | center | right")
		verbose  = flag.Bool("v", false, "verbose logging")
	)
	var opts options
	opts.register(flag.CommandLine)
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if *imgPath != "" && *text != "" {
		return errors.New("-i and -t are mutually exclusive")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	a, err := matrixctl.ParseAlign(*align)
	if err != nil {
		return err
	}

	steps, err := opts.steps(flag.CommandLine)
	if err != nil {
		return err
	}

	var face font.Face
	if *text != "" {
		if *fontPath != "" {
			if face, err = matrixctl.LoadFont(*fontPath, *size); err != nil {
				return err
			}
		} else {
			face = matrixctl.DefaultFace(*size)
		}
	}

	rw, err := link.Dial(*port, *baud)
	if err != nil {
		return err
	}
	defer rw.Close()
	c, err := matrixctl.New(rw, &matrixctl.Opts{
		PanelBlocks:  *blocks,
		MaxTries:     matrixctl.DefaultOpts.MaxTries,
		RetryDelay:   matrixctl.DefaultOpts.RetryDelay,
		ReplyTimeout: matrixctl.DefaultOpts.ReplyTimeout,
		Logger:       &log.Logger,
	})
	if err != nil {
		return err
	}

	switch {
	case *imgPath != "":
		img, err := matrixctl.LoadImage(*imgPath)
		if err != nil {
			return err
		}
		if err := c.SendImage(img, a); err != nil {
			return fmt.Errorf("sending %s: %w", *imgPath, err)
		}
	case *text != "":
		if err := c.SendText(*text, face, a); err != nil {
			return fmt.Errorf("sending text: %w", err)
		}
	}
	for _, s := range steps {
		if err := s.send(c); err != nil {
			return fmt.Errorf("-%s: %w", s.name, err)
		}
	}
	log.Debug().Stringer("controller", c).Int("options", len(steps)).Msg("done")
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "matrixctl: %s.\n", err)
		os.Exit(1)
	}
}
