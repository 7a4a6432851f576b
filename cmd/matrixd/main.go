// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// matrixd runs a LED panel controller.
//
// Commands arrive on a serial tty or on a TCP port. The panel is either
// wired to GPIO lines of the host or emulated at the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/panels/internal/link"
	"github.com/GermanBionicSystems/panels/ledmatrix"
	"github.com/GermanBionicSystems/panels/nxp74hc595"
	"github.com/GermanBionicSystems/panels/termpanel"
)

// panel is what a driver hands over to ledmatrix.New.
type panel struct {
	sh    ledmatrix.Shifter
	pins  *ledmatrix.Pins
	close func() error
}

func termDriver(cfg *Config) (*panel, error) {
	d, err := termpanel.New(&termpanel.Opts{Blocks: cfg.PanelBlocks, Interval: cfg.Refresh})
	if err != nil {
		return nil, err
	}
	return &panel{sh: d, pins: d.Pins(), close: d.Halt}, nil
}

func gpioDriver(cfg *Config) (*panel, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	return newGPIOPanel(cfg, gpioreg.ByName, spireg.Open)
}

// closers release what a driver acquired, last first.
type closers []func() error

func (c closers) close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		errs = append(errs, c[i]())
	}
	return errors.Join(errs...)
}

// newGPIOPanel resolves every line name before touching the hardware, and
// releases what it set up when a later step fails.
func newGPIOPanel(cfg *Config, byName func(string) gpio.PinIO, openSPI func(string) (spi.PortCloser, error)) (p *panel, err error) {
	g := &cfg.GPIO
	var missing []error
	line := func(name string) gpio.PinOut {
		if name == "" {
			return nil
		}
		l := byName(name)
		if l == nil {
			missing = append(missing, fmt.Errorf("no GPIO line %q", name))
			return nil
		}
		return l
	}
	data, clock, latch := line(g.Data), line(g.Clock), line(g.Latch)
	if g.Data == "" || g.Clock == "" || g.Latch == "" {
		missing = append(missing, errors.New("data, clock and latch lines are required"))
	}
	pins := &ledmatrix.Pins{OutputEnable: line(g.OutputEnable), StopIndicator: line(g.StopIndicator)}
	if g.RowSPI == "" {
		for _, name := range g.Rows {
			pins.Rows = append(pins.Rows, line(name))
		}
	}
	if err := errors.Join(missing...); err != nil {
		return nil, err
	}

	var cl closers
	defer func() {
		if err != nil {
			if err2 := cl.close(); err2 != nil {
				log.Warn().Err(err2).Msg("releasing gpio panel")
			}
		}
	}()
	chain, err := nxp74hc595.NewChain(data, clock, latch, cfg.PanelBlocks)
	if err != nil {
		return nil, err
	}
	cl = append(cl, chain.Halt)
	if g.RowSPI != "" {
		port, err := openSPI(g.RowSPI)
		if err != nil {
			return nil, err
		}
		cl = append(cl, port.Close)
		c, err := port.Connect(physic.Frequency(g.RowSPIHz)*physic.Hertz, spi.Mode0, 8)
		if err != nil {
			return nil, err
		}
		rows, err := nxp74hc595.New(c, nil)
		if err != nil {
			return nil, err
		}
		pins.Rows = rows.Pins[:ledmatrix.Rows]
	}
	log.Info().Stringer("columns", chain).Int("rows", len(pins.Rows)).Msg("gpio panel")
	return &panel{sh: chain, pins: pins, close: cl.close}, nil
}

func mainImpl() error {
	cfg := defaultConfig()
	var (
		configPath  = flag.String("config", "matrixd.yaml", "path to the YAML configuration")
		driver      = flag.String("driver", cfg.Driver, "panel driver: term | gpio")
		linkAddr    = flag.String("link", cfg.Link, "tty path or tcp://host:port to receive commands on")
		baud        = flag.Int("baud", cfg.Baud, "tty baud rate")
		panelBlocks = flag.Int("blocks", cfg.PanelBlocks, "number of 8x8 blocks of the panel")
		maxBlocks   = flag.Int("max-blocks", cfg.MaxBlocks, "largest bitmap accepted, in blocks")
		rowDwell    = flag.Duration("row-dwell", cfg.RowDwell, "time each row stays lit")
		refresh     = flag.Duration("refresh", cfg.Refresh, "minimum time between two terminal redraws")
		logLevel    = flag.String("log-level", cfg.LogLevel, "log level")
	)
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	if err := cfg.load(*configPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) || isSet("config") {
			return fmt.Errorf("%s: %w", *configPath, err)
		}
	}
	// Flags given explicitly win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "driver":
			cfg.Driver = *driver
		case "link":
			cfg.Link = *linkAddr
		case "baud":
			cfg.Baud = *baud
		case "blocks":
			cfg.PanelBlocks = *panelBlocks
		case "max-blocks":
			cfg.MaxBlocks = *maxBlocks
		case "row-dwell":
			cfg.RowDwell = *rowDwell
		case "refresh":
			cfg.Refresh = *refresh
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.validate(); err != nil {
		return err
	}

	// The terminal emulator owns stdout.
	var out io.Writer = os.Stdout
	if cfg.Driver == "term" {
		out = os.Stderr
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen})
	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(lvl)

	var p *panel
	var err error
	switch cfg.Driver {
	case "term":
		p, err = termDriver(&cfg)
	case "gpio":
		p, err = gpioDriver(&cfg)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := p.close(); err != nil {
			log.Warn().Err(err).Msg("closing panel")
		}
	}()

	l, err := link.Listen(cfg.Link, cfg.Baud, log.Logger)
	if err != nil {
		return err
	}
	defer l.Close()

	logger := log.Logger.With().Str("link", cfg.Link).Logger()
	dev, err := ledmatrix.New(ledmatrix.NewStreamPort(l, l), p.sh, p.pins, cfg.opts(&logger))
	if err != nil {
		return err
	}
	log.Info().Stringer("dev", dev).Str("link", cfg.Link).Str("driver", cfg.Driver).Msg("running")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = dev.Run(ctx)
	if err2 := dev.Halt(); err2 != nil {
		log.Warn().Err(err2).Msg("halting panel")
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func isSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "matrixd: %s.\n", err)
		os.Exit(1)
	}
}
