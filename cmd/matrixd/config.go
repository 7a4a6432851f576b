// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/panels/internal/link"
	"github.com/GermanBionicSystems/panels/ledmatrix"
)

// GPIO names the host lines wired to the panel.
type GPIO struct {
	Data          string   `yaml:"data"`
	Clock         string   `yaml:"clock"`
	Latch         string   `yaml:"latch"`
	OutputEnable  string   `yaml:"output_enable"`
	StopIndicator string   `yaml:"stop_indicator"`
	Rows          []string `yaml:"rows"`

	// RowSPI, when set, drives the rows through a 74HC595 on this SPI port
	// instead of Rows.
	RowSPI   string `yaml:"row_spi"`
	RowSPIHz int64  `yaml:"row_spi_hz"`
}

// Config is the content of matrixd.yaml.
type Config struct {
	PanelBlocks int           `yaml:"panel_blocks"`
	MaxBlocks   int           `yaml:"max_blocks"`
	ByteTimeout time.Duration `yaml:"byte_timeout"`
	IdleDelay   time.Duration `yaml:"idle_delay"`
	RowDwell    time.Duration `yaml:"row_dwell"`

	Link string `yaml:"link"`
	Baud int    `yaml:"baud"`

	// Driver is "term" or "gpio".
	Driver   string        `yaml:"driver"`
	Refresh  time.Duration `yaml:"refresh"`
	LogLevel string        `yaml:"log_level"`

	GPIO GPIO `yaml:"gpio"`
}

func defaultConfig() Config {
	return Config{
		PanelBlocks: ledmatrix.DefaultOpts.PanelBlocks,
		MaxBlocks:   ledmatrix.DefaultOpts.MaxBlocks,
		ByteTimeout: ledmatrix.DefaultOpts.ByteTimeout,
		IdleDelay:   ledmatrix.DefaultOpts.IdleDelay,
		RowDwell:    500 * time.Microsecond,
		Link:        "tcp://localhost:5040",
		Baud:        link.DefaultBaud,
		Driver:      "term",
		Refresh:     50 * time.Millisecond,
		LogLevel:    "info",
		GPIO: GPIO{
			Data:          "GPIO17",
			Clock:         "GPIO27",
			Latch:         "GPIO22",
			OutputEnable:  "GPIO23",
			StopIndicator: "GPIO24",
			Rows:          []string{"GPIO5", "GPIO6", "GPIO12", "GPIO13", "GPIO16", "GPIO19", "GPIO20", "GPIO21"},
			RowSPIHz:      1000000,
		},
	}
}

// load overlays the YAML file at path on c. Keys absent from the file keep
// their value.
func (c *Config) load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, c)
}

func (c *Config) validate() error {
	switch c.Driver {
	case "term", "gpio":
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if c.PanelBlocks <= 0 || c.MaxBlocks <= 0 || c.MaxBlocks > 255 {
		return fmt.Errorf("invalid geometry: %d panel blocks, max %d", c.PanelBlocks, c.MaxBlocks)
	}
	if c.Driver == "gpio" && c.GPIO.RowSPI == "" && len(c.GPIO.Rows) != ledmatrix.Rows {
		return fmt.Errorf("need %d row lines, got %d", ledmatrix.Rows, len(c.GPIO.Rows))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c *Config) opts(log *zerolog.Logger) *ledmatrix.Opts {
	return &ledmatrix.Opts{
		PanelBlocks: c.PanelBlocks,
		MaxBlocks:   c.MaxBlocks,
		ByteTimeout: c.ByteTimeout,
		IdleDelay:   c.IdleDelay,
		RowDwell:    c.RowDwell,
		Logger:      log,
	}
}
