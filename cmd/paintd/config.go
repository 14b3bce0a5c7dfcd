package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/toml"
)

type config struct {
	Listen    string `toml:"listen"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	History   int    `toml:"history"`
	State     string `toml:"state"`    // SVG file restored at start and written on exit
	Palettes  string `toml:"palettes"` // packed palette file sent to clients
	Advertise bool   `toml:"advertise"`
	// Origins lists extra hosts allowed to open websockets, besides the
	// server's own.
	Origins      []string `toml:"origins"`
	RemoteImages bool     `toml:"remote_images"`
	LogLevel     string   `toml:"log_level"`

	Browse bool `toml:"-"`
}

func defaultConfig() config {
	return config{
		Listen:   ":8035",
		Width:    800,
		Height:   600,
		History:  25,
		LogLevel: "info",
	}
}

// readConfig decodes the TOML file at path over the defaults. An empty path
// returns the defaults.
func readConfig(path string) (config, error) {
	c := defaultConfig()
	if path == "" {
		return c, nil
	}
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return c, fmt.Errorf("read config %s: unknown keys %v", path, keys)
	}
	return c, nil
}

// loadConfig reads the file named by -config and applies the flags given
// explicitly in args on top of it.
func loadConfig(args []string) (config, error) {
	fs := flag.NewFlagSet("paintd", flag.ContinueOnError)
	path := fs.String("config", "", "TOML configuration `file`")
	f := defaultConfig()
	fs.StringVar(&f.Listen, "listen", f.Listen, "HTTP listen `address`")
	fs.IntVar(&f.Width, "width", f.Width, "document width for a new document")
	fs.IntVar(&f.Height, "height", f.Height, "document height for a new document")
	fs.IntVar(&f.History, "history", f.History, "undo steps kept")
	fs.StringVar(&f.State, "state", f.State, "SVG `file` to restore from and save to")
	fs.StringVar(&f.Palettes, "palettes", f.Palettes, "palette `file`")
	fs.BoolVar(&f.Advertise, "advertise", f.Advertise, "announce the server through mDNS")
	fs.BoolVar(&f.RemoteImages, "remote-images", f.RemoteImages, "allow layers to reference http(s) images")
	fs.StringVar(&f.LogLevel, "log-level", f.LogLevel, "debug, info, warn or error")
	fs.BoolVar(&f.Browse, "browse", false, "list servers on the local network and exit")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	c, err := readConfig(*path)
	if err != nil {
		return config{}, err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "listen":
			c.Listen = f.Listen
		case "width":
			c.Width = f.Width
		case "height":
			c.Height = f.Height
		case "history":
			c.History = f.History
		case "state":
			c.State = f.State
		case "palettes":
			c.Palettes = f.Palettes
		case "advertise":
			c.Advertise = f.Advertise
		case "remote-images":
			c.RemoteImages = f.RemoteImages
		case "log-level":
			c.LogLevel = f.LogLevel
		case "browse":
			c.Browse = f.Browse
		}
	})
	return c, c.validate()
}

func (c config) validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("document size %dx%d", c.Width, c.Height))
	}
	if c.History < 1 {
		errs = append(errs, fmt.Errorf("history %d is below 1", c.History))
	}
	if _, err := c.level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}
