package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	buttons "github.com/asjoyner/buttons-go"
)

// config is the file and flag configuration of the buttons command.
type config struct {
	Backend   string            `toml:"backend"`    // periph, rpio or cdev
	Store     string            `toml:"store"`      // image path for store_kind "file"
	StoreKind string            `toml:"store_kind"` // file, i2c or none
	I2CBus    string            `toml:"i2c_bus"`    // periph bus name, empty for the first bus
	I2CAddr   uint16            `toml:"i2c_addr"`
	Offset    int64             `toml:"offset"`
	Interval  duration          `toml:"interval"`
	LogFile   string            `toml:"log_file"`
	HTTP      string            `toml:"http"` // listen address, empty disables
	Watch     bool              `toml:"watch"`
	Plain     bool              `toml:"plain"` // no termbox, stop on Enter
	Pins      map[string]string `toml:"pins"`  // button name or label -> pin name or line
}

// duration decodes TOML strings such as "20ms".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func defaultConfig() *config {
	return &config{
		Backend:   "periph",
		Store:     "/sys/bus/i2c/devices/0-0050/eeprom",
		StoreKind: "file",
		I2CAddr:   buttons.DefaultEEPROMAddr,
		Offset:    buttons.OptionsOffset,
		Interval:  duration{buttons.DefaultInterval},
	}
}

// loadConfig reads a TOML file over the defaults. A missing file is not an
// error when the path was not given explicitly.
func loadConfig(path string, explicit bool) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return cfg, fmt.Errorf("unknown keys in %s: %v", path, undec)
	}
	return cfg, cfg.validate()
}

func (c *config) validate() error {
	switch c.Backend {
	case "periph", "rpio", "cdev":
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.StoreKind {
	case "file", "i2c", "none":
	default:
		return fmt.Errorf("unknown store_kind %q", c.StoreKind)
	}
	if c.Offset < 0 {
		return errors.New("offset must not be negative")
	}
	if c.Backend == "periph" {
		_, err := c.pinNames()
		return err
	}
	_, err := c.pinMap()
	return err
}

// pinNames resolves the [pins] table to ButtonIDs.
func (c *config) pinNames() (map[buttons.ButtonID]string, error) {
	names := make(map[buttons.ButtonID]string, len(c.Pins))
	for k, v := range c.Pins {
		id, err := buttons.ParseButtonID(k)
		if err != nil {
			return nil, fmt.Errorf("pins: %w", err)
		}
		names[id] = strings.TrimSpace(v)
	}
	return names, nil
}

// pinMap applies the [pins] table to the default wiring for the rpio and
// cdev backends, which address lines by number ("GPIO17" or "17").
func (c *config) pinMap() (buttons.PinMap, error) {
	pm := buttons.DefaultPinMap
	names, err := c.pinNames()
	if err != nil {
		return pm, err
	}
	for id, name := range names {
		p, err := buttons.ParseLine(name)
		if err != nil {
			return pm, fmt.Errorf("pins: %s: %w for backend %s", id, err, c.Backend)
		}
		pm[id] = p
	}
	return pm, nil
}

// openStore returns the options store described by c.
func (c *config) openStore() (io.ReaderAt, error) {
	switch c.StoreKind {
	case "file":
		return buttons.FileStore(c.Store), nil
	case "i2c":
		return buttons.OpenEEPROM(c.I2CBus, c.I2CAddr)
	default:
		return nil, nil
	}
}

// openSampler returns the pin sampler described by c and the wiring it was
// opened with.
func (c *config) openSampler() (buttons.Sampler, buttons.PinMap, error) {
	if c.Backend == "periph" {
		names, err := c.pinNames()
		if err != nil {
			return nil, buttons.DefaultPinMap, err
		}
		s, err := buttons.NewPeriphSampler(buttons.DefaultPinMap, names)
		if err != nil {
			return nil, buttons.DefaultPinMap, err
		}
		return s, buttons.DefaultPinMap, nil
	}

	pm, err := c.pinMap()
	if err != nil {
		return nil, pm, err
	}
	if c.Backend == "rpio" {
		s, err := buttons.NewRPIOSampler(pm)
		if err != nil {
			return nil, pm, err
		}
		return s, pm, nil
	}
	s, err := buttons.NewCdevSampler(pm)
	if err != nil {
		return nil, pm, err
	}
	return s, pm, nil
}
