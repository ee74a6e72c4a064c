package buttons

import (
	"errors"
	"io"
	"log"
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"
)

// Controller answers "is this button pressed" for the sixteen buttons.
// Queries are safe for concurrent use, including concurrently with Reload.
type Controller struct {
	sampler Sampler                  // Reads raw line levels
	pins    PinMap                   // Button to line wiring
	store   io.ReaderAt              // Options records, may be nil
	offset  int64                    // Offset of the first options record
	reg     atomic.Pointer[Registry] // Replaced whole by Reload
}

// Config holds configuration for creating a new Controller.
type Config struct {
	Sampler Sampler     // Line sampler (required)
	Store   io.ReaderAt // Options store; nil leaves every button enabled
	Offset  int64       // Offset of the options records, usually OptionsOffset
	Pins    *PinMap     // Wiring (default DefaultPinMap)
}

// New creates a Controller and loads its registry from cfg.Store.
func New(cfg Config) (*Controller, error) {
	if cfg.Sampler == nil {
		return nil, errors.New("sampler must be provided")
	}
	if cfg.Offset < 0 {
		return nil, errors.New("options offset must not be negative")
	}
	pins := DefaultPinMap
	if cfg.Pins != nil {
		pins = *cfg.Pins
	}

	c := &Controller{
		sampler: cfg.Sampler,
		pins:    pins,
		store:   cfg.Store,
		offset:  cfg.Offset,
	}
	c.Reload()
	return c, nil
}

// Pressed reports whether id is enabled and its line is pulled low.
func (c *Controller) Pressed(id ButtonID) bool {
	if !id.Valid() {
		return false
	}
	return c.pressedIn(c.reg.Load(), id)
}

// pressedIn answers Pressed against one registry snapshot.
func (c *Controller) pressedIn(reg *Registry, id ButtonID) bool {
	return reg[id] && c.sampler.Level(c.pins[id]) == gpio.Low
}

// States samples every button once, indexed by ButtonID.
func (c *Controller) States() [NumButtons]bool {
	var s [NumButtons]bool
	reg := c.reg.Load()
	for i := range s {
		s[i] = c.pressedIn(reg, ButtonID(i))
	}
	return s
}

// Registry returns a copy of the current enable flags.
func (c *Controller) Registry() Registry {
	return *c.reg.Load()
}

// Pins returns the wiring used by c.
func (c *Controller) Pins() PinMap {
	return c.pins
}

// Reload rebuilds the registry from the store and publishes it. The new
// registry replaces the old one whole, so a query sees either.
func (c *Controller) Reload() Registry {
	reg := LoadRegistry(c.store, c.offset)
	c.reg.Store(&reg)
	if off := reg.Disabled(); len(off) > 0 {
		log.Printf("disabled buttons: %v", off)
	}
	return reg
}

// Close releases the sampler and store if they hold resources.
func (c *Controller) Close() error {
	var first error
	if cl, ok := c.sampler.(io.Closer); ok {
		first = cl.Close()
	}
	if cl, ok := c.store.(io.Closer); ok {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
