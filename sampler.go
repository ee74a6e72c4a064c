package buttons

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Sampler reads the raw electrical level of one input line. It must be cheap
// and free of side effects, since it is called on every button query.
// A line the sampler cannot read reports gpio.High, which the query layer
// treats as released.
type Sampler interface {
	Level(p PinIdentity) gpio.Level
}

// PinSampler samples lines through periph.io gpio pins.
type PinSampler struct {
	pins map[PinIdentity]gpio.PinIO
}

// DefaultPinName is the periph.io pin name used for p when no override is
// configured, e.g. "GPIO51" for PIO1_19.
func DefaultPinName(p PinIdentity) string {
	return fmt.Sprintf("GPIO%d", p.Line())
}

// NewPinSampler configures each pin as a pulled-up input and returns a
// sampler over them. Buttons are wired to ground, so a pressed button reads
// gpio.Low.
func NewPinSampler(pins map[PinIdentity]gpio.PinIO) (*PinSampler, error) {
	s := &PinSampler{pins: make(map[PinIdentity]gpio.PinIO, len(pins))}
	for id, p := range pins {
		if p == nil {
			return nil, fmt.Errorf("no gpio pin for %s", id)
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("failed to configure pin %s for %s: %w", p, id, err)
		}
		s.pins[id] = p
	}
	return s, nil
}

// NewPeriphSampler initializes the periph host and resolves every line of pm
// by name. names may override the name of individual buttons; the rest use
// DefaultPinName.
func NewPeriphSampler(pm PinMap, names map[ButtonID]string) (*PinSampler, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	pins := make(map[PinIdentity]gpio.PinIO, NumButtons)
	for i, id := range pm {
		name, ok := names[ButtonID(i)]
		if !ok {
			name = DefaultPinName(id)
		}
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("invalid GPIO pin %s for %s", name, ButtonID(i))
		}
		log.Printf("%s on %s (%s)", ButtonID(i), id, p.Name())
		pins[id] = p
	}
	return NewPinSampler(pins)
}

// Level returns the current level of p.
func (s *PinSampler) Level(p PinIdentity) gpio.Level {
	pin, ok := s.pins[p]
	if !ok {
		return gpio.High
	}
	return pin.Read()
}
