package buttons

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/gpio"
)

// RPIOSampler samples lines through go-rpio's memory-mapped GPIO access. Each
// PinIdentity maps to the BCM pin numbered by its Line.
type RPIOSampler struct {
	pins map[PinIdentity]rpio.Pin
}

// MaxRPIOLine is the highest BCM GPIO number go-rpio can address.
const MaxRPIOLine = 53

// NewRPIOSampler opens /dev/gpiomem and configures every line of pm as a
// pulled-up input. Every line must be a BCM GPIO number.
func NewRPIOSampler(pm PinMap) (*RPIOSampler, error) {
	for i, id := range pm {
		if id.Line() > MaxRPIOLine {
			return nil, fmt.Errorf("%s: line %d is not a BCM gpio (0-%d)", ButtonID(i), id.Line(), MaxRPIOLine)
		}
	}
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open rpio: %w", err)
	}
	s := &RPIOSampler{pins: make(map[PinIdentity]rpio.Pin, NumButtons)}
	for _, id := range pm {
		p := rpio.Pin(id.Line())
		p.Input()
		p.PullUp() // GND => button press
		s.pins[id] = p
	}
	return s, nil
}

// Level returns the current level of p.
func (s *RPIOSampler) Level(p PinIdentity) gpio.Level {
	pin, ok := s.pins[p]
	if !ok {
		return gpio.High
	}
	return pin.Read() == rpio.High
}

// Close unmaps the GPIO memory.
func (s *RPIOSampler) Close() error {
	return rpio.Close()
}
