//go:build linux

package buttons

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/gpio"
)

// CdevSampler samples lines through the Linux GPIO character device. Port N
// is gpiochipN and the pin is the line offset on that chip.
type CdevSampler struct {
	lines map[PinIdentity]*gpiocdev.Line
}

// NewCdevSampler requests every line of pm as a pulled-up input.
func NewCdevSampler(pm PinMap) (*CdevSampler, error) {
	s := &CdevSampler{lines: make(map[PinIdentity]*gpiocdev.Line, NumButtons)}
	for i, id := range pm {
		chip := fmt.Sprintf("gpiochip%d", id.Port)
		l, err := gpiocdev.RequestLine(chip, int(id.Pin),
			gpiocdev.AsInput,
			gpiocdev.WithPullUp,
			gpiocdev.WithConsumer("buttons"))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to request %s:%d for %s: %w", chip, id.Pin, ButtonID(i), err)
		}
		s.lines[id] = l
	}
	return s, nil
}

// Level returns the current level of p. A failed read reports gpio.High.
func (s *CdevSampler) Level(p PinIdentity) gpio.Level {
	l, ok := s.lines[p]
	if !ok {
		return gpio.High
	}
	v, err := l.Value()
	if err != nil {
		return gpio.High
	}
	return v != 0
}

// Close releases all requested lines.
func (s *CdevSampler) Close() error {
	var first error
	for id, l := range s.lines {
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
		delete(s.lines, id)
	}
	return first
}
