//go:build !linux

package buttons

import (
	"errors"

	"periph.io/x/conn/v3/gpio"
)

// CdevSampler is only available on Linux.
type CdevSampler struct{}

// NewCdevSampler always fails outside Linux.
func NewCdevSampler(pm PinMap) (*CdevSampler, error) {
	return nil, errors.New("gpio character device requires linux")
}

// Level reports every line as High.
func (s *CdevSampler) Level(p PinIdentity) gpio.Level { return gpio.High }

// Close does nothing.
func (s *CdevSampler) Close() error { return nil }
