package buttons

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
)

// DefaultInterval is the monitor's polling period (50 Hz).
const DefaultInterval = 20 * time.Millisecond

// Querier reports whether a button is pressed. *Controller is a Querier.
type Querier interface {
	Pressed(id ButtonID) bool
}

// RawSource reports line levels directly, ignoring the enable registry. It is
// meant for checking the wiring.
type RawSource struct {
	Sampler Sampler
	Pins    PinMap
}

// Pressed reports whether the line of id is pulled low.
func (r RawSource) Pressed(id ButtonID) bool {
	return id.Valid() && r.Sampler.Level(r.Pins[id]) == gpio.Low
}

// Columns is the console column order.
var Columns = []ButtonID{
	LeftBumper, LeftTrigger, LeftTrackpadClick, AnalogJoystickClick,
	LeftGrip, FrontLeft, SteamButton, XButton, YButton, AButton, BButton,
	FrontRight, RightGrip, RightTrackpadClick, RightTrigger, RightBumper,
}

const legend = `Legend:
	LB/RB = Left/Right Bumper
	LT/RT = Left/Right Trigger
	LTP/RTP = Left/Right Trackpad Click
	Joy = Joystick Click
	LG/RG = Left/Right Grip
	LA/RA = Left/Right Arrow
`

const timeHeading = "Time       "

// Header returns the legend and column headings printed before the rows.
func Header() string {
	var b strings.Builder
	b.WriteString(legend)
	b.WriteString("\n")
	b.WriteString(timeHeading)
	for i, id := range Columns {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(id.Label())
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", len(timeHeading)+len(Columns)-1+labelWidth()))
	b.WriteString("\n")
	return b.String()
}

func labelWidth() int {
	n := 0
	for _, id := range Columns {
		n += len(id.Label())
	}
	return n
}

// FormatRow renders one sample: the elapsed time in microseconds as a 32-bit
// hex tick count, then a 1 or 0 under each column heading.
func FormatRow(elapsed time.Duration, pressed func(ButtonID) bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "0x%08x ", uint32(elapsed.Microseconds()))
	for i, id := range Columns {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(strings.Repeat(" ", len(id.Label())-1))
		if pressed(id) {
			b.WriteString("1")
		} else {
			b.WriteString("0")
		}
	}
	return b.String()
}

// Monitor prints the state of every button at a fixed rate until stopped.
type Monitor struct {
	Source   Querier
	Out      io.Writer
	Clock    clockwork.Clock // If nil, the real clock is used
	Interval time.Duration   // Default DefaultInterval
}

// Run writes the header, then one row per interval, each ending in a
// carriage return so it overwrites the previous one. It returns nil once
// ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	clock := m.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	interval := m.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	if _, err := io.WriteString(m.Out, "Digital Button States (Press any key to exit):\n"+Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	start := clock.Now()
	for {
		row := FormatRow(clock.Since(start), m.Source.Pressed)
		if _, err := io.WriteString(m.Out, row+"\r"); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		select {
		case <-ctx.Done():
			io.WriteString(m.Out, "\n")
			return nil
		case <-clock.After(interval):
		}
	}
}
