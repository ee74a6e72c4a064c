// Package buttons reads the sixteen digital buttons of a handheld controller
// from GPIO input lines and reports each one as pressed or not. Any subset of
// the buttons can be disabled by a short list of button indices kept in
// non-volatile storage; a disabled button always reads as not pressed.
package buttons

import (
	"fmt"
	"strconv"
	"strings"
)

// ButtonID identifies one physical button. The numeric value is the index
// stored in the options records and must never change.
type ButtonID uint8

const (
	AnalogJoystickClick ButtonID = iota
	LeftGrip
	SteamButton
	LeftTrackpadClick
	LeftTrigger
	LeftBumper
	FrontLeft
	FrontRight
	RightTrackpadClick
	YButton
	RightTrigger
	RightBumper
	RightGrip
	BButton
	XButton
	AButton
)

// NumButtons is the number of ButtonID values.
const NumButtons = 16

var buttonNames = [NumButtons]string{
	"AnalogJoystickClick",
	"LeftGrip",
	"SteamButton",
	"LeftTrackpadClick",
	"LeftTrigger",
	"LeftBumper",
	"FrontLeft",
	"FrontRight",
	"RightTrackpadClick",
	"YButton",
	"RightTrigger",
	"RightBumper",
	"RightGrip",
	"BButton",
	"XButton",
	"AButton",
}

// Short labels used as console column headings.
var buttonLabels = [NumButtons]string{
	"Joy", "LG", "Steam", "LTP", "LT", "LB", "LA", "RA",
	"RTP", "Y", "RT", "RB", "RG", "B", "X", "A",
}

// AllButtons returns every ButtonID in index order.
func AllButtons() []ButtonID {
	ids := make([]ButtonID, NumButtons)
	for i := range ids {
		ids[i] = ButtonID(i)
	}
	return ids
}

// Valid reports whether b is one of the sixteen known buttons.
func (b ButtonID) Valid() bool {
	return b < NumButtons
}

func (b ButtonID) String() string {
	if !b.Valid() {
		return fmt.Sprintf("ButtonID(%d)", uint8(b))
	}
	return buttonNames[b]
}

// Label returns the short column label for b, e.g. "LTP".
func (b ButtonID) Label() string {
	if !b.Valid() {
		return "?"
	}
	return buttonLabels[b]
}

// ParseButtonID resolves a long name ("SteamButton") or short label
// ("Steam"), ignoring case.
func ParseButtonID(s string) (ButtonID, error) {
	s = strings.TrimSpace(s)
	for i := 0; i < NumButtons; i++ {
		if strings.EqualFold(s, buttonNames[i]) || strings.EqualFold(s, buttonLabels[i]) {
			return ButtonID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

// PinIdentity is the (port, pin) pair of the input line wired to a button.
type PinIdentity struct {
	Port uint8
	Pin  uint8
}

// pinsPerPort is the width of one GPIO port bank.
const pinsPerPort = 32

// Line returns the linear line number port*32+pin, the numbering used by
// flat GPIO namespaces such as BCM or sysfs.
func (p PinIdentity) Line() int {
	return int(p.Port)*pinsPerPort + int(p.Pin)
}

// ParseLine parses a linear line number such as "17" or "GPIO17" into the
// PinIdentity whose Line it is.
func ParseLine(s string) (PinIdentity, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "GPIO"))
	if err != nil || n < 0 || n >= 256*pinsPerPort {
		return PinIdentity{}, fmt.Errorf("bad line %q", s)
	}
	return PinIdentity{Port: uint8(n / pinsPerPort), Pin: uint8(n % pinsPerPort)}, nil
}

func (p PinIdentity) String() string {
	return fmt.Sprintf("PIO%d_%d", p.Port, p.Pin)
}

// PinMap binds each ButtonID (by index) to its input line.
type PinMap [NumButtons]PinIdentity

// DefaultPinMap is the controller board's wiring.
var DefaultPinMap = PinMap{
	AnalogJoystickClick: {1, 0},
	LeftGrip:            {1, 25},
	SteamButton:         {1, 19},
	LeftTrackpadClick:   {1, 26},
	LeftTrigger:         {1, 27},
	LeftBumper:          {1, 4},
	FrontLeft:           {1, 20},
	FrontRight:          {1, 2},
	RightTrackpadClick:  {1, 21},
	YButton:             {1, 11},
	RightTrigger:        {1, 13},
	RightBumper:         {1, 14},
	RightGrip:           {1, 3},
	BButton:             {1, 22},
	XButton:             {1, 9},
	AButton:             {0, 17},
}
