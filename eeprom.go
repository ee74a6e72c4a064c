package buttons

import (
	"errors"
	"fmt"
	"io"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const (
	// DefaultEEPROMAddr is the usual address of a 24Cxx EEPROM.
	DefaultEEPROMAddr = 0x50
	// DefaultEEPROMSize is the capacity of a 24C32.
	DefaultEEPROMSize = 4096
	// DefaultPageSize is the write page of a 24C32.
	DefaultPageSize = 32
	// writeCycle is the self-timed write time after each page.
	writeCycle = 5 * time.Millisecond
)

// EEPROM is an options store on a 24Cxx-style I2C EEPROM with 16-bit word
// addressing. It implements io.ReaderAt and io.WriterAt.
type EEPROM struct {
	dev      i2c.Dev
	closer   io.Closer
	size     int64
	pageSize int
}

// NewEEPROM wraps the device at addr on bus.
func NewEEPROM(bus i2c.Bus, addr uint16) *EEPROM {
	return &EEPROM{
		dev:      i2c.Dev{Bus: bus, Addr: addr},
		size:     DefaultEEPROMSize,
		pageSize: DefaultPageSize,
	}
}

// OpenEEPROM initializes the periph host and opens the named I2C bus; an
// empty name picks the first bus. Close releases the bus.
func OpenEEPROM(busName string, addr uint16) (*EEPROM, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %q: %w", busName, err)
	}
	e := NewEEPROM(bus, addr)
	e.closer = bus
	return e, nil
}

// ReadAt reads len(p) bytes starting at off with one sequential read.
func (e *EEPROM) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("eeprom: negative offset")
	}
	if off >= e.size {
		return 0, io.EOF
	}
	var eof error
	if rem := e.size - off; int64(len(p)) > rem {
		p = p[:rem]
		eof = io.EOF
	}
	if err := e.dev.Tx(wordAddr(off), p); err != nil {
		return 0, fmt.Errorf("eeprom: read 0x%x: %w", off, err)
	}
	return len(p), eof
}

// WriteAt writes p at off, split so no write crosses a page boundary.
func (e *EEPROM) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("eeprom: negative offset")
	}
	if off+int64(len(p)) > e.size {
		return 0, fmt.Errorf("eeprom: write of %d bytes at 0x%x exceeds %d byte device", len(p), off, e.size)
	}
	n := 0
	for n < len(p) {
		at := off + int64(n)
		chunk := e.pageSize - int(at%int64(e.pageSize))
		if chunk > len(p)-n {
			chunk = len(p) - n
		}
		buf := append(wordAddr(at), p[n:n+chunk]...)
		if err := e.dev.Tx(buf, nil); err != nil {
			return n, fmt.Errorf("eeprom: write 0x%x: %w", at, err)
		}
		n += chunk
		time.Sleep(writeCycle)
	}
	return n, nil
}

// Close releases the bus if it was opened by OpenEEPROM.
func (e *EEPROM) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

func (e *EEPROM) String() string {
	return fmt.Sprintf("eeprom(%s)", e.dev.String())
}

func wordAddr(off int64) []byte {
	return []byte{byte(off >> 8), byte(off)}
}
