package buttons

import (
	"bytes"
	"io"
	"testing"

	"gotest.tools/v3/assert"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestEEPROMLoadRegistry(t *testing.T) {
	recs := []byte{2, 9, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	var ops []i2ctest.IO
	for i, v := range recs {
		off := OptionsOffset + i
		ops = append(ops, i2ctest.IO{
			Addr: DefaultEEPROMAddr,
			W:    []byte{byte(off >> 8), byte(off)},
			R:    []byte{v},
		})
	}
	bus := &i2ctest.Playback{Ops: ops}

	reg := LoadRegistry(NewEEPROM(bus, DefaultEEPROMAddr), OptionsOffset)
	assert.DeepEqual(t, reg.Disabled(), []ButtonID{SteamButton, YButton})
	assert.NilError(t, bus.Close())
}

func TestEEPROMReadAt(t *testing.T) {
	bus := &i2ctest.Playback{Ops: []i2ctest.IO{
		{Addr: DefaultEEPROMAddr, W: []byte{0x01, 0x00}, R: []byte{1, 2, 3, 4}},
		{Addr: DefaultEEPROMAddr, W: []byte{0x0F, 0xFE}, R: []byte{5, 6}},
	}}
	e := NewEEPROM(bus, DefaultEEPROMAddr)

	buf := make([]byte, 4)
	n, err := e.ReadAt(buf, 0x100)
	assert.NilError(t, err)
	assert.Equal(t, n, 4)
	assert.DeepEqual(t, buf, []byte{1, 2, 3, 4})

	// Reads are clipped at the end of the device.
	n, err = e.ReadAt(buf, DefaultEEPROMSize-2)
	assert.Equal(t, err, io.EOF)
	assert.Equal(t, n, 2)
	assert.DeepEqual(t, buf[:2], []byte{5, 6})

	n, err = e.ReadAt(buf, DefaultEEPROMSize)
	assert.Equal(t, err, io.EOF)
	assert.Equal(t, n, 0)

	_, err = e.ReadAt(buf, -1)
	assert.ErrorContains(t, err, "negative offset")
	assert.NilError(t, bus.Close())
}

func TestEEPROMWriteAtPages(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 40)
	bus := &i2ctest.Playback{Ops: []i2ctest.IO{
		{Addr: DefaultEEPROMAddr, W: append([]byte{0x01, 0xF0}, data[:16]...)},
		{Addr: DefaultEEPROMAddr, W: append([]byte{0x02, 0x00}, data[16:]...)},
	}}
	e := NewEEPROM(bus, DefaultEEPROMAddr)

	n, err := e.WriteAt(data, 0x1F0)
	assert.NilError(t, err)
	assert.Equal(t, n, len(data))
	assert.NilError(t, bus.Close())

	_, err = e.WriteAt(data, DefaultEEPROMSize-1)
	assert.ErrorContains(t, err, "exceeds")
}

func TestEEPROMWriteRecords(t *testing.T) {
	recs := EncodeRecords([]ButtonID{LeftBumper})
	bus := &i2ctest.Playback{Ops: []i2ctest.IO{
		{Addr: 0x51, W: append([]byte{0x01, 0x00}, recs...)},
	}}
	e := NewEEPROM(bus, 0x51)

	_, err := e.WriteAt(recs, OptionsOffset)
	assert.NilError(t, err)
	assert.NilError(t, bus.Close())
	assert.NilError(t, e.Close())
}
