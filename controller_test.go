package buttons

import (
	"sync"
	"testing"

	"gotest.tools/v3/assert"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestNewController(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err, "sampler must be provided")

	_, err = New(Config{Sampler: newLevelSampler(), Offset: -1})
	assert.Error(t, err, "options offset must not be negative")

	c, err := New(Config{Sampler: newLevelSampler()})
	assert.NilError(t, err)
	assert.Equal(t, c.offset, int64(0))
	assert.Equal(t, c.Pins(), DefaultPinMap)
	assert.Equal(t, c.Registry(), DefaultRegistry())
}

func TestPressedMirrorsPinWhenEnabled(t *testing.T) {
	s := newLevelSampler()
	c, err := New(Config{Sampler: s, Store: newImage(), Offset: OptionsOffset})
	assert.NilError(t, err)

	for _, id := range AllButtons() {
		assert.Assert(t, !c.Pressed(id), "%s released", id)
	}
	s.press(LeftTrigger, AButton)
	for _, id := range AllButtons() {
		want := id == LeftTrigger || id == AButton
		assert.Equal(t, c.Pressed(id), want, "%s", id)
	}
}

func TestPressedDisabledButton(t *testing.T) {
	s := newLevelSampler()
	s.pressAll()
	c, err := New(Config{Sampler: s, Store: newImage(2, 9, 255, 255), Offset: OptionsOffset})
	assert.NilError(t, err)

	// Steam is held down but disabled.
	assert.Assert(t, !c.Pressed(SteamButton))
	assert.Assert(t, !c.Pressed(YButton))
	for _, id := range AllButtons() {
		if id == SteamButton || id == YButton {
			continue
		}
		assert.Assert(t, c.Pressed(id), "%s", id)
	}

	states := c.States()
	for i, pressed := range states {
		assert.Equal(t, pressed, c.Pressed(ButtonID(i)))
	}
}

func TestPressedUnreadableStore(t *testing.T) {
	s := newLevelSampler()
	s.press(SteamButton)
	c, err := New(Config{Sampler: s, Store: failingStore{}})
	assert.NilError(t, err)

	assert.Equal(t, c.Registry(), DefaultRegistry())
	assert.Assert(t, c.Pressed(SteamButton))
	assert.Assert(t, !c.Pressed(YButton))
}

func TestPressedInvalidID(t *testing.T) {
	s := newLevelSampler()
	s.pressAll()
	c, err := New(Config{Sampler: s})
	assert.NilError(t, err)
	assert.Assert(t, !c.Pressed(ButtonID(16)))
	assert.Assert(t, !c.Pressed(ButtonID(255)))
}

func TestCustomPinMap(t *testing.T) {
	pm := DefaultPinMap
	pm[SteamButton] = PinIdentity{2, 5}
	s := newLevelSampler()
	s.levels[PinIdentity{2, 5}] = gpio.Low

	c, err := New(Config{Sampler: s, Pins: &pm})
	assert.NilError(t, err)
	assert.Assert(t, c.Pressed(SteamButton))
}

func TestCustomOffset(t *testing.T) {
	store := &memStore{data: []byte{0xFF, 0xFF, byte(XButton), 0xFF}}
	c, err := New(Config{Sampler: newLevelSampler(), Store: store, Offset: 2})
	assert.NilError(t, err)
	assert.DeepEqual(t, c.Registry().Disabled(), []ButtonID{XButton})

	// Offset 0 is a real location, not a request for the default.
	store = &memStore{data: EncodeRecords([]ButtonID{SteamButton})}
	c, err = New(Config{Sampler: newLevelSampler(), Store: store, Offset: 0})
	assert.NilError(t, err)
	assert.DeepEqual(t, c.Registry().Disabled(), LoadRegistry(store, 0).Disabled())
	assert.DeepEqual(t, c.Registry().Disabled(), []ButtonID{SteamButton})
}

func TestReload(t *testing.T) {
	store := newImage(byte(LeftGrip))
	s := newLevelSampler()
	s.press(LeftGrip, RightGrip)
	c, err := New(Config{Sampler: s, Store: store, Offset: OptionsOffset})
	assert.NilError(t, err)
	assert.Assert(t, !c.Pressed(LeftGrip))
	assert.Assert(t, c.Pressed(RightGrip))

	store.set(OptionsOffset, byte(RightGrip))
	reg := c.Reload()
	assert.DeepEqual(t, reg.Disabled(), []ButtonID{RightGrip})
	assert.Assert(t, c.Pressed(LeftGrip))
	assert.Assert(t, !c.Pressed(RightGrip))

	// Reloading unchanged contents changes nothing.
	assert.Equal(t, c.Reload(), reg)
}

func TestReloadConcurrentWithQueries(t *testing.T) {
	s := newLevelSampler()
	s.pressAll()
	store := newImage(0)
	c, err := New(Config{Sampler: s, Store: store, Offset: OptionsOffset})
	assert.NilError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				c.States()
			}
		}
	}()
	for i := 0; i < 100; i++ {
		store.set(OptionsOffset, byte(i%NumButtons))
		c.Reload()
	}
	close(stop)
	wg.Wait()
}

func TestPinSampler(t *testing.T) {
	steam := &gpiotest.Pin{N: "GPIO51", Num: 51}
	a := &gpiotest.Pin{N: "GPIO17", Num: 17}
	s, err := NewPinSampler(map[PinIdentity]gpio.PinIO{
		DefaultPinMap[SteamButton]: steam,
		DefaultPinMap[AButton]:     a,
	})
	assert.NilError(t, err)

	// Inputs are configured pulled up, so they idle high.
	assert.Equal(t, steam.P, gpio.PullUp)
	assert.Equal(t, s.Level(DefaultPinMap[SteamButton]), gpio.High)
	// Unknown lines read as released.
	assert.Equal(t, s.Level(DefaultPinMap[XButton]), gpio.High)

	c, err := New(Config{Sampler: s, Store: newImage(byte(AButton)), Offset: OptionsOffset})
	assert.NilError(t, err)

	assert.NilError(t, steam.Out(gpio.Low))
	assert.NilError(t, a.Out(gpio.Low))
	assert.Assert(t, c.Pressed(SteamButton))
	assert.Assert(t, !c.Pressed(AButton))

	assert.NilError(t, steam.Out(gpio.High))
	assert.Assert(t, !c.Pressed(SteamButton))
}

func TestPinSamplerNilPin(t *testing.T) {
	_, err := NewPinSampler(map[PinIdentity]gpio.PinIO{{1, 19}: nil})
	assert.ErrorContains(t, err, "no gpio pin for PIO1_19")
}
