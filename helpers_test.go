package buttons

import (
	"errors"
	"io"
	"sync"

	"periph.io/x/conn/v3/gpio"
)

var errStore = errors.New("store read failed")

// memStore is an in-memory options image. Reads at offsets in fail return
// errStore.
type memStore struct {
	mu    sync.Mutex
	data  []byte
	fail  map[int64]bool
	reads int
}

// newImage returns a store whose records at OptionsOffset are recs, padded
// with erased records.
func newImage(recs ...byte) *memStore {
	data := make([]byte, OptionsOffset+MaxRecords*RecordSize)
	for i := range data {
		data[i] = ErasedRecord
	}
	copy(data[OptionsOffset:], recs)
	return &memStore{data: data}
}

func (m *memStore) ReadAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.fail[off] {
		return 0, errStore
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memStore) set(off int64, b byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[off] = b
}

// failingStore fails every read.
type failingStore struct{}

func (failingStore) ReadAt(p []byte, off int64) (int, error) {
	return 0, errStore
}

// levelSampler returns fixed levels; lines not in the map read High.
type levelSampler struct {
	mu     sync.Mutex
	levels map[PinIdentity]gpio.Level
}

func newLevelSampler() *levelSampler {
	return &levelSampler{levels: make(map[PinIdentity]gpio.Level)}
}

func (s *levelSampler) Level(p PinIdentity) gpio.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.levels[p]
	if !ok {
		return gpio.High
	}
	return l
}

// press pulls the line of each id low.
func (s *levelSampler) press(ids ...ButtonID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.levels[DefaultPinMap[id]] = gpio.Low
	}
}

func (s *levelSampler) pressAll() {
	s.press(AllButtons()...)
}
