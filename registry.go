package buttons

import (
	"errors"
	"io"
	"log"
)

const (
	// OptionsOffset is where the disabled-button records start in the store.
	OptionsOffset = 0x100
	// RecordSize is the size in bytes of one options record.
	RecordSize = 1
	// MaxRecords bounds how many records are read at startup.
	MaxRecords = NumButtons
	// ErasedRecord is the value of a never-written record.
	ErasedRecord = 0xFF
)

// Registry holds one enable flag per button, indexed by ButtonID.
type Registry [NumButtons]bool

// DefaultRegistry returns a registry with every button enabled.
func DefaultRegistry() Registry {
	var r Registry
	for i := range r {
		r[i] = true
	}
	return r
}

// Enabled reports whether id is enabled. Unknown IDs are never enabled.
func (r Registry) Enabled(id ButtonID) bool {
	return id.Valid() && r[id]
}

// Disabled lists the disabled buttons in index order.
func (r Registry) Disabled() []ButtonID {
	var ids []ButtonID
	for i, on := range r {
		if !on {
			ids = append(ids, ButtonID(i))
		}
	}
	return ids
}

// decodeRecord maps the first byte of a record to the button it disables.
// Values 16-255, including the erased 0xFF, mean "no entry".
func decodeRecord(rec [RecordSize]byte) (ButtonID, bool) {
	id := ButtonID(rec[0])
	return id, id.Valid()
}

// LoadRegistry builds a registry from the options records found in store
// starting at offset. It always starts from DefaultRegistry, so loading the
// same store twice gives the same result. A record that cannot be read is
// logged and skipped, leaving its button enabled. A nil store yields the
// default registry.
func LoadRegistry(store io.ReaderAt, offset int64) Registry {
	reg := DefaultRegistry()
	if store == nil {
		return reg
	}
	for i := 0; i < MaxRecords; i++ {
		var rec [RecordSize]byte
		n, err := store.ReadAt(rec[:], offset+int64(i*RecordSize))
		if n < RecordSize {
			if errors.Is(err, io.EOF) {
				log.Printf("options store ends before record %d, %d of %d records read", i, i, MaxRecords)
				break
			}
			log.Printf("skipping options record %d at 0x%x: %v", i, offset+int64(i*RecordSize), err)
			continue
		}
		// A full record with io.EOF is still a good record.
		if id, ok := decodeRecord(rec); ok {
			reg[id] = false
		}
	}
	return reg
}

// EncodeRecords returns a MaxRecords*RecordSize block that disables ids when
// written at OptionsOffset. Duplicates and invalid IDs are dropped; unused
// records are left erased.
func EncodeRecords(ids []ButtonID) []byte {
	buf := make([]byte, MaxRecords*RecordSize)
	for i := range buf {
		buf[i] = ErasedRecord
	}
	var seen Registry
	n := 0
	for _, id := range ids {
		if !id.Valid() || seen[id] {
			continue
		}
		seen[id] = true
		buf[n*RecordSize] = byte(id)
		n++
	}
	return buf
}
