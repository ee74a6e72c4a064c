package buttons

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

// FileStore is an options store backed by an EEPROM image file, such as the
// sysfs eeprom attribute of an at24 device. The file is opened on every read
// so a replaced image is picked up by Controller.Reload. A missing file reads
// as an empty store.
type FileStore string

// ReadAt implements io.ReaderAt.
func (s FileStore) ReadAt(p []byte, off int64) (int, error) {
	f, err := os.Open(string(s))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, io.EOF
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return f.ReadAt(p, off)
}

// WriteAt implements io.WriterAt, creating the image if needed. Gaps before
// off in a new or short image are filled with erased bytes.
func (s FileStore) WriteAt(p []byte, off int64) (int, error) {
	f, err := os.OpenFile(string(s), os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return 0, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return 0, err
	}
	if gap := off - fi.Size(); gap > 0 {
		fill := make([]byte, gap)
		for i := range fill {
			fill[i] = ErasedRecord
		}
		if _, err := f.WriteAt(fill, fi.Size()); err != nil {
			f.Close()
			return 0, err
		}
	}
	n, err := f.WriteAt(p, off)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func (s FileStore) String() string {
	return string(s)
}
