package file

import (
	util "github.com/bietkhonhungvandi212/pagebuf/internal/utils"
)

// Filer is the slice of the page store the buffer pool drives.
type Filer interface {
	ReadBlock(pageNum util.PageNumber, out []byte) error
	WriteBlock(pageNum util.PageNumber, data []byte) error
	EnsureCapacity(numPages int) error
	Close() error
}

// Opener opens the page file at path for one buffer pool operation.
type Opener func(path string) (Filer, error)

// OpenFiler is the default Opener backed by Open.
func OpenFiler(path string) (Filer, error) {
	h, err := Open(path)
	if err != nil {
		return nil, err
	}
	return h, nil
}
