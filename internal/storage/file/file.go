package file

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bietkhonhungvandi212/pagebuf/internal/storage/page"
	util "github.com/bietkhonhungvandi212/pagebuf/internal/utils"
)

/**
* This module reads and writes fixed size pages from / to one page file.
* Layout: a header region of one page holding the decimal page count,
* then totalNumPages pages, page n at offset (n+1) * PageSize.
**/
type Handle struct {
	path          string
	file          *os.File
	totalNumPages int
	curPagePos    util.PageNumber
}

/* CREATE FILE */
// Create writes a fresh page file at path holding one zero filled page.
// An existing file is truncated.
func Create(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return util.NewStorageError("create", path, util.NoPage, fmt.Errorf("%w: %w", util.ErrFileNotFound, err))
	}

	buf := make([]byte, page.HeaderSize+util.PageSize)
	copy(buf, page.SerializeHeader(1))
	if _, err := f.WriteAt(buf, 0); err != nil {
		f.Close()
		return util.NewStorageError("create", path, util.NoPage, fmt.Errorf("%w: %w", util.ErrWriteFailed, err))
	}

	if err := f.Close(); err != nil {
		return util.NewStorageError("create", path, util.NoPage, fmt.Errorf("%w: %w", util.ErrWriteFailed, err))
	}
	return nil
}

/* OPEN FILE */
// Open loads the header of an existing page file and positions the cursor on page 0.
func Open(path string) (*Handle, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, util.NewStorageError("open", path, util.NoPage, fmt.Errorf("%w: %w", util.ErrFileNotFound, err))
	}

	header := make([]byte, page.HeaderSize)
	n, err := f.ReadAt(header, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, util.NewStorageError("open", path, util.NoPage, fmt.Errorf("%w: %w", util.ErrReadFailed, err))
	}
	total, err := page.DeserializeHeader(header[:n])
	if err != nil {
		f.Close()
		return nil, util.NewStorageError("open", path, util.NoPage, err)
	}

	return &Handle{
		path:          path,
		file:          f,
		totalNumPages: total,
		curPagePos:    0,
	}, nil
}

/* DESTROY FILE */
func Destroy(path string) error {
	if err := os.Remove(path); err != nil {
		return util.NewStorageError("destroy", path, util.NoPage, fmt.Errorf("%w: %w", util.ErrFileNotFound, err))
	}
	return nil
}

/**
* CLOSE FUNCTION
**/
func (h *Handle) Close() error {
	if h == nil {
		return util.ErrFileHandleNotInit
	}
	if h.file == nil {
		return util.NewStorageError("close", h.path, util.NoPage, util.ErrFileNotFound)
	}

	var err error
	if e := h.file.Sync(); e != nil {
		err = errors.Join(err, fmt.Errorf("sync file: %w", e))
	}
	if e := h.file.Close(); e != nil {
		err = errors.Join(err, fmt.Errorf("close file: %w", e))
	}
	h.file = nil
	if err != nil {
		return util.NewStorageError("close", h.path, util.NoPage, fmt.Errorf("%w: %w", util.ErrFileNotFound, err))
	}
	return nil
}

// Path returns the file the handle was opened on.
func (h *Handle) Path() string { return h.path }

// TotalNumPages returns the page count recorded in the header.
func (h *Handle) TotalNumPages() int { return h.totalNumPages }

// BlockPos returns the page the cursor points at.
func (h *Handle) BlockPos() util.PageNumber { return h.curPagePos }

/* READ FILE */
// ReadBlock copies page pageNum into out and moves the cursor there.
func (h *Handle) ReadBlock(pageNum util.PageNumber, out []byte) error {
	if h == nil {
		return util.ErrFileHandleNotInit
	}
	if pageNum < 0 || int(pageNum) >= h.totalNumPages {
		return util.NewStorageError("read", h.path, pageNum, util.ErrReadNonExistingPage)
	}
	if h.file == nil {
		return util.NewStorageError("read", h.path, pageNum, util.ErrFileNotFound)
	}
	if len(out) < util.PageSize {
		return util.NewStorageError("read", h.path, pageNum, fmt.Errorf("%w: buffer of %d bytes", util.ErrReadFailed, len(out)))
	}

	if _, err := h.file.ReadAt(out[:util.PageSize], page.Offset(pageNum)); err != nil {
		return util.NewStorageError("read", h.path, pageNum, fmt.Errorf("%w: %w", util.ErrReadFailed, err))
	}

	h.curPagePos = pageNum
	return nil
}

// ReadFirstBlock reads page 0.
func (h *Handle) ReadFirstBlock(out []byte) error {
	return h.ReadBlock(0, out)
}

// ReadLastBlock reads the last page of the file.
func (h *Handle) ReadLastBlock(out []byte) error {
	if h == nil {
		return util.ErrFileHandleNotInit
	}
	return h.ReadBlock(util.PageNumber(h.totalNumPages-1), out)
}

// ReadPreviousBlock reads the page before the cursor.
func (h *Handle) ReadPreviousBlock(out []byte) error {
	if h == nil {
		return util.ErrFileHandleNotInit
	}
	return h.ReadBlock(h.curPagePos-1, out)
}

// ReadCurrentBlock reads the page under the cursor.
func (h *Handle) ReadCurrentBlock(out []byte) error {
	if h == nil {
		return util.ErrFileHandleNotInit
	}
	return h.ReadBlock(h.curPagePos, out)
}

// ReadNextBlock reads the page after the cursor.
func (h *Handle) ReadNextBlock(out []byte) error {
	if h == nil {
		return util.ErrFileHandleNotInit
	}
	return h.ReadBlock(h.curPagePos+1, out)
}

/* WRITE FILE */
// WriteBlock overwrites an existing page. It never grows the file; use
// AppendEmptyBlock or EnsureCapacity first.
func (h *Handle) WriteBlock(pageNum util.PageNumber, data []byte) error {
	if h == nil {
		return util.ErrFileHandleNotInit
	}
	if h.file == nil {
		return util.NewStorageError("write", h.path, pageNum, util.ErrFileNotFound)
	}
	if pageNum < 0 || int(pageNum) >= h.totalNumPages {
		return util.NewStorageError("write", h.path, pageNum, fmt.Errorf("%w: page out of range [0,%d)", util.ErrWriteFailed, h.totalNumPages))
	}
	if len(data) < util.PageSize {
		return util.NewStorageError("write", h.path, pageNum, fmt.Errorf("%w: buffer of %d bytes", util.ErrWriteFailed, len(data)))
	}

	if _, err := h.file.WriteAt(data[:util.PageSize], page.Offset(pageNum)); err != nil {
		return util.NewStorageError("write", h.path, pageNum, fmt.Errorf("%w: %w", util.ErrWriteFailed, err))
	}

	h.curPagePos = pageNum
	return nil
}

// WriteCurrentBlock overwrites the page under the cursor.
func (h *Handle) WriteCurrentBlock(data []byte) error {
	if h == nil {
		return util.ErrFileHandleNotInit
	}
	return h.WriteBlock(h.curPagePos, data)
}

// AppendEmptyBlock adds one zero filled page at the end of the file and
// rewrites the header.
func (h *Handle) AppendEmptyBlock() error {
	if h == nil {
		return util.ErrFileHandleNotInit
	}
	if h.file == nil {
		return util.NewStorageError("append", h.path, util.NoPage, util.ErrFileNotFound)
	}

	newPage := util.PageNumber(h.totalNumPages)
	if _, err := h.file.WriteAt(page.NewBuffer(), page.Offset(newPage)); err != nil {
		return util.NewStorageError("append", h.path, newPage, fmt.Errorf("%w: %w", util.ErrWriteFailed, err))
	}
	if _, err := h.file.WriteAt(page.SerializeHeader(h.totalNumPages+1), 0); err != nil {
		return util.NewStorageError("append", h.path, newPage, fmt.Errorf("%w: header: %w", util.ErrWriteFailed, err))
	}

	// count only once both the page and the header are on disk
	h.totalNumPages++
	h.curPagePos = newPage
	return nil
}

// EnsureCapacity appends empty pages until the file holds at least numPages.
func (h *Handle) EnsureCapacity(numPages int) error {
	if h == nil {
		return util.ErrFileHandleNotInit
	}
	if h.file == nil {
		return util.NewStorageError("ensure capacity", h.path, util.NoPage, util.ErrFileNotFound)
	}

	for h.totalNumPages < numPages {
		if err := h.AppendEmptyBlock(); err != nil {
			return err
		}
	}
	return nil
}
