package util

import (
	"fmt"
	"strings"
)

// PageNumber identifies a page inside a page file. Pages are numbered from 0.
type PageNumber int

// NoPage marks an empty frame.
const NoPage PageNumber = -1

// PageSize represents the standard page size (4KB)
const PageSize = 4096

// StorageError records a failed page file operation together with the page it targeted.
type StorageError struct {
	Op   string
	Path string
	Page PageNumber
	Err  error
}

func (e *StorageError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Page != NoPage {
		fmt.Fprintf(&b, " page %d", e.Page)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err, which should be (or wrap) one of the sentinel errors.
func NewStorageError(op, path string, page PageNumber, err error) *StorageError {
	return &StorageError{Op: op, Path: path, Page: page, Err: err}
}
