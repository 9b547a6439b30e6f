package util

import "errors"

var (
	ErrBufferPoolNotInit   = errors.New("buffer pool not initialized")
	ErrFileNotFound        = errors.New("file not found")
	ErrFileHandleNotInit   = errors.New("file handle not initialized")
	ErrReadNonExistingPage = errors.New("read non existing page")
	ErrWriteFailed         = errors.New("write failed")
	ErrReadFailed          = errors.New("read failed")
	ErrKeyNotFound         = errors.New("page not resident")
	ErrInvalidPoolSize     = errors.New("invalid pool size")
	ErrInvalidStrategy     = errors.New("invalid replacement strategy")
	ErrNoFreeFrame         = errors.New("no free frames")
)
