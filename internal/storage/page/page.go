package page

import (
	util "github.com/bietkhonhungvandi212/pagebuf/internal/utils"
)

// Handle is a caller's view of a pinned page. Data aliases the frame buffer
// owned by the buffer pool and is only valid until the matching unpin.
type Handle struct {
	PageNumber util.PageNumber
	Data       []byte
}

// NewBuffer returns a zero filled page sized buffer.
func NewBuffer() []byte {
	return make([]byte, util.PageSize)
}
