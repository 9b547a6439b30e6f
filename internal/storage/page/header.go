package page

import (
	"fmt"
	"strconv"

	util "github.com/bietkhonhungvandi212/pagebuf/internal/utils"
)

// HeaderSize is the size of the header region at the start of a page file.
// Page n lives at offset (n+1) * PageSize.
const HeaderSize = util.PageSize

// SerializeHeader packs the page count into a header region: the decimal text
// of totalNumPages followed by zero bytes.
func SerializeHeader(totalNumPages int) []byte {
	buf := make([]byte, HeaderSize)
	copy(buf, strconv.Itoa(totalNumPages))
	return buf
}

// DeserializeHeader parses the leading decimal digits of a header region.
// Parsing stops at the first non-digit byte; no digits at all yields 0. A
// count that does not fit an int is reported as ErrReadFailed.
func DeserializeHeader(data []byte) (int, error) {
	end := 0
	for end < len(data) && data[end] >= '0' && data[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(string(data[:end]))
	if err != nil {
		return 0, fmt.Errorf("%w: header page count: %w", util.ErrReadFailed, err)
	}
	return n, nil
}

// Offset returns the byte offset of page pageNum inside a page file.
func Offset(pageNum util.PageNumber) int64 {
	return int64(pageNum+1) * int64(util.PageSize)
}
