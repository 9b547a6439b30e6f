package page

import (
	"fmt"

	util "github.com/bietkhonhungvandi212/pagebuf/internal/utils"
)

// CreateTestPage returns a page buffer that starts with data, or with a
// recognisable "page-N" marker when data is nil.
func CreateTestPage(pageNum util.PageNumber, data []byte) []byte {
	buf := NewBuffer()
	if data == nil {
		data = []byte(fmt.Sprintf("page-%d", pageNum))
	}
	if len(data) > len(buf) {
		data = data[:len(buf)] // Truncate to fit
	}
	copy(buf, data)
	return buf
}
