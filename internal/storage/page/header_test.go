package page

import (
	"strings"
	"testing"

	util "github.com/bietkhonhungvandi212/pagebuf/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		for _, n := range []int{0, 1, 9, 10, 4096, 123456} {
			buf := SerializeHeader(n)
			assert.Len(t, buf, HeaderSize)
			got, err := DeserializeHeader(buf)
			require.NoError(t, err)
			assert.Equal(t, n, got, "count %d", n)
		}
	})

	parse := func(t *testing.T, data []byte) int {
		t.Helper()
		n, err := DeserializeHeader(data)
		require.NoError(t, err)
		return n
	}

	t.Run("StopsAtNonDigit", func(t *testing.T) {
		assert.Equal(t, 42, parse(t, []byte("42abc7")))
		assert.Equal(t, 7, parse(t, []byte{'7', 0, '9'}))
	})

	t.Run("NoDigits", func(t *testing.T) {
		assert.Equal(t, 0, parse(t, nil))
		assert.Equal(t, 0, parse(t, []byte("x1")))
	})

	t.Run("Overflow", func(t *testing.T) {
		_, err := DeserializeHeader([]byte(strings.Repeat("9", 40)))
		assert.ErrorIs(t, err, util.ErrReadFailed)
	})

	t.Run("Offset", func(t *testing.T) {
		assert.Equal(t, int64(util.PageSize), Offset(0))
		assert.Equal(t, int64(3*util.PageSize), Offset(2))
	})
}

func TestCreateTestPage(t *testing.T) {
	buf := CreateTestPage(3, nil)
	assert.Len(t, buf, util.PageSize)
	assert.Equal(t, "page-3", string(buf[:6]))
	assert.Equal(t, byte(0), buf[6])

	big := make([]byte, util.PageSize+10)
	big[util.PageSize-1] = 'z'
	assert.Equal(t, byte('z'), CreateTestPage(0, big)[util.PageSize-1])
}
