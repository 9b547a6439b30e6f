package buffer

import (
	"testing"

	util "github.com/bietkhonhungvandi212/pagebuf/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFOReplacement(t *testing.T) {
	bp, _ := newFakePool(t, 3, StrategyFIFO)

	pinUnpin(t, bp, 0, 1, 2)
	assert.Equal(t, []util.PageNumber{0, 1, 2}, contents(t, bp))
	assert.Equal(t, []int{0, 1, 2}, ringOrder(bp.ft))

	pinUnpin(t, bp, 3)
	assert.Equal(t, []util.PageNumber{3, 1, 2}, contents(t, bp), "oldest page goes first")

	pinUnpin(t, bp, 4)
	assert.Equal(t, []util.PageNumber{3, 4, 2}, contents(t, bp))

	// a hit does not refresh a page under FIFO
	pinUnpin(t, bp, 2, 5)
	assert.Equal(t, []util.PageNumber{3, 4, 5}, contents(t, bp))
	assert.Equal(t, []int{0, 1, 2}, ringOrder(bp.ft))

	r, w := ioCounts(t, bp)
	assert.Equal(t, 6, r)
	assert.Zero(t, w)
}

func TestFIFOSkipsPinned(t *testing.T) {
	bp, _ := newFakePool(t, 3, StrategyFIFO)

	_, err := bp.PinPage(0)
	require.NoError(t, err)
	pinUnpin(t, bp, 1, 2)

	pinUnpin(t, bp, 3)
	assert.Equal(t, []util.PageNumber{0, 3, 2}, contents(t, bp), "pinned oldest page survives")
	assert.Equal(t, []int{0, 2, 1}, ringOrder(bp.ft))
	assertRingClosed(t, bp.ft)

	require.NoError(t, bp.UnpinPage(0))
	pinUnpin(t, bp, 4)
	assert.Equal(t, []util.PageNumber{4, 3, 2}, contents(t, bp))

	pinUnpin(t, bp, 5)
	assert.Equal(t, []util.PageNumber{4, 3, 5}, contents(t, bp), "insertion order kept after the skip")
}

func TestFIFOSingleFrame(t *testing.T) {
	bp, _ := newFakePool(t, 1, StrategyFIFO)
	for pn := range util.PageNumber(4) {
		pinUnpin(t, bp, pn)
		assert.Equal(t, []util.PageNumber{pn}, contents(t, bp))
	}
}

func TestFIFODirtyVictim(t *testing.T) {
	bp, store := newFakePool(t, 2, StrategyFIFO)
	pinUnpin(t, bp, 0, 1)
	require.NoError(t, bp.MarkDirty(0))
	require.NoError(t, bp.MarkDirty(1))

	pinUnpin(t, bp, 2)
	assert.Equal(t, []util.PageNumber{0}, store.writes, "only the victim is written")

	dirty, err := bp.DirtyFlags()
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, dirty)
}
