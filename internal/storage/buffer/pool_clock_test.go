package buffer

import (
	"testing"

	util "github.com/bietkhonhungvandi212/pagebuf/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clockHand(t *testing.T, bp *BufferPool) int {
	t.Helper()
	cr, ok := bp.replacer.(*ClockReplacer)
	require.True(t, ok, "replacer is %T", bp.replacer)
	return cr.hand
}

func TestClockSecondChance(t *testing.T) {
	bp, _ := newFakePool(t, 2, StrategyClock)

	pinUnpin(t, bp, 0, 1)
	pinUnpin(t, bp, 0) // sets the reference bit of frame 0

	pinUnpin(t, bp, 2)
	assert.Equal(t, []util.PageNumber{0, 2}, contents(t, bp), "referenced page spared")
	assert.False(t, bp.ft.frames[0].refBit, "bit cleared by the sweep")
	assert.True(t, bp.ft.frames[1].refBit, "new page gets a second chance")
	assert.Equal(t, 0, clockHand(t, bp))
}

func TestClockReplacement(t *testing.T) {
	bp, _ := newFakePool(t, 3, StrategyClock)

	pinUnpin(t, bp, 0, 1, 2)
	assert.Equal(t, 0, clockHand(t, bp), "filling empty frames leaves the hand")

	pinUnpin(t, bp, 3)
	assert.Equal(t, []util.PageNumber{3, 1, 2}, contents(t, bp))
	assert.Equal(t, 1, clockHand(t, bp))

	pinUnpin(t, bp, 1, 4)
	assert.Equal(t, []util.PageNumber{3, 1, 4}, contents(t, bp))
	assert.Equal(t, 0, clockHand(t, bp))

	pinUnpin(t, bp, 5)
	assert.Equal(t, []util.PageNumber{3, 5, 4}, contents(t, bp))
	assert.Equal(t, 2, clockHand(t, bp))
}

func TestClockSkipsPinned(t *testing.T) {
	bp, _ := newFakePool(t, 2, StrategyClock)

	_, err := bp.PinPage(0)
	require.NoError(t, err)
	pinUnpin(t, bp, 1, 1)

	pinUnpin(t, bp, 2)
	assert.Equal(t, []util.PageNumber{0, 2}, contents(t, bp))
	assert.False(t, bp.ft.frames[0].refBit, "pinned frame untouched")
}

func TestClockSingleFrame(t *testing.T) {
	bp, _ := newFakePool(t, 1, StrategyClock)
	for _, pn := range []util.PageNumber{0, 1, 1, 2} {
		pinUnpin(t, bp, pn)
		assert.Equal(t, []util.PageNumber{pn}, contents(t, bp))
		assert.Equal(t, 0, clockHand(t, bp))
	}
}

func TestClockVictimAllPinned(t *testing.T) {
	ft, err := newFrameTable(3)
	require.NoError(t, err)
	cr := &ClockReplacer{ft: ft}
	for i := range 3 {
		idx := ft.allocFromFree()
		ft.bind(idx, util.PageNumber(i))
		ft.incrementFix(idx)
		cr.Install(idx, false)
	}

	_, err = cr.Victim()
	assert.ErrorIs(t, err, util.ErrNoFreeFrame)
	assert.Equal(t, 0, cr.hand, "hand back where it started")
}

func TestClockCancelVictim(t *testing.T) {
	ft, err := newFrameTable(3)
	require.NoError(t, err)
	cr := &ClockReplacer{ft: ft, hand: 1}
	for i := range 3 {
		idx := ft.allocFromFree()
		ft.bind(idx, util.PageNumber(i))
		cr.Install(idx, false)
	}
	ft.frames[1].refBit = true
	ft.frames[2].refBit = true

	victim, err := cr.Victim()
	require.NoError(t, err)
	assert.Equal(t, 0, victim)
	assert.False(t, ft.frames[1].refBit)
	assert.False(t, ft.frames[2].refBit)

	cr.CancelVictim(victim)
	assert.Equal(t, 1, cr.hand)
	assert.True(t, ft.frames[1].refBit)
	assert.True(t, ft.frames[2].refBit)
	assert.False(t, ft.frames[0].refBit)
}
