package buffer

import (
	util "github.com/bietkhonhungvandi212/pagebuf/internal/utils"
)

// ClockReplacer sweeps frames in physical order with a second chance
// reference bit. It ignores the head/tail ring.
type ClockReplacer struct {
	ft   *frameTable
	hand int // next frame the sweep looks at

	// last sweep, for CancelVictim
	sweepStart int
	cleared    []int
}

func (cr *ClockReplacer) RecordHit(frameIdx int) {
	cr.ft.frames[frameIdx].refBit = true
}

// Victim sweeps from the hand. Pinned frames are skipped, referenced frames
// lose their bit, and the first unpinned unreferenced frame is returned with
// the hand left on it. Two full turns clear every bit, so a longer sweep
// means every frame is pinned.
func (cr *ClockReplacer) Victim() (int, error) {
	size := cr.ft.poolSize
	cr.sweepStart = cr.hand
	cr.cleared = cr.cleared[:0]
	for range 2 * size {
		desc := &cr.ft.frames[cr.hand]
		switch {
		case desc.fixCount != 0:
		case desc.refBit:
			desc.refBit = false
			cr.cleared = append(cr.cleared, cr.hand)
		default:
			return cr.hand, nil
		}
		cr.hand = (cr.hand + 1) % size
	}
	return -1, util.ErrNoFreeFrame
}

// CancelVictim puts back the reference bits the last sweep cleared and
// returns the hand to where the sweep started.
func (cr *ClockReplacer) CancelVictim(frameIdx int) {
	for _, idx := range cr.cleared {
		cr.ft.frames[idx].refBit = true
	}
	cr.cleared = cr.cleared[:0]
	cr.hand = cr.sweepStart
}

// Install gives a page that replaced a victim one second chance and moves
// the hand past it. Pages loaded into empty frames start unreferenced and
// leave the hand alone.
func (cr *ClockReplacer) Install(frameIdx int, evicted bool) {
	if !evicted {
		cr.ft.frames[frameIdx].refBit = false
		return
	}
	cr.ft.frames[frameIdx].refBit = true
	cr.hand = (frameIdx + 1) % cr.ft.poolSize
}
