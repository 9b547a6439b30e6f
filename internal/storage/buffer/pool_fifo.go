package buffer

// FIFOReplacer evicts in insertion order. The ring runs from tail (oldest
// installed) to head (newest); hits never reorder it.
type FIFOReplacer struct {
	ft *frameTable
}

func (fr *FIFOReplacer) RecordHit(frameIdx int) {}

func (fr *FIFOReplacer) Victim() (int, error) {
	return fr.ft.scanFromTail()
}

// CancelVictim has nothing to undo; scanning from tail changes no state.
func (fr *FIFOReplacer) CancelVictim(frameIdx int) {}

func (fr *FIFOReplacer) Install(frameIdx int, evicted bool) {
	fr.ft.moveToFront(frameIdx)
}
