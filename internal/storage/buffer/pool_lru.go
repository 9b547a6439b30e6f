package buffer

// LRUReplacer keeps the ring in recency order: head is the most recently
// used frame, tail the least. Every hit and install relinks the frame to head.
type LRUReplacer struct {
	ft *frameTable
}

func (lr *LRUReplacer) RecordHit(frameIdx int) {
	lr.ft.moveToFront(frameIdx)
}

// Victim walks from tail towards head and skips pinned frames.
func (lr *LRUReplacer) Victim() (int, error) {
	return lr.ft.scanFromTail()
}

// CancelVictim has nothing to undo; scanning from tail changes no state.
func (lr *LRUReplacer) CancelVictim(frameIdx int) {}

func (lr *LRUReplacer) Install(frameIdx int, evicted bool) {
	lr.ft.moveToFront(frameIdx)
}
