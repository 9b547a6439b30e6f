package buffer

import (
	"fmt"

	"github.com/bietkhonhungvandi212/pagebuf/internal/storage/page"
	util "github.com/bietkhonhungvandi212/pagebuf/internal/utils"
)

// frameDesc is one buffer pool slot.
type frameDesc struct {
	pageNumber util.PageNumber
	data       []byte
	dirty      bool
	loaded     bool // data holds pageNumber's bytes
	fixCount   int
	refBit     bool // CLOCK only
}

// frameTable owns the fixed frame arena and the closed ring threading it.
// Frames from tail forward to head are occupied; frames after head up to
// tail are still empty.
type frameTable struct {
	frames    []frameDesc
	nextIdx   []int
	prevIdx   []int
	pageToIdx map[util.PageNumber]int // Map page number to frame index
	nextFree  []int                   // Free list for allocation
	freeHead  int                     // Head of free list
	head      int                     // Most recently installed (FIFO) or used (LRU)
	tail      int                     // Oldest installed (FIFO) or least recently used (LRU)
	poolSize  int                     // Total frames
}

func newFrameTable(size int) (*frameTable, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", util.ErrInvalidPoolSize, size)
	}

	ft := &frameTable{
		frames:    make([]frameDesc, size),
		nextIdx:   make([]int, size),
		prevIdx:   make([]int, size),
		pageToIdx: make(map[util.PageNumber]int, size),
		nextFree:  make([]int, size),
		freeHead:  0,
		head:      -1,
		tail:      -1,
		poolSize:  size,
	}

	for i := range size {
		ft.frames[i] = frameDesc{pageNumber: util.NoPage, data: page.NewBuffer()}
		ft.nextIdx[i] = (i + 1) % size
		ft.prevIdx[i] = (i - 1 + size) % size
		ft.nextFree[i] = i + 1
	}
	ft.nextFree[size-1] = -1

	return ft, nil
}

func (ft *frameTable) hasFreeSlot() bool {
	return ft.freeHead != -1
}

func (ft *frameTable) occupied() int {
	return len(ft.pageToIdx)
}

// allocFromFree allocates a free frame index.
func (ft *frameTable) allocFromFree() int {
	if ft.freeHead == -1 {
		return -1
	}
	freeIdx := ft.freeHead
	ft.freeHead = ft.nextFree[freeIdx]
	ft.nextFree[freeIdx] = -1
	return freeIdx
}

func (ft *frameTable) findByPageNumber(pageNum util.PageNumber) (int, error) {
	idx, ok := ft.pageToIdx[pageNum]
	if !ok {
		return -1, fmt.Errorf("%w: page %d", util.ErrKeyNotFound, pageNum)
	}
	return idx, nil
}

// bind repurposes a frame for pageNum. The bytes are stale until loaded is set.
func (ft *frameTable) bind(frameIdx int, pageNum util.PageNumber) {
	f := &ft.frames[frameIdx]
	if f.pageNumber != util.NoPage {
		delete(ft.pageToIdx, f.pageNumber)
	}
	f.pageNumber = pageNum
	f.loaded = false
	f.dirty = false
	ft.pageToIdx[pageNum] = frameIdx
}

func (ft *frameTable) incrementFix(frameIdx int) {
	ft.frames[frameIdx].fixCount++
}

func (ft *frameTable) decrementFix(frameIdx int) {
	if ft.frames[frameIdx].fixCount > 0 {
		ft.frames[frameIdx].fixCount--
	}
}

func (ft *frameTable) markDirty(frameIdx int) {
	ft.frames[frameIdx].dirty = true
}

func (ft *frameTable) clearDirty(frameIdx int) {
	ft.frames[frameIdx].dirty = false
}

// ===================== RING =====================

// moveToFront makes frameIdx the ring head, keeping the occupied run
// tail..head contiguous.
func (ft *frameTable) moveToFront(frameIdx int) {
	switch {
	case ft.head == frameIdx:
		return
	case ft.head == -1:
		ft.head, ft.tail = frameIdx, frameIdx
		return
	}

	if ft.tail == frameIdx {
		ft.tail = ft.nextIdx[frameIdx]
	}
	if ft.nextIdx[ft.head] != frameIdx {
		ft.unlink(frameIdx)
		ft.insertAfter(ft.head, frameIdx)
	}
	ft.head = frameIdx
}

func (ft *frameTable) unlink(frameIdx int) {
	prev := ft.prevIdx[frameIdx]
	next := ft.nextIdx[frameIdx]
	ft.nextIdx[prev] = next
	ft.prevIdx[next] = prev

	// a lone node stays a closed ring of one
	ft.nextIdx[frameIdx] = frameIdx
	ft.prevIdx[frameIdx] = frameIdx
}

func (ft *frameTable) insertAfter(at, frameIdx int) {
	next := ft.nextIdx[at]
	ft.nextIdx[at] = frameIdx
	ft.prevIdx[frameIdx] = at
	ft.nextIdx[frameIdx] = next
	ft.prevIdx[next] = frameIdx
}

// scanFromTail returns the first unpinned frame walking forward from tail.
func (ft *frameTable) scanFromTail() (int, error) {
	if ft.tail == -1 {
		return -1, util.ErrNoFreeFrame
	}

	current := ft.tail
	for range ft.poolSize {
		if ft.frames[current].fixCount == 0 {
			return current, nil
		}
		current = ft.nextIdx[current]
	}
	return -1, util.ErrNoFreeFrame
}

// ===================== INTROSPECTION =====================

func (ft *frameTable) contents() []util.PageNumber {
	out := make([]util.PageNumber, ft.poolSize)
	for i := range ft.frames {
		out[i] = ft.frames[i].pageNumber
	}
	return out
}

func (ft *frameTable) dirtyFlags() []bool {
	out := make([]bool, ft.poolSize)
	for i := range ft.frames {
		out[i] = ft.frames[i].dirty
	}
	return out
}

func (ft *frameTable) fixCounts() []int {
	out := make([]int, ft.poolSize)
	for i := range ft.frames {
		out[i] = ft.frames[i].fixCount
	}
	return out
}
