package buffer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/bietkhonhungvandi212/pagebuf/internal/storage/file"
	"github.com/bietkhonhungvandi212/pagebuf/internal/storage/page"
	util "github.com/bietkhonhungvandi212/pagebuf/internal/utils"
)

/*
BufferPool caches pages of one page file in a fixed set of frames and
replaces them under a FIFO, LRU or CLOCK policy.

The page file is opened per disk touching operation and closed again
afterwards; the pool never keeps a descriptor between calls. One mutex
guards every public method, disk I/O included.
*/

// Config describes a pool. StrategyData is reserved for policy tuning and
// is currently unused.
type Config struct {
	Path         string
	Capacity     int
	Strategy     ReplacementStrategy
	StrategyData any
	Logger       *slog.Logger
}

type BufferPool struct {
	mu           sync.Mutex
	path         string
	strategy     ReplacementStrategy
	strategyData any
	ft           *frameTable // nil once shut down
	replacer     Replacer
	numRead      int
	numWrite     int
	open         file.Opener
	log          *slog.Logger
}

// InitBufferPool opens a pool of capacity frames over the page file at path.
func InitBufferPool(path string, capacity int, strategy ReplacementStrategy, strategyData any) (*BufferPool, error) {
	return NewBufferPool(Config{
		Path:         path,
		Capacity:     capacity,
		Strategy:     strategy,
		StrategyData: strategyData,
	})
}

func NewBufferPool(cfg Config) (*BufferPool, error) {
	return newBufferPool(cfg, file.OpenFiler)
}

func newBufferPool(cfg Config, open file.Opener) (*BufferPool, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ft, err := newFrameTable(cfg.Capacity)
	if err != nil {
		return nil, err
	}
	replacer, err := newReplacer(cfg.Strategy, ft)
	if err != nil {
		return nil, err
	}

	// probe the file so a missing page file fails here rather than on first pin
	probe, err := open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("[pool] [init] %w", err)
	}
	if err := probe.Close(); err != nil {
		return nil, fmt.Errorf("[pool] [init] %w", err)
	}

	bp := &BufferPool{
		path:         cfg.Path,
		strategy:     cfg.Strategy,
		strategyData: cfg.StrategyData,
		ft:           ft,
		replacer:     replacer,
		open:         open,
		log:          logger.With("component", "bufferpool", "path", cfg.Path),
	}
	bp.log.Info("buffer pool initialized", "capacity", cfg.Capacity, "strategy", cfg.Strategy.String())
	return bp, nil
}

/* PIN */
// PinPage returns a handle on pageNum, loading it from disk on a miss. Each
// successful pin must be matched by one UnpinPage.
func (bp *BufferPool) PinPage(pageNum util.PageNumber) (page.Handle, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.ft == nil {
		return page.Handle{}, util.ErrBufferPoolNotInit
	}
	if pageNum < 0 {
		return page.Handle{}, util.NewStorageError("pin", bp.path, pageNum, util.ErrReadNonExistingPage)
	}

	frameIdx, err := bp.ft.findByPageNumber(pageNum)
	if err == nil && bp.ft.frames[frameIdx].loaded {
		bp.ft.incrementFix(frameIdx)
		bp.replacer.RecordHit(frameIdx)
		return bp.handle(frameIdx), nil
	}

	err = bp.withFile("pin", false, func(f file.Filer) error {
		if frameIdx == -1 {
			idx, err := bp.claimFrame(f, pageNum)
			if err != nil {
				return err
			}
			frameIdx = idx
		}
		return bp.load(f, frameIdx)
	})
	if err != nil {
		return page.Handle{}, err
	}

	bp.ft.incrementFix(frameIdx)
	return bp.handle(frameIdx), nil
}

// claimFrame binds a free frame, or an evicted victim, to pageNum.
func (bp *BufferPool) claimFrame(f file.Filer, pageNum util.PageNumber) (int, error) {
	if bp.ft.hasFreeSlot() {
		frameIdx := bp.ft.allocFromFree()
		bp.ft.bind(frameIdx, pageNum)
		bp.replacer.Install(frameIdx, false)
		return frameIdx, nil
	}

	victimIdx, err := bp.replacer.Victim()
	if err != nil {
		return -1, fmt.Errorf("[pool] [pin] page %d: %w", pageNum, err)
	}

	victim := &bp.ft.frames[victimIdx]
	wasDirty := victim.dirty
	if wasDirty {
		if err := bp.writeBack(f, victimIdx); err != nil {
			bp.replacer.CancelVictim(victimIdx)
			return -1, err
		}
	}

	bp.log.Debug("evict", "frame", victimIdx, "victim", int(victim.pageNumber), "page", int(pageNum), "dirty", wasDirty)
	bp.ft.bind(victimIdx, pageNum)
	bp.replacer.Install(victimIdx, true)
	return victimIdx, nil
}

// load reads the bound page into its frame, growing the file if needed.
// On failure the frame stays bound but unloaded.
func (bp *BufferPool) load(f file.Filer, frameIdx int) error {
	desc := &bp.ft.frames[frameIdx]
	if err := f.EnsureCapacity(int(desc.pageNumber) + 1); err != nil {
		return err
	}
	if err := f.ReadBlock(desc.pageNumber, desc.data); err != nil {
		return err
	}
	bp.numRead++
	desc.loaded = true
	return nil
}

// writeBack flushes a dirty frame and clears its dirty flag.
func (bp *BufferPool) writeBack(f file.Filer, frameIdx int) error {
	desc := &bp.ft.frames[frameIdx]
	if err := f.EnsureCapacity(int(desc.pageNumber) + 1); err != nil {
		return err
	}
	if err := f.WriteBlock(desc.pageNumber, desc.data); err != nil {
		return err
	}
	bp.numWrite++
	bp.ft.clearDirty(frameIdx)
	bp.log.Debug("write back", "frame", frameIdx, "page", int(desc.pageNumber))
	return nil
}

// withFile opens the page file for one operation. Close failures are logged;
// they are also returned when strictClose is set and fn succeeded.
func (bp *BufferPool) withFile(op string, strictClose bool, fn func(f file.Filer) error) error {
	f, err := bp.open(bp.path)
	if err != nil {
		return err
	}

	err = fn(f)
	if cerr := f.Close(); cerr != nil {
		bp.log.Warn("close page file", "op", op, "err", cerr)
		if strictClose && err == nil {
			err = cerr
		}
	}
	return err
}

func (bp *BufferPool) handle(frameIdx int) page.Handle {
	desc := &bp.ft.frames[frameIdx]
	return page.Handle{PageNumber: desc.pageNumber, Data: desc.data}
}

// residentFrame looks up pageNum. A page that is not resident is not an
// error for the best effort operations, so it reports ok=false instead. A
// frame whose load failed holds another page's bytes and does not count.
func (bp *BufferPool) residentFrame(pageNum util.PageNumber) (int, bool, error) {
	if bp.ft == nil {
		return -1, false, util.ErrBufferPoolNotInit
	}
	frameIdx, err := bp.ft.findByPageNumber(pageNum)
	if errors.Is(err, util.ErrKeyNotFound) {
		return -1, false, nil
	}
	if err != nil {
		return -1, false, err
	}
	if !bp.ft.frames[frameIdx].loaded {
		return -1, false, nil
	}
	return frameIdx, true, nil
}

/* UNPIN */
// UnpinPage releases one pin on pageNum. Unknown pages are ignored and the
// fix count never drops below zero.
func (bp *BufferPool) UnpinPage(pageNum util.PageNumber) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameIdx, ok, err := bp.residentFrame(pageNum)
	if err != nil || !ok {
		return err
	}
	bp.ft.decrementFix(frameIdx)
	return nil
}

// MarkDirty flags pageNum for write back. Unknown pages are ignored.
func (bp *BufferPool) MarkDirty(pageNum util.PageNumber) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameIdx, ok, err := bp.residentFrame(pageNum)
	if err != nil || !ok {
		return err
	}
	bp.ft.markDirty(frameIdx)
	return nil
}

/* FLUSH */
// ForcePage writes pageNum back now if it is dirty, pinned or not.
func (bp *BufferPool) ForcePage(pageNum util.PageNumber) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameIdx, ok, err := bp.residentFrame(pageNum)
	if err != nil || !ok {
		return err
	}
	if !bp.ft.frames[frameIdx].dirty {
		return nil
	}

	return bp.withFile("force", true, func(f file.Filer) error {
		return bp.writeBack(f, frameIdx)
	})
}

// ForceFlushPool writes back every dirty frame whose fix count is zero.
// Pinned frames are left dirty.
func (bp *BufferPool) ForceFlushPool() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.ft == nil {
		return util.ErrBufferPoolNotInit
	}
	return bp.flushUnpinned()
}

func (bp *BufferPool) flushUnpinned() error {
	var pending []int
	for i := range bp.ft.frames {
		if bp.ft.frames[i].dirty && bp.ft.frames[i].fixCount == 0 {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	return bp.withFile("flush", true, func(f file.Filer) error {
		for _, frameIdx := range pending {
			if err := bp.writeBack(f, frameIdx); err != nil {
				return err
			}
		}
		return nil
	})
}

/* SHUTDOWN */
// ShutdownBufferPool flushes unpinned dirty frames and releases every frame.
// Dirty frames that are still pinned are dropped with a warning. If the
// flush fails the pool stays usable so the caller can retry.
func (bp *BufferPool) ShutdownBufferPool() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.ft == nil {
		return util.ErrBufferPoolNotInit
	}
	if err := bp.flushUnpinned(); err != nil {
		return fmt.Errorf("[pool] [shutdown] flush: %w", err)
	}

	for i := range bp.ft.frames {
		desc := &bp.ft.frames[i]
		if desc.dirty {
			bp.log.Warn("dropping dirty pinned page at shutdown", "frame", i, "page", int(desc.pageNumber), "fixCount", desc.fixCount)
		}
		desc.data = nil
	}

	bp.ft = nil
	bp.replacer = nil
	bp.log.Info("buffer pool shut down", "reads", bp.numRead, "writes", bp.numWrite)
	return nil
}

/* STATISTICS */
// FrameContents lists the page held by each frame in frame order, NoPage for empty frames.
func (bp *BufferPool) FrameContents() ([]util.PageNumber, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.ft == nil {
		return nil, util.ErrBufferPoolNotInit
	}
	return bp.ft.contents(), nil
}

// DirtyFlags reports the dirty flag of each frame in frame order.
func (bp *BufferPool) DirtyFlags() ([]bool, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.ft == nil {
		return nil, util.ErrBufferPoolNotInit
	}
	return bp.ft.dirtyFlags(), nil
}

// FixCounts reports the pin count of each frame in frame order.
func (bp *BufferPool) FixCounts() ([]int, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.ft == nil {
		return nil, util.ErrBufferPoolNotInit
	}
	return bp.ft.fixCounts(), nil
}

// NumReadIO returns the number of pages read from disk since init.
func (bp *BufferPool) NumReadIO() (int, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.ft == nil {
		return 0, util.ErrBufferPoolNotInit
	}
	return bp.numRead, nil
}

// NumWriteIO returns the number of pages written to disk since init.
func (bp *BufferPool) NumWriteIO() (int, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.ft == nil {
		return 0, util.ErrBufferPoolNotInit
	}
	return bp.numWrite, nil
}

// Capacity returns the number of frames.
func (bp *BufferPool) Capacity() (int, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.ft == nil {
		return 0, util.ErrBufferPoolNotInit
	}
	return bp.ft.poolSize, nil
}

// Strategy returns the replacement policy the pool was built with.
func (bp *BufferPool) Strategy() ReplacementStrategy {
	return bp.strategy
}
