package buffer

import (
	"fmt"
	"strings"

	util "github.com/bietkhonhungvandi212/pagebuf/internal/utils"
)

// ReplacementStrategy selects the page replacement policy of a pool.
type ReplacementStrategy int

const (
	StrategyFIFO ReplacementStrategy = iota
	StrategyLRU
	StrategyClock
)

func (s ReplacementStrategy) String() string {
	switch s {
	case StrategyFIFO:
		return "FIFO"
	case StrategyLRU:
		return "LRU"
	case StrategyClock:
		return "CLOCK"
	default:
		return fmt.Sprintf("ReplacementStrategy(%d)", int(s))
	}
}

// ParseStrategy maps a case-insensitive policy name to its strategy.
func ParseStrategy(name string) (ReplacementStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fifo":
		return StrategyFIFO, nil
	case "lru":
		return StrategyLRU, nil
	case "clock":
		return StrategyClock, nil
	}
	return 0, fmt.Errorf("%w: %q", util.ErrInvalidStrategy, name)
}

// Replacer defines the contract for page replacement policies. It only
// decides and records ordering; the pool does the I/O.
type Replacer interface {
	// RecordHit is called when a pin finds its page already resident.
	RecordHit(frameIdx int)
	// Victim picks an unpinned occupied frame to evict, or ErrNoFreeFrame.
	Victim() (int, error)
	// CancelVictim undoes what the last Victim call changed when the pool
	// could not evict the frame it returned.
	CancelVictim(frameIdx int)
	// Install is called once a frame has been bound to a new page, either
	// from the free list (evicted=false) or after evicting its old page.
	Install(frameIdx int, evicted bool)
}

func newReplacer(strategy ReplacementStrategy, ft *frameTable) (Replacer, error) {
	switch strategy {
	case StrategyFIFO:
		return &FIFOReplacer{ft: ft}, nil
	case StrategyLRU:
		return &LRUReplacer{ft: ft}, nil
	case StrategyClock:
		return &ClockReplacer{ft: ft, hand: 0}, nil
	}
	return nil, fmt.Errorf("%w: %d", util.ErrInvalidStrategy, int(strategy))
}
