package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/bietkhonhungvandi212/pagebuf/internal/storage/buffer"
	"github.com/bietkhonhungvandi212/pagebuf/internal/storage/file"
	util "github.com/bietkhonhungvandi212/pagebuf/internal/utils"
)

// traceStep is one pin in a replayed trace.
type traceStep struct {
	page  util.PageNumber
	dirty bool
}

// parseTrace reads "0,1d,2" style traces. A trailing d marks the page
// dirty before it is unpinned.
func parseTrace(s string) ([]traceStep, error) {
	var steps []traceStep
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		step := traceStep{}
		if strings.HasSuffix(tok, "d") {
			step.dirty = true
			tok = strings.TrimSuffix(tok, "d")
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad trace entry %q", tok)
		}
		step.page = util.PageNumber(n)
		steps = append(steps, step)
	}
	return steps, nil
}

func replay(bp *buffer.BufferPool, steps []traceStep) error {
	for _, st := range steps {
		h, err := bp.PinPage(st.page)
		if err != nil {
			return fmt.Errorf("pin %d: %w", st.page, err)
		}
		if st.dirty {
			copy(h.Data, fmt.Sprintf("page-%d", st.page))
			if err := bp.MarkDirty(st.page); err != nil {
				return err
			}
		}
		if err := bp.UnpinPage(st.page); err != nil {
			return err
		}
	}
	return nil
}

func report(bp *buffer.BufferPool) error {
	frames, err := bp.FrameContents()
	if err != nil {
		return err
	}
	dirty, err := bp.DirtyFlags()
	if err != nil {
		return err
	}
	reads, err := bp.NumReadIO()
	if err != nil {
		return err
	}
	writes, err := bp.NumWriteIO()
	if err != nil {
		return err
	}

	var sb strings.Builder
	for i, pn := range frames {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if pn == util.NoPage {
			sb.WriteString("[-]")
			continue
		}
		mark := ""
		if dirty[i] {
			mark = "x"
		}
		fmt.Fprintf(&sb, "[%d%s]", pn, mark)
	}
	fmt.Printf("%s %s\n", bp.Strategy(), sb.String())
	fmt.Printf("reads=%d writes=%d\n", reads, writes)
	return nil
}

func run() error {
	path := flag.String("file", "pagebuf.bin", "page file")
	capacity := flag.Int("capacity", 3, "number of frames")
	policy := flag.String("policy", "fifo", "replacement policy: fifo, lru or clock")
	trace := flag.String("trace", "0,1,2,3", "comma separated pages, d suffix marks dirty")
	create := flag.Bool("create", false, "create (truncate) the page file first")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	strategy, err := buffer.ParseStrategy(*policy)
	if err != nil {
		return err
	}
	steps, err := parseTrace(*trace)
	if err != nil {
		return err
	}

	if *create {
		if err := file.Create(*path); err != nil {
			return err
		}
	}

	bp, err := buffer.NewBufferPool(buffer.Config{
		Path:     *path,
		Capacity: *capacity,
		Strategy: strategy,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if err := replay(bp, steps); err != nil {
		return errors.Join(err, bp.ShutdownBufferPool())
	}
	if err := report(bp); err != nil {
		return err
	}
	return bp.ShutdownBufferPool()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "pagebuf:", err)
		os.Exit(1)
	}
}
