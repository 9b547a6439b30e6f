package main

import (
	"testing"

	"github.com/bietkhonhungvandi212/pagebuf/internal/storage/buffer"
	"github.com/bietkhonhungvandi212/pagebuf/internal/storage/file"
	util "github.com/bietkhonhungvandi212/pagebuf/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrace(t *testing.T) {
	steps, err := parseTrace("0, 1d,2,,0")
	require.NoError(t, err)
	assert.Equal(t, []traceStep{{0, false}, {1, true}, {2, false}, {0, false}}, steps)

	for _, bad := range []string{"x", "-1", "1dd", "d"} {
		_, err := parseTrace(bad)
		assert.Error(t, err, bad)
	}
}

func TestReplay(t *testing.T) {
	path, cleanup := util.CreateTempFile(t)
	defer cleanup()
	require.NoError(t, file.Create(path))

	bp, err := buffer.InitBufferPool(path, 2, buffer.StrategyLRU, nil)
	require.NoError(t, err)

	steps, err := parseTrace("0d,1,0,2,3")
	require.NoError(t, err)
	require.NoError(t, replay(bp, steps))

	frames, err := bp.FrameContents()
	require.NoError(t, err)
	assert.Equal(t, []util.PageNumber{3, 2}, frames)

	writes, err := bp.NumWriteIO()
	require.NoError(t, err)
	assert.Equal(t, 1, writes, "dirty page 0 written on eviction")
	require.NoError(t, bp.ShutdownBufferPool())
}
