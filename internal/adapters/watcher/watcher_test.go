package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/knob/internal/adapters/watcher"
	"go.trai.ch/knob/internal/core/ports"
	"go.trai.ch/knob/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestWatcher_ReportsCacheChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	dir := t.TempDir()
	cache := filepath.Join(dir, "CMakeCache.txt")

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()
	require.NoError(t, w.Start(ctx, cache))

	events := make(chan ports.WatchEvent, 16)
	go func() {
		for e := range w.Events() {
			events <- e
		}
		close(events)
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(cache, []byte("A:BOOL=ON\n"), 0o600))

	select {
	case e := <-events:
		assert.Equal(t, "CMakeCache.txt", filepath.Base(e.Path))
	case <-ctx.Done():
		t.Fatal("no event for the cache file")
	}

	cancel()
	for range events {
	}
}

func TestWatcher_StartMissingDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	err = w.Start(t.Context(), filepath.Join(t.TempDir(), "missing", "CMakeCache.txt"))
	require.Error(t, err)
}

func TestWatcher_StopTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	w, err := watcher.NewWatcher(mocks.NewMockLogger(ctrl))
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
