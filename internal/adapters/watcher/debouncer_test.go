package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/knob/internal/adapters/watcher"
)

type calls struct {
	mu    sync.Mutex
	paths [][]string
}

func (c *calls) record(paths []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, paths)
}

func (c *calls) get() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]string(nil), c.paths...)
}

func TestDebouncer_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var c calls
		d := watcher.NewDebouncer(100*time.Millisecond, c.record)

		d.Add("/src/build/CMakeCache.txt")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"/src/build/CMakeCache.txt"}}, c.get())
	})
}

func TestDebouncer_Coalesces(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var c calls
		d := watcher.NewDebouncer(100*time.Millisecond, c.record)

		d.Add("/b")
		time.Sleep(60 * time.Millisecond)
		d.Add("/a")
		time.Sleep(60 * time.Millisecond)
		d.Add("/b")

		synctest.Wait()
		assert.Empty(t, c.get())

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"/a", "/b"}}, c.get())
	})
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var c calls
		d := watcher.NewDebouncer(50*time.Millisecond, c.record)

		d.Add("/first")
		time.Sleep(100 * time.Millisecond)
		d.Add("/second")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"/first"}, {"/second"}}, c.get())
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var c calls
		d := watcher.NewDebouncer(time.Hour, c.record)

		d.Add("/cache")
		d.Flush()
		require.Equal(t, [][]string{{"/cache"}}, c.get())

		d.Flush()
		assert.Len(t, c.get(), 1)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(10*time.Millisecond, nil)
		d.Add("/cache")
		time.Sleep(20 * time.Millisecond)
		synctest.Wait()
	})
}
