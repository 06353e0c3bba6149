package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/knob/internal/adapters/telemetry"
)

type chunks struct {
	mu   sync.Mutex
	data []string
}

func (c *chunks) add(p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = append(c.data, string(p))
}

func (c *chunks) get() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.data...)
}

func TestBatchProcessor_FlushOnSize(t *testing.T) {
	var got chunks
	bp := telemetry.NewBatchProcessor(5, time.Hour, got.add)
	defer func() { _ = bp.Close() }()

	_, err := bp.Write([]byte("123"))
	require.NoError(t, err)
	assert.Empty(t, got.get())

	_, err = bp.Write([]byte("456"))
	require.NoError(t, err)
	assert.Equal(t, []string{"123456"}, got.get())
}

func TestBatchProcessor_FlushOnTime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got chunks
		bp := telemetry.NewBatchProcessor(1024, 50*time.Millisecond, got.add)

		_, err := bp.Write([]byte("-- Configuring"))
		require.NoError(t, err)

		time.Sleep(40 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, got.get())

		time.Sleep(20 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"-- Configuring"}, got.get())

		require.NoError(t, bp.Close())
	})
}

func TestBatchProcessor_Close(t *testing.T) {
	var got chunks
	bp := telemetry.NewBatchProcessor(0, time.Hour, got.add)

	_, err := bp.Write([]byte("tail"))
	require.NoError(t, err)
	require.NoError(t, bp.Close())
	require.NoError(t, bp.Close())

	assert.Equal(t, []string{"tail"}, got.get())

	_, err = bp.Write([]byte("late"))
	require.Error(t, err)
}
