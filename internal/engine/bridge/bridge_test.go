package bridge_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/knob/internal/core/ports/mocks"
	"go.trai.ch/knob/internal/engine/bridge"
	"go.uber.org/mock/gomock"
)

const cachePath = "/project/CMakeCache.txt"

func TestBridge_CommitNormalizesBeforeSaving(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCacheStore(ctrl)

	entries := domain.Entries{
		{Name: "BUILD_SHARED", Type: domain.TypeBool, Value: "yes"},
		{Name: "PREFIX", Type: domain.TypePath, Value: "/usr/local/"},
	}

	store.EXPECT().Save(cachePath, gomock.Any()).DoAndReturn(func(_ string, got domain.Entries) (uint64, error) {
		assert.Equal(t, "ON", got[0].Value)
		assert.Equal(t, "/usr/local", got[1].Value)
		return 42, nil
	})

	b := bridge.New(store)
	require.NoError(t, b.Commit(cachePath, entries))
	assert.Equal(t, "yes", entries[0].Value, "caller's list must not be rewritten")
}

func TestBridge_CommitRejectsInvalidWithoutWriting(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCacheStore(ctrl)
	// No Save expectation: gomock fails the test if Save is called.

	b := bridge.New(store)
	err := b.Commit(cachePath, domain.Entries{
		{Name: "OK", Type: domain.TypeString, Value: "x"},
		{Name: "BAD", Type: domain.TypeBool, Value: "sometimes"},
	})
	require.Error(t, err)
	assert.True(t, domain.IsCacheError(err))
}

func TestBridge_CommitPropagatesStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCacheStore(ctrl)
	store.EXPECT().Save(cachePath, gomock.Any()).Return(uint64(0), domain.ErrCacheWrite)

	b := bridge.New(store)
	err := b.Commit(cachePath, domain.Entries{{Name: "A", Type: domain.TypeString}})
	require.ErrorIs(t, err, domain.ErrCacheWrite)
}

func TestBridge_Stale(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCacheStore(ctrl)

	b := bridge.New(store)

	store.EXPECT().Fingerprint(cachePath).Return(uint64(7), nil)
	stale, err := b.Stale(cachePath)
	require.NoError(t, err)
	assert.True(t, stale, "unknown path is stale")

	store.EXPECT().Load(cachePath).Return(domain.Snapshot{Fingerprint: 7}, nil)
	_, err = b.Load(cachePath)
	require.NoError(t, err)

	store.EXPECT().Fingerprint(cachePath).Return(uint64(7), nil)
	stale, err = b.Stale(cachePath)
	require.NoError(t, err)
	assert.False(t, stale)

	store.EXPECT().Save(cachePath, gomock.Any()).Return(uint64(9), nil)
	require.NoError(t, b.Commit(cachePath, nil))

	store.EXPECT().Fingerprint(cachePath).Return(uint64(7), nil)
	stale, err = b.Stale(cachePath)
	require.NoError(t, err)
	assert.True(t, stale)

	store.EXPECT().Fingerprint(cachePath).Return(uint64(0), errors.New("gone"))
	_, err = b.Stale(cachePath)
	require.Error(t, err)
}
