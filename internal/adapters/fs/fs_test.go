package fs_test

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/knob/internal/adapters/fs"
)

func TestWriteFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "CMakeCache.txt")

	require.NoError(t, fs.WriteFile(path, []byte("X:BOOL=ON\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "X:BOOL=ON\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteFile_ReplacesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.xml")

	require.NoError(t, fs.WriteFile(path, []byte("first")))
	require.NoError(t, fs.WriteFile(path, []byte("second")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.xml", entries[0].Name())
}

func TestWriteFile_ParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := fs.WriteFile(filepath.Join(blocker, "CMakeCache.txt"), []byte("x"))
	require.Error(t, err)
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))

	sum, err := fs.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, fs.HashBytes([]byte("content")), sum)

	_, err = fs.HashFile(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, iofs.ErrNotExist))
}
