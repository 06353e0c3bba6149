package fs

import (
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// HashBytes returns the xxhash of data.
func HashBytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// HashFile returns the xxhash of the file content at path.
// Open errors are returned unwrapped so callers can test for fs.ErrNotExist.
func HashFile(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, err
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, err
	}
	return hasher.Sum64(), nil
}
