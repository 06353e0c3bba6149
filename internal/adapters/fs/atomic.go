// Package fs holds the file system helpers shared by the file-backed adapters.
package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/zerr"
)

// WriteFile atomically replaces path with data.
// The data goes to a temp file in the same directory which is synced and
// renamed into place, so readers never observe a partial file. Missing parent
// directories are created.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "dir", dir)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp file")
	}
	tmpName := tmpFile.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmpFile.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return zerr.Wrap(err, "failed to write temp file")
	}
	if err := tmpFile.Sync(); err != nil {
		return zerr.Wrap(err, "failed to sync temp file")
	}
	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, "failed to close temp file")
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to chmod temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, "failed to rename temp file")
	}
	committed = true
	return nil
}
